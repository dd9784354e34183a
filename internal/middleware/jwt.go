package middleware

import (
	"errors"                  // Error inspection
	"nav_site/internal/utils" // JWT utility functions
	"net/http"                // HTTP status codes
	"strings"                 // String manipulation

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/golang-jwt/jwt/v5" // JWT error values
)

// Context keys set by JWTAuthMiddleware
const (
	ContextUserID   = "userID"
	ContextUsername = "username"
)

// Authentication error codes
const (
	CodeTokenMissing = "TOKEN_MISSING"
	CodeTokenExpired = "TOKEN_EXPIRED"
	CodeTokenInvalid = "TOKEN_INVALID"
	CodeAuthFailed   = "AUTH_FAILED"
)

// JWTAuthMiddleware validates JWT tokens and extracts user information.
// It accepts "Bearer <token>" or a bare token and never touches storage.
func JWTAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := extractToken(c.GetHeader("Authorization")) // Get token from Authorization header
		// Check if a token was provided at all
		if tokenStr == "" {
			AbortWithError(c, utils.NewHTTPError(http.StatusUnauthorized, "authentication token required", utils.WithCode(CodeTokenMissing)))
			return
		}
		claims, err := utils.ParseJWT(tokenStr, secret) // Parse the JWT token
		if err != nil {
			AbortWithError(c, classifyTokenError(err)) // Expired, invalid or unexpected failure
			return
		}
		c.Set(ContextUserID, claims.UserID)     // Store userID in context
		c.Set(ContextUsername, claims.Username) // Store username in context
		c.Next()                                // Proceed to the next handler
	}
}

// CurrentUser returns the identity attached by JWTAuthMiddleware
func CurrentUser(c *gin.Context) (int64, string, bool) {
	id, ok := c.Get(ContextUserID)
	if !ok {
		return 0, "", false
	}
	userID, ok := id.(int64)
	if !ok {
		return 0, "", false
	}
	return userID, c.GetString(ContextUsername), true
}

func extractToken(header string) string {
	fields := strings.Fields(header)
	switch {
	case len(fields) == 0:
		return ""
	case strings.EqualFold(fields[0], "Bearer"):
		if len(fields) == 2 {
			return fields[1]
		}
		return "" // "Bearer" with no token or with extra parts
	case len(fields) == 1:
		return fields[0] // Bare token
	default:
		return ""
	}
}

func classifyTokenError(err error) *utils.HTTPError {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return utils.NewHTTPError(http.StatusUnauthorized, "token expired", utils.WithCode(CodeTokenExpired), utils.WithCause(err))
	case errors.Is(err, jwt.ErrTokenMalformed),
		errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable),
		errors.Is(err, jwt.ErrTokenInvalidClaims),
		errors.Is(err, jwt.ErrTokenNotValidYet),
		errors.Is(err, jwt.ErrTokenRequiredClaimMissing),
		errors.Is(err, jwt.ErrTokenUsedBeforeIssued):
		return utils.NewHTTPError(http.StatusUnauthorized, "token invalid", utils.WithCode(CodeTokenInvalid), utils.WithCause(err))
	default:
		return utils.NewHTTPError(http.StatusInternalServerError, "authentication failed", utils.WithCode(CodeAuthFailed), utils.WithCause(err))
	}
}
