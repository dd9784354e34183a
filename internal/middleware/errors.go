package middleware

import (
	"fmt"                     // Panic formatting
	"nav_site/internal/utils" // Error model
	"net/http"                // HTTP status codes
	"strings"                 // Code derivation
	"time"                    // Timestamps

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logrus for structured logging
)

const genericErrorMessage = "internal server error"

// AbortWithError records err for ErrorHandler and stops the handler chain.
// Unlike gin's AbortWithError it does not write the status line.
func AbortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// ErrorHandler renders the last error recorded on the context as
// {error, code, timestamp, path}, adding details and cause outside production.
func ErrorHandler(isProd bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		writeError(c, utils.NormalizeError(err, http.StatusInternalServerError, utils.CodeInternal, genericErrorMessage), isProd)
	}
}

// Recovery turns panics into the same error envelope
func Recovery(isProd bool) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		httpErr := utils.NewHTTPError(http.StatusInternalServerError, genericErrorMessage,
			utils.WithCode(utils.CodeInternal), utils.WithCause(fmt.Errorf("panic: %v", recovered)))
		writeError(c, httpErr, isProd)
		c.Abort()
	})
}

func writeError(c *gin.Context, httpErr *utils.HTTPError, isProd bool) {
	code := httpErr.Code
	if code == "" {
		code = codeForStatus(httpErr.Status)
	}
	message := httpErr.Message
	if message == "" || isProd && !httpErr.Exposed() {
		message = genericErrorMessage
	}

	body := gin.H{
		"error":     message,                               // Human-readable message
		"code":      code,                                  // Machine-readable code
		"timestamp": time.Now().UTC().Format(time.RFC3339), // When it happened
		"path":      c.Request.URL.Path,                    // Requested path
	}
	if !isProd {
		if httpErr.Details != nil {
			body["details"] = httpErr.Details
		}
		if httpErr.Cause != nil {
			body["cause"] = httpErr.Cause.Error()
		}
	}

	entry := logrus.WithFields(logrus.Fields{
		"status": httpErr.Status,     // Response status
		"code":   code,               // Error code
		"method": c.Request.Method,   // HTTP method
		"path":   c.Request.URL.Path, // Requested path
	})
	if httpErr.Cause != nil {
		entry = entry.WithError(httpErr.Cause)
	}
	if httpErr.Status >= http.StatusInternalServerError {
		entry.Error(httpErr.Message)
	} else {
		entry.Warn(httpErr.Message)
	}

	c.JSON(httpErr.Status, body)
}

// codeForStatus derives a code such as NOT_FOUND from the status text
func codeForStatus(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return utils.CodeInternal
	}
	return strings.ToUpper(strings.ReplaceAll(text, " ", "_"))
}
