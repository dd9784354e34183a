package api

import (
	"errors"                       // Error inspection
	"nav_site/internal/db"         // Storage context
	"nav_site/internal/domain"     // Importing domain models
	"nav_site/internal/middleware" // Authenticated identity
	"nav_site/internal/utils"      // Validators, JWT and password hashing
	"net/http"                     // HTTP status codes
	"unicode/utf8"                 // Username length in characters

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// Credential limits
const (
	minUsernameLength = 3
	maxUsernameLength = 50
	minPasswordLength = 6
)

// CredentialsRequest is the body of register and login requests
type CredentialsRequest struct {
	Username any `json:"username"` // Account name
	Password any `json:"password"` // Plain-text password
}

// AuthResponse is returned by a successful login
type AuthResponse struct {
	Message string `json:"message"` // Acknowledgment
	Token   string `json:"token"`   // JWT token
}

// requirePassword returns the password untrimmed; blank passwords are rejected
func requirePassword(value any) (string, error) {
	if _, err := utils.EnsureTrimmedString(value, "Password", utils.WithErrorCode("PASSWORD_REQUIRED")); err != nil {
		return "", err
	}
	return value.(string), nil
}

// validatePassword checks a new password
func validatePassword(value any) (string, error) {
	password, err := requirePassword(value)
	if err != nil {
		return "", err
	}
	if utf8.RuneCountInString(password) < minPasswordLength {
		return "", utils.NewHTTPError(http.StatusBadRequest, "password must be at least 6 characters",
			utils.WithCode("PASSWORD_TOO_SHORT"))
	}
	return password, nil
}

// RegisterHandler creates an account
func RegisterHandler(store *db.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CredentialsRequest
		if err := bindBody(c, &req); err != nil {
			fail(c, err, http.StatusBadRequest, utils.CodeInvalidJSON, "invalid JSON body")
			return
		}
		// Validate username and password
		username, err := utils.EnsureTrimmedString(req.Username, "Username", utils.WithErrorCode("USERNAME_REQUIRED"))
		if err != nil {
			fail(c, err, http.StatusBadRequest, utils.CodeFieldRequired, "invalid username")
			return
		}
		if n := utf8.RuneCountInString(username); n < minUsernameLength || n > maxUsernameLength {
			reject(c, http.StatusBadRequest, "USERNAME_LENGTH_INVALID", "username must be 3-50 characters", nil)
			return
		}
		password, err := validatePassword(req.Password)
		if err != nil {
			fail(c, err, http.StatusBadRequest, utils.CodeFieldRequired, "invalid password")
			return
		}

		conn, err := store.DB(c.Request.Context())
		if err != nil {
			fail(c, err, http.StatusInternalServerError, "REGISTER_FAILED", "registration failed")
			return
		}
		var existing int64
		if err := conn.Model(&domain.User{}).Where("username = ?", username).Count(&existing).Error; err != nil {
			fail(c, err, http.StatusInternalServerError, "REGISTER_FAILED", "registration failed")
			return
		}
		if existing > 0 {
			reject(c, http.StatusConflict, "USERNAME_EXISTS", "username already exists", nil)
			return
		}
		hash, err := utils.HashPassword(password)
		if err != nil {
			fail(c, err, http.StatusInternalServerError, "REGISTER_FAILED", "registration failed")
			return
		}
		user := domain.User{Username: username, Password: hash}
		if err := conn.Create(&user).Error; err != nil {
			// Lost a race with a concurrent registration
			if db.IsUniqueViolation(err) {
				reject(c, http.StatusConflict, "USERNAME_EXISTS", "username already exists", err)
				return
			}
			fail(c, err, http.StatusInternalServerError, "REGISTER_FAILED", "registration failed")
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":  user.ID,       // New user ID
			"username": user.Username, // Username
		}).Info("User registered")
		c.JSON(http.StatusCreated, gin.H{"id": user.ID, "message": "user registered"})
	}
}

// LoginHandler authenticates a user and returns a JWT token
func LoginHandler(store *db.Store, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CredentialsRequest
		if err := bindBody(c, &req); err != nil {
			fail(c, err, http.StatusBadRequest, utils.CodeInvalidJSON, "invalid JSON body")
			return
		}
		username, err := utils.EnsureTrimmedString(req.Username, "Username", utils.WithErrorCode("USERNAME_REQUIRED"))
		if err != nil {
			fail(c, err, http.StatusBadRequest, utils.CodeFieldRequired, "invalid username")
			return
		}
		password, err := requirePassword(req.Password)
		if err != nil {
			fail(c, err, http.StatusBadRequest, utils.CodeFieldRequired, "invalid password")
			return
		}

		conn, err := store.DB(c.Request.Context())
		if err != nil {
			fail(c, err, http.StatusInternalServerError, "LOGIN_FAILED", "login failed")
			return
		}
		var user domain.User // Fetch user from database
		if err := conn.Where("username = ?", username).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				reject(c, http.StatusUnauthorized, "USER_NOT_FOUND", "user not found", nil)
				return
			}
			fail(c, err, http.StatusInternalServerError, "LOGIN_FAILED", "login failed")
			return
		}
		// Compare provided password with stored hash
		if !utils.CheckPassword(user.Password, password) {
			reject(c, http.StatusUnauthorized, "PASSWORD_INCORRECT", "password incorrect", nil)
			return
		}
		token, err := utils.GenerateJWT(user.ID, user.Username, jwtSecret, utils.TokenTTL)
		if err != nil {
			fail(c, err, http.StatusInternalServerError, "TOKEN_GENERATION_FAILED", "failed to generate token")
			return
		}
		logrus.WithField("user_id", user.ID).Info("User logged in")
		c.JSON(http.StatusOK, AuthResponse{Message: "login successful", Token: token})
	}
}

// MeHandler echoes the identity carried by the token
func MeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, username, ok := middleware.CurrentUser(c)
		if !ok {
			reject(c, http.StatusUnauthorized, middleware.CodeTokenMissing, "authentication token required", nil)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": userID, "username": username})
	}
}
