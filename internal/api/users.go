package api

import (
	"nav_site/internal/db"     // Storage context
	"nav_site/internal/domain" // Importing domain models
	"nav_site/internal/utils"  // Validators and password hashing
	"net/http"                 // HTTP status codes

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// UserResponse is the public view of an account
type UserResponse struct {
	ID       int64  `json:"id"`       // User ID
	Username string `json:"username"` // Username
}

// PasswordRequest is the body of a password change
type PasswordRequest struct {
	Password any `json:"password"` // New plain-text password
}

// ListUsersHandler returns every account without password hashes
func ListUsersHandler(store *db.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := store.DB(c.Request.Context())
		if err != nil {
			fail(c, err, http.StatusInternalServerError, "USER_LIST_FAILED", "failed to list users")
			return
		}
		users := []UserResponse{}
		if err := conn.Model(&domain.User{}).Select("id", "username").Order("id ASC").Find(&users).Error; err != nil {
			fail(c, err, http.StatusInternalServerError, "USER_LIST_FAILED", "failed to list users")
			return
		}
		c.JSON(http.StatusOK, users)
	}
}

// UpdatePasswordHandler replaces a user's password
func UpdatePasswordHandler(store *db.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := idParam(c, "User ID")
		if err != nil {
			fail(c, err, http.StatusBadRequest, utils.CodeInvalidID, "invalid user ID")
			return
		}
		var req PasswordRequest
		if err := bindBody(c, &req); err != nil {
			fail(c, err, http.StatusBadRequest, utils.CodeInvalidJSON, "invalid JSON body")
			return
		}
		password, err := validatePassword(req.Password)
		if err != nil {
			fail(c, err, http.StatusBadRequest, utils.CodeFieldRequired, "invalid password")
			return
		}
		hash, err := utils.HashPassword(password)
		if err != nil {
			fail(c, err, http.StatusInternalServerError, "PASSWORD_UPDATE_FAILED", "failed to update password")
			return
		}
		conn, err := store.DB(c.Request.Context())
		if err != nil {
			fail(c, err, http.StatusInternalServerError, "PASSWORD_UPDATE_FAILED", "failed to update password")
			return
		}
		res := conn.Model(&domain.User{}).Where("id = ?", userID).Update("password", hash)
		if res.Error != nil {
			fail(c, res.Error, http.StatusInternalServerError, "PASSWORD_UPDATE_FAILED", "failed to update password")
			return
		}
		if res.RowsAffected == 0 {
			reject(c, http.StatusNotFound, "USER_NOT_FOUND", "user not found", nil)
			return
		}
		logrus.WithField("user_id", userID).Info("Password updated")
		c.JSON(http.StatusOK, gin.H{"message": "password updated"})
	}
}

// DeleteUserHandler deletes an account
func DeleteUserHandler(store *db.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := idParam(c, "User ID")
		if err != nil {
			fail(c, err, http.StatusBadRequest, utils.CodeInvalidID, "invalid user ID")
			return
		}
		conn, err := store.DB(c.Request.Context())
		if err != nil {
			fail(c, err, http.StatusInternalServerError, "USER_DELETE_FAILED", "failed to delete user")
			return
		}
		res := conn.Delete(&domain.User{}, userID)
		if res.Error != nil {
			fail(c, res.Error, http.StatusInternalServerError, "USER_DELETE_FAILED", "failed to delete user")
			return
		}
		if res.RowsAffected == 0 {
			reject(c, http.StatusNotFound, "USER_NOT_FOUND", "user not found", nil)
			return
		}
		logrus.WithField("user_id", userID).Info("User deleted")
		c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
	}
}
