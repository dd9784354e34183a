package api

import (
	"nav_site/internal/db"     // Storage context
	"nav_site/internal/domain" // Importing domain models
	"nav_site/internal/utils"  // Validators, errors and cache
	"net/http"                 // HTTP status codes

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// FriendLinkRequest is the body of friend link create and update requests
type FriendLinkRequest struct {
	Name       any `json:"name"`        // Required site name
	URL        any `json:"url"`         // Required, unique site URL
	Logo       any `json:"logo"`        // Optional logo
	OrderIndex any `json:"order_index"` // Optional sort position
}

func (r FriendLinkRequest) toFriendLink() (*domain.FriendLink, error) {
	name, err := utils.EnsureTrimmedString(r.Name, "Friend link name", utils.WithErrorCode("FRIEND_NAME_REQUIRED"))
	if err != nil {
		return nil, err
	}
	url, err := utils.EnsureTrimmedString(r.URL, "Friend link URL", utils.WithErrorCode("FRIEND_URL_REQUIRED"))
	if err != nil {
		return nil, err
	}
	orderIndex, err := utils.EnsureNonNegativeInt(r.OrderIndex, "Order index", utils.WithErrorCode("FRIEND_ORDER_INVALID"))
	if err != nil {
		return nil, err
	}
	return &domain.FriendLink{Name: name, URL: url, Logo: utils.EnsureOptionalString(r.Logo), OrderIndex: orderIndex}, nil
}

// ListFriendLinksHandler returns friend links in display order
func ListFriendLinksHandler(store *db.Store, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		links := []domain.FriendLink{}
		cacheKey := listCacheKey(c, cache, utils.CacheKeyFriends, "") // Resolved before the query
		if readCache(c, cache, cacheKey, &links) {
			c.JSON(http.StatusOK, links)
			return
		}
		conn, err := store.DB(c.Request.Context())
		if err != nil {
			fail(c, err, http.StatusInternalServerError, "FRIEND_LIST_FAILED", "failed to list friend links")
			return
		}
		if err := conn.Order("order_index ASC").Order("id ASC").Find(&links).Error; err != nil {
			fail(c, err, http.StatusInternalServerError, "FRIEND_LIST_FAILED", "failed to list friend links")
			return
		}
		writeCache(c, cache, cacheKey, links)
		c.JSON(http.StatusOK, links)
	}
}

// CreateFriendLinkHandler creates a friend link
func CreateFriendLinkHandler(store *db.Store, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req FriendLinkRequest
		if err := bindBody(c, &req); err != nil {
			fail(c, err, http.StatusBadRequest, utils.CodeInvalidJSON, "invalid JSON body")
			return
		}
		link, err := req.toFriendLink()
		if err != nil {
			fail(c, err, http.StatusBadRequest, utils.CodeFieldRequired, "invalid friend link")
			return
		}
		conn, err := store.DB(c.Request.Context())
		if err != nil {
			fail(c, err, http.StatusInternalServerError, "FRIEND_CREATE_FAILED", "failed to create friend link")
			return
		}
		if err := conn.Create(link).Error; err != nil {
			if db.IsUniqueViolation(err) {
				reject(c, http.StatusConflict, "FRIEND_URL_EXISTS", "friend link URL already exists", err)
				return
			}
			fail(c, err, http.StatusInternalServerError, "FRIEND_CREATE_FAILED", "failed to create friend link")
			return
		}
		invalidateCache(c, cache, utils.CacheKeyFriends)
		logrus.WithFields(logrus.Fields{
			"friend_id": link.ID,  // New link ID
			"url":       link.URL, // Link URL
		}).Info("Friend link created")
		c.JSON(http.StatusCreated, gin.H{"id": link.ID, "message": "friend link created"})
	}
}

// UpdateFriendLinkHandler replaces a friend link's fields
func UpdateFriendLinkHandler(store *db.Store, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		linkID, err := idParam(c, "Friend link ID")
		if err != nil {
			fail(c, err, http.StatusBadRequest, utils.CodeInvalidID, "invalid friend link ID")
			return
		}
		var req FriendLinkRequest
		if err := bindBody(c, &req); err != nil {
			fail(c, err, http.StatusBadRequest, utils.CodeInvalidJSON, "invalid JSON body")
			return
		}
		link, err := req.toFriendLink()
		if err != nil {
			fail(c, err, http.StatusBadRequest, utils.CodeFieldRequired, "invalid friend link")
			return
		}
		conn, err := store.DB(c.Request.Context())
		if err != nil {
			fail(c, err, http.StatusInternalServerError, "FRIEND_UPDATE_FAILED", "failed to update friend link")
			return
		}
		res := conn.Model(&domain.FriendLink{}).Where("id = ?", linkID).Updates(map[string]any{
			"name":        link.Name,
			"url":         link.URL,
			"logo":        link.Logo,
			"order_index": link.OrderIndex,
		})
		if res.Error != nil {
			if db.IsUniqueViolation(res.Error) {
				reject(c, http.StatusConflict, "FRIEND_URL_EXISTS", "friend link URL already exists", res.Error)
				return
			}
			fail(c, res.Error, http.StatusInternalServerError, "FRIEND_UPDATE_FAILED", "failed to update friend link")
			return
		}
		if res.RowsAffected == 0 {
			reject(c, http.StatusNotFound, "FRIEND_NOT_FOUND", "friend link not found", nil)
			return
		}
		invalidateCache(c, cache, utils.CacheKeyFriends)
		c.JSON(http.StatusOK, gin.H{"message": "friend link updated"})
	}
}

// DeleteFriendLinkHandler deletes a friend link
func DeleteFriendLinkHandler(store *db.Store, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		linkID, err := idParam(c, "Friend link ID")
		if err != nil {
			fail(c, err, http.StatusBadRequest, utils.CodeInvalidID, "invalid friend link ID")
			return
		}
		conn, err := store.DB(c.Request.Context())
		if err != nil {
			fail(c, err, http.StatusInternalServerError, "FRIEND_DELETE_FAILED", "failed to delete friend link")
			return
		}
		res := conn.Delete(&domain.FriendLink{}, linkID)
		if res.Error != nil {
			fail(c, res.Error, http.StatusInternalServerError, "FRIEND_DELETE_FAILED", "failed to delete friend link")
			return
		}
		if res.RowsAffected == 0 {
			reject(c, http.StatusNotFound, "FRIEND_NOT_FOUND", "friend link not found", nil)
			return
		}
		invalidateCache(c, cache, utils.CacheKeyFriends)
		c.JSON(http.StatusOK, gin.H{"message": "friend link deleted"})
	}
}
