package api

import (
	"nav_site/internal/db"     // Storage context
	"nav_site/internal/domain" // Importing domain models
	"nav_site/internal/utils"  // Validators, errors and cache
	"net/http"                 // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework
)

// AdRequest is the body of ad create and update requests
type AdRequest struct {
	Image any `json:"image"` // Required banner image
	Link  any `json:"link"`  // Optional click-through link
}

func (r AdRequest) toAd() (*domain.Ad, error) {
	image, err := utils.EnsureTrimmedString(r.Image, "Ad image", utils.WithErrorCode("AD_IMAGE_REQUIRED"))
	if err != nil {
		return nil, err
	}
	return &domain.Ad{Image: image, Link: utils.EnsureOptionalString(r.Link)}, nil
}

// ListAdsHandler returns all ads in insertion order
func ListAdsHandler(store *db.Store, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		ads := []domain.Ad{}
		cacheKey := listCacheKey(c, cache, utils.CacheKeyAds, "") // Resolved before the query
		if readCache(c, cache, cacheKey, &ads) {
			c.JSON(http.StatusOK, ads)
			return
		}
		conn, err := store.DB(c.Request.Context())
		if err != nil {
			fail(c, err, http.StatusInternalServerError, "AD_LIST_FAILED", "failed to list ads")
			return
		}
		if err := conn.Order("id ASC").Find(&ads).Error; err != nil {
			fail(c, err, http.StatusInternalServerError, "AD_LIST_FAILED", "failed to list ads")
			return
		}
		writeCache(c, cache, cacheKey, ads)
		c.JSON(http.StatusOK, ads)
	}
}

// CreateAdHandler creates an ad
func CreateAdHandler(store *db.Store, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AdRequest
		if err := bindBody(c, &req); err != nil {
			fail(c, err, http.StatusBadRequest, utils.CodeInvalidJSON, "invalid JSON body")
			return
		}
		ad, err := req.toAd()
		if err != nil {
			fail(c, err, http.StatusBadRequest, utils.CodeFieldRequired, "invalid ad")
			return
		}
		conn, err := store.DB(c.Request.Context())
		if err != nil {
			fail(c, err, http.StatusInternalServerError, "AD_CREATE_FAILED", "failed to create ad")
			return
		}
		if err := conn.Create(ad).Error; err != nil {
			fail(c, err, http.StatusInternalServerError, "AD_CREATE_FAILED", "failed to create ad")
			return
		}
		invalidateCache(c, cache, utils.CacheKeyAds)
		c.JSON(http.StatusCreated, gin.H{"id": ad.ID, "message": "ad created"})
	}
}

// UpdateAdHandler replaces an ad's fields
func UpdateAdHandler(store *db.Store, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		adID, err := idParam(c, "Ad ID")
		if err != nil {
			fail(c, err, http.StatusBadRequest, utils.CodeInvalidID, "invalid ad ID")
			return
		}
		var req AdRequest
		if err := bindBody(c, &req); err != nil {
			fail(c, err, http.StatusBadRequest, utils.CodeInvalidJSON, "invalid JSON body")
			return
		}
		ad, err := req.toAd()
		if err != nil {
			fail(c, err, http.StatusBadRequest, utils.CodeFieldRequired, "invalid ad")
			return
		}
		conn, err := store.DB(c.Request.Context())
		if err != nil {
			fail(c, err, http.StatusInternalServerError, "AD_UPDATE_FAILED", "failed to update ad")
			return
		}
		res := conn.Model(&domain.Ad{}).Where("id = ?", adID).Updates(map[string]any{
			"image": ad.Image,
			"link":  ad.Link,
		})
		if res.Error != nil {
			fail(c, res.Error, http.StatusInternalServerError, "AD_UPDATE_FAILED", "failed to update ad")
			return
		}
		if res.RowsAffected == 0 {
			reject(c, http.StatusNotFound, "AD_NOT_FOUND", "ad not found", nil)
			return
		}
		invalidateCache(c, cache, utils.CacheKeyAds)
		c.JSON(http.StatusOK, gin.H{"message": "ad updated"})
	}
}

// DeleteAdHandler deletes an ad
func DeleteAdHandler(store *db.Store, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		adID, err := idParam(c, "Ad ID")
		if err != nil {
			fail(c, err, http.StatusBadRequest, utils.CodeInvalidID, "invalid ad ID")
			return
		}
		conn, err := store.DB(c.Request.Context())
		if err != nil {
			fail(c, err, http.StatusInternalServerError, "AD_DELETE_FAILED", "failed to delete ad")
			return
		}
		res := conn.Delete(&domain.Ad{}, adID)
		if res.Error != nil {
			fail(c, res.Error, http.StatusInternalServerError, "AD_DELETE_FAILED", "failed to delete ad")
			return
		}
		if res.RowsAffected == 0 {
			reject(c, http.StatusNotFound, "AD_NOT_FOUND", "ad not found", nil)
			return
		}
		invalidateCache(c, cache, utils.CacheKeyAds)
		c.JSON(http.StatusOK, gin.H{"message": "ad deleted"})
	}
}
