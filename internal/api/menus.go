package api

import (
	"nav_site/internal/db"     // Storage context
	"nav_site/internal/domain" // Importing domain models
	"nav_site/internal/utils"  // Validators, errors and cache
	"net/http"                 // HTTP status codes

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// MenuRequest is the body of menu create and update requests.
// Fields stay untyped so validation can tell "missing" from "wrong type".
type MenuRequest struct {
	Name       any `json:"name"`        // Required display name
	Icon       any `json:"icon"`        // Optional icon
	OrderIndex any `json:"order_index"` // Optional sort position, defaults to 0
}

// toMenu validates the request and builds the row to write
func (r MenuRequest) toMenu() (*domain.Menu, error) {
	name, err := utils.EnsureTrimmedString(r.Name, "Menu name", utils.WithErrorCode("MENU_NAME_REQUIRED"))
	if err != nil {
		return nil, err
	}
	orderIndex, err := utils.EnsureNonNegativeInt(r.OrderIndex, "Order index", utils.WithErrorCode("MENU_ORDER_INVALID"))
	if err != nil {
		return nil, err
	}
	return &domain.Menu{Name: name, Icon: utils.EnsureOptionalString(r.Icon), OrderIndex: orderIndex}, nil
}

// ListMenusHandler returns all menus in display order
func ListMenusHandler(store *db.Store, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		menus := []domain.Menu{} // Never render null
		// Serve from cache when possible
		cacheKey := listCacheKey(c, cache, utils.CacheKeyMenus, "") // Resolved before the query
		if readCache(c, cache, cacheKey, &menus) {
			c.JSON(http.StatusOK, menus)
			return
		}
		conn, err := store.DB(c.Request.Context()) // Wait for bootstrap
		if err != nil {
			fail(c, err, http.StatusInternalServerError, "MENU_LIST_FAILED", "failed to list menus")
			return
		}
		if err := conn.Order("order_index ASC").Order("id ASC").Find(&menus).Error; err != nil {
			fail(c, err, http.StatusInternalServerError, "MENU_LIST_FAILED", "failed to list menus")
			return
		}
		writeCache(c, cache, cacheKey, menus) // Cache for later requests
		c.JSON(http.StatusOK, menus)
	}
}

// CreateMenuHandler creates a menu
func CreateMenuHandler(store *db.Store, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req MenuRequest // Bind JSON request to struct
		if err := bindBody(c, &req); err != nil {
			fail(c, err, http.StatusBadRequest, utils.CodeInvalidJSON, "invalid JSON body")
			return
		}
		menu, err := req.toMenu() // Validate fields
		if err != nil {
			fail(c, err, http.StatusBadRequest, utils.CodeFieldRequired, "invalid menu")
			return
		}
		conn, err := store.DB(c.Request.Context())
		if err != nil {
			fail(c, err, http.StatusInternalServerError, "MENU_CREATE_FAILED", "failed to create menu")
			return
		}
		if err := conn.Create(menu).Error; err != nil {
			if db.IsUniqueViolation(err) {
				reject(c, http.StatusConflict, "MENU_DUPLICATED", "menu already exists", err)
				return
			}
			fail(c, err, http.StatusInternalServerError, "MENU_CREATE_FAILED", "failed to create menu")
			return
		}
		invalidateCache(c, cache, utils.CacheKeyMenus) // Drop stale list
		logrus.WithFields(logrus.Fields{
			"menu_id": menu.ID,   // New menu ID
			"name":    menu.Name, // Menu name
		}).Info("Menu created")
		c.JSON(http.StatusCreated, gin.H{"id": menu.ID, "message": "menu created"})
	}
}

// UpdateMenuHandler replaces a menu's fields
func UpdateMenuHandler(store *db.Store, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		menuID, err := idParam(c, "Menu ID") // Validate path ID
		if err != nil {
			fail(c, err, http.StatusBadRequest, utils.CodeInvalidID, "invalid menu ID")
			return
		}
		var req MenuRequest
		if err := bindBody(c, &req); err != nil {
			fail(c, err, http.StatusBadRequest, utils.CodeInvalidJSON, "invalid JSON body")
			return
		}
		menu, err := req.toMenu()
		if err != nil {
			fail(c, err, http.StatusBadRequest, utils.CodeFieldRequired, "invalid menu")
			return
		}
		conn, err := store.DB(c.Request.Context())
		if err != nil {
			fail(c, err, http.StatusInternalServerError, "MENU_UPDATE_FAILED", "failed to update menu")
			return
		}
		res := conn.Model(&domain.Menu{}).Where("id = ?", menuID).Updates(map[string]any{
			"name":        menu.Name,
			"icon":        menu.Icon,
			"order_index": menu.OrderIndex,
		})
		if res.Error != nil {
			if db.IsUniqueViolation(res.Error) {
				reject(c, http.StatusConflict, "MENU_DUPLICATED", "menu already exists", res.Error)
				return
			}
			fail(c, res.Error, http.StatusInternalServerError, "MENU_UPDATE_FAILED", "failed to update menu")
			return
		}
		// Nothing matched the ID
		if res.RowsAffected == 0 {
			reject(c, http.StatusNotFound, "MENU_NOT_FOUND", "menu not found", nil)
			return
		}
		invalidateCache(c, cache, utils.CacheKeyMenus)
		c.JSON(http.StatusOK, gin.H{"message": "menu updated"})
	}
}

// DeleteMenuHandler deletes a menu and, through the foreign key, its cards
func DeleteMenuHandler(store *db.Store, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		menuID, err := idParam(c, "Menu ID")
		if err != nil {
			fail(c, err, http.StatusBadRequest, utils.CodeInvalidID, "invalid menu ID")
			return
		}
		conn, err := store.DB(c.Request.Context())
		if err != nil {
			fail(c, err, http.StatusInternalServerError, "MENU_DELETE_FAILED", "failed to delete menu")
			return
		}
		res := conn.Delete(&domain.Menu{}, menuID)
		if res.Error != nil {
			fail(c, res.Error, http.StatusInternalServerError, "MENU_DELETE_FAILED", "failed to delete menu")
			return
		}
		if res.RowsAffected == 0 {
			reject(c, http.StatusNotFound, "MENU_NOT_FOUND", "menu not found", nil)
			return
		}
		invalidateCache(c, cache, utils.CacheKeyMenus, utils.CacheKeyCards) // Cards cascade with the menu
		logrus.WithField("menu_id", menuID).Info("Menu deleted")
		c.JSON(http.StatusOK, gin.H{"message": "menu deleted"})
	}
}
