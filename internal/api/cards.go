package api

import (
	"nav_site/internal/db"     // Storage context
	"nav_site/internal/domain" // Importing domain models
	"nav_site/internal/utils"  // Validators, errors and cache
	"net/http"                 // HTTP status codes
	"strconv"                  // Cache key formatting

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// CardRequest is the body of card create and update requests
type CardRequest struct {
	Title  any `json:"title"`   // Required link title
	URL    any `json:"url"`     // Required target URL
	Icon   any `json:"icon"`    // Optional icon
	MenuID any `json:"menu_id"` // Optional owning menu
}

// toCard validates the request and builds the row to write
func (r CardRequest) toCard() (*domain.Card, error) {
	title, err := utils.EnsureTrimmedString(r.Title, "Card title", utils.WithErrorCode("CARD_TITLE_REQUIRED"))
	if err != nil {
		return nil, err
	}
	url, err := utils.EnsureTrimmedString(r.URL, "Card URL", utils.WithErrorCode("CARD_URL_REQUIRED"))
	if err != nil {
		return nil, err
	}
	card := &domain.Card{Title: title, URL: url, Icon: utils.EnsureOptionalString(r.Icon)}
	// menu_id is optional, but must be a valid ID when given
	if r.MenuID != nil && r.MenuID != "" {
		menuID, err := utils.EnsurePositiveInt(r.MenuID, "Menu ID")
		if err != nil {
			return nil, err
		}
		card.MenuID = &menuID
	}
	return card, nil
}

// ListCardsHandler returns cards, newest first, optionally filtered by ?menu_id=
func ListCardsHandler(store *db.Store, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var menuID int64 // Zero means no filter
		if raw, ok := c.GetQuery("menu_id"); ok && raw != "" {
			id, err := utils.EnsurePositiveInt(raw, "Menu ID")
			if err != nil {
				fail(c, err, http.StatusBadRequest, utils.CodeInvalidID, "invalid menu ID")
				return
			}
			menuID = id
		}
		suffix := ":menu=all"
		if menuID > 0 {
			suffix = ":menu=" + strconv.FormatInt(menuID, 10)
		}
		cacheKey := listCacheKey(c, cache, utils.CacheKeyCards, suffix) // Resolved before the query
		cards := []domain.Card{}
		if readCache(c, cache, cacheKey, &cards) {
			c.JSON(http.StatusOK, cards)
			return
		}
		conn, err := store.DB(c.Request.Context())
		if err != nil {
			fail(c, err, http.StatusInternalServerError, "CARD_LIST_FAILED", "failed to list cards")
			return
		}
		query := conn.Model(&domain.Card{}) // Start building the query
		if menuID > 0 {
			query = query.Where("menu_id = ?", menuID) // Filter by menu
		}
		if err := query.Order("id DESC").Find(&cards).Error; err != nil {
			fail(c, err, http.StatusInternalServerError, "CARD_LIST_FAILED", "failed to list cards")
			return
		}
		writeCache(c, cache, cacheKey, cards)
		c.JSON(http.StatusOK, cards)
	}
}

// CreateCardHandler creates a card
func CreateCardHandler(store *db.Store, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CardRequest
		if err := bindBody(c, &req); err != nil {
			fail(c, err, http.StatusBadRequest, utils.CodeInvalidJSON, "invalid JSON body")
			return
		}
		card, err := req.toCard()
		if err != nil {
			fail(c, err, http.StatusBadRequest, utils.CodeFieldRequired, "invalid card")
			return
		}
		conn, err := store.DB(c.Request.Context())
		if err != nil {
			fail(c, err, http.StatusInternalServerError, "CARD_CREATE_FAILED", "failed to create card")
			return
		}
		if err := conn.Create(card).Error; err != nil {
			// The menu it points at does not exist
			if db.IsForeignKeyViolation(err) {
				reject(c, http.StatusBadRequest, "CARD_MENU_NOT_FOUND", "referenced menu does not exist", err)
				return
			}
			fail(c, err, http.StatusInternalServerError, "CARD_CREATE_FAILED", "failed to create card")
			return
		}
		invalidateCache(c, cache, utils.CacheKeyCards)
		logrus.WithFields(logrus.Fields{
			"card_id": card.ID,    // New card ID
			"title":   card.Title, // Card title
		}).Info("Card created")
		c.JSON(http.StatusCreated, gin.H{"id": card.ID, "message": "card created"})
	}
}

// UpdateCardHandler replaces a card's fields
func UpdateCardHandler(store *db.Store, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		cardID, err := idParam(c, "Card ID")
		if err != nil {
			fail(c, err, http.StatusBadRequest, utils.CodeInvalidID, "invalid card ID")
			return
		}
		var req CardRequest
		if err := bindBody(c, &req); err != nil {
			fail(c, err, http.StatusBadRequest, utils.CodeInvalidJSON, "invalid JSON body")
			return
		}
		card, err := req.toCard()
		if err != nil {
			fail(c, err, http.StatusBadRequest, utils.CodeFieldRequired, "invalid card")
			return
		}
		conn, err := store.DB(c.Request.Context())
		if err != nil {
			fail(c, err, http.StatusInternalServerError, "CARD_UPDATE_FAILED", "failed to update card")
			return
		}
		res := conn.Model(&domain.Card{}).Where("id = ?", cardID).Updates(map[string]any{
			"title":   card.Title,
			"url":     card.URL,
			"icon":    card.Icon,
			"menu_id": card.MenuID,
		})
		if res.Error != nil {
			if db.IsForeignKeyViolation(res.Error) {
				reject(c, http.StatusBadRequest, "CARD_MENU_NOT_FOUND", "referenced menu does not exist", res.Error)
				return
			}
			fail(c, res.Error, http.StatusInternalServerError, "CARD_UPDATE_FAILED", "failed to update card")
			return
		}
		if res.RowsAffected == 0 {
			reject(c, http.StatusNotFound, "CARD_NOT_FOUND", "card not found", nil)
			return
		}
		invalidateCache(c, cache, utils.CacheKeyCards)
		c.JSON(http.StatusOK, gin.H{"message": "card updated"})
	}
}

// DeleteCardHandler deletes a card
func DeleteCardHandler(store *db.Store, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		cardID, err := idParam(c, "Card ID")
		if err != nil {
			fail(c, err, http.StatusBadRequest, utils.CodeInvalidID, "invalid card ID")
			return
		}
		conn, err := store.DB(c.Request.Context())
		if err != nil {
			fail(c, err, http.StatusInternalServerError, "CARD_DELETE_FAILED", "failed to delete card")
			return
		}
		res := conn.Delete(&domain.Card{}, cardID)
		if res.Error != nil {
			fail(c, res.Error, http.StatusInternalServerError, "CARD_DELETE_FAILED", "failed to delete card")
			return
		}
		if res.RowsAffected == 0 {
			reject(c, http.StatusNotFound, "CARD_NOT_FOUND", "card not found", nil)
			return
		}
		invalidateCache(c, cache, utils.CacheKeyCards)
		c.JSON(http.StatusOK, gin.H{"message": "card deleted"})
	}
}
