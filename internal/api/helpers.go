package api

import (
	"errors"                       // Error inspection
	"io"                           // Empty body detection
	"nav_site/internal/middleware" // Error recording
	"nav_site/internal/utils"      // Error model and cache
	"net/http"                     // HTTP status codes

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// bindBody decodes the JSON body into req. An empty body leaves req untouched
// so the validators report the missing fields.
func bindBody(c *gin.Context, req any) error {
	if err := c.ShouldBindJSON(req); err != nil {
		if errors.Is(err, io.EOF) {
			return nil // No body
		}
		return utils.NewHTTPError(http.StatusBadRequest, "invalid JSON body", utils.WithCode(utils.CodeInvalidJSON), utils.WithCause(err))
	}
	return nil
}

// fail normalizes err (wrapping unknown failures with status/code/message) and hands it to the error middleware
func fail(c *gin.Context, err error, status int, code, message string) {
	middleware.AbortWithError(c, utils.NormalizeError(err, status, code, message))
}

// idParam validates the :id path parameter
func idParam(c *gin.Context, label string) (int64, error) {
	return utils.EnsurePositiveInt(c.Param("id"), label)
}

// listCacheKey resolves the versioned key of a list. It must run before the
// query; "" disables caching for this request.
func listCacheKey(c *gin.Context, cache *utils.Cache, prefix, suffix string) string {
	key, err := cache.ListKey(c.Request.Context(), prefix, suffix)
	if err != nil {
		logrus.WithError(err).WithField("prefix", prefix).Warn("Cache key lookup failed")
		return ""
	}
	return key
}

// readCache loads a cached list; cache failures are logged and treated as a miss
func readCache(c *gin.Context, cache *utils.Cache, key string, dest any) bool {
	if key == "" {
		return false
	}
	found, err := cache.Get(c.Request.Context(), key, dest)
	if err != nil {
		logrus.WithError(err).WithField("key", key).Warn("Cache read failed")
		return false
	}
	return found
}

// writeCache stores a list response; failures are logged only
func writeCache(c *gin.Context, cache *utils.Cache, key string, value any) {
	if key == "" {
		return
	}
	if err := cache.Set(c.Request.Context(), key, value); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("Cache write failed")
	}
}

// invalidateCache drops cached lists after a write
func invalidateCache(c *gin.Context, cache *utils.Cache, prefixes ...string) {
	if err := cache.Invalidate(c.Request.Context(), prefixes...); err != nil {
		logrus.WithError(err).WithField("keys", prefixes).Warn("Cache invalidation failed")
	}
}

// reject records a classified failure
func reject(c *gin.Context, status int, code, message string, cause error) {
	opts := []utils.HTTPErrorOption{utils.WithCode(code)}
	if cause != nil {
		opts = append(opts, utils.WithCause(cause))
	}
	middleware.AbortWithError(c, utils.NewHTTPError(status, message, opts...))
}
