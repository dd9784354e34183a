package api

import (
	"context"              // Count timeout
	"nav_site/internal/db" // Storage context
	"net/http"             // HTTP status codes
	"time"                 // Uptime and timestamps

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

const healthTimeout = 2 * time.Second

// HealthHandler reports uptime and per-table row counts
func HealthHandler(store *db.Store, started time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()

		body := gin.H{
			"uptime":    time.Since(started).Seconds(),         // Seconds since start
			"timestamp": time.Now().UTC().Format(time.RFC3339), // Current time
			"database":  store.Path(),                          // Database file
		}
		counts, err := store.Counts(ctx)
		if err != nil {
			logrus.WithError(err).Error("Health check failed")
			body["status"] = "error"
			body["error"] = "database unavailable"
			c.JSON(http.StatusInternalServerError, body)
			return
		}
		body["status"] = "ok"
		body["tables"] = counts
		c.JSON(http.StatusOK, body)
	}
}
