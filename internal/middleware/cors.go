package middleware

import (
	"nav_site/internal/config" // Allowed origins
	"time"                     // Preflight cache duration

	"github.com/gin-contrib/cors" // CORS middleware for gin
	"github.com/gin-gonic/gin"    // Gin web framework
)

// CORS builds the CORS middleware from the configured origin list.
// A missing list or "*" allows every origin without credentials.
func CORS(cfg *config.Config) (gin.HandlerFunc, error) {
	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders: []string{"X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	if cfg.AllowsAnyOrigin() {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.CORSOrigins
		corsCfg.AllowCredentials = true
	}
	if err := corsCfg.Validate(); err != nil {
		return nil, err
	}
	return cors.New(corsCfg), nil
}
