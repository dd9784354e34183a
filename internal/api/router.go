package api

import (
	"errors"                       // Error inspection
	"io/fs"                        // fs.ErrNotExist
	"nav_site/internal/config"     // Application configuration
	"nav_site/internal/db"         // Storage context
	"nav_site/internal/middleware" // Auth, errors, CORS and logging
	"nav_site/internal/utils"      // Error model and cache
	"net/http"                     // HTTP status codes
	"os"                           // Static file checks
	"path"                         // URL path cleaning
	"path/filepath"                // File system paths
	"strings"                      // Prefix and header checks
	"time"                         // Process start time

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// resourceHandlers are the four CRUD endpoints of one resource
type resourceHandlers struct {
	list, create, update, remove gin.HandlerFunc
}

// NewRouter builds the HTTP surface: every resource under its plural and
// singular path, health, uploads and, in production, the SPA build.
func NewRouter(cfg *config.Config, store *db.Store, cache *utils.Cache) (*gin.Engine, error) {
	started := time.Now()

	r := gin.New()
	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		return nil, err
	}
	corsHandler, err := middleware.CORS(cfg)
	if err != nil {
		return nil, err
	}
	r.Use(
		middleware.RequestLogger(),
		middleware.Recovery(cfg.IsProd),
		corsHandler,
		middleware.ErrorHandler(cfg.IsProd),
	)
	auth := middleware.JWTAuthMiddleware(cfg.JWTSecret)

	r.GET("/api/health", HealthHandler(store, started))

	// Auth routes
	authGroup := r.Group("/api/auth")
	authGroup.POST("/register", RegisterHandler(store))
	authGroup.POST("/login", LoginHandler(store, cfg.JWTSecret))
	authGroup.GET("/me", auth, MeHandler())

	mountResource(r, auth, resourceHandlers{
		list:   ListMenusHandler(store, cache),
		create: CreateMenuHandler(store, cache),
		update: UpdateMenuHandler(store, cache),
		remove: DeleteMenuHandler(store, cache),
	}, "/api/menus", "/api/menu")
	mountResource(r, auth, resourceHandlers{
		list:   ListCardsHandler(store, cache),
		create: CreateCardHandler(store, cache),
		update: UpdateCardHandler(store, cache),
		remove: DeleteCardHandler(store, cache),
	}, "/api/cards", "/api/card")
	mountResource(r, auth, resourceHandlers{
		list:   ListAdsHandler(store, cache),
		create: CreateAdHandler(store, cache),
		update: UpdateAdHandler(store, cache),
		remove: DeleteAdHandler(store, cache),
	}, "/api/ads", "/api/ad")
	mountResource(r, auth, resourceHandlers{
		list:   ListFriendLinksHandler(store, cache),
		create: CreateFriendLinkHandler(store, cache),
		update: UpdateFriendLinkHandler(store, cache),
		remove: DeleteFriendLinkHandler(store, cache),
	}, "/api/friends", "/api/friend")

	// User routes (protected by JWT, reads included)
	for _, base := range []string{"/api/users", "/api/user"} {
		userGroup := r.Group(base, auth)
		userGroup.GET("", ListUsersHandler(store))
		userGroup.PUT("/:id/password", UpdatePasswordHandler(store))
		userGroup.DELETE("/:id", DeleteUserHandler(store))
	}

	r.Static("/uploads", cfg.UploadsDir) // Misses fall through to NoRoute

	if cfg.IsProd {
		if info, err := os.Stat(cfg.StaticDir); err == nil && info.IsDir() {
			logrus.WithField("dir", cfg.StaticDir).Info("Serving frontend build")
		} else {
			logrus.WithField("dir", cfg.StaticDir).Warn("Frontend build not found, SPA routes will fail")
		}
	}
	r.GET("/", func(c *gin.Context) {
		if cfg.IsProd {
			serveSPA(c, cfg.StaticDir)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Nav Website Backend API Running"})
	})
	r.NoRoute(notFoundHandler(cfg))

	return r, nil
}

// mountResource registers list (public) and create/update/delete (authenticated) under every base path
func mountResource(r *gin.Engine, auth gin.HandlerFunc, h resourceHandlers, bases ...string) {
	for _, base := range bases {
		group := r.Group(base)
		group.GET("", h.list)
		group.POST("", auth, h.create)
		group.PUT("/:id", auth, h.update)
		group.DELETE("/:id", auth, h.remove)
	}
}

// notFoundHandler serves the SPA build in production and renders 404s otherwise
func notFoundHandler(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := c.Request.URL.Path
		switch {
		case strings.HasPrefix(p, "/api"):
			logrus.WithFields(logrus.Fields{
				"method": c.Request.Method, // Request method
				"path":   p,                // Unmatched path
			}).Warn("API route not found")
			reject(c, http.StatusNotFound, utils.CodeNotFound, "route not found", nil)
			return
		case strings.HasPrefix(p, "/uploads"):
			c.String(http.StatusNotFound, "Not Found")
			return
		}

		if cfg.IsProd && (c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead) {
			if file, ok := staticFile(cfg.StaticDir, p); ok {
				c.File(file)
				return
			}
			if acceptsHTML(c.GetHeader("Accept")) {
				serveSPA(c, cfg.StaticDir)
				return
			}
		}
		reject(c, http.StatusNotFound, utils.CodeNotFound, "not found", nil)
	}
}

// staticFile resolves a request path inside dir; ".." segments cannot escape it
func staticFile(dir, urlPath string) (string, bool) {
	clean := path.Clean("/" + urlPath)
	full := filepath.Join(dir, filepath.FromSlash(clean))
	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		return "", false
	}
	return full, true
}

// acceptsHTML reports whether a client with this Accept header takes the SPA shell
func acceptsHTML(accept string) bool {
	return accept == "" || strings.Contains(accept, "text/html") || strings.Contains(accept, "*/*")
}

// serveSPA writes the build's index.html, or a 500 when the build is missing
func serveSPA(c *gin.Context, dir string) {
	index := filepath.Join(dir, "index.html")
	if _, err := os.Stat(index); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logrus.WithField("path", index).Error("SPA entry file not found")
			middleware.AbortWithError(c, utils.NewHTTPError(http.StatusInternalServerError,
				"frontend build is missing, run the build first",
				utils.WithCode("SPA_BUILD_MISSING"), utils.WithCause(err), utils.WithExpose(true)))
			return
		}
		fail(c, err, http.StatusInternalServerError, utils.CodeInternal, "failed to serve frontend")
		return
	}
	c.File(index)
}
