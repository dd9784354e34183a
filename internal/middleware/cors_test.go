package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"nav_site/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func corsEngine(t *testing.T, origins string) *gin.Engine {
	t.Helper()
	handler, err := CORS(&config.Config{CORSOrigins: config.ParseOrigins(origins)})
	require.NoError(t, err)
	r := gin.New()
	r.Use(handler)
	r.GET("/api/menus", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestCORSAllowList(t *testing.T) {
	r := corsEngine(t, "https://admin.example")

	req := httptest.NewRequest(http.MethodGet, "/api/menus", nil)
	req.Header.Set("Origin", "https://admin.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "https://admin.example", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/api/menus", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCORSWildcard(t *testing.T) {
	r := corsEngine(t, "*")

	req := httptest.NewRequest(http.MethodGet, "/api/menus", nil)
	req.Header.Set("Origin", "https://anywhere.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSRejectsMalformedOrigin(t *testing.T) {
	_, err := CORS(&config.Config{CORSOrigins: []string{"admin.example"}})
	assert.Error(t, err)
}
