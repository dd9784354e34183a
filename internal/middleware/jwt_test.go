package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"nav_site/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "middleware-test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthEngine() *gin.Engine {
	r := gin.New()
	r.Use(ErrorHandler(false))
	r.GET("/me", JWTAuthMiddleware(testSecret), func(c *gin.Context) {
		id, username, ok := CurrentUser(c)
		if !ok {
			c.Status(http.StatusTeapot)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id, "username": username})
	})
	return r
}

func doAuth(t *testing.T, header string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	newAuthEngine().ServeHTTP(w, req)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestJWTAuthMiddlewareAcceptsBearerAndBareTokens(t *testing.T) {
	token, err := utils.GenerateJWT(7, "alice123", testSecret, time.Hour)
	require.NoError(t, err)

	for _, header := range []string{"Bearer " + token, token, "bearer " + token} {
		w, body := doAuth(t, header)
		require.Equal(t, http.StatusOK, w.Code, header)
		assert.Equal(t, float64(7), body["id"])
		assert.Equal(t, "alice123", body["username"])
	}
}

func TestJWTAuthMiddlewareRejections(t *testing.T) {
	expired, err := utils.GenerateJWT(7, "alice123", testSecret, -time.Minute)
	require.NoError(t, err)
	foreign, err := utils.GenerateJWT(7, "alice123", "other-secret", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		code   string
	}{
		{"missing header", "", CodeTokenMissing},
		{"bearer without token", "Bearer ", CodeTokenMissing},
		{"expired", "Bearer " + expired, CodeTokenExpired},
		{"wrong secret", "Bearer " + foreign, CodeTokenInvalid},
		{"garbage", "Bearer not.a.jwt", CodeTokenInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := doAuth(t, tt.header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, tt.code, body["code"])
			assert.Equal(t, "/me", body["path"])
			assert.NotEmpty(t, body["timestamp"])
		})
	}
}

func TestExtractToken(t *testing.T) {
	assert.Equal(t, "abc", extractToken("Bearer abc"))
	assert.Equal(t, "abc", extractToken("  abc  "))
	assert.Equal(t, "", extractToken("Bearer"))
	assert.Equal(t, "", extractToken("Bearer a b"))
	assert.Equal(t, "", extractToken("Basic a b"))
	assert.Equal(t, "", extractToken(""))
}
