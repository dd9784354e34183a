package utils

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPError(t *testing.T) {
	cause := errors.New("disk full")
	err := NewHTTPError(http.StatusNotFound, "menu not found",
		WithCode("MENU_NOT_FOUND"), WithCause(cause), WithDetails(map[string]int{"id": 3}))

	assert.Equal(t, http.StatusNotFound, err.Status)
	assert.Equal(t, "MENU_NOT_FOUND", err.Code)
	assert.Equal(t, "menu not found", err.Error())
	assert.Equal(t, map[string]int{"id": 3}, err.Details)
	assert.ErrorIs(t, err, cause)
	assert.True(t, err.Exposed())
}

func TestNewHTTPErrorStatusFallback(t *testing.T) {
	for _, status := range []int{0, 200, 302, 600} {
		assert.Equal(t, http.StatusInternalServerError, NewHTTPError(status, "x").Status)
	}
}

func TestExposed(t *testing.T) {
	assert.False(t, NewHTTPError(http.StatusInternalServerError, "boom").Exposed())
	assert.True(t, NewHTTPError(http.StatusInternalServerError, "boom", WithExpose(true)).Exposed())
	assert.False(t, NewHTTPError(http.StatusBadRequest, "bad", WithExpose(false)).Exposed())
}

func TestIsHTTPErrorThroughWrapping(t *testing.T) {
	base := NewHTTPError(http.StatusConflict, "dup", WithCode("USERNAME_EXISTS"))
	wrapped := fmt.Errorf("register: %w", base)

	assert.True(t, IsHTTPError(wrapped))
	assert.False(t, IsHTTPError(errors.New("plain")))
	assert.False(t, IsHTTPError(nil))
}

func TestNormalizeError(t *testing.T) {
	assert.Nil(t, NormalizeError(nil, http.StatusInternalServerError, "X", "x"))

	tagged := NewHTTPError(http.StatusBadRequest, "bad", WithCode("CARD_TITLE_REQUIRED"))
	assert.Same(t, tagged, NormalizeError(tagged, http.StatusInternalServerError, "CARD_CREATE_FAILED", "failed"))

	raw := errors.New("database is locked")
	got := NormalizeError(raw, http.StatusInternalServerError, "AD_CREATE_FAILED", "failed to create ad")
	require.NotNil(t, got)
	assert.Equal(t, http.StatusInternalServerError, got.Status)
	assert.Equal(t, "AD_CREATE_FAILED", got.Code)
	assert.Equal(t, "failed to create ad", got.Message)
	assert.ErrorIs(t, got, raw)
}
