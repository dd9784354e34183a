package utils

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireCode(t *testing.T, err error, status int, code string) {
	t.Helper()
	httpErr, ok := AsHTTPError(err)
	require.True(t, ok, "expected HTTPError, got %v", err)
	assert.Equal(t, status, httpErr.Status)
	assert.Equal(t, code, httpErr.Code)
}

func TestEnsureTrimmedString(t *testing.T) {
	got, err := EnsureTrimmedString("  Tools \n", "name")
	require.NoError(t, err)
	assert.Equal(t, "Tools", got)

	for _, value := range []any{nil, "", "   ", "\t\n", 42, true, []any{"x"}} {
		_, err := EnsureTrimmedString(value, "name")
		requireCode(t, err, http.StatusBadRequest, CodeFieldRequired)
	}
}

func TestEnsureTrimmedStringCustomCode(t *testing.T) {
	_, err := EnsureTrimmedString(" ", "Menu name", WithErrorCode("MENU_NAME_REQUIRED"))
	requireCode(t, err, http.StatusBadRequest, "MENU_NAME_REQUIRED")
	assert.Equal(t, "Menu name is required", err.Error())

	_, err = EnsureTrimmedString(nil, "x", WithErrorMessage("custom"))
	assert.Equal(t, "custom", err.Error())
}

func TestEnsureOptionalString(t *testing.T) {
	got := EnsureOptionalString("  mdi-flash ")
	require.NotNil(t, got)
	assert.Equal(t, "mdi-flash", *got)

	for _, value := range []any{nil, "", "  ", 7, false} {
		assert.Nil(t, EnsureOptionalString(value))
	}
}

func TestEnsurePositiveInt(t *testing.T) {
	valid := map[any]int64{
		"12":                  12,
		" 3 ":                 3,
		float64(9):            9,
		7:                     7,
		int64(5):              5,
		json.Number("44"):     44,
		"9223372036854775807": 9223372036854775807,
	}
	for input, want := range valid {
		got, err := EnsurePositiveInt(input, "id")
		require.NoError(t, err, "input %v", input)
		assert.Equal(t, want, got)
	}

	for _, input := range []any{nil, "", "abc", "12abc", "1.5", 1.5, 0, "0", -3, "-1", true, map[string]any{}} {
		_, err := EnsurePositiveInt(input, "id")
		requireCode(t, err, http.StatusBadRequest, CodeInvalidID)
	}
}

func TestEnsurePositiveIntAllowZero(t *testing.T) {
	got, err := EnsurePositiveInt("0", "id", AllowZero())
	require.NoError(t, err)
	assert.Zero(t, got)

	_, err = EnsurePositiveInt(-1, "id", AllowZero())
	requireCode(t, err, http.StatusBadRequest, CodeInvalidID)
}

func TestEnsureNonNegativeInt(t *testing.T) {
	for _, input := range []any{nil, ""} {
		got, err := EnsureNonNegativeInt(input, "order")
		require.NoError(t, err)
		assert.Zero(t, got)
	}

	got, err := EnsureNonNegativeInt(float64(4), "order")
	require.NoError(t, err)
	assert.Equal(t, int64(4), got)

	got, err = EnsureNonNegativeInt("0", "order")
	require.NoError(t, err)
	assert.Zero(t, got)

	for _, input := range []any{-1, "-2", 2.5, "x", true} {
		_, err := EnsureNonNegativeInt(input, "order", WithErrorCode("MENU_ORDER_INVALID"))
		requireCode(t, err, http.StatusBadRequest, "MENU_ORDER_INVALID")
	}

	_, err = EnsureNonNegativeInt("nope", "order")
	requireCode(t, err, http.StatusBadRequest, CodeInvalidInteger)
}
