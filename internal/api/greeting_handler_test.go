package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bulatsharif/trading-api/internal/api/shared"
)

func TestProtectedGreeting(t *testing.T) {
	t.Parallel()

	user := testUser(t)
	req := httptest.NewRequest(http.MethodGet, "/protected-route", nil)
	req = req.WithContext(context.WithValue(req.Context(), shared.UserContextKey, user))

	w := httptest.NewRecorder()
	ProtectedGreeting(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp GreetingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Hello, trader", resp.Message)
}

func TestProtectedGreetingWithoutUser(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/protected-route", nil)
	w := httptest.NewRecorder()
	ProtectedGreeting(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUnprotectedGreeting(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/unprotected-route", nil)
	w := httptest.NewRecorder()
	UnprotectedGreeting(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp GreetingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Hello, anonym", resp.Message)
}
