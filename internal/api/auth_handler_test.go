package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bulatsharif/trading-api/internal/domain"
)

func newTestAuthHandler(users *fakeUserStore, roles *fakeRoleStore, jwt *fakeJWTService, verifier *fakePasswordVerifier) *AuthHandler {
	if users == nil {
		users = newFakeUserStore()
	}
	if roles == nil {
		roles = newFakeRoleStore()
	}
	if jwt == nil {
		jwt = &fakeJWTService{token: "test-token"}
	}
	if verifier == nil {
		verifier = &fakePasswordVerifier{}
	}
	return NewAuthHandler(users, roles, jwt, verifier, nil)
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func TestRegister(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		payload    map[string]any
		wantStatus int
	}{
		{
			name: "valid registration",
			payload: map[string]any{
				"email":    "trader@example.com",
				"username": "trader",
				"name":     "Trader One",
				"password": "pw123",
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "invalid email",
			payload: map[string]any{
				"email":    "not-an-email",
				"username": "trader",
				"name":     "Trader One",
				"password": "pw123",
			},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "missing password",
			payload: map[string]any{
				"email":    "trader@example.com",
				"username": "trader",
				"name":     "Trader One",
			},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "unknown role",
			payload: map[string]any{
				"email":    "trader@example.com",
				"username": "trader",
				"name":     "Trader One",
				"password": "pw123",
				"role_id":  99,
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handler := newTestAuthHandler(nil, nil, nil, nil)
			w := postJSON(t, handler.Register, "/auth/register", tt.payload)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestRegisterResponseOmitsCredential(t *testing.T) {
	t.Parallel()

	handler := newTestAuthHandler(nil, nil, nil, nil)
	w := postJSON(t, handler.Register, "/auth/register", map[string]any{
		"email":    "trader@example.com",
		"username": "trader",
		"name":     "Trader One",
		"password": "pw123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "trader@example.com", body["email"])
	assert.Equal(t, "trader", body["username"])
	assert.NotContains(t, body, "password")
	assert.NotContains(t, body, "hashed_password")
	assert.NotContains(t, w.Body.String(), "pw123")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	t.Parallel()

	users := newFakeUserStore()
	handler := newTestAuthHandler(users, nil, nil, nil)

	payload := map[string]any{
		"email":    "trader@example.com",
		"username": "trader",
		"name":     "Trader One",
		"password": "pw123",
	}

	first := postJSON(t, handler.Register, "/auth/register", payload)
	require.Equal(t, http.StatusCreated, first.Code)

	second := postJSON(t, handler.Register, "/auth/register", payload)
	assert.Equal(t, http.StatusConflict, second.Code)
}

func TestRegisterWithExistingRole(t *testing.T) {
	t.Parallel()

	roles := newFakeRoleStore()
	role := &domain.Role{Name: "trader", Permissions: map[string]any{"trade": true}}
	require.NoError(t, roles.Create(context.Background(), role))

	handler := newTestAuthHandler(nil, roles, nil, nil)
	w := postJSON(t, handler.Register, "/auth/register", map[string]any{
		"email":    "trader@example.com",
		"username": "trader",
		"name":     "Trader One",
		"password": "pw123",
		"role_id":  role.ID,
	})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestLogin(t *testing.T) {
	t.Parallel()

	registered, err := domain.NewUser("trader@example.com", "trader", "Trader One", "pw123", nil)
	require.NoError(t, err)
	registered.HashedPassword = "hashed:pw123"
	registered.Password = ""

	tests := []struct {
		name       string
		user       *domain.User
		verifier   *fakePasswordVerifier
		payload    map[string]any
		wantStatus int
		wantToken  bool
	}{
		{
			name:     "valid credentials",
			user:     registered,
			verifier: &fakePasswordVerifier{},
			payload: map[string]any{
				"email":    "trader@example.com",
				"password": "pw123",
			},
			wantStatus: http.StatusOK,
			wantToken:  true,
		},
		{
			name:     "wrong password",
			user:     registered,
			verifier: &fakePasswordVerifier{compareErr: assert.AnError},
			payload: map[string]any{
				"email":    "trader@example.com",
				"password": "wrong",
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:     "unknown email",
			user:     nil,
			verifier: &fakePasswordVerifier{},
			payload: map[string]any{
				"email":    "nobody@example.com",
				"password": "pw123",
			},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			users := newFakeUserStore()
			if tt.user != nil {
				users.add(tt.user)
			}
			handler := newTestAuthHandler(users, nil, &fakeJWTService{token: "test-token"}, tt.verifier)

			w := postJSON(t, handler.Login, "/auth/jwt/login", tt.payload)
			assert.Equal(t, tt.wantStatus, w.Code)

			if tt.wantToken {
				var resp AuthResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, "test-token", resp.AccessToken)
				assert.Equal(t, tt.user.ID, resp.UserID)
			}
		})
	}
}

func TestLoginRejectsInactiveUser(t *testing.T) {
	t.Parallel()

	inactive, err := domain.NewUser("trader@example.com", "trader", "Trader One", "pw123", nil)
	require.NoError(t, err)
	inactive.HashedPassword = "hashed:pw123"
	inactive.Password = ""
	inactive.IsActive = false

	users := newFakeUserStore()
	users.add(inactive)

	handler := newTestAuthHandler(users, nil, nil, nil)
	w := postJSON(t, handler.Login, "/auth/jwt/login", map[string]any{
		"email":    "trader@example.com",
		"password": "pw123",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotContains(t, w.Body.String(), "token")
}
