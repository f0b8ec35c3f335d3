package api

import (
	"net/http"

	"github.com/bulatsharif/trading-api/internal/api/middleware"
	"github.com/bulatsharif/trading-api/internal/api/shared"
)

// GreetingResponse is the body of the greeting endpoints.
type GreetingResponse struct {
	Message string `json:"message"`
}

// ProtectedGreeting greets the authenticated caller by username.
func ProtectedGreeting(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, GreetingResponse{
		Message: "Hello, " + user.Username,
	})
}

// UnprotectedGreeting greets anonymous callers.
func UnprotectedGreeting(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, GreetingResponse{
		Message: "Hello, anonym",
	})
}
