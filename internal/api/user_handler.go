package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"

	"github.com/bulatsharif/trading-api/internal/api/shared"
	"github.com/bulatsharif/trading-api/internal/domain"
	"github.com/bulatsharif/trading-api/internal/store"
)

// UserHandler serves user lookup requests.
type UserHandler struct {
	userStore store.UserStore
	logger    *slog.Logger
}

// NewUserHandler creates a UserHandler with the given dependencies.
func NewUserHandler(userStore store.UserStore, logger *slog.Logger) *UserHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserHandler{
		userStore: userStore,
		logger:    logger.With(slog.String("component", "user_handler")),
	}
}

// Get looks up a user by ID and responds with a list of matching records.
// A missing user yields an empty list, not a 404.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	log := h.logger.With(slog.String("trace_id", shared.GetTraceID(r.Context())))

	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	user, err := h.getWithRetry(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			shared.RespondWithJSON(w, r, http.StatusOK, []UserResponse{})
			return
		}
		log.Error("user lookup failed",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, []UserResponse{NewUserResponse(user)})
}

// getWithRetry retries the lookup on transient upstream failures.
func (h *UserHandler) getWithRetry(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	var user *domain.User

	err := retry.Do(ctx, retry.WithMaxRetries(2, retry.NewConstant(100*time.Millisecond)), func(ctx context.Context) error {
		var lookupErr error
		user, lookupErr = h.userStore.GetByID(ctx, userID)
		if lookupErr != nil {
			if errors.Is(lookupErr, store.ErrUnavailable) {
				return retry.RetryableError(lookupErr)
			}
			return lookupErr
		}
		return nil
	})

	return user, err
}
