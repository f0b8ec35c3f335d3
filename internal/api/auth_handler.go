package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/bulatsharif/trading-api/internal/api/shared"
	"github.com/bulatsharif/trading-api/internal/domain"
	"github.com/bulatsharif/trading-api/internal/service/auth"
	"github.com/bulatsharif/trading-api/internal/store"
)

// AuthHandler handles authentication-related requests.
type AuthHandler struct {
	userStore        store.UserStore
	roleStore        store.RoleStore
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	validate         *validator.Validate
	logger           *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	userStore store.UserStore,
	roleStore store.RoleStore,
	jwtService auth.JWTService,
	passwordVerifier auth.PasswordVerifier,
	logger *slog.Logger,
) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		userStore:        userStore,
		roleStore:        roleStore,
		jwtService:       jwtService,
		passwordVerifier: passwordVerifier,
		validate:         validator.New(),
		logger:           logger.With(slog.String("component", "auth_handler")),
	}
}

// Register handles user registration requests.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	log := h.logger.With(slog.String("trace_id", shared.GetTraceID(r.Context())))

	var req RegisterRequest
	if err := DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		shared.RespondWithDetails(w, r, http.StatusUnprocessableEntity, "Validation failed", ValidationDetails(err))
		return
	}

	if req.RoleID != nil {
		if _, err := h.roleStore.GetByID(r.Context(), *req.RoleID); err != nil {
			if errors.Is(err, store.ErrRoleNotFound) {
				shared.RespondWithError(w, r, http.StatusBadRequest, "Role not found")
				return
			}
			log.Error("failed to look up role",
				slog.Int64("role_id", *req.RoleID),
				slog.String("error", err.Error()))
			shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
			return
		}
	}

	user, err := domain.NewUser(req.Email, req.Username, req.Name, req.Password, req.RoleID)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, GetSafeErrorMessage(err))
		return
	}

	if err := h.userStore.Create(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			shared.RespondWithError(w, r, http.StatusConflict, "Email already exists")
			return
		}
		log.Error("failed to create user",
			slog.String("error", err.Error()),
			slog.String("email", req.Email))
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}

	log.Info("user registered", slog.String("user_id", user.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, NewUserResponse(user))
}

// Login handles user login requests. Credentials are verified against the
// stored bcrypt hash and inactive accounts are rejected before a token is
// issued.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	log := h.logger.With(slog.String("trace_id", shared.GetTraceID(r.Context())))

	var req LoginRequest
	if err := DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		shared.RespondWithDetails(w, r, http.StatusUnprocessableEntity, "Validation failed", ValidationDetails(err))
		return
	}

	user, err := h.userStore.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			// Generic message so callers cannot probe which emails exist.
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		log.Error("failed to look up user for login", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}

	if err := h.passwordVerifier.Compare(user.HashedPassword, req.Password); err != nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	if !user.IsActive {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User is not active")
		return
	}

	token, err := h.jwtService.GenerateToken(r.Context(), user.ID)
	if err != nil {
		log.Error("failed to generate token", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	log.Info("user logged in", slog.String("user_id", user.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		UserID:      user.ID,
		AccessToken: token,
	})
}
