package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/hdhector/taskflow/internal/api/shared"
	"github.com/hdhector/taskflow/internal/domain"
	"github.com/hdhector/taskflow/internal/platform/logger"
	"github.com/hdhector/taskflow/internal/redact"
	"github.com/hdhector/taskflow/internal/service/auth"
	"github.com/hdhector/taskflow/internal/store"
)

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	userStore        store.UserStore
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	logger           *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	userStore store.UserStore,
	jwtService auth.JWTService,
	passwordVerifier auth.PasswordVerifier,
	logger *slog.Logger,
) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &AuthHandler{
		userStore:        userStore,
		jwtService:       jwtService,
		passwordVerifier: passwordVerifier,
		logger:           logger.With(slog.String("component", "auth_handler")),
	}
}

// Register handles POST /api/auth/register requests.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req RegisterRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	user, err := domain.NewUser(req.Username, req.Email, req.Password)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid user data: "+err.Error())
		return
	}

	if err := h.userStore.Create(r.Context(), user); err != nil {
		switch {
		case errors.Is(err, store.ErrEmailExists):
			shared.RespondWithError(w, r, http.StatusConflict, "Email address is already registered")
		case errors.Is(err, store.ErrUsernameExists):
			shared.RespondWithError(w, r, http.StatusConflict, "Username is already taken")
		default:
			log.Error("failed to create user",
				slog.String("error", redact.Error(err)),
				slog.String("username", req.Username))
			shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to create user")
		}
		return
	}

	accessToken, refreshToken, err := h.generateTokenPair(r, user)
	if err != nil {
		log.Error("failed to generate tokens",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", user.ID.String()))
		shared.RespondWithError(
			w,
			r,
			http.StatusInternalServerError,
			"Failed to generate authentication token",
		)
		return
	}

	log.Info("user registered", slog.String("user_id", user.ID.String()))

	shared.RespondWithJSON(w, r, http.StatusCreated, AuthResponse{
		UserID:       user.ID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}

// Login handles POST /api/auth/login requests.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req LoginRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	user, err := h.userStore.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		log.Error("failed to get user by email", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to authenticate user")
		return
	}

	if err := h.passwordVerifier.Compare(user.HashedPassword, req.Password); err != nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	accessToken, refreshToken, err := h.generateTokenPair(r, user)
	if err != nil {
		log.Error("failed to generate tokens",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", user.ID.String()))
		shared.RespondWithError(
			w,
			r,
			http.StatusInternalServerError,
			"Failed to generate authentication token",
		)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		UserID:       user.ID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}

// RefreshToken handles POST /api/auth/refresh requests. It validates the
// refresh token and issues a fresh token pair.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req RefreshTokenRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	claims, err := h.jwtService.ValidateRefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err, shared.WithElevatedLogLevel())
		return
	}

	// The user must still exist; tokens outlive account deletions.
	user, err := h.userStore.GetByID(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid or missing token")
			return
		}
		log.Error("failed to get user for refresh", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to refresh token")
		return
	}

	accessToken, refreshToken, err := h.generateTokenPair(r, user)
	if err != nil {
		log.Error("failed to generate tokens",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", user.ID.String()))
		shared.RespondWithError(
			w,
			r,
			http.StatusInternalServerError,
			"Failed to generate authentication token",
		)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, RefreshTokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}

// generateTokenPair issues an access and refresh token for the user.
func (h *AuthHandler) generateTokenPair(
	r *http.Request,
	user *domain.User,
) (accessToken, refreshToken string, err error) {
	accessToken, err = h.jwtService.GenerateToken(r.Context(), user.ID)
	if err != nil {
		return "", "", err
	}

	refreshToken, err = h.jwtService.GenerateRefreshToken(r.Context(), user.ID)
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}
