// Package api provides HTTP handlers for the API.
package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/taskforge/taskforge-api/internal/api/shared"
	"github.com/taskforge/taskforge-api/internal/config"
	"github.com/taskforge/taskforge-api/internal/domain"
	"github.com/taskforge/taskforge-api/internal/platform/logger"
	"github.com/taskforge/taskforge-api/internal/service/auth"
	"github.com/taskforge/taskforge-api/internal/store"
)

// refreshCookieName is the cookie carrying the refresh token. The refresh
// token travels ONLY in this cookie, never in a header or body.
const refreshCookieName = "jwt"

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	userStore        store.UserStore
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	authConfig       *config.AuthConfig
	logger           *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	userStore store.UserStore,
	jwtService auth.JWTService,
	passwordVerifier auth.PasswordVerifier,
	authConfig *config.AuthConfig,
	log *slog.Logger,
) *AuthHandler {
	if log == nil {
		log = slog.Default()
	}
	return &AuthHandler{
		userStore:        userStore,
		jwtService:       jwtService,
		passwordVerifier: passwordVerifier,
		authConfig:       authConfig,
		logger:           log.With(slog.String("component", "auth_handler")),
	}
}

// Register handles POST /api/auth/register.
// Registration does not log the user in; the client is expected to follow
// up with a login call.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req RegisterRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "All fields are required")
		return
	}

	user, err := domain.NewUser(req.Name, req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.userStore.Create(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			log.Debug("registration with already-registered email")
			shared.RespondWithError(w, r, http.StatusBadRequest, "User already exist")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to create user", err)
		return
	}

	shared.RespondWithMessage(w, r, http.StatusCreated, "Registered successfully, kindly login")
}

// Login handles POST /api/auth/login.
// On success it sets the refresh cookie and returns the access token in the
// body alongside the sanitized user record.
//
// An unknown email and a wrong password produce byte-identical failure
// responses so an attacker cannot probe which addresses are registered.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req LoginRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "All fields are required")
		return
	}

	user, err := h.userStore.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Incorrect credentials")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to authenticate user", err)
		return
	}

	if err := h.passwordVerifier.Compare(user.HashedPassword, req.Password); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Incorrect credentials")
		return
	}

	accessToken, err := h.jwtService.GenerateAccessToken(r.Context(), user.ID, user.Role)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to generate authentication token", err)
		return
	}

	refreshToken, err := h.jwtService.GenerateRefreshToken(r.Context(), user.ID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to generate authentication token", err)
		return
	}

	h.setRefreshCookie(w, refreshToken)

	log.Info("user logged in", slog.String("user_id", user.ID.String()))

	shared.RespondWithJSON(w, r, http.StatusOK, shared.Envelope{
		Success: true,
		Data:    user,
		Token:   accessToken,
	})
}

// Refresh handles GET /api/auth/refresh.
// The refresh token is read exclusively from the cookie. The user is
// re-resolved by ID so a deleted account holding a stale refresh token
// cannot mint new access tokens. The refresh token itself is not rotated.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	cookie, err := r.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Unauthorized")
		return
	}

	claims, err := h.jwtService.ValidateRefreshToken(r.Context(), cookie.Value)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusForbidden, "Forbidden", err)
		return
	}

	user, err := h.userStore.GetByID(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("refresh attempted for deleted account",
				slog.String("user_id", claims.UserID.String()))
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to refresh token", err)
		return
	}

	accessToken, err := h.jwtService.GenerateAccessToken(r.Context(), user.ID, user.Role)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to generate authentication token", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, shared.Envelope{
		Success: true,
		Token:   accessToken,
	})
}

// Logout handles POST /api/auth/logout.
// Logout only clears the cookie; issued tokens stay valid until natural
// expiry (stateless model, no revocation list).
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if _, err := r.Cookie(refreshCookieName); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "No cookie found")
		return
	}

	h.clearRefreshCookie(w)
	shared.RespondWithMessage(w, r, http.StatusOK, "Logged out successfully")
}

// setRefreshCookie writes the refresh cookie. SameSite=None (with Secure,
// which it requires) keeps the cookie usable from cross-site frontends.
// The cookie Max-Age intentionally exceeds the 7-day token validity; an
// expired token inside a live cookie is rejected at validation.
func (h *AuthHandler) setRefreshCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   h.authConfig.RefreshCookieMaxAgeDays * 24 * 60 * 60,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

// clearRefreshCookie expires the refresh cookie immediately.
func (h *AuthHandler) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}
