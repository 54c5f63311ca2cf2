package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskforge/taskforge-api/internal/api/shared"
	"github.com/taskforge/taskforge-api/internal/config"
	"github.com/taskforge/taskforge-api/internal/domain"
	"github.com/taskforge/taskforge-api/internal/mocks"
	"github.com/taskforge/taskforge-api/internal/service/auth"
	"github.com/taskforge/taskforge-api/internal/store"
)

func testAuthHandlerConfig() *config.AuthConfig {
	return &config.AuthConfig{
		AccessTokenLifetimeMinutes:  60,
		RefreshTokenLifetimeMinutes: 7 * 24 * 60,
		RefreshCookieMaxAgeDays:     30,
	}
}

func newTestAuthHandler(userStore store.UserStore, jwtService auth.JWTService) *AuthHandler {
	return NewAuthHandler(
		userStore,
		jwtService,
		&mocks.MockPasswordVerifier{},
		testAuthHandlerConfig(),
		nil,
	)
}

func postJSON(t *testing.T, handler http.HandlerFunc, target string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	handler(recorder, req)
	return recorder
}

func decodeEnvelope(t *testing.T, recorder *httptest.ResponseRecorder) shared.Envelope {
	t.Helper()

	var envelope shared.Envelope
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&envelope))
	return envelope
}

func TestRegister(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		payload     map[string]any
		wantStatus  int
		wantMessage string
	}{
		{
			name: "valid registration",
			payload: map[string]any{
				"name":     "Test User",
				"email":    "test@example.com",
				"password": "password123",
			},
			wantStatus:  http.StatusCreated,
			wantMessage: "Registered successfully, kindly login",
		},
		{
			name: "missing name",
			payload: map[string]any{
				"email":    "test@example.com",
				"password": "password123",
			},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "All fields are required",
		},
		{
			name: "invalid email",
			payload: map[string]any{
				"name":     "Test User",
				"email":    "not-an-email",
				"password": "password123",
			},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "All fields are required",
		},
		{
			name: "password too short",
			payload: map[string]any{
				"name":     "Test User",
				"email":    "test@example.com",
				"password": "short",
			},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "All fields are required",
		},
		{
			name: "name too short",
			payload: map[string]any{
				"name":     "ab",
				"email":    "test@example.com",
				"password": "password123",
			},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "All fields are required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newTestAuthHandler(mocks.NewMockUserStore(), &mocks.MockJWTService{})

			recorder := postJSON(t, handler.Register, "/api/auth/register", tt.payload)

			assert.Equal(t, tt.wantStatus, recorder.Code)

			envelope := decodeEnvelope(t, recorder)
			assert.Equal(t, tt.wantMessage, envelope.Message)
			assert.Empty(t, envelope.Token, "registration never issues a token")
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	t.Parallel()

	userStore := mocks.NewMockUserStore()
	handler := newTestAuthHandler(userStore, &mocks.MockJWTService{})

	payload := map[string]any{
		"name":     "Test User",
		"email":    "test@example.com",
		"password": "password123",
	}

	recorder := postJSON(t, handler.Register, "/api/auth/register", payload)
	require.Equal(t, http.StatusCreated, recorder.Code)

	recorder = postJSON(t, handler.Register, "/api/auth/register", payload)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	envelope := decodeEnvelope(t, recorder)
	assert.Equal(t, "User already exist", envelope.Message)
}

func TestLogin(t *testing.T) {
	t.Parallel()

	userStore := mocks.NewMockUserStore()
	user, err := domain.NewUser("Test User", "test@example.com", "password123")
	require.NoError(t, err)
	user.Password = ""
	user.HashedPassword = mocks.HashPrefix + "password123"
	userStore.Users[user.Email] = user

	jwtService := &mocks.MockJWTService{
		AccessToken:  "test-access-token",
		RefreshToken: "test-refresh-token",
	}
	handler := newTestAuthHandler(userStore, jwtService)

	recorder := postJSON(t, handler.Login, "/api/auth/login", map[string]any{
		"email":    "test@example.com",
		"password": "password123",
	})

	require.Equal(t, http.StatusOK, recorder.Code)

	envelope := decodeEnvelope(t, recorder)
	assert.True(t, envelope.Success)
	assert.Equal(t, "test-access-token", envelope.Token)

	// The refresh token travels only in the cookie.
	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, "jwt", cookie.Name)
	assert.Equal(t, "test-refresh-token", cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteNoneMode, cookie.SameSite)
	assert.Equal(t, 30*24*60*60, cookie.MaxAge)
}

func TestLoginFailuresIndistinguishable(t *testing.T) {
	t.Parallel()

	userStore := mocks.NewMockUserStore()
	user, err := domain.NewUser("Test User", "test@example.com", "password123")
	require.NoError(t, err)
	user.Password = ""
	user.HashedPassword = mocks.HashPrefix + "password123"
	userStore.Users[user.Email] = user

	handler := newTestAuthHandler(userStore, &mocks.MockJWTService{})

	unknownEmail := postJSON(t, handler.Login, "/api/auth/login", map[string]any{
		"email":    "nobody@example.com",
		"password": "password123",
	})
	wrongPassword := postJSON(t, handler.Login, "/api/auth/login", map[string]any{
		"email":    "test@example.com",
		"password": "wrong-password",
	})

	assert.Equal(t, http.StatusBadRequest, unknownEmail.Code)
	assert.Equal(t, http.StatusBadRequest, wrongPassword.Code)

	// An attacker must not be able to probe which addresses are registered.
	assert.Equal(t, unknownEmail.Body.String(), wrongPassword.Body.String())
	assert.Empty(t, unknownEmail.Result().Cookies())
}

func TestRefresh(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	user := &domain.User{
		ID:             userID,
		Name:           "Test User",
		Email:          "test@example.com",
		HashedPassword: "hash",
		Role:           domain.RoleUser,
	}
	userStore := mocks.NewMockUserStore()
	userStore.Users[user.Email] = user

	refreshClaims := &auth.Claims{UserID: userID, TokenType: "refresh"}

	tests := []struct {
		name        string
		cookie      *http.Cookie
		claims      *auth.Claims
		validateErr error
		wantStatus  int
		wantToken   string
		wantMessage string
	}{
		{
			name:        "missing cookie",
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Unauthorized",
		},
		{
			name:        "invalid refresh token",
			cookie:      &http.Cookie{Name: "jwt", Value: "bad-token"},
			validateErr: auth.ErrInvalidRefreshToken,
			wantStatus:  http.StatusForbidden,
			wantMessage: "Forbidden",
		},
		{
			name:        "expired refresh token",
			cookie:      &http.Cookie{Name: "jwt", Value: "expired-token"},
			validateErr: auth.ErrExpiredRefreshToken,
			wantStatus:  http.StatusForbidden,
			wantMessage: "Forbidden",
		},
		{
			name:       "valid refresh token",
			cookie:     &http.Cookie{Name: "jwt", Value: "good-token"},
			claims:     refreshClaims,
			wantStatus: http.StatusOK,
			wantToken:  "fresh-access-token",
		},
		{
			name:        "deleted account",
			cookie:      &http.Cookie{Name: "jwt", Value: "good-token"},
			claims:      &auth.Claims{UserID: uuid.New(), TokenType: "refresh"},
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Unauthorized",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jwtService := &mocks.MockJWTService{
				AccessToken: "fresh-access-token",
				Claims:      tt.claims,
				ValidateErr: tt.validateErr,
			}
			handler := newTestAuthHandler(userStore, jwtService)

			req := httptest.NewRequest("GET", "/api/auth/refresh", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			recorder := httptest.NewRecorder()
			handler.Refresh(recorder, req)

			assert.Equal(t, tt.wantStatus, recorder.Code)

			envelope := decodeEnvelope(t, recorder)
			if tt.wantToken != "" {
				assert.Equal(t, tt.wantToken, envelope.Token)
			} else {
				assert.Equal(t, tt.wantMessage, envelope.Message)
				assert.Empty(t, envelope.Token)
			}
		})
	}
}

func TestRefreshIgnoresAuthorizationHeader(t *testing.T) {
	t.Parallel()

	jwtService := &mocks.MockJWTService{
		ValidateRefreshTokenFn: func(ctx context.Context, token string) (*auth.Claims, error) {
			t.Errorf("refresh must not validate header-borne tokens, got %q", token)
			return nil, auth.ErrInvalidRefreshToken
		},
	}
	handler := newTestAuthHandler(mocks.NewMockUserStore(), jwtService)

	// A bearer header alone must not satisfy the refresh endpoint.
	req := httptest.NewRequest("GET", "/api/auth/refresh", nil)
	req.Header.Set("Authorization", "Bearer some-refresh-token")
	recorder := httptest.NewRecorder()
	handler.Refresh(recorder, req)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestLogout(t *testing.T) {
	t.Parallel()

	handler := newTestAuthHandler(mocks.NewMockUserStore(), &mocks.MockJWTService{})

	// Without the cookie there is nothing to clear.
	req := httptest.NewRequest("POST", "/api/auth/logout", nil)
	recorder := httptest.NewRecorder()
	handler.Logout(recorder, req)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	envelope := decodeEnvelope(t, recorder)
	assert.Equal(t, "No cookie found", envelope.Message)

	// With the cookie it is cleared and the call succeeds.
	req = httptest.NewRequest("POST", "/api/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: "jwt", Value: "some-refresh-token"})
	recorder = httptest.NewRecorder()
	handler.Logout(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.Code)

	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "jwt", cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge, "cookie must be expired immediately")
}
