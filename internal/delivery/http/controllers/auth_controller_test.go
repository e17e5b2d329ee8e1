package controllers

import (
	"net/http"
	"testing"
	"time"

	"gatherly/internal/delivery/http/helpers"
	"gatherly/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCreds(withRefresh bool) *domain.Credentials {
	c := &domain.Credentials{AccessToken: "access", AccessExpiresAt: time.Now().Add(15 * time.Minute)}
	if withRefresh {
		c.RefreshToken = "refresh"
		c.RefreshExpiresAt = time.Now().Add(720 * time.Hour)
	}
	return c
}

func cookiesByName(rr interface{ Result() *http.Response }) map[string]*http.Cookie {
	out := make(map[string]*http.Cookie)
	for _, c := range rr.Result().Cookies() {
		out[c.Name] = c
	}
	return out
}

func TestAuthController_Register(t *testing.T) {
	alice := &domain.User{ID: 1, Username: "alice", Email: "alice@example.com", PasswordHash: "secret-hash", Salt: "salt"}

	tests := []struct {
		name       string
		body       string
		svcErr     error
		wantStatus int
		wantCode   string
	}{
		{name: "created", body: `{"username":"alice","email":"alice@example.com","password":"pw"}`, wantStatus: http.StatusCreated},
		{name: "missing fields", body: `{"username":"alice"}`, wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest},
		{name: "bad email", body: `{"username":"alice","email":"nope","password":"pw"}`, wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest},
		{name: "duplicate username", body: `{"username":"alice","email":"alice@example.com","password":"pw"}`, svcErr: domain.ErrDuplicateUsername, wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest},
		{name: "duplicate email", body: `{"username":"alice","email":"alice@example.com","password":"pw"}`, svcErr: domain.ErrDuplicateEmail, wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest},
		{name: "service failure", body: `{"username":"alice","email":"alice@example.com","password":"pw"}`, svcErr: assert.AnError, wantStatus: http.StatusInternalServerError, wantCode: helpers.ErrCodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeAuthService{user: alice, creds: testCreds(true), err: tt.svcErr}
			ctrl := NewAuthController(testLogger, svc, true)

			rr := serve(t, ctrl.Register, testCall{method: http.MethodPost, target: "/register", body: tt.body})

			if tt.wantCode != "" {
				env := requireErrorCode(t, rr, tt.wantStatus, tt.wantCode)
				if tt.wantStatus == http.StatusInternalServerError {
					assert.NotContains(t, env.Error.Message, assert.AnError.Error())
				}
				assert.Empty(t, rr.Result().Cookies())
				return
			}
			require.Equal(t, tt.wantStatus, rr.Code)
			assert.NotContains(t, rr.Body.String(), "secret-hash")
			var view AuthView
			decodeEnvelope(t, rr, &view)
			assert.Equal(t, int64(1), view.User.ID)
			assert.Equal(t, "alice", view.User.Username)
			assert.Equal(t, "alice@example.com", svc.gotEmail)

			cookies := cookiesByName(rr)
			require.Contains(t, cookies, helpers.AccessTokenCookie)
			require.Contains(t, cookies, helpers.RefreshTokenCookie)
			assert.Equal(t, "access", cookies[helpers.AccessTokenCookie].Value)
			assert.Equal(t, "/token/refresh", cookies[helpers.RefreshTokenCookie].Path)
			assert.True(t, cookies[helpers.AccessTokenCookie].HttpOnly)
			assert.True(t, cookies[helpers.AccessTokenCookie].Secure)
		})
	}
}

func TestAuthController_Login(t *testing.T) {
	alice := &domain.User{ID: 1, Username: "alice", Email: "alice@example.com"}

	tests := []struct {
		name       string
		body       string
		svcErr     error
		wantStatus int
		wantCode   string
	}{
		{name: "ok", body: `{"username":"alice","password":"pw"}`, wantStatus: http.StatusOK},
		{name: "missing password", body: `{"username":"alice"}`, wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest},
		{name: "empty body", body: "", wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest},
		{name: "bad credentials", body: `{"username":"alice","password":"wrong"}`, svcErr: domain.ErrInvalidCredentials, wantStatus: http.StatusUnauthorized, wantCode: helpers.ErrCodeUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeAuthService{user: alice, creds: testCreds(true), err: tt.svcErr}
			ctrl := NewAuthController(testLogger, svc, false)

			rr := serve(t, ctrl.Login, testCall{method: http.MethodPost, target: "/login", body: tt.body})

			if tt.wantCode != "" {
				requireErrorCode(t, rr, tt.wantStatus, tt.wantCode)
				return
			}
			require.Equal(t, tt.wantStatus, rr.Code)
			var view AuthView
			decodeEnvelope(t, rr, &view)
			assert.Equal(t, "alice", view.User.Username)
			cookies := cookiesByName(rr)
			require.Contains(t, cookies, helpers.AccessTokenCookie)
			assert.False(t, cookies[helpers.AccessTokenCookie].Secure)
		})
	}
}

func TestAuthController_Logout(t *testing.T) {
	ctrl := NewAuthController(testLogger, &fakeAuthService{}, true)

	t.Run("clears cookies", func(t *testing.T) {
		rr := serve(t, ctrl.Logout, testCall{method: http.MethodPost, target: "/logout", userID: 1})
		require.Equal(t, http.StatusOK, rr.Code)
		cookies := cookiesByName(rr)
		require.Contains(t, cookies, helpers.AccessTokenCookie)
		require.Contains(t, cookies, helpers.RefreshTokenCookie)
		assert.Equal(t, -1, cookies[helpers.AccessTokenCookie].MaxAge)
		assert.Equal(t, -1, cookies[helpers.RefreshTokenCookie].MaxAge)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		rr := serve(t, ctrl.Logout, testCall{method: http.MethodPost, target: "/logout"})
		requireErrorCode(t, rr, http.StatusUnauthorized, helpers.ErrCodeUnauthorized)
	})
}

func TestAuthController_Refresh(t *testing.T) {
	alice := &domain.User{ID: 1, Username: "alice"}
	refreshCookie := &http.Cookie{Name: helpers.RefreshTokenCookie, Value: "refresh-token"}

	t.Run("issues a new access cookie", func(t *testing.T) {
		svc := &fakeAuthService{user: alice, creds: testCreds(false)}
		ctrl := NewAuthController(testLogger, svc, true)
		rr := serve(t, ctrl.Refresh, testCall{method: http.MethodPost, target: "/token/refresh", cookies: []*http.Cookie{refreshCookie}})

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "refresh-token", svc.gotRefresh)
		cookies := cookiesByName(rr)
		assert.Contains(t, cookies, helpers.AccessTokenCookie)
		assert.NotContains(t, cookies, helpers.RefreshTokenCookie)
	})

	t.Run("missing cookie", func(t *testing.T) {
		ctrl := NewAuthController(testLogger, &fakeAuthService{}, true)
		rr := serve(t, ctrl.Refresh, testCall{method: http.MethodPost, target: "/token/refresh"})
		requireErrorCode(t, rr, http.StatusUnauthorized, helpers.ErrCodeUnauthorized)
	})

	t.Run("invalid token", func(t *testing.T) {
		ctrl := NewAuthController(testLogger, &fakeAuthService{err: domain.ErrInvalidToken}, true)
		rr := serve(t, ctrl.Refresh, testCall{method: http.MethodPost, target: "/token/refresh", cookies: []*http.Cookie{refreshCookie}})
		requireErrorCode(t, rr, http.StatusUnauthorized, helpers.ErrCodeUnauthorized)
	})
}

func TestAuthController_ChangePassword(t *testing.T) {
	tests := []struct {
		name       string
		userID     int64
		body       string
		svcErr     error
		wantStatus int
		wantCode   string
	}{
		{name: "ok", userID: 4, body: `{"current_password":"old","new_password":"new"}`, wantStatus: http.StatusOK},
		{name: "unauthenticated", body: `{"current_password":"old","new_password":"new"}`, wantStatus: http.StatusUnauthorized, wantCode: helpers.ErrCodeUnauthorized},
		{name: "missing new password", userID: 4, body: `{"current_password":"old"}`, wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest},
		{name: "wrong current password", userID: 4, body: `{"current_password":"bad","new_password":"new"}`, svcErr: domain.ErrInvalidCredentials, wantStatus: http.StatusUnauthorized, wantCode: helpers.ErrCodeUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeAuthService{err: tt.svcErr}
			ctrl := NewAuthController(testLogger, svc, true)
			rr := serve(t, ctrl.ChangePassword, testCall{method: http.MethodPut, target: "/profile/password", body: tt.body, userID: tt.userID})

			if tt.wantCode != "" {
				requireErrorCode(t, rr, tt.wantStatus, tt.wantCode)
				return
			}
			require.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, int64(4), svc.gotUserID)
			assert.Equal(t, "old", svc.gotCurrent)
			assert.Equal(t, "new", svc.gotNew)
		})
	}
}
