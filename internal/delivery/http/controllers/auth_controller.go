package controllers

import (
	"log/slog"
	"net/http"

	h "gatherly/internal/delivery/http/helpers"
	"gatherly/internal/domain"
)

// RegisterRequest is the request body for POST /register
type RegisterRequest struct {
	Username string `json:"username" validate:"required,max=80"`
	Email    string `json:"email" validate:"required,email,max=120"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest is the request body for POST /login
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ChangePasswordRequest is the request body for PUT /profile/password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
}

type AuthController struct {
	Logger       *slog.Logger
	Service      domain.AuthService
	SecureCookie bool
}

func NewAuthController(logger *slog.Logger, svc domain.AuthService, secureCookie bool) *AuthController {
	return &AuthController{
		Logger:       logger,
		Service:      svc,
		SecureCookie: secureCookie,
	}
}

// Register godoc
// @Summary Register a new user
// @Description Create a user and log them in. Access and refresh tokens are set as HttpOnly cookies.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "Registration data"
// @Success 201 {object} helpers.APIResponse{data=controllers.AuthView}
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /register [post]
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	user, creds, err := c.Service.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.SetAuthCookies(w, creds, c.SecureCookie)
	h.WriteJSONSuccess(w, http.StatusCreated, AuthView{User: newUserView(user)})
}

// Login godoc
// @Summary Log in
// @Description Authenticate with username and password. Access and refresh tokens are set as HttpOnly cookies.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} helpers.APIResponse{data=controllers.AuthView}
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /login [post]
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	user, creds, err := c.Service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.SetAuthCookies(w, creds, c.SecureCookie)
	h.WriteJSONSuccess(w, http.StatusOK, AuthView{User: newUserView(user)})
}

// Logout godoc
// @Summary Log out
// @Description Expire both credential cookies.
// @Tags auth
// @Produce json
// @Security CookieAuth
// @Success 200 {object} helpers.APIResponse{data=controllers.StatusView}
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /logout [post]
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	if _, ok := actorID(w, r); !ok {
		return
	}
	h.ClearAuthCookies(w, c.SecureCookie)
	h.WriteJSONSuccess(w, http.StatusOK, StatusView{Status: "logged out"})
}

// Refresh godoc
// @Summary Refresh the access token
// @Description Mint a new access cookie from the refresh cookie.
// @Tags auth
// @Produce json
// @Success 200 {object} helpers.APIResponse{data=controllers.AuthView}
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /token/refresh [post]
func (c *AuthController) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(h.RefreshTokenCookie)
	if err != nil || cookie.Value == "" {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing refresh token")
		return
	}
	user, creds, err := c.Service.Refresh(r.Context(), cookie.Value)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.SetAuthCookies(w, creds, c.SecureCookie)
	h.WriteJSONSuccess(w, http.StatusOK, AuthView{User: newUserView(user)})
}

// ChangePassword godoc
// @Summary Change password
// @Description Verify the current password and store a new salted hash.
// @Tags auth
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param body body ChangePasswordRequest true "Current and new password"
// @Success 200 {object} helpers.APIResponse{data=controllers.StatusView}
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /profile/password [put]
func (c *AuthController) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := actorID(w, r)
	if !ok {
		return
	}
	var req ChangePasswordRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := c.Service.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, StatusView{Status: "password updated"})
}
