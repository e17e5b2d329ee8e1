package controllers

import (
	"log/slog"
	"net/http"

	h "gatherly/internal/delivery/http/helpers"
	"gatherly/internal/domain"
)

type UserController struct {
	Logger       *slog.Logger
	Service      domain.UserService
	SecureCookie bool
}

func NewUserController(logger *slog.Logger, svc domain.UserService, secureCookie bool) *UserController {
	return &UserController{
		Logger:       logger,
		Service:      svc,
		SecureCookie: secureCookie,
	}
}

// ListUsers godoc
// @Summary List users
// @Description Users ordered by id. q filters by username (case-insensitive substring); limit defaults to 30, max 100.
// @Tags users
// @Produce json
// @Param q query string false "Username filter"
// @Param limit query int false "Maximum results"
// @Success 200 {object} helpers.APIResponse{data=[]controllers.UserView}
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users [get]
func (c *UserController) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := c.Service.List(r.Context(), h.ParseListParams(r))
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, mapViews(users, newUserView))
}

// GetMyProfile godoc
// @Summary Get the current user's profile
// @Description The authenticated user with their groups and the events they responded to.
// @Tags users
// @Produce json
// @Security CookieAuth
// @Success 200 {object} helpers.APIResponse{data=controllers.ProfileView}
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /profile [get]
func (c *UserController) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := actorID(w, r)
	if !ok {
		return
	}
	c.writeProfile(w, r, userID)
}

// GetProfile godoc
// @Summary Get a user's profile
// @Description A user with their groups and the events they responded to.
// @Tags users
// @Produce json
// @Security CookieAuth
// @Param id path int true "User ID"
// @Success 200 {object} helpers.APIResponse{data=controllers.ProfileView}
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /profile/{id} [get]
func (c *UserController) GetProfile(w http.ResponseWriter, r *http.Request) {
	if _, ok := actorID(w, r); !ok {
		return
	}
	userID, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}
	c.writeProfile(w, r, userID)
}

func (c *UserController) writeProfile(w http.ResponseWriter, r *http.Request, userID int64) {
	profile, err := c.Service.GetProfile(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, newProfileView(profile))
}

// DeleteAccount godoc
// @Summary Delete the current user
// @Description Remove the account together with everything it owns, then expire the credential cookies.
// @Tags users
// @Produce json
// @Security CookieAuth
// @Success 200 {object} helpers.APIResponse{data=controllers.StatusView}
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /profile [delete]
func (c *UserController) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := actorID(w, r)
	if !ok {
		return
	}
	if err := c.Service.Delete(r.Context(), userID); err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.ClearAuthCookies(w, c.SecureCookie)
	h.WriteJSONSuccess(w, http.StatusOK, StatusView{Status: "deleted"})
}
