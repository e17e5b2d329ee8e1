package controllers

import (
	"log/slog"
	"net/http"
	"time"

	h "gatherly/internal/delivery/http/helpers"
	"gatherly/internal/domain"
)

// CreateGroupRequest is the request body for POST /groups.
type CreateGroupRequest struct {
	Name        string `json:"name" validate:"required,max=80"`
	Description string `json:"description" validate:"required"`
}

type GroupController struct {
	Logger  *slog.Logger
	Service domain.GroupService
}

func NewGroupController(logger *slog.Logger, svc domain.GroupService) *GroupController {
	return &GroupController{
		Logger:  logger,
		Service: svc,
	}
}

// ListGroups godoc
// @Summary List groups
// @Description Groups ordered by id. q filters by name (case-insensitive substring); limit defaults to 30, max 100.
// @Tags groups
// @Produce json
// @Param q query string false "Name filter"
// @Param limit query int false "Maximum results"
// @Success 200 {object} helpers.APIResponse{data=[]controllers.GroupView}
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /groups [get]
func (c *GroupController) ListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := c.Service.ListGroups(r.Context(), h.ParseListParams(r))
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, mapViews(groups, newGroupView))
}

// CreateGroup godoc
// @Summary Create a group
// @Description The authenticated user becomes the owner and first member.
// @Tags groups
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param group body CreateGroupRequest true "Group data"
// @Success 201 {object} helpers.APIResponse{data=controllers.GroupView}
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /groups [post]
func (c *GroupController) CreateGroup(w http.ResponseWriter, r *http.Request) {
	userID, ok := actorID(w, r)
	if !ok {
		return
	}
	var req CreateGroupRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	group := domain.NewGroup(req.Name, req.Description, userID, time.Now())
	if err := c.Service.CreateGroup(r.Context(), group); err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, newGroupView(group))
}

// GetGroup godoc
// @Summary Get a group
// @Description The group with its members.
// @Tags groups
// @Produce json
// @Param id path int true "Group ID"
// @Success 200 {object} helpers.APIResponse{data=controllers.GroupDetailView}
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /groups/{id} [get]
func (c *GroupController) GetGroup(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}
	group, members, err := c.Service.GetGroup(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, GroupDetailView{
		GroupView: newGroupView(group),
		Members:   mapViews(members, newMemberView),
	})
}

// DeleteGroup godoc
// @Summary Delete a group
// @Description Owner only. Removes the group, its memberships and invitations.
// @Tags groups
// @Produce json
// @Security CookieAuth
// @Param id path int true "Group ID"
// @Success 200 {object} helpers.APIResponse{data=controllers.StatusView}
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /groups/{id} [delete]
func (c *GroupController) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	userID, ok := actorID(w, r)
	if !ok {
		return
	}
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}
	if err := c.Service.DeleteGroup(r.Context(), id, userID); err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, StatusView{Status: "deleted"})
}
