package controllers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	h "gatherly/internal/delivery/http/helpers"
	"gatherly/internal/domain"
)

// InviteRequest is the request body for POST /groups/{id}/invite. group_id is optional
// and must match the path when given. Both ids may be sent as JSON numbers or numeric strings.
type InviteRequest struct {
	GroupID       json.Number `json:"group_id" swaggertype:"string" example:"3"`
	InvitedUserID json.Number `json:"invited_user_id" swaggertype:"string" example:"2"`
}

func parseID(n json.Number) (int64, error) {
	if n == "" {
		return 0, nil
	}
	return strconv.ParseInt(n.String(), 10, 64)
}

func (req InviteRequest) Validate() []string {
	var errs []string
	if _, err := parseID(req.GroupID); err != nil {
		errs = append(errs, "group_id must be an integer")
	}
	if _, err := parseID(req.InvitedUserID); err != nil {
		errs = append(errs, "invited_user_id must be an integer")
	}
	return errs
}

// ids returns the parsed group and invitee ids. Omitted ids are zero.
func (req InviteRequest) ids() (groupID, invitedUserID int64) {
	groupID, _ = parseID(req.GroupID)
	invitedUserID, _ = parseID(req.InvitedUserID)
	return groupID, invitedUserID
}

type InvitationController struct {
	Logger  *slog.Logger
	Service domain.InvitationService
}

func NewInvitationController(logger *slog.Logger, svc domain.InvitationService) *InvitationController {
	return &InvitationController{
		Logger:  logger,
		Service: svc,
	}
}

// Invite godoc
// @Summary Invite a user to a group
// @Description Owner only. Creates a pending invitation and emails the invitee.
// @Tags invitations
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param id path int true "Group ID"
// @Param body body InviteRequest true "Invitee"
// @Success 201 {object} helpers.APIResponse{data=controllers.InvitationView}
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /groups/{id}/invite [post]
func (c *InvitationController) Invite(w http.ResponseWriter, r *http.Request) {
	userID, ok := actorID(w, r)
	if !ok {
		return
	}
	groupID, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}
	var req InviteRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	bodyGroupID, invitedUserID := req.ids()
	if req.GroupID != "" && bodyGroupID != groupID {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "group_id does not match the path")
		return
	}
	inv, err := c.Service.Invite(r.Context(), groupID, userID, invitedUserID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, newInvitationView(inv))
}

// ListGroupInvitations godoc
// @Summary List a group's invitations
// @Description Owner only. Every invitation of the group regardless of status.
// @Tags invitations
// @Produce json
// @Security CookieAuth
// @Param id path int true "Group ID"
// @Success 200 {object} helpers.APIResponse{data=[]controllers.InvitationView}
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /groups/{id}/invitations [get]
func (c *InvitationController) ListGroupInvitations(w http.ResponseWriter, r *http.Request) {
	userID, ok := actorID(w, r)
	if !ok {
		return
	}
	groupID, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}
	invs, err := c.Service.ListForGroup(r.Context(), groupID, userID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, mapViews(invs, newInvitationView))
}

// ListPending godoc
// @Summary List my pending invitations
// @Tags invitations
// @Produce json
// @Security CookieAuth
// @Success 200 {object} helpers.APIResponse{data=[]controllers.InvitationView}
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invitations [get]
func (c *InvitationController) ListPending(w http.ResponseWriter, r *http.Request) {
	userID, ok := actorID(w, r)
	if !ok {
		return
	}
	invs, err := c.Service.ListPending(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, mapViews(invs, newInvitationView))
}

// Accept godoc
// @Summary Accept an invitation
// @Description Invitee only. Adds the invitee to the group. Accepting twice is a no-op.
// @Tags invitations
// @Produce json
// @Security CookieAuth
// @Param id path int true "Invitation ID"
// @Success 200 {object} helpers.APIResponse{data=controllers.InvitationView}
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invitations/{id}/accept [put]
func (c *InvitationController) Accept(w http.ResponseWriter, r *http.Request) {
	c.resolve(w, r, c.Service.Accept)
}

// Deny godoc
// @Summary Deny an invitation
// @Description Invitee only. Denying twice is a no-op.
// @Tags invitations
// @Produce json
// @Security CookieAuth
// @Param id path int true "Invitation ID"
// @Success 200 {object} helpers.APIResponse{data=controllers.InvitationView}
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invitations/{id}/deny [put]
func (c *InvitationController) Deny(w http.ResponseWriter, r *http.Request) {
	c.resolve(w, r, c.Service.Deny)
}

func (c *InvitationController) resolve(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id, actorID int64) (*domain.GroupInvitation, error)) {
	userID, ok := actorID(w, r)
	if !ok {
		return
	}
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}
	inv, err := fn(r.Context(), id, userID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, newInvitationView(inv))
}
