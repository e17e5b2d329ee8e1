package controllers

import (
	"log/slog"
	"net/http"

	h "gatherly/internal/delivery/http/helpers"
	"gatherly/internal/domain"
)

// CreateCommentRequest is the request body for POST /events/{id}/comments.
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required"`
}

type CommentController struct {
	Logger  *slog.Logger
	Service domain.CommentService
}

func NewCommentController(logger *slog.Logger, svc domain.CommentService) *CommentController {
	return &CommentController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateComment godoc
// @Summary Comment on an event
// @Tags comments
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param id path int true "Event ID"
// @Param body body CreateCommentRequest true "Comment"
// @Success 201 {object} helpers.APIResponse{data=controllers.CommentView}
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{id}/comments [post]
func (c *CommentController) CreateComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := actorID(w, r)
	if !ok {
		return
	}
	eventID, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}
	var req CreateCommentRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	comment, err := c.Service.Create(r.Context(), eventID, userID, req.Content)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, newCommentView(comment))
}

// ListComments godoc
// @Summary List an event's comments
// @Tags comments
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} helpers.APIResponse{data=[]controllers.CommentView}
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{id}/comments [get]
func (c *CommentController) ListComments(w http.ResponseWriter, r *http.Request) {
	eventID, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}
	comments, err := c.Service.ListByEvent(r.Context(), eventID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, mapViews(comments, newCommentView))
}
