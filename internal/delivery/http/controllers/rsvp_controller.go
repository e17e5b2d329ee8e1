package controllers

import (
	"log/slog"
	"net/http"

	h "gatherly/internal/delivery/http/helpers"
	"gatherly/internal/domain"
)

// RSVPRequest is the request body for POST /rsvps.
type RSVPRequest struct {
	EventID int64  `json:"event_id" validate:"required,gt=0"`
	Status  string `json:"status" validate:"required,max=20"`
}

type RSVPController struct {
	Logger  *slog.Logger
	Service domain.RSVPService
}

func NewRSVPController(logger *slog.Logger, svc domain.RSVPService) *RSVPController {
	return &RSVPController{
		Logger:  logger,
		Service: svc,
	}
}

// Respond godoc
// @Summary RSVP to an event
// @Description Creates the caller's RSVP (201) or updates the status of the existing one (200).
// @Tags rsvps
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param body body RSVPRequest true "Event and status"
// @Success 200 {object} helpers.APIResponse{data=controllers.RSVPView}
// @Success 201 {object} helpers.APIResponse{data=controllers.RSVPView}
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /rsvps [post]
func (c *RSVPController) Respond(w http.ResponseWriter, r *http.Request) {
	userID, ok := actorID(w, r)
	if !ok {
		return
	}
	var req RSVPRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	rsvp, created, err := c.Service.Respond(r.Context(), req.EventID, userID, req.Status)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	h.WriteJSONSuccess(w, status, newRSVPView(rsvp))
}

// ListEventRSVPs godoc
// @Summary List an event's RSVPs
// @Tags rsvps
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} helpers.APIResponse{data=[]controllers.RSVPView}
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{id}/rsvps [get]
func (c *RSVPController) ListEventRSVPs(w http.ResponseWriter, r *http.Request) {
	eventID, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}
	rsvps, err := c.Service.ListByEvent(r.Context(), eventID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, mapViews(rsvps, newRSVPView))
}
