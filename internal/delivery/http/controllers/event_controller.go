package controllers

import (
	"log/slog"
	"net/http"
	"time"

	h "gatherly/internal/delivery/http/helpers"
	"gatherly/internal/domain"
)

// CreateEventRequest is the request body for POST /events.
type CreateEventRequest struct {
	Name        string `json:"name" validate:"required,max=80"`
	Date        string `json:"date" validate:"required"`
	Location    string `json:"location" validate:"required,max=120"`
	Description string `json:"description" validate:"required"`
}

// Validate implements Validator. The date must use domain.EventDateLayout.
func (c CreateEventRequest) Validate() []string {
	if c.Date == "" {
		return nil
	}
	if _, err := domain.ParseEventDate(c.Date); err != nil {
		return []string{err.Error()}
	}
	return nil
}

// UpdateEventRequest is the request body for PUT /events/{id}. Omitted fields are left unchanged.
type UpdateEventRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=80"`
	Date        *string `json:"date"`
	Location    *string `json:"location" validate:"omitempty,max=120"`
	Description *string `json:"description"`
}

// Validate implements Validator.
func (u UpdateEventRequest) Validate() []string {
	if u.Date == nil {
		return nil
	}
	if _, err := domain.ParseEventDate(*u.Date); err != nil {
		return []string{err.Error()}
	}
	return nil
}

func (u UpdateEventRequest) patch() domain.EventPatch {
	p := domain.EventPatch{Name: u.Name, Location: u.Location, Description: u.Description}
	if u.Date != nil {
		if d, err := domain.ParseEventDate(*u.Date); err == nil {
			p.Date = &d
		}
	}
	return p
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// ListEvents godoc
// @Summary List events
// @Description Events ordered by id. q filters by name (case-insensitive substring); limit defaults to 30, max 100.
// @Tags events
// @Produce json
// @Param q query string false "Name filter"
// @Param limit query int false "Maximum results"
// @Success 200 {object} helpers.APIResponse{data=[]controllers.EventView}
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := c.Service.ListEvents(r.Context(), h.ParseListParams(r))
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, mapViews(events, newEventView))
}

// CreateEvent godoc
// @Summary Create an event
// @Description The authenticated user becomes the event owner. date uses the format YYYY-MM-DDTHH:MM.
// @Tags events
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param event body CreateEventRequest true "Event data"
// @Success 201 {object} helpers.APIResponse{data=controllers.EventView}
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := actorID(w, r)
	if !ok {
		return
	}
	var req CreateEventRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	date, err := domain.ParseEventDate(req.Date)
	if err != nil {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
		return
	}
	event := domain.NewEvent(req.Name, date, req.Location, req.Description, userID, time.Now())
	if err := c.Service.CreateEvent(r.Context(), event); err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, newEventView(event))
}

// GetEvent godoc
// @Summary Get an event
// @Description The event with its RSVPs.
// @Tags events
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} helpers.APIResponse{data=controllers.EventDetailView}
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{id} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}
	event, rsvps, err := c.Service.GetEvent(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, EventDetailView{
		EventView: newEventView(event),
		RSVPs:     mapViews(rsvps, newRSVPView),
	})
}

// UpdateEvent godoc
// @Summary Update an event
// @Description Owner only. Only fields present in the body are changed.
// @Tags events
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param id path int true "Event ID"
// @Param event body UpdateEventRequest true "Fields to change"
// @Success 200 {object} helpers.APIResponse{data=controllers.EventView}
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{id} [put]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := actorID(w, r)
	if !ok {
		return
	}
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}
	var req UpdateEventRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Service.UpdateEvent(r.Context(), id, userID, req.patch())
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, newEventView(event))
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Owner only. Removes the event with its RSVPs and comments.
// @Tags events
// @Produce json
// @Security CookieAuth
// @Param id path int true "Event ID"
// @Success 200 {object} helpers.APIResponse{data=controllers.StatusView}
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{id} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := actorID(w, r)
	if !ok {
		return
	}
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}
	if err := c.Service.DeleteEvent(r.Context(), id, userID); err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, StatusView{Status: "deleted"})
}
