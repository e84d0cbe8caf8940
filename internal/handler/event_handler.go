package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "clubhub/internal/errors"
	"clubhub/internal/repository"
	"clubhub/internal/service"
)

// EventHandler serves /events and the club event listings.
type EventHandler struct {
	svc service.EventService
}

// NewEventHandler creates an event handler.
func NewEventHandler(svc service.EventService) *EventHandler {
	return &EventHandler{svc: svc}
}

// ListEvents godoc
// @Summary List events
// @Tags events
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Param search query string false "Title substring"
// @Param club_id query int false "Only events of this club"
// @Param start_date query string false "Events starting on or after (RFC 3339 or YYYY-MM-DD)"
// @Param end_date query string false "Events ending on or before (RFC 3339 or YYYY-MM-DD)"
// @Success 200 {object} service.EventList
// @Failure 400 {object} errors.ErrorResponse
// @Router /events [get]
func (h *EventHandler) ListEvents(c echo.Context) error {
	page, search, err := bindList(c)
	if err != nil {
		return err
	}

	filter := repository.EventFilter{Search: search}
	if raw := c.QueryParam("club_id"); raw != "" {
		clubID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return fail(apperrors.NewValidationError("invalid club_id"))
		}
		filter.ClubID = uint(clubID)
	}
	if filter.StartDate, err = parseDate(c.QueryParam("start_date"), "start_date"); err != nil {
		return err
	}
	if filter.EndDate, err = parseDate(c.QueryParam("end_date"), "end_date"); err != nil {
		return err
	}

	list, err := h.svc.ListEvents(c.Request().Context(), page, filter)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, list)
}

// UpcomingEvents godoc
// @Summary Upcoming events
// @Tags events
// @Produce json
// @Param limit query int false "Maximum number of events" default(5)
// @Success 200 {array} model.Event
// @Router /events/upcoming [get]
func (h *EventHandler) UpcomingEvents(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fail(apperrors.NewValidationError("invalid limit"))
		}
		limit = n
	}
	events, err := h.svc.UpcomingEvents(c.Request().Context(), limit)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, events)
}

// ClubEvents godoc
// @Summary Events of a club
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param clubId path int true "Club ID"
// @Success 200 {array} model.Event
// @Failure 404 {object} errors.ErrorResponse
// @Router /events/club/{clubId} [get]
// @Router /clubs/{clubId}/events [get]
func (h *EventHandler) ClubEvents(c echo.Context) error {
	clubID, err := parseID(c, "clubId")
	if err != nil {
		return err
	}
	events, err := h.svc.ClubEvents(c.Request().Context(), clubID)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, events)
}

// GetEvent godoc
// @Summary Get event by id
// @Tags events
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} model.Event
// @Failure 404 {object} errors.ErrorResponse
// @Router /events/{id} [get]
func (h *EventHandler) GetEvent(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	event, err := h.svc.GetEvent(c.Request().Context(), id)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, event)
}

// CreateEvent godoc
// @Summary Create event
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body service.EventInput true "Event payload"
// @Success 201 {object} model.Event
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /events [post]
func (h *EventHandler) CreateEvent(c echo.Context) error {
	var req service.EventInput
	if err := bind(c, &req); err != nil {
		return err
	}
	event, err := h.svc.CreateEvent(c.Request().Context(), req)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, event)
}

// UpdateEvent godoc
// @Summary Update event
// @Description Partial update. Omitted fields are kept; the merged end_date must not precede start_date.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param event body service.UpdateEventInput true "Fields to change"
// @Success 200 {object} model.Event
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /events/{id} [put]
func (h *EventHandler) UpdateEvent(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req service.UpdateEventInput
	if err := bind(c, &req); err != nil {
		return err
	}
	event, err := h.svc.UpdateEvent(c.Request().Context(), id, req)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, event)
}

// DeleteEvent godoc
// @Summary Delete event
// @Tags events
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 204
// @Failure 404 {object} errors.ErrorResponse
// @Router /events/{id} [delete]
func (h *EventHandler) DeleteEvent(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.DeleteEvent(c.Request().Context(), id); err != nil {
		return fail(err)
	}
	return c.NoContent(http.StatusNoContent)
}
