package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"clubhub/internal/service"
)

// ClubHandler serves /clubs.
type ClubHandler struct {
	svc service.ClubService
}

// NewClubHandler creates a club handler.
func NewClubHandler(svc service.ClubService) *ClubHandler {
	return &ClubHandler{svc: svc}
}

// ListClubs godoc
// @Summary List clubs
// @Tags clubs
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Param search query string false "Name substring"
// @Success 200 {object} service.ClubList
// @Router /clubs [get]
func (h *ClubHandler) ListClubs(c echo.Context) error {
	page, search, err := bindList(c)
	if err != nil {
		return err
	}
	list, err := h.svc.ListClubs(c.Request().Context(), page, search)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, list)
}

// GetClub godoc
// @Summary Get club by id
// @Tags clubs
// @Produce json
// @Param id path int true "Club ID"
// @Success 200 {object} model.Club
// @Failure 404 {object} errors.ErrorResponse
// @Router /clubs/{id} [get]
func (h *ClubHandler) GetClub(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	club, err := h.svc.GetClub(c.Request().Context(), id)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, club)
}

// CreateClub godoc
// @Summary Create club
// @Tags clubs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param club body service.ClubInput true "Club payload"
// @Success 201 {object} model.Club
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /clubs [post]
func (h *ClubHandler) CreateClub(c echo.Context) error {
	var req service.ClubInput
	if err := bind(c, &req); err != nil {
		return err
	}
	club, err := h.svc.CreateClub(c.Request().Context(), req)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, club)
}

// UpdateClub godoc
// @Summary Update club
// @Description Partial update. Omitted fields are kept; an empty image or facebook_url clears it.
// @Tags clubs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Club ID"
// @Param club body service.UpdateClubInput true "Fields to change"
// @Success 200 {object} model.Club
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /clubs/{id} [put]
func (h *ClubHandler) UpdateClub(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req service.UpdateClubInput
	if err := bind(c, &req); err != nil {
		return err
	}
	club, err := h.svc.UpdateClub(c.Request().Context(), id, req)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, club)
}

// DeleteClub godoc
// @Summary Delete club
// @Description Also removes the club's events and memberships.
// @Tags clubs
// @Security BearerAuth
// @Param id path int true "Club ID"
// @Success 204
// @Failure 404 {object} errors.ErrorResponse
// @Router /clubs/{id} [delete]
func (h *ClubHandler) DeleteClub(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.DeleteClub(c.Request().Context(), id); err != nil {
		return fail(err)
	}
	return c.NoContent(http.StatusNoContent)
}
