package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"clubhub/internal/middleware"
	"clubhub/internal/service"
)

// MemberHandler serves /clubs/:clubId/members.
type MemberHandler struct {
	svc service.MemberService
}

// NewMemberHandler creates a member handler.
func NewMemberHandler(svc service.MemberService) *MemberHandler {
	return &MemberHandler{svc: svc}
}

// ListMembers godoc
// @Summary List club members
// @Tags members
// @Produce json
// @Security BearerAuth
// @Param clubId path int true "Club ID"
// @Success 200 {array} model.Member
// @Failure 404 {object} errors.ErrorResponse
// @Router /clubs/{clubId}/members [get]
func (h *MemberHandler) ListMembers(c echo.Context) error {
	clubID, err := parseID(c, "clubId")
	if err != nil {
		return err
	}
	members, err := h.svc.ListMembers(c.Request().Context(), clubID)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, members)
}

// AddMember godoc
// @Summary Join a club
// @Description Users may enrol themselves; admins may enrol anyone with any role.
// @Tags members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param clubId path int true "Club ID"
// @Param member body service.AddMemberInput true "Membership"
// @Success 201 {object} model.Member
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /clubs/{clubId}/members [post]
func (h *MemberHandler) AddMember(c echo.Context) error {
	clubID, err := parseID(c, "clubId")
	if err != nil {
		return err
	}
	var req service.AddMemberInput
	if err := bind(c, &req); err != nil {
		return err
	}
	actor, _ := middleware.IdentityFrom(c)

	member, err := h.svc.AddMember(c.Request().Context(), actor, clubID, req)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, member)
}

// RemoveMember godoc
// @Summary Leave a club
// @Tags members
// @Security BearerAuth
// @Param clubId path int true "Club ID"
// @Param userId path int true "User ID"
// @Success 204
// @Failure 403 {object} errors.ErrorResponse
// @Router /clubs/{clubId}/members/{userId} [delete]
func (h *MemberHandler) RemoveMember(c echo.Context) error {
	clubID, err := parseID(c, "clubId")
	if err != nil {
		return err
	}
	userID, err := parseID(c, "userId")
	if err != nil {
		return err
	}
	actor, _ := middleware.IdentityFrom(c)

	if err := h.svc.RemoveMember(c.Request().Context(), actor, clubID, userID); err != nil {
		return fail(err)
	}
	return c.NoContent(http.StatusNoContent)
}
