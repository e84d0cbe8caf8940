package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"clubhub/internal/auth"
	apperrors "clubhub/internal/errors"
	"clubhub/internal/middleware"
	"clubhub/internal/model"
	"clubhub/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// AccountResponse is the public view of an account.
type AccountResponse struct {
	ID    uint       `json:"id"`
	Name  string     `json:"name"`
	Email string     `json:"email"`
	Role  model.Role `json:"role"`
}

// AuthResponse represents an authentication response.
type AuthResponse struct {
	User      AccountResponse `json:"user"`
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
}

func newAccountResponse(u *model.User) AccountResponse {
	return AccountResponse{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

func newAuthResponse(res *service.AuthResult) AuthResponse {
	return AuthResponse{User: newAccountResponse(res.User), Token: res.Token, ExpiresAt: res.ExpiresAt}
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.RegisterInput true "Registration data"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req service.RegisterInput
	if err := bind(c, &req); err != nil {
		return err
	}

	res, err := h.authService.Register(c.Request().Context(), req)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, newAuthResponse(res))
}

// Login godoc
// @Summary Login user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.LoginInput true "Login credentials"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req service.LoginInput
	if err := bind(c, &req); err != nil {
		return err
	}

	res, err := h.authService.Login(c.Request().Context(), req)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, newAuthResponse(res))
}

// Me godoc
// @Summary Current account
// @Description Decodes the bearer token and returns the account as currently stored.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} AccountResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	token, err := auth.ParseBearer(c.Request().Header.Get(echo.HeaderAuthorization))
	if err != nil {
		return fail(err)
	}

	user, err := h.authService.WhoAmI(c.Request().Context(), token)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, newAccountResponse(user))
}

// Logout godoc
// @Summary Logout
// @Description Revokes the current token when server-side revocation is enabled.
// @Tags auth
// @Security BearerAuth
// @Success 204
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return fail(apperrors.ErrUnauthenticated)
	}
	if err := h.authService.Logout(c.Request().Context(), id); err != nil {
		return fail(err)
	}
	return c.NoContent(http.StatusNoContent)
}
