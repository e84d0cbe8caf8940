package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	apperrors "clubhub/internal/errors"
	"clubhub/internal/repository"
)

// fail renders err as an ErrorResponse. The original error stays attached
// as the internal error so the request logger can report it.
func fail(err error) error {
	return apperrors.MapErrorToHTTP(err).EchoError().SetInternal(err)
}

func bind(c echo.Context, dst interface{}) error {
	if err := c.Bind(dst); err != nil {
		return fail(apperrors.NewValidationError("invalid request body"))
	}
	return nil
}

func parseID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, fail(apperrors.NewValidationError("invalid %s", name))
	}
	return uint(id), nil
}

// listQuery holds the pagination parameters shared by list endpoints.
type listQuery struct {
	Page   int    `query:"page"`
	Limit  int    `query:"limit"`
	Search string `query:"search" validate:"max=255"`
}

func bindList(c echo.Context) (repository.Page, string, error) {
	var q listQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return repository.Page{}, "", fail(apperrors.NewValidationError("invalid pagination parameters"))
	}
	if err := c.Validate(&q); err != nil {
		return repository.Page{}, "", fail(err)
	}
	return repository.NewPage(q.Page, q.Limit), strings.TrimSpace(q.Search), nil
}

// parseDate accepts RFC 3339 timestamps and plain dates.
func parseDate(value, name string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, value); err == nil {
			return &t, nil
		}
	}
	return nil, fail(apperrors.NewValidationError("%s must be a date", name))
}
