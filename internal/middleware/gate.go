// Package middleware holds the echo middleware chain: the bearer token gate,
// role checks, request logging, metrics and rate limiting.
package middleware

import (
	"errors"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"clubhub/internal/auth"
	apperrors "clubhub/internal/errors"
	"clubhub/internal/metrics"
	"clubhub/internal/model"
)

// IdentityContextKey is the echo context key holding the *auth.Identity.
const IdentityContextKey = "identity"

// Authenticate requires "Authorization: Bearer <token>" and attaches the
// decoded identity to the request. Every failure short-circuits with 401.
func Authenticate(authenticator *auth.Authenticator, recorder metrics.Recorder) echo.MiddlewareFunc {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  IdentityContextKey,
		TokenLookup: "header:" + echo.HeaderAuthorization,
		ParseTokenFunc: func(c echo.Context, header string) (interface{}, error) {
			token, err := auth.ParseBearer(header)
			if err != nil {
				return nil, err
			}
			return authenticator.Authenticate(c.Request().Context(), token)
		},
		SuccessHandler: func(c echo.Context) {
			id, _ := c.Get(IdentityContextKey).(*auth.Identity)
			req := c.Request()
			c.SetRequest(req.WithContext(auth.WithIdentity(req.Context(), id)))
		},
		ErrorHandler: func(c echo.Context, err error) error {
			var extraction *echojwt.TokenExtractionError
			if errors.As(err, &extraction) {
				err = apperrors.ErrMissingCredentials
			}
			return reject(recorder, err)
		},
	})
}

// Authorize requires the authenticated identity to carry role. It must run
// after Authenticate.
func Authorize(role model.Role, recorder metrics.Recorder) echo.MiddlewareFunc {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := IdentityFrom(c)
			if !ok {
				return reject(recorder, apperrors.ErrUnauthenticated)
			}
			if id.Role != role {
				return reject(recorder, apperrors.ErrForbidden)
			}
			return next(c)
		}
	}
}

// IdentityFrom returns the identity attached by Authenticate.
func IdentityFrom(c echo.Context) (*auth.Identity, bool) {
	if id, ok := c.Get(IdentityContextKey).(*auth.Identity); ok && id != nil {
		return id, true
	}
	return auth.IdentityFromContext(c.Request().Context())
}

func reject(recorder metrics.Recorder, err error) error {
	httpErr := apperrors.MapErrorToHTTP(err)
	recorder.RecordGateRejection(httpErr.Code)
	return httpErr.EchoError()
}
