package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

var (
	// ErrValidation is returned when input is malformed. Use NewValidationError to attach detail.
	ErrValidation = errors.New("validation failed")
	// ErrDuplicateEmail is returned when an email is already registered.
	ErrDuplicateEmail = errors.New("email already in use")
	// ErrInvalidCredentials covers both unknown email and wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrMissingCredentials is returned when the Authorization header is absent.
	ErrMissingCredentials = errors.New("missing authorization header")
	// ErrMalformedCredentials is returned when the Authorization header is not "Bearer <token>".
	ErrMalformedCredentials = errors.New("invalid token format")
	// ErrTokenInvalid is returned when a token cannot be parsed or its signature does not match.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrTokenExpired is returned when a correctly signed token is past its expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenRevoked is returned when a token was revoked by logout.
	ErrTokenRevoked = errors.New("token revoked")
	// ErrUnauthenticated is returned when a role check runs without an identity.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden is returned when the identity lacks the required role.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound is returned when an account does not exist.
	ErrNotFound = errors.New("user not found")
	// ErrClubNotFound is returned when a club does not exist.
	ErrClubNotFound = errors.New("club not found")
	// ErrEventNotFound is returned when an event does not exist.
	ErrEventNotFound = errors.New("event not found")
	// ErrRateLimited is returned when a client exceeds the auth endpoint rate.
	ErrRateLimited = errors.New("too many requests")
	// ErrMemberExists is returned when a user is already a member of a club.
	ErrMemberExists = errors.New("user is already a member of this club")
)

// NewValidationError wraps ErrValidation with a human-readable detail.
func NewValidationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// EchoError converts e into the error echo renders, with ErrorResponse as body.
func (e *HTTPError) EchoError() *echo.HTTPError {
	return echo.NewHTTPError(e.StatusCode, e.ToErrorResponse())
}

type mapping struct {
	target error
	status int
	code   string
}

// Order matters: the first match wins.
var mappings = []mapping{
	{ErrValidation, http.StatusBadRequest, "VALIDATION_ERROR"},
	{ErrDuplicateEmail, http.StatusConflict, "DUPLICATE_EMAIL"},
	{ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
	{ErrMissingCredentials, http.StatusUnauthorized, "MISSING_CREDENTIALS"},
	{ErrMalformedCredentials, http.StatusUnauthorized, "MALFORMED_CREDENTIALS"},
	{ErrTokenExpired, http.StatusUnauthorized, "TOKEN_EXPIRED"},
	{ErrTokenInvalid, http.StatusUnauthorized, "TOKEN_INVALID"},
	{ErrTokenRevoked, http.StatusUnauthorized, "TOKEN_REVOKED"},
	{ErrUnauthenticated, http.StatusUnauthorized, "UNAUTHENTICATED"},
	{ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
	{ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
	{ErrClubNotFound, http.StatusNotFound, "CLUB_NOT_FOUND"},
	{ErrEventNotFound, http.StatusNotFound, "EVENT_NOT_FOUND"},
	{ErrMemberExists, http.StatusConflict, "MEMBER_EXISTS"},
	{ErrRateLimited, http.StatusTooManyRequests, "RATE_LIMITED"},
}

// MapErrorToHTTP maps domain errors to HTTP errors. Unknown errors never leak their text.
func MapErrorToHTTP(err error) *HTTPError {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	for _, m := range mappings {
		if errors.Is(err, m.target) {
			return NewHTTPError(m.status, err.Error(), m.code)
		}
	}
	return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
}

// Code returns the stable category for err.
func Code(err error) string {
	return MapErrorToHTTP(err).Code
}
