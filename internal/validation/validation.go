package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "clubhub/internal/errors"
)

// New returns a validator that reports fields by their JSON names.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		switch name {
		case "-":
			return ""
		case "":
			return f.Name
		}
		return name
	})
	return v
}

// Struct validates s and converts the first failure into a validation error.
func Struct(v *validator.Validate, s interface{}) error {
	if err := v.Struct(s); err != nil {
		return Translate(err)
	}
	return nil
}

// Translate turns validator output into an apperrors.ErrValidation with a readable message.
func Translate(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperrors.NewValidationError("%s", err.Error())
	}

	fe := verrs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return apperrors.NewValidationError("%s is required", field)
	case "email":
		return apperrors.NewValidationError("%s must be a valid email address", field)
	case "min":
		return apperrors.NewValidationError("%s must be at least %s characters", field, fe.Param())
	case "max":
		return apperrors.NewValidationError("%s must be at most %s characters", field, fe.Param())
	case "oneof":
		return apperrors.NewValidationError("%s must be one of [%s]", field, fe.Param())
	case "url":
		return apperrors.NewValidationError("%s must be a valid URL", field)
	case "gt":
		return apperrors.NewValidationError("%s must be greater than %s", field, fe.Param())
	case "gtefield":
		return apperrors.NewValidationError("%s must not be before %s", field, fe.Param())
	default:
		return apperrors.NewValidationError("%s is invalid", field)
	}
}

// EchoValidator adapts the validator to echo.Validator.
type EchoValidator struct {
	validator *validator.Validate
}

// NewEchoValidator creates an EchoValidator.
func NewEchoValidator() *EchoValidator {
	return &EchoValidator{validator: New()}
}

// Validate implements echo.Validator interface.
func (ev *EchoValidator) Validate(i interface{}) error {
	return Struct(ev.validator, i)
}
