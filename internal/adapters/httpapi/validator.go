package httpapi

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mertbeyaz/battleship-go/internal/domain/shared"
)

// requestValidator plugs go-playground/validator into echo's Validate
// hook. Failures surface as BadRequest so the error mapper gives 400.
type requestValidator struct {
	validate *validator.Validate
}

func newRequestValidator() *requestValidator {
	return &requestValidator{validate: validator.New()}
}

func (v *requestValidator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return shared.NewBadRequestError(err.Error())
	}

	details := make([]string, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		details = append(details, describeFieldError(fieldError))
	}
	return shared.NewBadRequestError(strings.Join(details, "; "))
}

func describeFieldError(err validator.FieldError) string {
	field := strings.ToLower(err.Field()[:1]) + err.Field()[1:]
	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, err.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, err.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, err.Tag())
	}
}
