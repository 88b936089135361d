package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mertbeyaz/battleship-go/internal/domain/game"
)

// Validator is a wrapper around go-playground/validator
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance with custom validation rules
func NewValidator() *Validator {
	v := validator.New()

	// "fleet" checks the countxsize fleet spec syntax
	_ = v.RegisterValidation("fleet", func(fl validator.FieldLevel) bool {
		_, err := game.ParseFleet(fl.Field().String())
		return err == nil
	})

	return &Validator{
		validate: v,
	}
}

// Validate validates a struct using validation tags
func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return v.formatValidationError(err)
	}
	return nil
}

// formatValidationError converts validator errors into readable messages
func (v *Validator) formatValidationError(err error) error {
	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		var messages []string
		for _, e := range validationErrs {
			messages = append(messages, fmt.Sprintf(
				"field '%s' failed validation: %s (value: '%v')",
				e.Field(),
				e.Tag(),
				e.Value(),
			))
		}
		return fmt.Errorf("validation failed:\n  %s", strings.Join(messages, "\n  "))
	}
	return err
}

// ValidateConfig validates the entire configuration. The game section
// additionally passes through the domain rules so a fleet that cannot
// fit the board aborts boot instead of failing the first game.
func ValidateConfig(cfg *Config) error {
	v := NewValidator()
	if err := v.Validate(cfg); err != nil {
		return err
	}
	return cfg.Game.Configuration().Validate()
}
