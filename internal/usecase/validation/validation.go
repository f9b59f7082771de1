package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "directory-service/pkg/errors"
)

// New returns the validator shared by the usecases.
func New() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

// Format converts validator.ValidationErrors into a human-readable ValidationError.
// Errors of any other type are returned unchanged.
func Format(err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		switch e.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", e.Field()))
		case "email":
			messages = append(messages, fmt.Sprintf("%s must be a valid email", e.Field()))
		case "min":
			messages = append(messages, fmt.Sprintf("%s must be at least %s characters", e.Field(), e.Param()))
		case "max":
			messages = append(messages, fmt.Sprintf("%s must be at most %s characters", e.Field(), e.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", e.Field()))
		}
	}
	return apperrors.NewValidationError("", "validation failed: "+strings.Join(messages, ", "))
}
