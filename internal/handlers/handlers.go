// Package handlers carries the HTTP layer: request DTOs, validation and the
// translation between services and the response envelope.
package handlers

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/apperr"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// checkBody validates a parsed DTO and wraps failures in the validation
// sentinel so FromErr maps them to 400.
func checkBody(body any) error {
	if err := validate.Struct(body); err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrValidation, err)
	}
	return nil
}
