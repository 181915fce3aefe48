// Package httpx carries the response envelope used by every endpoint.
package httpx

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/apperr"
)

type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func Success(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Envelope{Success: true, Message: message, Data: data})
}

func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(Envelope{Success: false, Message: message})
}

// FromErr maps taxonomy errors to statuses. Storage and unknown errors hide
// their detail behind a generic message.
func FromErr(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return Error(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, apperr.ErrValidation), errors.Is(err, apperr.ErrBadRequest):
		return Error(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, apperr.ErrConflict):
		return Error(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, apperr.ErrUnauthorized):
		return Error(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, apperr.ErrForbidden):
		return Error(c, fiber.StatusForbidden, err.Error())
	default:
		return Error(c, fiber.StatusInternalServerError, "internal server error")
	}
}
