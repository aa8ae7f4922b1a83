package response

import (
	"errors"

	"yardsale-board/internal/domain"

	"github.com/gofiber/fiber/v2"
)

// ErrorBody is the error JSON shape every endpoint returns.
type ErrorBody struct {
	Error string `json:"error"`
}

// JSON sends data with the given status code.
func JSON(c *fiber.Ctx, statusCode int, data interface{}) error {
	return c.Status(statusCode).JSON(data)
}

// OK sends a 200 response.
func OK(c *fiber.Ctx, data interface{}) error {
	return JSON(c, fiber.StatusOK, data)
}

// Error sends { "error": message }.
func Error(c *fiber.Ctx, message string, statusCode int) error {
	return c.Status(statusCode).JSON(ErrorBody{Error: message})
}

// StatusFor maps domain errors to HTTP status codes.
func StatusFor(err error) int {
	var verr *domain.ValidationError
	var perr *domain.ProcessorError
	switch {
	case errors.As(err, &verr):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrListingNotFound):
		return fiber.StatusNotFound
	case errors.As(err, &perr):
		return fiber.StatusBadGateway
	case errors.Is(err, domain.ErrInvalidSignature):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// FromError converts a service error into the error body. Unclassified errors keep
// their message, matching what the browser shows in its alert.
func FromError(c *fiber.Ctx, err error) error {
	return Error(c, err.Error(), StatusFor(err))
}

// Unauthorized sends 403 with the standard error body.
func Unauthorized(c *fiber.Ctx) error {
	return Error(c, "Unauthorized", fiber.StatusForbidden)
}
