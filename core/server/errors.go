package server

import (
	"feedsync/core/reconcile"

	"github.com/gofiber/fiber/v2"
)

// StatusFor maps an error kind to an HTTP status.
func StatusFor(err error) int {
	switch reconcile.Kind(err) {
	case reconcile.ErrNotFound:
		return fiber.StatusNotFound
	case reconcile.ErrMalformedFeed:
		return fiber.StatusUnprocessableEntity
	case reconcile.ErrFetchFailed:
		return fiber.StatusBadGateway
	case reconcile.ErrInvalidInput:
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorResponse writes err as {"error": ...} with the status of its kind.
func ErrorResponse(c *fiber.Ctx, err error) error {
	return c.Status(StatusFor(err)).JSON(fiber.Map{
		"error": err.Error(),
	})
}
