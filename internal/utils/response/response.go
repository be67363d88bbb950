// Package response renders JSON bodies and maps domain errors to HTTP
// statuses. Error bodies use the {"errors":[{"message":...}]} envelope.
package response

import (
	"errors"

	apperrors "gigpay/internal/errors"

	"github.com/gofiber/fiber/v2"
)

type ErrorItem struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type ErrorBody struct {
	Errors []ErrorItem `json:"errors"`
}

func Success(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(data)
}

func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(ErrorBody{Errors: []ErrorItem{{Message: message}}})
}

func Errors(c *fiber.Ctx, status int, items []ErrorItem) error {
	return c.Status(status).JSON(ErrorBody{Errors: items})
}

func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message)
}

func Unauthorized(c *fiber.Ctx) error {
	return Error(c, fiber.StatusUnauthorized, "Unauthorized")
}

func ServerError(c *fiber.Ctx) error {
	return Error(c, fiber.StatusInternalServerError, apperrors.ErrTransferFailed.Message)
}

// NotFound answers 404 with an empty body.
func NotFound(c *fiber.Ctx) error {
	c.Status(fiber.StatusNotFound)
	return nil
}

// Status returns the HTTP status for a domain error code.
func Status(code string) int {
	switch code {
	case apperrors.CodeNotFound:
		return fiber.StatusNotFound
	case apperrors.CodeForbidden, apperrors.CodeInvalidAmount:
		return fiber.StatusBadRequest
	case apperrors.CodeInsufficientFunds, apperrors.CodeDepositLimitExceeded:
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

// DomainError writes err the way callers are meant to see it. Only the
// DomainError's message is rendered, never its cause; errors that are not
// domain errors become a generic 500.
func DomainError(c *fiber.Ctx, err error) error {
	var de *apperrors.DomainError
	if !errors.As(err, &de) {
		return ServerError(c)
	}

	status := Status(de.Code)
	switch status {
	case fiber.StatusNotFound:
		return NotFound(c)
	case fiber.StatusInternalServerError:
		return ServerError(c)
	default:
		return Error(c, status, de.Message)
	}
}
