package middlewares

import (
	"errors"
	"log"

	"github.com/zaidnahleh2581-boop/halalmapprime-sub000/gates"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ErrorHandler centralizes error responses and keeps messages sanitized.
func ErrorHandler(c *fiber.Ctx, err error) error {
	// 1) Fiber errors (use their status code + message)
	if fe, ok := err.(*fiber.Error); ok {
		return c.Status(fe.Code).JSON(fiber.Map{"message": fe.Message})
	}

	// 2) Validation errors (422 + per-field info)
	if ve, ok := err.(validator.ValidationErrors); ok {
		out := make(map[string]string, len(ve))
		for _, fe := range ve {
			out[fe.Field()] = fe.Tag()
		}
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message": "validation failed",
			"errors":  out,
		})
	}

	// 3) Gate infrastructure errors: always fail-closed, never Allowed.
	switch {
	case errors.Is(err, gates.ErrUnavailable):
		log.Printf("gate store unavailable: %v", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"message": "service temporarily unavailable, please try again",
		})
	case errors.Is(err, gates.ErrPermissionDenied):
		// Configuration/ACL problem, logged distinctly from business denials.
		log.Printf("gate store permission denied: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "internal server error",
		})
	case errors.Is(err, gates.ErrNoIdentity):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "could not establish identity, please try again",
		})
	}

	// 4) Unknown errors (500)
	log.Printf("internal error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "internal server error",
	})
}
