package httpx

import (
	"github.com/bronystylecrazy/skyline/web"
	"github.com/gofiber/fiber/v3"
)

// Unauthorized writes a 401 body. Callers pass an empty message for auth
// failures so the response never reveals why a credential was rejected.
func Unauthorized(c fiber.Ctx, message string) error {
	if message == "" {
		message = "unauthorized"
	}
	return c.Status(fiber.StatusUnauthorized).JSON(web.NewError("UNAUTHORIZED", message))
}

func Forbidden(c fiber.Ctx, message string) error {
	if message == "" {
		message = "forbidden"
	}
	return c.Status(fiber.StatusForbidden).JSON(web.NewError("FORBIDDEN", message))
}
