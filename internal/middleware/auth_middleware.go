package middleware

import (
	"strings"

	"hilanderia-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

// RequireAuth validates the session token and sets the staff info in context
func RequireAuth(auth service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Get Authorization header
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(401).JSON(fiber.Map{"error": "Missing authorization token"})
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid authorization format. Use: Bearer <token>"})
		}

		session, err := auth.ValidateToken(c.UserContext(), parts[1])
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		// Set staff info in context for downstream handlers
		c.Locals("session", session)
		c.Locals("staff_id", session.StaffID.String())
		c.Locals("staff_name", session.Name)
		c.Locals("staff_profile", string(session.Profile))

		return c.Next()
	}
}
