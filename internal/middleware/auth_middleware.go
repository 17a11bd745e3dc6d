package middleware

import (
	"strings"

	"go-pos/internal/model"
	"go-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Guard builds the auth middlewares. A disabled guard lets every request
// through, which keeps the API open for a single-till install.
type Guard struct {
	auth    service.AuthService
	enabled bool
}

func NewGuard(auth service.AuthService, enabled bool) *Guard {
	return &Guard{auth: auth, enabled: enabled}
}

// RequireAuth validates the Bearer token and stores the user in Locals.
func (g *Guard) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !g.enabled {
			return c.Next()
		}

		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing authorization token"})
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid authorization format. Use: Bearer <token>"})
		}

		user, err := g.auth.Authenticate(c.UserContext(), parts[1])
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		c.Locals("user", user)
		c.Locals("user_id", user.ID.String())
		c.Locals("user_privileges", user.Privileges())

		return c.Next()
	}
}

// RequirePrivilege checks if the authenticated user has the required privilege
func (g *Guard) RequirePrivilege(requiredPrivilege string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !g.enabled {
			return c.Next()
		}

		privileges, ok := c.Locals("user_privileges").([]string)
		if !ok {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "No privileges found"})
		}

		for _, p := range privileges {
			if p == requiredPrivilege {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Forbidden: requires '" + requiredPrivilege + "' privilege",
		})
	}
}

// CurrentUser returns the user set by RequireAuth, or nil.
func CurrentUser(c *fiber.Ctx) *model.User {
	user, _ := c.Locals("user").(*model.User)
	return user
}
