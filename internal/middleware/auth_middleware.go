package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

// AdminSessionKey is where the logged-in admin's id lives in the session.
const AdminSessionKey = "admin_id"

// RequireAdmin gates the admin panel on the session marker set by login.
// No marker means 401; nothing else about the request is inspected.
func RequireAdmin(store *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := store.Get(c)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "session unavailable"})
		}

		adminID := sess.Get(AdminSessionKey)
		if adminID == nil {
			return c.Status(401).JSON(fiber.Map{"error": "admin login required", "login": "/admin/login"})
		}

		c.Locals(AdminSessionKey, adminID)
		return c.Next()
	}
}
