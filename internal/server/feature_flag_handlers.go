package server

import (
	"blog/internal/auth"

	"github.com/gofiber/fiber/v2"
)

// GetFeatureFlags returns configured feature flags and their state for the current user.
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	if s.flags == nil {
		return c.JSON(fiber.Map{
			"raw":       map[string]string{},
			"evaluated": map[string]bool{},
		})
	}

	return c.JSON(fiber.Map{
		"raw":       s.flags.Raw(),
		"evaluated": s.flags.Snapshot(auth.UserID(c)),
	})
}
