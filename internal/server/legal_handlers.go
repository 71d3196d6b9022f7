package server

import (
	_ "embed"

	"github.com/gofiber/fiber/v2"
)

//go:embed legal/terms.md
var termsOfService string

//go:embed legal/privacy.md
var privacyPolicy string

// GetTermsOfService handles GET /api/legal/terms
func (s *Server) GetTermsOfService(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "text/markdown; charset=utf-8")
	return c.SendString(termsOfService)
}

// GetPrivacyPolicy handles GET /api/legal/privacy
func (s *Server) GetPrivacyPolicy(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "text/markdown; charset=utf-8")
	return c.SendString(privacyPolicy)
}
