package server

import (
	"tastr/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPopularRestaurants handles GET /api/feed/popular
// @Summary Popular restaurants among followed users
// @Description Ranks restaurants by recent visit volume among the users the viewer follows
// @Tags feed
// @Produce json
// @Param window_days query int false "Ranking window in days" default(30)
// @Param limit query int false "Maximum number of results" default(10)
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /feed/popular [get]
func (s *Server) GetPopularRestaurants(c *fiber.Ctx) error {
	viewerID, err := s.currentUserID(c)
	if err != nil {
		return nil
	}

	windowDays := c.QueryInt("window_days", service.DefaultRankingWindowDays)
	limit := c.QueryInt("limit", service.DefaultRankingSize)

	ranked, err := s.popularityService.Rank(c.Context(), viewerID, windowDays, limit)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"restaurants": ranked,
		"count":       len(ranked),
	})
}
