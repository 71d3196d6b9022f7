package server

import (
	"strings"

	"tastr/internal/listing"
	"tastr/internal/models"

	"github.com/gofiber/fiber/v2"
)

// SearchRestaurants handles GET /api/restaurants/search
func (s *Server) SearchRestaurants(c *fiber.Ctx) error {
	if _, err := s.currentUserID(c); err != nil {
		return nil
	}

	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return c.JSON(fiber.Map{
			"restaurants": []models.Restaurant{},
			"count":       0,
		})
	}
	page := parsePagination(c, 20)

	restaurants, err := s.restaurantRepo.Search(c.Context(), query, page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"restaurants": restaurants,
		"count":       len(restaurants),
	})
}

// GetRestaurant handles GET /api/restaurants/:id
func (s *Server) GetRestaurant(c *fiber.Ctx) error {
	if _, err := s.currentUserID(c); err != nil {
		return nil
	}
	restaurantID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	restaurant, err := s.restaurantRepo.GetByID(c.Context(), restaurantID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(restaurant)
}

// GetCuisines handles GET /api/restaurants/cuisines
func (s *Server) GetCuisines(c *fiber.Ctx) error {
	if _, err := s.currentUserID(c); err != nil {
		return nil
	}

	cuisines, err := s.restaurantRepo.ListCuisines(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"cuisines": cuisines,
		"count":    len(cuisines),
	})
}

// GetVisitedRestaurants handles GET /api/restaurants/visited
// @Summary List visited restaurants
// @Description Returns the viewer's reviewed restaurants with filter and sort options applied
// @Tags restaurants
// @Produce json
// @Param cuisine query string false "Cuisine filter (inclusive category matching)"
// @Param max_distance_km query number false "Distance filter radius in kilometers"
// @Param sort query string false "Sort key" Enums(recently-visited, rating, distance, name)
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /restaurants/visited [get]
func (s *Server) GetVisitedRestaurants(c *fiber.Ctx) error {
	userID, err := s.currentUserID(c)
	if err != nil {
		return nil
	}

	opts := parseListingOptions(c, listing.SortRecentlyVisited)

	entries, err := s.listService.Visited(c.Context(), userID, opts)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"restaurants": entries,
		"count":       len(entries),
	})
}

// GetRestaurantReviews handles GET /api/restaurants/:id/reviews
func (s *Server) GetRestaurantReviews(c *fiber.Ctx) error {
	if _, err := s.currentUserID(c); err != nil {
		return nil
	}
	restaurantID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 20)

	reviews, err := s.reviewService.ListRestaurantReviews(c.Context(), restaurantID, page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"reviews": reviews,
		"count":   len(reviews),
	})
}
