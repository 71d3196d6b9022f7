package server

import (
	"tastr/internal/listing"

	"github.com/gofiber/fiber/v2"
)

// GetWantToTry handles GET /api/lists/want-to-try
func (s *Server) GetWantToTry(c *fiber.Ctx) error {
	userID, err := s.currentUserID(c)
	if err != nil {
		return nil
	}

	opts := parseListingOptions(c, listing.SortRecentlyAdded)

	entries, err := s.listService.WantToTry(c.Context(), userID, opts)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"restaurants": entries,
		"count":       len(entries),
	})
}

// AddWantToTry handles POST /api/lists/want-to-try/:restaurantId
func (s *Server) AddWantToTry(c *fiber.Ctx) error {
	userID, err := s.currentUserID(c)
	if err != nil {
		return nil
	}
	restaurantID, err := s.parseID(c, "restaurantId")
	if err != nil {
		return nil
	}

	if err := s.listService.AddWantToTry(c.Context(), userID, restaurantID); err != nil {
		return respondServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusCreated)
}

// RemoveWantToTry handles DELETE /api/lists/want-to-try/:restaurantId
func (s *Server) RemoveWantToTry(c *fiber.Ctx) error {
	userID, err := s.currentUserID(c)
	if err != nil {
		return nil
	}
	restaurantID, err := s.parseID(c, "restaurantId")
	if err != nil {
		return nil
	}

	if err := s.listService.RemoveWantToTry(c.Context(), userID, restaurantID); err != nil {
		return respondServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GetFavorites handles GET /api/lists/favorites
func (s *Server) GetFavorites(c *fiber.Ctx) error {
	userID, err := s.currentUserID(c)
	if err != nil {
		return nil
	}

	opts := parseListingOptions(c, listing.SortRecentlyAdded)

	entries, err := s.listService.Favorites(c.Context(), userID, opts)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"restaurants": entries,
		"count":       len(entries),
	})
}

// AddFavorite handles POST /api/lists/favorites/:restaurantId
func (s *Server) AddFavorite(c *fiber.Ctx) error {
	userID, err := s.currentUserID(c)
	if err != nil {
		return nil
	}
	restaurantID, err := s.parseID(c, "restaurantId")
	if err != nil {
		return nil
	}

	if err := s.listService.AddFavorite(c.Context(), userID, restaurantID); err != nil {
		return respondServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusCreated)
}

// RemoveFavorite handles DELETE /api/lists/favorites/:restaurantId
func (s *Server) RemoveFavorite(c *fiber.Ctx) error {
	userID, err := s.currentUserID(c)
	if err != nil {
		return nil
	}
	restaurantID, err := s.parseID(c, "restaurantId")
	if err != nil {
		return nil
	}

	if err := s.listService.RemoveFavorite(c.Context(), userID, restaurantID); err != nil {
		return respondServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
