package server

import (
	"tastr/internal/models"
	"tastr/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateReview handles POST /api/reviews
// @Summary Create a review
// @Description Records a visit to a restaurant with an optional rating and comment
// @Tags reviews
// @Accept json
// @Produce json
// @Param review body service.CreateReviewInput true "Review"
// @Success 201 {object} models.Review
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /reviews [post]
func (s *Server) CreateReview(c *fiber.Ctx) error {
	userID, err := s.currentUserID(c)
	if err != nil {
		return nil
	}

	var input service.CreateReviewInput
	if err := c.BodyParser(&input); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	review, err := s.reviewService.CreateReview(c.Context(), userID, input)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(review)
}

// UpdateReview handles PUT /api/reviews/:id
func (s *Server) UpdateReview(c *fiber.Ctx) error {
	userID, err := s.currentUserID(c)
	if err != nil {
		return nil
	}
	reviewID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var input service.UpdateReviewInput
	if err := c.BodyParser(&input); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	review, err := s.reviewService.UpdateReview(c.Context(), userID, reviewID, input)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(review)
}

// DeleteReview handles DELETE /api/reviews/:id
func (s *Server) DeleteReview(c *fiber.Ctx) error {
	userID, err := s.currentUserID(c)
	if err != nil {
		return nil
	}
	reviewID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.reviewService.DeleteReview(c.Context(), userID, reviewID); err != nil {
		return respondServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GetUserReviews handles GET /api/users/:id/reviews
func (s *Server) GetUserReviews(c *fiber.Ctx) error {
	if _, err := s.currentUserID(c); err != nil {
		return nil
	}
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 20)

	reviews, err := s.reviewService.ListUserReviews(c.Context(), userID, page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"reviews": reviews,
		"count":   len(reviews),
	})
}
