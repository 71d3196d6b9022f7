package server

import (
	"tastr/internal/models"

	"github.com/gofiber/fiber/v2"
)

const maxBatchStatusSize = 100

// FollowUser handles POST /api/follows/:userId
// @Summary Follow a user
// @Description Creates a follow edge toward the target user. Following is unilateral and idempotent.
// @Tags follows
// @Produce json
// @Param userId path int true "Target user ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /follows/{userId} [post]
func (s *Server) FollowUser(c *fiber.Ctx) error {
	viewerID, err := s.currentUserID(c)
	if err != nil {
		return nil
	}
	targetID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	status, err := s.followService.Follow(c.Context(), viewerID, targetID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"user_id": targetID,
		"status":  status,
	})
}

// UnfollowUser handles DELETE /api/follows/:userId
// @Summary Unfollow a user
// @Description Removes the viewer's follow edge. The returned status reflects any remaining reverse edge.
// @Tags follows
// @Produce json
// @Param userId path int true "Target user ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /follows/{userId} [delete]
func (s *Server) UnfollowUser(c *fiber.Ctx) error {
	viewerID, err := s.currentUserID(c)
	if err != nil {
		return nil
	}
	targetID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	status, err := s.followService.Unfollow(c.Context(), viewerID, targetID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"user_id": targetID,
		"status":  status,
	})
}

// GetFollowStatus handles GET /api/follows/status/:userId
func (s *Server) GetFollowStatus(c *fiber.Ctx) error {
	viewerID, err := s.currentUserID(c)
	if err != nil {
		return nil
	}
	targetID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	status, err := s.followService.Resolve(c.Context(), viewerID, targetID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"user_id": targetID,
		"status":  status,
	})
}

// GetFollowStatusBatch handles POST /api/follows/status/batch
func (s *Server) GetFollowStatusBatch(c *fiber.Ctx) error {
	viewerID, err := s.currentUserID(c)
	if err != nil {
		return nil
	}

	var input struct {
		UserIDs []uint `json:"user_ids"`
	}
	if err := c.BodyParser(&input); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if len(input.UserIDs) > maxBatchStatusSize {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Too many user IDs in batch request"))
	}

	statuses, err := s.followService.ResolveMany(c.Context(), viewerID, input.UserIDs)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"statuses": statuses,
	})
}

// GetFollowers handles GET /api/users/:id/followers
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	viewerID, err := s.currentUserID(c)
	if err != nil {
		return nil
	}
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	followers, err := s.followService.FollowersWithStatus(c.Context(), viewerID, userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"followers": followers,
		"count":     len(followers),
	})
}

// GetFollowing handles GET /api/users/:id/following
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	viewerID, err := s.currentUserID(c)
	if err != nil {
		return nil
	}
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	following, err := s.followService.FollowingWithStatus(c.Context(), viewerID, userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"following": following,
		"count":     len(following),
	})
}

// GetFollowCounts handles GET /api/users/:id/counts
func (s *Server) GetFollowCounts(c *fiber.Ctx) error {
	if _, err := s.currentUserID(c); err != nil {
		return nil
	}
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	counts, err := s.followService.Counts(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(counts)
}
