// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"io"
	"strings"

	"tastr/internal/models"
	"tastr/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/users/me
// @Summary Get own profile
// @Description Returns the authenticated user's profile with live follower counts
// @Tags users
// @Produce json
// @Success 200 {object} service.Profile
// @Security BearerAuth
// @Router /users/me [get]
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID, err := s.currentUserID(c)
	if err != nil {
		return nil
	}

	profile, err := s.userService.GetProfile(c.Context(), userID, userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(profile)
}

// UpdateMyProfile handles PUT /api/users/me
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	userID, err := s.currentUserID(c)
	if err != nil {
		return nil
	}

	var input service.UpdateProfileInput
	if err := c.BodyParser(&input); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	summary, err := s.userService.UpdateProfile(c.Context(), userID, input)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(summary)
}

// GetUserProfile handles GET /api/users/:id
// @Summary Get a user's profile
// @Description Returns a profile with follower counts and the viewer's follow status
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} service.Profile
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /users/{id} [get]
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	viewerID, err := s.currentUserID(c)
	if err != nil {
		return nil
	}
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	profile, err := s.userService.GetProfile(c.Context(), viewerID, targetID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(profile)
}

// SearchUsers handles GET /api/users/search
func (s *Server) SearchUsers(c *fiber.Ctx) error {
	viewerID, err := s.currentUserID(c)
	if err != nil {
		return nil
	}

	query := strings.TrimSpace(c.Query("q"))
	page := parsePagination(c, 20)

	results, err := s.userService.SearchUsers(c.Context(), viewerID, query, page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"users": results,
		"count": len(results),
	})
}

// UploadAvatar handles POST /api/users/me/avatar
func (s *Server) UploadAvatar(c *fiber.Ctx) error {
	userID, err := s.currentUserID(c)
	if err != nil {
		return nil
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Missing avatar file"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Could not read avatar file"))
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Could not read avatar file"))
	}

	url, err := s.avatarService.Upload(c.Context(), userID, content)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"avatar": url,
	})
}
