package server

import (
	"errors"
	"strings"
	"unicode"

	"tastr/internal/geo"
	"tastr/internal/listing"
	"tastr/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper.  Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// Pagination holds parsed limit/offset query parameters.
type Pagination struct {
	Limit  int
	Offset int
}

const (
	maxPaginationLimit = 100
)

// parsePagination extracts limit and offset query parameters with the given default limit.
func parsePagination(c *fiber.Ctx, defaultLimit int) Pagination {
	limit := c.QueryInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	return Pagination{
		Limit:  limit,
		Offset: offset,
	}
}

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
// The error message is derived from the parameter name (e.g. "id" -> "Invalid ID",
// "userId" -> "Invalid user ID", "restaurantId" -> "Invalid restaurant ID").
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+humanizeParam(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// humanizeParam converts a route param name into a human-readable label.
// Examples: "id" -> "ID", "userId" -> "user ID", "restaurantId" -> "restaurant ID".
func humanizeParam(param string) string {
	if param == "id" {
		return "ID"
	}
	// Split on camelCase boundary before the trailing "Id" suffix.
	if strings.HasSuffix(param, "Id") {
		prefix := param[:len(param)-2]
		// Split camelCase prefix into words.
		words := splitCamel(prefix)
		return strings.ToLower(strings.Join(words, " ")) + " ID"
	}
	return param
}

// splitCamel splits a camelCase string into words.
func splitCamel(s string) []string {
	var words []string
	start := 0
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			words = append(words, s[start:i])
			start = i
		}
	}
	words = append(words, s[start:])
	return words
}

// respondServiceError maps a service-layer error onto the matching HTTP status.
func respondServiceError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case models.CodeNotFound:
			return models.RespondWithError(c, fiber.StatusNotFound, appErr)
		case models.CodeValidation:
			return models.RespondWithError(c, fiber.StatusBadRequest, appErr)
		case models.CodeUnauthorized:
			return models.RespondWithError(c, fiber.StatusForbidden, appErr)
		}
	}
	return models.RespondWithError(c, fiber.StatusInternalServerError, err)
}

// currentUserID returns the authenticated user ID set by AuthRequired.
func (s *Server) currentUserID(c *fiber.Ctx) (uint, error) {
	userID, ok := c.Locals("userID").(uint)
	if !ok || userID == 0 {
		_ = models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Authorization required"))
		return 0, errResponseWritten
	}
	return userID, nil
}

// parseListingOptions extracts filter/sort query parameters for list views.
// Unknown sort keys fall back to the provided default; a distance filter is
// only active when max_distance_km, lat and lng are all present.
func parseListingOptions(c *fiber.Ctx, defaultSort listing.SortKey) listing.Options {
	opts := listing.Options{
		Cuisine:         strings.TrimSpace(c.Query("cuisine")),
		Rating:          listing.FullRatingRange(),
		IncludeNotRated: c.QueryBool("include_not_rated", true),
		Sort:            defaultSort,
	}

	if v := c.QueryFloat("max_distance_km", -1); v > 0 {
		maxDist := v
		opts.MaxDistanceKm = &maxDist
	}
	lat := c.QueryFloat("lat", -1000)
	lng := c.QueryFloat("lng", -1000)
	if lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180 {
		opts.Viewer = &geo.Point{Latitude: lat, Longitude: lng}
	}

	if v := c.QueryFloat("rating_min", -1); v >= 0 {
		opts.Rating.Min = v
	}
	if v := c.QueryFloat("rating_max", -1); v >= 0 {
		opts.Rating.Max = v
	}

	switch sort := listing.SortKey(c.Query("sort")); sort {
	case listing.SortRecentlyVisited, listing.SortRecentlyAdded, listing.SortRating,
		listing.SortPopularity, listing.SortDistance, listing.SortName:
		opts.Sort = sort
	}

	return opts
}
