// Package listing implements the pure filter/sort engine applied to
// materialized restaurant lists (visited restaurants, want-to-try entries).
// The engine never touches the backend; it is deterministic and idempotent
// over in-memory entries.
package listing

import (
	"time"

	"tastr/internal/geo"
)

// CuisineAny is the sentinel that disables the cuisine filter.
const CuisineAny = "Any"

// SortKey selects the ordering applied after filtering.
type SortKey string

const (
	SortRecentlyVisited SortKey = "recently-visited"
	SortRecentlyAdded   SortKey = "recently-added"
	SortRating          SortKey = "rating"
	SortPopularity      SortKey = "popularity"
	SortDistance        SortKey = "distance"
	SortName            SortKey = "name"
)

// MissingCoordinates selects how the distance filter treats entries without
// coordinates. The visited-restaurants flow excludes them while the
// want-to-try flow retains them; both behaviors are intentional and chosen
// per call site.
type MissingCoordinates int

const (
	// ExcludeMissingCoordinates drops entries without coordinates when a
	// distance filter is active.
	ExcludeMissingCoordinates MissingCoordinates = iota
	// RetainMissingCoordinates keeps entries without coordinates regardless
	// of the distance filter.
	RetainMissingCoordinates
)

// RatingRange bounds the personal-rating filter.
type RatingRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// FullRatingRange returns the default span covering every rating.
func FullRatingRange() RatingRange {
	return RatingRange{Min: 0, Max: 5}
}

// IsFull reports whether the range equals the default full span, in which
// case the rating filter is skipped entirely.
func (r RatingRange) IsFull() bool {
	return r.Min <= 0 && r.Max >= 5
}

// Options are the user-selected filter and sort settings for one list view.
type Options struct {
	// Cuisine is the selected cuisine name; empty or CuisineAny disables the
	// cuisine filter.
	Cuisine string `json:"cuisine"`
	// MaxDistanceKm and Viewer must both be present for the distance filter
	// to apply.
	MaxDistanceKm      *float64           `json:"max_distance_km"`
	Viewer             *geo.Point         `json:"viewer"`
	MissingCoordinates MissingCoordinates `json:"-"`
	Rating             RatingRange        `json:"rating"`
	IncludeNotRated    bool               `json:"include_not_rated"`
	Sort               SortKey            `json:"sort"`
}

// Entry is one row of a materialized list presented to the engine.
// Distance is computed by Apply when the viewer location is known.
type Entry struct {
	RestaurantID   uint       `json:"restaurant_id"`
	Name           string     `json:"name"`
	Cuisines       []string   `json:"cuisines"`
	Latitude       *float64   `json:"latitude"`
	Longitude      *float64   `json:"longitude"`
	PersonalRating *float64   `json:"personal_rating"`
	AverageRating  *float64   `json:"average_rating"`
	VisitedAt      *time.Time `json:"visited_at,omitempty"`
	AddedAt        *time.Time `json:"added_at,omitempty"`
	DistanceKm     *float64   `json:"distance_km"`
}

// HasCoordinates reports whether both latitude and longitude are known.
func (e Entry) HasCoordinates() bool {
	return e.Latitude != nil && e.Longitude != nil
}
