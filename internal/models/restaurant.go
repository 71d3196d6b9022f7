package models

import "time"

// Restaurant represents a restaurant known to the application.
// Latitude and longitude are nullable; some imported restaurants have no
// coordinates and the list filters treat them per caller policy.
type Restaurant struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null;index" json:"name"`
	Address   string    `json:"address"`
	Latitude  *float64  `json:"latitude"`
	Longitude *float64  `json:"longitude"`
	Cuisines  []Cuisine `gorm:"many2many:restaurant_cuisines;" json:"cuisines,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Restaurant) TableName() string {
	return "restaurants"
}

// CuisineNames returns the ordered cuisine tag names of the restaurant.
func (r Restaurant) CuisineNames() []string {
	names := make([]string, 0, len(r.Cuisines))
	for _, c := range r.Cuisines {
		names = append(names, c.Name)
	}
	return names
}

// HasCoordinates reports whether both latitude and longitude are known.
func (r Restaurant) HasCoordinates() bool {
	return r.Latitude != nil && r.Longitude != nil
}

// RankedRestaurant is a derived, non-persisted projection produced by the
// popularity aggregator: a restaurant with its in-window visit count and
// filtered average rating. AverageRating is nil when no review in the window
// carries a qualifying rating.
type RankedRestaurant struct {
	Restaurant    Restaurant `json:"restaurant"`
	MonthlyVisits int        `json:"monthly_visits"`
	AverageRating *float64   `json:"average_rating"`
}
