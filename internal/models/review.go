package models

import "time"

const (
	// MinRating and MaxRating bound the rating scale.
	MinRating = 0.0
	MaxRating = 5.0
	// MinCountedRating is the threshold below which a rating still counts as
	// a visit but is excluded from average-rating computation.
	MinCountedRating = 0.5
)

// Review is a user's review of a restaurant. Rating is nullable; a review
// without a rating is a visit record with a comment.
type Review struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	RestaurantID uint      `gorm:"not null;index" json:"restaurant_id"`
	Rating       *float64  `json:"rating"`
	Comment      string    `json:"comment"`
	IsHidden     bool      `gorm:"default:false;index" json:"is_hidden"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relationships
	User       User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Restaurant Restaurant `gorm:"foreignKey:RestaurantID" json:"restaurant,omitempty"`
}

// TableName specifies the table name for GORM
func (Review) TableName() string {
	return "reviews"
}

// CountsTowardAverage reports whether the review's rating qualifies for
// average-rating computation.
func (r Review) CountsTowardAverage() bool {
	return r.Rating != nil && *r.Rating >= MinCountedRating
}
