package models

import "time"

// WantToTry is an entry on a user's want-to-try list: a restaurant the user
// has bookmarked but not yet visited. The list is an unordered set; the
// unique index enforces one entry per (user, restaurant) pair.
type WantToTry struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;uniqueIndex:idx_want_to_try_entry" json:"user_id"`
	RestaurantID uint      `gorm:"not null;uniqueIndex:idx_want_to_try_entry" json:"restaurant_id"`
	CreatedAt    time.Time `json:"created_at"`

	Restaurant Restaurant `gorm:"foreignKey:RestaurantID" json:"restaurant,omitempty"`
}

// TableName specifies the table name for GORM
func (WantToTry) TableName() string {
	return "want_to_try"
}

// Favorite marks a restaurant as one of a user's favorites.
type Favorite struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;uniqueIndex:idx_favorite_entry" json:"user_id"`
	RestaurantID uint      `gorm:"not null;uniqueIndex:idx_favorite_entry" json:"restaurant_id"`
	CreatedAt    time.Time `json:"created_at"`

	Restaurant Restaurant `gorm:"foreignKey:RestaurantID" json:"restaurant,omitempty"`
}

// TableName specifies the table name for GORM
func (Favorite) TableName() string {
	return "favorites"
}
