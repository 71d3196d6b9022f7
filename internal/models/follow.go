package models

import "time"

// FollowStatus is the relationship state between a viewer and a target user.
type FollowStatus string

const (
	// FollowStatusNone indicates no edge in either direction.
	FollowStatusNone FollowStatus = "none"
	// FollowStatusFollowing indicates the viewer follows the target.
	// Mutual edges also collapse to this state; the display is asymmetric.
	FollowStatusFollowing FollowStatus = "following"
	// FollowStatusFollowBack indicates only the target follows the viewer.
	FollowStatusFollowBack FollowStatus = "follow_back"
)

// Follow is a directed follow edge between two users.
type Follow struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	FollowerID  uint      `gorm:"not null;uniqueIndex:idx_follow_edge" json:"follower_id"`
	FollowingID uint      `gorm:"not null;uniqueIndex:idx_follow_edge;index" json:"following_id"`
	CreatedAt   time.Time `json:"created_at"`

	// Relationships
	Follower  User `gorm:"foreignKey:FollowerID" json:"follower,omitempty"`
	Following User `gorm:"foreignKey:FollowingID" json:"following,omitempty"`
}

// TableName specifies the table name for GORM
func (Follow) TableName() string {
	return "followers"
}

// FollowCounts pairs follower and following totals for a profile.
type FollowCounts struct {
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
}
