package models

import "time"

// Follow represents a follower edge (PostgreSQL). The pair is unique; the
// edge doubles as the audience list for broadcast notifications.
type Follow struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	FollowerID  string    `json:"follower_id" gorm:"size:128;index;uniqueIndex:idx_follower_following"`
	FollowingID string    `json:"following_id" gorm:"size:128;index;uniqueIndex:idx_follower_following"`
	CreatedAt   time.Time `json:"created_at"`
}
