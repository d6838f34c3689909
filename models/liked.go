package models

import "time"

// Liked is a (user, restaurant) membership record: existence implies the
// user has liked the restaurant. At most one row per pair.
type Liked struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	UserID       uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_liked_pair"`
	RestaurantID uint      `json:"restaurant_id" gorm:"not null;uniqueIndex:idx_liked_pair"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Liked) TableName() string {
	return "liked"
}
