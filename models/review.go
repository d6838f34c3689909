package models

import "time"

type Review struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	RestaurantID uint      `json:"restaurant_id" gorm:"not null;index"`
	UserID       uint      `json:"user_id" gorm:"not null;index"`
	Content      string    `json:"content"`
	Rating       int       `json:"rating" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ReviewWithNickname is a review joined with the author's nickname for display.
type ReviewWithNickname struct {
	Review
	Nickname string `json:"nickname"`
}
