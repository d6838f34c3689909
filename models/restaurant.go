package models

import "time"

// RestaurantCategory is the closed set of cuisine/venue tags stored in the DB.
type RestaurantCategory string

const (
	CategoryKorean   RestaurantCategory = "Korean"
	CategoryWestern  RestaurantCategory = "Western"
	CategoryAsian    RestaurantCategory = "Asian"
	CategoryJapanese RestaurantCategory = "Japanese"
	CategoryChinese  RestaurantCategory = "Chinese"
	CategoryStreet   RestaurantCategory = "Street"
	CategoryCafe     RestaurantCategory = "Cafe"
	CategoryBuffet   RestaurantCategory = "Buffet"
	CategoryDessert  RestaurantCategory = "Dessert"
	CategoryBakery   RestaurantCategory = "Bakery"
	CategoryOther    RestaurantCategory = "Other"
)

type Restaurant struct {
	ID           uint               `json:"id" gorm:"primaryKey"`
	Name         string             `json:"name" gorm:"not null"`
	ThumbnailURL string             `json:"thumbnail_url"`
	Latitude     float64            `json:"latitude"`
	Longitude    float64            `json:"longitude"`
	Address      string             `json:"address"`
	Phone        string             `json:"phone"`
	Category     RestaurantCategory `json:"category" gorm:"not null;index"`
	KakaomapID   string             `json:"kakaomap_id"`
	Menus        []Menu             `json:"menus,omitempty" gorm:"foreignKey:RestaurantID"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

type Menu struct {
	ID           uint    `json:"id" gorm:"primaryKey"`
	RestaurantID uint    `json:"restaurant_id" gorm:"not null;index"`
	Name         string  `json:"name" gorm:"not null"`
	Price        float64 `json:"price"`
	ImageURL     string  `json:"image_url"`
	Description  string  `json:"description"`
}

// RestaurantWithStats is one row of the restaurants_with_stats view:
// a restaurant plus its server-maintained aggregates. AverageRating is 0
// when the restaurant has no reviews.
type RestaurantWithStats struct {
	ID            uint               `json:"id"`
	Name          string             `json:"name"`
	ThumbnailURL  string             `json:"thumbnail_url"`
	Latitude      float64            `json:"latitude"`
	Longitude     float64            `json:"longitude"`
	Address       string             `json:"address"`
	Phone         string             `json:"phone"`
	Category      RestaurantCategory `json:"category"`
	KakaomapID    string             `json:"kakaomap_id"`
	AverageRating float64            `json:"average_rating"`
	LikedCount    int                `json:"liked_count"`
	ReviewCount   int                `json:"review_count"`
	IsLiked       bool               `json:"is_liked" gorm:"-"`
}

func (RestaurantWithStats) TableName() string {
	return "restaurants_with_stats"
}

// SortKey selects the ordering of restaurant listings.
type SortKey string

const (
	SortByLikes   SortKey = "liked_count"
	SortByReviews SortKey = "review_count"
	SortByRating  SortKey = "average_rating"
	SortByName    SortKey = "name"
)

// ParseSortKey maps a query-string value onto a SortKey, falling back to
// SortByLikes for anything unknown.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortByLikes, SortByReviews, SortByRating, SortByName:
		return SortKey(s)
	default:
		return SortByLikes
	}
}
