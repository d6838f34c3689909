// Package store implements the data access layer over the restaurants,
// liked and reviews tables plus the restaurants_with_stats view.
package store

import (
	"context"
	"errors"

	"github.com/huiyeony/yogiyum/models"
	"github.com/huiyeony/yogiyum/search"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound marks a missing row. An empty listing is not an error.
var ErrNotFound = errors.New("store: not found")

// orderClause maps a sort key onto the two-key ordering contract:
// sort column first, id ascending second so that pagination stays
// deterministic when the primary key has ties.
func orderClause(key models.SortKey) string {
	switch key {
	case models.SortByReviews:
		return "review_count DESC, id ASC"
	case models.SortByRating:
		return "average_rating DESC, id ASC"
	case models.SortByName:
		return "name ASC, id ASC"
	default:
		return "liked_count DESC, id ASC"
	}
}

// RestaurantStore reads the restaurants_with_stats view.
type RestaurantStore struct {
	db *gorm.DB
}

func NewRestaurantStore(db *gorm.DB) *RestaurantStore {
	return &RestaurantStore{db: db}
}

// FetchPage returns one page of stats rows matching the query text,
// ordered per the two-key contract. Implements search.Backend.
func (s *RestaurantStore) FetchPage(ctx context.Context, q search.Query) ([]models.RestaurantWithStats, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	tx := s.db.WithContext(ctx).Model(&models.RestaurantWithStats{})
	if q.Text != "" {
		tx = tx.Where("name LIKE ?", "%"+q.Text+"%")
	}

	var rows []models.RestaurantWithStats
	err := tx.Order(orderClause(q.Sort)).
		Limit(q.PageSize).
		Offset((q.Page - 1) * q.PageSize).
		Find(&rows).Error
	return rows, err
}

// CountMatching counts the rows the same text predicate would match.
func (s *RestaurantStore) CountMatching(ctx context.Context, text string) (int64, error) {
	tx := s.db.WithContext(ctx).Model(&models.RestaurantWithStats{})
	if text != "" {
		tx = tx.Where("name LIKE ?", "%"+text+"%")
	}
	var total int64
	err := tx.Count(&total).Error
	return total, err
}

// GetByID returns one stats row.
func (s *RestaurantStore) GetByID(ctx context.Context, id uint) (*models.RestaurantWithStats, error) {
	var row models.RestaurantWithStats
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// GetByIDs returns the stats rows for the given ids, in id order.
func (s *RestaurantStore) GetByIDs(ctx context.Context, ids []uint) ([]models.RestaurantWithStats, error) {
	if len(ids) == 0 {
		return []models.RestaurantWithStats{}, nil
	}
	var rows []models.RestaurantWithStats
	err := s.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}

// LikedStore mutates and reads the liked relation table. Implements
// liketoggle.RelationStore.
type LikedStore struct {
	db *gorm.DB
}

func NewLikedStore(db *gorm.DB) *LikedStore {
	return &LikedStore{db: db}
}

// CreateRelation records a like. Idempotent: re-liking an already liked
// restaurant leaves the single existing row in place.
func (s *LikedStore) CreateRelation(ctx context.Context, userID, restaurantID uint) error {
	rel := models.Liked{UserID: userID, RestaurantID: restaurantID}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rel).Error
}

// DeleteRelation removes the like, if present.
func (s *LikedStore) DeleteRelation(ctx context.Context, userID, restaurantID uint) error {
	return s.db.WithContext(ctx).
		Where("user_id = ? AND restaurant_id = ?", userID, restaurantID).
		Delete(&models.Liked{}).Error
}

// IsLiked reports whether the relation exists.
func (s *LikedStore) IsLiked(ctx context.Context, userID, restaurantID uint) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Liked{}).
		Where("user_id = ? AND restaurant_id = ?", userID, restaurantID).
		Count(&n).Error
	return n > 0, err
}

// ListIDs returns the ids of every restaurant the user has liked.
func (s *LikedStore) ListIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := s.db.WithContext(ctx).Model(&models.Liked{}).
		Where("user_id = ?", userID).
		Order("restaurant_id ASC").
		Pluck("restaurant_id", &ids).Error
	return ids, err
}

// CountFor returns how many users have liked the restaurant.
func (s *LikedStore) CountFor(ctx context.Context, restaurantID uint) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Liked{}).
		Where("restaurant_id = ?", restaurantID).
		Count(&n).Error
	return n, err
}
