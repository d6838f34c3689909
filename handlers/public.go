package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/huiyeony/yogiyum/board"
	"github.com/huiyeony/yogiyum/category"
	"github.com/huiyeony/yogiyum/config"
	"github.com/huiyeony/yogiyum/middleware"
	"github.com/huiyeony/yogiyum/models"
	"github.com/huiyeony/yogiyum/search"
	"github.com/huiyeony/yogiyum/store"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ListRestaurants returns one page of the stats view. Query params:
// search (name substring), sort (liked_count|review_count|average_rating|name),
// page (1-based), categories (comma-separated labels, e.g. 한식,카페).
// With a session, rows the caller has liked carry is_liked.
func ListRestaurants(c *gin.Context) {
	restaurants := store.NewRestaurantStore(config.DB)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	q := search.Query{
		Text:     c.Query("search"),
		Sort:     models.ParseSortKey(c.Query("sort")),
		Page:     page,
		PageSize: config.App.PageSize,
	}

	rows, err := restaurants.FetchPage(c.Request.Context(), q)
	if err != nil {
		// Degrade to an empty result; an empty listing is a valid state.
		logrus.WithError(err).Error("restaurant listing fetch failed")
		rows = []models.RestaurantWithStats{}
	}

	total, err := restaurants.CountMatching(c.Request.Context(), q.Text)
	if err != nil {
		logrus.WithError(err).Error("restaurant count query failed")
		total = int64(len(rows))
	}
	maxPage := int((total + int64(q.PageSize) - 1) / int64(q.PageSize))
	if maxPage < 1 {
		maxPage = 1
	}

	// Optional category narrowing reuses the board filter. No categories
	// param means no narrowing, so the empty selection passes through.
	if raw := c.Query("categories"); raw != "" {
		var labels []category.Label
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				labels = append(labels, category.Label(part))
			}
		}
		rows = board.Filter(rows, labels, false)
	}

	markLiked(c, rows)

	c.JSON(http.StatusOK, gin.H{
		"count":       len(rows),
		"total":       total,
		"page":        page,
		"max_page":    maxPage,
		"restaurants": rows,
	})
}

// markLiked sets is_liked on the rows the caller has liked, when a
// session is present. Uses the liked-set cache when wired.
func markLiked(c *gin.Context, rows []models.RestaurantWithStats) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok || len(rows) == 0 {
		return
	}
	ids, err := likedIDsFor(c, userID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("liked set fetch failed")
		return
	}
	likedSet := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		likedSet[id] = struct{}{}
	}
	for i := range rows {
		_, rows[i].IsLiked = likedSet[rows[i].ID]
	}
}

// GetRestaurant returns a single stats row together with its menu.
func GetRestaurant(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid restaurant id"})
		return
	}

	restaurants := store.NewRestaurantStore(config.DB)
	row, err := restaurants.GetByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
		return
	}

	var menus []models.Menu
	if err := config.DB.Where("restaurant_id = ?", row.ID).Find(&menus).Error; err != nil {
		logrus.WithError(err).WithField("restaurant_id", row.ID).Error("menu fetch failed")
	}

	rows := []models.RestaurantWithStats{*row}
	markLiked(c, rows)

	c.JSON(http.StatusOK, gin.H{
		"restaurant": rows[0],
		"menus":      menus,
	})
}
