package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/huiyeony/yogiyum/cache"
	"github.com/huiyeony/yogiyum/config"
	"github.com/huiyeony/yogiyum/liketoggle"
	"github.com/huiyeony/yogiyum/middleware"
	"github.com/huiyeony/yogiyum/models"
	"github.com/huiyeony/yogiyum/store"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// LikedCache is wired by main when Redis is enabled; nil disables caching.
var LikedCache *cache.LikedSetCache

// ctxSession adapts the JWT claims in the gin context to the injectable
// session-provider interface the like machine expects.
type ctxSession struct {
	userID uint
	ok     bool
}

func (s ctxSession) CurrentUserID(ctx context.Context) (uint, bool) {
	return s.userID, s.ok
}

func sessionFromContext(c *gin.Context) ctxSession {
	id, ok := middleware.CurrentUserID(c)
	return ctxSession{userID: id, ok: ok}
}

// likedIDsFor returns the caller's liked restaurant ids, through the
// cache when wired.
func likedIDsFor(c *gin.Context, userID uint) ([]uint, error) {
	ctx := c.Request.Context()
	if LikedCache != nil {
		if ids, err := LikedCache.Get(ctx, userID); err == nil {
			return ids, nil
		} else if !errors.Is(err, cache.ErrMiss) {
			logrus.WithError(err).WithField("user_id", userID).Warn("liked cache read failed")
		}
	}

	ids, err := store.NewLikedStore(config.DB).ListIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if LikedCache != nil {
		if err := LikedCache.Put(ctx, userID, ids); err != nil {
			logrus.WithError(err).WithField("user_id", userID).Warn("liked cache write failed")
		}
	}
	return ids, nil
}

// ToggleLike flips the caller's like for one restaurant. The response
// carries the settled state after the machine's optimistic update either
// committed or rolled back.
func ToggleLike(c *gin.Context) {
	userID := middleware.GetUserID(c)
	ctx := c.Request.Context()

	id64, err := strconv.ParseUint(c.Param("id"), 10, 32)
	restaurantID := uint(id64)
	if err != nil || restaurantID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid restaurant id"})
		return
	}

	restaurants := store.NewRestaurantStore(config.DB)
	if _, err := restaurants.GetByID(ctx, restaurantID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
		return
	}

	liked := store.NewLikedStore(config.DB)
	isLiked, err := liked.IsLiked(ctx, userID, restaurantID)
	if err != nil {
		logrus.WithError(err).Error("liked lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle like"})
		return
	}
	count, err := liked.CountFor(ctx, restaurantID)
	if err != nil {
		logrus.WithError(err).Error("liked count failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle like"})
		return
	}

	machine := liketoggle.New(restaurantID, isLiked, int(count), liked, sessionFromContext(c), func(bool, int) {
		if LikedCache != nil {
			if err := LikedCache.Invalidate(ctx, userID); err != nil {
				logrus.WithError(err).WithField("user_id", userID).Warn("liked cache invalidation failed")
			}
		}
	})

	switch err := machine.Toggle(ctx); {
	case errors.Is(err, liketoggle.ErrAuthRequired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Login required to like restaurants"})
		return
	case errors.Is(err, liketoggle.ErrInvalidID):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid restaurant id"})
		return
	case err != nil:
		// The machine already rolled the displayed state back.
		logrus.WithError(err).WithFields(logrus.Fields{
			"user_id":       userID,
			"restaurant_id": restaurantID,
		}).Error("like toggle failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle like"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"liked":       machine.Liked(),
		"liked_count": machine.Count(),
		"popular":     machine.Popular(),
	})
}

// GetLikedRestaurants returns the caller's liked restaurants as stats rows.
func GetLikedRestaurants(c *gin.Context) {
	userID := middleware.GetUserID(c)

	ids, err := likedIDsFor(c, userID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("liked list fetch failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load liked restaurants"})
		return
	}
	if len(ids) == 0 {
		c.JSON(http.StatusOK, gin.H{"count": 0, "restaurants": []models.RestaurantWithStats{}})
		return
	}

	rows, err := store.NewRestaurantStore(config.DB).GetByIDs(c.Request.Context(), ids)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("liked restaurants fetch failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load liked restaurants"})
		return
	}
	for i := range rows {
		rows[i].IsLiked = true
	}

	c.JSON(http.StatusOK, gin.H{"count": len(rows), "restaurants": rows})
}
