package handlers

import (
	"net/http"
	"strconv"

	"github.com/huiyeony/yogiyum/config"
	"github.com/huiyeony/yogiyum/middleware"
	"github.com/huiyeony/yogiyum/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ListReviews returns a restaurant's reviews joined with the author
// nickname, newest first.
func ListReviews(c *gin.Context) {
	restaurantID := c.Param("id")

	var reviews []models.ReviewWithNickname
	err := config.DB.Model(&models.Review{}).
		Select("reviews.*, users.nickname AS nickname").
		Joins("JOIN users ON users.id = reviews.user_id").
		Where("reviews.restaurant_id = ?", restaurantID).
		Order("reviews.id DESC").
		Find(&reviews).Error
	if err != nil {
		logrus.WithError(err).WithField("restaurant_id", restaurantID).Error("review listing failed")
		reviews = []models.ReviewWithNickname{}
	}

	c.JSON(http.StatusOK, gin.H{"count": len(reviews), "reviews": reviews})
}

type CreateReviewRequest struct {
	Content string `json:"content"`
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
}

// CreateReview posts a review on a restaurant
func CreateReview(c *gin.Context) {
	userID := middleware.GetUserID(c)

	restaurantID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid restaurant id"})
		return
	}

	var restaurant models.Restaurant
	if err := config.DB.First(&restaurant, restaurantID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
		return
	}

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review := models.Review{
		RestaurantID: uint(restaurantID),
		UserID:       userID,
		Content:      req.Content,
		Rating:       req.Rating,
	}
	if err := config.DB.Create(&review).Error; err != nil {
		logrus.WithError(err).Error("review creation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create review"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Review posted", "review": review})
}

type UpdateReviewRequest struct {
	Content string `json:"content"`
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
}

// UpdateReview edits a review (author only)
func UpdateReview(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var review models.Review
	if err := config.DB.First(&review, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		return
	}
	if review.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't own this review"})
		return
	}

	var req UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{"content": req.Content, "rating": req.Rating}
	if err := config.DB.Model(&review).Updates(updates).Error; err != nil {
		logrus.WithError(err).WithField("review_id", review.ID).Error("review update failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update review"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Review updated", "review": review})
}

// DeleteReview removes a review (author only)
func DeleteReview(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var review models.Review
	if err := config.DB.First(&review, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		return
	}
	if review.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't own this review"})
		return
	}

	if err := config.DB.Delete(&review).Error; err != nil {
		logrus.WithError(err).WithField("review_id", review.ID).Error("review deletion failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete review"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Review deleted"})
}
