package routes

import (
	"github.com/huiyeony/yogiyum/handlers"
	"github.com/huiyeony/yogiyum/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine) {
	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		// Auth
		public.POST("/auth/register", handlers.Register)
		public.POST("/auth/login", handlers.Login)

		// Browsing (session optional: marks liked rows when present)
		public.GET("/restaurants", middleware.OptionalAuth(), handlers.ListRestaurants)
		public.GET("/restaurants/:id", middleware.OptionalAuth(), handlers.GetRestaurant)
		public.GET("/restaurants/:id/reviews", handlers.ListReviews)
	}

	// ── Authenticated routes ───────────────────────────────────────
	auth := r.Group("/api")
	auth.Use(middleware.AuthRequired())
	{
		// Profile
		auth.GET("/profile", handlers.GetProfile)
		auth.PUT("/profile", handlers.UpdateProfile)
		auth.DELETE("/profile", handlers.DeleteAccount)

		// Likes
		auth.POST("/restaurants/:id/like", handlers.ToggleLike)
		auth.GET("/liked", handlers.GetLikedRestaurants)

		// Reviews
		auth.POST("/restaurants/:id/reviews", handlers.CreateReview)
		auth.PUT("/reviews/:id", handlers.UpdateReview)
		auth.DELETE("/reviews/:id", handlers.DeleteReview)
	}
}
