package main

import (
	"context"
	"net/http"
	"os"
	"strconv"

	"github.com/huiyeony/yogiyum/cache"
	"github.com/huiyeony/yogiyum/config"
	"github.com/huiyeony/yogiyum/handlers"
	"github.com/huiyeony/yogiyum/routes"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	// Set Gin mode
	mode := os.Getenv("GIN_MODE")
	if mode == "" {
		gin.SetMode(gin.DebugMode)
	}

	config.InitLogger()
	config.InitConfig()
	config.InitDB()

	// Liked-set cache is optional; the handlers fall back to the DB.
	if config.App.Redis.Enable {
		client := cache.NewRedisClient(config.App.Redis.Addr)
		if err := client.Ping(context.Background()); err != nil {
			logrus.WithError(err).Warn("redis unreachable, liked-set cache disabled")
		} else {
			handlers.LikedCache = cache.NewLikedSetCache(client)
			logrus.WithField("addr", config.App.Redis.Addr).Info("liked-set cache enabled")
		}
	}

	// Create Gin router with default middleware (logger + recovery)
	r := gin.Default()

	// CORS middleware for frontend integration
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "Yogiyum Restaurant Discovery API",
			"version": "1.0.0",
		})
	})

	// Register all routes
	routes.SetupRoutes(r)

	// Start server
	addr := ":" + strconv.Itoa(config.App.Port)
	logrus.WithField("addr", addr).Info("server starting")
	if err := r.Run(addr); err != nil {
		logrus.WithError(err).Fatal("failed to start server")
	}
}
