package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alpinetrail/tracks-backend-go/internal/config"
	"github.com/alpinetrail/tracks-backend-go/internal/handler"
	"github.com/alpinetrail/tracks-backend-go/internal/middleware"
	"github.com/alpinetrail/tracks-backend-go/internal/service"
)

// SetupRouter wires handlers, middleware, and routes.
func SetupRouter(cfg *config.Config, trackService *service.TrackService, statsService *service.StatsService) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.RateLimit(cfg.RateLimit, cfg.RateLimitWindow))

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	trackHandler := handler.NewTrackHandler(trackService)
	statsHandler := handler.NewStatsHandler(statsService)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Tracks Backend API is running",
		})
	})

	api := r.Group("/api/v1")
	{
		tracks := api.Group("/tracks")
		{
			tracks.GET("", trackHandler.ListTracks)
			tracks.GET("/:id", trackHandler.GetTrack)
			tracks.GET("/:id/statistics", trackHandler.GetStatistics)

			// Mutations require a recorder device token.
			authed := tracks.Group("", middleware.Auth(cfg.JWTSecret))
			{
				authed.POST("", trackHandler.CreateTrack)
				authed.POST("/:id/points", trackHandler.AppendPoints)
				authed.POST("/:id/finish", trackHandler.FinishTrack)
			}
		}

		statistics := api.Group("/statistics")
		{
			statistics.GET("/aggregated", statsHandler.GetAggregated)
			statistics.GET("/skiing-duration", statsHandler.GetSkiingDuration)
		}
	}

	return r
}
