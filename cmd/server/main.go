package main

import (
	"log"

	"github.com/alpinetrail/tracks-backend-go/internal/api"
	"github.com/alpinetrail/tracks-backend-go/internal/config"
	"github.com/alpinetrail/tracks-backend-go/internal/service"
)

func main() {
	cfg := config.Load()

	trackService := service.NewTrackService(cfg.SkiTimeZone, nil)
	statsService := service.NewStatsService(trackService)

	router := api.SetupRouter(cfg, trackService, statsService)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
