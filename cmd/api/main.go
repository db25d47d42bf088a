package main

import (
	"log"

	"github.com/platefinder/backend/config"
	"github.com/platefinder/backend/internal/database"
	"github.com/platefinder/backend/internal/server"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		// The provider cache is an optimization, not a dependency.
		log.Printf("Redis unavailable, provider responses will not be cached: %v", err)
		redisClient = nil
	}

	srv := server.NewServer(cfg, db, redisClient)

	log.Printf("Starting server on port %s...", cfg.ServerPort)
	if err := srv.Start(cfg.ServerPort); err != nil {
		log.Fatalf("Server error: %v", err)
	}
	log.Println("Server stopped")
}
