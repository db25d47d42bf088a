package main

import (
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/platefinder/backend/config"
	"github.com/platefinder/backend/internal/database"
)

func main() {
	var db *gorm.DB
	var err error

	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}
	} else {
		cfg, cfgErr := config.LoadConfig()
		if cfgErr != nil {
			log.Fatalf("failed to load configuration: %v", cfgErr)
		}
		db, err = database.New(cfg)
		if err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}
	}

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	log.Println("migrations applied")
}
