package database

import (
	"log"

	"gorm.io/gorm"

	"github.com/platefinder/backend/internal/model"
)

// RunMigrations brings the schema up to date for every model this service
// owns. AutoMigrate is additive only, so it is safe to run at startup.
func RunMigrations(db *gorm.DB) error {
	log.Printf("Running schema migrations (%s)", db.Dialector.Name())
	return db.AutoMigrate(
		&model.Recipe{},
		&model.UserFavoriteRecipe{},
		&model.UserPreferences{},
	)
}
