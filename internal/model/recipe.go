package model

import (
	"time"
)

// Recipe is the persistent cache row for one externally-identified recipe.
// RecipeID is the internal surrogate key; SpoonacularID is the stable
// external identifier every lookup is keyed by. RawData holds the full
// canonical record as JSON; the denormalized columns exist for filtering
// and for surviving a corrupt blob.
type Recipe struct {
	RecipeID        uint     `gorm:"primaryKey;autoIncrement" json:"recipe_id"`
	SpoonacularID   int64    `gorm:"uniqueIndex;not null" json:"spoonacular_id"`
	Title           string   `gorm:"size:255;not null" json:"title"`
	Description     string   `gorm:"type:text" json:"description"`
	Servings        *int     `json:"servings"`
	SourceURL       string   `gorm:"size:512" json:"source_url"`
	ImageURL        string   `gorm:"size:512" json:"image_url"`
	ReadyInMinutes  *int     `json:"ready_in_minutes"`
	PricePerServing *float64 `json:"price_per_serving"`
	Summary         string   `gorm:"type:text" json:"summary"`
	RawData         string   `gorm:"type:jsonb" json:"raw_data"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Recipe) TableName() string {
	return "recipes"
}
