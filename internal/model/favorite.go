package model

import (
	"time"

	"github.com/google/uuid"
)

// UserFavoriteRecipe joins a user to a cached recipe. The pair
// (user, spoonacular id) is unique; re-favoriting is a no-op.
type UserFavoriteRecipe struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_favorite" json:"user_id"`
	RecipeID      uint      `gorm:"not null;index" json:"recipe_id"`
	SpoonacularID int64     `gorm:"not null;uniqueIndex:idx_user_favorite" json:"spoonacular_id"`
	CreatedAt     time.Time `json:"created_at"`
}

func (UserFavoriteRecipe) TableName() string {
	return "user_favorite_recipes"
}
