package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/platefinder/backend/internal/model"
)

// FavoriteRecipeRow is a favorite joined with its cached recipe columns.
type FavoriteRecipeRow struct {
	FavoritedAt     time.Time `json:"favorited_at"`
	SpoonacularID   int64     `json:"spoonacular_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Servings        *int      `json:"servings"`
	SourceURL       string    `json:"source_url"`
	ImageURL        string    `json:"image_url"`
	ReadyInMinutes  *int      `json:"ready_in_minutes"`
	PricePerServing *float64  `json:"price_per_serving"`
	Summary         string    `json:"summary"`
	RawData         string    `json:"raw_data"`
}

// FavoriteRepository persists the user/recipe favorites join table.
type FavoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// GetFavoriteSpoonacularIDs returns the external ids a user has favorited.
func (r *FavoriteRepository) GetFavoriteSpoonacularIDs(ctx context.Context, userID uuid.UUID) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&model.UserFavoriteRecipe{}).
		Where("user_id = ?", userID).
		Pluck("spoonacular_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load favorite ids: %w", err)
	}
	return ids, nil
}

// GetFavoritesWithRecipes returns a user's favorites joined with the cached
// recipe rows, most recently favorited first.
func (r *FavoriteRepository) GetFavoritesWithRecipes(ctx context.Context, userID uuid.UUID) ([]FavoriteRecipeRow, error) {
	var rows []FavoriteRecipeRow
	err := r.db.WithContext(ctx).
		Table("user_favorite_recipes AS f").
		Select(`f.created_at AS favorited_at,
			r.spoonacular_id,
			r.title,
			r.description,
			r.servings,
			r.source_url,
			r.image_url,
			r.ready_in_minutes,
			r.price_per_serving,
			r.summary,
			r.raw_data`).
		Joins("JOIN recipes r ON r.recipe_id = f.recipe_id").
		Where("f.user_id = ?", userID).
		Order("f.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load favorites: %w", err)
	}
	return rows, nil
}

// AddFavorite records a favorite; re-adding an existing one is a no-op.
func (r *FavoriteRepository) AddFavorite(ctx context.Context, userID uuid.UUID, recipeID uint, spoonacularID int64) error {
	fav := model.UserFavoriteRecipe{
		UserID:        userID,
		RecipeID:      recipeID,
		SpoonacularID: spoonacularID,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&fav).Error
}

// RemoveFavorite deletes a favorite by user and external id.
func (r *FavoriteRepository) RemoveFavorite(ctx context.Context, userID uuid.UUID, spoonacularID int64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND spoonacular_id = ?", userID, spoonacularID).
		Delete(&model.UserFavoriteRecipe{}).Error
}
