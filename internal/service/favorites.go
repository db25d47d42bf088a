package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/google/uuid"

	"github.com/platefinder/backend/internal/repository"
	"github.com/platefinder/backend/internal/types"
)

// ErrRecipeNotFound is returned when a favorite targets a recipe id the
// provider cannot resolve either.
var ErrRecipeNotFound = errors.New("recipe not found")

// FavoriteService manages a user's favorite recipes. Reads degrade to
// empty results on store errors; writes report them.
type FavoriteService struct {
	favorites *repository.FavoriteRepository
	recipes   *RecipeService
}

func NewFavoriteService(favorites *repository.FavoriteRepository, recipes *RecipeService) *FavoriteService {
	return &FavoriteService{favorites: favorites, recipes: recipes}
}

// GetUserFavoriteIDs returns the external recipe ids a user has favorited.
func (s *FavoriteService) GetUserFavoriteIDs(ctx context.Context, userID uuid.UUID) []int64 {
	if userID == uuid.Nil {
		return nil
	}
	ids, err := s.favorites.GetFavoriteSpoonacularIDs(ctx, userID)
	if err != nil {
		log.Printf("Error fetching favorite ids for user %s: %v", userID, err)
		return nil
	}
	return ids
}

// GetUserFavorites returns a user's favorites as full recipes, most
// recently favorited first.
func (s *FavoriteService) GetUserFavorites(ctx context.Context, userID uuid.UUID) []*types.Recipe {
	if userID == uuid.Nil {
		return nil
	}
	rows, err := s.favorites.GetFavoritesWithRecipes(ctx, userID)
	if err != nil {
		log.Printf("Error fetching favorites for user %s: %v", userID, err)
		return nil
	}

	recipes := make([]*types.Recipe, 0, len(rows))
	for _, row := range rows {
		recipes = append(recipes, formatFavoriteRecipe(row))
	}
	return recipes
}

// AddFavorite records a favorite, first making sure a cache row exists for
// the recipe so the join table has something to point at.
func (s *FavoriteService) AddFavorite(ctx context.Context, userID uuid.UUID, spoonacularID int64) error {
	recordID, err := s.recipes.EnsureRecipeRecord(ctx, spoonacularID)
	if err != nil {
		return err
	}
	if recordID == 0 {
		return ErrRecipeNotFound
	}
	return s.favorites.AddFavorite(ctx, userID, recordID, spoonacularID)
}

// RemoveFavorite deletes a favorite. Removing a recipe that was never
// favorited is not an error.
func (s *FavoriteService) RemoveFavorite(ctx context.Context, userID uuid.UUID, spoonacularID int64) error {
	return s.favorites.RemoveFavorite(ctx, userID, spoonacularID)
}

// formatFavoriteRecipe rebuilds a recipe from a favorites join row. The
// stored payload wins field by field, with the denormalized columns filling
// any gaps; a corrupt payload degrades to the columns alone.
func formatFavoriteRecipe(row repository.FavoriteRecipeRow) *types.Recipe {
	var recipe types.Recipe
	if row.RawData != "" {
		if err := json.Unmarshal([]byte(row.RawData), &recipe); err != nil {
			log.Printf("Failed to parse stored recipe data for %d: %v", row.SpoonacularID, err)
			recipe = types.Recipe{}
		}
	}

	if recipe.ID == 0 {
		recipe.ID = row.SpoonacularID
	}
	if recipe.Title == "" {
		recipe.Title = row.Title
	}
	if recipe.Summary == "" {
		recipe.Summary = row.Summary
	}
	if recipe.Servings == 0 && row.Servings != nil {
		recipe.Servings = *row.Servings
	}
	if recipe.ReadyInMinutes == 0 && row.ReadyInMinutes != nil {
		recipe.ReadyInMinutes = *row.ReadyInMinutes
	}
	if recipe.PricePerServing == nil && row.PricePerServing != nil {
		price := *row.PricePerServing
		recipe.PricePerServing = &price
	}
	if recipe.Image == "" {
		recipe.Image = row.ImageURL
	}
	if recipe.SourceURL == "" {
		recipe.SourceURL = row.SourceURL
	}

	favoritedAt := row.FavoritedAt
	recipe.FavoritedAt = &favoritedAt
	return &recipe
}
