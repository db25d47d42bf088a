package spoonacular

import (
	"context"

	"github.com/platefinder/backend/internal/types"
)

// SearchParams are the provider-side parameters for a complex recipe search.
type SearchParams struct {
	Number       int
	Query        string
	Diet         string
	Intolerances []string
	MaxReadyTime *int
	MinCalories  *int
	MaxCalories  *int
}

// IngredientSearchParams are the parameters for a find-by-ingredients search.
type IngredientSearchParams struct {
	Ingredients  []string
	Number       int
	Ranking      int
	IgnorePantry bool
}

// Provider is the abstract recipe-information provider the resolution
// engine consumes. The production implementation talks to the Spoonacular
// API; tests substitute a fake.
type Provider interface {
	SearchRecipes(ctx context.Context, params SearchParams) ([]*types.Recipe, error)
	SearchRecipesByIngredients(ctx context.Context, params IngredientSearchParams) ([]*types.Recipe, error)
	GetRecipeInformation(ctx context.Context, recipeID int64, includeNutrition bool) (*types.Recipe, error)
	GetPriceBreakdown(ctx context.Context, recipeID int64) (*types.PriceBreakdown, error)
}
