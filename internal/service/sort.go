package service

import (
	"math"
	"sort"

	"github.com/platefinder/backend/internal/types"
)

// SortRecipesByPreferences orders a result set by the user's sort
// preference without mutating the input slice. Recipes missing the sorted
// field go last for price and time (treated as infinite) and first or last
// for the score-based sorts (treated as zero). The relevance score is
// descending-by-nature, so sort_order flips it the same way it flips every
// other sort; ascending relevance therefore surfaces the weakest matches
// first.
func SortRecipesByPreferences(recipes []*types.Recipe, preferences types.Preferences) []*types.Recipe {
	if len(recipes) == 0 {
		return recipes
	}

	sorted := make([]*types.Recipe, len(recipes))
	copy(sorted, recipes)

	sortBy := preferences.SortBy
	if sortBy == "" {
		sortBy = "relevance"
	}
	ascending := preferences.SortOrder != "desc"

	factors := preferences.PriorityFactors
	if factors == (types.PriorityFactors{}) {
		factors = types.DefaultPreferences().PriorityFactors
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		comparison := compareRecipes(sorted[i], sorted[j], sortBy, factors)
		if !ascending {
			comparison = -comparison
		}
		return comparison < 0
	})

	return sorted
}

func compareRecipes(a, b *types.Recipe, sortBy string, factors types.PriorityFactors) float64 {
	switch sortBy {
	case "price":
		return priceOrInf(a) - priceOrInf(b)
	case "time":
		return timeOrInf(a) - timeOrInf(b)
	case "calories":
		return caloriesOrZero(a) - caloriesOrZero(b)
	case "health":
		return healthOrZero(b) - healthOrZero(a)
	case "popularity":
		return float64(likesOrZero(b) - likesOrZero(a))
	default:
		return relevanceScore(b, factors) - relevanceScore(a, factors)
	}
}

// relevanceScore rewards cheap, quick, calorie-dense and healthy recipes,
// weighted by the user's priority factors. Missing data contributes
// nothing.
func relevanceScore(recipe *types.Recipe, factors types.PriorityFactors) float64 {
	if recipe == nil {
		return 0
	}

	score := 0.0
	if recipe.PricePerServing != nil && *recipe.PricePerServing != 0 && factors.Price != 0 {
		score += (100 - *recipe.PricePerServing*10) * factors.Price
	}
	if recipe.ReadyInMinutes != 0 && factors.Time != 0 {
		score += float64(100-recipe.ReadyInMinutes) * factors.Time
	}
	if calories := recipe.Calories(); calories != nil && factors.Calories != 0 {
		score += (*calories / 10) * factors.Calories
	}
	if recipe.HealthScore != nil && *recipe.HealthScore != 0 && factors.Health != 0 {
		score += *recipe.HealthScore * factors.Health
	}
	return score
}

func priceOrInf(recipe *types.Recipe) float64 {
	if recipe == nil || recipe.PricePerServing == nil || *recipe.PricePerServing == 0 {
		return math.Inf(1)
	}
	return *recipe.PricePerServing
}

func timeOrInf(recipe *types.Recipe) float64 {
	if recipe == nil || recipe.ReadyInMinutes == 0 {
		return math.Inf(1)
	}
	return float64(recipe.ReadyInMinutes)
}

func caloriesOrZero(recipe *types.Recipe) float64 {
	if calories := recipe.Calories(); calories != nil {
		return *calories
	}
	return 0
}

func healthOrZero(recipe *types.Recipe) float64 {
	if recipe == nil || recipe.HealthScore == nil {
		return 0
	}
	return *recipe.HealthScore
}

func likesOrZero(recipe *types.Recipe) int {
	if recipe == nil {
		return 0
	}
	return recipe.AggregateLikes
}
