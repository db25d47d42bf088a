package service

import (
	"strings"

	"github.com/platefinder/backend/internal/types"
)

// MatchesDietPreference reports whether a recipe satisfies a diet filter.
// The diets list is checked first, then the corresponding boolean flag.
// Paleo and primal only ever appear as diet tags in provider payloads.
func MatchesDietPreference(recipe *types.Recipe, diet string) bool {
	if diet == "" {
		return true
	}
	if recipe == nil {
		return false
	}

	normalizedDiet := strings.ToLower(diet)
	diets := lowercasedDiets(recipe)
	if containsString(diets, normalizedDiet) {
		return true
	}

	switch normalizedDiet {
	case "vegetarian":
		return isTrue(recipe.Vegetarian)
	case "vegan":
		return isTrue(recipe.Vegan)
	case "gluten free":
		return isTrue(recipe.GlutenFree)
	case "dairy free":
		return isTrue(recipe.DairyFree)
	case "low fodmap":
		return isTrue(recipe.LowFodmap)
	case "whole30":
		return isTrue(recipe.Whole30) || containsString(diets, "whole30")
	case "paleo":
		return containsString(diets, "paleolithic")
	case "primal":
		return containsString(diets, "primal")
	case "ketogenic":
		return isTrue(recipe.Ketogenic)
	default:
		return false
	}
}

// MatchesIntolerancePreference reports whether a recipe is acceptable for
// every listed intolerance. Only gluten and dairy carry explicit boolean
// flags; a recipe with no metadata for an intolerance passes, since nothing
// supports excluding it.
func MatchesIntolerancePreference(recipe *types.Recipe, intolerances []string) bool {
	if len(intolerances) == 0 {
		return true
	}

	diets := lowercasedDiets(recipe)
	for _, raw := range intolerances {
		intolerance := strings.ToLower(strings.TrimSpace(raw))
		if intolerance == "" {
			continue
		}

		if flag := intoleranceFlag(recipe, intolerance); flag != nil {
			if !*flag {
				return false
			}
			continue
		}

		if containsString(diets, intolerance+" free") {
			continue
		}
		// No explicit metadata for this intolerance; do not exclude.
	}
	return true
}

// FilterRecipesByConstraints applies the numeric and dietary constraints of
// a normalized filter set in memory. Bounded constraints require the
// underlying datum: a recipe without a price fails a price bound.
func FilterRecipesByConstraints(recipes []*types.Recipe, filters types.SearchFilters) []*types.Recipe {
	var result []*types.Recipe
	for _, recipe := range recipes {
		if recipe == nil {
			continue
		}
		if !MatchesDietPreference(recipe, filters.Diet) {
			continue
		}
		if !MatchesIntolerancePreference(recipe, filters.Intolerances) {
			continue
		}

		if filters.MaxReadyTime != nil {
			if recipe.ReadyInMinutes == 0 || recipe.ReadyInMinutes > *filters.MaxReadyTime {
				continue
			}
		}
		if filters.MinPrice != nil {
			if recipe.PricePerServing == nil || *recipe.PricePerServing < *filters.MinPrice {
				continue
			}
		}
		if filters.MaxPrice != nil {
			if recipe.PricePerServing == nil || *recipe.PricePerServing > *filters.MaxPrice {
				continue
			}
		}

		calories := recipe.Calories()
		if filters.MinCalories != nil && (calories == nil || *calories < float64(*filters.MinCalories)) {
			continue
		}
		if filters.MaxCalories != nil && (calories == nil || *calories > float64(*filters.MaxCalories)) {
			continue
		}

		result = append(result, recipe)
	}
	return result
}

func intoleranceFlag(recipe *types.Recipe, intolerance string) *bool {
	if recipe == nil {
		return nil
	}
	switch strings.ReplaceAll(intolerance, " ", "") {
	case "gluten":
		return recipe.GlutenFree
	case "dairy":
		return recipe.DairyFree
	}
	return nil
}

func lowercasedDiets(recipe *types.Recipe) []string {
	if recipe == nil {
		return nil
	}
	diets := make([]string, 0, len(recipe.Diets))
	for _, diet := range recipe.Diets {
		diets = append(diets, strings.ToLower(diet))
	}
	return diets
}

func containsString(list []string, value string) bool {
	for _, entry := range list {
		if entry == value {
			return true
		}
	}
	return false
}

func isTrue(flag *bool) bool {
	return flag != nil && *flag
}
