package service

import (
	"math"

	"github.com/platefinder/backend/internal/types"
)

// EstimateReadyMinutes derives a preparation time for recipes that do not
// carry one, from the number of instruction steps and ingredients. The
// result is clamped to [10, 240] minutes.
func EstimateReadyMinutes(instructionCount, ingredientCount int) int {
	base := 15.0
	stepLoad := float64(instructionCount) * 4
	ingredientLoad := math.Max(0, float64(ingredientCount-5)) * 1.5
	total := base + stepLoad + ingredientLoad
	return clampInt(int(math.Round(total)), 10, 240)
}

// EstimatePricePerServing derives a per-serving price in currency units for
// recipes without provider pricing, clamped to [1, 25].
func EstimatePricePerServing(ingredientCount, instructionCount int) float64 {
	base := 1.5
	ingredientContribution := float64(ingredientCount) * 0.7
	complexityContribution := math.Max(0, float64(instructionCount-5)) * 0.25
	estimate := base + ingredientContribution + complexityContribution
	return clampFloat(roundTo2(estimate), 1, 25)
}

// ApplyCostEstimates spreads an estimated total recipe cost evenly across
// the ingredient list as whole-cent costs. A recipe without a positive
// price or serving count is left untouched.
func ApplyCostEstimates(ingredients []*types.Ingredient, pricePerServing float64, servings int) {
	if len(ingredients) == 0 || pricePerServing <= 0 || servings == 0 {
		return
	}

	totalCost := pricePerServing * float64(servings)
	perIngredient := totalCost / float64(len(ingredients))
	cents := int(math.Round(perIngredient * 100))
	if cents < 0 {
		cents = 0
	}

	for _, ingredient := range ingredients {
		if ingredient == nil {
			continue
		}
		ingredient.EstimatedCost = &types.EstimatedCost{
			Value: cents,
			Unit:  "US Cents",
		}
	}
}

func clampInt(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

func clampFloat(value, min, max float64) float64 {
	return math.Max(min, math.Min(max, value))
}

func roundTo2(value float64) float64 {
	return math.Round(value*100) / 100
}
