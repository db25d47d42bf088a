package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/platefinder/backend/internal/types"
)

func TestEstimateReadyMinutes(t *testing.T) {
	// Base case: no steps, no ingredients.
	assert.Equal(t, 15, EstimateReadyMinutes(0, 0))

	// Ingredients only contribute above five.
	assert.Equal(t, 15, EstimateReadyMinutes(0, 5))
	assert.Equal(t, 18, EstimateReadyMinutes(0, 7))

	// 15 + 4*6 + 1.5*5 = 46.5, rounds half away from zero.
	assert.Equal(t, 47, EstimateReadyMinutes(6, 10))

	// Clamped at the ceiling for huge step counts.
	assert.Equal(t, 240, EstimateReadyMinutes(100, 0))
	assert.Equal(t, 240, EstimateReadyMinutes(60, 200))
}

func TestEstimatePricePerServing(t *testing.T) {
	assert.Equal(t, 1.5, EstimatePricePerServing(0, 0))

	// 1.5 + 0.7*4 + 0.25*3 = 5.05
	assert.Equal(t, 5.05, EstimatePricePerServing(4, 8))

	// Steps only contribute above five.
	assert.Equal(t, 2.2, EstimatePricePerServing(1, 5))

	// Clamped at the ceiling.
	assert.Equal(t, 25.0, EstimatePricePerServing(50, 0))
}

func TestApplyCostEstimates(t *testing.T) {
	ingredients := []*types.Ingredient{
		{Name: "pasta"},
		{Name: "tomatoes"},
		{Name: "basil"},
	}

	// 2.00 * 4 servings = 8.00 across 3 ingredients = 266.67 cents each.
	ApplyCostEstimates(ingredients, 2.0, 4)
	for _, ingredient := range ingredients {
		assert.NotNil(t, ingredient.EstimatedCost)
		assert.Equal(t, 267, ingredient.EstimatedCost.Value)
		assert.Equal(t, "US Cents", ingredient.EstimatedCost.Unit)
	}
}

func TestApplyCostEstimatesNoOp(t *testing.T) {
	ingredients := []*types.Ingredient{{Name: "pasta"}}

	ApplyCostEstimates(ingredients, 0, 4)
	assert.Nil(t, ingredients[0].EstimatedCost)

	ApplyCostEstimates(ingredients, -1, 4)
	assert.Nil(t, ingredients[0].EstimatedCost)

	ApplyCostEstimates(ingredients, 2.5, 0)
	assert.Nil(t, ingredients[0].EstimatedCost)

	// Empty list must not panic.
	ApplyCostEstimates(nil, 2.5, 4)
}
