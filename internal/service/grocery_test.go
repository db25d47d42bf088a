package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platefinder/backend/internal/types"
)

func TestBuildGroceryListMergesDuplicates(t *testing.T) {
	amountOne, amountTwo := 1.0, 2.5
	recipes := []*types.Recipe{
		{
			Title: "Pasta Night",
			ExtendedIngredients: []*types.Ingredient{
				{Name: "Tomatoes", Amount: &amountOne, Unit: "cup", Aisle: "Produce",
					EstimatedCost: &types.EstimatedCost{Value: 150, Unit: "US Cents"}},
			},
		},
		{
			Title: "Shakshuka",
			ExtendedIngredients: []*types.Ingredient{
				{Name: "tomatoes", Amount: &amountTwo, Unit: "cup", Aisle: "Produce",
					EstimatedCost: &types.EstimatedCost{Value: 100, Unit: "US Cents"}},
			},
		},
	}

	list := BuildGroceryList(recipes)
	require.Len(t, list.Items, 1)

	item := list.Items[0]
	assert.Equal(t, "Tomatoes", item.Name)
	assert.Equal(t, 3.5, item.Amount)
	assert.Equal(t, []string{"Pasta Night", "Shakshuka"}, item.Recipes)
	assert.Equal(t, "2.50", item.EstimatedCost)
	assert.Equal(t, "2.50", list.TotalEstimatedCost)
}

func TestBuildGroceryListDefaultPrices(t *testing.T) {
	recipes := []*types.Recipe{
		{
			Title: "Seasoning",
			ExtendedIngredients: []*types.Ingredient{
				{Name: "kosher salt", Aisle: "Spices"},
				{Name: "water"},
			},
		},
	}

	list := BuildGroceryList(recipes)
	require.Len(t, list.Items, 2)

	byName := map[string]*types.GroceryItem{}
	for _, item := range list.Items {
		byName[item.Name] = item
	}
	assert.Equal(t, "0.01", byName["kosher salt"].EstimatedCost)
	assert.Equal(t, "0.00", byName["water"].EstimatedCost)
	assert.Equal(t, "0.01", list.TotalEstimatedCost)
}

func TestBuildGroceryListGroupsAndSortsByAisle(t *testing.T) {
	recipes := []*types.Recipe{
		{
			Title: "Dinner",
			ExtendedIngredients: []*types.Ingredient{
				{Name: "chicken", Aisle: "Meat"},
				{Name: "lettuce", Aisle: "Produce"},
				{Name: "mystery item"},
				{Name: "cream", Aisle: "Dairy"},
			},
		},
	}

	list := BuildGroceryList(recipes)
	require.Len(t, list.Items, 4)

	aisles := make([]string, len(list.Items))
	for i, item := range list.Items {
		aisles[i] = item.Aisle
	}
	assert.Equal(t, []string{"Dairy", "Meat", "Produce", "Unknown"}, aisles)

	assert.Len(t, list.GroupedByAisle["Produce"], 1)
	assert.Equal(t, "lettuce", list.GroupedByAisle["Produce"][0].Name)
	assert.Len(t, list.GroupedByAisle["Unknown"], 1)
}

func TestBuildGroceryListUsesOriginalWhenNameMissing(t *testing.T) {
	recipes := []*types.Recipe{
		{
			Title: "Improv",
			ExtendedIngredients: []*types.Ingredient{
				{Original: "2 cups chopped leeks"},
				{},
			},
		},
	}

	list := BuildGroceryList(recipes)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "2 cups chopped leeks", list.Items[0].Name)
}

func TestBuildGroceryListEmpty(t *testing.T) {
	list := BuildGroceryList(nil)
	assert.Empty(t, list.Items)
	assert.Equal(t, "0.00", list.TotalEstimatedCost)
}
