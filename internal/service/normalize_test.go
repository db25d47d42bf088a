package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platefinder/backend/internal/model"
	"github.com/platefinder/backend/internal/types"
)

func intPtr(v int) *int { return &v }

func TestStripHTMLTags(t *testing.T) {
	assert.Equal(t, "Tasty stuff", StripHTMLTags("<b>Tasty</b> <i>stuff</i>"))
	assert.Equal(t, "plain text", StripHTMLTags("plain text"))
	assert.Equal(t, "", StripHTMLTags(""))
	assert.Equal(t, "a b", StripHTMLTags("a<br/>b"))
}

func TestNormalizeAPIRecipe(t *testing.T) {
	recipe := &types.Recipe{
		ID:              1,
		Summary:         "<p>Very <b>good</b></p>",
		PricePerServing: floatPtr(275.4),
	}

	normalized := NormalizeAPIRecipe(recipe)
	require.NotNil(t, normalized)
	assert.Equal(t, "Very good", normalized.Summary)
	assert.Equal(t, 2.75, *normalized.PricePerServing)

	assert.Nil(t, NormalizeAPIRecipe(nil))
}

func TestParseStoredRowPriceNormalization(t *testing.T) {
	// Legacy cents in the payload normalize to currency units.
	row := model.Recipe{
		SpoonacularID: 10,
		RawData:       `{"id":10,"title":"Soup","pricePerServing":275}`,
	}
	recipe := ParseStoredRow(row)
	require.NotNil(t, recipe)
	assert.Equal(t, 2.75, *recipe.PricePerServing)

	// Already-normalized payloads stay untouched.
	row.RawData = `{"id":10,"title":"Soup","pricePerServing":2.75}`
	recipe = ParseStoredRow(row)
	require.NotNil(t, recipe)
	assert.Equal(t, 2.75, *recipe.PricePerServing)
}

func TestParseStoredRowColumnIsSourceOfTruth(t *testing.T) {
	row := model.Recipe{
		SpoonacularID:   11,
		RawData:         `{"id":11,"title":"Stew","pricePerServing":2.75}`,
		PricePerServing: floatPtr(350),
	}
	recipe := ParseStoredRow(row)
	require.NotNil(t, recipe)
	// Column value above 100 is treated as legacy cents.
	assert.Equal(t, 3.5, *recipe.PricePerServing)

	row.PricePerServing = floatPtr(9.99)
	recipe = ParseStoredRow(row)
	require.NotNil(t, recipe)
	assert.Equal(t, 9.99, *recipe.PricePerServing)
}

func TestParseStoredRowFallbacks(t *testing.T) {
	row := model.Recipe{
		SpoonacularID:  12,
		RawData:        `{"title":"Untitled"}`,
		ReadyInMinutes: intPtr(35),
		Summary:        "from the column",
	}
	recipe := ParseStoredRow(row)
	require.NotNil(t, recipe)
	assert.Equal(t, int64(12), recipe.ID)
	assert.Equal(t, 35, recipe.ReadyInMinutes)
	assert.Equal(t, "from the column", recipe.Summary)
}

func TestParseStoredRowMalformed(t *testing.T) {
	assert.Nil(t, ParseStoredRow(model.Recipe{SpoonacularID: 13, RawData: "{not json"}))
	assert.Nil(t, ParseStoredRow(model.Recipe{SpoonacularID: 13}))
}

func TestNormalizeSearchFiltersNumber(t *testing.T) {
	assert.Equal(t, 10, NormalizeSearchFilters(types.SearchRequest{}).Number)
	assert.Equal(t, 10, NormalizeSearchFilters(types.SearchRequest{Number: "0"}).Number)
	assert.Equal(t, 100, NormalizeSearchFilters(types.SearchRequest{Number: "250"}).Number)
	assert.Equal(t, 1, NormalizeSearchFilters(types.SearchRequest{Number: "-5"}).Number)
	assert.Equal(t, 10, NormalizeSearchFilters(types.SearchRequest{Number: "abc"}).Number)
	assert.Equal(t, 25, NormalizeSearchFilters(types.SearchRequest{Number: "25"}).Number)
}

func TestNormalizeSearchFiltersDiet(t *testing.T) {
	assert.Equal(t, "gluten free", NormalizeSearchFilters(types.SearchRequest{Diet: "Gluten-Free"}).Diet)
	assert.Equal(t, "low fodmap", NormalizeSearchFilters(types.SearchRequest{Diet: "low_fodmap"}).Diet)
	assert.Equal(t, "", NormalizeSearchFilters(types.SearchRequest{Diet: "none"}).Diet)
	assert.Equal(t, "", NormalizeSearchFilters(types.SearchRequest{}).Diet)
}

func TestNormalizeSearchFiltersSwapsInvertedRanges(t *testing.T) {
	filters := NormalizeSearchFilters(types.SearchRequest{
		MinPrice:    "9.5",
		MaxPrice:    "2.5",
		MinCalories: "800",
		MaxCalories: "200",
	})
	assert.Equal(t, 2.5, *filters.MinPrice)
	assert.Equal(t, 9.5, *filters.MaxPrice)
	assert.Equal(t, 200, *filters.MinCalories)
	assert.Equal(t, 800, *filters.MaxCalories)
}

func TestNormalizeSearchFiltersIntolerances(t *testing.T) {
	filters := NormalizeSearchFilters(types.SearchRequest{Intolerances: "Dairy, Gluten, "})
	assert.Equal(t, []string{"dairy", "gluten"}, filters.Intolerances)
}

func TestNormalizeIngredientSearchFilters(t *testing.T) {
	filters := NormalizeIngredientSearchFilters(types.SearchRequest{
		Ingredients:  "Chicken, rice",
		Ranking:      "2",
		IgnorePantry: "false",
	})
	assert.Equal(t, []string{"chicken", "rice"}, filters.Ingredients)
	assert.Equal(t, 2, *filters.Ranking)
	assert.False(t, filters.IgnorePantry)

	defaults := NormalizeIngredientSearchFilters(types.SearchRequest{Ingredients: "rice"})
	assert.True(t, defaults.IgnorePantry)
	assert.Nil(t, defaults.Ranking)
}
