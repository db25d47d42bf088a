package service

import (
	"encoding/json"
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/platefinder/backend/internal/model"
	"github.com/platefinder/backend/internal/types"
)

var (
	htmlTagPattern       = regexp.MustCompile(`</?[^>]+(>|$)`)
	dietSeparatorPattern = regexp.MustCompile(`[-_]+`)
)

// StripHTMLTags removes markup from provider summaries, collapsing the
// resulting whitespace.
func StripHTMLTags(input string) string {
	if input == "" {
		return ""
	}
	stripped := htmlTagPattern.ReplaceAllString(input, " ")
	return strings.Join(strings.Fields(stripped), " ")
}

// NormalizeAPIRecipe canonicalizes a recipe as returned by the provider:
// the summary is stripped of HTML and pricePerServing is converted from the
// provider's cents to currency units, rounded to two decimals. All other
// fields pass through untouched. The recipe is mutated and returned.
func NormalizeAPIRecipe(recipe *types.Recipe) *types.Recipe {
	if recipe == nil {
		return nil
	}

	recipe.Summary = StripHTMLTags(recipe.Summary)
	if recipe.PricePerServing != nil {
		normalized := roundTo2(*recipe.PricePerServing / 100)
		recipe.PricePerServing = &normalized
	}
	return recipe
}

// ParseStoredRow reconstructs the canonical recipe from a cached row.
// Returns nil when the row has no payload or the payload is malformed.
// Stored prices predate the cents-to-currency normalization in places, so
// any value above 100 is treated as legacy cents; the price_per_serving
// column, when set, overrides the payload under the same heuristic.
func ParseStoredRow(row model.Recipe) *types.Recipe {
	if row.RawData == "" {
		return nil
	}

	var recipe types.Recipe
	if err := json.Unmarshal([]byte(row.RawData), &recipe); err != nil {
		log.Printf("Failed to parse stored recipe JSON for %d: %v", row.SpoonacularID, err)
		return nil
	}

	recipe.Summary = StripHTMLTags(recipe.Summary)

	if recipe.PricePerServing != nil && *recipe.PricePerServing > 100 {
		normalized := roundTo2(*recipe.PricePerServing / 100)
		recipe.PricePerServing = &normalized
	}
	if row.PricePerServing != nil {
		price := *row.PricePerServing
		if price > 100 {
			price = roundTo2(price / 100)
		}
		recipe.PricePerServing = &price
	}

	if recipe.ID == 0 {
		recipe.ID = row.SpoonacularID
	}
	if recipe.ReadyInMinutes == 0 && row.ReadyInMinutes != nil {
		recipe.ReadyInMinutes = *row.ReadyInMinutes
	}
	if recipe.Summary == "" && row.Summary != "" {
		recipe.Summary = row.Summary
	}

	return &recipe
}

// NormalizeSearchFilters validates and canonicalizes raw search inputs:
// number is forced into [1,100], the diet name is lowercased with
// hyphens/underscores collapsed to spaces ("none" meaning no filter),
// intolerances are split and lowercased, and inverted numeric ranges are
// swapped.
func NormalizeSearchFilters(req types.SearchRequest) types.SearchFilters {
	filters := types.SearchFilters{
		Number:       10,
		Query:        strings.TrimSpace(req.Query),
		Diet:         normalizeDiet(req.Diet),
		MaxReadyTime: parseIntValue(req.MaxReadyTime),
		MinCalories:  parseIntValue(req.MinCalories),
		MaxCalories:  parseIntValue(req.MaxCalories),
		MinPrice:     parseFloatValue(req.MinPrice),
		MaxPrice:     parseFloatValue(req.MaxPrice),
		Intolerances: toCommaSeparatedList(req.Intolerances),
	}

	if n := parseIntValue(req.Number); n != nil && *n != 0 {
		filters.Number = *n
	}
	if filters.Number > 100 {
		filters.Number = 100
	}
	if filters.Number < 1 {
		filters.Number = 1
	}

	if filters.MinPrice != nil && filters.MaxPrice != nil && *filters.MinPrice > *filters.MaxPrice {
		filters.MinPrice, filters.MaxPrice = filters.MaxPrice, filters.MinPrice
	}
	if filters.MinCalories != nil && filters.MaxCalories != nil && *filters.MinCalories > *filters.MaxCalories {
		filters.MinCalories, filters.MaxCalories = filters.MaxCalories, filters.MinCalories
	}

	return filters
}

// NormalizeIngredientSearchFilters extends NormalizeSearchFilters with the
// ingredient-search inputs. ignorePantry defaults to true; only an explicit
// "false" disables it.
func NormalizeIngredientSearchFilters(req types.SearchRequest) types.SearchFilters {
	filters := NormalizeSearchFilters(req)
	filters.Ingredients = toCommaSeparatedList(req.Ingredients)
	filters.Ranking = parseIntValue(req.Ranking)
	filters.IgnorePantry = req.IgnorePantry != "false"
	return filters
}

func normalizeDiet(diet string) string {
	if diet == "" {
		return ""
	}
	normalized := strings.ToLower(diet)
	normalized = dietSeparatorPattern.ReplaceAllString(normalized, " ")
	normalized = strings.TrimSpace(normalized)
	if normalized == "none" {
		return ""
	}
	return normalized
}

func parseIntValue(value string) *int {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return nil
	}
	return &parsed
}

func parseFloatValue(value string) *float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil
	}
	return &parsed
}

func toCommaSeparatedList(value string) []string {
	if value == "" {
		return nil
	}
	var entries []string
	for _, entry := range strings.Split(value, ",") {
		entry = strings.ToLower(strings.TrimSpace(entry))
		if entry != "" {
			entries = append(entries, entry)
		}
	}
	return entries
}
