package service

import (
	"math"
	"strings"

	"github.com/platefinder/backend/internal/types"
)

// defaultPriceCentsTable covers pantry staples the provider's price
// breakdown routinely omits. Values are cents per typical amount.
var defaultPriceCentsTable = map[string]int{
	"pasta": 50, "spaghetti": 50, "linguine": 50, "penne": 50, "fettuccine": 50,
	"parmesan cheese": 100, "parmesan": 100, "cheese": 80,
	"salt": 1, "kosher salt": 1, "black pepper": 2, "freshly cracked pepper": 2,
	"oregano": 5, "thyme": 5, "basil": 8, "parsley": 5, "cilantro": 5, "flat-leaf parsley": 5,
	"red pepper flakes": 3, "pepper flakes": 3,
	"asparagus": 150, "onions": 30, "onion": 30, "peppers": 40, "pepper": 40,
	"flour": 10, "olive oil": 50,
}

// freeIngredientNames mark ingredients that never receive a default price.
var freeIngredientNames = []string{"water", "reserved", "pasta water", "reserved pasta water", "reserved water"}

// normalizeIngredientName lowercases, trims and collapses inner whitespace
// so provider price names and recipe ingredient names can be compared.
func normalizeIngredientName(name string) string {
	fields := strings.Fields(strings.ToLower(name))
	return strings.Join(fields, " ")
}

func ingredientLookupName(ingredient *types.Ingredient) string {
	if ingredient == nil {
		return ""
	}
	name := ingredient.Name
	if name == "" {
		name = ingredient.Original
	}
	return normalizeIngredientName(name)
}

func isFreeIngredient(ingredient *types.Ingredient) bool {
	name := ingredientLookupName(ingredient)
	if name == "" {
		return false
	}
	for _, free := range freeIngredientNames {
		if strings.Contains(name, free) {
			return true
		}
	}
	return false
}

// defaultPriceCents returns the staple price for a normalized ingredient
// name, or 0 when the table has no plausible match. Substring matches
// require a key of at least three characters to avoid false positives.
func defaultPriceCents(name string) int {
	if name == "" {
		return 0
	}
	if price, ok := defaultPriceCentsTable[name]; ok {
		return price
	}
	for key, price := range defaultPriceCentsTable {
		if len(key) >= 3 && (strings.Contains(name, key) || strings.Contains(key, name)) {
			return price
		}
	}
	return 0
}

type priceEntry struct {
	price  float64
	amount *float64
	image  string
}

// findMatchingPrice resolves the breakdown entry for an ingredient: exact
// match on the normalized name, then on the original text, then substring
// containment in either direction.
func findMatchingPrice(ingredient *types.Ingredient, priceMap map[string]priceEntry) (priceEntry, bool) {
	if ingredient == nil {
		return priceEntry{}, false
	}

	nameKey := normalizeIngredientName(ingredient.Name)
	originalKey := normalizeIngredientName(ingredient.Original)

	if nameKey != "" {
		if entry, ok := priceMap[nameKey]; ok {
			return entry, true
		}
	}
	if originalKey != "" {
		if entry, ok := priceMap[originalKey]; ok {
			return entry, true
		}
	}

	for priceKey, entry := range priceMap {
		if nameKey != "" && (strings.Contains(priceKey, nameKey) || strings.Contains(nameKey, priceKey)) {
			return entry, true
		}
		if originalKey != "" && (strings.Contains(priceKey, originalKey) || strings.Contains(originalKey, priceKey)) {
			return entry, true
		}
	}
	return priceEntry{}, false
}

// ApplyPriceBreakdown attaches per-ingredient costs from a provider price
// breakdown to a recipe. Unmatched ingredients fall back to the staple
// price table, then to an even split of the breakdown's remaining total
// cost, then to an even split derived from the recipe's own per-serving
// price. The raw breakdown and its totals are attached as-is.
func ApplyPriceBreakdown(recipe *types.Recipe, priceData *types.PriceBreakdown) *types.Recipe {
	if recipe == nil || priceData == nil {
		return recipe
	}

	if len(recipe.ExtendedIngredients) > 0 && len(priceData.Ingredients) > 0 {
		priceMap := make(map[string]priceEntry)
		for _, item := range priceData.Ingredients {
			key := normalizeIngredientName(item.Name)
			if key == "" || item.Price <= 0 {
				continue
			}
			entry := priceEntry{price: item.Price, amount: item.Amount, image: item.Image}
			priceMap[key] = entry

			// Also keep the raw lowercase name for exact matching.
			originalKey := strings.ToLower(strings.TrimSpace(item.Name))
			if originalKey != "" && originalKey != key {
				priceMap[originalKey] = entry
			}
		}

		totalMatchedCost := 0.0
		for _, ingredient := range recipe.ExtendedIngredients {
			if ingredient == nil {
				continue
			}
			if entry, ok := findMatchingPrice(ingredient, priceMap); ok {
				ingredient.EstimatedCost = &types.EstimatedCost{
					Value:  int(math.Round(entry.price)),
					Unit:   "US Cents",
					Amount: entry.amount,
					Image:  entry.image,
				}
				totalMatchedCost += entry.price
			}
		}

		var unmatched []*types.Ingredient
		for _, ingredient := range recipe.ExtendedIngredients {
			if ingredient != nil && ingredient.EstimatedCost == nil {
				unmatched = append(unmatched, ingredient)
			}
		}

		if len(unmatched) > 0 {
			for _, ingredient := range unmatched {
				if isFreeIngredient(ingredient) {
					continue
				}
				if price := defaultPriceCents(ingredientLookupName(ingredient)); price > 0 {
					ingredient.EstimatedCost = &types.EstimatedCost{
						Value:  price,
						Unit:   "US Cents",
						Amount: amountOrZero(ingredient.Amount),
					}
					totalMatchedCost += float64(price)
				}
			}

			if priceData.TotalCost != nil && *priceData.TotalCost > 0 {
				stillUnmatched := withoutCost(recipe.ExtendedIngredients)
				if len(stillUnmatched) > 0 && *priceData.TotalCost > totalMatchedCost {
					remainingCost := *priceData.TotalCost - totalMatchedCost
					costPerUnmatched := int(math.Floor(remainingCost / float64(len(stillUnmatched))))
					if costPerUnmatched < 1 {
						costPerUnmatched = 1
					}
					for _, ingredient := range stillUnmatched {
						ingredient.EstimatedCost = &types.EstimatedCost{
							Value:  costPerUnmatched,
							Unit:   "US Cents",
							Amount: amountOrZero(ingredient.Amount),
						}
					}
				}
			} else if recipe.PricePerServing != nil && *recipe.PricePerServing > 0 && recipe.Servings != 0 {
				stillUnmatched := withoutCost(recipe.ExtendedIngredients)
				if len(stillUnmatched) > 0 {
					totalRecipeCostCents := math.Round(*recipe.PricePerServing * float64(recipe.Servings) * 100)
					costPerIngredient := int(math.Floor(totalRecipeCostCents / float64(len(recipe.ExtendedIngredients))))
					if costPerIngredient < 10 {
						costPerIngredient = 10
					}
					for _, ingredient := range stillUnmatched {
						ingredient.EstimatedCost = &types.EstimatedCost{
							Value:  costPerIngredient,
							Unit:   "US Cents",
							Amount: amountOrZero(ingredient.Amount),
						}
					}
				}
			}
		}
	}

	if priceData.TotalCost != nil {
		recipe.TotalIngredientCost = priceData.TotalCost
	}
	if priceData.TotalCostPerServing != nil {
		recipe.TotalCostPerServing = priceData.TotalCostPerServing
	}
	recipe.PriceBreakdown = priceData
	return recipe
}

// withoutCost returns the ingredients still lacking a cost. Free ingredients
// are excluded; they never receive a distributed share.
func withoutCost(ingredients []*types.Ingredient) []*types.Ingredient {
	var result []*types.Ingredient
	for _, ingredient := range ingredients {
		if ingredient != nil && ingredient.EstimatedCost == nil && !isFreeIngredient(ingredient) {
			result = append(result, ingredient)
		}
	}
	return result
}

func amountOrZero(amount *float64) *float64 {
	if amount != nil {
		return amount
	}
	zero := 0.0
	return &zero
}
