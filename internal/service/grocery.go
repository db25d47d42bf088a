package service

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/platefinder/backend/internal/types"
)

// BuildGroceryList merges the ingredients of a set of resolved recipes into
// a single shopping list. Ingredients sharing a name are combined, amounts
// summed and costs accumulated; entries without an estimated cost fall back
// to the staple price table. The list is ordered by aisle and also returned
// grouped per aisle.
func BuildGroceryList(recipes []*types.Recipe) *types.GroceryList {
	itemsByName := make(map[string]*types.GroceryItem)
	var order []string
	totalEstimatedCost := 0.0

	for _, recipe := range recipes {
		if recipe == nil || len(recipe.ExtendedIngredients) == 0 {
			continue
		}

		for _, ingredient := range recipe.ExtendedIngredients {
			if ingredient == nil {
				continue
			}
			resolvedName := strings.TrimSpace(ingredient.Name)
			if resolvedName == "" {
				resolvedName = strings.TrimSpace(ingredient.Original)
			}
			if resolvedName == "" {
				continue
			}
			key := strings.ToLower(resolvedName)

			cost := 0.0
			if ingredient.EstimatedCost != nil && ingredient.EstimatedCost.Value != 0 {
				cost = float64(ingredient.EstimatedCost.Value) / 100
			} else {
				cost = groceryDefaultCost(resolvedName)
			}
			totalEstimatedCost += cost

			if existing, ok := itemsByName[key]; ok {
				existing.Amount += amountValue(ingredient.Amount)
				existing.Recipes = append(existing.Recipes, recipe.Title)
				if cost > 0 {
					previous, _ := strconv.ParseFloat(existing.EstimatedCost, 64)
					existing.EstimatedCost = formatCurrency(previous + cost)
				}
				continue
			}

			name := ingredient.Name
			if name == "" {
				name = resolvedName
			}
			aisle := ingredient.Aisle
			if aisle == "" {
				aisle = "Unknown"
			}
			itemsByName[key] = &types.GroceryItem{
				ID:            ingredient.ID,
				Name:          name,
				Original:      ingredient.Original,
				Amount:        amountValue(ingredient.Amount),
				Unit:          ingredient.Unit,
				Aisle:         aisle,
				Image:         ingredient.Image,
				EstimatedCost: formatCurrency(cost),
				Recipes:       []string{recipe.Title},
			}
			order = append(order, key)
		}
	}

	items := make([]*types.GroceryItem, 0, len(order))
	for _, key := range order {
		items = append(items, itemsByName[key])
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Aisle < items[j].Aisle
	})

	groupedByAisle := make(map[string][]*types.GroceryItem)
	for _, item := range items {
		groupedByAisle[item.Aisle] = append(groupedByAisle[item.Aisle], item)
	}

	return &types.GroceryList{
		Items:              items,
		GroupedByAisle:     groupedByAisle,
		TotalEstimatedCost: formatCurrency(totalEstimatedCost),
	}
}

// groceryDefaultCost returns a fallback cost in currency units for an
// ingredient the price matcher never costed. Free ingredients and unknown
// names cost nothing.
func groceryDefaultCost(name string) float64 {
	normalized := normalizeIngredientName(name)
	if normalized == "" {
		return 0
	}
	for _, free := range freeIngredientNames {
		if strings.Contains(normalized, free) {
			return 0
		}
	}
	return float64(defaultPriceCents(normalized)) / 100
}

func formatCurrency(value float64) string {
	return fmt.Sprintf("%.2f", value)
}

func amountValue(amount *float64) float64 {
	if amount == nil {
		return 0
	}
	return *amount
}
