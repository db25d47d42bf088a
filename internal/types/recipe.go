package types

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// IngredientID accepts both the numeric ids the recipe provider assigns and
// the "recipeID-index" strings the CSV importer derives. Digit-only values
// marshal back as JSON numbers so stored payloads stay stable.
type IngredientID string

func (id *IngredientID) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*id = ""
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = IngredientID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = IngredientID(n.String())
	return nil
}

func (id IngredientID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte("null"), nil
	}
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// EstimatedCost is the per-ingredient cost attached by the price matcher or
// the import-time estimator. Value is always a whole number of cents.
type EstimatedCost struct {
	Value  int      `json:"value"`
	Unit   string   `json:"unit"`
	Amount *float64 `json:"amount,omitempty"`
	Image  string   `json:"image,omitempty"`
}

// Ingredient is one entry of a recipe's extended ingredient list.
type Ingredient struct {
	ID             IngredientID   `json:"id,omitempty"`
	Name           string         `json:"name,omitempty"`
	Original       string         `json:"original,omitempty"`
	OriginalString string         `json:"originalString,omitempty"`
	Amount         *float64       `json:"amount"`
	Unit           string         `json:"unit"`
	Aisle          string         `json:"aisle,omitempty"`
	Image          string         `json:"image,omitempty"`
	EstimatedCost  *EstimatedCost `json:"estimatedCost,omitempty"`
}

// Nutrient is a single named nutrition value.
type Nutrient struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit,omitempty"`
}

// Nutrition wraps the nutrient list the provider reports.
type Nutrition struct {
	Nutrients []Nutrient `json:"nutrients"`
}

// InstructionStep is a single numbered preparation step.
type InstructionStep struct {
	Number int    `json:"number"`
	Step   string `json:"step"`
}

// InstructionBlock groups steps under an optional section name.
type InstructionBlock struct {
	Name  string            `json:"name"`
	Steps []InstructionStep `json:"steps"`
}

// PricedIngredient is one entry of a provider price-breakdown payload.
// Prices are cents and may arrive fractional.
type PricedIngredient struct {
	Name   string   `json:"name"`
	Price  float64  `json:"price"`
	Amount *float64 `json:"amount,omitempty"`
	Image  string   `json:"image,omitempty"`
}

// PriceBreakdown is the provider's cost-breakdown payload for one recipe.
type PriceBreakdown struct {
	Ingredients         []PricedIngredient `json:"ingredients,omitempty"`
	TotalCost           *float64           `json:"totalCost,omitempty"`
	TotalCostPerServing *float64           `json:"totalCostPerServing,omitempty"`
}

// Recipe is the canonical recipe record. All three producers (provider
// normalization, stored-row parsing and the CSV importer) emit this shape.
// Optional fields use pointers so "absent" stays distinguishable from zero;
// the intolerance filter relies on that to fail open.
type Recipe struct {
	ID                   int64              `json:"id"`
	Title                string             `json:"title"`
	Summary              string             `json:"summary,omitempty"`
	Image                string             `json:"image,omitempty"`
	SourceURL            string             `json:"sourceUrl,omitempty"`
	Servings             int                `json:"servings,omitempty"`
	ReadyInMinutes       int                `json:"readyInMinutes,omitempty"`
	PricePerServing      *float64           `json:"pricePerServing,omitempty"`
	ExtendedIngredients  []*Ingredient      `json:"extendedIngredients,omitempty"`
	Instructions         string             `json:"instructions,omitempty"`
	AnalyzedInstructions []InstructionBlock `json:"analyzedInstructions,omitempty"`
	Diets                []string           `json:"diets,omitempty"`
	DishTypes            []string           `json:"dishTypes,omitempty"`
	Cuisines             []string           `json:"cuisines,omitempty"`

	Vegetarian  *bool `json:"vegetarian,omitempty"`
	Vegan       *bool `json:"vegan,omitempty"`
	GlutenFree  *bool `json:"glutenFree,omitempty"`
	DairyFree   *bool `json:"dairyFree,omitempty"`
	LowFodmap   *bool `json:"lowFodmap,omitempty"`
	Ketogenic   *bool `json:"ketogenic,omitempty"`
	Whole30     *bool `json:"whole30,omitempty"`
	VeryHealthy *bool `json:"veryHealthy,omitempty"`
	Cheap       *bool `json:"cheap,omitempty"`

	AggregateLikes   int        `json:"aggregateLikes,omitempty"`
	HealthScore      *float64   `json:"healthScore,omitempty"`
	SpoonacularScore *float64   `json:"spoonacularScore,omitempty"`
	Nutrition        *Nutrition `json:"nutrition,omitempty"`

	RawSource   string         `json:"rawSource,omitempty"`
	DatasetMeta map[string]any `json:"datasetMeta,omitempty"`

	TotalIngredientCost *float64        `json:"totalIngredientCost,omitempty"`
	TotalCostPerServing *float64        `json:"totalCostPerServing,omitempty"`
	PriceBreakdown      *PriceBreakdown `json:"priceBreakdown,omitempty"`

	// Set only on recipes returned from the favorites listing.
	FavoritedAt *time.Time `json:"favoritedAt,omitempty"`
}

// Calories returns the Calories nutrient amount, or nil when the recipe
// carries no usable nutrition data.
func (r *Recipe) Calories() *float64 {
	if r == nil || r.Nutrition == nil {
		return nil
	}
	for _, n := range r.Nutrition.Nutrients {
		if n.Name == "Calories" {
			amount := n.Amount
			return &amount
		}
	}
	return nil
}

// HasIngredientCost reports whether at least one ingredient already carries
// an estimated cost. The resolution engine uses this to decide whether a
// price-breakdown enrichment call is still needed.
func (r *Recipe) HasIngredientCost() bool {
	if r == nil {
		return false
	}
	for _, ing := range r.ExtendedIngredients {
		if ing != nil && ing.EstimatedCost != nil {
			return true
		}
	}
	return false
}

// GroceryItem is one merged line of a grocery list.
type GroceryItem struct {
	ID            IngredientID `json:"id,omitempty"`
	Name          string       `json:"name"`
	Original      string       `json:"original,omitempty"`
	Amount        float64      `json:"amount"`
	Unit          string       `json:"unit"`
	Aisle         string       `json:"aisle"`
	Image         string       `json:"image,omitempty"`
	EstimatedCost string       `json:"estimatedCost"`
	Recipes       []string     `json:"recipes"`
}

// GroceryList is the aisle-grouped shopping list built from a set of
// resolved recipes. Costs are formatted currency strings.
type GroceryList struct {
	Items              []*GroceryItem            `json:"groceryList"`
	GroupedByAisle     map[string][]*GroceryItem `json:"groupedByAisle"`
	TotalEstimatedCost string                    `json:"totalEstimatedCost"`
}
