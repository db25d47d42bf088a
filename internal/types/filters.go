package types

// SearchRequest carries the raw, unvalidated search inputs as they arrive
// from query strings or form posts. Everything is a string; normalization
// into SearchFilters happens in the service layer.
type SearchRequest struct {
	Query        string `form:"query" json:"query"`
	Number       string `form:"number" json:"number"`
	Diet         string `form:"diet" json:"diet"`
	MaxReadyTime string `form:"maxReadyTime" json:"maxReadyTime"`
	MinPrice     string `form:"minPrice" json:"minPrice"`
	MaxPrice     string `form:"maxPrice" json:"maxPrice"`
	MinCalories  string `form:"minCalories" json:"minCalories"`
	MaxCalories  string `form:"maxCalories" json:"maxCalories"`
	Intolerances string `form:"intolerances" json:"intolerances"`
	Ingredients  string `form:"ingredients" json:"ingredients"`
	Ranking      string `form:"ranking" json:"ranking"`
	IgnorePantry string `form:"ignorePantry" json:"ignorePantry"`
}

// SearchFilters is the normalized per-request filter bag. Number is always
// within [1,100]; inverted ranges have been swapped; text filters are
// lowercased and trimmed.
type SearchFilters struct {
	Number       int
	Query        string
	Diet         string
	MaxReadyTime *int
	MinCalories  *int
	MaxCalories  *int
	MinPrice     *float64
	MaxPrice     *float64
	Intolerances []string

	// Ingredient-search extensions.
	Ingredients  []string
	Ranking      *int
	IgnorePantry bool
}

// PriorityFactors weights the relevance score terms.
type PriorityFactors struct {
	Price    float64 `json:"price"`
	Time     float64 `json:"time"`
	Calories float64 `json:"calories"`
	Health   float64 `json:"health"`
}

// Preferences holds a user's result-ordering preferences.
type Preferences struct {
	SortBy          string          `json:"sort_by"`
	SortOrder       string          `json:"sort_order"`
	PriorityFactors PriorityFactors `json:"priority_factors"`
}

// DefaultPreferences returns the preference set used when a user has never
// saved any: relevance ordering with every factor weighted equally.
func DefaultPreferences() Preferences {
	return Preferences{
		SortBy:          "relevance",
		SortOrder:       "asc",
		PriorityFactors: PriorityFactors{Price: 1, Time: 1, Calories: 1, Health: 1},
	}
}
