package service

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/platefinder/backend/internal/model"
	"github.com/platefinder/backend/internal/spoonacular"
	"github.com/platefinder/backend/internal/types"
)

// RecipeStore is the persistence surface the resolution engine needs.
// *repository.RecipeRepository implements it.
type RecipeStore interface {
	Upsert(ctx context.Context, recipe *model.Recipe) (uint, error)
	FindBySpoonacularIDs(ctx context.Context, ids []int64) (map[int64]model.Recipe, error)
	GetRecipeRecordID(ctx context.Context, spoonacularID int64) (uint, error)
	Search(ctx context.Context, filters types.SearchFilters, limit int) ([]model.Recipe, error)
}

// RecipeService resolves recipes by combining the local cache with the
// external provider: cache first, provider on miss, enrichment with price
// data when absent, write-back best effort.
type RecipeService struct {
	store    RecipeStore
	provider spoonacular.Provider
}

func NewRecipeService(store RecipeStore, provider spoonacular.Provider) *RecipeService {
	return &RecipeService{store: store, provider: provider}
}

// SaveRecipe persists a recipe to the cache. Write failures are logged and
// swallowed; the in-memory recipe is returned either way, trading
// consistency for availability.
func (s *RecipeService) SaveRecipe(ctx context.Context, recipe *types.Recipe) *types.Recipe {
	if recipe == nil || recipe.ID == 0 {
		return nil
	}

	title := recipe.Title
	if title == "" {
		title = "Untitled Recipe"
	}

	raw, err := json.Marshal(recipe)
	if err != nil {
		log.Printf("Error serializing recipe %d: %v", recipe.ID, err)
		return recipe
	}

	row := &model.Recipe{
		SpoonacularID:   recipe.ID,
		Title:           title,
		Description:     recipe.Summary,
		SourceURL:       recipe.SourceURL,
		ImageURL:        recipe.Image,
		PricePerServing: recipe.PricePerServing,
		Summary:         recipe.Summary,
		RawData:         string(raw),
	}
	if recipe.Servings != 0 {
		servings := recipe.Servings
		row.Servings = &servings
	}
	if recipe.ReadyInMinutes != 0 {
		minutes := recipe.ReadyInMinutes
		row.ReadyInMinutes = &minutes
	}

	if _, err := s.store.Upsert(ctx, row); err != nil {
		log.Printf("Error saving recipe %d to database: %v", recipe.ID, err)
	}
	return recipe
}

// GetDetailedRecipes resolves a list of external ids into full recipes,
// preserving input order and dropping ids that resolve to nothing. Cache
// misses are fetched from the provider concurrently, and recipes without
// ingredient-level cost data are enriched concurrently afterwards.
func (s *RecipeService) GetDetailedRecipes(ctx context.Context, recipeIDs []int64) []*types.Recipe {
	if len(recipeIDs) == 0 {
		return nil
	}

	// A repeated id must not alias the same recipe into two enrichment
	// goroutines; first occurrence wins.
	seen := make(map[int64]bool, len(recipeIDs))
	ids := make([]int64, 0, len(recipeIDs))
	for _, id := range recipeIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}

	resolved := s.getCachedRecipesMap(ctx, ids)

	var missing []int64
	for _, id := range ids {
		if _, ok := resolved[id]; !ok {
			missing = append(missing, id)
		}
	}

	if len(missing) > 0 {
		var mu sync.Mutex
		var wg sync.WaitGroup
		for _, id := range missing {
			wg.Add(1)
			go func(id int64) {
				defer wg.Done()
				recipe := s.fetchRecipeFromAPI(ctx, id)
				if recipe == nil || recipe.ID == 0 {
					return
				}
				mu.Lock()
				resolved[recipe.ID] = recipe
				mu.Unlock()
			}(id)
		}
		wg.Wait()
	}

	var ordered []*types.Recipe
	for _, id := range ids {
		if recipe, ok := resolved[id]; ok && recipe != nil {
			ordered = append(ordered, recipe)
		}
	}

	enriched := make([]*types.Recipe, len(ordered))
	var wg sync.WaitGroup
	for i, recipe := range ordered {
		wg.Add(1)
		go func(i int, recipe *types.Recipe) {
			defer wg.Done()
			enriched[i] = s.ensureRecipeHasCostData(ctx, recipe)
		}(i, recipe)
	}
	wg.Wait()

	return enriched
}

// EnsureRecipeRecord guarantees a cache row exists for an external id,
// fetching from the provider when needed, and returns the internal
// surrogate key. Returns 0 when the id cannot be resolved at all.
func (s *RecipeService) EnsureRecipeRecord(ctx context.Context, recipeID int64) (uint, error) {
	if recipeID == 0 {
		return 0, nil
	}

	recordID, err := s.store.GetRecipeRecordID(ctx, recipeID)
	if err != nil {
		return 0, err
	}
	if recordID != 0 {
		return recordID, nil
	}

	s.fetchRecipeFromAPI(ctx, recipeID)
	return s.store.GetRecipeRecordID(ctx, recipeID)
}

// SearchRecipesWithFallback serves a filtered search from the cache first,
// topping up from the provider when the cache cannot satisfy the requested
// count. Both sources are re-filtered in memory, de-duplicated by id with
// cache hits winning, and truncated to the requested number.
func (s *RecipeService) SearchRecipesWithFallback(ctx context.Context, req types.SearchRequest) []*types.Recipe {
	filters := NormalizeSearchFilters(req)

	localFetchLimit := filters.Number * 3
	if localFetchLimit > 90 {
		localFetchLimit = 90
	}
	localRecipes := s.loadRecipesFromDatabase(ctx, filters, localFetchLimit)
	filteredLocal := FilterRecipesByConstraints(localRecipes, filters)

	var results []*types.Recipe
	seen := make(map[int64]bool)
	for _, recipe := range filteredLocal {
		if recipe != nil && recipe.ID != 0 && !seen[recipe.ID] {
			seen[recipe.ID] = true
			results = append(results, recipe)
		}
	}

	if len(results) < filters.Number {
		needed := filters.Number - len(results)
		apiRecipes := s.fetchRecipesFromAPIWithDetails(ctx, filters, needed*2)
		filteredAPI := FilterRecipesByConstraints(apiRecipes, filters)
		for _, recipe := range filteredAPI {
			if recipe != nil && recipe.ID != 0 && !seen[recipe.ID] {
				seen[recipe.ID] = true
				results = append(results, recipe)
			}
		}
	}

	if len(results) > filters.Number {
		results = results[:filters.Number]
	}
	return results
}

// SearchRecipesByIngredientsWithFallback is the ingredient-search variant
// of SearchRecipesWithFallback. An empty ingredient list yields no results.
func (s *RecipeService) SearchRecipesByIngredientsWithFallback(ctx context.Context, req types.SearchRequest) []*types.Recipe {
	filters := NormalizeIngredientSearchFilters(req)
	if len(filters.Ingredients) == 0 {
		return nil
	}

	localFetchLimit := filters.Number * 3
	if localFetchLimit > 90 {
		localFetchLimit = 90
	}
	localRecipes := s.loadRecipesFromDatabase(ctx, filters, localFetchLimit)
	filteredLocal := FilterRecipesByConstraints(localRecipes, filters)

	var results []*types.Recipe
	seen := make(map[int64]bool)
	for _, recipe := range filteredLocal {
		if recipe != nil && recipe.ID != 0 && !seen[recipe.ID] {
			seen[recipe.ID] = true
			results = append(results, recipe)
		}
	}

	if len(results) < filters.Number {
		needed := filters.Number - len(results)
		apiRecipes := s.fetchRecipesByIngredientsFromAPI(ctx, filters, needed*2, seen)
		filteredAPI := FilterRecipesByConstraints(apiRecipes, filters)
		for _, recipe := range filteredAPI {
			if recipe != nil && recipe.ID != 0 && !seen[recipe.ID] {
				seen[recipe.ID] = true
				results = append(results, recipe)
			}
		}
	}

	if len(results) > filters.Number {
		results = results[:filters.Number]
	}
	return results
}

// getCachedRecipesMap batch-loads cached recipes by external id. Read
// failures degrade to an empty map.
func (s *RecipeService) getCachedRecipesMap(ctx context.Context, ids []int64) map[int64]*types.Recipe {
	recipes := make(map[int64]*types.Recipe, len(ids))
	if len(ids) == 0 {
		return recipes
	}

	rows, err := s.store.FindBySpoonacularIDs(ctx, ids)
	if err != nil {
		log.Printf("Error loading cached recipes: %v", err)
		return recipes
	}

	for id, row := range rows {
		if recipe := ParseStoredRow(row); recipe != nil {
			recipes[id] = recipe
		}
	}
	return recipes
}

func (s *RecipeService) loadRecipesFromDatabase(ctx context.Context, filters types.SearchFilters, limit int) []*types.Recipe {
	rows, err := s.store.Search(ctx, filters, limit)
	if err != nil {
		log.Printf("Error searching recipes from local cache: %v", err)
		return nil
	}

	var recipes []*types.Recipe
	for _, row := range rows {
		if recipe := ParseStoredRow(row); recipe != nil {
			recipes = append(recipes, recipe)
		}
	}
	return recipes
}

// fetchRecipeFromAPI fetches, normalizes, price-enriches and persists one
// recipe from the provider. Enrichment failure is non-fatal; a fetch
// failure yields nil.
func (s *RecipeService) fetchRecipeFromAPI(ctx context.Context, recipeID int64) *types.Recipe {
	raw, err := s.provider.GetRecipeInformation(ctx, recipeID, true)
	if err != nil {
		log.Printf("Error fetching recipe %d: %v", recipeID, err)
		return nil
	}

	recipe := NormalizeAPIRecipe(raw)
	if recipe == nil {
		return nil
	}

	priceData, err := s.provider.GetPriceBreakdown(ctx, recipeID)
	if err != nil {
		log.Printf("Error fetching price breakdown for recipe %d: %v", recipeID, err)
	} else if priceData != nil {
		recipe = ApplyPriceBreakdown(recipe, priceData)
	}

	s.SaveRecipe(ctx, recipe)
	return recipe
}

// ensureRecipeHasCostData enriches a recipe with a price breakdown when no
// ingredient carries a cost yet, persisting the enriched version. Provider
// errors leave the recipe as-is.
func (s *RecipeService) ensureRecipeHasCostData(ctx context.Context, recipe *types.Recipe) *types.Recipe {
	if recipe == nil || recipe.HasIngredientCost() {
		return recipe
	}

	priceData, err := s.provider.GetPriceBreakdown(ctx, recipe.ID)
	if err != nil {
		log.Printf("Error enriching recipe %d with cost data: %v", recipe.ID, err)
		return recipe
	}
	if priceData == nil {
		return recipe
	}

	enriched := ApplyPriceBreakdown(recipe, priceData)
	s.SaveRecipe(ctx, enriched)
	return enriched
}

// fetchRecipesFromAPIWithDetails runs a provider search sized to cover the
// shortfall, persists the raw results, then resolves them through
// GetDetailedRecipes so they come back enriched.
func (s *RecipeService) fetchRecipesFromAPIWithDetails(ctx context.Context, filters types.SearchFilters, desiredCount int) []*types.Recipe {
	requestSize := desiredCount
	if filters.Number > requestSize {
		requestSize = filters.Number
	}
	if requestSize < 10 {
		requestSize = 10
	}
	if requestSize > 100 {
		requestSize = 100
	}

	params := spoonacular.SearchParams{
		Number:       requestSize,
		Query:        filters.Query,
		Diet:         filters.Diet,
		Intolerances: filters.Intolerances,
		MaxReadyTime: filters.MaxReadyTime,
		MinCalories:  filters.MinCalories,
		MaxCalories:  filters.MaxCalories,
	}

	apiResults, err := s.provider.SearchRecipes(ctx, params)
	if err != nil {
		log.Printf("Error fetching recipes from provider: %v", err)
		return nil
	}

	var ids []int64
	for _, raw := range apiResults {
		if raw == nil {
			continue
		}
		if normalized := NormalizeAPIRecipe(raw); normalized != nil {
			s.SaveRecipe(ctx, normalized)
		}
		if raw.ID != 0 {
			ids = append(ids, raw.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	return s.GetDetailedRecipes(ctx, ids)
}

// fetchRecipesByIngredientsFromAPI is the ingredient-search provider path.
// Ids the caller already holds are excluded before resolution.
func (s *RecipeService) fetchRecipesByIngredientsFromAPI(ctx context.Context, filters types.SearchFilters, desiredCount int, seenIDs map[int64]bool) []*types.Recipe {
	if len(filters.Ingredients) == 0 {
		return nil
	}

	requestSize := desiredCount
	if filters.Number > requestSize {
		requestSize = filters.Number
	}
	if requestSize < 5 {
		requestSize = 5
	}
	if requestSize > 100 {
		requestSize = 100
	}

	ranking := 1
	if filters.Ranking != nil {
		ranking = *filters.Ranking
	}

	params := spoonacular.IngredientSearchParams{
		Ingredients:  filters.Ingredients,
		Number:       requestSize,
		Ranking:      ranking,
		IgnorePantry: filters.IgnorePantry,
	}

	apiResults, err := s.provider.SearchRecipesByIngredients(ctx, params)
	if err != nil {
		log.Printf("Error fetching recipes by ingredients: %v", err)
		return nil
	}

	var ids []int64
	for _, raw := range apiResults {
		if raw != nil && raw.ID != 0 && !seenIDs[raw.ID] {
			ids = append(ids, raw.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	return s.GetDetailedRecipes(ctx, ids)
}
