package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/platefinder/backend/internal/middleware"
	"github.com/platefinder/backend/internal/service"
	"github.com/platefinder/backend/internal/types"
)

// DiscoverHandler serves recipe search, ingredient search and grocery-list
// generation. Search endpoints work for anonymous users too; a valid token
// personalizes sort order and favorite markers.
type DiscoverHandler struct {
	recipes     *service.RecipeService
	preferences *service.PreferencesService
	favorites   *service.FavoriteService
	authService middleware.TokenValidator
}

func NewDiscoverHandler(recipes *service.RecipeService, preferences *service.PreferencesService, favorites *service.FavoriteService, authService middleware.TokenValidator) *DiscoverHandler {
	return &DiscoverHandler{
		recipes:     recipes,
		preferences: preferences,
		favorites:   favorites,
		authService: authService,
	}
}

func (h *DiscoverHandler) RegisterRoutes(router *gin.RouterGroup) {
	discover := router.Group("/discover", middleware.OptionalAuthMiddleware(h.authService))
	{
		discover.GET("/search", h.SearchRecipes)
		discover.GET("/ingredients", h.SearchByIngredients)
		discover.POST("/grocery-list", h.GenerateGroceryList)
	}
}

// SearchRecipes handles GET /discover/search. A request carrying an
// ingredients parameter behaves as an ingredient search.
func (h *DiscoverHandler) SearchRecipes(c *gin.Context) {
	var req types.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid search parameters"})
		return
	}

	var results []*types.Recipe
	if req.Ingredients != "" {
		results = h.recipes.SearchRecipesByIngredientsWithFallback(c.Request.Context(), req)
	} else {
		results = h.recipes.SearchRecipesWithFallback(c.Request.Context(), req)
	}

	userID, authenticated := middleware.UserIDFromContext(c)
	results = SortRecipesByPreferences(c, h.preferences, results, userID, authenticated)

	c.JSON(http.StatusOK, gin.H{
		"results":           results,
		"count":             len(results),
		"favoriteRecipeIds": h.favoriteIDs(c, userID, authenticated),
	})
}

// SearchByIngredients handles GET /discover/ingredients.
func (h *DiscoverHandler) SearchByIngredients(c *gin.Context) {
	var req types.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid search parameters"})
		return
	}
	if req.Ingredients == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "please provide at least one ingredient to search"})
		return
	}

	results := h.recipes.SearchRecipesByIngredientsWithFallback(c.Request.Context(), req)

	userID, authenticated := middleware.UserIDFromContext(c)
	results = SortRecipesByPreferences(c, h.preferences, results, userID, authenticated)

	c.JSON(http.StatusOK, gin.H{
		"results":           results,
		"count":             len(results),
		"favoriteRecipeIds": h.favoriteIDs(c, userID, authenticated),
	})
}

type groceryListRequest struct {
	RecipeIDs []string `json:"recipeIds" form:"recipeIds"`
}

// GenerateGroceryList handles POST /discover/grocery-list: resolves the
// selected recipes and merges their ingredients into one shopping list.
func (h *DiscoverHandler) GenerateGroceryList(c *gin.Context) {
	var req groceryListRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	var recipeIDs []int64
	for _, raw := range req.RecipeIDs {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			recipeIDs = append(recipeIDs, id)
		}
	}
	if len(recipeIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "please select at least one recipe"})
		return
	}

	recipes := h.recipes.GetDetailedRecipes(c.Request.Context(), recipeIDs)
	if len(recipes) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "unable to load the selected recipes"})
		return
	}

	userID, authenticated := middleware.UserIDFromContext(c)
	recipes = SortRecipesByPreferences(c, h.preferences, recipes, userID, authenticated)

	groceryList := service.BuildGroceryList(recipes)
	c.JSON(http.StatusOK, gin.H{
		"recipes":            recipes,
		"groceryList":        groceryList.Items,
		"groupedByAisle":     groceryList.GroupedByAisle,
		"totalEstimatedCost": groceryList.TotalEstimatedCost,
	})
}

func (h *DiscoverHandler) favoriteIDs(c *gin.Context, userID uuid.UUID, authenticated bool) []int64 {
	if !authenticated {
		return []int64{}
	}
	ids := h.favorites.GetUserFavoriteIDs(c.Request.Context(), userID)
	if ids == nil {
		ids = []int64{}
	}
	return ids
}

// SortRecipesByPreferences orders results by the user's stored preferences,
// or the defaults for anonymous users.
func SortRecipesByPreferences(c *gin.Context, preferences *service.PreferencesService, recipes []*types.Recipe, userID uuid.UUID, authenticated bool) []*types.Recipe {
	prefs := types.DefaultPreferences()
	if authenticated {
		prefs = preferences.GetUserPreferences(c.Request.Context(), userID)
	}
	return service.SortRecipesByPreferences(recipes, prefs)
}
