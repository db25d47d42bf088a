package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/platefinder/backend/internal/middleware"
	"github.com/platefinder/backend/internal/service"
	"github.com/platefinder/backend/internal/types"
)

// RecipeHandler serves recipe detail.
type RecipeHandler struct {
	recipes     *service.RecipeService
	favorites   *service.FavoriteService
	authService middleware.TokenValidator
}

func NewRecipeHandler(recipes *service.RecipeService, favorites *service.FavoriteService, authService middleware.TokenValidator) *RecipeHandler {
	return &RecipeHandler{recipes: recipes, favorites: favorites, authService: authService}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes", middleware.OptionalAuthMiddleware(h.authService))
	{
		recipes.GET("/:id", h.GetRecipe)
	}
}

// InstructionView is a flattened, renumbered preparation step for display.
type InstructionView struct {
	Number      int    `json:"number"`
	Description string `json:"description"`
}

// GetRecipe handles GET /recipes/:id, resolving through the cache and
// provider like any other lookup.
func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	recipeID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}

	recipes := h.recipes.GetDetailedRecipes(c.Request.Context(), []int64{recipeID})
	if len(recipes) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}
	recipe := recipes[0]

	isFavorite := false
	if userID, ok := middleware.UserIDFromContext(c); ok {
		for _, id := range h.favorites.GetUserFavoriteIDs(c.Request.Context(), userID) {
			if id == recipeID {
				isFavorite = true
				break
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"recipe":       recipe,
		"instructions": mapInstructions(recipe),
		"isFavorite":   isFavorite,
	})
}

// mapInstructions flattens analyzed instruction blocks into a single
// renumbered step list, falling back to splitting the free-text
// instructions on newlines.
func mapInstructions(recipe *types.Recipe) []InstructionView {
	steps := []InstructionView{}
	if recipe == nil {
		return steps
	}

	index := 0
	for _, block := range recipe.AnalyzedInstructions {
		for _, step := range block.Steps {
			index++
			description := strings.TrimSpace(step.Step)
			if description == "" {
				continue
			}
			number := step.Number
			if number == 0 {
				number = index
			}
			steps = append(steps, InstructionView{Number: number, Description: description})
		}
	}
	if len(steps) > 0 {
		return steps
	}

	for _, line := range strings.Split(recipe.Instructions, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		steps = append(steps, InstructionView{Number: len(steps) + 1, Description: line})
	}
	return steps
}
