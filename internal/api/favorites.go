package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/platefinder/backend/internal/middleware"
	"github.com/platefinder/backend/internal/service"
)

// FavoritesHandler manages a user's favorite recipes. All routes require
// authentication.
type FavoritesHandler struct {
	favorites   *service.FavoriteService
	authService middleware.TokenValidator
}

func NewFavoritesHandler(favorites *service.FavoriteService, authService middleware.TokenValidator) *FavoritesHandler {
	return &FavoritesHandler{favorites: favorites, authService: authService}
}

func (h *FavoritesHandler) RegisterRoutes(router *gin.RouterGroup) {
	favorites := router.Group("/favorites", middleware.AuthMiddleware(h.authService))
	{
		favorites.GET("", h.ListFavorites)
		favorites.POST("", h.AddFavorite)
		favorites.DELETE("/:id", h.RemoveFavorite)
	}
}

// ListFavorites handles GET /favorites.
func (h *FavoritesHandler) ListFavorites(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	favorites := h.favorites.GetUserFavorites(c.Request.Context(), userID)
	favoriteIDs := make([]int64, 0, len(favorites))
	for _, recipe := range favorites {
		favoriteIDs = append(favoriteIDs, recipe.ID)
	}

	c.JSON(http.StatusOK, gin.H{
		"favorites":         favorites,
		"favoriteRecipeIds": favoriteIDs,
	})
}

type favoriteRequest struct {
	RecipeID int64 `json:"recipeId" binding:"required"`
}

// AddFavorite handles POST /favorites.
func (h *FavoritesHandler) AddFavorite(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req favoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "recipeId is required"})
		return
	}

	if err := h.favorites.AddFavorite(c.Request.Context(), userID, req.RecipeID); err != nil {
		if errors.Is(err, service.ErrRecipeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save favorite"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"recipeId": req.RecipeID})
}

// RemoveFavorite handles DELETE /favorites/:id.
func (h *FavoritesHandler) RemoveFavorite(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	recipeID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	if err := h.favorites.RemoveFavorite(c.Request.Context(), userID, recipeID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove favorite"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipeId": recipeID})
}
