package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/platefinder/backend/internal/model"
	"github.com/platefinder/backend/internal/repository"
	"github.com/platefinder/backend/internal/service"
	"github.com/platefinder/backend/internal/spoonacular"
	"github.com/platefinder/backend/internal/types"
)

type stubValidator struct {
	tokens map[string]*types.TokenClaims
}

func (v *stubValidator) ValidateToken(token string) (*types.TokenClaims, error) {
	if claims, ok := v.tokens[token]; ok {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}

type apiStubProvider struct {
	recipes       map[int64]types.Recipe
	searchResults []*types.Recipe
}

func (p *apiStubProvider) SearchRecipes(_ context.Context, _ spoonacular.SearchParams) ([]*types.Recipe, error) {
	return p.searchResults, nil
}

func (p *apiStubProvider) SearchRecipesByIngredients(_ context.Context, _ spoonacular.IngredientSearchParams) ([]*types.Recipe, error) {
	return p.searchResults, nil
}

func (p *apiStubProvider) GetRecipeInformation(_ context.Context, recipeID int64, _ bool) (*types.Recipe, error) {
	if recipe, ok := p.recipes[recipeID]; ok {
		copied := recipe
		return &copied, nil
	}
	return nil, fmt.Errorf("recipe %d not found", recipeID)
}

func (p *apiStubProvider) GetPriceBreakdown(_ context.Context, _ int64) (*types.PriceBreakdown, error) {
	return nil, nil
}

type apiTestEnv struct {
	router    *gin.Engine
	db        *gorm.DB
	provider  *apiStubProvider
	validator *stubValidator
}

func newAPITestEnv(t *testing.T) *apiTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Recipe{},
		&model.UserFavoriteRecipe{},
		&model.UserPreferences{},
	))

	provider := &apiStubProvider{recipes: make(map[int64]types.Recipe)}
	recipes := service.NewRecipeService(repository.NewRecipeRepository(db), provider)
	favorites := service.NewFavoriteService(repository.NewFavoriteRepository(db), recipes)
	preferences := service.NewPreferencesService(repository.NewPreferencesRepository(db))
	validator := &stubValidator{tokens: make(map[string]*types.TokenClaims)}

	router := gin.New()
	group := router.Group("/api/v1")
	NewDiscoverHandler(recipes, preferences, favorites, validator).RegisterRoutes(group)
	NewRecipeHandler(recipes, favorites, validator).RegisterRoutes(group)
	NewFavoritesHandler(favorites, validator).RegisterRoutes(group)
	NewPreferencesHandler(preferences, validator).RegisterRoutes(group)

	return &apiTestEnv{router: router, db: db, provider: provider, validator: validator}
}

// authorize registers a token for a fresh user and returns both.
func (e *apiTestEnv) authorize() (uuid.UUID, string) {
	userID := uuid.New()
	token := "token-" + userID.String()
	e.validator.tokens[token] = &types.TokenClaims{UserID: userID, Username: "tester"}
	return userID, token
}

func (e *apiTestEnv) seedRecipe(t *testing.T, recipe types.Recipe) {
	t.Helper()
	raw, err := json.Marshal(recipe)
	require.NoError(t, err)
	row := &model.Recipe{
		SpoonacularID:   recipe.ID,
		Title:           recipe.Title,
		PricePerServing: recipe.PricePerServing,
		RawData:         string(raw),
	}
	if recipe.ReadyInMinutes != 0 {
		minutes := recipe.ReadyInMinutes
		row.ReadyInMinutes = &minutes
	}
	_, err = repository.NewRecipeRepository(e.db).Upsert(context.Background(), row)
	require.NoError(t, err)
}

func (e *apiTestEnv) request(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	e.router.ServeHTTP(recorder, req)
	return recorder
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body
}

func assertStatus(t *testing.T, recorder *httptest.ResponseRecorder, expected int) {
	t.Helper()
	require.Equal(t, expected, recorder.Code, recorder.Body.String())
}
