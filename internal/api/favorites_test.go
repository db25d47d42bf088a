package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platefinder/backend/internal/types"
)

func TestFavoritesRequireAuth(t *testing.T) {
	env := newAPITestEnv(t)

	assertStatus(t, env.request(t, http.MethodGet, "/api/v1/favorites", "", nil),
		http.StatusUnauthorized)
	assertStatus(t, env.request(t, http.MethodPost, "/api/v1/favorites", "",
		map[string]any{"recipeId": 1}), http.StatusUnauthorized)
	assertStatus(t, env.request(t, http.MethodDelete, "/api/v1/favorites/1", "", nil),
		http.StatusUnauthorized)
	assertStatus(t, env.request(t, http.MethodGet, "/api/v1/favorites", "bogus-token", nil),
		http.StatusUnauthorized)
}

func TestFavoritesLifecycle(t *testing.T) {
	env := newAPITestEnv(t)
	env.seedRecipe(t, types.Recipe{ID: 10, Title: "Soup"})
	env.seedRecipe(t, types.Recipe{ID: 20, Title: "Stew"})
	_, token := env.authorize()

	assertStatus(t, env.request(t, http.MethodPost, "/api/v1/favorites", token,
		map[string]any{"recipeId": 10}), http.StatusCreated)
	assertStatus(t, env.request(t, http.MethodPost, "/api/v1/favorites", token,
		map[string]any{"recipeId": 20}), http.StatusCreated)

	recorder := env.request(t, http.MethodGet, "/api/v1/favorites", token, nil)
	assertStatus(t, recorder, http.StatusOK)
	body := decodeBody(t, recorder)

	favorites := body["favorites"].([]any)
	require.Len(t, favorites, 2)
	// Most recently favorited first, carrying the favorited timestamp.
	first := favorites[0].(map[string]any)
	assert.Equal(t, "Stew", first["title"])
	assert.NotEmpty(t, first["favoritedAt"])
	assert.ElementsMatch(t, []any{float64(10), float64(20)}, body["favoriteRecipeIds"].([]any))

	assertStatus(t, env.request(t, http.MethodDelete, "/api/v1/favorites/10", token, nil),
		http.StatusOK)

	recorder = env.request(t, http.MethodGet, "/api/v1/favorites", token, nil)
	assertStatus(t, recorder, http.StatusOK)
	assert.Len(t, decodeBody(t, recorder)["favorites"].([]any), 1)
}

func TestAddFavoriteUnknownRecipe(t *testing.T) {
	env := newAPITestEnv(t)
	_, token := env.authorize()

	// Not cached and the provider cannot resolve it either.
	assertStatus(t, env.request(t, http.MethodPost, "/api/v1/favorites", token,
		map[string]any{"recipeId": 999}), http.StatusNotFound)
}

func TestAddFavoriteValidation(t *testing.T) {
	env := newAPITestEnv(t)
	_, token := env.authorize()

	assertStatus(t, env.request(t, http.MethodPost, "/api/v1/favorites", token,
		map[string]any{}), http.StatusBadRequest)
	assertStatus(t, env.request(t, http.MethodDelete, "/api/v1/favorites/not-a-number", token, nil),
		http.StatusBadRequest)
}
