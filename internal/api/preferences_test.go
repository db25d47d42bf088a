package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/platefinder/backend/internal/types"
)

func TestPreferencesRequireAuth(t *testing.T) {
	env := newAPITestEnv(t)

	assertStatus(t, env.request(t, http.MethodGet, "/api/v1/preferences", "", nil),
		http.StatusUnauthorized)
	assertStatus(t, env.request(t, http.MethodPut, "/api/v1/preferences", "",
		map[string]any{"sort_by": "price"}), http.StatusUnauthorized)
}

func TestGetPreferencesDefaults(t *testing.T) {
	env := newAPITestEnv(t)
	_, token := env.authorize()

	recorder := env.request(t, http.MethodGet, "/api/v1/preferences", token, nil)
	assertStatus(t, recorder, http.StatusOK)

	body := decodeBody(t, recorder)
	defaults := types.DefaultPreferences()
	assert.Equal(t, defaults.SortBy, body["sort_by"])
	assert.Equal(t, defaults.SortOrder, body["sort_order"])
}

func TestSaveAndReloadPreferences(t *testing.T) {
	env := newAPITestEnv(t)
	_, token := env.authorize()

	recorder := env.request(t, http.MethodPut, "/api/v1/preferences", token, map[string]any{
		"sort_by":    "price",
		"sort_order": "desc",
	})
	assertStatus(t, recorder, http.StatusOK)

	recorder = env.request(t, http.MethodGet, "/api/v1/preferences", token, nil)
	assertStatus(t, recorder, http.StatusOK)
	body := decodeBody(t, recorder)
	assert.Equal(t, "price", body["sort_by"])
	assert.Equal(t, "desc", body["sort_order"])
}

func TestSavePreferencesFillsBlanksWithDefaults(t *testing.T) {
	env := newAPITestEnv(t)
	_, token := env.authorize()

	recorder := env.request(t, http.MethodPut, "/api/v1/preferences", token, map[string]any{})
	assertStatus(t, recorder, http.StatusOK)

	body := decodeBody(t, recorder)
	defaults := types.DefaultPreferences()
	assert.Equal(t, defaults.SortBy, body["sort_by"])
	assert.Equal(t, defaults.SortOrder, body["sort_order"])
}

func TestSavePreferencesValidation(t *testing.T) {
	env := newAPITestEnv(t)
	_, token := env.authorize()

	assertStatus(t, env.request(t, http.MethodPut, "/api/v1/preferences", token,
		map[string]any{"sort_by": "alphabetical"}), http.StatusBadRequest)
	assertStatus(t, env.request(t, http.MethodPut, "/api/v1/preferences", token,
		map[string]any{"sort_order": "sideways"}), http.StatusBadRequest)
}
