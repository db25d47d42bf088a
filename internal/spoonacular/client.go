package spoonacular

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/redis/go-redis/v9"

	"github.com/platefinder/backend/internal/types"
)

const (
	defaultBaseURL = "https://api.spoonacular.com"

	// Search responses are cached briefly to absorb repeated queries
	// against the provider's rate limit. Point lookups are not cached
	// here; the recipe store is their cache.
	searchCacheTTL = 10 * time.Minute
)

// Client is the production Provider backed by the Spoonacular HTTP API.
// The redis client is optional; when nil (or unavailable) every call goes
// straight to the API.
type Client struct {
	http  *resty.Client
	redis *redis.Client
}

// NewClient creates a Spoonacular API client. baseURL falls back to the
// public API host when empty.
func NewClient(apiKey, baseURL string, redisClient *redis.Client) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetQueryParam("apiKey", apiKey).
		SetTimeout(15 * time.Second)

	return &Client{
		http:  httpClient,
		redis: redisClient,
	}
}

type searchResponse struct {
	Results []*types.Recipe `json:"results"`
}

// SearchRecipes calls /recipes/complexSearch with full recipe information,
// nutrition and filled ingredients.
func (c *Client) SearchRecipes(ctx context.Context, params SearchParams) ([]*types.Recipe, error) {
	values := url.Values{}
	values.Set("number", strconv.Itoa(params.Number))
	values.Set("addRecipeInformation", "true")
	values.Set("addRecipeNutrition", "true")
	values.Set("fillIngredients", "true")
	if params.Query != "" {
		values.Set("query", params.Query)
	}
	if params.Diet != "" {
		values.Set("diet", params.Diet)
	}
	if len(params.Intolerances) > 0 {
		values.Set("intolerances", strings.Join(params.Intolerances, ","))
	}
	if params.MaxReadyTime != nil {
		values.Set("maxReadyTime", strconv.Itoa(*params.MaxReadyTime))
	}
	if params.MinCalories != nil {
		values.Set("minCalories", strconv.Itoa(*params.MinCalories))
	}
	if params.MaxCalories != nil {
		values.Set("maxCalories", strconv.Itoa(*params.MaxCalories))
	}

	body, err := c.getWithCache(ctx, "/recipes/complexSearch", values)
	if err != nil {
		return nil, err
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}
	return parsed.Results, nil
}

// SearchRecipesByIngredients calls /recipes/findByIngredients.
func (c *Client) SearchRecipesByIngredients(ctx context.Context, params IngredientSearchParams) ([]*types.Recipe, error) {
	values := url.Values{}
	values.Set("ingredients", strings.Join(params.Ingredients, ","))
	values.Set("number", strconv.Itoa(params.Number))
	values.Set("ranking", strconv.Itoa(params.Ranking))
	values.Set("ignorePantry", strconv.FormatBool(params.IgnorePantry))

	body, err := c.getWithCache(ctx, "/recipes/findByIngredients", values)
	if err != nil {
		return nil, err
	}

	var parsed []*types.Recipe
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode ingredient search response: %w", err)
	}
	return parsed, nil
}

// GetRecipeInformation calls /recipes/{id}/information.
func (c *Client) GetRecipeInformation(ctx context.Context, recipeID int64, includeNutrition bool) (*types.Recipe, error) {
	var recipe types.Recipe
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("includeNutrition", strconv.FormatBool(includeNutrition)).
		SetResult(&recipe).
		Get(fmt.Sprintf("/recipes/%d/information", recipeID))
	if err != nil {
		return nil, fmt.Errorf("recipe information request failed for %d: %w", recipeID, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("recipe information request for %d returned %s", recipeID, resp.Status())
	}
	return &recipe, nil
}

// GetPriceBreakdown calls /recipes/{id}/priceBreakdownWidget.json.
func (c *Client) GetPriceBreakdown(ctx context.Context, recipeID int64) (*types.PriceBreakdown, error) {
	var breakdown types.PriceBreakdown
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&breakdown).
		Get(fmt.Sprintf("/recipes/%d/priceBreakdownWidget.json", recipeID))
	if err != nil {
		return nil, fmt.Errorf("price breakdown request failed for %d: %w", recipeID, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("price breakdown request for %d returned %s", recipeID, resp.Status())
	}
	return &breakdown, nil
}

// getWithCache serves a search GET from redis when possible, calling the
// API and caching the raw body otherwise. Cache failures degrade to a
// direct call.
func (c *Client) getWithCache(ctx context.Context, endpoint string, values url.Values) ([]byte, error) {
	cacheKey := "spoonacular:" + endpoint + "?" + values.Encode()

	if c.redis != nil {
		if cached, err := c.redis.Get(ctx, cacheKey).Bytes(); err == nil {
			return cached, nil
		}
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParamsFromValues(values).
		Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", endpoint, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("request to %s returned %s", endpoint, resp.Status())
	}

	body := resp.Body()
	if c.redis != nil {
		if err := c.redis.Set(ctx, cacheKey, body, searchCacheTTL).Err(); err != nil {
			log.Printf("Failed to cache %s response: %v", endpoint, err)
		}
	}
	return body, nil
}
