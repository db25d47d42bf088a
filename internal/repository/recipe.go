package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/platefinder/backend/internal/model"
	"github.com/platefinder/backend/internal/types"
)

// RecipeRepository is the persistent read-through cache of recipe records,
// keyed by the provider's external id.
type RecipeRepository struct {
	db *gorm.DB
}

func NewRecipeRepository(db *gorm.DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

// Upsert inserts or updates a recipe row keyed by its external id and
// returns the internal surrogate key. On conflict every mutable column is
// overwritten (last write wins) and updated_at is touched.
func (r *RecipeRepository) Upsert(ctx context.Context, recipe *model.Recipe) (uint, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "spoonacular_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"title",
				"description",
				"servings",
				"source_url",
				"image_url",
				"ready_in_minutes",
				"price_per_serving",
				"summary",
				"raw_data",
				"updated_at",
			}),
		}).
		Create(recipe).Error
	if err != nil {
		return 0, fmt.Errorf("failed to upsert recipe %d: %w", recipe.SpoonacularID, err)
	}

	// On a conflicting insert gorm does not backfill the surrogate key,
	// so resolve it explicitly.
	if recipe.RecipeID == 0 {
		return r.GetRecipeRecordID(ctx, recipe.SpoonacularID)
	}
	return recipe.RecipeID, nil
}

// FindBySpoonacularIDs batch-loads rows for the given external ids. Missing
// ids are simply absent from the result map; empty input yields an empty map.
func (r *RecipeRepository) FindBySpoonacularIDs(ctx context.Context, ids []int64) (map[int64]model.Recipe, error) {
	result := make(map[int64]model.Recipe, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var rows []model.Recipe
	if err := r.db.WithContext(ctx).
		Where("spoonacular_id IN ?", ids).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load recipes by ids: %w", err)
	}

	for _, row := range rows {
		result[row.SpoonacularID] = row
	}
	return result, nil
}

// GetRecipeRecordID resolves the internal surrogate key for an external id.
// Returns 0 without error when the recipe is not cached.
func (r *RecipeRepository) GetRecipeRecordID(ctx context.Context, spoonacularID int64) (uint, error) {
	var row model.Recipe
	err := r.db.WithContext(ctx).
		Select("recipe_id").
		Where("spoonacular_id = ?", spoonacularID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return row.RecipeID, nil
}

// CountBySpoonacularIDRange counts cached rows whose external id falls in
// [lower, upper]. The importer uses this as its idempotency guard.
func (r *RecipeRepository) CountBySpoonacularIDRange(ctx context.Context, lower, upper int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Recipe{}).
		Where("spoonacular_id BETWEEN ? AND ?", lower, upper).
		Count(&count).Error
	return count, err
}

// Search runs the conjunctive store-side filter over cached rows, most
// recently updated first, truncated to limit. Postgres gets precise JSONB
// predicates; other dialects fall back to LIKE over the raw JSON text, and
// constraints that cannot be expressed there (calorie bounds) are left to
// the in-memory re-check the resolution engine applies anyway.
func (r *RecipeRepository) Search(ctx context.Context, filters types.SearchFilters, limit int) ([]model.Recipe, error) {
	query := r.db.WithContext(ctx).Model(&model.Recipe{})
	isPostgres := r.db.Dialector.Name() == "postgres"

	if filters.Query != "" {
		like := "%" + strings.ToLower(filters.Query) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(summary) LIKE ?", like, like)
	}

	if filters.Diet != "" {
		if isPostgres {
			query = query.Where(`EXISTS (
				SELECT 1
				FROM jsonb_array_elements_text(COALESCE(raw_data->'diets', '[]'::jsonb)) diet
				WHERE LOWER(diet) = ?
			)`, strings.ToLower(filters.Diet))
		} else {
			query = query.Where("LOWER(raw_data) LIKE ?", `%"`+strings.ToLower(filters.Diet)+`"%`)
		}
	}

	if filters.MaxReadyTime != nil {
		query = query.Where("ready_in_minutes IS NOT NULL AND ready_in_minutes <= ?", *filters.MaxReadyTime)
	}

	if filters.MinPrice != nil {
		query = query.Where("price_per_serving IS NOT NULL AND price_per_serving >= ?", *filters.MinPrice)
	}

	if filters.MaxPrice != nil {
		query = query.Where("price_per_serving IS NOT NULL AND price_per_serving <= ?", *filters.MaxPrice)
	}

	if isPostgres {
		if filters.MinCalories != nil {
			query = query.Where(calorieBoundClause(">="), *filters.MinCalories)
		}
		if filters.MaxCalories != nil {
			query = query.Where(calorieBoundClause("<="), *filters.MaxCalories)
		}
	}

	for _, ingredient := range filters.Ingredients {
		like := "%" + strings.ToLower(ingredient) + "%"
		if isPostgres {
			query = query.Where(`EXISTS (
				SELECT 1
				FROM jsonb_array_elements(COALESCE(raw_data->'extendedIngredients', '[]'::jsonb)) ing
				WHERE COALESCE(LOWER(ing->>'name'), '') LIKE ?
					OR COALESCE(LOWER(ing->>'original'), '') LIKE ?
					OR COALESCE(LOWER(ing->>'originalString'), '') LIKE ?
			)`, like, like, like)
		} else {
			query = query.Where("LOWER(raw_data) LIKE ?", like)
		}
	}

	var rows []model.Recipe
	if err := query.Order("updated_at DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to search cached recipes: %w", err)
	}
	return rows, nil
}

func calorieBoundClause(op string) string {
	return `EXISTS (
		SELECT 1
		FROM jsonb_array_elements(COALESCE(raw_data->'nutrition'->'nutrients', '[]'::jsonb)) nutrient
		WHERE nutrient->>'name' = 'Calories'
			AND (nutrient->>'amount')::numeric ` + op + ` ?
	)`
}
