package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/platefinder/backend/internal/model"
	"github.com/platefinder/backend/internal/types"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Recipe{},
		&model.UserFavoriteRecipe{},
		&model.UserPreferences{},
	))
	return db
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestUpsertIsIdempotent(t *testing.T) {
	repo := NewRecipeRepository(newTestDB(t))
	ctx := context.Background()

	first, err := repo.Upsert(ctx, &model.Recipe{
		SpoonacularID: 100,
		Title:         "First Draft",
		RawData:       `{"id":100}`,
	})
	require.NoError(t, err)
	require.NotZero(t, first)

	second, err := repo.Upsert(ctx, &model.Recipe{
		SpoonacularID:   100,
		Title:           "Second Draft",
		PricePerServing: floatPtr(3.5),
		RawData:         `{"id":100,"pricePerServing":3.5}`,
	})
	require.NoError(t, err)
	assert.Equal(t, first, second)

	rows, err := repo.FindBySpoonacularIDs(ctx, []int64{100})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Second Draft", rows[100].Title)
	require.NotNil(t, rows[100].PricePerServing)
	assert.Equal(t, 3.5, *rows[100].PricePerServing)
}

func TestFindBySpoonacularIDs(t *testing.T) {
	repo := NewRecipeRepository(newTestDB(t))
	ctx := context.Background()

	_, err := repo.Upsert(ctx, &model.Recipe{SpoonacularID: 1, Title: "One", RawData: "{}"})
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, &model.Recipe{SpoonacularID: 2, Title: "Two", RawData: "{}"})
	require.NoError(t, err)

	rows, err := repo.FindBySpoonacularIDs(ctx, []int64{1, 2, 999})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, "One", rows[1].Title)
	assert.NotContains(t, rows, int64(999))

	empty, err := repo.FindBySpoonacularIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestGetRecipeRecordID(t *testing.T) {
	repo := NewRecipeRepository(newTestDB(t))
	ctx := context.Background()

	created, err := repo.Upsert(ctx, &model.Recipe{SpoonacularID: 55, Title: "Known", RawData: "{}"})
	require.NoError(t, err)

	found, err := repo.GetRecipeRecordID(ctx, 55)
	require.NoError(t, err)
	assert.Equal(t, created, found)

	missing, err := repo.GetRecipeRecordID(ctx, 56)
	require.NoError(t, err)
	assert.Zero(t, missing)
}

func TestCountBySpoonacularIDRange(t *testing.T) {
	repo := NewRecipeRepository(newTestDB(t))
	ctx := context.Background()

	for _, id := range []int64{400000001, 400000002, 500000000} {
		_, err := repo.Upsert(ctx, &model.Recipe{SpoonacularID: id, Title: "Imported", RawData: "{}"})
		require.NoError(t, err)
	}

	count, err := repo.CountBySpoonacularIDRange(ctx, 400000001, 400001000)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	count, err = repo.CountBySpoonacularIDRange(ctx, 1, 100)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSearchFilters(t *testing.T) {
	repo := NewRecipeRepository(newTestDB(t))
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	seed := []*model.Recipe{
		{
			SpoonacularID:   1,
			Title:           "Quick Tomato Soup",
			ReadyInMinutes:  intPtr(20),
			PricePerServing: floatPtr(2.5),
			RawData:         `{"id":1,"diets":["vegan"]}`,
			UpdatedAt:       base.Add(2 * time.Minute),
		},
		{
			SpoonacularID:   2,
			Title:           "Slow Braised Beef",
			ReadyInMinutes:  intPtr(180),
			PricePerServing: floatPtr(9.0),
			RawData:         `{"id":2,"diets":[]}`,
			UpdatedAt:       base.Add(time.Minute),
		},
		{
			SpoonacularID: 3,
			Title:         "Mystery Tomato Bake",
			RawData:       `{"id":3}`,
			UpdatedAt:     base,
		},
	}
	for _, row := range seed {
		_, err := repo.Upsert(ctx, row)
		require.NoError(t, err)
	}

	rows, err := repo.Search(ctx, types.SearchFilters{Query: "TOMATO"}, 10)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	// Most recently updated first.
	assert.Equal(t, int64(1), rows[0].SpoonacularID)
	assert.Equal(t, int64(3), rows[1].SpoonacularID)

	// Rows without a ready time are excluded by a time constraint.
	rows, err = repo.Search(ctx, types.SearchFilters{MaxReadyTime: intPtr(60)}, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(1), rows[0].SpoonacularID)

	rows, err = repo.Search(ctx, types.SearchFilters{MinPrice: floatPtr(5), MaxPrice: floatPtr(10)}, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(2), rows[0].SpoonacularID)

	rows, err = repo.Search(ctx, types.SearchFilters{Diet: "vegan"}, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(1), rows[0].SpoonacularID)

	rows, err = repo.Search(ctx, types.SearchFilters{}, 2)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}
