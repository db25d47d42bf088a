package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/platefinder/backend/internal/model"
	"github.com/platefinder/backend/internal/types"
)

// PreferencesRepository persists per-user sort preferences.
type PreferencesRepository struct {
	db *gorm.DB
}

func NewPreferencesRepository(db *gorm.DB) *PreferencesRepository {
	return &PreferencesRepository{db: db}
}

// GetPreferences loads a user's stored preferences. Returns nil without
// error when the user has never saved any.
func (r *PreferencesRepository) GetPreferences(ctx context.Context, userID uuid.UUID) (*types.Preferences, error) {
	var row model.UserPreferences
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}

	prefs := types.Preferences{
		SortBy:          row.SortBy,
		SortOrder:       row.SortOrder,
		PriorityFactors: types.DefaultPreferences().PriorityFactors,
	}
	if row.PriorityFactors != "" {
		// A corrupt blob falls back to default factors rather than failing.
		_ = json.Unmarshal([]byte(row.PriorityFactors), &prefs.PriorityFactors)
	}
	return &prefs, nil
}

// SavePreferences upserts a user's preferences, last write wins.
func (r *PreferencesRepository) SavePreferences(ctx context.Context, userID uuid.UUID, prefs types.Preferences) error {
	factors, err := json.Marshal(prefs.PriorityFactors)
	if err != nil {
		return fmt.Errorf("failed to encode priority factors: %w", err)
	}

	row := model.UserPreferences{
		UserID:          userID,
		SortBy:          prefs.SortBy,
		SortOrder:       prefs.SortOrder,
		PriorityFactors: string(factors),
		UpdatedAt:       time.Now(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"sort_by", "sort_order", "priority_factors", "updated_at"}),
		}).
		Create(&row).Error
}
