package service

import (
	"context"
	"log"

	"github.com/google/uuid"

	"github.com/platefinder/backend/internal/repository"
	"github.com/platefinder/backend/internal/types"
)

// PreferencesService manages per-user sort preferences. Reads always yield
// a usable preference set; store errors and absent rows both fall back to
// the defaults.
type PreferencesService struct {
	preferences *repository.PreferencesRepository
}

func NewPreferencesService(preferences *repository.PreferencesRepository) *PreferencesService {
	return &PreferencesService{preferences: preferences}
}

// GetUserPreferences loads a user's preferences, filling any blank field
// from the defaults.
func (s *PreferencesService) GetUserPreferences(ctx context.Context, userID uuid.UUID) types.Preferences {
	defaults := types.DefaultPreferences()

	prefs, err := s.preferences.GetPreferences(ctx, userID)
	if err != nil {
		log.Printf("Error getting preferences for user %s: %v", userID, err)
		return defaults
	}
	if prefs == nil {
		return defaults
	}

	if prefs.SortBy == "" {
		prefs.SortBy = defaults.SortBy
	}
	if prefs.SortOrder == "" {
		prefs.SortOrder = defaults.SortOrder
	}
	if prefs.PriorityFactors == (types.PriorityFactors{}) {
		prefs.PriorityFactors = defaults.PriorityFactors
	}
	return *prefs
}

// SaveUserPreferences upserts a user's preferences.
func (s *PreferencesService) SaveUserPreferences(ctx context.Context, userID uuid.UUID, prefs types.Preferences) error {
	return s.preferences.SavePreferences(ctx, userID, prefs)
}
