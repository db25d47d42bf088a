package model

import (
	"time"

	"github.com/google/uuid"
)

// UserPreferences stores a user's sort preference and the JSON blob of
// priority factors used by relevance scoring.
type UserPreferences struct {
	UserID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	SortBy          string    `gorm:"size:50;not null;default:relevance" json:"sort_by"`
	SortOrder       string    `gorm:"size:10;not null;default:asc" json:"sort_order"`
	PriorityFactors string    `gorm:"type:jsonb" json:"priority_factors"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (UserPreferences) TableName() string {
	return "user_preferences"
}
