// Package models defines the recommendation record for the AI service.
package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrRecommendationNotFound is returned when no recommendation matches the
// lookup.
var ErrRecommendationNotFound = errors.New("recommendation not found")

// StringList is a JSON-encoded list column.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal string list: %w", err)
	}
	return string(data), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(value any) error {
	if value == nil {
		*l = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported list column type %T", value)
	}

	if len(data) == 0 {
		*l = nil
		return nil
	}
	return json.Unmarshal(data, l)
}

// Recommendation is the generated advice for a single activity.
type Recommendation struct {
	ID           string     `gorm:"primaryKey;size:36" json:"id"`
	ActivityID   string     `gorm:"uniqueIndex;not null;size:36" json:"activityId"`
	UserID       string     `gorm:"index;not null;size:255" json:"userId"`
	ActivityType string     `gorm:"size:50" json:"activityType"`
	Summary      string     `gorm:"type:text" json:"recommendation"`
	Improvements StringList `gorm:"type:text" json:"improvements,omitempty"`
	Suggestions  StringList `gorm:"type:text" json:"suggestions,omitempty"`
	Safety       StringList `gorm:"type:text" json:"safety,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// TableName returns the table name for Recommendation.
func (Recommendation) TableName() string {
	return "recommendations"
}

// AllModels returns the models migrated by the AI service store.
func AllModels() []any {
	return []any{&Recommendation{}}
}
