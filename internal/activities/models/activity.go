// Package models defines the activity record and its domain errors.
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ActivityType enumerates the supported workout types.
type ActivityType string

const (
	TypeRunning  ActivityType = "RUNNING"
	TypeWalking  ActivityType = "WALKING"
	TypeCycling  ActivityType = "CYCLING"
	TypeSwimming ActivityType = "SWIMMING"
	TypeYoga     ActivityType = "YOGA"
	TypeStrength ActivityType = "STRENGTH_TRAINING"
	TypeCardio   ActivityType = "CARDIO"
	TypeOther    ActivityType = "OTHER"
)

// IsValid checks if the type is a known ActivityType.
func (t ActivityType) IsValid() bool {
	switch t {
	case TypeRunning, TypeWalking, TypeCycling, TypeSwimming,
		TypeYoga, TypeStrength, TypeCardio, TypeOther:
		return true
	}
	return false
}

// Metrics holds free-form per-activity measurements (distance, heart rate,
// cadence). Stored as a JSON text column so the schema does not have to
// know every tracker's fields.
type Metrics map[string]any

// Value implements driver.Valuer.
func (m Metrics) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metrics: %w", err)
	}
	return string(data), nil
}

// Scan implements sql.Scanner.
func (m *Metrics) Scan(value any) error {
	if value == nil {
		*m = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported metrics column type %T", value)
	}

	if len(data) == 0 {
		*m = nil
		return nil
	}
	return json.Unmarshal(data, m)
}

// Activity is a recorded workout session. UserID is the external identity
// stamped by the gateway; the activity service never resolves it further.
type Activity struct {
	ID                string       `gorm:"primaryKey;size:36" json:"id"`
	UserID            string       `gorm:"index;not null;size:255" json:"userId"`
	Type              ActivityType `gorm:"size:50;not null" json:"type"`
	DurationMinutes   int          `json:"duration"`
	CaloriesBurned    int          `json:"caloriesBurned"`
	StartTime         time.Time    `json:"startTime"`
	AdditionalMetrics Metrics      `gorm:"type:text" json:"additionalMetrics,omitempty"`
	CreatedAt         time.Time    `json:"createdAt"`
	ModifiedAt        time.Time    `json:"updatedAt"`
}

// TableName returns the table name for Activity.
func (Activity) TableName() string {
	return "activities"
}

// Validate checks if the activity is well formed.
func (a *Activity) Validate() error {
	if a.UserID == "" {
		return fmt.Errorf("user id is required")
	}
	if !a.Type.IsValid() {
		return fmt.Errorf("invalid activity type %q", a.Type)
	}
	if a.DurationMinutes < 0 {
		return fmt.Errorf("duration must not be negative")
	}
	if a.CaloriesBurned < 0 {
		return fmt.Errorf("calories burned must not be negative")
	}
	return nil
}

// AllModels returns the models migrated by the activity service store.
func AllModels() []any {
	return []any{&Activity{}}
}
