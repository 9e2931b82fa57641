// Package store implements the activity record store on GORM, with the
// same SQLite/PostgreSQL split as the user service store.
package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/swaran21/fitness-AI-backend/internal/activities/models"
)

// Config contains database configuration for the activity store.
type Config struct {
	// Type selects the backend: "sqlite" (default) or "postgres".
	Type string `mapstructure:"type" yaml:"type"`

	// Path is the SQLite database file.
	Path string `mapstructure:"path" yaml:"path"`

	// DSN is the PostgreSQL connection string.
	DSN string `mapstructure:"dsn" yaml:"dsn"`
}

// ApplyDefaults fills in missing configuration with default values.
func (c *Config) ApplyDefaults() {
	if c.Type == "" {
		c.Type = "sqlite"
	}
	if c.Type == "sqlite" && c.Path == "" {
		c.Path = filepath.Join("data", "activityservice.db")
	}
}

// GORMStore implements the activity store using GORM.
type GORMStore struct {
	db *gorm.DB
}

// New creates an activity store and migrates its schema.
func New(config *Config) (*GORMStore, error) {
	if config == nil {
		config = &Config{}
	}
	config.ApplyDefaults()

	var dialector gorm.Dialector
	switch config.Type {
	case "sqlite":
		if config.Path != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(config.Path), 0755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		dsn := config.Path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
		dialector = sqlite.Open(dsn)

	case "postgres":
		if config.DSN == "" {
			return nil, fmt.Errorf("postgres dsn is required")
		}
		dialector = postgres.Open(config.DSN)

	default:
		return nil, fmt.Errorf("unsupported database type: %s", config.Type)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		return nil, fmt.Errorf("failed to run database migration: %w", err)
	}

	return &GORMStore{db: db}, nil
}

// Close closes the underlying database connection.
func (s *GORMStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Create persists a new activity, assigning its id and timestamps.
func (s *GORMStore) Create(ctx context.Context, activity *models.Activity) (*models.Activity, error) {
	if err := activity.Validate(); err != nil {
		return nil, err
	}

	activity.ID = uuid.New().String()
	now := time.Now().UTC()
	activity.CreatedAt = now
	activity.ModifiedAt = now
	if activity.StartTime.IsZero() {
		activity.StartTime = now
	}

	if err := s.db.WithContext(ctx).Create(activity).Error; err != nil {
		return nil, err
	}
	return activity, nil
}

// FindByID returns the activity with the given id.
func (s *GORMStore) FindByID(ctx context.Context, id string) (*models.Activity, error) {
	var activity models.Activity
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&activity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrActivityNotFound
		}
		return nil, err
	}
	return &activity, nil
}

// ListByUser returns the user's activities, most recent first.
func (s *GORMStore) ListByUser(ctx context.Context, userID string) ([]models.Activity, error) {
	var activities []models.Activity
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("start_time DESC").
		Find(&activities).Error; err != nil {
		return nil, err
	}
	return activities, nil
}

// Delete removes the activity with the given id.
func (s *GORMStore) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&models.Activity{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrActivityNotFound
	}
	return nil
}
