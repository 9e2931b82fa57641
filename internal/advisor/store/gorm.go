// Package store implements the recommendation store on GORM.
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

	"github.com/swaran21/fitness-AI-backend/internal/advisor/models"
)

// Config contains database configuration for the recommendation store.
type Config struct {
	Type string `mapstructure:"type" yaml:"type"`
	Path string `mapstructure:"path" yaml:"path"`
	DSN  string `mapstructure:"dsn" yaml:"dsn"`
}

// ApplyDefaults fills in missing configuration with default values.
func (c *Config) ApplyDefaults() {
	if c.Type == "" {
		c.Type = "sqlite"
	}
	if c.Type == "sqlite" && c.Path == "" {
		c.Path = filepath.Join("data", "aiservice.db")
	}
}

// GORMStore implements the recommendation store using GORM.
type GORMStore struct {
	db *gorm.DB
}

// New creates a recommendation store and migrates its schema.
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

// Save persists a recommendation, replacing any previous one for the same
// activity. Regeneration for an activity is an upsert, not a duplicate.
func (s *GORMStore) Save(ctx context.Context, rec *models.Recommendation) (*models.Recommendation, error) {
	existing, err := s.FindByActivity(ctx, rec.ActivityID)
	switch {
	case err == nil:
		rec.ID = existing.ID
		rec.CreatedAt = existing.CreatedAt
		if err := s.db.WithContext(ctx).Save(rec).Error; err != nil {
			return nil, err
		}
		return rec, nil
	case errors.Is(err, models.ErrRecommendationNotFound):
		rec.ID = uuid.New().String()
		rec.CreatedAt = time.Now().UTC()
		if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
			return nil, err
		}
		return rec, nil
	default:
		return nil, err
	}
}

// FindByActivity returns the recommendation for the given activity.
func (s *GORMStore) FindByActivity(ctx context.Context, activityID string) (*models.Recommendation, error) {
	var rec models.Recommendation
	if err := s.db.WithContext(ctx).Where("activity_id = ?", activityID).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrRecommendationNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// ListByUser returns the user's recommendations, most recent first.
func (s *GORMStore) ListByUser(ctx context.Context, userID string) ([]models.Recommendation, error) {
	var recs []models.Recommendation
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}
