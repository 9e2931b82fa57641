package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/swaran21/fitness-AI-backend/internal/users/models"
)

// UserStore is the record store contract consumed by the reconciliation
// engine and the provisioning coordinator. All operations are atomic at the
// storage layer.
type UserStore interface {
	FindByExternalID(ctx context.Context, externalID string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	Upsert(ctx context.Context, user *models.User) (*models.User, error)
	ExistsByExternalID(ctx context.Context, externalID string) (bool, error)
}

var _ UserStore = (*GORMStore)(nil)

// FindByExternalID returns the record linked to the given external id.
// Returns models.ErrUserNotFound when no record is linked.
func (s *GORMStore) FindByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	return s.findByField(ctx, "external_id", externalID)
}

// FindByEmail returns the record owning the given email address.
func (s *GORMStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findByField(ctx, "email", email)
}

// FindByID returns the record with the given internal id.
func (s *GORMStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	return s.findByField(ctx, "id", id)
}

func (s *GORMStore) findByField(ctx context.Context, field string, value any) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where(field+" = ?", value).First(&user).Error; err != nil {
		return nil, convertNotFoundError(err, models.ErrUserNotFound)
	}
	return &user, nil
}

// Upsert persists the record: insert when no internal id is assigned yet,
// full update otherwise. On insert it assigns a UUID and stamps CreatedAt
// and ModifiedAt. A concurrent writer claiming the same external id or
// email surfaces as *models.DuplicateError naming the contested field.
//
// Timestamps on update are the caller's responsibility: the engine stamps
// ModifiedAt only when a field actually changed, and Upsert must not
// second-guess that.
func (s *GORMStore) Upsert(ctx context.Context, user *models.User) (*models.User, error) {
	if err := user.Validate(); err != nil {
		return nil, err
	}

	if user.ID == "" {
		user.ID = uuid.New().String()
		now := time.Now().UTC()
		user.CreatedAt = now
		user.ModifiedAt = now

		if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
			if dup := duplicateFieldError(err); dup != nil {
				return nil, dup
			}
			return nil, err
		}
		return user, nil
	}

	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		if dup := duplicateFieldError(err); dup != nil {
			return nil, dup
		}
		return nil, err
	}
	return user, nil
}

// ExistsByExternalID reports whether a record is linked to the external id.
// Kept for the legacy existence-check endpoint.
func (s *GORMStore) ExistsByExternalID(ctx context.Context, externalID string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("external_id = ?", externalID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
