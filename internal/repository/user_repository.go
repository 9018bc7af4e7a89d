package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/ErikLozanov/job-application-tracker/internal/models"
	"gorm.io/gorm"
)

var (
	// ErrDeleteJobs is returned when removing the user's jobs fails inside the account deletion transaction.
	ErrDeleteJobs = errors.New("user repository: delete jobs failed")
	// ErrDeleteUser is returned when removing the user row fails inside the account deletion transaction.
	ErrDeleteUser = errors.New("user repository: delete user failed")
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Update writes every column of an existing user. A deleted user is
// reported as gorm.ErrRecordNotFound.
func (r *GormUserRepository) Update(ctx context.Context, user *models.User) error {
	result := r.db.WithContext(ctx).
		Model(user).
		Select("*").
		Omit("id", "created_at", "Jobs").
		Updates(user)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteWithJobs deletes a user and all of their jobs atomically.
func (r *GormUserRepository) DeleteWithJobs(ctx context.Context, id uint64) ([]string, error) {
	var resumeKeys []string

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Job{}).
			Where("user_id = ? AND resume_key <> ''", id).
			Pluck("resume_key", &resumeKeys).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrDeleteJobs, err)
		}

		if err := tx.Where("user_id = ?", id).Delete(&models.Job{}).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrDeleteJobs, err)
		}

		result := tx.Delete(&models.User{}, id)
		if result.Error != nil {
			return fmt.Errorf("%w: %v", ErrDeleteUser, result.Error)
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return resumeKeys, nil
}
