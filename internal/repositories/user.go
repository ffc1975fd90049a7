package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"evaluno/interview-api/internal/apperrors"
	"evaluno/interview-api/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create relies on the unique index on email. The database must be opened
// with TranslateError so the violation surfaces as gorm.ErrDuplicatedKey.
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.Wrap(apperrors.KindDuplicateEmail, "email already registered", err)
		}
		return apperrors.Wrap(apperrors.KindPersistence, "failed to create user", err)
	}
	return nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Wrap(apperrors.KindNotFound, "user not found", err)
		}
		return nil, apperrors.Wrap(apperrors.KindPersistence, "failed to find user", err)
	}
	return &user, nil
}
