package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"evaluno/interview-api/internal/apperrors"
	"evaluno/interview-api/internal/models"
)

// ResultRepository stores generated Q&A sets. Results are append-only, so
// there is no update or delete.
type ResultRepository interface {
	Create(ctx context.Context, result *models.StoredResult) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.StoredResult, error)
	FindByUser(ctx context.Context, userID string, limit int) ([]models.StoredResult, error)
}

type resultRepository struct {
	db *gorm.DB
}

func NewResultRepository(db *gorm.DB) ResultRepository {
	return &resultRepository{db: db}
}

func (r *resultRepository) Create(ctx context.Context, result *models.StoredResult) error {
	if err := r.db.WithContext(ctx).Create(result).Error; err != nil {
		return apperrors.Wrap(apperrors.KindPersistence, "failed to save interview result", err)
	}
	return nil
}

func (r *resultRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.StoredResult, error) {
	var result models.StoredResult
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Wrap(apperrors.KindNotFound, "result not found", err)
		}
		return nil, apperrors.Wrap(apperrors.KindPersistence, "failed to find result", fmt.Errorf("find result %s: %w", id, err))
	}
	return &result, nil
}

func (r *resultRepository) FindByUser(ctx context.Context, userID string, limit int) ([]models.StoredResult, error) {
	var results []models.StoredResult
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error

	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindPersistence, "failed to list results", err)
	}

	return results, nil
}

// ResultScanner walks every stored result in creation order.
type ResultScanner interface {
	Scan(ctx context.Context, batchSize int, fn func(batch []models.StoredResult) error) error
}

func NewResultScanner(db *gorm.DB) ResultScanner {
	return &resultRepository{db: db}
}

func (r *resultRepository) Scan(ctx context.Context, batchSize int, fn func(batch []models.StoredResult) error) error {
	var results []models.StoredResult
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		FindInBatches(&results, batchSize, func(tx *gorm.DB, batch int) error {
			return fn(results)
		}).Error

	if err != nil {
		if _, ok := apperrors.As(err); ok {
			return err
		}
		return apperrors.Wrap(apperrors.KindPersistence, "failed to scan results", err)
	}
	return nil
}
