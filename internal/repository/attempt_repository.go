package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"interviewprep/internal/model"
)

// AttemptRepository defines attempt persistence operations. There is no update.
type AttemptRepository interface {
	Create(ctx context.Context, attempt *model.Attempt) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Attempt, error)
	ListByUser(ctx context.Context, userID uuid.UUID, page Page) ([]model.Attempt, int64, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type attemptRepository struct {
	db *gorm.DB
}

// NewAttemptRepository creates a new attempt repository.
func NewAttemptRepository(db *gorm.DB) AttemptRepository {
	return &attemptRepository{db: db}
}

func (r *attemptRepository) Create(ctx context.Context, attempt *model.Attempt) error {
	return storeErr("create attempt", r.db.WithContext(ctx).Omit("User").Create(attempt).Error)
}

func (r *attemptRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Attempt, error) {
	var attempt model.Attempt
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&attempt).Error; err != nil {
		return nil, storeErr("find attempt", err)
	}
	return &attempt, nil
}

// ListByUser returns one page of a user's attempts, newest first, and their total.
func (r *attemptRepository) ListByUser(ctx context.Context, userID uuid.UUID, page Page) ([]model.Attempt, int64, error) {
	total, err := r.CountByUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	attempts := []model.Attempt{}
	err = r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id").
		Offset(page.Offset()).Limit(page.Size).
		Find(&attempts).Error
	if err != nil {
		return nil, 0, storeErr("list attempts", err)
	}
	return attempts, total, nil
}

func (r *attemptRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Attempt{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return 0, storeErr("count attempts", err)
	}
	return total, nil
}

func (r *attemptRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Attempt{})
	if res.Error != nil {
		return storeErr("delete attempt", res.Error)
	}
	if res.RowsAffected == 0 {
		return storeErr("delete attempt", gorm.ErrRecordNotFound)
	}
	return nil
}
