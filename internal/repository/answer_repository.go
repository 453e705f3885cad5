package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"interviewprep/internal/model"
)

// AnswerRepository defines sample answer persistence operations.
type AnswerRepository interface {
	Create(ctx context.Context, answer *model.Answer) error
	ListByQuestion(ctx context.Context, questionID uuid.UUID) ([]model.Answer, error)
}

type answerRepository struct {
	db *gorm.DB
}

// NewAnswerRepository creates a new answer repository.
func NewAnswerRepository(db *gorm.DB) AnswerRepository {
	return &answerRepository{db: db}
}

func (r *answerRepository) Create(ctx context.Context, answer *model.Answer) error {
	return storeErr("create answer", r.db.WithContext(ctx).Omit("Question").Create(answer).Error)
}

// ListByQuestion returns a question's answers, newest first.
func (r *answerRepository) ListByQuestion(ctx context.Context, questionID uuid.UUID) ([]model.Answer, error) {
	answers := []model.Answer{}
	err := r.db.WithContext(ctx).
		Where("question_id = ?", questionID).
		Order("created_at DESC").
		Find(&answers).Error
	if err != nil {
		return nil, storeErr("list answers", err)
	}
	return answers, nil
}
