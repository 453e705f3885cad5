package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"interviewprep/internal/auth"
	apperrors "interviewprep/internal/errors"
	"interviewprep/internal/model"
	"interviewprep/internal/repository"
	"interviewprep/internal/sanitize"
)

const (
	defaultAttemptPageSize = 20
	maxAttemptPageSize     = 50
)

// AttemptInput submits an attempt. QuestionID is optional.
type AttemptInput struct {
	QuestionID string
	Type       string
	Content    string
}

// AttemptPage is one page of the caller's attempt history.
type AttemptPage struct {
	Items []model.AttemptListItem `json:"items"`
	Total int64                   `json:"total"`
	Page  int                     `json:"page"`
}

// AttemptService manages users' submitted attempts.
type AttemptService interface {
	List(ctx context.Context, page, limit int) (*AttemptPage, error)
	Get(ctx context.Context, id uuid.UUID) (*model.AttemptDetail, error)
	Create(ctx context.Context, in AttemptInput) (*model.Attempt, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type attemptService struct {
	attempts  repository.AttemptRepository
	questions repository.QuestionRepository
}

// NewAttemptService creates an AttemptService.
func NewAttemptService(attempts repository.AttemptRepository, questions repository.QuestionRepository) AttemptService {
	return &attemptService{attempts: attempts, questions: questions}
}

// List returns the caller's own attempts, newest first, with question titles.
func (s *attemptService) List(ctx context.Context, page, limit int) (*AttemptPage, error) {
	user, err := auth.RequireAuthenticated(ctx)
	if err != nil {
		return nil, err
	}

	p := pageOf(page, limit, defaultAttemptPageSize, maxAttemptPageSize)
	attempts, total, err := s.attempts.ListByUser(ctx, user.ID, p)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(attempts))
	seen := make(map[uuid.UUID]struct{}, len(attempts))
	for _, a := range attempts {
		if a.QuestionID == nil {
			continue
		}
		if _, dup := seen[*a.QuestionID]; !dup {
			seen[*a.QuestionID] = struct{}{}
			ids = append(ids, *a.QuestionID)
		}
	}
	titles, err := s.questions.Titles(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]model.AttemptListItem, 0, len(attempts))
	for _, a := range attempts {
		item := model.AttemptListItem{Attempt: a}
		if a.QuestionID != nil {
			item.QuestionTitle = titles[*a.QuestionID]
		}
		items = append(items, item)
	}
	return &AttemptPage{Items: items, Total: total, Page: p.Number}, nil
}

// Get returns an attempt with the question it answers. Attempts are visible
// only to their creator; anyone else, admins included, gets not found.
func (s *attemptService) Get(ctx context.Context, id uuid.UUID) (*model.AttemptDetail, error) {
	user, err := auth.RequireAuthenticated(ctx)
	if err != nil {
		return nil, err
	}
	attempt, err := s.attempts.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "Attempt not found")
	}
	if attempt.UserID != user.ID {
		return nil, apperrors.NotFound("Attempt not found")
	}

	detail := &model.AttemptDetail{Attempt: *attempt}
	if attempt.QuestionID != nil {
		question, err := s.questions.FindByID(ctx, *attempt.QuestionID)
		switch {
		case err == nil:
			detail.Question = question.Summary()
		case !errors.Is(err, apperrors.ErrNotFound):
			return nil, err
		}
	}
	return detail, nil
}

// Create stores an attempt owned by the caller.
func (s *attemptService) Create(ctx context.Context, in AttemptInput) (*model.Attempt, error) {
	user, err := auth.RequireAuthenticated(ctx)
	if err != nil {
		return nil, err
	}

	content := sanitize.Content(in.Content)
	if content == "" {
		return nil, apperrors.Validation("content required")
	}
	attemptType := sanitize.Text(in.Type)
	if attemptType == "" {
		attemptType = model.DefaultAttemptType
	}

	attempt := &model.Attempt{UserID: user.ID, Type: attemptType, Content: content}
	if raw := strings.TrimSpace(in.QuestionID); raw != "" {
		qid, err := uuid.Parse(raw)
		if err != nil {
			return nil, apperrors.Validation("Invalid question_id")
		}
		if _, err := s.questions.FindByID(ctx, qid); err != nil {
			return nil, notFoundAs(err, "Question not found")
		}
		attempt.QuestionID = &qid
	}

	if err := s.attempts.Create(ctx, attempt); err != nil {
		return nil, err
	}
	return attempt, nil
}

// Delete removes an attempt; allowed for its owner and admins.
func (s *attemptService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := auth.RequireAuthenticated(ctx); err != nil {
		return err
	}
	attempt, err := s.attempts.FindByID(ctx, id)
	if err != nil {
		return notFoundAs(err, "Attempt not found")
	}
	if _, err := auth.RequireOwnerOrRole(ctx, attempt.UserID, model.RoleAdmin); err != nil {
		return err
	}
	return notFoundAs(s.attempts.Delete(ctx, id), "Attempt not found")
}
