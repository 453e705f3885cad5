package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	apperrors "interviewprep/internal/errors"
	"interviewprep/internal/model"
	"interviewprep/internal/repository"
	"interviewprep/internal/sanitize"
)

const (
	defaultQuestionPageSize = 20
	maxQuestionPageSize     = 100
	defaultQuestionSort     = "updated_at:desc"
)

var sortableQuestionFields = map[string]string{
	"created_at": "created_at",
	"createdAt":  "created_at",
	"updated_at": "updated_at",
	"updatedAt":  "updated_at",
	"title":      "title",
}

// ListQuestionsInput holds search, filter and paging parameters.
type ListQuestionsInput struct {
	Query string
	Tags  []string
	Page  int
	Limit int
	Sort  string
}

// QuestionPage is one page of a question listing.
type QuestionPage struct {
	Items    []model.Question `json:"items"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

// QuestionInput creates a question.
type QuestionInput struct {
	Title string
	Body  string
	Tags  []string
}

// QuestionUpdate is a partial question update.
type QuestionUpdate struct {
	Title *string
	Body  *string
	Tags  *[]string
}

// AnswerInput creates a sample answer.
type AnswerInput struct {
	Type    string
	Content string
}

// QuestionService manages the question catalog and its sample answers.
type QuestionService interface {
	List(ctx context.Context, in ListQuestionsInput) (*QuestionPage, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Question, error)
	Create(ctx context.Context, in QuestionInput) (*model.Question, error)
	Update(ctx context.Context, id uuid.UUID, in QuestionUpdate) (*model.Question, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListAnswers(ctx context.Context, questionID uuid.UUID) ([]model.Answer, error)
	CreateAnswer(ctx context.Context, questionID uuid.UUID, in AnswerInput) (*model.Answer, error)
}

type questionService struct {
	questions repository.QuestionRepository
	answers   repository.AnswerRepository
}

// NewQuestionService creates a QuestionService.
func NewQuestionService(questions repository.QuestionRepository, answers repository.AnswerRepository) QuestionService {
	return &questionService{questions: questions, answers: answers}
}

// parseSort reads "field:dir"; dir defaults to desc.
func parseSort(raw string) (repository.QuestionSort, error) {
	if strings.TrimSpace(raw) == "" {
		raw = defaultQuestionSort
	}
	field, dir, _ := strings.Cut(raw, ":")
	column, ok := sortableQuestionFields[strings.TrimSpace(field)]
	if !ok {
		return repository.QuestionSort{}, apperrors.Validation("Invalid sort field")
	}
	switch strings.ToLower(strings.TrimSpace(dir)) {
	case "", "desc":
		return repository.QuestionSort{Field: column, Desc: true}, nil
	case "asc":
		return repository.QuestionSort{Field: column}, nil
	default:
		return repository.QuestionSort{}, apperrors.Validation("Invalid sort order")
	}
}

func (s *questionService) List(ctx context.Context, in ListQuestionsInput) (*QuestionPage, error) {
	sort, err := parseSort(in.Sort)
	if err != nil {
		return nil, err
	}
	p := pageOf(in.Page, in.Limit, defaultQuestionPageSize, maxQuestionPageSize)

	items, total, err := s.questions.List(ctx, repository.QuestionFilter{Query: in.Query, Tags: in.Tags}, sort, p)
	if err != nil {
		return nil, err
	}
	return &QuestionPage{Items: items, Total: total, Page: p.Number, PageSize: p.Size}, nil
}

func (s *questionService) Get(ctx context.Context, id uuid.UUID) (*model.Question, error) {
	question, err := s.questions.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "Question not found")
	}
	return question, nil
}

func (s *questionService) Create(ctx context.Context, in QuestionInput) (*model.Question, error) {
	title := sanitize.Text(in.Title)
	body := sanitize.Content(in.Body)
	if title == "" || body == "" {
		return nil, apperrors.Validation("title/body required")
	}

	question := &model.Question{Title: title, Body: body, Tags: sanitize.Tags(in.Tags)}
	if err := s.questions.Create(ctx, question); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "question created", "question_id", question.ID)
	return question, nil
}

func (s *questionService) Update(ctx context.Context, id uuid.UUID, in QuestionUpdate) (*model.Question, error) {
	var changes repository.QuestionChanges
	if in.Title != nil {
		title := sanitize.Text(*in.Title)
		if title == "" {
			return nil, apperrors.Validation("title must not be empty")
		}
		changes.Title = &title
	}
	if in.Body != nil {
		body := sanitize.Content(*in.Body)
		if body == "" {
			return nil, apperrors.Validation("body must not be empty")
		}
		changes.Body = &body
	}
	if in.Tags != nil {
		tags := sanitize.Tags(*in.Tags)
		changes.Tags = &tags
	}
	if changes.Empty() {
		return nil, apperrors.Validation("No updatable fields provided")
	}

	question, err := s.questions.Update(ctx, id, changes)
	if err != nil {
		return nil, notFoundAs(err, "Question not found")
	}
	return question, nil
}

func (s *questionService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.questions.Delete(ctx, id); err != nil {
		return notFoundAs(err, "Question not found")
	}
	slog.InfoContext(ctx, "question deleted", "question_id", id)
	return nil
}

func (s *questionService) ListAnswers(ctx context.Context, questionID uuid.UUID) ([]model.Answer, error) {
	if _, err := s.questions.FindByID(ctx, questionID); err != nil {
		return nil, notFoundAs(err, "Question not found")
	}
	return s.answers.ListByQuestion(ctx, questionID)
}

func (s *questionService) CreateAnswer(ctx context.Context, questionID uuid.UUID, in AnswerInput) (*model.Answer, error) {
	content := sanitize.Content(in.Content)
	if content == "" {
		return nil, apperrors.Validation("content required")
	}
	answerType := sanitize.Text(in.Type)
	if answerType == "" {
		answerType = model.DefaultAnswerType
	}

	if _, err := s.questions.FindByID(ctx, questionID); err != nil {
		return nil, notFoundAs(err, "Question not found")
	}

	answer := &model.Answer{QuestionID: questionID, Type: answerType, Content: content}
	if err := s.answers.Create(ctx, answer); err != nil {
		return nil, err
	}
	return answer, nil
}
