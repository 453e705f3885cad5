package service

import (
	"context"
	"errors"

	apperrors "interviewprep/internal/errors"
	"interviewprep/internal/model"
	"interviewprep/internal/repository"
)

const otherAnswerType = "other"

// PracticeQuestion is a sampled question with its sample answers.
type PracticeQuestion struct {
	Question      *model.Question           `json:"question"`
	Answers       []model.Answer            `json:"answers"`
	AnswersByType map[string][]model.Answer `json:"answers_by_type"`
}

// PracticeService samples questions for practice sessions.
type PracticeService interface {
	Random(ctx context.Context, query string, tags []string) (*PracticeQuestion, error)
}

type practiceService struct {
	questions repository.QuestionRepository
	answers   repository.AnswerRepository
}

// NewPracticeService creates a PracticeService.
func NewPracticeService(questions repository.QuestionRepository, answers repository.AnswerRepository) PracticeService {
	return &practiceService{questions: questions, answers: answers}
}

// Random picks one question matching the filter, uniformly at random.
func (s *practiceService) Random(ctx context.Context, query string, tags []string) (*PracticeQuestion, error) {
	question, err := s.questions.Random(ctx, repository.QuestionFilter{Query: query, Tags: tags})
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("No question found")
		}
		return nil, err
	}

	answers, err := s.answers.ListByQuestion(ctx, question.ID)
	if err != nil {
		return nil, err
	}

	return &PracticeQuestion{
		Question:      question,
		Answers:       answers,
		AnswersByType: groupByType(answers),
	}, nil
}

func groupByType(answers []model.Answer) map[string][]model.Answer {
	grouped := make(map[string][]model.Answer)
	for _, a := range answers {
		t := a.Type
		if t == "" {
			t = otherAnswerType
		}
		grouped[t] = append(grouped[t], a)
	}
	return grouped
}
