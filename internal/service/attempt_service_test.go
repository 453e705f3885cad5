package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "interviewprep/internal/errors"
	"interviewprep/internal/model"
	"interviewprep/internal/repository"
)

func TestAttemptService_ListRequiresIdentity(t *testing.T) {
	svc := NewAttemptService(new(MockAttemptRepository), new(MockQuestionRepository))
	_, err := svc.List(context.Background(), 1, 20)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func TestAttemptService_ListAddsTitles(t *testing.T) {
	member := newMember()
	qid := uuid.New()
	gone := uuid.New()
	stored := []model.Attempt{
		{ID: uuid.New(), UserID: member.ID, QuestionID: &qid, Content: "a"},
		{ID: uuid.New(), UserID: member.ID, QuestionID: &gone, Content: "b"},
		{ID: uuid.New(), UserID: member.ID, Content: "c"},
		{ID: uuid.New(), UserID: member.ID, QuestionID: &qid, Content: "d"},
	}

	attempts := new(MockAttemptRepository)
	questions := new(MockQuestionRepository)
	attempts.On("ListByUser", mock.Anything, member.ID, repository.Page{Number: 1, Size: 50}).Return(stored, int64(4), nil)
	questions.On("Titles", mock.Anything, []uuid.UUID{qid, gone}).Return(map[uuid.UUID]string{qid: "Two Sum"}, nil)

	page, err := NewAttemptService(attempts, questions).List(asUser(member), 0, 1000)
	require.NoError(t, err)
	require.Len(t, page.Items, 4)
	assert.Equal(t, "Two Sum", page.Items[0].QuestionTitle)
	assert.Equal(t, "", page.Items[1].QuestionTitle)
	assert.Equal(t, "", page.Items[2].QuestionTitle)
	assert.Equal(t, "Two Sum", page.Items[3].QuestionTitle)
	assert.Equal(t, 1, page.Page)
	questions.AssertExpectations(t)
}

func TestAttemptService_Create(t *testing.T) {
	member := newMember()
	qid := uuid.New()

	t.Run("owner is the caller", func(t *testing.T) {
		attempts := new(MockAttemptRepository)
		questions := new(MockQuestionRepository)
		questions.On("FindByID", mock.Anything, qid).Return(&model.Question{ID: qid}, nil)
		attempts.On("Create", mock.Anything, mock.MatchedBy(func(a *model.Attempt) bool {
			return a.UserID == member.ID && a.Type == "user" && a.QuestionID != nil && *a.QuestionID == qid
		})).Return(nil)

		got, err := NewAttemptService(attempts, questions).Create(asUser(member), AttemptInput{QuestionID: qid.String(), Content: "my answer"})
		require.NoError(t, err)
		assert.Equal(t, member.ID, got.UserID)
		attempts.AssertExpectations(t)
	})

	t.Run("content required", func(t *testing.T) {
		svc := NewAttemptService(new(MockAttemptRepository), new(MockQuestionRepository))
		_, err := svc.Create(asUser(member), AttemptInput{})
		assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	})

	t.Run("malformed question id", func(t *testing.T) {
		svc := NewAttemptService(new(MockAttemptRepository), new(MockQuestionRepository))
		_, err := svc.Create(asUser(member), AttemptInput{QuestionID: "abc", Content: "x"})
		assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	})

	t.Run("anonymous", func(t *testing.T) {
		svc := NewAttemptService(new(MockAttemptRepository), new(MockQuestionRepository))
		_, err := svc.Create(context.Background(), AttemptInput{Content: "x"})
		assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
	})
}

func TestAttemptService_DeleteOwnership(t *testing.T) {
	owner := newMember()
	stranger := newMember()
	attempt := &model.Attempt{ID: uuid.New(), UserID: owner.ID, Content: "x"}
	missing := uuid.New()

	tests := []struct {
		name    string
		ctx     context.Context
		id      uuid.UUID
		wantErr error
	}{
		{name: "owner", ctx: asUser(owner), id: attempt.ID},
		{name: "admin", ctx: asUser(newAdmin()), id: attempt.ID},
		{name: "stranger", ctx: asUser(stranger), id: attempt.ID, wantErr: apperrors.ErrForbidden},
		{name: "missing before forbidden", ctx: asUser(stranger), id: missing, wantErr: apperrors.ErrNotFound},
		{name: "anonymous", ctx: context.Background(), id: attempt.ID, wantErr: apperrors.ErrUnauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attempts := new(MockAttemptRepository)
			attempts.On("FindByID", mock.Anything, attempt.ID).Return(attempt, nil).Maybe()
			attempts.On("FindByID", mock.Anything, missing).Return(nil, apperrors.ErrNotFound).Maybe()
			if tt.wantErr == nil {
				attempts.On("Delete", mock.Anything, attempt.ID).Return(nil)
			}

			err := NewAttemptService(attempts, new(MockQuestionRepository)).Delete(tt.ctx, tt.id)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				attempts.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
			}
			attempts.AssertExpectations(t)
		})
	}
}

func TestAttemptService_GetEmbedsQuestion(t *testing.T) {
	owner := newMember()
	qid := uuid.New()
	attempt := &model.Attempt{ID: uuid.New(), UserID: owner.ID, QuestionID: &qid, Content: "x"}

	attempts := new(MockAttemptRepository)
	questions := new(MockQuestionRepository)
	attempts.On("FindByID", mock.Anything, attempt.ID).Return(attempt, nil)
	questions.On("FindByID", mock.Anything, qid).Return(&model.Question{ID: qid, Title: "Two Sum", Tags: []string{"arrays"}}, nil)
	svc := NewAttemptService(attempts, questions)

	detail, err := svc.Get(asUser(owner), attempt.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.Question)
	assert.Equal(t, "Two Sum", detail.Question.Title)

	for name, other := range map[string]model.SafeUser{"stranger": newMember(), "admin": newAdmin()} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Get(asUser(other), attempt.ID)
			assert.ErrorIs(t, err, apperrors.ErrNotFound)
			assert.Equal(t, "Attempt not found", apperrors.MapErrorToHTTP(err).Message)
		})
	}
}
