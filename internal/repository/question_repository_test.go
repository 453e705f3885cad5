package repository

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "interviewprep/internal/errors"
	"interviewprep/internal/model"
)

func createQuestion(t *testing.T, repo QuestionRepository, title, body string, tags ...string) *model.Question {
	t.Helper()
	q := &model.Question{Title: title, Body: body, Tags: tags}
	require.NoError(t, repo.Create(ctx, q))
	return q
}

func TestQuestionRepository_CreateDeduplicatesTags(t *testing.T) {
	repo := NewQuestionRepository(newTestDB(t))

	q := createQuestion(t, repo, "Tell me about yourself", "Classic opener", "behavioral", "behavioral", "intro")
	assert.Equal(t, []string{"behavioral", "intro"}, q.Tags)

	found, err := repo.FindByID(ctx, q.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"behavioral", "intro"}, found.Tags)
}

func TestQuestionRepository_ListFilters(t *testing.T) {
	repo := NewQuestionRepository(newTestDB(t))
	createQuestion(t, repo, "Reverse a linked list", "Iteratively", "algorithms")
	createQuestion(t, repo, "Describe a conflict", "With a teammate", "behavioral")
	createQuestion(t, repo, "Design a cache", "LRU eviction", "system-design", "algorithms")

	page := Page{Number: 1, Size: 20}
	byTitle := QuestionSort{Field: "title"}

	items, total, err := repo.List(ctx, QuestionFilter{Tags: []string{"algorithms"}}, byTitle, page)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, items, 2)
	assert.Equal(t, "Design a cache", items[0].Title)
	assert.Equal(t, "Reverse a linked list", items[1].Title)

	items, total, err = repo.List(ctx, QuestionFilter{Query: "teammate"}, byTitle, page)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "Describe a conflict", items[0].Title)

	items, total, err = repo.List(ctx, QuestionFilter{}, QuestionSort{Field: "title", Desc: true}, Page{Number: 2, Size: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, items, 1)
	assert.Equal(t, "Describe a conflict", items[0].Title)
}

func TestQuestionRepository_Random(t *testing.T) {
	repo := NewQuestionRepository(newTestDB(t))

	_, err := repo.Random(ctx, QuestionFilter{})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	createQuestion(t, repo, "Reverse a linked list", "Iteratively", "algorithms")
	want := createQuestion(t, repo, "Describe a conflict", "With a teammate", "behavioral")

	got, err := repo.Random(ctx, QuestionFilter{Tags: []string{"behavioral"}})
	require.NoError(t, err)
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, []string{"behavioral"}, got.Tags)
}

func TestQuestionRepository_UpdateReplacesTags(t *testing.T) {
	repo := NewQuestionRepository(newTestDB(t))
	q := createQuestion(t, repo, "Old", "Body", "a", "b")

	title := "New"
	tags := []string{"c"}
	updated, err := repo.Update(ctx, q.ID, QuestionChanges{Title: &title, Tags: &tags})
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Title)
	assert.Equal(t, "Body", updated.Body)
	assert.Equal(t, []string{"c"}, updated.Tags)
	assert.False(t, updated.UpdatedAt.Before(q.UpdatedAt))

	_, err = repo.Update(ctx, uuid.New(), QuestionChanges{Title: &title})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestQuestionRepository_DeleteCascadesAnswers(t *testing.T) {
	gormDB := newTestDB(t)
	questions := NewQuestionRepository(gormDB)
	answers := NewAnswerRepository(gormDB)

	q := createQuestion(t, questions, "Q", "Body", "tag")
	require.NoError(t, answers.Create(ctx, &model.Answer{QuestionID: q.ID, Type: "expert", Content: "A"}))

	require.NoError(t, questions.Delete(ctx, q.ID))

	_, err := questions.FindByID(ctx, q.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	left, err := answers.ListByQuestion(ctx, q.ID)
	require.NoError(t, err)
	assert.Empty(t, left)

	assert.ErrorIs(t, questions.Delete(ctx, q.ID), apperrors.ErrNotFound)
}

func TestQuestionRepository_Titles(t *testing.T) {
	repo := NewQuestionRepository(newTestDB(t))
	a := createQuestion(t, repo, "First", "Body")
	b := createQuestion(t, repo, "Second", "Body")

	titles, err := repo.Titles(ctx, []uuid.UUID{a.ID, b.ID, uuid.New()})
	require.NoError(t, err)
	assert.Equal(t, map[uuid.UUID]string{a.ID: "First", b.ID: "Second"}, titles)
}
