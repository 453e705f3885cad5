package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interviewprep/internal/db"
	"interviewprep/internal/model"
	"interviewprep/internal/repository"
	"interviewprep/internal/service"
)

func newTestSeeder(t *testing.T, insert bool) *seeder {
	t.Helper()
	gormDB, err := db.Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	userRepo := repository.NewUserRepository(gormDB)
	questionRepo := repository.NewQuestionRepository(gormDB)
	answerRepo := repository.NewAnswerRepository(gormDB)
	attemptRepo := repository.NewAttemptRepository(gormDB)
	return &seeder{
		log:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		insert:      insert,
		users:       userRepo,
		questions:   questionRepo,
		attempts:    attemptRepo,
		userSvc:     service.NewUserService(userRepo, service.NewIdentityService(userRepo, nil)),
		questionSvc: service.NewQuestionService(questionRepo, answerRepo),
		attemptSvc:  service.NewAttemptService(attemptRepo, questionRepo),
	}
}

func TestLoadQuestions_Bundled(t *testing.T) {
	questions, err := loadQuestions("")
	require.NoError(t, err)
	require.NotEmpty(t, questions)
	for _, q := range questions {
		assert.NotEmpty(t, q.Title)
		assert.NotEmpty(t, q.Body)
	}
}

func TestSeed_IsIdempotent(t *testing.T) {
	s := newTestSeeder(t, true)
	ctx := context.Background()
	questions, err := loadQuestions("")
	require.NoError(t, err)

	require.NoError(t, s.run(ctx, questions, 2, 3))
	require.NoError(t, s.run(ctx, questions, 2, 3))

	_, total, err := s.questions.List(ctx, repository.QuestionFilter{}, repository.QuestionSort{Field: "title"}, repository.Page{Number: 1, Size: 100})
	require.NoError(t, err)
	assert.EqualValues(t, len(questions), total)

	_, users, err := s.users.List(ctx, repository.UserFilter{}, repository.Page{Number: 1, Size: 100})
	require.NoError(t, err)
	assert.EqualValues(t, 2, users)

	user, err := s.users.FindCredentials(ctx, "user1@example.com")
	require.NoError(t, err)
	attempts, err := s.attempts.CountByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, attempts)
}

func TestSeedAdmin_Promotes(t *testing.T) {
	s := newTestSeeder(t, true)
	ctx := context.Background()

	require.NoError(t, s.seedAdmin(ctx, "Boss@Example.com", "s3cret"))
	require.NoError(t, s.seedAdmin(ctx, "boss@example.com", "s3cret"))

	admin, err := s.users.FindCredentials(ctx, "boss@example.com")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, admin.Role)
}

func TestSeed_DryRunWritesNothing(t *testing.T) {
	s := newTestSeeder(t, false)
	ctx := context.Background()
	questions, err := loadQuestions("")
	require.NoError(t, err)

	require.NoError(t, s.run(ctx, questions, 2, 3))

	_, total, err := s.questions.List(ctx, repository.QuestionFilter{}, repository.QuestionSort{Field: "title"}, repository.Page{Number: 1, Size: 100})
	require.NoError(t, err)
	assert.Zero(t, total)
}
