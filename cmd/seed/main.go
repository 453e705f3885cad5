package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"interviewprep/internal/auth"
	"interviewprep/internal/config"
	"interviewprep/internal/db"
	apperrors "interviewprep/internal/errors"
	"interviewprep/internal/logger"
	"interviewprep/internal/model"
	"interviewprep/internal/repository"
	"interviewprep/internal/service"
)

//go:embed questions.json
var defaultQuestions []byte

// SeedQuestion is one entry of the questions file.
type SeedQuestion struct {
	Title   string       `json:"title"`
	Body    string       `json:"body"`
	Tags    []string     `json:"tags"`
	Answers []SeedAnswer `json:"answers"`
}

// SeedAnswer is a sample answer attached to a seed question.
type SeedAnswer struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

const seedPassword = "password"

type seeder struct {
	log         *slog.Logger
	insert      bool
	users       repository.UserRepository
	questions   repository.QuestionRepository
	attempts    repository.AttemptRepository
	userSvc     service.UserService
	questionSvc service.QuestionService
	attemptSvc  service.AttemptService
}

func main() {
	questionsPath := flag.String("questions", "", "JSON file with questions (defaults to the bundled set)")
	userCount := flag.Int("users", 5, "number of demo users to create")
	attemptsPerUser := flag.Int("attempts", 3, "attempts to ensure per demo user")
	insert := flag.Bool("insert", false, "write to the database; without it the seed is a dry run")
	flag.Parse()

	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	log.Info("starting seed", "insert", *insert, "db_driver", cfg.DBDriver)

	questions, err := loadQuestions(*questionsPath)
	if err != nil {
		log.Error("load questions", "error", err)
		os.Exit(1)
	}

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Error("connect to database", "error", err)
		os.Exit(1)
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Error("migrate database", "error", err)
		os.Exit(1)
	}

	userRepo := repository.NewUserRepository(gormDB)
	questionRepo := repository.NewQuestionRepository(gormDB)
	answerRepo := repository.NewAnswerRepository(gormDB)
	attemptRepo := repository.NewAttemptRepository(gormDB)

	s := &seeder{
		log:         log,
		insert:      *insert,
		users:       userRepo,
		questions:   questionRepo,
		attempts:    attemptRepo,
		userSvc:     service.NewUserService(userRepo, service.NewIdentityService(userRepo, nil)),
		questionSvc: service.NewQuestionService(questionRepo, answerRepo),
		attemptSvc:  service.NewAttemptService(attemptRepo, questionRepo),
	}

	ctx := context.Background()
	if err := s.run(ctx, questions, *userCount, *attemptsPerUser); err != nil {
		log.Error("seed failed", "error", err)
		os.Exit(1)
	}
	if !*insert {
		log.Info("dry run finished; pass -insert to write")
		return
	}
	log.Info("seed completed")
}

func loadQuestions(path string) ([]SeedQuestion, error) {
	data := defaultQuestions
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		data = raw
	}
	var questions []SeedQuestion
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("parse questions: %w", err)
	}
	return questions, nil
}

func (s *seeder) run(ctx context.Context, questions []SeedQuestion, userCount, attemptsPerUser int) error {
	created, updated, err := s.seedQuestions(ctx, questions)
	if err != nil {
		return err
	}
	s.log.Info("questions processed", "created", created, "updated", updated)

	if err := s.seedAdmin(ctx, os.Getenv("SEED_ADMIN_EMAIL"), os.Getenv("SEED_ADMIN_PASSWORD")); err != nil {
		return err
	}

	users, err := s.seedUsers(ctx, userCount)
	if err != nil {
		return err
	}
	added, err := s.seedAttempts(ctx, users, attemptsPerUser)
	if err != nil {
		return err
	}
	s.log.Info("attempts processed", "users", len(users), "created", added)
	return nil
}

// seedQuestions upserts questions by title. Answers are only added to new questions.
func (s *seeder) seedQuestions(ctx context.Context, questions []SeedQuestion) (created, updated int, err error) {
	for _, q := range questions {
		existing, err := s.questions.FindByTitle(ctx, q.Title)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return created, updated, fmt.Errorf("look up question %q: %w", q.Title, err)
		}

		if existing != nil {
			if s.insert {
				tags := q.Tags
				body := q.Body
				if _, err := s.questionSvc.Update(ctx, existing.ID, service.QuestionUpdate{Body: &body, Tags: &tags}); err != nil {
					return created, updated, fmt.Errorf("update question %q: %w", q.Title, err)
				}
			}
			s.log.Debug("question exists", "title", q.Title)
			updated++
			continue
		}

		created++
		if !s.insert {
			s.log.Info("would create question", "title", q.Title, "answers", len(q.Answers))
			continue
		}
		question, err := s.questionSvc.Create(ctx, service.QuestionInput{Title: q.Title, Body: q.Body, Tags: q.Tags})
		if err != nil {
			return created, updated, fmt.Errorf("create question %q: %w", q.Title, err)
		}
		for _, a := range q.Answers {
			if _, err := s.questionSvc.CreateAnswer(ctx, question.ID, service.AnswerInput{Type: a.Type, Content: a.Content}); err != nil {
				return created, updated, fmt.Errorf("add answer to %q: %w", q.Title, err)
			}
		}
	}
	return created, updated, nil
}

// ensureUser registers email unless it exists and returns the account.
func (s *seeder) ensureUser(ctx context.Context, name, email, password string) (*model.SafeUser, error) {
	user, err := s.userSvc.Register(ctx, service.CreateUserInput{Name: name, Email: email, Password: password})
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, apperrors.ErrEmailTaken) {
		return nil, fmt.Errorf("register %s: %w", email, err)
	}
	existing, err := s.users.FindCredentials(ctx, service.NormalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", email, err)
	}
	safe := existing.Safe()
	return &safe, nil
}

// seedAdmin bootstraps an admin account when credentials are configured.
func (s *seeder) seedAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	if !s.insert {
		s.log.Info("would ensure admin", "email", email)
		return nil
	}
	admin, err := s.ensureUser(ctx, "Admin", email, password)
	if err != nil {
		return err
	}
	if admin.IsAdmin() {
		return nil
	}
	role := model.RoleAdmin
	if _, err := s.users.Update(ctx, admin.ID, repository.UserChanges{Role: &role}); err != nil {
		return fmt.Errorf("promote %s: %w", email, err)
	}
	s.log.Info("admin ready", "email", email)
	return nil
}

func (s *seeder) seedUsers(ctx context.Context, count int) ([]model.SafeUser, error) {
	users := make([]model.SafeUser, 0, count)
	for i := 1; i <= count; i++ {
		email := fmt.Sprintf("user%d@example.com", i)
		if !s.insert {
			s.log.Info("would ensure user", "email", email)
			continue
		}
		user, err := s.ensureUser(ctx, fmt.Sprintf("User %d", i), email, seedPassword)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, nil
}

// seedAttempts tops each user up to perUser attempts on random questions.
func (s *seeder) seedAttempts(ctx context.Context, users []model.SafeUser, perUser int) (int, error) {
	added := 0
	for _, user := range users {
		have, err := s.attempts.CountByUser(ctx, user.ID)
		if err != nil {
			return added, fmt.Errorf("count attempts for %s: %w", user.Email, err)
		}
		asUser := auth.WithUser(ctx, user)
		for n := int(have); n < perUser; n++ {
			question, err := s.questions.Random(ctx, repository.QuestionFilter{})
			if errors.Is(err, apperrors.ErrNotFound) {
				return added, nil
			}
			if err != nil {
				return added, fmt.Errorf("pick question: %w", err)
			}
			_, err = s.attemptSvc.Create(asUser, service.AttemptInput{
				QuestionID: question.ID.String(),
				Content:    fmt.Sprintf("Practice answer %d for %q.", n+1, question.Title),
			})
			if err != nil {
				return added, fmt.Errorf("create attempt for %s: %w", user.Email, err)
			}
			added++
		}
	}
	return added, nil
}
