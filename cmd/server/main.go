package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"interviewprep/docs"
	"interviewprep/internal/auth"
	"interviewprep/internal/cache"
	"interviewprep/internal/config"
	"interviewprep/internal/db"
	"interviewprep/internal/handler"
	"interviewprep/internal/logger"
	"interviewprep/internal/repository"
	"interviewprep/internal/router"
	"interviewprep/internal/service"
)

const shutdownTimeout = 10 * time.Second

// @title Interview Prep API
// @version 1.0
// @description Interview question bank with sample answers, practice sampling and per-user attempt history.
// @host localhost:3000
// @BasePath /api/v1
// @schemes http
func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Error("database init", "error", err)
		os.Exit(1)
	}

	if cfg.ResetDB {
		log.Warn("RESET_DB=true detected, dropping all tables")
		if err := db.Reset(gormDB); err != nil {
			log.Error("reset database", "error", err)
			os.Exit(1)
		}
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Error("migrate database", "error", err)
		os.Exit(1)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, "interviewprep:")
	defer cacheClient.Close()
	pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	if err := cacheClient.Ping(pingCtx); err != nil {
		log.Warn("redis unavailable, identity cache disabled until it recovers", "addr", cfg.RedisAddr, "error", err)
	}
	cancel()

	codec, err := auth.NewSessionCodec(cfg.SessionKeys, cfg.SessionMaxAge)
	if err != nil {
		log.Error("session codec", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	questionRepo := repository.NewQuestionRepository(gormDB)
	answerRepo := repository.NewAnswerRepository(gormDB)
	attemptRepo := repository.NewAttemptRepository(gormDB)

	// Initialize services
	identityService := service.NewIdentityService(userRepo, cacheClient)
	authService := service.NewAuthService(userRepo, codec)
	userService := service.NewUserService(userRepo, identityService)
	questionService := service.NewQuestionService(questionRepo, answerRepo)
	practiceService := service.NewPracticeService(questionRepo, answerRepo)
	attemptService := service.NewAttemptService(attemptRepo, questionRepo)

	// Initialize handlers
	cookie := handler.SessionCookie{
		Name:   cfg.SessionCookieName,
		Secure: cfg.SessionSecure,
		MaxAge: codec.MaxAge(),
	}
	e := echo.New()
	router.Register(e, cfg, log, codec, identityService, router.Handlers{
		Auth:      handler.NewAuthHandler(authService, userService, cookie),
		Users:     handler.NewUserHandler(userService, cookie),
		Questions: handler.NewQuestionHandler(questionService),
		Attempts:  handler.NewAttemptHandler(attemptService),
		Practice:  handler.NewPracticeHandler(practiceService),
	})

	swaggerURL := "http://localhost:" + cfg.ServerPort + "/swagger/index.html"
	if cfg.SwaggerHost != "" {
		host := strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "http://"), "https://")
		docs.SwaggerInfo.Host = host
		swaggerURL = "http://" + host + "/swagger/index.html"
		if strings.HasPrefix(cfg.SwaggerHost, "https://") {
			docs.SwaggerInfo.Schemes = []string{"https"}
			swaggerURL = "https://" + host + "/swagger/index.html"
		}
	}
	log.Info("swagger documentation available", "url", swaggerURL)

	go func() {
		addr := ":" + cfg.ServerPort
		log.Info("server starting", "addr", addr, "db_driver", cfg.DBDriver)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server start", "error", err)
			os.Exit(1)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", "error", err)
	}
	log.Info("server stopped")
}
