package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/edulane/edulane-api/internal/config"
	"github.com/edulane/edulane-api/internal/database"
	"github.com/edulane/edulane-api/internal/handler"
	"github.com/edulane/edulane-api/internal/middleware"
	"github.com/edulane/edulane-api/internal/models"
	"github.com/edulane/edulane-api/internal/repository"
	"github.com/edulane/edulane-api/internal/router"
	"github.com/edulane/edulane-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Student{},
		&models.Course{},
		&models.CourseModule{},
		&models.Enrollment{},
		&models.Assignment{},
		&models.Submission{},
		&models.Quiz{},
		&models.QuizQuestion{},
		&models.QuizAttempt{},
		&models.ScoreEntry{},
		&models.Badge{},
		&models.CourseProgress{},
		&models.Notification{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = nats.Connect(cfg.NATSURL)
		if err != nil {
			logger.Warn().Err(err).Msg("nats unavailable, notifications will not be published")
		} else {
			defer natsConn.Close()
		}
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	scoreRepo := repository.NewScoreRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	quizRepo := repository.NewQuizRepository(db)
	attemptRepo := repository.NewAttemptRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	badgeRepo := repository.NewBadgeRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	notificationService := service.NewNotificationService(notificationRepo, natsConn, "edulane.notifications", logger)
	ledgerService := service.NewLedgerService(scoreRepo, cfg.WeeklyWindow, logger)
	badgeService := service.NewBadgeService(
		courseRepo,
		quizRepo,
		attemptRepo,
		assignmentRepo,
		submissionRepo,
		progressRepo,
		badgeRepo,
		notificationService,
		cfg.BadgeMinEnrolled,
		logger,
	)

	dispatcher := service.NewBadgeDispatcher(badgeService, cfg.BadgeQueueSize, logger)
	dispatcherCtx, stopDispatcher := context.WithCancel(context.Background())
	dispatcher.Start(dispatcherCtx)
	defer func() {
		dispatcher.Close()
		stopDispatcher()
	}()

	quizService := service.NewQuizService(quizRepo, attemptRepo, courseRepo, ledgerService, dispatcher, validate, logger)
	gradingService := service.NewGradingService(submissionRepo, ledgerService, dispatcher, notificationService, validate, logger)
	leaderboardService := service.NewLeaderboardService(scoreRepo, ledgerService, redisClient, cfg.LeaderboardCacheTTL, cfg.WeeklyWindow, cfg.LeaderboardLimit, logger)
	progressService := service.NewProgressService(courseRepo, progressRepo, dispatcher, logger)

	leaderboardHandler := handler.NewLeaderboardHandler(leaderboardService, logger)
	quizHandler := handler.NewQuizHandler(quizService, logger)
	submissionHandler := handler.NewSubmissionHandler(gradingService, logger)
	progressHandler := handler.NewProgressHandler(progressService, logger)
	badgeHandler := handler.NewBadgeHandler(badgeService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		LeaderboardHandler: leaderboardHandler,
		QuizHandler:        quizHandler,
		SubmissionHandler:  submissionHandler,
		ProgressHandler:    progressHandler,
		BadgeHandler:       badgeHandler,
		JWTMiddleware:      middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
