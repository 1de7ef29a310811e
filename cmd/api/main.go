package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/ictak-go-api/internal/auth"
	"github.com/noah-isme/ictak-go-api/internal/config"
	"github.com/noah-isme/ictak-go-api/internal/database"
	"github.com/noah-isme/ictak-go-api/internal/handler"
	"github.com/noah-isme/ictak-go-api/internal/middleware"
	"github.com/noah-isme/ictak-go-api/internal/repository"
	"github.com/noah-isme/ictak-go-api/internal/repository/mongorepo"
	"github.com/noah-isme/ictak-go-api/internal/router"
	"github.com/noah-isme/ictak-go-api/internal/service"
	cloud "github.com/noah-isme/ictak-go-api/pkg/cloudinary"
)

const schemaRetryInterval = 10 * time.Second

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	level := zerolog.DebugLevel
	if cfg.IsProduction() {
		level = zerolog.InfoLevel
	}
	logger = logger.Level(level).With().Str("app", cfg.AppName).Str("env", cfg.AppEnv).Logger()

	store, err := database.NewManager(database.Options{
		URL:          cfg.DatabaseURL,
		DatabaseName: cfg.DatabaseName,
		Logger:       logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open document store")
	}

	startCtx, cancelStart := context.WithTimeout(context.Background(), 15*time.Second)
	if err := store.Connect(startCtx); err != nil {
		if !cfg.IsProduction() {
			cancelStart()
			logger.Fatal().Err(err).Msg("failed to connect to document store")
		}
		logger.Warn().Err(err).Msg("starting without document store")
		go prepareWhenReachable(store, logger)
	} else if err := prepareSchema(startCtx, store); err != nil {
		cancelStart()
		logger.Fatal().Err(err).Msg("failed to prepare schema")
	}

	var cache *redis.Client
	if cfg.RedisURL != "" {
		cache, err = database.ConnectRedis(startCtx, cfg.RedisURL)
		if err != nil {
			logger.Warn().Err(err).Msg("course cache disabled")
			cache = nil
		}
	}
	cancelStart()

	var storage service.FileStorage
	if cfg.CloudinaryEnabled() {
		uploader, err := cloud.New(cloud.Config{
			CloudName: cfg.CloudinaryCloudName,
			APIKey:    cfg.CloudinaryAPIKey,
			APISecret: cfg.CloudinaryAPISecret,
			Folder:    cfg.CloudinaryUploadFolder,
		}, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to create cloudinary client")
		}
		storage = uploader
	}

	issuer, err := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create token issuer")
	}

	repos := repositories(store)
	validate := validator.New(validator.WithRequiredStructEnabled())
	courses := service.NewCourseReader(repos.Courses, cache, cfg.CacheTTL, logger)
	intake := service.NewFileIntake(storage, cfg.UploadMaxSizeMB, logger)

	authService := service.NewAuthService(
		repos.Accounts,
		repos.Courses,
		auth.NewPasswordHasher(auth.DefaultPasswordCost),
		issuer,
		validate,
		service.CourseDefaults{StartDate: cfg.DefaultCourseStartDate, Mentor: cfg.DefaultCourseMentor},
		logger,
	)
	studentService := service.NewStudentService(courses, repos.Assignments, logger)
	projectService := service.NewProjectService(repos.Projects, logger)
	submissionService := service.NewSubmissionService(repos.Submissions, intake, logger)
	discussionService := service.NewDiscussionService(courses, repos.Discussions, logger)
	seedService := service.NewSeedService(repos.Projects, cfg.SeedEnabled, cfg.SeedToken, logger)

	app := router.NewApp(cfg, logger)
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:       handler.NewAuthHandler(authService, logger),
		StudentHandler:    handler.NewStudentHandler(studentService, logger),
		ProjectHandler:    handler.NewProjectHandler(projectService),
		SubmissionHandler: handler.NewSubmissionHandler(submissionService, logger),
		DiscussionHandler: handler.NewDiscussionHandler(discussionService, logger),
		SeedHandler:       handler.NewSeedHandler(seedService, logger),
		HealthHandler:     handler.NewHealthHandler(cfg, store),
		JWTMiddleware:     middleware.JWTProtected(issuer),
	})

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddress()).Msg("http server listening")
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	waitForShutdown(app, store, cache, logger)
}

func repositories(store *database.Manager) repository.Set {
	if store.Backend() == database.BackendMongo {
		return mongorepo.NewSet(store.Mongo())
	}
	return repository.NewGORMSet(store.GORM())
}

func prepareSchema(ctx context.Context, store *database.Manager) error {
	if store.Backend() == database.BackendMongo {
		return mongorepo.EnsureIndexes(ctx, store.Mongo())
	}
	return repository.AutoMigrate(store.GORM().WithContext(ctx))
}

// prepareWhenReachable keeps probing a store that was down at startup and prepares the
// schema once it answers.
func prepareWhenReachable(store *database.Manager, logger zerolog.Logger) {
	ticker := time.NewTicker(schemaRetryInterval)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), schemaRetryInterval)
		if store.Check(ctx) == database.StateConnected {
			err := prepareSchema(ctx, store)
			cancel()
			if err != nil {
				logger.Error().Err(err).Msg("failed to prepare schema")
				continue
			}
			logger.Info().Msg("schema prepared after late connection")
			return
		}
		cancel()
	}
}

func waitForShutdown(app *fiber.App, store *database.Manager, cache *redis.Client, logger zerolog.Logger) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
	if cache != nil {
		_ = cache.Close()
	}
	if err := store.Close(ctx); err != nil {
		logger.Error().Err(err).Msg("failed to close document store")
	}

	logger.Info().Msg("server stopped")
}
