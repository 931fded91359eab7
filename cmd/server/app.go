package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/autofleet/garage-api/internal/config"
	"github.com/autofleet/garage-api/internal/platform/postgres"
	"github.com/autofleet/garage-api/internal/service"
	"github.com/autofleet/garage-api/internal/service/auth"
	"github.com/autofleet/garage-api/internal/store"
	"github.com/autofleet/garage-api/internal/task"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore     store.UserStore
	carStore      store.CarStore
	brandStore    store.BrandStore
	carModelStore store.CarModelStore
	colorStore    store.ColorStore
	taskStore     task.TaskStore

	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	carService       service.CarService

	taskRunner *task.TaskRunner
}

// newApplication creates a new application instance with all dependencies
// initialized. The background task runner is started here; callers must
// eventually run cleanup to stop it.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.passwordVerifier = auth.NewBcryptVerifier()

	app.userStore = postgres.NewPostgresUserStore(db, logger, 0)
	carStore := postgres.NewPostgresCarStore(db, logger)
	app.carStore = carStore
	app.brandStore = postgres.NewPostgresBrandStore(db, logger)
	app.carModelStore = postgres.NewPostgresCarModelStore(db, logger)
	app.colorStore = postgres.NewPostgresColorStore(db, logger)
	app.taskStore = postgres.NewPostgresTaskStore(db)

	creationFactory := task.NewCarCreationTaskFactory(carStore, logger)
	updateFactory := task.NewCarUpdateTaskFactory(carStore, logger)

	app.taskRunner, err = setupTaskRunner(app, creationFactory, updateFactory)
	if err != nil {
		return nil, fmt.Errorf("failed to setup task runner: %w", err)
	}

	carRepo := service.NewCarRepositoryAdapter(carStore, db)

	app.carService, err = service.NewCarService(
		carRepo,
		app.taskRunner,
		creationFactory,
		updateFactory,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create car service: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// setupTaskRunner initializes and starts the background task processor.
// The rehydrator lets the runner rebuild executable tasks from rows
// persisted before a restart.
func setupTaskRunner(
	app *application,
	creationFactory *task.CarCreationTaskFactory,
	updateFactory *task.CarUpdateTaskFactory,
) (*task.TaskRunner, error) {
	taskRunner := task.NewTaskRunner(app.taskStore, task.TaskRunnerConfig{
		QueueSize:              app.config.Task.QueueSize,
		WorkerCount:            app.config.Task.WorkerCount,
		StuckTaskAge:           time.Duration(app.config.Task.StuckTaskAgeMinutes) * time.Minute,
		StuckTaskCheckInterval: time.Duration(app.config.Task.StuckTaskCheckMinutes) * time.Minute,
	}, app.logger)

	taskRunner.SetRehydrator(task.NewCarTaskRehydrator(creationFactory, updateFactory))

	if err := taskRunner.Start(); err != nil {
		return nil, fmt.Errorf("failed to start task runner: %w", err)
	}

	return taskRunner, nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.taskRunner != nil {
		app.taskRunner.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
