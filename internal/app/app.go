// Package app wires together all dependencies and runs the server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/PresidentialParadise/The-Big-Cheese/internal/auth"
	"github.com/PresidentialParadise/The-Big-Cheese/internal/config"
	handler "github.com/PresidentialParadise/The-Big-Cheese/internal/handler/http"
	"github.com/PresidentialParadise/The-Big-Cheese/internal/repository/mongo"
	"github.com/PresidentialParadise/The-Big-Cheese/internal/service"
	"github.com/PresidentialParadise/The-Big-Cheese/pkg/health"
	"github.com/PresidentialParadise/The-Big-Cheese/pkg/middleware"
)

// App holds the running server and its dependencies.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	db         *mongo.Client
	httpServer *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	db, err := mongo.Connect(ctx, cfg.MongoURI, cfg.DBName)
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	logger.Info("connected to MongoDB",
		slog.String("database", cfg.DBName),
	)

	// Seed the server-wide settings document. Token verification reads it
	// on every request, so this must happen before the server accepts any.
	if err := db.Meta.EnsureDefault(ctx); err != nil {
		_ = db.Close(context.Background())
		return nil, fmt.Errorf("seed meta document: %w", err)
	}

	authService := auth.NewService(db.Users, db.Meta, auth.NewHasher(), logger)
	guard := auth.NewGuard(authService)
	userService := service.NewUserService(db.Users, logger)
	recipeService := service.NewRecipeService(db.Recipes, db.Users, logger)

	if err := bootstrapFirstUser(ctx, cfg, authService, db, logger); err != nil {
		_ = db.Close(context.Background())
		return nil, fmt.Errorf("bootstrap first user: %w", err)
	}

	healthHandler := health.NewHandler()
	healthHandler.Register("mongodb", func(ctx context.Context) error {
		return db.Ping(ctx)
	})

	router := handler.NewRouter(
		authService,
		guard,
		userService,
		recipeService,
		db.Meta,
		healthHandler,
		logger,
		middleware.CORSConfig{AllowedOrigins: cfg.CORSAllowedOrigins, Environment: cfg.Environment},
	)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:        cfg,
		logger:     logger,
		db:         db,
		httpServer: httpServer,
	}, nil
}

// bootstrapFirstUser registers the initial account when the user collection
// is empty, so a fresh deployment is never locked out. The account is
// promoted to admin immediately after registration.
func bootstrapFirstUser(
	ctx context.Context,
	cfg *config.Config,
	authService *auth.Service,
	db *mongo.Client,
	logger *slog.Logger,
) error {
	existing, err := db.Users.List(ctx)
	if err != nil {
		return fmt.Errorf("probe user collection: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	password := cfg.InitialPassword
	if password == "" {
		password = uuid.NewString()
	}

	if err := authService.Register(ctx, cfg.InitialUser, password); err != nil {
		return err
	}

	user, err := db.Users.FindByUsername(ctx, cfg.InitialUser)
	if err != nil || user == nil {
		return fmt.Errorf("load bootstrap user: %w", err)
	}
	user.Admin = true
	if err := db.Users.Replace(ctx, user.ID, user); err != nil {
		return fmt.Errorf("promote bootstrap user: %w", err)
	}

	// The generated password is only recoverable from this log line.
	logger.Info("created initial admin account",
		slog.String("username", cfg.InitialUser),
		slog.String("password", password),
	)

	return nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown drains in-flight requests, then closes the database connection.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	httpCtx, httpCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	dbCtx, dbCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer dbCancel()
	if err := a.db.Close(dbCtx); err != nil {
		a.logger.Error("mongodb disconnect error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
