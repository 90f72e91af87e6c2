package app

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pillarhq/userd/internal/users/events"
	httpapi "github.com/pillarhq/userd/internal/users/http"
	"github.com/pillarhq/userd/internal/users/service"
	"github.com/pillarhq/userd/internal/users/store"
	"github.com/pillarhq/userd/internal/users/store/drivers/sqlite"
	"github.com/pillarhq/userd/pkg/cryptox"
	"github.com/pillarhq/userd/pkg/jwtx"
	"github.com/pillarhq/userd/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the user service application with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db     store.Store
	tokens *jwtx.HMAC

	// Services
	authService  *service.AuthService
	userService  *service.UserService
	statsService *service.StatsService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "userd",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	// Set pepper path for password hashing and load it now, so an
	// unwritable path fails at startup instead of on the first login
	cryptox.SetPepperPath(app.cfg.PepperFile)
	cryptox.GetPepper()

	if err := app.initTokens(); err != nil {
		return nil, err
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.statsService.Start()

	app.logger.Info("userd starting", "port", app.cfg.Port, "version", BuildVersion)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down userd...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.statsService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("userd stopped")
	return nil
}

// initTokens validates the signing configuration and builds the HMAC
// signer/verifier. Prod deployments must supply SECRET_KEY; dev gets an
// ephemeral one so tokens stop verifying across restarts.
func (app *Application) initTokens() error {
	if !jwtx.SupportedAlgorithm(app.cfg.Algorithm) {
		return fmt.Errorf("unsupported signing algorithm %q", app.cfg.Algorithm)
	}

	secret := app.cfg.SecretKey
	if secret == "" {
		if app.cfg.Env == "prod" {
			return errors.New("SECRET_KEY must be set in prod")
		}

		var b [32]byte
		if _, err := rand.Read(b[:]); err != nil {
			return fmt.Errorf("failed to generate ephemeral secret: %w", err)
		}
		secret = base64.RawURLEncoding.EncodeToString(b[:])
		app.logger.Warn("SECRET_KEY not set, using an ephemeral secret; tokens will not survive restarts")
	}

	tokens, err := jwtx.NewHMAC(app.cfg.Algorithm, []byte(secret), app.cfg.Issuer)
	if err != nil {
		return fmt.Errorf("failed to initialize token signer: %w", err)
	}
	app.tokens = tokens

	return nil
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.authService = &service.AuthService{
		Store:     app.db,
		Signer:    app.tokens,
		Verifier:  app.tokens,
		Issuer:    app.cfg.Issuer,
		AccessTTL: app.cfg.AccessTTL,
	}

	app.userService = &service.UserService{
		Store:  app.db,
		Events: events.NewLogPublisher(app.logger),
	}

	app.statsService = service.NewStatsService(
		app.db,
		app.logger,
		app.cfg.StatsInterval,
	)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.tokens,
		BuildVersion,
		app.db,
		app.logger,
	)

	// Wire services to router
	router.AuthService = app.authService
	router.UserService = app.userService
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
