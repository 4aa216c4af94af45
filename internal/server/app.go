// Package server initializes and runs the authentication server: it opens
// the database, applies migrations, wires the credential store, token signer
// and authentication service together, and serves the HTTP API until
// interrupted.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"authd/internal/logging"
	"authd/internal/server/auth"
	"authd/internal/server/config"
	"authd/internal/server/httpapi"
	"authd/internal/server/identity"
	"authd/internal/server/shared/db"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	authService *identity.Service
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	l := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(l)

	pool, err := db.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	store := identity.NewPostgresStore(pool)
	signer := auth.NewSigner([]byte(cfg.SecretKey), cfg.TokenValidityDuration)
	svc := identity.NewService(store, signer, logger)

	return &App{config: cfg, logger: logger, db: pool, authService: svc}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	handler := httpapi.NewHandler(app.authService, app.logger)
	s := httpapi.NewServer(app.config.EndpointAddrHTTP, app.logger, handler)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
}
