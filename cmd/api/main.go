package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Dan9191/account-ledger/internal/config"
	"github.com/Dan9191/account-ledger/internal/feeschedule"
	"github.com/Dan9191/account-ledger/internal/handler"
	"github.com/Dan9191/account-ledger/internal/middleware"
	"github.com/Dan9191/account-ledger/internal/reconcile"
	"github.com/Dan9191/account-ledger/internal/repository"
	"github.com/Dan9191/account-ledger/internal/repository/memory"
	"github.com/Dan9191/account-ledger/internal/service"
	"github.com/Dan9191/account-ledger/internal/utils/email"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatalf("Server failed: %v", err)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *logrus.Logger) error {
	// Initialize storage
	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	// Seed payment types
	types, err := feeschedule.NewLoader(logger).Load(ctx, cfg.FeeSchedule)
	if err != nil {
		return err
	}
	if err := feeschedule.Seed(ctx, store, types); err != nil {
		return fmt.Errorf("failed to seed payment types: %w", err)
	}
	logger.Infof("Seeded %d payment types", len(types))

	// Reconciliation
	if cfg.ReconcileSchedule != "" {
		job := reconcile.NewJob(store, email.NewSender(cfg, logger), logger)
		scheduler, err := reconcile.Schedule(ctx, cfg.ReconcileSchedule, job, logger)
		if err != nil {
			return err
		}
		scheduler.Start()
		defer func() { <-scheduler.Stop().Done() }()
		logger.Infof("Reconciliation scheduled: %s", cfg.ReconcileSchedule)
	}

	// Initialize layers
	svc := service.NewService(store, logger)
	h := handler.NewHandler(svc, logger)

	// Setup router
	var protect []mux.MiddlewareFunc
	if cfg.JWTSecret != "" {
		protect = append(protect, middleware.AuthMiddleware(cfg.JWTSecret))
	}
	r := handler.NewRouter(h, protect...)
	r.Use(middleware.RequestLogger(logger))

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Starting server on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return <-errCh
}

func openStore(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (repository.Store, func(), error) {
	if cfg.Storage == config.StorageMemory {
		logger.Warn("Using in-memory storage; ledger state is lost on exit")
		return memory.New(), func() {}, nil
	}

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}

	repo := repository.NewRepository(db)
	if err := repo.Migrate(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	return repo, func() { db.Close() }, nil
}
