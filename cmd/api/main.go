package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pasarkita/marketplace-api/internal/config"
	"github.com/pasarkita/marketplace-api/internal/domain"
	"github.com/pasarkita/marketplace-api/internal/handler"
	"github.com/pasarkita/marketplace-api/internal/logging"
	"github.com/pasarkita/marketplace-api/internal/middleware"
	"github.com/pasarkita/marketplace-api/internal/repository"
	"github.com/pasarkita/marketplace-api/internal/service"
	"github.com/pasarkita/marketplace-api/internal/service/finance"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.Init("marketplace-api", cfg.LogLevel, cfg.AppEnv)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	db, err := repository.NewPostgresDB(ctx, cfg.DatabaseURL, repository.PoolConfig{
		MaxOpenConns:     cfg.DBMaxOpenConns,
		MaxIdleConns:     cfg.DBMaxIdleConns,
		ConnMaxLifetimeS: cfg.DBConnMaxLifetimeS,
		ConnMaxIdleTimeS: cfg.DBConnMaxIdleTimeS,
	})
	cancel()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := repository.Migrate(db); err != nil {
		return err
	}

	users := repository.NewUserRepository(db)
	merchants := repository.NewMerchantAccountRepository(db)
	finances := repository.NewFinanceRepository(db)
	orders := repository.NewOrderRepository(db)
	notifications := repository.NewNotificationRepository(db)

	financeSvc, err := finance.NewService(users, merchants, finances, orders, notifications, db, cfg)
	if err != nil {
		return err
	}

	dispatcher := service.NewNotificationDispatcher(
		notifications,
		&service.LogSender{Logger: logger},
		logger,
		time.Duration(cfg.NotifyPollIntervalS)*time.Second,
		cfg.NotifyBatchSize,
	)

	dispatcherCtx, stopDispatcher := context.WithCancel(context.Background())
	defer stopDispatcher()
	go dispatcher.Start(dispatcherCtx)

	authHandler := handler.NewAuthHandler(users, cfg.JWTSecret, time.Duration(cfg.JWTExpiryH)*time.Hour)
	financeHandler := handler.NewFinanceHandler(financeSvc)

	r := chi.NewRouter()
	r.Use(middleware.Tracing)
	r.Use(middleware.Logging)
	r.Use(middleware.Recovery)

	r.Get("/health", handleHealth)
	r.Post("/auth/login", authHandler.Login)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTSecret))
		r.Use(middleware.RequireRole(domain.RoleMerchant))

		r.Get("/finances", financeHandler.List)
		r.Get("/finance/withdraw-request-resource", financeHandler.WithdrawResource)
		r.Post("/finance/withdraw-request", financeHandler.CreateWithdraw)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTSecret))
		r.Use(middleware.RequireRole(domain.RoleAdmin))

		r.Patch("/finance/withdraw-request/{id}", financeHandler.FinalizeWithdraw)
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server started", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	slog.Info("shutting down server")
	stopDispatcher()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	slog.Info("server stopped")
	return nil
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{"status": "ok"}); err != nil {
		slog.Error("failed to write health response", "error", err)
	}
}
