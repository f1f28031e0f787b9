package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camounitropico/banco-financiera/internal/config"
	"github.com/camounitropico/banco-financiera/internal/handler"
	"github.com/camounitropico/banco-financiera/internal/logging"
	"github.com/camounitropico/banco-financiera/internal/middleware"
	"github.com/camounitropico/banco-financiera/internal/repository"
	"github.com/camounitropico/banco-financiera/internal/service"
	"github.com/camounitropico/banco-financiera/internal/service/engine"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Init("banco-financiera", cfg.LogLevel, cfg.AppEnv)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	db, err := repository.NewPostgresDB(ctx, cfg.DatabaseURL, repository.PoolConfig{
		MaxOpenConns:     cfg.DBMaxOpenConns,
		MaxIdleConns:     cfg.DBMaxIdleConns,
		ConnMaxLifetimeS: cfg.DBConnMaxLifetimeS,
		ConnMaxIdleTimeS: cfg.DBConnMaxIdleTimeS,
	})
	cancel()
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	accounts := repository.NewAccountRepository(db)
	ledger := repository.NewLedgerRepository(db)
	users := repository.NewUserRepository(db)

	txEngine := engine.NewService(accounts, ledger, db,
		cfg.TxMaxAttempts, time.Duration(cfg.StoreTimeoutMS)*time.Millisecond)
	accountSvc := service.NewAccountService(accounts, users)

	accountHandler := handler.NewAccountHandler(accountSvc)
	txHandler := handler.NewTransactionHandler(txEngine)
	healthHandler := handler.NewHealthHandler(db)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", healthHandler.Check)

	mux.HandleFunc("POST /api/v1/accounts", accountHandler.Create)
	mux.HandleFunc("GET /api/v1/accounts/{id}", accountHandler.Get)
	mux.HandleFunc("GET /api/v1/users/{ownerID}/accounts", accountHandler.ListByOwner)
	mux.HandleFunc("PATCH /api/v1/accounts/{id}/status", accountHandler.UpdateStatus)
	mux.HandleFunc("DELETE /api/v1/accounts/{id}", accountHandler.Delete)

	mux.HandleFunc("POST /api/v1/accounts/{id}/deposits", txHandler.Deposit)
	mux.HandleFunc("POST /api/v1/accounts/{id}/withdrawals", txHandler.Withdraw)
	mux.HandleFunc("POST /api/v1/transfers", txHandler.Transfer)
	mux.HandleFunc("GET /api/v1/transactions/{id}", txHandler.Get)
	mux.HandleFunc("GET /api/v1/accounts/{id}/transactions", txHandler.History)

	root := middleware.Tracing(middleware.Logging(middleware.Recovery(mux)))

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           root,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server started", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
