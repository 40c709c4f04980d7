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

	"github.com/MOzil-10/banking-api/internal/config"
	"github.com/MOzil-10/banking-api/internal/crypto"
	"github.com/MOzil-10/banking-api/internal/handler"
	"github.com/MOzil-10/banking-api/internal/logging"
	"github.com/MOzil-10/banking-api/internal/middleware"
	"github.com/MOzil-10/banking-api/internal/repository"
	"github.com/MOzil-10/banking-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Init("banking-api", cfg.LogLevel, cfg.AppEnv)

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

	codec, err := crypto.NewAESCodec([]byte(cfg.EncryptionKey))
	if err != nil {
		slog.Error("failed to initialize account number codec", "error", err)
		os.Exit(1)
	}

	accounts := repository.NewAccountRepository(db, codec)
	transactions := repository.NewTransactionRepository(db)
	generator := service.NewAccountNumberGenerator(accounts)
	ledger := service.NewLedgerService(accounts, transactions, generator, db)

	accountHandler := handler.NewAccountHandler(ledger)
	healthHandler := handler.NewHealthHandler(db)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health/live", healthHandler.Liveness)
	mux.HandleFunc("GET /health/ready", healthHandler.Readiness)

	mux.HandleFunc("POST /api/account", accountHandler.Create)
	mux.HandleFunc("GET /api/account", accountHandler.List)
	mux.HandleFunc("GET /api/account/{id}", accountHandler.GetByID)
	mux.HandleFunc("PUT /api/account/{id}/deposit", accountHandler.Deposit)
	mux.HandleFunc("PUT /api/account/{id}/withdraw", accountHandler.Withdraw)
	mux.HandleFunc("GET /api/account/{id}/transactions", accountHandler.Transactions)
	mux.HandleFunc("DELETE /api/account/{id}", accountHandler.Delete)

	chain := middleware.Tracing(middleware.Logging(middleware.Recovery(mux)))

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           chain,
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
