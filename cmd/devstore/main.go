package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/exp/slog"

	"pettrack/internal/app/devstore/account"
	"pettrack/internal/app/devstore/api"
	"pettrack/internal/app/devstore/config"
	"pettrack/internal/app/devstore/tables"
	"pettrack/internal/infrastructure/storage/postgres"
	"pettrack/internal/utils/logger"
)

func main() {
	cfg := config.MustLoad()
	log := logger.NewWithLevel(cfg.Env, cfg.Logger.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeRepo, err := accountRepository(ctx, cfg, log)
	if err != nil {
		log.Error("account storage failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeRepo()

	accounts := account.NewService(repo, account.Options{
		Secret:              cfg.Auth.JWTSecret,
		AccessTTL:           cfg.Auth.AccessTTL,
		RefreshTTL:          cfg.Auth.RefreshTTL,
		BcryptCost:          cfg.Auth.BcryptCost,
		RequireConfirmation: cfg.Auth.RequireConfirmation,
	}, log)

	deps := api.Deps{
		DB:       tables.New(),
		Accounts: accounts,
		AnonKey:  cfg.Auth.AnonKey,
	}
	if cfg.Server.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		deps.Registry = reg
	}

	srv := &http.Server{
		Addr:    cfg.Server.RunAddress,
		Handler: api.New(deps, log),
	}

	go func() {
		log.Info("devstore started", slog.String("address", cfg.Server.RunAddress), slog.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", slog.String("error", err.Error()))
	}
}

// accountRepository выбирает хранилище учетных записей: PostgreSQL при заданном DATABASE_URI, иначе память
func accountRepository(ctx context.Context, cfg *config.Config, log *slog.Logger) (account.Repository, func(), error) {
	if cfg.DB.DatabaseURI == "" {
		return account.NewMemoryRepository(), func() {}, nil
	}

	storage, err := postgres.New(ctx, cfg.DB.DatabaseURI, cfg.DB.Migrations, log)
	if err != nil {
		return nil, nil, err
	}
	return postgres.NewAccountRepository(storage, log), func() { _ = storage.Close() }, nil
}
