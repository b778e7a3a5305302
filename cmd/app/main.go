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

	"github.com/osse101/NuggetBot_Go/internal/bootstrap"
	"github.com/osse101/NuggetBot_Go/internal/config"
	"github.com/osse101/NuggetBot_Go/internal/database"
	"github.com/osse101/NuggetBot_Go/internal/event"
	"github.com/osse101/NuggetBot_Go/internal/handler"
	"github.com/osse101/NuggetBot_Go/internal/ledger"
	"github.com/osse101/NuggetBot_Go/internal/ledger/jsonfile"
	"github.com/osse101/NuggetBot_Go/internal/ledger/postgres"
	"github.com/osse101/NuggetBot_Go/internal/server"
	"github.com/osse101/NuggetBot_Go/internal/session"
)

// Database pool sizing
const (
	dbMaxConns    = 10
	dbMaxIdleTime = 5 * time.Minute
	dbMaxLifetime = 30 * time.Minute
)

// shutdownTimeout bounds how long graceful shutdown may take
const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Configuration failed", "error", err)
		os.Exit(1)
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		slog.Error("Logger setup failed", "error", err)
		os.Exit(1)
	}
	defer logFile.Close()

	eventBus, publisher, err := bootstrap.InitializeEventSystem(cfg)
	if err != nil {
		slog.Error("Event system setup failed", "error", err)
		os.Exit(1)
	}
	if err := bootstrap.RegisterEventHandlers(eventBus); err != nil {
		slog.Error("Event handler registration failed", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	ledgerSvc, pinger, err := buildLedger(ctx, cfg, publisher)
	if err != nil {
		slog.Error("Ledger setup failed", "error", err)
		os.Exit(1)
	}

	sessionSvc := session.NewService(ledgerSvc, publisher, session.Config{
		ConfirmTimeout: cfg.ConfirmTimeout,
		PlayTimeout:    cfg.PlayTimeout,
		RetainWindow:   cfg.RetainWindow,
	})

	srv := server.NewServer(server.Options{
		Port:        cfg.Port,
		APIKey:      cfg.APIKey,
		ServiceName: cfg.ServiceName,
		Version:     cfg.Version,
		Pinger:      pinger,
	}, ledgerSvc, sessionSvc)

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for termination signal
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	bootstrap.GracefulShutdown(shutdownCtx, bootstrap.ShutdownComponents{
		Server:             srv,
		SessionService:     sessionSvc,
		LedgerService:      ledgerSvc,
		ResilientPublisher: publisher,
	})
}

// buildLedger constructs the configured ledger backend. The file backend has
// no readiness dependency, so its pinger is nil.
func buildLedger(ctx context.Context, cfg *config.Config, publisher *event.ResilientPublisher) (ledger.Service, handler.Pinger, error) {
	switch cfg.LedgerBackend {
	case config.LedgerBackendPostgres:
		connString := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
			cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)

		if err := database.Migrate(connString); err != nil {
			return nil, nil, err
		}

		pool, err := database.NewPool(connString, dbMaxConns, dbMaxIdleTime, dbMaxLifetime)
		if err != nil {
			return nil, nil, err
		}

		return postgres.NewService(pool, publisher), pool, nil

	default:
		store := jsonfile.NewStore(cfg.DataFile)
		svc, err := ledger.NewService(ctx, store, publisher)
		if err != nil {
			return nil, nil, err
		}
		return svc, nil, nil
	}
}
