package bootstrap

import (
	"context"
	"log/slog"

	"github.com/osse101/NuggetBot_Go/internal/event"
	"github.com/osse101/NuggetBot_Go/internal/ledger"
	"github.com/osse101/NuggetBot_Go/internal/server"
	"github.com/osse101/NuggetBot_Go/internal/session"
)

// ShutdownComponents holds all components that need graceful shutdown.
type ShutdownComponents struct {
	Server             *server.Server
	SessionService     session.Service
	LedgerService      ledger.Service
	ResilientPublisher *event.ResilientPublisher
}

// GracefulShutdown performs graceful shutdown of all application components.
// Order matters:
// 1. HTTP server (stop accepting new requests)
// 2. Session service (stop timers, settle in-flight actions)
// 3. Ledger service (write the final balance snapshot)
// 4. Event publisher (drain pending retries)
//
// Errors during shutdown are logged but do not stop the shutdown sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)

	if components.Server != nil {
		if err := components.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	shutdownService(ctx, ServiceNameSession, components.SessionService)
	shutdownService(ctx, ServiceNameLedger, components.LedgerService)

	if components.ResilientPublisher != nil {
		slog.Info(LogMsgShuttingDownEventPublisher)
		components.ResilientPublisher.Wait()
	}

	slog.Info(LogMsgServerStopped)
}

// shutdownableService is the common shutdown shape of all services.
type shutdownableService interface {
	Shutdown(context.Context) error
}

func shutdownService(ctx context.Context, name string, service shutdownableService) {
	if service == nil {
		return
	}
	if err := service.Shutdown(ctx); err != nil {
		slog.Error(name+LogMsgServiceShutdownFailed, "error", err)
	}
}
