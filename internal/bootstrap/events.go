package bootstrap

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/osse101/NuggetBot_Go/internal/config"
	"github.com/osse101/NuggetBot_Go/internal/event"
	"github.com/osse101/NuggetBot_Go/internal/metrics"
)

// InitializeEventSystem creates and configures the event bus and resilient
// publisher. The dead-letter directory is created up front so a publish
// failure at runtime never also fails on the filesystem.
func InitializeEventSystem(cfg *config.Config) (event.Bus, *event.ResilientPublisher, error) {
	eventBus := event.NewMemoryBus()

	deadLetterPath := cfg.DeadLetterPath
	if dir := filepath.Dir(deadLetterPath); dir != "." {
		if err := os.MkdirAll(dir, DirPermission); err != nil {
			return nil, nil, fmt.Errorf("%s: %w", LogMsgFailedCreateDeadLetterDir, err)
		}
	}

	resilientPublisher := event.NewResilientPublisher(eventBus, event.ResilientConfig{
		MaxRetries:     EventDefaultMaxRetries,
		RetryDelay:     EventDefaultRetryDelay,
		DeadLetterPath: deadLetterPath,
	})

	slog.Info(LogMsgEventSystemInitialized,
		"max_retries", EventDefaultMaxRetries,
		"retry_delay", EventDefaultRetryDelay,
		"deadletter_path", deadLetterPath)

	return eventBus, resilientPublisher, nil
}

// RegisterEventHandlers subscribes the cross-cutting event consumers
// (currently the Prometheus collector) to the bus.
func RegisterEventHandlers(eventBus event.Bus) error {
	collector := metrics.NewEventMetricsCollector()
	if err := collector.Register(eventBus); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedRegisterMetrics, err)
	}
	slog.Info(LogMsgMetricsCollectorRegistered)
	return nil
}
