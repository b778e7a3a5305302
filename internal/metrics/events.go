package metrics

import (
	"context"

	"github.com/osse101/NuggetBot_Go/internal/domain"
	"github.com/osse101/NuggetBot_Go/internal/event"
	"github.com/osse101/NuggetBot_Go/internal/logger"
)

// EventMetricsCollector subscribes to events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all events
func (e *EventMetricsCollector) Register(bus event.Bus) error {
	eventTypes := []event.Type{
		event.TransferCompleted,
		event.AdminCredited,
		event.SessionResolved,
		event.SessionTimedOut,
	}

	for _, eventType := range eventTypes {
		bus.Subscribe(eventType, e.HandleEvent)
	}

	return nil
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	switch payload := evt.Payload.(type) {
	case domain.TransferCompletedPayloadV1:
		TransfersTotal.Inc()
		NuggetsTransferred.Add(float64(payload.Amount))

	case domain.AdminCreditedPayloadV1:
		if payload.Amount > 0 {
			NuggetsGranted.Add(float64(payload.Amount))
		}

	case domain.SessionResolvedPayloadV1:
		WagersResolved.WithLabelValues(string(payload.Game), string(payload.Outcome)).Inc()
		NuggetsPaidOut.WithLabelValues(string(payload.Game)).Add(float64(payload.Payout))

	case domain.SessionTimedOutPayloadV1:
		SessionTimeouts.WithLabelValues(string(payload.Game), string(payload.State)).Inc()
		NuggetsForfeited.Add(float64(payload.Forfeited))
	}

	log.Debug("Metrics recorded for event", "type", evt.Type)
	return nil
}
