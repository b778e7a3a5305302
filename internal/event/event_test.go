package event

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/NuggetBot_Go/internal/domain"
)

func TestMemoryBus_PublishSubscribe(t *testing.T) {
	bus := NewMemoryBus()

	var received []Event
	bus.Subscribe(TransferCompleted, func(ctx context.Context, e Event) error {
		received = append(received, e)
		return nil
	})

	evt := NewTransferCompletedEvent("alice", "bob", 100)
	require.NoError(t, bus.Publish(context.Background(), evt))

	require.Len(t, received, 1)
	assert.Equal(t, TransferCompleted, received[0].Type)
	payload := received[0].Payload.(domain.TransferCompletedPayloadV1)
	assert.Equal(t, domain.AccountID("alice"), payload.FromID)
	assert.Equal(t, 100, payload.Amount)
}

func TestMemoryBus_NoSubscribers(t *testing.T) {
	bus := NewMemoryBus()
	assert.NoError(t, bus.Publish(context.Background(), NewAdminCreditedEvent("alice", 10, 10)))
}

func TestMemoryBus_HandlerErrorPropagates(t *testing.T) {
	bus := NewMemoryBus()
	bus.Subscribe(SessionResolved, func(ctx context.Context, e Event) error {
		return errors.New("boom")
	})

	err := bus.Publish(context.Background(), NewSessionResolvedEvent(domain.SessionResolvedPayloadV1{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestMemoryBus_MultipleHandlers(t *testing.T) {
	bus := NewMemoryBus()
	calls := 0
	handler := func(ctx context.Context, e Event) error { calls++; return nil }
	bus.Subscribe(SessionTimedOut, handler)
	bus.Subscribe(SessionTimedOut, handler)

	require.NoError(t, bus.Publish(context.Background(), NewSessionTimedOutEvent(domain.SessionTimedOutPayloadV1{})))
	assert.Equal(t, 2, calls)
}
