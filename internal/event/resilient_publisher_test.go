package event

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyBus fails the first n publishes
type flakyBus struct {
	mu       sync.Mutex
	failures int
	calls    int
}

func (b *flakyBus) Publish(ctx context.Context, e Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++
	if b.calls <= b.failures {
		return errors.New("bus down")
	}
	return nil
}

func (b *flakyBus) Subscribe(t Type, h Handler) {}

func TestResilientPublisher_FirstAttemptSucceeds(t *testing.T) {
	inner := &flakyBus{}
	p := NewResilientPublisher(inner, ResilientConfig{MaxRetries: 3, RetryDelay: time.Millisecond})

	require.NoError(t, p.Publish(context.Background(), NewTransferCompletedEvent("a", "b", 1)))
	assert.Equal(t, 1, inner.calls)
}

func TestResilientPublisher_RetriesThenSucceeds(t *testing.T) {
	inner := &flakyBus{failures: 2}
	p := NewResilientPublisher(inner, ResilientConfig{MaxRetries: 3, RetryDelay: time.Millisecond})

	require.NoError(t, p.Publish(context.Background(), NewTransferCompletedEvent("a", "b", 1)))
	p.Wait()

	inner.mu.Lock()
	defer inner.mu.Unlock()
	assert.Equal(t, 3, inner.calls)
}

func TestResilientPublisher_DeadLetterAfterExhaustion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dead.jsonl")
	inner := &flakyBus{failures: 100}
	p := NewResilientPublisher(inner, ResilientConfig{
		MaxRetries:     2,
		RetryDelay:     time.Millisecond,
		DeadLetterPath: path,
	})

	require.NoError(t, p.Publish(context.Background(), NewTransferCompletedEvent("a", "b", 42)))
	p.Wait()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry DeadLetterEntry
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.Equal(t, TransferCompleted, entry.Event.Type)
	assert.Equal(t, 2, entry.Attempts)
	assert.Contains(t, entry.LastError, "bus down")
}
