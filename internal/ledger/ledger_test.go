package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/NuggetBot_Go/internal/domain"
	"github.com/osse101/NuggetBot_Go/internal/event"
)

// memStore is an in-memory Store for tests
type memStore struct {
	mu       sync.Mutex
	balances map[domain.AccountID]int
	saves    int
	loadErr  error
	saveErr  error
}

func (m *memStore) Load(ctx context.Context) (map[domain.AccountID]int, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[domain.AccountID]int, len(m.balances))
	for k, v := range m.balances {
		out[k] = v
	}
	return out, nil
}

func (m *memStore) Save(ctx context.Context, balances map[domain.AccountID]int) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances = balances
	m.saves++
	return nil
}

func newTestService(t *testing.T, seed map[domain.AccountID]int) (Service, *memStore, *event.MemoryBus) {
	t.Helper()
	store := &memStore{balances: seed}
	bus := event.NewMemoryBus()
	svc, err := NewService(context.Background(), store, bus)
	require.NoError(t, err)
	return svc, store, bus
}

func TestNewService_StoreUnavailable(t *testing.T) {
	store := &memStore{loadErr: errors.New("disk gone")}
	_, err := NewService(context.Background(), store, event.NewMemoryBus())
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestGetBalance_UnknownAccountIsZero(t *testing.T) {
	svc, _, _ := newTestService(t, nil)

	balance, err := svc.GetBalance(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Equal(t, 0, balance)
}

func TestSetBalance(t *testing.T) {
	svc, store, _ := newTestService(t, nil)
	ctx := context.Background()

	require.NoError(t, svc.SetBalance(ctx, "alice", 500))

	balance, err := svc.GetBalance(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 500, balance)

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Equal(t, 500, store.balances["alice"])
}

func TestSetBalance_NegativeAllowed(t *testing.T) {
	svc, _, _ := newTestService(t, nil)
	ctx := context.Background()

	require.NoError(t, svc.SetBalance(ctx, "alice", -5))

	balance, err := svc.GetBalance(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, -5, balance)
}

func TestAddBalance(t *testing.T) {
	svc, _, _ := newTestService(t, map[domain.AccountID]int{"alice": 100})
	ctx := context.Background()

	newBalance, err := svc.AddBalance(ctx, "alice", 50)
	require.NoError(t, err)
	assert.Equal(t, 150, newBalance)

	newBalance, err = svc.AddBalance(ctx, "alice", -150)
	require.NoError(t, err)
	assert.Equal(t, 0, newBalance)
}

func TestAddBalance_DebitBelowZero(t *testing.T) {
	svc, _, _ := newTestService(t, map[domain.AccountID]int{"bob": 500})

	newBalance, err := svc.AddBalance(context.Background(), "bob", -600)
	require.NoError(t, err)
	assert.Equal(t, -100, newBalance)

	balance, _ := svc.GetBalance(context.Background(), "bob")
	assert.Equal(t, -100, balance)
}

func TestWithdraw(t *testing.T) {
	svc, _, _ := newTestService(t, map[domain.AccountID]int{"alice": 100})
	ctx := context.Background()

	newBalance, err := svc.Withdraw(ctx, "alice", 40)
	require.NoError(t, err)
	assert.Equal(t, 60, newBalance)

	_, err = svc.Withdraw(ctx, "alice", 61)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	_, err = svc.Withdraw(ctx, "alice", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestWithdraw_ConcurrentDoubleSpend(t *testing.T) {
	svc, _, _ := newTestService(t, map[domain.AccountID]int{"alice": 100})
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Withdraw(ctx, "alice", 100)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one withdrawal may win")

	balance, _ := svc.GetBalance(ctx, "alice")
	assert.Equal(t, 0, balance)
}

func TestTransfer(t *testing.T) {
	svc, _, bus := newTestService(t, map[domain.AccountID]int{"alice": 500})
	ctx := context.Background()

	var published []event.Event
	bus.Subscribe(event.TransferCompleted, func(ctx context.Context, e event.Event) error {
		published = append(published, e)
		return nil
	})

	require.NoError(t, svc.Transfer(ctx, "alice", "bob", 200))

	aliceBalance, _ := svc.GetBalance(ctx, "alice")
	bobBalance, _ := svc.GetBalance(ctx, "bob")
	assert.Equal(t, 300, aliceBalance)
	assert.Equal(t, 200, bobBalance)

	require.Len(t, published, 1)
	payload := published[0].Payload.(domain.TransferCompletedPayloadV1)
	assert.Equal(t, domain.AccountID("alice"), payload.FromID)
	assert.Equal(t, domain.AccountID("bob"), payload.ToID)
	assert.Equal(t, 200, payload.Amount)
}

func TestTransfer_Validation(t *testing.T) {
	svc, _, _ := newTestService(t, map[domain.AccountID]int{"alice": 100})
	ctx := context.Background()

	assert.ErrorIs(t, svc.Transfer(ctx, "alice", "bob", 0), domain.ErrInvalidAmount)
	assert.ErrorIs(t, svc.Transfer(ctx, "alice", "bob", -5), domain.ErrInvalidAmount)
	assert.ErrorIs(t, svc.Transfer(ctx, "alice", "alice", 10), domain.ErrSelfTransfer)
	assert.ErrorIs(t, svc.Transfer(ctx, "alice", "bob", 101), domain.ErrInsufficientFunds)

	// Failed transfers leave both sides untouched.
	aliceBalance, _ := svc.GetBalance(ctx, "alice")
	bobBalance, _ := svc.GetBalance(ctx, "bob")
	assert.Equal(t, 100, aliceBalance)
	assert.Equal(t, 0, bobBalance)
}

func TestTransfer_ConcurrentConservation(t *testing.T) {
	seed := map[domain.AccountID]int{"alice": 1000, "bob": 1000}
	svc, _, _ := newTestService(t, seed)
	ctx := context.Background()

	const rounds = 50
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			_ = svc.Transfer(ctx, "alice", "bob", 1)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			_ = svc.Transfer(ctx, "bob", "alice", 1)
		}
	}()
	wg.Wait()

	aliceBalance, _ := svc.GetBalance(ctx, "alice")
	bobBalance, _ := svc.GetBalance(ctx, "bob")
	assert.Equal(t, 2000, aliceBalance+bobBalance, "transfers conserve total supply")
}

func TestAdminCredit(t *testing.T) {
	svc, _, bus := newTestService(t, map[domain.AccountID]int{"alice": 100})
	ctx := context.Background()

	var published []event.Event
	bus.Subscribe(event.AdminCredited, func(ctx context.Context, e event.Event) error {
		published = append(published, e)
		return nil
	})

	newBalance, err := svc.AdminCredit(ctx, "alice", 50)
	require.NoError(t, err)
	assert.Equal(t, 150, newBalance)

	// An admin debit may push the account into the red.
	newBalance, err = svc.AdminCredit(ctx, "alice", -200)
	require.NoError(t, err)
	assert.Equal(t, -50, newBalance)

	_, err = svc.AdminCredit(ctx, "alice", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	require.Len(t, published, 2)
	payload := published[0].Payload.(domain.AdminCreditedPayloadV1)
	assert.Equal(t, 150, payload.NewBalance)
}

func TestPersistFailureAbortsMutation(t *testing.T) {
	store := &memStore{balances: map[domain.AccountID]int{"alice": 100, "bob": 50}}
	svc, err := NewService(context.Background(), store, event.NewMemoryBus())
	require.NoError(t, err)
	ctx := context.Background()

	store.saveErr = errors.New("disk full")

	_, err = svc.Withdraw(ctx, "alice", 40)
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)

	assert.ErrorIs(t, svc.SetBalance(ctx, "alice", 7), domain.ErrStoreUnavailable)

	_, err = svc.AddBalance(ctx, "alice", 25)
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)

	assert.ErrorIs(t, svc.Transfer(ctx, "alice", "bob", 10), domain.ErrStoreUnavailable)

	// Every failed mutation rolled back; memory matches the durable snapshot.
	aliceBalance, _ := svc.GetBalance(ctx, "alice")
	bobBalance, _ := svc.GetBalance(ctx, "bob")
	assert.Equal(t, 100, aliceBalance)
	assert.Equal(t, 50, bobBalance)
	store.mu.Lock()
	assert.Equal(t, 100, store.balances["alice"])
	store.mu.Unlock()

	// Once the store recovers, mutations go through again.
	store.saveErr = nil
	newBalance, err := svc.Withdraw(ctx, "alice", 40)
	require.NoError(t, err)
	assert.Equal(t, 60, newBalance)
	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Equal(t, 60, store.balances["alice"])
}
