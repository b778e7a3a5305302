package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/NuggetBot_Go/internal/domain"
	"github.com/osse101/NuggetBot_Go/internal/event"
	"github.com/osse101/NuggetBot_Go/internal/game"
	"github.com/osse101/NuggetBot_Go/internal/ledger"
)

// memStore is an in-memory ledger.Store for tests. saveErr, when set, makes
// every snapshot write fail.
type memStore struct {
	mu       sync.Mutex
	balances map[domain.AccountID]int
	saveErr  error
}

func (m *memStore) Load(ctx context.Context) (map[domain.AccountID]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[domain.AccountID]int, len(m.balances))
	for k, v := range m.balances {
		out[k] = v
	}
	return out, nil
}

func (m *memStore) Save(ctx context.Context, balances map[domain.AccountID]int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.balances = balances
	return nil
}

func (m *memStore) setSaveErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveErr = err
}

// rngSeq returns an rng that replays the given values in order
func rngSeq(vals ...int) func(int) int {
	i := 0
	return func(n int) int {
		v := vals[i%len(vals)]
		i++
		return v % n
	}
}

// identityRNG leaves shuffles as no-ops, so a fresh deck deals from the
// top of the ordered shoe: K, Q, J, 10, 9, ...
func identityRNG(n int) int { return n - 1 }

func testConfig() Config {
	return Config{
		ConfirmTimeout:   time.Minute,
		PlayTimeout:      time.Minute,
		RetainWindow:     time.Minute,
		CreditRetryDelay: 20 * time.Millisecond,
	}
}

func newTestService(t *testing.T, cfg Config, seed map[domain.AccountID]int, rng func(int) int) (Service, ledger.Service, *event.MemoryBus) {
	t.Helper()

	bus := event.NewMemoryBus()
	ledgerSvc, err := ledger.NewService(context.Background(), &memStore{balances: seed}, bus)
	require.NoError(t, err)

	svc := NewService(ledgerSvc, bus, cfg)
	if rng != nil {
		svc.(*service).rng = rng
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = svc.Shutdown(ctx)
	})

	return svc, ledgerSvc, bus
}

func TestPropose_Validation(t *testing.T) {
	svc, _, _ := newTestService(t, testConfig(), map[domain.AccountID]int{"alice": 500}, nil)
	ctx := context.Background()

	_, err := svc.Propose(ctx, "alice", domain.GameChinchiro, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = svc.Propose(ctx, "alice", domain.GameKind("poker"), 100)
	assert.ErrorIs(t, err, domain.ErrUnknownGame)

	_, err = svc.Propose(ctx, "alice", domain.GameChinchiro, 501)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
}

func TestPropose_OneActiveSessionPerOwner(t *testing.T) {
	svc, _, _ := newTestService(t, testConfig(), map[domain.AccountID]int{"alice": 500}, nil)
	ctx := context.Background()

	first, err := svc.Propose(ctx, "alice", domain.GameSlots, 100)
	require.NoError(t, err)

	_, err = svc.Propose(ctx, "alice", domain.GameSlots, 100)
	assert.ErrorIs(t, err, domain.ErrSessionActive)

	// A different owner is unaffected.
	svc2, _, _ := newTestService(t, testConfig(), map[domain.AccountID]int{"bob": 500}, nil)
	_, err = svc2.Propose(ctx, "bob", domain.GameSlots, 100)
	assert.NoError(t, err)

	assert.Equal(t, domain.SessionStateAwaitingConfirmation, first.State)
}

func TestPropose_DoesNotDebit(t *testing.T) {
	svc, ledgerSvc, _ := newTestService(t, testConfig(), map[domain.AccountID]int{"alice": 500}, nil)
	ctx := context.Background()

	_, err := svc.Propose(ctx, "alice", domain.GameChinchiro, 100)
	require.NoError(t, err)

	balance, _ := ledgerSvc.GetBalance(ctx, "alice")
	assert.Equal(t, 500, balance)
}

func TestAct_Unauthorized(t *testing.T) {
	svc, ledgerSvc, _ := newTestService(t, testConfig(), map[domain.AccountID]int{"alice": 500}, nil)
	ctx := context.Background()

	snap, err := svc.Propose(ctx, "alice", domain.GameChinchiro, 100)
	require.NoError(t, err)

	_, err = svc.Act(ctx, snap.ID, "mallory", domain.ActionConfirm)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	// Session and balance are untouched.
	got, err := svc.Get(ctx, snap.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionStateAwaitingConfirmation, got.State)

	balance, _ := ledgerSvc.GetBalance(ctx, "alice")
	assert.Equal(t, 500, balance)
}

func TestAct_UnknownSession(t *testing.T) {
	svc, _, _ := newTestService(t, testConfig(), nil, nil)

	_, err := svc.Act(context.Background(), uuid.New(), "alice", domain.ActionConfirm)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestAct_Cancel(t *testing.T) {
	svc, ledgerSvc, _ := newTestService(t, testConfig(), map[domain.AccountID]int{"alice": 500}, nil)
	ctx := context.Background()

	snap, err := svc.Propose(ctx, "alice", domain.GameSlots, 100)
	require.NoError(t, err)

	got, err := svc.Act(ctx, snap.ID, "alice", domain.ActionCancel)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionStateCancelled, got.State)

	balance, _ := ledgerSvc.GetBalance(ctx, "alice")
	assert.Equal(t, 500, balance)

	// The owner can immediately open a new wager.
	_, err = svc.Propose(ctx, "alice", domain.GameSlots, 100)
	assert.NoError(t, err)
}

func TestAct_ConfirmChinchiro_WinFlow(t *testing.T) {
	// Player rolls 2-2-5 (pair, point 5); dealer rolls 1-2-3 (auto lose).
	rng := rngSeq(1, 1, 4, 0, 1, 2)
	svc, ledgerSvc, bus := newTestService(t, testConfig(), map[domain.AccountID]int{"alice": 500}, rng)
	ctx := context.Background()

	var resolved []domain.SessionResolvedPayloadV1
	bus.Subscribe(event.SessionResolved, func(ctx context.Context, e event.Event) error {
		resolved = append(resolved, e.Payload.(domain.SessionResolvedPayloadV1))
		return nil
	})

	snap, err := svc.Propose(ctx, "alice", domain.GameChinchiro, 100)
	require.NoError(t, err)

	got, err := svc.Act(ctx, snap.ID, "alice", domain.ActionConfirm)
	require.NoError(t, err)

	assert.Equal(t, domain.SessionStateResolved, got.State)
	assert.Equal(t, []int{2, 2, 5}, got.PlayerRoll)
	assert.Equal(t, []int{1, 2, 3}, got.DealerRoll)
	assert.Contains(t, got.DealerLabel, "auto lose")
	assert.Equal(t, domain.OutcomeWin, got.Outcome)
	assert.Equal(t, 200, got.Payout)
	assert.Equal(t, 600, got.Balance)

	balance, _ := ledgerSvc.GetBalance(ctx, "alice")
	assert.Equal(t, 600, balance)

	require.Len(t, resolved, 1)
	assert.Equal(t, snap.ID, resolved[0].SessionID)
	assert.Equal(t, domain.OutcomeWin, resolved[0].Outcome)
	assert.Equal(t, 200, resolved[0].Payout)
}

func TestAct_ConfirmSlots_TriplePayout(t *testing.T) {
	svc, ledgerSvc, _ := newTestService(t, testConfig(), map[domain.AccountID]int{"alice": 500}, func(int) int { return 0 })
	ctx := context.Background()

	snap, err := svc.Propose(ctx, "alice", domain.GameSlots, 100)
	require.NoError(t, err)

	got, err := svc.Act(ctx, snap.ID, "alice", domain.ActionConfirm)
	require.NoError(t, err)

	assert.Equal(t, domain.SessionStateResolved, got.State)
	assert.Equal(t, []string{game.Symbols[0], game.Symbols[0], game.Symbols[0]}, got.Reels)
	assert.Equal(t, domain.OutcomeWin, got.Outcome)
	assert.Equal(t, 1000, got.Payout)

	balance, _ := ledgerSvc.GetBalance(ctx, "alice")
	assert.Equal(t, 1400, balance)
}

func TestAct_ConfirmEscrowFailureCancels(t *testing.T) {
	svc, ledgerSvc, _ := newTestService(t, testConfig(), map[domain.AccountID]int{"alice": 100}, nil)
	ctx := context.Background()

	snap, err := svc.Propose(ctx, "alice", domain.GameSlots, 100)
	require.NoError(t, err)

	// Drain the balance between propose and confirm.
	_, err = ledgerSvc.Withdraw(ctx, "alice", 100)
	require.NoError(t, err)

	_, err = svc.Act(ctx, snap.ID, "alice", domain.ActionConfirm)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	got, err := svc.Get(ctx, snap.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionStateCancelled, got.State)
}

func TestAct_Blackjack_StandPushes(t *testing.T) {
	// Unshuffled shoe deals K,Q to the player and J,10 to the dealer.
	svc, ledgerSvc, _ := newTestService(t, testConfig(), map[domain.AccountID]int{"alice": 1000}, identityRNG)
	ctx := context.Background()

	snap, err := svc.Propose(ctx, "alice", domain.GameBlackjack, 100)
	require.NoError(t, err)

	got, err := svc.Act(ctx, snap.ID, "alice", domain.ActionConfirm)
	require.NoError(t, err)

	assert.Equal(t, domain.SessionStateInPlay, got.State)
	assert.Equal(t, []string{"K", "Q"}, got.PlayerHand)
	assert.Equal(t, 20, got.PlayerTotal)
	assert.True(t, got.DealerHidden)
	assert.Equal(t, []string{"J"}, got.DealerHand, "hole card stays hidden in play")
	assert.True(t, got.CanDouble)

	balance, _ := ledgerSvc.GetBalance(ctx, "alice")
	assert.Equal(t, 900, balance, "wager escrowed on confirm")

	got, err = svc.Act(ctx, snap.ID, "alice", domain.ActionStand)
	require.NoError(t, err)

	assert.Equal(t, domain.SessionStateResolved, got.State)
	assert.False(t, got.DealerHidden)
	assert.Equal(t, []string{"J", "10"}, got.DealerHand)
	assert.Equal(t, 20, got.DealerTotal)
	assert.Equal(t, domain.OutcomeDraw, got.Outcome)
	assert.Equal(t, 100, got.Payout)
	assert.Equal(t, 1000, got.Balance, "push returns the stake")
}

func TestAct_Blackjack_HitBusts(t *testing.T) {
	svc, ledgerSvc, _ := newTestService(t, testConfig(), map[domain.AccountID]int{"alice": 1000}, identityRNG)
	ctx := context.Background()

	snap, err := svc.Propose(ctx, "alice", domain.GameBlackjack, 100)
	require.NoError(t, err)
	_, err = svc.Act(ctx, snap.ID, "alice", domain.ActionConfirm)
	require.NoError(t, err)

	// Player at 20 draws a 9 and busts.
	got, err := svc.Act(ctx, snap.ID, "alice", domain.ActionHit)
	require.NoError(t, err)

	assert.Equal(t, domain.SessionStateResolved, got.State)
	assert.Equal(t, []string{"K", "Q", "9"}, got.PlayerHand)
	assert.Equal(t, domain.OutcomeLose, got.Outcome)
	assert.Equal(t, 0, got.Payout)

	balance, _ := ledgerSvc.GetBalance(ctx, "alice")
	assert.Equal(t, 900, balance)

	// No further action can advance a resolved session.
	_, err = svc.Act(ctx, snap.ID, "alice", domain.ActionStand)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestAct_Blackjack_DealtTwentyOneKeepsControl(t *testing.T) {
	// Full shuffle with an all-zero rng deals A,K to the player.
	svc, ledgerSvc, _ := newTestService(t, testConfig(), map[domain.AccountID]int{"alice": 1000}, func(int) int { return 0 })
	ctx := context.Background()

	snap, err := svc.Propose(ctx, "alice", domain.GameBlackjack, 100)
	require.NoError(t, err)

	got, err := svc.Act(ctx, snap.ID, "alice", domain.ActionConfirm)
	require.NoError(t, err)

	// The hand stays with the player; 21 does not stand on its own.
	assert.Equal(t, domain.SessionStateInPlay, got.State)
	assert.Equal(t, 21, got.PlayerTotal)

	got, err = svc.Act(ctx, snap.ID, "alice", domain.ActionStand)
	require.NoError(t, err)

	assert.Equal(t, domain.SessionStateResolved, got.State)
	assert.Equal(t, domain.OutcomeWin, got.Outcome)
	assert.Equal(t, 200, got.Payout)

	balance, _ := ledgerSvc.GetBalance(ctx, "alice")
	assert.Equal(t, 1100, balance)
}

func TestAct_Blackjack_HitAtTwentyOneStaysInPlay(t *testing.T) {
	// Dealt A,K; the hit draws a 10 and the soft ace absorbs it.
	svc, _, _ := newTestService(t, testConfig(), map[domain.AccountID]int{"alice": 1000}, func(int) int { return 0 })
	ctx := context.Background()

	snap, err := svc.Propose(ctx, "alice", domain.GameBlackjack, 100)
	require.NoError(t, err)
	_, err = svc.Act(ctx, snap.ID, "alice", domain.ActionConfirm)
	require.NoError(t, err)

	got, err := svc.Act(ctx, snap.ID, "alice", domain.ActionHit)
	require.NoError(t, err)

	assert.Equal(t, domain.SessionStateInPlay, got.State)
	assert.Equal(t, []string{"A", "K", "10"}, got.PlayerHand)
	assert.Equal(t, 21, got.PlayerTotal)

	got, err = svc.Act(ctx, snap.ID, "alice", domain.ActionStand)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionStateResolved, got.State)
	assert.Equal(t, domain.OutcomeWin, got.Outcome)
}

func TestAct_Blackjack_DoubleEscrowsAndResolves(t *testing.T) {
	svc, ledgerSvc, _ := newTestService(t, testConfig(), map[domain.AccountID]int{"alice": 1000}, identityRNG)
	ctx := context.Background()

	snap, err := svc.Propose(ctx, "alice", domain.GameBlackjack, 100)
	require.NoError(t, err)
	_, err = svc.Act(ctx, snap.ID, "alice", domain.ActionConfirm)
	require.NoError(t, err)

	// Player at 20 doubles, draws a 9 and busts the doubled stake.
	got, err := svc.Act(ctx, snap.ID, "alice", domain.ActionDouble)
	require.NoError(t, err)

	assert.Equal(t, domain.SessionStateResolved, got.State)
	assert.True(t, got.Doubled)
	assert.Equal(t, domain.OutcomeLose, got.Outcome)
	assert.Equal(t, 0, got.Payout)

	balance, _ := ledgerSvc.GetBalance(ctx, "alice")
	assert.Equal(t, 800, balance, "both wagers forfeited")
}

func TestAct_Blackjack_DoubleRequiresFunds(t *testing.T) {
	svc, ledgerSvc, _ := newTestService(t, testConfig(), map[domain.AccountID]int{"alice": 150}, identityRNG)
	ctx := context.Background()

	snap, err := svc.Propose(ctx, "alice", domain.GameBlackjack, 100)
	require.NoError(t, err)
	_, err = svc.Act(ctx, snap.ID, "alice", domain.ActionConfirm)
	require.NoError(t, err)

	_, err = svc.Act(ctx, snap.ID, "alice", domain.ActionDouble)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	// The hand is still live and the player can stand.
	got, err := svc.Act(ctx, snap.ID, "alice", domain.ActionStand)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionStateResolved, got.State)
	assert.Equal(t, domain.OutcomeDraw, got.Outcome)

	balance, _ := ledgerSvc.GetBalance(ctx, "alice")
	assert.Equal(t, 150, balance)
}

func TestAct_HitOnChinchiroRejected(t *testing.T) {
	svc, _, _ := newTestService(t, testConfig(), map[domain.AccountID]int{"alice": 500}, nil)
	ctx := context.Background()

	snap, err := svc.Propose(ctx, "alice", domain.GameChinchiro, 100)
	require.NoError(t, err)

	_, err = svc.Act(ctx, snap.ID, "alice", domain.ActionHit)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestAct_Replay(t *testing.T) {
	svc, _, _ := newTestService(t, testConfig(), map[domain.AccountID]int{"alice": 5000}, func(int) int { return 0 })
	ctx := context.Background()

	snap, err := svc.Propose(ctx, "alice", domain.GameSlots, 100)
	require.NoError(t, err)
	resolved, err := svc.Act(ctx, snap.ID, "alice", domain.ActionConfirm)
	require.NoError(t, err)
	require.Equal(t, domain.SessionStateResolved, resolved.State)

	// Replay spawns a fresh session with the same game and wager.
	fresh, err := svc.Act(ctx, snap.ID, "alice", domain.ActionReplay)
	require.NoError(t, err)

	assert.NotEqual(t, snap.ID, fresh.ID)
	assert.Equal(t, domain.SessionStateAwaitingConfirmation, fresh.State)
	assert.Equal(t, domain.GameSlots, fresh.Game)
	assert.Equal(t, 100, fresh.Wager)

	// The old record stays read-only.
	_, err = svc.Act(ctx, snap.ID, "alice", domain.ActionConfirm)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestAct_ReplayUnauthorized(t *testing.T) {
	svc, _, _ := newTestService(t, testConfig(), map[domain.AccountID]int{"alice": 5000}, func(int) int { return 0 })
	ctx := context.Background()

	snap, err := svc.Propose(ctx, "alice", domain.GameSlots, 100)
	require.NoError(t, err)
	_, err = svc.Act(ctx, snap.ID, "alice", domain.ActionConfirm)
	require.NoError(t, err)

	_, err = svc.Act(ctx, snap.ID, "mallory", domain.ActionReplay)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestConfirmTimeout_NoDebit(t *testing.T) {
	cfg := testConfig()
	cfg.ConfirmTimeout = 10 * time.Millisecond
	svc, ledgerSvc, bus := newTestService(t, cfg, map[domain.AccountID]int{"alice": 500}, nil)
	ctx := context.Background()

	var mu sync.Mutex
	var timedOut []domain.SessionTimedOutPayloadV1
	bus.Subscribe(event.SessionTimedOut, func(ctx context.Context, e event.Event) error {
		mu.Lock()
		defer mu.Unlock()
		timedOut = append(timedOut, e.Payload.(domain.SessionTimedOutPayloadV1))
		return nil
	})

	snap, err := svc.Propose(ctx, "alice", domain.GameChinchiro, 100)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		got, err := svc.Get(ctx, snap.ID)
		return err == nil && got.State == domain.SessionStateTimedOut
	}, time.Second, 5*time.Millisecond)

	balance, _ := ledgerSvc.GetBalance(ctx, "alice")
	assert.Equal(t, 500, balance, "nothing was escrowed, nothing is lost")

	// A late confirm is a stale action.
	_, err = svc.Act(ctx, snap.ID, "alice", domain.ActionConfirm)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, timedOut, 1)
	assert.Equal(t, domain.SessionStateAwaitingConfirmation, timedOut[0].State)
	assert.Equal(t, 0, timedOut[0].Forfeited)
}

func TestPlayTimeout_ForfeitsEscrow(t *testing.T) {
	cfg := testConfig()
	cfg.PlayTimeout = 10 * time.Millisecond
	svc, ledgerSvc, bus := newTestService(t, cfg, map[domain.AccountID]int{"alice": 1000}, identityRNG)
	ctx := context.Background()

	var mu sync.Mutex
	var timedOut []domain.SessionTimedOutPayloadV1
	bus.Subscribe(event.SessionTimedOut, func(ctx context.Context, e event.Event) error {
		mu.Lock()
		defer mu.Unlock()
		timedOut = append(timedOut, e.Payload.(domain.SessionTimedOutPayloadV1))
		return nil
	})

	snap, err := svc.Propose(ctx, "alice", domain.GameBlackjack, 100)
	require.NoError(t, err)
	_, err = svc.Act(ctx, snap.ID, "alice", domain.ActionConfirm)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		got, err := svc.Get(ctx, snap.ID)
		return err == nil && got.State == domain.SessionStateTimedOut
	}, time.Second, 5*time.Millisecond)

	balance, _ := ledgerSvc.GetBalance(ctx, "alice")
	assert.Equal(t, 900, balance, "abandoned hand forfeits the escrowed stake")

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, timedOut, 1)
	assert.Equal(t, domain.SessionStateInPlay, timedOut[0].State)
	assert.Equal(t, 100, timedOut[0].Forfeited)
}

func TestPlayTimeout_ResetsOnHit(t *testing.T) {
	cfg := testConfig()
	cfg.PlayTimeout = 100 * time.Millisecond
	svc, _, _ := newTestService(t, cfg, map[domain.AccountID]int{"alice": 1000}, func(int) int { return 0 })
	ctx := context.Background()

	snap, err := svc.Propose(ctx, "alice", domain.GameBlackjack, 100)
	require.NoError(t, err)
	_, err = svc.Act(ctx, snap.ID, "alice", domain.ActionConfirm)
	require.NoError(t, err)

	// The hit lands inside the first window and restarts the deadline, so
	// the hand is still live after the original deadline has passed.
	time.Sleep(60 * time.Millisecond)
	got, err := svc.Act(ctx, snap.ID, "alice", domain.ActionHit)
	require.NoError(t, err)
	require.Equal(t, domain.SessionStateInPlay, got.State)

	time.Sleep(60 * time.Millisecond)
	got, err = svc.Get(ctx, snap.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionStateInPlay, got.State, "deadline counts from the last action, not the deal")

	// With no further action the reset deadline still fires.
	assert.Eventually(t, func() bool {
		got, err := svc.Get(ctx, snap.ID)
		return err == nil && got.State == domain.SessionStateTimedOut
	}, time.Second, 5*time.Millisecond)
}

func TestResolve_CreditFailureKeepsSessionLive(t *testing.T) {
	store := &memStore{balances: map[domain.AccountID]int{"alice": 1000}}
	bus := event.NewMemoryBus()
	ledgerSvc, err := ledger.NewService(context.Background(), store, bus)
	require.NoError(t, err)

	svc := NewService(ledgerSvc, bus, testConfig())
	svc.(*service).rng = identityRNG
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = svc.Shutdown(ctx)
	})
	ctx := context.Background()

	snap, err := svc.Propose(ctx, "alice", domain.GameBlackjack, 100)
	require.NoError(t, err)
	_, err = svc.Act(ctx, snap.ID, "alice", domain.ActionConfirm)
	require.NoError(t, err)

	// The store dies between escrow and settlement; the push payout cannot
	// be credited.
	store.setSaveErr(errors.New("disk full"))
	_, err = svc.Act(ctx, snap.ID, "alice", domain.ActionStand)
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)

	// The session did not retire with the payout unpaid.
	got, err := svc.Get(ctx, snap.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionStateInPlay, got.State)

	// Further play is refused while settlement is owed.
	_, err = svc.Act(ctx, snap.ID, "alice", domain.ActionHit)
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)

	// Once the store recovers, the retry settles the hand and pays out.
	store.setSaveErr(nil)
	assert.Eventually(t, func() bool {
		got, err := svc.Get(ctx, snap.ID)
		return err == nil && got.State == domain.SessionStateResolved
	}, time.Second, 5*time.Millisecond)

	balance, _ := ledgerSvc.GetBalance(ctx, "alice")
	assert.Equal(t, 1000, balance, "push returns the escrowed stake")
}

func TestRetainWindow_EvictsTerminalSessions(t *testing.T) {
	cfg := testConfig()
	cfg.RetainWindow = 10 * time.Millisecond
	svc, _, _ := newTestService(t, cfg, map[domain.AccountID]int{"alice": 5000}, func(int) int { return 0 })
	ctx := context.Background()

	snap, err := svc.Propose(ctx, "alice", domain.GameSlots, 100)
	require.NoError(t, err)
	_, err = svc.Act(ctx, snap.ID, "alice", domain.ActionConfirm)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		_, err := svc.Get(ctx, snap.ID)
		return err != nil
	}, time.Second, 5*time.Millisecond)

	_, err = svc.Get(ctx, snap.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestShutdown_RejectsNewSessions(t *testing.T) {
	svc, _, _ := newTestService(t, testConfig(), map[domain.AccountID]int{"alice": 500}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, svc.Shutdown(ctx))

	_, err := svc.Propose(context.Background(), "alice", domain.GameSlots, 100)
	assert.ErrorIs(t, err, domain.ErrShuttingDown)
}
