package session

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/NuggetBot_Go/internal/domain"
)

// TestAct_ConcurrentConfirm verifies that two racing confirms on the same
// session advance it exactly once and debit the wager exactly once.
func TestAct_ConcurrentConfirm(t *testing.T) {
	svc, ledgerSvc, _ := newTestService(t, testConfig(), map[domain.AccountID]int{"alice": 500}, func(int) int { return 0 })
	ctx := context.Background()

	snap, err := svc.Propose(ctx, "alice", domain.GameSlots, 100)
	require.NoError(t, err)

	const racers = 8
	var wg sync.WaitGroup
	errs := make([]error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Act(ctx, snap.ID, "alice", domain.ActionConfirm)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one confirm may advance the session")

	// All-zero rng spins a triple: one wager debited, one payout credited.
	balance, _ := ledgerSvc.GetBalance(ctx, "alice")
	assert.Equal(t, 500-100+1000, balance)
}

// TestAct_ConcurrentActionsOnBlackjack verifies that racing hit/stand
// actions settle the hand exactly once.
func TestAct_ConcurrentActionsOnBlackjack(t *testing.T) {
	svc, ledgerSvc, _ := newTestService(t, testConfig(), map[domain.AccountID]int{"alice": 1000}, identityRNG)
	ctx := context.Background()

	snap, err := svc.Propose(ctx, "alice", domain.GameBlackjack, 100)
	require.NoError(t, err)
	_, err = svc.Act(ctx, snap.ID, "alice", domain.ActionConfirm)
	require.NoError(t, err)

	// Player holds 20; a stand pushes, a hit busts. Whichever lands first
	// resolves the session and the rest become stale.
	const racers = 4
	var wg sync.WaitGroup
	results := make([]error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.Act(ctx, snap.ID, "alice", domain.ActionStand)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
		}
	}
	assert.Equal(t, 1, succeeded)

	// Stand pushes at 20, so the single resolution returns the stake.
	balance, _ := ledgerSvc.GetBalance(ctx, "alice")
	assert.Equal(t, 1000, balance)
}

// TestPropose_ConcurrentSameOwner verifies the one-active-session rule
// holds under concurrent proposals.
func TestPropose_ConcurrentSameOwner(t *testing.T) {
	svc, _, _ := newTestService(t, testConfig(), map[domain.AccountID]int{"alice": 500}, nil)
	ctx := context.Background()

	const racers = 8
	var wg sync.WaitGroup
	errs := make([]error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Propose(ctx, "alice", domain.GameChinchiro, 100)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, domain.ErrSessionActive)
		}
	}
	assert.Equal(t, 1, succeeded)
}
