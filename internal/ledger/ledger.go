package ledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/osse101/NuggetBot_Go/internal/concurrency"
	"github.com/osse101/NuggetBot_Go/internal/domain"
	"github.com/osse101/NuggetBot_Go/internal/event"
	"github.com/osse101/NuggetBot_Go/internal/logger"
)

// Store persists ledger snapshots. A missing snapshot loads as an empty
// map, which the ledger treats as all balances zero.
type Store interface {
	Load(ctx context.Context) (map[domain.AccountID]int, error)
	Save(ctx context.Context, balances map[domain.AccountID]int) error
}

// Service defines the interface for ledger operations
type Service interface {
	GetBalance(ctx context.Context, id domain.AccountID) (int, error)
	SetBalance(ctx context.Context, id domain.AccountID, amount int) error
	AddBalance(ctx context.Context, id domain.AccountID, delta int) (int, error)
	Withdraw(ctx context.Context, id domain.AccountID, amount int) (int, error)
	Transfer(ctx context.Context, from, to domain.AccountID, amount int) error
	AdminCredit(ctx context.Context, id domain.AccountID, delta int) (int, error)
	Shutdown(ctx context.Context) error
}

type service struct {
	store     Store
	publisher event.Bus
	locks     *concurrency.LockManager

	mu       sync.RWMutex // guards balances
	balances map[domain.AccountID]int

	saveMu sync.Mutex // serializes snapshot writes
}

// NewService loads the snapshot from the store and returns a ledger backed
// by it. Accounts absent from the snapshot have balance zero.
func NewService(ctx context.Context, store Store, publisher event.Bus) (Service, error) {
	balances, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	if balances == nil {
		balances = make(map[domain.AccountID]int)
	}

	return &service{
		store:     store,
		publisher: publisher,
		locks:     concurrency.NewLockManager(),
		balances:  balances,
	}, nil
}

func (s *service) GetBalance(ctx context.Context, id domain.AccountID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.balances[id], nil
}

// SetBalance writes an account to an exact value, negative included. Policy
// lives in Withdraw and Transfer; this is the raw primitive.
func (s *service) SetBalance(ctx context.Context, id domain.AccountID, amount int) error {
	lock := s.locks.GetLock(accountLockPrefix + string(id))
	lock.Lock()
	defer lock.Unlock()

	prev := s.getBalance(id)
	s.setBalance(id, amount)
	if err := s.persist(ctx); err != nil {
		s.setBalance(id, prev)
		return err
	}
	return nil
}

// AddBalance adjusts an account by a signed delta and returns the new
// balance. No floor applies; a debit may take the balance below zero.
func (s *service) AddBalance(ctx context.Context, id domain.AccountID, delta int) (int, error) {
	lock := s.locks.GetLock(accountLockPrefix + string(id))
	lock.Lock()
	defer lock.Unlock()

	prev := s.getBalance(id)
	s.setBalance(id, prev+delta)
	if err := s.persist(ctx); err != nil {
		s.setBalance(id, prev)
		return 0, err
	}
	return prev + delta, nil
}

// Withdraw debits the account by amount, re-checking funds under the
// account lock so a concurrent withdrawal cannot overdraw. Returns the new
// balance.
func (s *service) Withdraw(ctx context.Context, id domain.AccountID, amount int) (int, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("%w: %d", domain.ErrInvalidAmount, amount)
	}

	lock := s.locks.GetLock(accountLockPrefix + string(id))
	lock.Lock()
	defer lock.Unlock()

	current := s.getBalance(id)
	if current < amount {
		return 0, fmt.Errorf("%w: balance %d, need %d", domain.ErrInsufficientFunds, current, amount)
	}

	s.setBalance(id, current-amount)
	if err := s.persist(ctx); err != nil {
		s.setBalance(id, current)
		return 0, err
	}
	return current - amount, nil
}

// Transfer moves amount from one account to another atomically. Both
// account locks are held for the duration so no interleaving can observe a
// debit without the matching credit.
func (s *service) Transfer(ctx context.Context, from, to domain.AccountID, amount int) error {
	log := logger.FromContext(ctx)

	if amount <= 0 {
		return fmt.Errorf("%w: %d", domain.ErrInvalidAmount, amount)
	}
	if from == to {
		return domain.ErrSelfTransfer
	}

	unlock := s.locks.LockPair(accountLockPrefix+string(from), accountLockPrefix+string(to))
	defer unlock()

	fromBalance := s.getBalance(from)
	if fromBalance < amount {
		return fmt.Errorf("%w: balance %d, need %d", domain.ErrInsufficientFunds, fromBalance, amount)
	}

	toBalance := s.getBalance(to)
	s.setBalance(from, fromBalance-amount)
	s.setBalance(to, toBalance+amount)
	if err := s.persist(ctx); err != nil {
		s.setBalance(from, fromBalance)
		s.setBalance(to, toBalance)
		return err
	}

	if err := s.publisher.Publish(ctx, event.NewTransferCompletedEvent(from, to, amount)); err != nil {
		log.Error("Failed to publish transfer event", "error", err)
	}

	return nil
}

// AdminCredit adjusts an account by a signed delta. A zero delta is
// rejected; an admin debit may push the balance below zero.
func (s *service) AdminCredit(ctx context.Context, id domain.AccountID, delta int) (int, error) {
	log := logger.FromContext(ctx)

	if delta == 0 {
		return 0, fmt.Errorf("%w: delta must be non-zero", domain.ErrInvalidAmount)
	}

	newBalance, err := s.AddBalance(ctx, id, delta)
	if err != nil {
		return 0, err
	}

	if err := s.publisher.Publish(ctx, event.NewAdminCreditedEvent(id, delta, newBalance)); err != nil {
		log.Error("Failed to publish admin credit event", "error", err)
	}

	return newBalance, nil
}

// Shutdown writes a final snapshot.
func (s *service) Shutdown(ctx context.Context) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.RLock()
	snapshot := s.copyBalances()
	s.mu.RUnlock()

	if err := s.store.Save(ctx, snapshot); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *service) getBalance(id domain.AccountID) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.balances[id]
}

func (s *service) setBalance(id domain.AccountID, amount int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[id] = amount
}

// persist snapshots the ledger to the store. A failed write fails the
// mutation; callers roll the in-memory change back so memory never reports
// a balance the durable snapshot does not hold.
func (s *service) persist(ctx context.Context) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.RLock()
	snapshot := s.copyBalances()
	s.mu.RUnlock()

	if err := s.store.Save(ctx, snapshot); err != nil {
		logger.FromContext(ctx).Error("Failed to persist ledger snapshot", "error", err)
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *service) copyBalances() map[domain.AccountID]int {
	snapshot := make(map[domain.AccountID]int, len(s.balances))
	for id, amount := range s.balances {
		snapshot[id] = amount
	}
	return snapshot
}
