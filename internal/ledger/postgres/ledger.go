// Package postgres implements the ledger on PostgreSQL. Balances live in
// the accounts table; withdrawals and transfers run as single guarded
// statements, so the database enforces the no-overdraw invariant instead of
// process-local locks.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/NuggetBot_Go/internal/domain"
	"github.com/osse101/NuggetBot_Go/internal/event"
	"github.com/osse101/NuggetBot_Go/internal/ledger"
	"github.com/osse101/NuggetBot_Go/internal/logger"
)

type service struct {
	db        *pgxpool.Pool
	publisher event.Bus
}

// NewService creates a ledger backed by the accounts table.
func NewService(db *pgxpool.Pool, publisher event.Bus) ledger.Service {
	return &service{db: db, publisher: publisher}
}

func (s *service) GetBalance(ctx context.Context, id domain.AccountID) (int, error) {
	var balance int
	err := s.db.QueryRow(ctx,
		`SELECT balance FROM accounts WHERE account_id = $1`, string(id)).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get balance: %w", err)
	}
	return balance, nil
}

// SetBalance writes an account to an exact value, negative included. Policy
// lives in Withdraw and Transfer; this is the raw primitive.
func (s *service) SetBalance(ctx context.Context, id domain.AccountID, amount int) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO accounts (account_id, balance) VALUES ($1, $2)
		 ON CONFLICT (account_id) DO UPDATE SET balance = $2, updated_at = NOW()`,
		string(id), amount)
	if err != nil {
		return fmt.Errorf("set balance: %w", err)
	}
	return nil
}

// AddBalance adjusts an account by a signed delta and returns the new
// balance. No floor applies; a debit may take the balance below zero.
func (s *service) AddBalance(ctx context.Context, id domain.AccountID, delta int) (int, error) {
	return credit(ctx, s.db, id, delta)
}

func (s *service) Withdraw(ctx context.Context, id domain.AccountID, amount int) (int, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("%w: %d", domain.ErrInvalidAmount, amount)
	}
	return debit(ctx, s.db, id, amount)
}

func (s *service) Transfer(ctx context.Context, from, to domain.AccountID, amount int) error {
	log := logger.FromContext(ctx)

	if amount <= 0 {
		return fmt.Errorf("%w: %d", domain.ErrInvalidAmount, amount)
	}
	if from == to {
		return domain.ErrSelfTransfer
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transfer: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := debit(ctx, tx, from, amount); err != nil {
		return err
	}
	if _, err := credit(ctx, tx, to, amount); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transfer: %w", err)
	}

	if err := s.publisher.Publish(ctx, event.NewTransferCompletedEvent(from, to, amount)); err != nil {
		log.Error("Failed to publish transfer event", "error", err)
	}

	return nil
}

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

func (s *service) Shutdown(ctx context.Context) error {
	s.db.Close()
	return nil
}

// querier covers both pool and transaction execution
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// debit removes amount from an account. The WHERE guard makes an overdraw
// fail without a read-modify-write round trip; a missing account has
// balance zero and fails the same way. Withdraw and Transfer route
// through it.
func debit(ctx context.Context, q querier, id domain.AccountID, amount int) (int, error) {
	var newBalance int
	err := q.QueryRow(ctx,
		`UPDATE accounts
		    SET balance = balance - $2, updated_at = NOW()
		  WHERE account_id = $1 AND balance >= $2
		 RETURNING balance`,
		string(id), amount).Scan(&newBalance)

	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("%w: need %d more", domain.ErrInsufficientFunds, amount)
	}
	if err != nil {
		return 0, fmt.Errorf("debit balance: %w", err)
	}

	return newBalance, nil
}

// credit adds a signed amount to an account, creating it on first touch.
// No floor applies here; overdraw protection belongs to debit.
func credit(ctx context.Context, q querier, id domain.AccountID, amount int) (int, error) {
	var newBalance int
	err := q.QueryRow(ctx,
		`INSERT INTO accounts (account_id, balance) VALUES ($1, $2)
		 ON CONFLICT (account_id) DO UPDATE
		     SET balance = accounts.balance + $2, updated_at = NOW()
		 RETURNING balance`,
		string(id), amount).Scan(&newBalance)
	if err != nil {
		return 0, fmt.Errorf("credit balance: %w", err)
	}

	return newBalance, nil
}
