package handler

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/osse101/NuggetBot_Go/internal/domain"
)

// MockLedgerService
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) GetBalance(ctx context.Context, id domain.AccountID) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *MockLedgerService) SetBalance(ctx context.Context, id domain.AccountID, amount int) error {
	args := m.Called(ctx, id, amount)
	return args.Error(0)
}

func (m *MockLedgerService) AddBalance(ctx context.Context, id domain.AccountID, delta int) (int, error) {
	args := m.Called(ctx, id, delta)
	return args.Int(0), args.Error(1)
}

func (m *MockLedgerService) Withdraw(ctx context.Context, id domain.AccountID, amount int) (int, error) {
	args := m.Called(ctx, id, amount)
	return args.Int(0), args.Error(1)
}

func (m *MockLedgerService) Transfer(ctx context.Context, from, to domain.AccountID, amount int) error {
	args := m.Called(ctx, from, to, amount)
	return args.Error(0)
}

func (m *MockLedgerService) AdminCredit(ctx context.Context, id domain.AccountID, delta int) (int, error) {
	args := m.Called(ctx, id, delta)
	return args.Int(0), args.Error(1)
}

func (m *MockLedgerService) Shutdown(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockSessionService
type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) Propose(ctx context.Context, ownerID domain.AccountID, gameKind domain.GameKind, wager int) (*domain.SessionSnapshot, error) {
	args := m.Called(ctx, ownerID, gameKind, wager)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SessionSnapshot), args.Error(1)
}

func (m *MockSessionService) Act(ctx context.Context, sessionID uuid.UUID, actorID domain.AccountID, action domain.SessionAction) (*domain.SessionSnapshot, error) {
	args := m.Called(ctx, sessionID, actorID, action)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SessionSnapshot), args.Error(1)
}

func (m *MockSessionService) Get(ctx context.Context, sessionID uuid.UUID) (*domain.SessionSnapshot, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SessionSnapshot), args.Error(1)
}

func (m *MockSessionService) Shutdown(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
