package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/osse101/NuggetBot_Go/internal/domain"
	"github.com/osse101/NuggetBot_Go/internal/event"
	"github.com/osse101/NuggetBot_Go/internal/ledger"
	"github.com/osse101/NuggetBot_Go/internal/logger"
	"github.com/osse101/NuggetBot_Go/internal/utils"
)

// Config holds the session timing knobs.
type Config struct {
	// ConfirmTimeout bounds how long a proposed wager waits for confirmation.
	ConfirmTimeout time.Duration
	// PlayTimeout bounds how long an in-play hand waits for the next action.
	PlayTimeout time.Duration
	// RetainWindow keeps resolved sessions available for replay and display.
	RetainWindow time.Duration
	// CreditRetryDelay spaces settlement retries after a failed payout
	// credit. Zero selects the default.
	CreditRetryDelay time.Duration
}

// Service defines the interface for wagering session operations
type Service interface {
	Propose(ctx context.Context, ownerID domain.AccountID, gameKind domain.GameKind, wager int) (*domain.SessionSnapshot, error)
	Act(ctx context.Context, sessionID uuid.UUID, actorID domain.AccountID, action domain.SessionAction) (*domain.SessionSnapshot, error)
	Get(ctx context.Context, sessionID uuid.UUID) (*domain.SessionSnapshot, error)
	Shutdown(ctx context.Context) error
}

type service struct {
	ledger   ledger.Service
	eventBus event.Bus
	cfg      Config
	rng      func(int) int

	mu            sync.Mutex
	sessions      map[uuid.UUID]*session
	activeByOwner map[domain.AccountID]uuid.UUID
	retainTimers  map[uuid.UUID]*time.Timer
	closed        bool

	terminal *lru.Cache[uuid.UUID, *domain.SessionSnapshot]

	wg sync.WaitGroup // Tracks timer callbacks for graceful shutdown
}

// NewService creates a new session service
func NewService(ledgerSvc ledger.Service, eventBus event.Bus, cfg Config) Service {
	if cfg.CreditRetryDelay <= 0 {
		cfg.CreditRetryDelay = defaultCreditRetryDelay
	}
	terminal, _ := lru.New[uuid.UUID, *domain.SessionSnapshot](TerminalCacheSize)
	return &service{
		ledger:        ledgerSvc,
		eventBus:      eventBus,
		cfg:           cfg,
		rng:           utils.SecureRandomInt,
		sessions:      make(map[uuid.UUID]*session),
		activeByOwner: make(map[domain.AccountID]uuid.UUID),
		retainTimers:  make(map[uuid.UUID]*time.Timer),
		terminal:      terminal,
	}
}

// Propose opens a new wager in AwaitingConfirmation. Nothing is debited
// until the owner confirms; the balance check here only rejects proposals
// that could never be funded.
func (s *service) Propose(ctx context.Context, ownerID domain.AccountID, gameKind domain.GameKind, wager int) (*domain.SessionSnapshot, error) {
	log := logger.FromContext(ctx)

	if wager <= 0 {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidAmount, wager)
	}
	switch gameKind {
	case domain.GameChinchiro, domain.GameSlots, domain.GameBlackjack:
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownGame, gameKind)
	}

	balance, err := s.ledger.GetBalance(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to check balance: %w", err)
	}
	if balance < wager {
		return nil, fmt.Errorf("%w: balance %d, wager %d", domain.ErrInsufficientFunds, balance, wager)
	}

	sess := newSession(ownerID, gameKind, wager)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, domain.ErrShuttingDown
	}
	if activeID, ok := s.activeByOwner[ownerID]; ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: session %s", domain.ErrSessionActive, activeID)
	}
	s.sessions[sess.id] = sess
	s.activeByOwner[ownerID] = sess.id
	s.mu.Unlock()

	sess.mu.Lock()
	sess.confirmTimer = time.AfterFunc(s.cfg.ConfirmTimeout, func() {
		s.expire(sess.id, domain.SessionStateAwaitingConfirmation)
	})
	snap := sess.snapshot()
	sess.mu.Unlock()

	snap.Balance = balance
	log.Info("Session proposed", "sessionID", sess.id, "ownerID", ownerID, "game", gameKind, "wager", wager)
	return snap, nil
}

// Act routes one player action to a session. Only the owner may act; a
// non-owner action is rejected without touching session state.
func (s *service) Act(ctx context.Context, sessionID uuid.UUID, actorID domain.AccountID, action domain.SessionAction) (*domain.SessionSnapshot, error) {
	log := logger.FromContext(ctx)
	log.Info("Session action", "sessionID", sessionID, "actorID", actorID, "action", action)

	s.mu.Lock()
	sess, live := s.sessions[sessionID]
	var retired *domain.SessionSnapshot
	if !live {
		retired, _ = s.terminal.Get(sessionID)
	}
	s.mu.Unlock()

	if !live {
		if retired == nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, sessionID)
		}
		return s.actOnRetired(ctx, retired, actorID, action)
	}

	if sess.ownerID != actorID {
		return nil, domain.ErrUnauthorized
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	switch action {
	case domain.ActionConfirm:
		return s.confirm(ctx, sess)
	case domain.ActionCancel:
		return s.cancel(ctx, sess)
	case domain.ActionHit:
		return s.hit(ctx, sess)
	case domain.ActionStand:
		return s.stand(ctx, sess)
	case domain.ActionDouble:
		return s.double(ctx, sess)
	case domain.ActionReplay:
		return nil, fmt.Errorf("%w: session still %s", domain.ErrInvalidTransition, sess.state)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownAction, action)
	}
}

// actOnRetired handles actions on sessions inside the presentation window.
// Replay is the only valid one; it spawns a fresh session with the same
// game and wager rather than reviving the old record.
func (s *service) actOnRetired(ctx context.Context, snap *domain.SessionSnapshot, actorID domain.AccountID, action domain.SessionAction) (*domain.SessionSnapshot, error) {
	if snap.OwnerID != actorID {
		return nil, domain.ErrUnauthorized
	}
	if action != domain.ActionReplay {
		return nil, fmt.Errorf("%w: session already %s", domain.ErrInvalidTransition, snap.State)
	}
	return s.Propose(ctx, actorID, snap.Game, snap.Wager)
}

// Get returns the presentation snapshot for a live or recently retired
// session.
func (s *service) Get(ctx context.Context, sessionID uuid.UUID) (*domain.SessionSnapshot, error) {
	s.mu.Lock()
	sess, live := s.sessions[sessionID]
	var retired *domain.SessionSnapshot
	if !live {
		retired, _ = s.terminal.Get(sessionID)
	}
	s.mu.Unlock()

	if !live {
		if retired == nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, sessionID)
		}
		return retired, nil
	}

	sess.mu.Lock()
	snap := sess.snapshot()
	sess.mu.Unlock()

	balance, err := s.ledger.GetBalance(ctx, sess.ownerID)
	if err == nil {
		snap.Balance = balance
	}
	return snap, nil
}

// Shutdown stops all timers and waits for in-flight callbacks.
func (s *service) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	sessions := make([]*session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	for _, timer := range s.retainTimers {
		timer.Stop()
	}
	s.mu.Unlock()

	for _, sess := range sessions {
		sess.mu.Lock()
		sess.stopTimers()
		sess.mu.Unlock()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// expire is the timer callback for confirmation and play deadlines. The
// from guard makes a stale timer a no-op when the session advanced first.
func (s *service) expire(sessionID uuid.UUID, from domain.SessionState) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.wg.Add(1)
	sess, ok := s.sessions[sessionID]
	s.mu.Unlock()
	defer s.wg.Done()

	if !ok {
		return
	}

	ctx := logger.WithRequestID(context.Background(), logger.GenerateRequestID())
	log := logger.FromContext(ctx)

	sess.mu.Lock()
	if sess.state != from || sess.creditPending {
		sess.mu.Unlock()
		return
	}

	forfeited := 0
	if from == domain.SessionStateInPlay {
		forfeited = sess.stake()
	}
	sess.state = domain.SessionStateTimedOut
	sess.stopTimers()
	snap := sess.snapshot()
	sess.mu.Unlock()

	s.retire(sess, snap)

	log.Info("Session timed out", "sessionID", sessionID, "from", from, "forfeited", forfeited)
	evt := event.NewSessionTimedOutEvent(domain.SessionTimedOutPayloadV1{
		SessionID: sess.id,
		OwnerID:   sess.ownerID,
		Game:      sess.gameKind,
		State:     from,
		Forfeited: forfeited,
	})
	if err := s.eventBus.Publish(ctx, evt); err != nil {
		log.Error("Failed to publish session timeout event", "error", err)
	}
}

// retire moves a terminal session out of the live set and into the
// presentation cache, scheduling its eviction after the retain window.
func (s *service) retire(sess *session, snap *domain.SessionSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sess.id)
	if s.activeByOwner[sess.ownerID] == sess.id {
		delete(s.activeByOwner, sess.ownerID)
	}
	s.terminal.Add(sess.id, snap)

	if s.closed {
		return
	}
	s.retainTimers[sess.id] = time.AfterFunc(s.cfg.RetainWindow, func() {
		s.mu.Lock()
		s.terminal.Remove(sess.id)
		delete(s.retainTimers, sess.id)
		s.mu.Unlock()
	})
}

func (s *service) publishResolved(ctx context.Context, sess *session) {
	log := logger.FromContext(ctx)
	evt := event.NewSessionResolvedEvent(domain.SessionResolvedPayloadV1{
		SessionID: sess.id,
		OwnerID:   sess.ownerID,
		Game:      sess.gameKind,
		Wager:     sess.wager,
		Outcome:   sess.outcome,
		Payout:    sess.payout,
	})
	if err := s.eventBus.Publish(ctx, evt); err != nil {
		log.Error("Failed to publish session resolved event", "error", err)
	}
}

// guard validates that an action may fire in the session's current state.
// Callers must hold sess.mu.
func guard(sess *session, want domain.SessionState) error {
	if sess.creditPending {
		return fmt.Errorf("%w: settlement pending", domain.ErrStoreUnavailable)
	}
	if sess.state == want {
		return nil
	}
	if sess.state.Terminal() {
		return fmt.Errorf("%w: session %s", domain.ErrSessionExpired, sess.state)
	}
	return fmt.Errorf("%w: session is %s", domain.ErrInvalidTransition, sess.state)
}
