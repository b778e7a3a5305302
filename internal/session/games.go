package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/NuggetBot_Go/internal/domain"
	"github.com/osse101/NuggetBot_Go/internal/game"
	"github.com/osse101/NuggetBot_Go/internal/logger"
)

// confirm escrows the wager and starts the game. The funds re-check and the
// debit are a single ledger call, so a balance change since Propose cannot
// slip an unfunded wager through. Callers must hold sess.mu.
func (s *service) confirm(ctx context.Context, sess *session) (*domain.SessionSnapshot, error) {
	log := logger.FromContext(ctx)

	if err := guard(sess, domain.SessionStateAwaitingConfirmation); err != nil {
		return nil, err
	}

	balance, err := s.ledger.Withdraw(ctx, sess.ownerID, sess.wager)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientFunds) {
			// The wager can no longer be funded; close the session out.
			sess.state = domain.SessionStateCancelled
			sess.stopTimers()
			snap := sess.snapshot()
			s.retire(sess, snap)
			log.Info("Session cancelled, escrow failed", "sessionID", sess.id)
			return nil, err
		}
		return nil, fmt.Errorf("failed to escrow wager: %w", err)
	}

	sess.state = domain.SessionStateEscrowed
	sess.stopTimers()

	switch sess.gameKind {
	case domain.GameChinchiro:
		return s.playChinchiro(ctx, sess)
	case domain.GameSlots:
		return s.playSlots(ctx, sess)
	case domain.GameBlackjack:
		return s.dealBlackjack(ctx, sess, balance)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownGame, sess.gameKind)
	}
}

// cancel backs out of a wager before any nuggets move. Callers must hold
// sess.mu.
func (s *service) cancel(ctx context.Context, sess *session) (*domain.SessionSnapshot, error) {
	log := logger.FromContext(ctx)

	if err := guard(sess, domain.SessionStateAwaitingConfirmation); err != nil {
		return nil, err
	}

	sess.state = domain.SessionStateCancelled
	sess.stopTimers()
	snap := sess.snapshot()
	s.retire(sess, snap)

	balance, err := s.ledger.GetBalance(ctx, sess.ownerID)
	if err == nil {
		snap.Balance = balance
	}

	log.Info("Session cancelled", "sessionID", sess.id)
	return snap, nil
}

// playChinchiro rolls both hands and settles immediately.
func (s *service) playChinchiro(ctx context.Context, sess *session) (*domain.SessionSnapshot, error) {
	sess.playerRoll = game.RollDice(s.rng)
	sess.dealerRoll = game.RollDice(s.rng)

	playerRank, playerLabel := game.ScoreRoll(sess.playerRoll)
	dealerRank, dealerLabel := game.ScoreRoll(sess.dealerRoll)
	sess.playerLabel = playerLabel
	sess.dealerLabel = dealerLabel

	outcome, payout := game.SettleDice(playerRank, dealerRank, sess.wager)
	return s.resolve(ctx, sess, outcome, payout)
}

// playSlots spins the reels and settles immediately. A push cannot happen;
// any payout is a win.
func (s *service) playSlots(ctx context.Context, sess *session) (*domain.SessionSnapshot, error) {
	sess.reels = game.SpinReels(s.rng)

	payout := game.SlotsPayout(sess.reels, sess.wager)
	outcome := domain.OutcomeLose
	if payout > 0 {
		outcome = domain.OutcomeWin
	}
	return s.resolve(ctx, sess, outcome, payout)
}

// dealBlackjack deals the opening hands and moves to InPlay. The player
// keeps control even on a dealt 21; standing is their call to make.
func (s *service) dealBlackjack(ctx context.Context, sess *session, balance int) (*domain.SessionSnapshot, error) {
	sess.deck = game.NewDeck(s.rng)
	sess.playerHand = []string{sess.deck.Draw(), sess.deck.Draw()}
	sess.dealerHand = []string{sess.deck.Draw(), sess.deck.Draw()}
	sess.state = domain.SessionStateInPlay

	s.resetPlayTimer(sess)

	snap := sess.snapshot()
	snap.Balance = balance
	return snap, nil
}

// hit draws one card. A bust loses without the dealer playing; anything
// else leaves the hand live, 21 included. Callers must hold sess.mu.
func (s *service) hit(ctx context.Context, sess *session) (*domain.SessionSnapshot, error) {
	if err := guard(sess, domain.SessionStateInPlay); err != nil {
		return nil, err
	}
	if sess.gameKind != domain.GameBlackjack {
		return nil, fmt.Errorf("%w: %s has no hit", domain.ErrInvalidTransition, sess.gameKind)
	}

	sess.playerHand = append(sess.playerHand, sess.deck.Draw())

	total, _ := game.HandValue(sess.playerHand)
	if total > game.BlackjackTarget {
		outcome, payout := game.SettleBlackjack(total, 0, sess.stake())
		return s.resolve(ctx, sess, outcome, payout)
	}

	s.resetPlayTimer(sess)

	snap := sess.snapshot()
	balance, err := s.ledger.GetBalance(ctx, sess.ownerID)
	if err == nil {
		snap.Balance = balance
	}
	return snap, nil
}

// stand plays out the dealer hand and settles. Callers must hold sess.mu.
func (s *service) stand(ctx context.Context, sess *session) (*domain.SessionSnapshot, error) {
	if err := guard(sess, domain.SessionStateInPlay); err != nil {
		return nil, err
	}
	if sess.gameKind != domain.GameBlackjack {
		return nil, fmt.Errorf("%w: %s has no stand", domain.ErrInvalidTransition, sess.gameKind)
	}
	return s.standLocked(ctx, sess)
}

func (s *service) standLocked(ctx context.Context, sess *session) (*domain.SessionSnapshot, error) {
	sess.dealerHand = game.PlayDealer(sess.dealerHand, sess.deck)

	playerTotal, _ := game.HandValue(sess.playerHand)
	dealerTotal, _ := game.HandValue(sess.dealerHand)

	outcome, payout := game.SettleBlackjack(playerTotal, dealerTotal, sess.stake())
	return s.resolve(ctx, sess, outcome, payout)
}

// double escrows a second wager, draws exactly one card, and stands. The
// extra debit goes through the same atomic withdraw as confirmation; if it
// fails the hand stays in play and the player can still hit or stand.
func (s *service) double(ctx context.Context, sess *session) (*domain.SessionSnapshot, error) {
	if err := guard(sess, domain.SessionStateInPlay); err != nil {
		return nil, err
	}
	if sess.gameKind != domain.GameBlackjack {
		return nil, fmt.Errorf("%w: %s has no double", domain.ErrInvalidTransition, sess.gameKind)
	}
	if len(sess.playerHand) != initialHandSize || sess.doubled {
		return nil, fmt.Errorf("%w: double only on the opening hand", domain.ErrInvalidTransition)
	}

	if _, err := s.ledger.Withdraw(ctx, sess.ownerID, sess.wager); err != nil {
		if errors.Is(err, domain.ErrInsufficientFunds) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to escrow double: %w", err)
	}

	sess.doubled = true
	sess.playerHand = append(sess.playerHand, sess.deck.Draw())

	if total, _ := game.HandValue(sess.playerHand); total > game.BlackjackTarget {
		outcome, payout := game.SettleBlackjack(total, 0, sess.stake())
		return s.resolve(ctx, sess, outcome, payout)
	}
	return s.standLocked(ctx, sess)
}

// resolve settles the session: credits any payout, then retires the record
// into the presentation window and announces the result. The credit happens
// before the state flips to Resolved; if it fails the session stays live
// with a retry scheduled, so the escrow can never vanish behind a reported
// result. Callers must hold sess.mu.
func (s *service) resolve(ctx context.Context, sess *session, outcome domain.Outcome, payout int) (*domain.SessionSnapshot, error) {
	log := logger.FromContext(ctx)

	sess.outcome = outcome
	sess.payout = payout

	balance := 0
	if payout > 0 {
		newBalance, err := s.ledger.AddBalance(ctx, sess.ownerID, payout)
		if err != nil {
			log.Error("Failed to credit payout, retry scheduled",
				"sessionID", sess.id, "payout", payout, "error", err)
			sess.creditPending = true
			s.scheduleCreditRetry(sess)
			return nil, fmt.Errorf("failed to credit payout: %w", err)
		}
		balance = newBalance
	} else if b, err := s.ledger.GetBalance(ctx, sess.ownerID); err == nil {
		balance = b
	}

	sess.creditPending = false
	sess.state = domain.SessionStateResolved
	sess.stopTimers()

	snap := sess.snapshot()
	snap.Balance = balance
	s.retire(sess, snap)

	log.Info("Session resolved",
		"sessionID", sess.id, "game", sess.gameKind, "outcome", outcome, "payout", payout)
	s.publishResolved(ctx, sess)

	return snap, nil
}

// resetPlayTimer restarts the inactivity deadline after an action that
// leaves the hand live. Callers must hold sess.mu.
func (s *service) resetPlayTimer(sess *session) {
	if sess.playTimer != nil {
		sess.playTimer.Stop()
	}
	sess.playTimer = time.AfterFunc(s.cfg.PlayTimeout, func() {
		s.expire(sess.id, domain.SessionStateInPlay)
	})
}

// scheduleCreditRetry re-runs settlement after a failed payout credit. The
// timer takes over the play slot; the hand is already decided, so the
// inactivity deadline no longer applies. Callers must hold sess.mu.
func (s *service) scheduleCreditRetry(sess *session) {
	if sess.playTimer != nil {
		sess.playTimer.Stop()
	}
	sess.playTimer = time.AfterFunc(s.cfg.CreditRetryDelay, func() {
		s.retryCredit(sess.id)
	})
}

// retryCredit is the timer callback that re-attempts settlement of a
// decided session. A further failure schedules another retry.
func (s *service) retryCredit(sessionID uuid.UUID) {
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

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if !sess.creditPending {
		return
	}
	_, _ = s.resolve(ctx, sess, sess.outcome, sess.payout)
}
