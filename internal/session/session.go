package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/NuggetBot_Go/internal/domain"
	"github.com/osse101/NuggetBot_Go/internal/game"
)

// session is the mutable state of one wager. All transitions happen under
// mu so at most one action can advance the session per event.
type session struct {
	mu sync.Mutex

	id        uuid.UUID
	ownerID   domain.AccountID
	gameKind  domain.GameKind
	state     domain.SessionState
	wager     int
	createdAt time.Time

	confirmTimer *time.Timer
	playTimer    *time.Timer

	// Chinchiro
	playerRoll  []int
	dealerRoll  []int
	playerLabel string
	dealerLabel string

	// Slots
	reels []string

	// Blackjack
	deck       *game.Deck
	playerHand []string
	dealerHand []string
	doubled    bool

	outcome domain.Outcome
	payout  int

	// creditPending marks a decided session whose payout credit failed.
	// Further actions are refused until the retry settles it.
	creditPending bool
}

func newSession(ownerID domain.AccountID, gameKind domain.GameKind, wager int) *session {
	return &session{
		id:        uuid.New(),
		ownerID:   ownerID,
		gameKind:  gameKind,
		state:     domain.SessionStateAwaitingConfirmation,
		wager:     wager,
		createdAt: time.Now(),
	}
}

// stake is the total amount escrowed, including a double-down addition.
func (s *session) stake() int {
	if s.doubled {
		return s.wager * 2
	}
	return s.wager
}

// stopTimers halts any pending expiry callbacks. Callers must hold mu.
func (s *session) stopTimers() {
	if s.confirmTimer != nil {
		s.confirmTimer.Stop()
	}
	if s.playTimer != nil {
		s.playTimer.Stop()
	}
}

// snapshot renders the session for presentation. The dealer's hole card is
// hidden while a blackjack hand is still in play. Callers must hold mu.
func (s *session) snapshot() *domain.SessionSnapshot {
	snap := &domain.SessionSnapshot{
		ID:        s.id,
		OwnerID:   s.ownerID,
		Game:      s.gameKind,
		State:     s.state,
		Wager:     s.wager,
		CreatedAt: s.createdAt,

		PlayerRoll:  append([]int(nil), s.playerRoll...),
		DealerRoll:  append([]int(nil), s.dealerRoll...),
		PlayerLabel: s.playerLabel,
		DealerLabel: s.dealerLabel,

		Reels: append([]string(nil), s.reels...),

		Doubled: s.doubled,
		Outcome: s.outcome,
		Payout:  s.payout,
	}

	if s.gameKind == domain.GameBlackjack && len(s.playerHand) > 0 {
		snap.PlayerHand = append([]string(nil), s.playerHand...)
		snap.PlayerTotal, _ = game.HandValue(s.playerHand)
		snap.CanDouble = s.state == domain.SessionStateInPlay &&
			len(s.playerHand) == initialHandSize && !s.doubled

		if s.state == domain.SessionStateInPlay {
			snap.DealerHand = []string{s.dealerHand[0]}
			snap.DealerTotal, _ = game.HandValue(snap.DealerHand)
			snap.DealerHidden = true
		} else {
			snap.DealerHand = append([]string(nil), s.dealerHand...)
			snap.DealerTotal, _ = game.HandValue(s.dealerHand)
		}
	}

	return snap
}
