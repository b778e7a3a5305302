package domain

import (
	"time"

	"github.com/google/uuid"
)

// GameKind identifies which wager game a session is playing.
type GameKind string

const (
	GameChinchiro GameKind = "chinchiro"
	GameSlots     GameKind = "slots"
	GameBlackjack GameKind = "blackjack"
)

// SessionState represents the current state of a wagering session
type SessionState string

const (
	SessionStateAwaitingConfirmation SessionState = "AwaitingConfirmation"
	SessionStateEscrowed             SessionState = "Escrowed"
	SessionStateInPlay               SessionState = "InPlay"
	SessionStateResolved             SessionState = "Resolved"
	SessionStateCancelled            SessionState = "Cancelled"
	SessionStateTimedOut             SessionState = "TimedOut"
)

// Terminal reports whether no further actions can advance the session.
func (s SessionState) Terminal() bool {
	return s == SessionStateResolved || s == SessionStateCancelled || s == SessionStateTimedOut
}

// SessionAction is a player action routed to a session
type SessionAction string

const (
	ActionConfirm SessionAction = "confirm"
	ActionCancel  SessionAction = "cancel"
	ActionHit     SessionAction = "hit"
	ActionStand   SessionAction = "stand"
	ActionDouble  SessionAction = "double"
	ActionReplay  SessionAction = "replay"
)

// Outcome is the result of a resolved wager
type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLose Outcome = "lose"
	OutcomeDraw Outcome = "draw"
)

// SessionSnapshot is the read-only presentation state of a session.
// The dealer's hole card is hidden until the session resolves.
type SessionSnapshot struct {
	ID        uuid.UUID    `json:"id"`
	OwnerID   AccountID    `json:"owner_id"`
	Game      GameKind     `json:"game"`
	State     SessionState `json:"state"`
	Wager     int          `json:"wager"`
	CreatedAt time.Time    `json:"created_at"`

	// Chinchiro
	PlayerRoll  []int  `json:"player_roll,omitempty"`
	DealerRoll  []int  `json:"dealer_roll,omitempty"`
	PlayerLabel string `json:"player_label,omitempty"`
	DealerLabel string `json:"dealer_label,omitempty"`

	// Slots
	Reels []string `json:"reels,omitempty"`

	// Blackjack
	PlayerHand   []string `json:"player_hand,omitempty"`
	PlayerTotal  int      `json:"player_total,omitempty"`
	DealerHand   []string `json:"dealer_hand,omitempty"`
	DealerTotal  int      `json:"dealer_total,omitempty"`
	DealerHidden bool     `json:"dealer_hidden,omitempty"`
	CanDouble    bool     `json:"can_double,omitempty"`
	Doubled      bool     `json:"doubled,omitempty"`

	// Settlement (populated once Resolved)
	Outcome Outcome `json:"outcome,omitempty"`
	Payout  int     `json:"payout,omitempty"`
	Balance int     `json:"balance"`
}

// Session event type names
const (
	EventTransferCompleted = "transfer.completed"
	EventAdminCredited     = "admin.credited"
	EventSessionResolved   = "session.resolved"
	EventSessionTimedOut   = "session.timed_out"
)

// SessionResolvedPayloadV1 is the typed payload for session resolution events
type SessionResolvedPayloadV1 struct {
	SessionID uuid.UUID `json:"session_id"`
	OwnerID   AccountID `json:"owner_id"`
	Game      GameKind  `json:"game"`
	Wager     int       `json:"wager"`
	Outcome   Outcome   `json:"outcome"`
	Payout    int       `json:"payout"`
}

// SessionTimedOutPayloadV1 is the typed payload for session timeout events
type SessionTimedOutPayloadV1 struct {
	SessionID uuid.UUID    `json:"session_id"`
	OwnerID   AccountID    `json:"owner_id"`
	Game      GameKind     `json:"game"`
	State     SessionState `json:"state"` // state the session timed out from
	Forfeited int          `json:"forfeited"`
}
