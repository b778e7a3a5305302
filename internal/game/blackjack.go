package game

import (
	"github.com/osse101/NuggetBot_Go/internal/domain"
	"github.com/osse101/NuggetBot_Go/internal/utils"
)

// CardRanks are the thirteen ranks of a suitless blackjack deck.
var CardRanks = []string{"A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}

// Blackjack thresholds
const (
	BlackjackTarget  = 21
	DealerStandsAt   = 17
	AceHighValue     = 11
	AceReduction     = 10
	FaceValue        = 10
	DeckCopies       = 4 // four copies of each rank, suits are irrelevant
)

// Deck is a shuffled shoe of card ranks. It rebuilds and reshuffles itself
// when exhausted mid-hand, matching the original dealer behavior.
type Deck struct {
	cards []string
	rng   func(int) int
}

// NewDeck builds a shuffled 52-card deck using the provided rng.
func NewDeck(rng func(int) int) *Deck {
	d := &Deck{rng: rng}
	d.rebuild()
	return d
}

func (d *Deck) rebuild() {
	d.cards = make([]string, 0, len(CardRanks)*DeckCopies)
	for i := 0; i < DeckCopies; i++ {
		d.cards = append(d.cards, CardRanks...)
	}
	utils.Shuffle(d.cards, d.rng)
}

// Draw removes and returns the top card, reshuffling a fresh deck if empty.
func (d *Deck) Draw() string {
	if len(d.cards) == 0 {
		d.rebuild()
	}
	card := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return card
}

// Remaining returns the number of undrawn cards.
func (d *Deck) Remaining() int {
	return len(d.cards)
}

// CardValue returns the blackjack point value of a rank, counting aces high.
func CardValue(rank string) int {
	switch rank {
	case "A":
		return AceHighValue
	case "J", "Q", "K", "10":
		return FaceValue
	default:
		// Numeral ranks "2".."9"
		return int(rank[0] - '0')
	}
}

// HandValue computes the best total for a hand. Aces count 11 and are
// reduced to 1 one at a time while the total exceeds 21. The hand is soft
// iff an ace still counts as 11 in the final total.
func HandValue(cards []string) (total int, soft bool) {
	aces := 0
	for _, c := range cards {
		if c == "A" {
			aces++
		}
		total += CardValue(c)
	}

	for total > BlackjackTarget && aces > 0 {
		total -= AceReduction
		aces--
	}

	return total, aces > 0
}

// DealerShouldHit implements the house policy: hit below 17 and on soft 17.
func DealerShouldHit(total int, soft bool) bool {
	return total < DealerStandsAt || (total == DealerStandsAt && soft)
}

// PlayDealer draws for the dealer until the policy says stand, returning the
// final hand.
func PlayDealer(hand []string, deck *Deck) []string {
	for {
		total, soft := HandValue(hand)
		if !DealerShouldHit(total, soft) {
			return hand
		}
		hand = append(hand, deck.Draw())
	}
}

// SettleBlackjack compares final hands and returns the payout for the given
// total stake (original wager plus any double-down addition). A player bust
// loses outright; a dealer bust or higher player total pays stake x2; a push
// returns the stake.
func SettleBlackjack(playerTotal, dealerTotal, stake int) (domain.Outcome, int) {
	if playerTotal > BlackjackTarget {
		return domain.OutcomeLose, 0
	}
	if dealerTotal > BlackjackTarget || playerTotal > dealerTotal {
		return domain.OutcomeWin, stake * 2
	}
	if playerTotal < dealerTotal {
		return domain.OutcomeLose, 0
	}
	return domain.OutcomeDraw, stake
}
