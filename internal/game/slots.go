package game

// Symbols is the slot machine reel strip. Each reel draws uniformly.
var Symbols = []string{"🍒", "⭐", "💎", "🍋", "🍊", "🔔"}

// ReelCount is the number of reels on the machine
const ReelCount = 3

// Payout multipliers for matching reels
const (
	TripleMatchMultiplier = 10
	PairMatchMultiplier   = 2
)

// SpinReels draws three symbols using the provided rng.
func SpinReels(rng func(int) int) []string {
	reels := make([]string, ReelCount)
	for i := range reels {
		reels[i] = Symbols[rng(len(Symbols))]
	}
	return reels
}

// SlotsPayout returns the payout for a spin: triple match pays stake x10,
// any two matching reels pay stake x2, anything else forfeits the stake.
func SlotsPayout(reels []string, stake int) int {
	if reels[0] == reels[1] && reels[1] == reels[2] {
		return stake * TripleMatchMultiplier
	}
	if reels[0] == reels[1] || reels[1] == reels[2] || reels[0] == reels[2] {
		return stake * PairMatchMultiplier
	}
	return 0
}
