package game

import (
	"fmt"

	"github.com/osse101/NuggetBot_Go/internal/domain"
)

// DiceRank orders chinchiro rolls. Higher beats lower; equal ranks draw.
type DiceRank int

// Sentinel ranks. AutoLose ({1,2,3}) sits below every numeric rank and
// forfeits the stake unconditionally. NoPoint loses to any pair or triple
// and ties only another NoPoint. Pairs score the unmatched die (1-6) and
// triples score 100 plus the face so they beat everything and order by face.
const (
	RankAutoLose DiceRank = -1
	RankNoPoint  DiceRank = 0
	TripleBase   DiceRank = 100
)

// DiceCount is the number of dice in a chinchiro roll
const DiceCount = 3

// DieFaces is the number of faces on a die
const DieFaces = 6

// IsTriple reports whether the rank came from a triple
func (r DiceRank) IsTriple() bool {
	return r >= TripleBase
}

// WinMultiplier is the stake multiplier applied when this rank wins.
// Total return on a win is stake * (1 + multiplier).
func (r DiceRank) WinMultiplier() int {
	if r.IsTriple() {
		return 3
	}
	return 1
}

// RollDice draws three dice using the provided rng (rng(n) in [0, n)).
func RollDice(rng func(int) int) []int {
	roll := make([]int, DiceCount)
	for i := range roll {
		roll[i] = rng(DieFaces) + 1
	}
	return roll
}

// ScoreRoll ranks a three-die roll and returns a display label for it.
func ScoreRoll(roll []int) (DiceRank, string) {
	s := sortedCopy(roll)

	if s[0] == 1 && s[1] == 2 && s[2] == 3 {
		return RankAutoLose, "1-2-3 (auto lose)"
	}

	if s[0] == s[1] && s[1] == s[2] {
		return TripleBase + DiceRank(s[0]), fmt.Sprintf("triple %d-%d-%d", s[0], s[1], s[2])
	}

	if s[0] == s[1] || s[1] == s[2] {
		single := s[2]
		if s[1] == s[2] {
			single = s[0]
		}
		return DiceRank(single), fmt.Sprintf("pair %d-%d-%d (point: %d)", roll[0], roll[1], roll[2], single)
	}

	return RankNoPoint, fmt.Sprintf("no point %d-%d-%d", roll[0], roll[1], roll[2])
}

// SettleDice compares player and dealer ranks and returns the payout for the
// given stake. Draw returns the stake; a win returns stake*(1+multiplier);
// a loss (including the player's own auto-lose) returns 0.
func SettleDice(player, dealer DiceRank, stake int) (domain.Outcome, int) {
	if player == dealer {
		return domain.OutcomeDraw, stake
	}
	// Auto-lose forfeits regardless of the dealer's roll.
	if player == RankAutoLose {
		return domain.OutcomeLose, 0
	}
	if dealer == RankAutoLose || player > dealer {
		return domain.OutcomeWin, stake * (1 + player.WinMultiplier())
	}
	return domain.OutcomeLose, 0
}

func sortedCopy(roll []int) []int {
	s := make([]int, len(roll))
	copy(s, roll)
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j] < s[j-1]; j-- {
			s[j], s[j-1] = s[j-1], s[j]
		}
	}
	return s
}
