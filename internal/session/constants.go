package session

import "time"

// TerminalCacheSize bounds the number of retired sessions kept for the
// presentation window. The retain timer evicts entries sooner; the cap is a
// memory backstop under burst load.
const TerminalCacheSize = 512

// defaultCreditRetryDelay spaces settlement retries after a failed payout
// credit.
const defaultCreditRetryDelay = 5 * time.Second

// Blackjack deal sizes
const (
	initialHandSize = 2
)
