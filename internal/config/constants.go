package config

import "time"

// Ledger backend identifiers
const (
	LedgerBackendFile     = "file"
	LedgerBackendPostgres = "postgres"
)

// Session timing defaults. The confirm and play windows mirror the original
// confirmation and blackjack view lifetimes; the retain window is how long a
// resolved result stays actionable (replay).
const (
	DefaultConfirmTimeout = 60 * time.Second
	DefaultPlayTimeout    = 180 * time.Second
	DefaultRetainWindow   = 120 * time.Second
)
