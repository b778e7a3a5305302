package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Ledger errors
	ErrMsgInvalidAmount     = "invalid amount"
	ErrMsgInsufficientFunds = "insufficient funds"
	ErrMsgSelfTransfer      = "cannot transfer to self"

	// Session errors
	ErrMsgUnauthorized      = "not authorized to act on this session"
	ErrMsgInvalidTransition = "action not allowed in current state"
	ErrMsgSessionExpired    = "session has expired"
	ErrMsgSessionNotFound   = "session not found"
	ErrMsgSessionActive     = "a session is already active for this user"
	ErrMsgUnknownGame       = "unknown game"
	ErrMsgUnknownAction     = "unknown action"
	ErrMsgShuttingDown      = "service is shutting down"

	// Persistence errors
	ErrMsgStoreUnavailable = "ledger store unavailable"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// Ledger errors
	ErrInvalidAmount     = errors.New(ErrMsgInvalidAmount)
	ErrInsufficientFunds = errors.New(ErrMsgInsufficientFunds)
	ErrSelfTransfer      = errors.New(ErrMsgSelfTransfer)

	// Session errors
	ErrUnauthorized      = errors.New(ErrMsgUnauthorized)
	ErrInvalidTransition = errors.New(ErrMsgInvalidTransition)
	ErrSessionExpired    = errors.New(ErrMsgSessionExpired)
	ErrSessionNotFound   = errors.New(ErrMsgSessionNotFound)
	ErrSessionActive     = errors.New(ErrMsgSessionActive)
	ErrUnknownGame       = errors.New(ErrMsgUnknownGame)
	ErrUnknownAction     = errors.New(ErrMsgUnknownAction)
	ErrShuttingDown      = errors.New(ErrMsgShuttingDown)

	// Persistence errors
	ErrStoreUnavailable = errors.New(ErrMsgStoreUnavailable)
)
