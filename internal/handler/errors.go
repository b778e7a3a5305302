package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details.
// Both handlers and tests should reference these constants to maintain consistency.
const (
	// HTTP status messages
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"

	// Query parameter error messages
	ErrMsgMissingQueryParam = "Missing %s query parameter"

	// Ledger operation error messages
	ErrMsgInvalidAmountError  = "Amount must be positive"
	ErrMsgNotEnoughNuggets    = "Not enough nuggets"
	ErrMsgSelfTransferError   = "You cannot pay yourself"
	ErrMsgTransferFailed      = "Failed to transfer nuggets"
	ErrMsgCreditFailed        = "Failed to credit nuggets"
	ErrMsgGetBalanceFailed    = "Failed to get balance"

	// Session operation error messages
	ErrMsgSessionNotFoundError = "Session not found"
	ErrMsgSessionActiveError   = "You already have a wager in progress"
	ErrMsgSessionExpiredError  = "That wager has expired"
	ErrMsgStaleActionError     = "That action is no longer available"
	ErrMsgNotYourSessionError  = "That wager belongs to someone else"
	ErrMsgUnknownGameError     = "Unknown game"
	ErrMsgUnknownActionError   = "Unknown action"

	// Generic messages
	ErrMsgUnknownError     = "Unknown error"
	ErrMsgServerError      = "Server error occurred. Please try again."
	ErrMsgUnavailableError = "Server is temporarily unavailable. Please try again later."
)
