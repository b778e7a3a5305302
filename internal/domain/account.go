package domain

// AccountID identifies a wallet by the opaque platform user ID.
// Accounts are created implicitly on first reference with a zero balance.
type AccountID string

// Balance pairs an account with its current nugget balance.
type Balance struct {
	AccountID AccountID `json:"account_id"`
	Amount    int       `json:"amount"`
}

// Transfer event payload types

// TransferCompletedPayloadV1 is the typed payload for transfer events
type TransferCompletedPayloadV1 struct {
	FromID AccountID `json:"from_id"`
	ToID   AccountID `json:"to_id"`
	Amount int       `json:"amount"`
}

// AdminCreditedPayloadV1 is the typed payload for admin credit events
type AdminCreditedPayloadV1 struct {
	AccountID  AccountID `json:"account_id"`
	Amount     int       `json:"amount"`
	NewBalance int       `json:"new_balance"`
}
