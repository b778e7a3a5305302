package handler

import (
	"net/http"

	"github.com/osse101/NuggetBot_Go/internal/domain"
	"github.com/osse101/NuggetBot_Go/internal/ledger"
	"github.com/osse101/NuggetBot_Go/internal/logger"
)

// EconomyHandler serves balance and transfer endpoints
type EconomyHandler struct {
	ledgerSvc ledger.Service
}

// NewEconomyHandler creates a new EconomyHandler
func NewEconomyHandler(ledgerSvc ledger.Service) *EconomyHandler {
	return &EconomyHandler{ledgerSvc: ledgerSvc}
}

// BalanceResponse reports an account's current balance
type BalanceResponse struct {
	AccountID string `json:"account_id"`
	Amount    int    `json:"amount"`
}

// TransferRequest moves nuggets between two accounts
type TransferRequest struct {
	FromID string `json:"from_id" validate:"required,max=64"`
	ToID   string `json:"to_id" validate:"required,max=64"`
	Amount int    `json:"amount" validate:"required,gt=0"`
}

// AdminCreditRequest adjusts an account by a signed, non-zero delta
type AdminCreditRequest struct {
	AccountID string `json:"account_id" validate:"required,max=64"`
	Amount    int    `json:"amount" validate:"required,ne=0"`
}

// CreditResponse reports the balance after an admin adjustment
type CreditResponse struct {
	AccountID  string `json:"account_id"`
	NewBalance int    `json:"new_balance"`
}

// HandleGetBalance returns the balance for the account_id query parameter.
// Unknown accounts report zero.
func (h *EconomyHandler) HandleGetBalance(w http.ResponseWriter, r *http.Request) {
	accountID, ok := GetQueryParam(r, w, "account_id")
	if !ok {
		return
	}

	amount, err := h.ledgerSvc.GetBalance(r.Context(), domain.AccountID(accountID))
	if err != nil {
		respondServiceError(w, r, "Get balance", err)
		return
	}

	respondJSON(w, http.StatusOK, BalanceResponse{AccountID: accountID, Amount: amount})
}

// HandleTransfer moves nuggets from one account to another
func (h *EconomyHandler) HandleTransfer(w http.ResponseWriter, r *http.Request) {
	var req TransferRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Transfer"); err != nil {
		return
	}

	log := logger.FromContext(r.Context())
	log.Info("Transfer requested", "fromID", req.FromID, "toID", req.ToID, "amount", req.Amount)

	err := h.ledgerSvc.Transfer(r.Context(), domain.AccountID(req.FromID), domain.AccountID(req.ToID), req.Amount)
	if err != nil {
		respondServiceError(w, r, "Transfer", err)
		return
	}

	respondJSON(w, http.StatusOK, SuccessResponse{Message: "transfer completed"})
}

// HandleAdminCredit applies a signed balance adjustment
func (h *EconomyHandler) HandleAdminCredit(w http.ResponseWriter, r *http.Request) {
	var req AdminCreditRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Admin credit"); err != nil {
		return
	}

	log := logger.FromContext(r.Context())
	log.Info("Admin credit requested", "accountID", req.AccountID, "amount", req.Amount)

	newBalance, err := h.ledgerSvc.AdminCredit(r.Context(), domain.AccountID(req.AccountID), req.Amount)
	if err != nil {
		respondServiceError(w, r, "Admin credit", err)
		return
	}

	respondJSON(w, http.StatusOK, CreditResponse{AccountID: req.AccountID, NewBalance: newBalance})
}
