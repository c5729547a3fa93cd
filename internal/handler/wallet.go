package handler

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/pickage/platform/internal/auth"
	"github.com/pickage/platform/internal/domain"
	"github.com/pickage/platform/internal/service"
)

// WalletHandler handles wallet refresh, balance and transaction endpoints.
type WalletHandler struct {
	wallet *service.WalletService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(wallet *service.WalletService) *WalletHandler {
	return &WalletHandler{wallet: wallet}
}

// GetWallet handles GET /wallet: the authoritative profile plus the most
// recent transactions.
func (h *WalletHandler) GetWallet(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	snapshot, err := h.wallet.Refresh(r.Context(), userID)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, snapshot)
}

// GetBalance handles GET /wallet/balance from the snapshot projection.
func (h *WalletHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	balance, err := h.wallet.GetBalance(r.Context(), userID)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, balance)
}

// txListResponse wraps a list of transactions with cursor.
type txListResponse struct {
	Transactions []domain.Transaction `json:"transactions"`
	NextCursor   *string              `json:"next_cursor,omitempty"`
}

// GetTransactions handles GET /wallet/transactions with cursor-based pagination.
func (h *WalletHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	limit := 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if n, err := strconv.Atoi(limitStr); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	var cursor *string
	if c := r.URL.Query().Get("cursor"); c != "" {
		cursor = &c
	}

	txs, err := h.wallet.ListTransactions(r.Context(), userID, cursor, limit+1)
	if err != nil {
		RespondError(w, err)
		return
	}

	resp := txListResponse{Transactions: txs}
	if len(txs) > limit {
		resp.Transactions = txs[:limit]
		nextID := txs[limit].ID.String()
		resp.NextCursor = &nextID
	}

	RespondJSON(w, http.StatusOK, resp)
}

// amountRequest is the body of POST /wallet/deposit and /wallet/withdraw.
type amountRequest struct {
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
	ExternalRef string `json:"external_ref"`
}

// commandResponse is the shape of successful wallet mutations.
type commandResponse struct {
	Transaction *domain.Transaction `json:"transaction"`
	Profile     *domain.Profile     `json:"profile"`
	Idempotent  bool                `json:"idempotent,omitempty"`
}

// Deposit handles POST /wallet/deposit.
func (h *WalletHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	var req amountRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}

	result, err := h.wallet.Deposit(r.Context(), domain.DepositParams{
		UserID:      userID,
		Amount:      req.Amount,
		Description: req.Description,
		ExternalRef: req.ExternalRef,
	})
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, commandResponse{
		Transaction: result.Transaction,
		Profile:     result.Profile,
		Idempotent:  result.Idempotent,
	})
}

// Withdraw handles POST /wallet/withdraw.
func (h *WalletHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	var req amountRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}

	result, err := h.wallet.Withdraw(r.Context(), domain.WithdrawParams{
		UserID:      userID,
		Amount:      req.Amount,
		Description: req.Description,
		ExternalRef: req.ExternalRef,
	})
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, commandResponse{
		Transaction: result.Transaction,
		Profile:     result.Profile,
		Idempotent:  result.Idempotent,
	})
}

// userIDFromContext extracts and validates the user UUID from auth context.
func userIDFromContext(r *http.Request) (uuid.UUID, error) {
	sub := auth.SubjectFromContext(r.Context())
	if sub == "" {
		return uuid.Nil, domain.ErrNotAuthenticated()
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, domain.ErrNotAuthenticated()
	}
	return id, nil
}
