package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/pickage/platform/internal/domain"
	"github.com/pickage/platform/internal/service"
)

// OpsHandler handles operator-only endpoints: settlement and bonus grants.
type OpsHandler struct {
	wallet  *service.WalletService
	betting *service.BettingService
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(wallet *service.WalletService, betting *service.BettingService) *OpsHandler {
	return &OpsHandler{wallet: wallet, betting: betting}
}

// settleRequest is the body of POST /ops/bets/{betID}/settle.
type settleRequest struct {
	Status domain.BetStatus `json:"status"`
}

// SettleBet handles POST /ops/bets/{betID}/settle.
func (h *OpsHandler) SettleBet(w http.ResponseWriter, r *http.Request) {
	betID, err := uuid.Parse(chi.URLParam(r, "betID"))
	if err != nil {
		RespondError(w, domain.ErrValidation("invalid bet id"))
		return
	}

	var req settleRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}

	bet, err := h.betting.Settle(r.Context(), betID, req.Status)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, map[string]interface{}{"bet": bet})
}

// bonusRequest is the body of POST /ops/bonus.
type bonusRequest struct {
	UserID      uuid.UUID `json:"user_id"`
	Amount      int64     `json:"amount"`
	Description string    `json:"description"`
	ExternalRef string    `json:"external_ref"`
}

// GrantBonus handles POST /ops/bonus.
func (h *OpsHandler) GrantBonus(w http.ResponseWriter, r *http.Request) {
	var req bonusRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}
	if req.UserID == uuid.Nil {
		RespondError(w, domain.ErrValidation("user_id is required"))
		return
	}

	result, err := h.wallet.BonusCredit(r.Context(), domain.BonusCreditParams{
		UserID:      req.UserID,
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
