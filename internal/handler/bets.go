package handler

import (
	"net/http"
	"strconv"

	"github.com/pickage/platform/internal/domain"
	"github.com/pickage/platform/internal/service"
)

// BetsHandler handles the prop catalog and bet placement endpoints.
type BetsHandler struct {
	betting *service.BettingService
}

// NewBetsHandler creates a new BetsHandler.
func NewBetsHandler(betting *service.BettingService) *BetsHandler {
	return &BetsHandler{betting: betting}
}

// ListProps handles GET /props.
func (h *BetsHandler) ListProps(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusOK, map[string]interface{}{
		"props": h.betting.ListProps(r.Context()),
	})
}

// placeBetRequest is the body of POST /bets.
type placeBetRequest struct {
	PropID      string         `json:"prop_id"`
	Side        domain.BetSide `json:"bet_type"`
	Amount      int64          `json:"amount"`
	ExternalRef string         `json:"external_ref"`
}

// placeBetResponse is the shape of a successful placement.
type placeBetResponse struct {
	Bet         *domain.Bet         `json:"bet"`
	Transaction *domain.Transaction `json:"transaction"`
	Profile     *domain.Profile     `json:"profile"`
	Idempotent  bool                `json:"idempotent,omitempty"`
}

// PlaceBet handles POST /bets.
func (h *BetsHandler) PlaceBet(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	var req placeBetRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}
	if req.PropID == "" {
		RespondError(w, domain.ErrValidation("prop_id is required"))
		return
	}

	result, err := h.betting.PlaceBet(r.Context(), service.PlaceBetParams{
		UserID:      userID,
		PropID:      req.PropID,
		Side:        req.Side,
		Stake:       req.Amount,
		ExternalRef: req.ExternalRef,
	})
	if err != nil {
		RespondError(w, err)
		return
	}

	status := http.StatusCreated
	if result.Idempotent {
		status = http.StatusOK
	}
	RespondJSON(w, status, placeBetResponse{
		Bet:         result.Bet,
		Transaction: result.Result.Transaction,
		Profile:     result.Result.Profile,
		Idempotent:  result.Idempotent,
	})
}

// MyBets handles GET /bets/me.
func (h *BetsHandler) MyBets(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if n, err := strconv.Atoi(limitStr); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	bets, err := h.betting.MyBets(r.Context(), userID, limit)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, map[string]interface{}{"bets": bets})
}
