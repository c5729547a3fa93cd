//go:build integration

package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/pickage/platform/test/integration/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	propJoshAllen    = "prop-josh-allen-pass-yds"
	propDerrickHenry = "prop-derrick-henry-rush-yds"
)

type betJSON struct {
	ID              string  `json:"id"`
	PlayerName      string  `json:"player_name"`
	StatType        string  `json:"stat_type"`
	Line            float64 `json:"line"`
	Side            string  `json:"bet_type"`
	Odds            int     `json:"odds"`
	Amount          int64   `json:"amount"`
	PotentialPayout int64   `json:"potential_payout"`
	Status          string  `json:"status"`
	TransactionID   *string `json:"transaction_id"`
	SettledAt       *string `json:"settled_at"`
}

type placeBetJSON struct {
	Bet         betJSON `json:"bet"`
	Transaction struct {
		Type         string `json:"type"`
		Amount       int64  `json:"amount"`
		BalanceAfter int64  `json:"balance_after"`
	} `json:"transaction"`
	Profile struct {
		Balance       int64 `json:"balance"`
		TotalBets     int64 `json:"total_bets"`
		TotalWinnings int64 `json:"total_winnings"`
	} `json:"profile"`
	Idempotent bool `json:"idempotent"`
}

// ─── Prop Catalog Tests ────────────────────────────────────────────────────

func TestProps_ListsSlate(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token := env.MintPlayerToken(uuid.New())

	resp := env.AuthGET("/props", token)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Props []struct {
			ID         string  `json:"id"`
			PlayerName string  `json:"player_name"`
			Line       float64 `json:"line"`
			OverOdds   int     `json:"over_odds"`
			UnderOdds  int     `json:"under_odds"`
		} `json:"props"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	require.Len(t, result.Props, 3)
	assert.Equal(t, propJoshAllen, result.Props[0].ID)
	assert.Equal(t, "Josh Allen", result.Props[0].PlayerName)
	assert.Equal(t, 267.5, result.Props[0].Line)
	assert.Equal(t, -110, result.Props[0].OverOdds)
}

func TestProps_RequiresAuth(t *testing.T) {
	env := testutil.NewTestEnv(t)
	resp := env.GET("/props")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ─── Place Bet Tests ───────────────────────────────────────────────────────

func TestPlaceBet_EndToEnd(t *testing.T) {
	env := testutil.NewTestEnv(t)
	userID := uuid.New()
	token := env.MintPlayerToken(userID)
	env.SeedProfile(userID, 10000)

	resp := env.POST("/bets", map[string]interface{}{
		"prop_id": propJoshAllen, "bet_type": "over", "amount": 2500,
	}, token)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var result placeBetJSON
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))

	// Stake debited and counted against the profile.
	assert.Equal(t, int64(7500), result.Profile.Balance)
	assert.Equal(t, int64(1), result.Profile.TotalBets)
	assert.Equal(t, int64(0), result.Profile.TotalWinnings)

	// One bet_placed ledger entry for the stake.
	assert.Equal(t, "bet_placed", result.Transaction.Type)
	assert.Equal(t, int64(-2500), result.Transaction.Amount)
	assert.Equal(t, int64(7500), result.Transaction.BalanceAfter)

	// Payout priced at placement: 2500 at -110.
	assert.Equal(t, "pending", result.Bet.Status)
	assert.Equal(t, int64(4773), result.Bet.PotentialPayout)
	assert.Equal(t, -110, result.Bet.Odds)
	assert.Equal(t, "over", result.Bet.Side)
	assert.Equal(t, "Josh Allen", result.Bet.PlayerName)
	require.NotNil(t, result.Bet.TransactionID)

	assert.Equal(t, 1, env.CountRows("bets", userID))
	assert.Equal(t, 1, env.CountRows("transactions", userID))
	// One wallet event plus one bet event.
	assert.Equal(t, 2, env.CountOutboxEvents(userID.String()))
}

func TestPlaceBet_InsufficientFunds(t *testing.T) {
	env := testutil.NewTestEnv(t)
	userID := uuid.New()
	token := env.MintPlayerToken(userID)
	env.SeedProfile(userID, 1000)

	resp := env.POST("/bets", map[string]interface{}{
		"prop_id": propJoshAllen, "bet_type": "over", "amount": 2500,
	}, token)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "INSUFFICIENT_FUNDS", body.Code)

	// Everything rolls back: no bet, no ledger entry, balance untouched.
	assert.Equal(t, 0, env.CountRows("bets", userID))
	assert.Equal(t, 0, env.CountRows("transactions", userID))

	balResp := env.AuthGET("/wallet/balance", token)
	var bal struct {
		Balance int64 `json:"balance"`
	}
	testutil.DecodeBody(env, balResp, &bal)
	assert.Equal(t, int64(1000), bal.Balance)
}

func TestPlaceBet_UnknownPropRejected(t *testing.T) {
	env := testutil.NewTestEnv(t)
	userID := uuid.New()
	token := env.MintPlayerToken(userID)
	env.SeedProfile(userID, 10000)

	resp := env.POST("/bets", map[string]interface{}{
		"prop_id": "prop-nobody", "bet_type": "over", "amount": 2500,
	}, token)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPlaceBet_InvalidSideRejected(t *testing.T) {
	env := testutil.NewTestEnv(t)
	userID := uuid.New()
	token := env.MintPlayerToken(userID)
	env.SeedProfile(userID, 10000)

	resp := env.POST("/bets", map[string]interface{}{
		"prop_id": propJoshAllen, "bet_type": "both", "amount": 2500,
	}, token)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPlaceBet_ZeroStakeRejected(t *testing.T) {
	env := testutil.NewTestEnv(t)
	userID := uuid.New()
	token := env.MintPlayerToken(userID)
	env.SeedProfile(userID, 10000)

	resp := env.POST("/bets", map[string]interface{}{
		"prop_id": propJoshAllen, "bet_type": "over", "amount": 0,
	}, token)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPlaceBet_SideOddsUsed(t *testing.T) {
	env := testutil.NewTestEnv(t)
	userID := uuid.New()
	token := env.MintPlayerToken(userID)
	env.SeedProfile(userID, 10000)

	// Derrick Henry under is -105.
	resp := env.POST("/bets", map[string]interface{}{
		"prop_id": propDerrickHenry, "bet_type": "under", "amount": 2100,
	}, token)
	defer resp.Body.Close()

	var result placeBetJSON
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, -105, result.Bet.Odds)
	// 2100 at -105: 2100 + 2000 profit.
	assert.Equal(t, int64(4100), result.Bet.PotentialPayout)
}

func TestPlaceBet_DuplicateExternalRefReturnsOriginal(t *testing.T) {
	env := testutil.NewTestEnv(t)
	userID := uuid.New()
	token := env.MintPlayerToken(userID)
	env.SeedProfile(userID, 10000)

	body := map[string]interface{}{
		"prop_id": propJoshAllen, "bet_type": "over", "amount": 2500, "external_ref": "swipe-001",
	}

	resp1 := env.POST("/bets", body, token)
	var first placeBetJSON
	testutil.DecodeBody(env, resp1, &first)
	assert.Equal(t, http.StatusCreated, resp1.StatusCode)

	resp2 := env.POST("/bets", body, token)
	var second placeBetJSON
	testutil.DecodeBody(env, resp2, &second)

	assert.Equal(t, http.StatusOK, resp2.StatusCode)
	assert.True(t, second.Idempotent)
	assert.Equal(t, first.Bet.ID, second.Bet.ID)

	// Debited once, one bet on record.
	assert.Equal(t, int64(7500), second.Profile.Balance)
	assert.Equal(t, 1, env.CountRows("bets", userID))
	assert.Equal(t, 1, env.CountRows("transactions", userID))
}

func TestPlaceBet_RequiresAuth(t *testing.T) {
	env := testutil.NewTestEnv(t)
	resp := env.POST("/bets", map[string]interface{}{
		"prop_id": propJoshAllen, "bet_type": "over", "amount": 2500,
	}, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ─── My Bets Tests ─────────────────────────────────────────────────────────

func TestMyBets_ListsNewestFirst(t *testing.T) {
	env := testutil.NewTestEnv(t)
	userID := uuid.New()
	token := env.MintPlayerToken(userID)
	env.SeedProfile(userID, 10000)

	env.POST("/bets", map[string]interface{}{
		"prop_id": propJoshAllen, "bet_type": "over", "amount": 1000,
	}, token).Body.Close()
	env.POST("/bets", map[string]interface{}{
		"prop_id": propDerrickHenry, "bet_type": "under", "amount": 2000,
	}, token).Body.Close()

	resp := env.AuthGET("/bets/me", token)
	defer resp.Body.Close()

	var result struct {
		Bets []betJSON `json:"bets"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	require.Len(t, result.Bets, 2)
	assert.Equal(t, "Derrick Henry", result.Bets[0].PlayerName)
	assert.Equal(t, "Josh Allen", result.Bets[1].PlayerName)
}

func TestMyBets_UserIsolation(t *testing.T) {
	env := testutil.NewTestEnv(t)
	user1, user2 := uuid.New(), uuid.New()
	env.SeedProfile(user1, 10000)
	env.SeedProfile(user2, 10000)

	env.POST("/bets", map[string]interface{}{
		"prop_id": propJoshAllen, "bet_type": "over", "amount": 1000,
	}, env.MintPlayerToken(user1)).Body.Close()

	resp := env.AuthGET("/bets/me", env.MintPlayerToken(user2))
	defer resp.Body.Close()

	var result struct {
		Bets []json.RawMessage `json:"bets"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Empty(t, result.Bets)
}

// ─── Settlement Tests ──────────────────────────────────────────────────────

func placeBet(t *testing.T, env *testutil.TestEnv, token string, amount int64) betJSON {
	t.Helper()
	resp := env.POST("/bets", map[string]interface{}{
		"prop_id": propJoshAllen, "bet_type": "over", "amount": amount,
	}, token)
	var result placeBetJSON
	testutil.DecodeBody(env, resp, &result)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return result.Bet
}

func TestSettle_WonCreditsPayout(t *testing.T) {
	env := testutil.NewTestEnv(t)
	userID := uuid.New()
	token := env.MintPlayerToken(userID)
	env.SeedProfile(userID, 10000)

	bet := placeBet(t, env, token, 2500)

	resp := env.POST(fmt.Sprintf("/ops/bets/%s/settle", bet.ID),
		map[string]interface{}{"status": "won"}, env.MintOpsToken())
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Bet betJSON `json:"bet"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "won", result.Bet.Status)
	require.NotNil(t, result.Bet.SettledAt)

	// 10000 - 2500 stake + 4773 payout.
	walletResp := env.AuthGET("/wallet", token)
	var snapshot struct {
		Profile struct {
			Balance       int64 `json:"balance"`
			TotalWinnings int64 `json:"total_winnings"`
		} `json:"profile"`
		Transactions []struct {
			Type   string `json:"type"`
			Amount int64  `json:"amount"`
		} `json:"transactions"`
	}
	testutil.DecodeBody(env, walletResp, &snapshot)
	assert.Equal(t, int64(12273), snapshot.Profile.Balance)
	assert.Equal(t, int64(4773), snapshot.Profile.TotalWinnings)

	require.Len(t, snapshot.Transactions, 2)
	assert.Equal(t, "bet_won", snapshot.Transactions[0].Type)
	assert.Equal(t, int64(4773), snapshot.Transactions[0].Amount)
}

func TestSettle_LostPostsZeroAmountEntry(t *testing.T) {
	env := testutil.NewTestEnv(t)
	userID := uuid.New()
	token := env.MintPlayerToken(userID)
	env.SeedProfile(userID, 10000)

	bet := placeBet(t, env, token, 2500)

	resp := env.POST(fmt.Sprintf("/ops/bets/%s/settle", bet.ID),
		map[string]interface{}{"status": "lost"}, env.MintOpsToken())
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	walletResp := env.AuthGET("/wallet", token)
	var snapshot struct {
		Profile struct {
			Balance       int64 `json:"balance"`
			TotalWinnings int64 `json:"total_winnings"`
		} `json:"profile"`
		Transactions []struct {
			Type   string `json:"type"`
			Amount int64  `json:"amount"`
		} `json:"transactions"`
	}
	testutil.DecodeBody(env, walletResp, &snapshot)

	// Loss leaves the balance where the stake debit put it.
	assert.Equal(t, int64(7500), snapshot.Profile.Balance)
	assert.Equal(t, int64(0), snapshot.Profile.TotalWinnings)

	require.Len(t, snapshot.Transactions, 2)
	assert.Equal(t, "bet_lost", snapshot.Transactions[0].Type)
	assert.Equal(t, int64(0), snapshot.Transactions[0].Amount)
}

func TestSettle_ExactlyOnce(t *testing.T) {
	env := testutil.NewTestEnv(t)
	userID := uuid.New()
	token := env.MintPlayerToken(userID)
	env.SeedProfile(userID, 10000)

	bet := placeBet(t, env, token, 2500)
	opsToken := env.MintOpsToken()

	resp1 := env.POST(fmt.Sprintf("/ops/bets/%s/settle", bet.ID),
		map[string]interface{}{"status": "won"}, opsToken)
	resp1.Body.Close()
	assert.Equal(t, http.StatusOK, resp1.StatusCode)

	resp2 := env.POST(fmt.Sprintf("/ops/bets/%s/settle", bet.ID),
		map[string]interface{}{"status": "won"}, opsToken)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp2.StatusCode)

	// Payout credited once.
	balResp := env.AuthGET("/wallet/balance", token)
	var bal struct {
		Balance int64 `json:"balance"`
	}
	testutil.DecodeBody(env, balResp, &bal)
	assert.Equal(t, int64(12273), bal.Balance)
}

func TestSettle_UnknownBet(t *testing.T) {
	env := testutil.NewTestEnv(t)

	resp := env.POST(fmt.Sprintf("/ops/bets/%s/settle", uuid.New()),
		map[string]interface{}{"status": "won"}, env.MintOpsToken())
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSettle_InvalidStatusRejected(t *testing.T) {
	env := testutil.NewTestEnv(t)
	userID := uuid.New()
	token := env.MintPlayerToken(userID)
	env.SeedProfile(userID, 10000)

	bet := placeBet(t, env, token, 2500)

	resp := env.POST(fmt.Sprintf("/ops/bets/%s/settle", bet.ID),
		map[string]interface{}{"status": "pending"}, env.MintOpsToken())
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSettle_PlayerTokenRejected(t *testing.T) {
	env := testutil.NewTestEnv(t)
	userID := uuid.New()
	token := env.MintPlayerToken(userID)
	env.SeedProfile(userID, 10000)

	bet := placeBet(t, env, token, 2500)

	resp := env.POST(fmt.Sprintf("/ops/bets/%s/settle", bet.ID),
		map[string]interface{}{"status": "won"}, token)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
