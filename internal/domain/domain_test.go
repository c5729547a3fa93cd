package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Validator Tests ---

func TestValidatePositiveAmount(t *testing.T) {
	t.Run("positive amount passes", func(t *testing.T) {
		assert.NoError(t, ValidatePositiveAmount(1))
		assert.NoError(t, ValidatePositiveAmount(250000))
	})

	t.Run("zero rejected", func(t *testing.T) {
		err := ValidatePositiveAmount(0)
		var appErr *AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "INVALID_AMOUNT", appErr.Code)
		assert.Equal(t, 400, appErr.Status)
	})

	t.Run("negative rejected", func(t *testing.T) {
		err := ValidatePositiveAmount(-500)
		var appErr *AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "INVALID_AMOUNT", appErr.Code)
	})
}

func TestValidateBetSide(t *testing.T) {
	assert.NoError(t, ValidateBetSide(SideOver))
	assert.NoError(t, ValidateBetSide(SideUnder))

	err := ValidateBetSide(BetSide("both"))
	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestValidateAmericanOdds(t *testing.T) {
	assert.NoError(t, ValidateAmericanOdds(100))
	assert.NoError(t, ValidateAmericanOdds(-110))
	assert.NoError(t, ValidateAmericanOdds(250))

	for _, odds := range []int{0, 50, -99, 99} {
		assert.Error(t, ValidateAmericanOdds(odds), "odds %d should be rejected", odds)
	}
}

// --- AppError Tests ---

func TestAppError(t *testing.T) {
	t.Run("message and code in Error()", func(t *testing.T) {
		err := ErrInsufficientFunds()
		assert.Equal(t, 400, err.Status)
		assert.Contains(t, err.Error(), "INSUFFICIENT_FUNDS")
		assert.Contains(t, err.Error(), "insufficient funds")
	})

	t.Run("store write carries cause verbatim", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := ErrStoreWrite("insert transaction", cause)
		assert.Equal(t, "STORE_WRITE_FAILURE", err.Code)
		assert.Equal(t, 502, err.Status)
		assert.Contains(t, err.Message, "connection refused")
		assert.ErrorIs(t, err, cause)
	})

	t.Run("not found names the entity", func(t *testing.T) {
		err := ErrNotFound("bet", "abc")
		assert.Equal(t, 404, err.Status)
		assert.Contains(t, err.Message, "bet abc not found")
	})

	t.Run("rate limited", func(t *testing.T) {
		err := ErrRateLimited("rate limit exceeded: 10/10s")
		assert.Equal(t, 429, err.Status)
	})
}

// --- Event Constructor Tests ---

func TestNewTransactionRecordedEvent(t *testing.T) {
	tx := &Transaction{
		ID:           uuid.New(),
		UserID:       uuid.New(),
		Type:         TxDeposit,
		Amount:       5000,
		BalanceAfter: 15000,
	}

	event := NewTransactionRecordedEvent(tx)
	assert.Equal(t, AggregateWallet, event.AggregateType)
	assert.Equal(t, EventTransactionRecorded, event.EventType)
	assert.Equal(t, tx.UserID.String(), event.AggregateID)
	assert.Equal(t, tx.UserID.String(), event.PartitionKey)
	assert.NotEqual(t, uuid.Nil, event.EventID)

	var decoded Transaction
	require.NoError(t, json.Unmarshal(event.Payload, &decoded))
	assert.Equal(t, tx.ID, decoded.ID)
	assert.Equal(t, int64(5000), decoded.Amount)
}

func TestBetEvents(t *testing.T) {
	bet := &Bet{
		ID:     uuid.New(),
		UserID: uuid.New(),
		Side:   SideOver,
		Status: BetStatusPending,
	}

	placed := NewBetPlacedEvent(bet)
	assert.Equal(t, AggregateBet, placed.AggregateType)
	assert.Equal(t, EventBetPlaced, placed.EventType)
	assert.Equal(t, bet.ID.String(), placed.AggregateID)
	assert.Equal(t, bet.UserID.String(), placed.PartitionKey)

	bet.Status = BetStatusWon
	settled := NewBetSettledEvent(bet)
	assert.Equal(t, EventBetSettled, settled.EventType)

	var decoded Bet
	require.NoError(t, json.Unmarshal(settled.Payload, &decoded))
	assert.Equal(t, BetStatusWon, decoded.Status)
}

// --- Prop Tests ---

func TestPropSideOdds(t *testing.T) {
	p := Prop{OverOdds: -115, UnderOdds: -105}
	assert.Equal(t, -115, p.SideOdds(SideOver))
	assert.Equal(t, -105, p.SideOdds(SideUnder))
}

// --- ProfileUpdate Tests ---

func TestProfileUpdateDeltas(t *testing.T) {
	assert.False(t, ProfileUpdate{}.HasBalanceDelta())
	assert.True(t, ProfileUpdate{Balance: -2500}.HasBalanceDelta())
	assert.True(t, ProfileUpdate{Bets: 1}.HasBetsDelta())
	assert.True(t, ProfileUpdate{Winnings: 4773}.HasWinningsDelta())
}

// --- CreditTypes Tests ---

func TestCreditTypes(t *testing.T) {
	assert.True(t, CreditTypes[TxDeposit])
	assert.True(t, CreditTypes[TxBetWon])
	assert.True(t, CreditTypes[TxBonus])
	assert.False(t, CreditTypes[TxWithdrawal])
	assert.False(t, CreditTypes[TxBetPlaced])
	assert.False(t, CreditTypes[TxBetLost])
}
