package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventType enumerates all domain event types.
type EventType string

const (
	EventTransactionRecorded EventType = "pickage.wallet.transaction.recorded"
	EventBetPlaced           EventType = "pickage.bet.placed"
	EventBetSettled          EventType = "pickage.bet.settled"
)

// AggregateType enumerates the aggregate root types for outbox events.
type AggregateType string

const (
	AggregateWallet AggregateType = "wallet"
	AggregateBet    AggregateType = "bet"
)

// OutboxDraft is the payload written to the event_outbox table. Events are
// inserted in the same database transaction as the state change they
// describe and published asynchronously by the outbox consumer.
type OutboxDraft struct {
	EventID       uuid.UUID       `json:"event_id"`
	AggregateType AggregateType   `json:"aggregate_type"`
	AggregateID   string          `json:"aggregate_id"`
	EventType     EventType       `json:"event_type"`
	PartitionKey  string          `json:"partition_key"`
	Headers       json.RawMessage `json:"headers"`
	Payload       json.RawMessage `json:"payload"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// OutboxRow is an outbox event read back for publishing, including its
// sequence id.
type OutboxRow struct {
	SeqID int64
	OutboxDraft
}
