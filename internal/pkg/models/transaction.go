package models

import (
	"time"

	"github.com/google/uuid"
)

// Transaction types
const (
	TransactionTypeDeposit    = "deposit"
	TransactionTypeWithdrawal = "withdrawal"
	TransactionTypePayment    = "payment"
	TransactionTypeTransfer   = "transfer"
	TransactionTypeRequest    = "request"
	TransactionTypeOther      = "other"
)

// Transaction statuses
const (
	TransactionStatusSimulated  = "simulated"
	TransactionStatusPending    = "pending"
	TransactionStatusProcessing = "processing"
	TransactionStatusCompleted  = "completed"
	TransactionStatusFailed     = "failed"
	TransactionStatusCancelled  = "cancelled"
)

// TransactionMetadata correlates the local record to the fiat rail
// provider's operation. ExecutionID is unique per record; a record must
// never be executed twice for the same execution id.
type TransactionMetadata struct {
	ExecutionID   string  `json:"execution_id,omitempty"`
	FromEntityID  string  `json:"from_entity_id,omitempty"`
	FromAccountID string  `json:"from_account_id,omitempty"`
	ToEntityID    string  `json:"to_entity_id,omitempty"`
	ToAccountID   string  `json:"to_account_id,omitempty"`
	Fee           float64 `json:"fee,omitempty"`
	NetAmount     float64 `json:"net_amount,omitempty"`
	Provider      string  `json:"provider,omitempty"`
}

// Transaction is the persisted record of a fiat rail movement. The id
// doubles as the simulation/execution correlation id.
type Transaction struct {
	ID              uuid.UUID           `json:"id" db:"id"`
	OrganizationID  uuid.UUID           `json:"organization_id" db:"organization_id"`
	Amount          float64             `json:"amount" db:"amount"`
	Currency        string              `json:"currency" db:"currency"`
	TransactionType string              `json:"transaction_type" db:"transaction_type"`
	Status          string              `json:"status" db:"status"`
	Metadata        TransactionMetadata `json:"metadata" db:"-"`
	RawMetadata     []byte              `json:"-" db:"metadata"`
	CreatedAt       time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at" db:"updated_at"`
}

// TransactionEvent is published on NATS when a transaction record changes
// status
type TransactionEvent struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	Type           string    `json:"type"`
	Status         string    `json:"status"`
	Amount         float64   `json:"amount"`
	Currency       string    `json:"currency"`
	Timestamp      time.Time `json:"timestamp"`
}
