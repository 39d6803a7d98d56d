package models

import "time"

// RampDirection distinguishes onramp (fiat in, stablecoin out) from
// offramp (stablecoin in, fiat out)
type RampDirection string

const (
	RampDirectionOnramp  RampDirection = "onramp"
	RampDirectionOfframp RampDirection = "offramp"
)

// RampSimulateRequest asks for a fiat transfer quote. For onramp the
// source is a bank account and the destination the vault wallet; for
// offramp the reverse.
type RampSimulateRequest struct {
	OrganizationID string  `json:"organization_id"`
	Token          string  `json:"token"`
	Amount         float64 `json:"amount"`
	BankAccountID  string  `json:"bank_account_id"`
	WalletAddress  string  `json:"wallet_address"`
}

// RampSimulateResult is a transfer quote tied to a persisted transaction
// record by TransactionID
type RampSimulateResult struct {
	TransactionID    string    `json:"transaction_id"`
	Fee              float64   `json:"fee"`
	NetAmount        float64   `json:"net_amount"`
	Provider         string    `json:"provider"`
	EstimatedArrival time.Time `json:"estimated_arrival"`
}

// RampExecuteRequest executes a previously simulated transfer
type RampExecuteRequest struct {
	OrganizationID string `json:"organization_id"`
	TransactionID  string `json:"transaction_id"`
}

// RampExecuteResult reports whether the provider accepted the transfer
type RampExecuteResult struct {
	TransactionID string `json:"transaction_id"`
	Status        string `json:"status"`
}

// FiatTransferQuote is the fiat rail provider's simulate response
type FiatTransferQuote struct {
	ExecutionID      string    `json:"execution_id"`
	Fee              float64   `json:"fee"`
	NetAmount        float64   `json:"net_amount"`
	Provider         string    `json:"provider"`
	EstimatedArrival time.Time `json:"estimated_arrival"`
}

// FiatTransferParams identifies the two sides of a fiat rail transfer
type FiatTransferParams struct {
	TransactionID string  `json:"transaction_id"`
	FromEntityID  string  `json:"from_entity_id"`
	FromAccountID string  `json:"from_account_id"`
	ToEntityID    string  `json:"to_entity_id"`
	ToAccountID   string  `json:"to_account_id"`
	ExactAmountIn float64 `json:"exact_amount_in"`
	Currency      string  `json:"currency"`
}

// ScreeningResult is the compliance provider's verdict for an address
type ScreeningResult string

const (
	ScreeningApproved ScreeningResult = "APPROVED"
	ScreeningReview   ScreeningResult = "REVIEW"
	ScreeningDenied   ScreeningResult = "DENIED"
)
