package models

import "time"

// SwapRequest is the input to swap simulation and preparation
type SwapRequest struct {
	OrganizationID    string  `json:"organization_id"`
	FromToken         string  `json:"from_token"`
	ToToken           string  `json:"to_token"`
	Amount            float64 `json:"amount"`
	SlippageTolerance float64 `json:"slippage_tolerance"`
}

// SwapQuote is the result of simulating a swap across venues
type SwapQuote struct {
	AmountIn           float64 `json:"amount_in"`
	EstimatedAmountOut float64 `json:"estimated_amount_out"`
	MinimumAmountOut   float64 `json:"minimum_amount_out"`
	PriceImpact        float64 `json:"price_impact"`
	ExchangeRate       float64 `json:"exchange_rate"`
	FeeAmount          float64 `json:"fee_amount"`
	Route              string  `json:"route"`
}

// SwapPrepareRequest carries the original quote so the server can detect
// price drift between quote and preparation
type SwapPrepareRequest struct {
	SwapRequest
	ExpectedAmountOut float64 `json:"expected_amount_out"`
	WalletAddress     string  `json:"wallet_address"`
	TransactionID     string  `json:"transaction_id,omitempty"`
}

// PreparedSwap is returned by prepare: an unsigned transaction the user
// must sign, correlated to server-held state by TransactionID
type PreparedSwap struct {
	TransactionID         string    `json:"transaction_id"`
	SerializedTransaction string    `json:"serialized_transaction"`
	ExpiresAt             time.Time `json:"expires_at"`
}

// PreparedTransaction is the server-held record for an in-flight swap,
// stored with a TTL and keyed by an opaque transaction id. It must never
// be served to a different organization than the one that prepared it.
type PreparedTransaction struct {
	TransactionID    string      `json:"transaction_id"`
	OrganizationID   string      `json:"organization_id"`
	UnsignedTx       []byte      `json:"unsigned_tx"`
	SwapDetails      SwapQuote   `json:"swap_details"`
	OriginalParams   SwapRequest `json:"original_params"`
	MemberWallet     string      `json:"member_wallet"`
	TransactionIndex uint64      `json:"transaction_index"`
	Threshold        uint16      `json:"threshold"`
	VaultMessage     []byte      `json:"vault_message"`
	ExpiresAt        time.Time   `json:"expires_at"`
}

// ExecutionContext tracks the second phase of a two-phase swap, keyed by
// the proposal transaction's signature. Created when propose/approve lands
// but the multisig execute still needs its own user signature.
type ExecutionContext struct {
	ProposalSignature string      `json:"proposal_signature"`
	OrganizationID    string      `json:"organization_id"`
	TransactionIndex  uint64      `json:"transaction_index"`
	MemberWallet      string      `json:"member_wallet"`
	UnsignedExecuteTx []byte      `json:"unsigned_execute_tx"`
	SwapDetails       SwapQuote   `json:"swap_details"`
	OriginalParams    SwapRequest `json:"original_params"`
}

// SwapExecuteRequest submits the user-signed proposal transaction
type SwapExecuteRequest struct {
	OrganizationID              string `json:"organization_id"`
	TransactionID               string `json:"transaction_id"`
	SerializedSignedTransaction string `json:"serialized_signed_transaction"`
}

// SwapExecuteResult reports the proposal outcome. When the multisig
// threshold requires a distinct execute transaction, NeedsExecution is set
// and ExecutionTransaction carries the next unsigned transaction.
type SwapExecuteResult struct {
	TransactionSignature string `json:"transaction_signature"`
	NeedsExecution       bool   `json:"needs_execution,omitempty"`
	ExecutionTransaction string `json:"execution_transaction,omitempty"`
}

// SwapFinalizeRequest submits the user-signed execution transaction for a
// two-phase swap
type SwapFinalizeRequest struct {
	OrganizationID                       string `json:"organization_id"`
	ExecutionSignature                   string `json:"execution_signature"`
	SerializedSignedExecutionTransaction string `json:"serialized_signed_execution_transaction"`
}

// SwapFinalizeResult is the terminal result of a finalized swap
type SwapFinalizeResult struct {
	TransactionSignature string `json:"transaction_signature"`
	Status               string `json:"status"`
}

// SwapCompletedEvent is published on NATS when a swap reaches its terminal
// confirmed state
type SwapCompletedEvent struct {
	OrganizationID string    `json:"organization_id"`
	FromToken      string    `json:"from_token"`
	ToToken        string    `json:"to_token"`
	AmountIn       float64   `json:"amount_in"`
	AmountOut      float64   `json:"amount_out"`
	Signature      string    `json:"signature"`
	Timestamp      time.Time `json:"timestamp"`
}
