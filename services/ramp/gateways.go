package ramp

import (
	"context"

	"github.com/stablehq/treasury/internal/pkg/models"
)

//go:generate mockgen -destination=mocks/mock_gateways.go -package=mocks github.com/stablehq/treasury/services/ramp FiatRailGW,ComplianceGW,EventGW

// FiatRailGW wraps the ramping provider's entity/account/transfer API
type FiatRailGW interface {
	// EnsureWalletAccount returns the provider account id bound to the
	// wallet address under the entity, creating the binding on first use
	EnsureWalletAccount(ctx context.Context, entityID, walletAddress, token string) (string, error)

	// SimulateTransfer requests a transfer quote for the given legs
	SimulateTransfer(ctx context.Context, params *models.FiatTransferParams) (*models.FiatTransferQuote, error)

	// ExecuteTransfer executes a previously quoted transfer. Calls carry
	// an idempotency key so a client retry cannot double-submit.
	ExecuteTransfer(ctx context.Context, executionID string) error
}

// ComplianceGW screens addresses with the compliance provider
type ComplianceGW interface {
	ScreenAddress(ctx context.Context, address, chain string) (models.ScreeningResult, error)

	// ScreenTransaction composes two address screenings; the result is
	// approved only when neither side is denied
	ScreenTransaction(ctx context.Context, fromAddress, toAddress, chain string) (models.ScreeningResult, error)
}

// EventGW publishes transaction lifecycle events
type EventGW interface {
	PublishTransactionUpdated(event *models.TransactionEvent) error
}
