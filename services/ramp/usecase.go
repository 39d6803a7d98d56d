package ramp

import (
	"context"

	"github.com/stablehq/treasury/internal/pkg/models"
)

// RampUC defines the fiat onramp/offramp orchestration interface
type RampUC interface {
	// Simulate resolves the organization's fiat rail bindings, requests a
	// transfer quote, and persists a simulated transaction record keyed by
	// a fresh correlation id.
	Simulate(ctx context.Context, direction models.RampDirection, req *models.RampSimulateRequest) (*models.RampSimulateResult, error)

	// Execute re-fetches the simulated record by correlation id and asks
	// the provider to execute the quoted transfer.
	Execute(ctx context.Context, direction models.RampDirection, req *models.RampExecuteRequest) (*models.RampExecuteResult, error)

	// ListTransactions returns an organization's transaction records,
	// newest first.
	ListTransactions(ctx context.Context, organizationID string, limit, offset int) ([]models.Transaction, error)
}
