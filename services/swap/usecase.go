package swap

import (
	"context"

	"github.com/stablehq/treasury/internal/pkg/models"
)

// SwapUC defines the swap orchestration interface
type SwapUC interface {
	// SimulateSwap quotes a swap across the configured venues. Purely a
	// read; no state is created.
	SimulateSwap(ctx context.Context, req *models.SwapRequest) (*models.SwapQuote, error)

	// PrepareSwap re-derives the route, guards against quote drift, and
	// returns an unsigned multisig transaction correlated to server-held
	// state. Idempotent per transaction id until the record expires.
	PrepareSwap(ctx context.Context, req *models.SwapPrepareRequest) (*models.PreparedSwap, error)

	// ExecuteSwap validates and submits the user-signed proposal
	// transaction. When the multisig threshold needs a distinct execute
	// transaction, the result carries the next unsigned transaction.
	ExecuteSwap(ctx context.Context, req *models.SwapExecuteRequest) (*models.SwapExecuteResult, error)

	// FinalizeSwap validates and submits the user-signed execution
	// transaction of a two-phase swap.
	FinalizeSwap(ctx context.Context, req *models.SwapFinalizeRequest) (*models.SwapFinalizeResult, error)
}
