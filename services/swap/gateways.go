package swap

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"github.com/stablehq/treasury/internal/pkg/models"
	"github.com/stablehq/treasury/internal/pkg/squads"
)

//go:generate mockgen -destination=mocks/mock_gateways.go -package=mocks github.com/stablehq/treasury/services/swap DexGW,LedgerGW,EventGW

// DexGW quotes swaps against external liquidity venues and builds the
// vault-format transaction message for the winning route
type DexGW interface {
	// Quote returns the best quote across the configured venues. Venues
	// are tried in their declared order; a later venue wins only with a
	// strictly better estimated output.
	Quote(ctx context.Context, req *models.SwapRequest) (*models.SwapQuote, error)

	// SwapMessage builds the serialized vault transaction message that
	// performs the quoted swap out of the given vault
	SwapMessage(ctx context.Context, req *models.SwapRequest, quote *models.SwapQuote, vault solana.PublicKey) ([]byte, error)
}

// LedgerGW is the swap service's view of the distributed ledger
type LedgerGW interface {
	GetMultisigAccount(ctx context.Context, multisigPda solana.PublicKey) (*squads.MultisigAccount, error)
	TokenBalance(ctx context.Context, tokenAccount solana.PublicKey) (float64, error)
	LatestBlockhash(ctx context.Context) (solana.Hash, error)
	GetLookupTableAddresses(ctx context.Context, table solana.PublicKey) ([]solana.PublicKey, error)
	EstimateComputeUnits(ctx context.Context, tx *solana.Transaction, atomic bool) uint32
	PriorityFee(ctx context.Context, accounts solana.PublicKeySlice, atomic bool) uint64

	// SubmitAndConfirm submits a signed transaction and waits for it to
	// reach the configured commitment. confirmed is false when the
	// transaction was accepted but did not confirm within the bound.
	SubmitAndConfirm(ctx context.Context, tx *solana.Transaction) (signature string, confirmed bool, err error)
}

// EventGW publishes swap lifecycle events
type EventGW interface {
	PublishSwapCompleted(event *models.SwapCompletedEvent) error
}
