package gateway

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"github.com/stablehq/treasury/internal/pkg/solanaclient"
	"github.com/stablehq/treasury/internal/pkg/squads"
)

// LedgerGateway adapts the ledger client to the swap service
type LedgerGateway struct {
	client *solanaclient.Client
}

// NewLedgerGateway creates a ledger gateway over the shared client
func NewLedgerGateway(client *solanaclient.Client) *LedgerGateway {
	return &LedgerGateway{client: client}
}

func (g *LedgerGateway) GetMultisigAccount(ctx context.Context, multisigPda solana.PublicKey) (*squads.MultisigAccount, error) {
	return g.client.GetMultisigAccount(ctx, multisigPda)
}

func (g *LedgerGateway) TokenBalance(ctx context.Context, tokenAccount solana.PublicKey) (float64, error) {
	return g.client.TokenAccountBalance(ctx, tokenAccount)
}

func (g *LedgerGateway) LatestBlockhash(ctx context.Context) (solana.Hash, error) {
	return g.client.LatestBlockhash(ctx)
}

func (g *LedgerGateway) GetLookupTableAddresses(ctx context.Context, table solana.PublicKey) ([]solana.PublicKey, error) {
	return g.client.GetLookupTableAddresses(ctx, table)
}

func (g *LedgerGateway) EstimateComputeUnits(ctx context.Context, tx *solana.Transaction, atomic bool) uint32 {
	return g.client.EstimateComputeUnits(ctx, tx, atomic)
}

func (g *LedgerGateway) PriorityFee(ctx context.Context, accounts solana.PublicKeySlice, atomic bool) uint64 {
	return g.client.PriorityFee(ctx, accounts, atomic)
}

// SubmitAndConfirm submits a signed transaction and reports whether it
// reached the configured commitment. A nil status after submission means
// the transaction is still pending, not failed.
func (g *LedgerGateway) SubmitAndConfirm(ctx context.Context, tx *solana.Transaction) (string, bool, error) {
	result, err := g.client.SubmitSigned(ctx, tx)
	if err != nil {
		return "", false, err
	}
	return result.Signature.String(), result.Status != nil, nil
}
