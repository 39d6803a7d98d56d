package wallet

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"github.com/stablehq/treasury/internal/pkg/models"
)

// LedgerGW is the wallet service's view of the distributed ledger
type LedgerGW interface {
	TokenBalance(ctx context.Context, tokenAccount solana.PublicKey) (float64, error)
}

// OrgRepo resolves organizations and their wallet bindings
type OrgRepo interface {
	GetOrganization(ctx context.Context, id string) (*models.Organization, error)
}
