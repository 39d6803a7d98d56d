package wallet

import (
	"context"

	"github.com/stablehq/treasury/internal/pkg/models"
)

// WalletUC exposes the organization's vault wallet
type WalletUC interface {
	// GetVault returns the derived multisig and vault addresses
	GetVault(ctx context.Context, organizationID string) (*models.VaultInfo, error)

	// GetBalances reads the vault's balance for every supported token.
	// Uninitialized token accounts read as zero.
	GetBalances(ctx context.Context, organizationID string) ([]models.TokenBalance, error)
}
