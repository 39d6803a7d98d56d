package usecase

import (
	"context"
	"sort"

	"github.com/gagliardetto/solana-go"

	"github.com/stablehq/treasury/internal/pkg/apperrors"
	"github.com/stablehq/treasury/internal/pkg/logger"
	"github.com/stablehq/treasury/internal/pkg/models"
	"github.com/stablehq/treasury/internal/pkg/squads"
	"github.com/stablehq/treasury/services/wallet"
)

// WalletUC implements the vault wallet views
type WalletUC struct {
	orgRepo wallet.OrgRepo
	ledger  wallet.LedgerGW
	logger  *logger.ZapLogger
}

// NewWalletUC creates a new wallet usecase instance
func NewWalletUC(orgRepo wallet.OrgRepo, ledger wallet.LedgerGW, zl *logger.ZapLogger) *WalletUC {
	return &WalletUC{orgRepo: orgRepo, ledger: ledger, logger: zl}
}

func (uc *WalletUC) deriveAddresses(ctx context.Context, organizationID string) (squads.Addresses, error) {
	org, err := uc.orgRepo.GetOrganization(ctx, organizationID)
	if err != nil {
		return squads.Addresses{}, apperrors.Provider("ORG_LOOKUP_FAILED", "failed to look up organization").WithCause(err)
	}
	if org == nil {
		return squads.Addresses{}, apperrors.ErrOrgNotFound
	}
	if !org.HasWallet() {
		return squads.Addresses{}, apperrors.ErrNoWallet
	}

	createKey, err := solana.PublicKeyFromBase58(org.CreateKey)
	if err != nil {
		return squads.Addresses{}, apperrors.Provider("INVALID_CREATE_KEY", "organization wallet binding is corrupt").WithCause(err)
	}
	return squads.DeriveMultisigAddresses(createKey)
}

// GetVault returns the derived multisig and vault addresses
func (uc *WalletUC) GetVault(ctx context.Context, organizationID string) (*models.VaultInfo, error) {
	addrs, err := uc.deriveAddresses(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	return &models.VaultInfo{
		MultisigAddress: addrs.MultisigPDA.String(),
		VaultAddress:    addrs.VaultPDA.String(),
	}, nil
}

// GetBalances reads the vault's balance for every supported token. A
// token account that does not exist yet reads as zero, not as an error.
func (uc *WalletUC) GetBalances(ctx context.Context, organizationID string) ([]models.TokenBalance, error) {
	addrs, err := uc.deriveAddresses(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	symbols := make([]string, 0, len(models.SupportedTokens))
	for symbol := range models.SupportedTokens {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	balances := make([]models.TokenBalance, 0, len(symbols))
	for _, symbol := range symbols {
		token := models.SupportedTokens[symbol]
		mint := solana.MustPublicKeyFromBase58(token.Mint)
		tokenAccount, err := squads.DeriveVaultTokenAccount(addrs.VaultPDA, mint)
		if err != nil {
			return nil, apperrors.Provider("DERIVATION_FAILED", "failed to derive vault token account").WithCause(err)
		}

		balance, err := uc.ledger.TokenBalance(ctx, tokenAccount)
		if err != nil {
			return nil, apperrors.Provider("BALANCE_LOOKUP_FAILED", "failed to read vault balance").WithCause(err)
		}
		balances = append(balances, models.TokenBalance{
			Symbol:  token.Symbol,
			Mint:    token.Mint,
			ATA:     tokenAccount.String(),
			Balance: balance,
		})
	}
	return balances, nil
}
