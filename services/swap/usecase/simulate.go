package usecase

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/stablehq/treasury/internal/pkg/apperrors"
	"github.com/stablehq/treasury/internal/pkg/logger"
	"github.com/stablehq/treasury/internal/pkg/models"
	"github.com/stablehq/treasury/internal/pkg/squads"
)

const (
	minSlippageTolerance = 0.1
	maxSlippageTolerance = 5.0
)

// validateSwapRequest applies the local input constraints. These run
// before any organization lookup or external call.
func validateSwapRequest(req *models.SwapRequest) error {
	if req.FromToken == req.ToToken {
		return apperrors.ErrSelfConversion
	}
	if _, ok := models.TokenBySymbol(req.FromToken); !ok {
		return apperrors.ErrUnsupportedToken.WithDetails(req.FromToken)
	}
	if _, ok := models.TokenBySymbol(req.ToToken); !ok {
		return apperrors.ErrUnsupportedToken.WithDetails(req.ToToken)
	}
	if req.Amount <= 0 {
		return apperrors.ErrInvalidAmount
	}
	if req.SlippageTolerance < minSlippageTolerance || req.SlippageTolerance > maxSlippageTolerance {
		return apperrors.ErrInvalidSlippage
	}
	return nil
}

// resolveOrganization loads the organization and checks the wallet binding
func (uc *SwapUC) resolveOrganization(ctx context.Context, orgID string) (*models.Organization, error) {
	org, err := uc.orgRepo.GetOrganization(ctx, orgID)
	if err != nil {
		return nil, apperrors.Provider("ORG_LOOKUP_FAILED", "failed to look up organization").WithCause(err)
	}
	if org == nil {
		return nil, apperrors.ErrOrgNotFound
	}
	if !org.HasWallet() {
		return nil, apperrors.ErrNoWallet
	}
	return org, nil
}

// vaultAddresses derives the multisig and vault PDAs from the
// organization's create key
func vaultAddresses(org *models.Organization) (squads.Addresses, error) {
	createKey, err := solana.PublicKeyFromBase58(org.CreateKey)
	if err != nil {
		return squads.Addresses{}, apperrors.Provider("INVALID_CREATE_KEY", "organization wallet binding is corrupt").WithCause(err)
	}
	return squads.DeriveMultisigAddresses(createKey)
}

// SimulateSwap quotes a swap without creating any state. The vault must
// hold enough of the source token before a venue is consulted.
func (uc *SwapUC) SimulateSwap(ctx context.Context, req *models.SwapRequest) (*models.SwapQuote, error) {
	if err := validateSwapRequest(req); err != nil {
		return nil, err
	}

	org, err := uc.resolveOrganization(ctx, req.OrganizationID)
	if err != nil {
		return nil, err
	}

	addrs, err := vaultAddresses(org)
	if err != nil {
		return nil, err
	}

	fromToken, _ := models.TokenBySymbol(req.FromToken)
	mint := solana.MustPublicKeyFromBase58(fromToken.Mint)
	tokenAccount, err := squads.DeriveVaultTokenAccount(addrs.VaultPDA, mint)
	if err != nil {
		return nil, apperrors.Provider("DERIVATION_FAILED", "failed to derive vault token account").WithCause(err)
	}

	balance, err := uc.ledger.TokenBalance(ctx, tokenAccount)
	if err != nil {
		return nil, apperrors.Provider("BALANCE_LOOKUP_FAILED", "failed to read vault balance").WithCause(err)
	}
	if balance < req.Amount {
		return nil, apperrors.ErrInsufficientBalance.WithDetails(
			fmt.Sprintf("vault holds %.6f %s", balance, req.FromToken))
	}

	quote, err := uc.dexGW.Quote(ctx, req)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("swap simulated",
		logger.String("organization_id", req.OrganizationID),
		logger.String("from", req.FromToken),
		logger.String("to", req.ToToken),
		logger.Float64("amount", req.Amount),
		logger.String("route", quote.Route),
		logger.Float64("estimated_out", quote.EstimatedAmountOut))
	return quote, nil
}
