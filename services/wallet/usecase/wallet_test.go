package usecase

import (
	"context"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stablehq/treasury/internal/pkg/apperrors"
	"github.com/stablehq/treasury/internal/pkg/logger"
	"github.com/stablehq/treasury/internal/pkg/models"
	"github.com/stablehq/treasury/internal/pkg/squads"
)

type fakeOrgRepo struct {
	orgs map[string]*models.Organization
}

func (f *fakeOrgRepo) GetOrganization(_ context.Context, id string) (*models.Organization, error) {
	return f.orgs[id], nil
}

type fakeLedgerGW struct {
	balances map[solana.PublicKey]float64
	calls    int
}

func (f *fakeLedgerGW) TokenBalance(_ context.Context, account solana.PublicKey) (float64, error) {
	f.calls++
	return f.balances[account], nil
}

func newWalletFixture(t *testing.T) (*WalletUC, *fakeLedgerGW, string, solana.PublicKey) {
	t.Helper()
	zl, err := logger.NewZapLogger(models.LoggerConfig{Level: "error"}, nil)
	require.NoError(t, err)

	createKey := solana.NewWallet().PublicKey()
	orgID := "org-1"
	orgs := &fakeOrgRepo{orgs: map[string]*models.Organization{
		orgID: {Name: "acme", CreateKey: createKey.String()},
	}}
	ledger := &fakeLedgerGW{balances: make(map[solana.PublicKey]float64)}
	return NewWalletUC(orgs, ledger, zl), ledger, orgID, createKey
}

func TestGetVault_DerivesAddresses(t *testing.T) {
	uc, _, orgID, createKey := newWalletFixture(t)

	info, err := uc.GetVault(context.Background(), orgID)

	require.NoError(t, err)
	addrs, err := squads.DeriveMultisigAddresses(createKey)
	require.NoError(t, err)
	assert.Equal(t, addrs.MultisigPDA.String(), info.MultisigAddress)
	assert.Equal(t, addrs.VaultPDA.String(), info.VaultAddress)
}

func TestGetVault_UnknownOrganization(t *testing.T) {
	uc, _, _, _ := newWalletFixture(t)

	_, err := uc.GetVault(context.Background(), "unknown")

	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, "ORGANIZATION_NOT_FOUND", appErr.Code)
}

func TestGetBalances_AllSupportedTokensInSymbolOrder(t *testing.T) {
	uc, ledger, orgID, createKey := newWalletFixture(t)

	addrs, err := squads.DeriveMultisigAddresses(createKey)
	require.NoError(t, err)
	usdcMint := solana.MustPublicKeyFromBase58(models.SupportedTokens["USDC"].Mint)
	usdcAccount, err := squads.DeriveVaultTokenAccount(addrs.VaultPDA, usdcMint)
	require.NoError(t, err)
	ledger.balances[usdcAccount] = 1234.5

	balances, err := uc.GetBalances(context.Background(), orgID)

	require.NoError(t, err)
	require.Len(t, balances, len(models.SupportedTokens))
	assert.Equal(t, "EURC", balances[0].Symbol)
	assert.Equal(t, "USDC", balances[1].Symbol)
	assert.Equal(t, "USDT", balances[2].Symbol)
	assert.Equal(t, 1234.5, balances[1].Balance)
	assert.Zero(t, balances[0].Balance, "missing token account reads as zero")
	assert.Equal(t, usdcAccount.String(), balances[1].ATA)
	assert.Equal(t, len(models.SupportedTokens), ledger.calls)
}
