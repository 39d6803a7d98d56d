package squads

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveMultisigAddresses_Deterministic(t *testing.T) {
	createKey := solana.NewWallet().PublicKey()

	first, err := DeriveMultisigAddresses(createKey)
	require.NoError(t, err)
	second, err := DeriveMultisigAddresses(createKey)
	require.NoError(t, err)

	assert.Equal(t, first.MultisigPDA, second.MultisigPDA)
	assert.Equal(t, first.VaultPDA, second.VaultPDA)
	assert.False(t, first.MultisigPDA.IsZero())
	assert.False(t, first.VaultPDA.IsZero())
	assert.NotEqual(t, first.MultisigPDA, first.VaultPDA)
}

func TestSetProgramID_ChangesDerivationAndDropsCache(t *testing.T) {
	original := DefaultProgramID
	t.Cleanup(func() { SetProgramID(original) })

	createKey := solana.NewWallet().PublicKey()
	before, err := DeriveMultisigAddresses(createKey)
	require.NoError(t, err)

	SetProgramID(solana.MustPublicKeyFromBase58("BPFLoaderUpgradeab1e11111111111111111111111"))

	after, err := DeriveMultisigAddresses(createKey)
	require.NoError(t, err)
	assert.NotEqual(t, before.MultisigPDA, after.MultisigPDA)
	assert.NotEqual(t, before.VaultPDA, after.VaultPDA)
}

func TestDeriveMultisigAddresses_DistinctPerCreateKey(t *testing.T) {
	a, err := DeriveMultisigAddresses(solana.NewWallet().PublicKey())
	require.NoError(t, err)
	b, err := DeriveMultisigAddresses(solana.NewWallet().PublicKey())
	require.NoError(t, err)

	assert.NotEqual(t, a.MultisigPDA, b.MultisigPDA)
	assert.NotEqual(t, a.VaultPDA, b.VaultPDA)
}

func TestDeriveTransactionPDA_DistinctPerIndex(t *testing.T) {
	addrs, err := DeriveMultisigAddresses(solana.NewWallet().PublicKey())
	require.NoError(t, err)

	first, err := DeriveTransactionPDA(addrs.MultisigPDA, 1)
	require.NoError(t, err)
	second, err := DeriveTransactionPDA(addrs.MultisigPDA, 2)
	require.NoError(t, err)
	firstAgain, err := DeriveTransactionPDA(addrs.MultisigPDA, 1)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Equal(t, first, firstAgain)
}

func TestDeriveProposalPDA_FollowsTransaction(t *testing.T) {
	addrs, err := DeriveMultisigAddresses(solana.NewWallet().PublicKey())
	require.NoError(t, err)

	txPda, err := DeriveTransactionPDA(addrs.MultisigPDA, 7)
	require.NoError(t, err)

	proposal, err := DeriveProposalPDA(txPda)
	require.NoError(t, err)
	assert.NotEqual(t, txPda, proposal)
}

func TestDeriveVaultTokenAccount_MatchesAssociatedTokenProgram(t *testing.T) {
	addrs, err := DeriveMultisigAddresses(solana.NewWallet().PublicKey())
	require.NoError(t, err)
	mint := solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")

	derived, err := DeriveVaultTokenAccount(addrs.VaultPDA, mint)
	require.NoError(t, err)

	expected, _, err := solana.FindAssociatedTokenAddress(addrs.VaultPDA, mint)
	require.NoError(t, err)
	assert.Equal(t, expected, derived)
}
