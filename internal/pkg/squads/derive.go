package squads

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/gagliardetto/solana-go"
)

// DefaultProgramID is the Squads v4 multisig program
var DefaultProgramID = solana.MustPublicKeyFromBase58("SQDS4ep65T869zMMBKyuUq6aD6EgTu8psMjkvj52pCf")

// PDA seeds used by the multisig program
var (
	seedPrefix          = []byte("multisig")
	seedMultisig        = []byte("multisig")
	seedVault           = []byte("vault")
	seedTransaction     = []byte("transaction")
	seedProposal        = []byte("proposal")
	seedEphemeralSigner = []byte("ephemeral_signer")
)

// DefaultVaultIndex is the only vault index this system uses
const DefaultVaultIndex uint8 = 0

// Addresses are the deterministic accounts derived from an organization's
// control key
type Addresses struct {
	MultisigPDA solana.PublicKey
	VaultPDA    solana.PublicKey
}

// derivationCache memoizes derivations: the same createKey must always
// resolve to the same addresses, and derivation is hot on the swap path
var derivationCache sync.Map

// SetProgramID overrides the multisig program the derivations and
// instructions target. Call once at startup, before any derivation;
// addresses cached for the previous program are discarded.
func SetProgramID(id solana.PublicKey) {
	DefaultProgramID = id
	derivationCache = sync.Map{}
}

// DeriveMultisigAddresses derives the multisig PDA and vault PDA for an
// organization's createKey. Deterministic and cached.
func DeriveMultisigAddresses(createKey solana.PublicKey) (Addresses, error) {
	if cached, ok := derivationCache.Load(createKey); ok {
		return cached.(Addresses), nil
	}

	multisigPda, _, err := solana.FindProgramAddress(
		[][]byte{seedPrefix, seedMultisig, createKey.Bytes()},
		DefaultProgramID,
	)
	if err != nil {
		return Addresses{}, fmt.Errorf("failed to derive multisig PDA: %w", err)
	}

	vaultPda, err := DeriveVaultPDA(multisigPda, DefaultVaultIndex)
	if err != nil {
		return Addresses{}, err
	}

	addrs := Addresses{MultisigPDA: multisigPda, VaultPDA: vaultPda}
	derivationCache.Store(createKey, addrs)
	return addrs, nil
}

// DeriveVaultPDA derives the vault account for a multisig and vault index
func DeriveVaultPDA(multisigPda solana.PublicKey, index uint8) (solana.PublicKey, error) {
	vaultPda, _, err := solana.FindProgramAddress(
		[][]byte{seedPrefix, multisigPda.Bytes(), seedVault, {index}},
		DefaultProgramID,
	)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive vault PDA: %w", err)
	}
	return vaultPda, nil
}

// DeriveTransactionPDA derives the vault transaction account for a
// transaction index
func DeriveTransactionPDA(multisigPda solana.PublicKey, transactionIndex uint64) (solana.PublicKey, error) {
	indexBytes := make([]byte, 8)
	binary.LittleEndian.PutUint64(indexBytes, transactionIndex)

	txPda, _, err := solana.FindProgramAddress(
		[][]byte{seedPrefix, multisigPda.Bytes(), seedTransaction, indexBytes},
		DefaultProgramID,
	)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive transaction PDA: %w", err)
	}
	return txPda, nil
}

// DeriveProposalPDA derives the proposal account for a transaction
func DeriveProposalPDA(transactionPda solana.PublicKey) (solana.PublicKey, error) {
	proposalPda, _, err := solana.FindProgramAddress(
		[][]byte{seedPrefix, transactionPda.Bytes(), seedProposal},
		DefaultProgramID,
	)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive proposal PDA: %w", err)
	}
	return proposalPda, nil
}

// DeriveEphemeralSignerPDA derives the n-th ephemeral signer for a
// transaction. Ephemeral signers stand in for throwaway keypairs the vault
// transaction needs; the program signs for them via CPI.
func DeriveEphemeralSignerPDA(transactionPda solana.PublicKey, index uint8) (solana.PublicKey, error) {
	signerPda, _, err := solana.FindProgramAddress(
		[][]byte{seedPrefix, transactionPda.Bytes(), seedEphemeralSigner, {index}},
		DefaultProgramID,
	)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive ephemeral signer PDA: %w", err)
	}
	return signerPda, nil
}

// DeriveVaultTokenAccount derives the associated token account holding a
// stablecoin mint for the vault
func DeriveVaultTokenAccount(vaultPda, mint solana.PublicKey) (solana.PublicKey, error) {
	ata, _, err := solana.FindAssociatedTokenAddress(vaultPda, mint)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive vault token account: %w", err)
	}
	return ata, nil
}
