package squads

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// LookupTableFetcher resolves an on-chain address lookup table into its
// address list. Implemented by the ledger client; injected so account
// resolution stays testable without RPC.
type LookupTableFetcher interface {
	GetLookupTableAddresses(ctx context.Context, table solana.PublicKey) ([]solana.PublicKey, error)
}

// ExecutionAccounts is the resolved account list for executing a vault
// transaction, plus the lookup tables the final transaction must reference
type ExecutionAccounts struct {
	Metas        []*solana.AccountMeta
	LookupTables []solana.PublicKey
}

// ResolveExecutionAccounts produces the concrete account metas for a stored
// vault transaction message. The vault and ephemeral signers never sign
// directly (the program signs for them via CPI), so their signer flags are
// demoted. A missing lookup table or out-of-range index is a fatal build
// error; the table must exist on-chain before the transaction can be built.
func ResolveExecutionAccounts(
	ctx context.Context,
	fetcher LookupTableFetcher,
	msg *VaultTransactionMessage,
	transactionPda solana.PublicKey,
	vaultPda solana.PublicKey,
	ephemeralSignerCount uint8,
) (*ExecutionAccounts, error) {
	ephemeralSigners := make(map[solana.PublicKey]bool, ephemeralSignerCount)
	for i := uint8(0); i < ephemeralSignerCount; i++ {
		signer, err := DeriveEphemeralSignerPDA(transactionPda, i)
		if err != nil {
			return nil, err
		}
		ephemeralSigners[signer] = true
	}

	metas := make([]*solana.AccountMeta, 0, len(msg.AccountKeys))
	for i, key := range msg.AccountKeys {
		isSigner := msg.IsSignerIndex(i)
		if key.Equals(vaultPda) || ephemeralSigners[key] {
			isSigner = false
		}
		metas = append(metas, &solana.AccountMeta{
			PublicKey:  key,
			IsSigner:   isSigner,
			IsWritable: msg.IsWritableIndex(i),
		})
	}

	tables := make([]solana.PublicKey, 0, len(msg.AddressTableLookups))
	for _, lookup := range msg.AddressTableLookups {
		addresses, err := fetcher.GetLookupTableAddresses(ctx, lookup.AccountKey)
		if err != nil {
			return nil, fmt.Errorf("lookup table %s unavailable: %w", lookup.AccountKey, err)
		}
		tables = append(tables, lookup.AccountKey)

		for _, idx := range lookup.WritableIndexes {
			if int(idx) >= len(addresses) {
				return nil, fmt.Errorf("lookup table %s has no index %d", lookup.AccountKey, idx)
			}
			metas = append(metas, &solana.AccountMeta{
				PublicKey:  addresses[idx],
				IsWritable: true,
			})
		}
		for _, idx := range lookup.ReadonlyIndexes {
			if int(idx) >= len(addresses) {
				return nil, fmt.Errorf("lookup table %s has no index %d", lookup.AccountKey, idx)
			}
			metas = append(metas, &solana.AccountMeta{
				PublicKey: addresses[idx],
			})
		}
	}

	return &ExecutionAccounts{Metas: metas, LookupTables: tables}, nil
}
