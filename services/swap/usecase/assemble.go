package usecase

import (
	"context"

	"github.com/gagliardetto/solana-go"
	computebudget "github.com/gagliardetto/solana-go/programs/compute-budget"

	"github.com/stablehq/treasury/internal/pkg/apperrors"
	"github.com/stablehq/treasury/internal/pkg/squads"
)

// assembleUnsigned builds a serializable unsigned transaction around the
// given instructions: fetches a recent blockhash, estimates the compute
// budget from a provisional assembly, then prepends the budget
// instructions and serializes.
func (uc *SwapUC) assembleUnsigned(
	ctx context.Context,
	instructions []solana.Instruction,
	payer solana.PublicKey,
	tables map[solana.PublicKey]solana.PublicKeySlice,
	atomic bool,
) ([]byte, error) {
	blockhash, err := uc.ledger.LatestBlockhash(ctx)
	if err != nil {
		return nil, apperrors.Provider("BLOCKHASH_FAILED", "failed to fetch recent blockhash").WithCause(err)
	}

	opts := []solana.TransactionOption{solana.TransactionPayer(payer)}
	if len(tables) > 0 {
		opts = append(opts, solana.TransactionAddressTables(tables))
	}

	provisional, err := solana.NewTransaction(instructions, blockhash, opts...)
	if err != nil {
		return nil, apperrors.Provider("ASSEMBLY_FAILED", "failed to assemble transaction").WithCause(err)
	}

	units := uc.ledger.EstimateComputeUnits(ctx, provisional, atomic)
	fee := uc.ledger.PriorityFee(ctx, writableKeys(instructions), atomic)

	budgeted := make([]solana.Instruction, 0, len(instructions)+2)
	budgeted = append(budgeted,
		computebudget.NewSetComputeUnitLimitInstruction(units).Build(),
		computebudget.NewSetComputeUnitPriceInstruction(fee).Build(),
	)
	budgeted = append(budgeted, instructions...)

	tx, err := solana.NewTransaction(budgeted, blockhash, opts...)
	if err != nil {
		return nil, apperrors.Provider("ASSEMBLY_FAILED", "failed to assemble transaction").WithCause(err)
	}

	raw, err := tx.MarshalBinary()
	if err != nil {
		return nil, apperrors.Provider("SERIALIZATION_FAILED", "failed to serialize transaction").WithCause(err)
	}
	return raw, nil
}

// writableKeys collects the distinct writable accounts referenced by the
// instructions, for priority fee estimation
func writableKeys(instructions []solana.Instruction) solana.PublicKeySlice {
	seen := make(map[solana.PublicKey]bool)
	var keys solana.PublicKeySlice
	for _, instruction := range instructions {
		for _, meta := range instruction.Accounts() {
			if meta.IsWritable && !seen[meta.PublicKey] {
				seen[meta.PublicKey] = true
				keys = append(keys, meta.PublicKey)
			}
		}
	}
	return keys
}

// buildExecuteTransaction builds the unsigned multisig execute transaction
// for a stored vault message. Account resolution failures are fatal; the
// referenced lookup tables must already exist on-chain.
func (uc *SwapUC) buildExecuteTransaction(
	ctx context.Context,
	multisigPda, vaultPda solana.PublicKey,
	transactionIndex uint64,
	member solana.PublicKey,
	vaultMessage []byte,
) ([]byte, error) {
	message, err := squads.DecodeVaultTransactionMessage(vaultMessage)
	if err != nil {
		return nil, apperrors.Provider("MESSAGE_DECODE_FAILED", "failed to decode vault transaction message").WithCause(err)
	}

	transactionPda, err := squads.DeriveTransactionPDA(multisigPda, transactionIndex)
	if err != nil {
		return nil, apperrors.Provider("DERIVATION_FAILED", "failed to derive transaction account").WithCause(err)
	}

	accounts, err := squads.ResolveExecutionAccounts(ctx, uc.ledger, message, transactionPda, vaultPda, 0)
	if err != nil {
		return nil, apperrors.Provider("ACCOUNT_RESOLUTION_FAILED", "failed to resolve execution accounts").WithCause(err)
	}

	executeIx, err := squads.BuildExecuteInstruction(multisigPda, transactionIndex, member, accounts)
	if err != nil {
		return nil, apperrors.Provider("INSTRUCTION_BUILD_FAILED", "failed to build execute instruction").WithCause(err)
	}

	tables, err := uc.fetchTables(ctx, accounts.LookupTables)
	if err != nil {
		return nil, err
	}

	return uc.assembleUnsigned(ctx, []solana.Instruction{executeIx}, member, tables, true)
}

func (uc *SwapUC) fetchTables(ctx context.Context, tables []solana.PublicKey) (map[solana.PublicKey]solana.PublicKeySlice, error) {
	if len(tables) == 0 {
		return nil, nil
	}
	resolved := make(map[solana.PublicKey]solana.PublicKeySlice, len(tables))
	for _, table := range tables {
		addresses, err := uc.ledger.GetLookupTableAddresses(ctx, table)
		if err != nil {
			return nil, apperrors.Provider("LOOKUP_TABLE_FAILED", "failed to fetch address lookup table").WithCause(err)
		}
		resolved[table] = addresses
	}
	return resolved, nil
}
