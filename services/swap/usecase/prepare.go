package usecase

import (
	"context"
	"encoding/base64"
	"fmt"
	"math"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"

	"github.com/stablehq/treasury/internal/pkg/apperrors"
	"github.com/stablehq/treasury/internal/pkg/logger"
	"github.com/stablehq/treasury/internal/pkg/models"
	"github.com/stablehq/treasury/internal/pkg/squads"
)

// PrepareSwap re-derives the route, guards against quote drift, and builds
// the unsigned multisig proposal transaction. The prepared record is held
// server-side with a TTL; replays with the same transaction id return the
// same artifact until expiry.
func (uc *SwapUC) PrepareSwap(ctx context.Context, req *models.SwapPrepareRequest) (*models.PreparedSwap, error) {
	if err := validateSwapRequest(&req.SwapRequest); err != nil {
		return nil, err
	}

	member, err := solana.PublicKeyFromBase58(req.WalletAddress)
	if err != nil {
		return nil, apperrors.Validation("INVALID_WALLET", "wallet address is not a valid public key").WithCause(err)
	}

	// Idempotent replay: an unexpired record for the same id and
	// organization is returned as-is, without touching the venues again.
	if req.TransactionID != "" {
		existing, err := uc.store.GetPrepared(ctx, req.TransactionID)
		if err != nil {
			return nil, apperrors.Provider("STORE_LOOKUP_FAILED", "failed to look up prepared transaction").WithCause(err)
		}
		if existing != nil {
			if existing.OrganizationID != req.OrganizationID {
				return nil, apperrors.ErrNotOwner
			}
			return &models.PreparedSwap{
				TransactionID:         existing.TransactionID,
				SerializedTransaction: base64.StdEncoding.EncodeToString(existing.UnsignedTx),
				ExpiresAt:             existing.ExpiresAt,
			}, nil
		}
	}

	org, err := uc.resolveOrganization(ctx, req.OrganizationID)
	if err != nil {
		return nil, err
	}
	addrs, err := vaultAddresses(org)
	if err != nil {
		return nil, err
	}

	quote, err := uc.dexGW.Quote(ctx, &req.SwapRequest)
	if err != nil {
		return nil, err
	}
	if err := checkQuoteDeviation(quote.EstimatedAmountOut, req.ExpectedAmountOut, uc.cfg.Swap.MaxSlippageDeviation); err != nil {
		return nil, err
	}

	multisig, err := uc.ledger.GetMultisigAccount(ctx, addrs.MultisigPDA)
	if err != nil {
		return nil, apperrors.Provider("MULTISIG_LOOKUP_FAILED", "failed to read multisig account").WithCause(err)
	}
	if !multisig.HasMember(member, squads.PermissionPropose) {
		return nil, apperrors.Authorization("NOT_MULTISIG_MEMBER", "wallet is not a proposing member of the vault")
	}
	transactionIndex := multisig.TransactionIndex + 1

	vaultMessage, err := uc.dexGW.SwapMessage(ctx, &req.SwapRequest, quote, addrs.VaultPDA)
	if err != nil {
		return nil, err
	}

	unsignedTx, err := uc.buildProposalTransaction(ctx, addrs, transactionIndex, member, vaultMessage, multisig.Threshold)
	if err != nil {
		return nil, err
	}

	transactionID := req.TransactionID
	if transactionID == "" {
		transactionID = uuid.NewString()
	}
	prepared := &models.PreparedTransaction{
		TransactionID:    transactionID,
		OrganizationID:   req.OrganizationID,
		UnsignedTx:       unsignedTx,
		SwapDetails:      *quote,
		OriginalParams:   req.SwapRequest,
		MemberWallet:     req.WalletAddress,
		TransactionIndex: transactionIndex,
		Threshold:        multisig.Threshold,
		VaultMessage:     vaultMessage,
		ExpiresAt:        time.Now().Add(time.Duration(uc.cfg.Swap.PreparedTTLSeconds) * time.Second),
	}
	if err := uc.store.StorePrepared(ctx, prepared); err != nil {
		return nil, apperrors.Provider("STORE_WRITE_FAILED", "failed to store prepared transaction").WithCause(err)
	}

	uc.logger.Info("swap prepared",
		logger.String("organization_id", req.OrganizationID),
		logger.String("transaction_id", transactionID),
		logger.Uint64("transaction_index", transactionIndex),
		logger.Int("threshold", int(multisig.Threshold)),
		logger.String("route", quote.Route))

	return &models.PreparedSwap{
		TransactionID:         transactionID,
		SerializedTransaction: base64.StdEncoding.EncodeToString(unsignedTx),
		ExpiresAt:             prepared.ExpiresAt,
	}, nil
}

// checkQuoteDeviation rejects a prepare whose live quote drifted beyond
// the allowed percentage from the quote the user confirmed
func checkQuoteDeviation(liveOut, expectedOut, maxDeviationPct float64) error {
	if expectedOut <= 0 {
		return apperrors.Validation("MISSING_EXPECTED_OUT", "expected amount out is required")
	}
	deviation := math.Abs(liveOut-expectedOut) / expectedOut * 100
	if deviation > maxDeviationPct {
		return apperrors.ErrPriceMoved.WithDetails(
			fmt.Sprintf("quote moved %.2f%% (bound %.2f%%)", deviation, maxDeviationPct))
	}
	return nil
}

// buildProposalTransaction assembles the unsigned transaction the member
// signs first: vault transaction create, proposal create, and the
// member's approval. For a single-signer vault the multisig execute is
// appended so the whole swap lands atomically in one signature.
func (uc *SwapUC) buildProposalTransaction(
	ctx context.Context,
	addrs squads.Addresses,
	transactionIndex uint64,
	member solana.PublicKey,
	vaultMessage []byte,
	threshold uint16,
) ([]byte, error) {
	createIx, err := squads.BuildVaultTransactionCreateInstruction(
		addrs.MultisigPDA, transactionIndex, member, member, 0, vaultMessage)
	if err != nil {
		return nil, apperrors.Provider("INSTRUCTION_BUILD_FAILED", "failed to build vault transaction create").WithCause(err)
	}
	proposeIx, err := squads.BuildProposalCreateInstruction(addrs.MultisigPDA, transactionIndex, member, member)
	if err != nil {
		return nil, apperrors.Provider("INSTRUCTION_BUILD_FAILED", "failed to build proposal create").WithCause(err)
	}
	approveIx, err := squads.BuildProposalApproveInstruction(addrs.MultisigPDA, transactionIndex, member)
	if err != nil {
		return nil, apperrors.Provider("INSTRUCTION_BUILD_FAILED", "failed to build proposal approve").WithCause(err)
	}

	instructions := []solana.Instruction{createIx, proposeIx, approveIx}
	atomic := false
	var tables map[solana.PublicKey]solana.PublicKeySlice

	// Single-signer vault: the member's approval alone meets the
	// threshold, so the execute can ride in the same transaction.
	if threshold <= 1 {
		message, err := squads.DecodeVaultTransactionMessage(vaultMessage)
		if err != nil {
			return nil, apperrors.Provider("MESSAGE_DECODE_FAILED", "failed to decode vault transaction message").WithCause(err)
		}
		transactionPda, err := squads.DeriveTransactionPDA(addrs.MultisigPDA, transactionIndex)
		if err != nil {
			return nil, apperrors.Provider("DERIVATION_FAILED", "failed to derive transaction account").WithCause(err)
		}
		accounts, err := squads.ResolveExecutionAccounts(ctx, uc.ledger, message, transactionPda, addrs.VaultPDA, 0)
		if err != nil {
			return nil, apperrors.Provider("ACCOUNT_RESOLUTION_FAILED", "failed to resolve execution accounts").WithCause(err)
		}
		executeIx, err := squads.BuildExecuteInstruction(addrs.MultisigPDA, transactionIndex, member, accounts)
		if err != nil {
			return nil, apperrors.Provider("INSTRUCTION_BUILD_FAILED", "failed to build execute instruction").WithCause(err)
		}
		instructions = append(instructions, executeIx)
		atomic = true

		tables, err = uc.fetchTables(ctx, accounts.LookupTables)
		if err != nil {
			return nil, err
		}
	}

	return uc.assembleUnsigned(ctx, instructions, member, tables, atomic)
}
