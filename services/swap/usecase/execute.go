package usecase

import (
	"bytes"
	"context"
	"encoding/base64"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/stablehq/treasury/internal/pkg/apperrors"
	"github.com/stablehq/treasury/internal/pkg/logger"
	"github.com/stablehq/treasury/internal/pkg/models"
	"github.com/stablehq/treasury/internal/pkg/solanaclient"
)

// decodeSignedTransaction decodes and integrity-checks a user-signed
// transaction against the unsigned bytes the server handed out. Signing
// must not alter the message; any difference is tampering and terminal
// for this attempt.
func decodeSignedTransaction(serialized string, unsignedRaw []byte) (*solana.Transaction, error) {
	raw, err := base64.StdEncoding.DecodeString(serialized)
	if err != nil {
		return nil, apperrors.Validation("INVALID_TRANSACTION_ENCODING", "signed transaction is not valid base64").WithCause(err)
	}
	signed, err := solanaclient.DeserializeTransaction(raw)
	if err != nil {
		return nil, apperrors.Validation("INVALID_TRANSACTION", "signed transaction could not be decoded").WithCause(err)
	}

	unsigned, err := solanaclient.DeserializeTransaction(unsignedRaw)
	if err != nil {
		return nil, apperrors.Integrity("PREPARED_STATE_CORRUPT", "stored unsigned transaction could not be decoded").WithCause(err)
	}

	signedMsg, err := signed.Message.MarshalBinary()
	if err != nil {
		return nil, apperrors.Validation("INVALID_TRANSACTION", "signed transaction message could not be serialized").WithCause(err)
	}
	unsignedMsg, err := unsigned.Message.MarshalBinary()
	if err != nil {
		return nil, apperrors.Integrity("PREPARED_STATE_CORRUPT", "stored transaction message could not be serialized").WithCause(err)
	}
	if !bytes.Equal(signedMsg, unsignedMsg) {
		return nil, apperrors.ErrTamperedTransaction
	}

	if err := solanaclient.VerifySignatures(signed); err != nil {
		return nil, apperrors.ErrInvalidSignature.WithCause(err)
	}
	return signed, nil
}

// ExecuteSwap submits the user-signed proposal transaction. The prepared
// record is consumed on confirmation, never before, so a rejected or
// unconfirmed attempt can be retried with the same transaction id.
func (uc *SwapUC) ExecuteSwap(ctx context.Context, req *models.SwapExecuteRequest) (*models.SwapExecuteResult, error) {
	prepared, err := uc.store.GetPrepared(ctx, req.TransactionID)
	if err != nil {
		return nil, apperrors.Provider("STORE_LOOKUP_FAILED", "failed to look up prepared transaction").WithCause(err)
	}
	if prepared == nil {
		return nil, apperrors.ErrPreparedNotFound
	}
	if prepared.OrganizationID != req.OrganizationID {
		return nil, apperrors.ErrNotOwner
	}

	signed, err := decodeSignedTransaction(req.SerializedSignedTransaction, prepared.UnsignedTx)
	if err != nil {
		return nil, err
	}

	signature, confirmed, err := uc.ledger.SubmitAndConfirm(ctx, signed)
	if err != nil {
		return nil, apperrors.Provider("SUBMISSION_FAILED", "proposal transaction failed").WithCause(err)
	}
	if !confirmed {
		return nil, apperrors.Provider("UNCONFIRMED", "transaction submitted but not yet confirmed, check status later").
			WithDetails(signature)
	}

	// Threshold met by the member's own approval: the execute rode in the
	// same transaction and the swap is done.
	if prepared.Threshold <= 1 {
		uc.consumePrepared(ctx, req.TransactionID)
		uc.publishCompleted(prepared.OrganizationID, &prepared.OriginalParams, &prepared.SwapDetails, signature)
		uc.logger.Info("swap executed atomically",
			logger.String("organization_id", req.OrganizationID),
			logger.String("signature", signature))
		return &models.SwapExecuteResult{TransactionSignature: signature}, nil
	}

	// The vault needs a distinct execute transaction; hand the member the
	// next unsigned transaction and remember the outstanding phase.
	org, err := uc.resolveOrganization(ctx, req.OrganizationID)
	if err != nil {
		return nil, err
	}
	addrs, err := vaultAddresses(org)
	if err != nil {
		return nil, err
	}
	member := solana.MustPublicKeyFromBase58(prepared.MemberWallet)

	executeTx, err := uc.buildExecuteTransaction(ctx, addrs.MultisigPDA, addrs.VaultPDA,
		prepared.TransactionIndex, member, prepared.VaultMessage)
	if err != nil {
		return nil, err
	}

	execCtx := &models.ExecutionContext{
		ProposalSignature: signature,
		OrganizationID:    prepared.OrganizationID,
		TransactionIndex:  prepared.TransactionIndex,
		MemberWallet:      prepared.MemberWallet,
		UnsignedExecuteTx: executeTx,
		SwapDetails:       prepared.SwapDetails,
		OriginalParams:    prepared.OriginalParams,
	}
	// The execution context must land before the prepared record is
	// spent: a confirmed proposal with neither record has no finalize
	// path. Keeping the prepared record lets the member retry.
	if err := uc.store.StoreExecutionContext(ctx, execCtx); err != nil {
		return nil, apperrors.Provider("STORE_WRITE_FAILED", "failed to store execution context").WithCause(err)
	}
	uc.consumePrepared(ctx, req.TransactionID)

	uc.logger.Info("swap proposal confirmed, execution pending",
		logger.String("organization_id", req.OrganizationID),
		logger.String("proposal_signature", signature),
		logger.Uint64("transaction_index", prepared.TransactionIndex))

	return &models.SwapExecuteResult{
		TransactionSignature: signature,
		NeedsExecution:       true,
		ExecutionTransaction: base64.StdEncoding.EncodeToString(executeTx),
	}, nil
}

// consumePrepared spends the single-use prepared record. A failed delete
// is logged, not surfaced: the proposal already landed on chain and the
// stored phase records carry the flow forward.
func (uc *SwapUC) consumePrepared(ctx context.Context, transactionID string) {
	if err := uc.store.DeletePrepared(ctx, transactionID); err != nil {
		uc.logger.Warn("failed to delete prepared transaction after execution",
			logger.String("transaction_id", transactionID),
			logger.Err(err))
	}
}

// FinalizeSwap submits the user-signed execute transaction of a two-phase
// swap. The execution context is deleted only after the execute confirms.
func (uc *SwapUC) FinalizeSwap(ctx context.Context, req *models.SwapFinalizeRequest) (*models.SwapFinalizeResult, error) {
	execCtx, err := uc.store.GetExecutionContext(ctx, req.ExecutionSignature)
	if err != nil {
		return nil, apperrors.Provider("STORE_LOOKUP_FAILED", "failed to look up execution context").WithCause(err)
	}
	if execCtx == nil {
		return nil, apperrors.ErrExecutionCtxMissing
	}
	if execCtx.OrganizationID != req.OrganizationID {
		return nil, apperrors.ErrNotOwner
	}

	signed, err := decodeSignedTransaction(req.SerializedSignedExecutionTransaction, execCtx.UnsignedExecuteTx)
	if err != nil {
		return nil, err
	}

	signature, confirmed, err := uc.ledger.SubmitAndConfirm(ctx, signed)
	if err != nil {
		return nil, apperrors.Provider("SUBMISSION_FAILED", "execute transaction failed").WithCause(err)
	}
	if !confirmed {
		return nil, apperrors.Provider("UNCONFIRMED", "transaction submitted but not yet confirmed, check status later").
			WithDetails(signature)
	}

	if err := uc.store.DeleteExecutionContext(ctx, req.ExecutionSignature); err != nil {
		uc.logger.Warn("failed to delete execution context after finalize",
			logger.String("proposal_signature", req.ExecutionSignature),
			logger.Err(err))
	}

	uc.publishCompleted(execCtx.OrganizationID, &execCtx.OriginalParams, &execCtx.SwapDetails, signature)
	uc.logger.Info("swap finalized",
		logger.String("organization_id", req.OrganizationID),
		logger.String("signature", signature))

	return &models.SwapFinalizeResult{
		TransactionSignature: signature,
		Status:               "confirmed",
	}, nil
}

// publishCompleted emits the terminal swap event. Publish failures are
// logged, not surfaced: the swap itself has already landed on-chain.
func (uc *SwapUC) publishCompleted(orgID string, params *models.SwapRequest, quote *models.SwapQuote, signature string) {
	event := &models.SwapCompletedEvent{
		OrganizationID: orgID,
		FromToken:      params.FromToken,
		ToToken:        params.ToToken,
		AmountIn:       quote.AmountIn,
		AmountOut:      quote.EstimatedAmountOut,
		Signature:      signature,
		Timestamp:      time.Now(),
	}
	if err := uc.events.PublishSwapCompleted(event); err != nil {
		uc.logger.Warn("failed to publish swap completed event",
			logger.String("signature", signature),
			logger.Err(err))
	}
}
