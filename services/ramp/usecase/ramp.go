package usecase

import (
	"context"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"

	"github.com/stablehq/treasury/internal/pkg/apperrors"
	"github.com/stablehq/treasury/internal/pkg/logger"
	"github.com/stablehq/treasury/internal/pkg/models"
	"github.com/stablehq/treasury/internal/pkg/squads"
)

const screeningChain = "solana"

// fiatCurrencyFor maps a stablecoin to the fiat currency it ramps against
func fiatCurrencyFor(token string) string {
	if token == "EURC" {
		return "EUR"
	}
	return "USD"
}

func transactionTypeFor(direction models.RampDirection) string {
	if direction == models.RampDirectionOnramp {
		return models.TransactionTypeDeposit
	}
	return models.TransactionTypeWithdrawal
}

func validateRampRequest(req *models.RampSimulateRequest) error {
	if _, ok := models.TokenBySymbol(req.Token); !ok {
		return apperrors.ErrUnsupportedToken.WithDetails(req.Token)
	}
	if req.Amount <= 0 {
		return apperrors.ErrInvalidAmount
	}
	if req.BankAccountID == "" {
		return apperrors.Validation("MISSING_BANK_ACCOUNT", "bank account id is required")
	}
	if req.WalletAddress == "" {
		return apperrors.Validation("MISSING_WALLET_ADDRESS", "wallet address is required")
	}
	return nil
}

// screenParticipants runs compliance screening for the transfer's on-chain
// side. An onramp only touches the destination wallet; an offramp moves
// vault funds out, so vault and destination are screened together and a
// denial on either side blocks.
func (uc *RampUC) screenParticipants(ctx context.Context, org *models.Organization, direction models.RampDirection, walletAddress string) (models.ScreeningResult, error) {
	if direction == models.RampDirectionOnramp {
		return uc.compliance.ScreenAddress(ctx, walletAddress, screeningChain)
	}

	createKey, err := solana.PublicKeyFromBase58(org.CreateKey)
	if err != nil {
		return "", apperrors.Provider("INVALID_CREATE_KEY", "organization wallet binding is corrupt").WithCause(err)
	}
	addrs, err := squads.DeriveMultisigAddresses(createKey)
	if err != nil {
		return "", apperrors.Provider("DERIVATION_FAILED", "failed to derive vault address").WithCause(err)
	}
	return uc.compliance.ScreenTransaction(ctx, addrs.VaultPDA.String(), walletAddress, screeningChain)
}

// Simulate quotes a fiat transfer and immediately persists a simulated
// transaction record keyed by a fresh correlation id, so an interrupted
// flow still leaves an auditable trace.
func (uc *RampUC) Simulate(ctx context.Context, direction models.RampDirection, req *models.RampSimulateRequest) (*models.RampSimulateResult, error) {
	if err := validateRampRequest(req); err != nil {
		return nil, err
	}

	org, err := uc.orgRepo.GetOrganization(ctx, req.OrganizationID)
	if err != nil {
		return nil, apperrors.Provider("ORG_LOOKUP_FAILED", "failed to look up organization").WithCause(err)
	}
	if org == nil {
		return nil, apperrors.ErrOrgNotFound
	}
	if !org.HasWallet() {
		return nil, apperrors.ErrNoWallet
	}
	if !org.HasRampEntity() {
		return nil, apperrors.ErrNoRampEntity
	}

	screening, err := uc.screenParticipants(ctx, org, direction, req.WalletAddress)
	if err != nil {
		return nil, err
	}
	if screening == models.ScreeningDenied {
		return nil, apperrors.ErrScreeningDenied
	}

	walletAccountID, err := uc.fiatGW.EnsureWalletAccount(ctx, org.ZynkEntityID, req.WalletAddress, req.Token)
	if err != nil {
		return nil, err
	}

	correlationID := uuid.New()
	params := &models.FiatTransferParams{
		TransactionID: correlationID.String(),
		ExactAmountIn: req.Amount,
		Currency:      fiatCurrencyFor(req.Token),
	}
	if direction == models.RampDirectionOnramp {
		params.FromEntityID = org.ZynkEntityID
		params.FromAccountID = req.BankAccountID
		params.ToEntityID = org.ZynkEntityID
		params.ToAccountID = walletAccountID
	} else {
		params.FromEntityID = org.ZynkEntityID
		params.FromAccountID = walletAccountID
		params.ToEntityID = org.ZynkEntityID
		params.ToAccountID = req.BankAccountID
	}

	quote, err := uc.fiatGW.SimulateTransfer(ctx, params)
	if err != nil {
		return nil, err
	}

	txn := &models.Transaction{
		ID:              correlationID,
		OrganizationID:  org.ID,
		Amount:          req.Amount,
		Currency:        params.Currency,
		TransactionType: transactionTypeFor(direction),
		Status:          models.TransactionStatusSimulated,
		Metadata: models.TransactionMetadata{
			ExecutionID:   quote.ExecutionID,
			FromEntityID:  params.FromEntityID,
			FromAccountID: params.FromAccountID,
			ToEntityID:    params.ToEntityID,
			ToAccountID:   params.ToAccountID,
			Fee:           quote.Fee,
			NetAmount:     quote.NetAmount,
			Provider:      quote.Provider,
		},
	}
	if err := uc.txnRepo.CreateTransaction(ctx, txn); err != nil {
		return nil, apperrors.Provider("RECORD_WRITE_FAILED", "failed to persist transaction record").WithCause(err)
	}
	uc.publishUpdated(txn)

	uc.logger.Info("ramp transfer simulated",
		logger.String("organization_id", req.OrganizationID),
		logger.String("direction", string(direction)),
		logger.String("transaction_id", correlationID.String()),
		logger.Float64("amount", req.Amount),
		logger.Float64("fee", quote.Fee))

	return &models.RampSimulateResult{
		TransactionID:    correlationID.String(),
		Fee:              quote.Fee,
		NetAmount:        quote.NetAmount,
		Provider:         quote.Provider,
		EstimatedArrival: quote.EstimatedArrival,
	}, nil
}

// Execute asks the provider to execute a previously simulated transfer.
// A record is never executed twice for the same execution id; once the
// provider accepts, a local bookkeeping failure is logged, not rolled
// back, so the transfer is never double-submitted.
func (uc *RampUC) Execute(ctx context.Context, direction models.RampDirection, req *models.RampExecuteRequest) (*models.RampExecuteResult, error) {
	txn, err := uc.txnRepo.GetTransaction(ctx, req.TransactionID)
	if err != nil {
		return nil, apperrors.Provider("RECORD_LOOKUP_FAILED", "failed to look up transaction record").WithCause(err)
	}
	if txn == nil {
		return nil, apperrors.ErrTransactionNotFound
	}
	if txn.OrganizationID.String() != req.OrganizationID {
		return nil, apperrors.ErrNotOwner
	}
	if txn.TransactionType != transactionTypeFor(direction) {
		return nil, apperrors.Validation("DIRECTION_MISMATCH", "transaction was simulated for the other direction")
	}
	if txn.Status != models.TransactionStatusSimulated {
		if txn.Status == models.TransactionStatusProcessing || txn.Status == models.TransactionStatusCompleted {
			return nil, apperrors.ErrAlreadyExecuted
		}
		return nil, apperrors.State("INVALID_TRANSACTION_STATE", "transaction is not executable").WithDetails(txn.Status)
	}
	if txn.Metadata.ExecutionID == "" {
		return nil, apperrors.Integrity("MISSING_EXECUTION_ID", "transaction record has no execution id")
	}

	if err := uc.fiatGW.ExecuteTransfer(ctx, txn.Metadata.ExecutionID); err != nil {
		return nil, err
	}

	// Funds are moving provider-side; bookkeeping failures must not make
	// the caller retry the transfer.
	txn.Status = models.TransactionStatusProcessing
	if err := uc.txnRepo.UpdateTransactionStatus(ctx, req.TransactionID, models.TransactionStatusProcessing); err != nil {
		uc.logger.Error("failed to update transaction status after provider execution",
			logger.String("transaction_id", req.TransactionID),
			logger.String("execution_id", txn.Metadata.ExecutionID),
			logger.Err(err))
	}
	uc.publishUpdated(txn)

	uc.logger.Info("ramp transfer executed",
		logger.String("organization_id", req.OrganizationID),
		logger.String("transaction_id", req.TransactionID),
		logger.String("execution_id", txn.Metadata.ExecutionID))

	return &models.RampExecuteResult{
		TransactionID: req.TransactionID,
		Status:        models.TransactionStatusProcessing,
	}, nil
}

// ListTransactions returns an organization's transaction records
func (uc *RampUC) ListTransactions(ctx context.Context, organizationID string, limit, offset int) ([]models.Transaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	txns, err := uc.txnRepo.ListTransactions(ctx, organizationID, limit, offset)
	if err != nil {
		return nil, apperrors.Provider("RECORD_LOOKUP_FAILED", "failed to list transactions").WithCause(err)
	}
	return txns, nil
}

// publishUpdated emits a transaction status event. Publish failures are
// logged, not surfaced.
func (uc *RampUC) publishUpdated(txn *models.Transaction) {
	event := &models.TransactionEvent{
		ID:             txn.ID.String(),
		OrganizationID: txn.OrganizationID.String(),
		Type:           txn.TransactionType,
		Status:         txn.Status,
		Amount:         txn.Amount,
		Currency:       txn.Currency,
		Timestamp:      time.Now(),
	}
	if err := uc.events.PublishTransactionUpdated(event); err != nil {
		uc.logger.Warn("failed to publish transaction event",
			logger.String("transaction_id", event.ID),
			logger.Err(err))
	}
}
