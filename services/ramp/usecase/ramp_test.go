package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
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

type fakeTxnRepo struct {
	records map[string]*models.Transaction
	creates int

	createErr error
	updateErr error

	listed []models.Transaction
	// captured by ListTransactions
	lastLimit  int
	lastOffset int
}

func newFakeTxnRepo() *fakeTxnRepo {
	return &fakeTxnRepo{records: make(map[string]*models.Transaction)}
}

func (f *fakeTxnRepo) CreateTransaction(_ context.Context, txn *models.Transaction) error {
	f.creates++
	if f.createErr != nil {
		return f.createErr
	}
	clone := *txn
	f.records[txn.ID.String()] = &clone
	return nil
}

func (f *fakeTxnRepo) GetTransaction(_ context.Context, id string) (*models.Transaction, error) {
	txn, ok := f.records[id]
	if !ok {
		return nil, nil
	}
	clone := *txn
	return &clone, nil
}

func (f *fakeTxnRepo) UpdateTransactionStatus(_ context.Context, id, status string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	txn, ok := f.records[id]
	if !ok {
		return errors.New("transaction not found")
	}
	txn.Status = status
	return nil
}

func (f *fakeTxnRepo) ListTransactions(_ context.Context, _ string, limit, offset int) ([]models.Transaction, error) {
	f.lastLimit = limit
	f.lastOffset = offset
	return f.listed, nil
}

type fakeFiatGW struct {
	accountID   string
	accountErr  error
	ensureCalls int

	quote         *models.FiatTransferQuote
	quoteErr      error
	simulateCalls int
	lastParams    *models.FiatTransferParams

	executeErr   error
	executeCalls int
	executedIDs  []string
}

func (f *fakeFiatGW) EnsureWalletAccount(_ context.Context, _, _, _ string) (string, error) {
	f.ensureCalls++
	return f.accountID, f.accountErr
}

func (f *fakeFiatGW) SimulateTransfer(_ context.Context, params *models.FiatTransferParams) (*models.FiatTransferQuote, error) {
	f.simulateCalls++
	f.lastParams = params
	if f.quoteErr != nil {
		return nil, f.quoteErr
	}
	return f.quote, nil
}

func (f *fakeFiatGW) ExecuteTransfer(_ context.Context, executionID string) error {
	f.executeCalls++
	f.executedIDs = append(f.executedIDs, executionID)
	return f.executeErr
}

type fakeComplianceGW struct {
	result models.ScreeningResult
	calls  int

	txnCalls int
	lastFrom string
	lastTo   string
}

func (f *fakeComplianceGW) ScreenAddress(context.Context, string, string) (models.ScreeningResult, error) {
	f.calls++
	return f.result, nil
}

func (f *fakeComplianceGW) ScreenTransaction(_ context.Context, fromAddress, toAddress, _ string) (models.ScreeningResult, error) {
	f.txnCalls++
	f.lastFrom = fromAddress
	f.lastTo = toAddress
	return f.result, nil
}

type fakeEventGW struct {
	events []*models.TransactionEvent
	err    error
}

func (f *fakeEventGW) PublishTransactionUpdated(event *models.TransactionEvent) error {
	f.events = append(f.events, event)
	return f.err
}

type rampFixture struct {
	uc         *RampUC
	txns       *fakeTxnRepo
	fiat       *fakeFiatGW
	compliance *fakeComplianceGW
	events     *fakeEventGW

	orgID uuid.UUID
}

func newRampFixture(t *testing.T) *rampFixture {
	t.Helper()
	zl, err := logger.NewZapLogger(models.LoggerConfig{Level: "error"}, nil)
	require.NoError(t, err)

	orgID := uuid.New()
	orgs := &fakeOrgRepo{orgs: map[string]*models.Organization{
		orgID.String(): {
			ID:           orgID,
			Name:         "acme",
			CreateKey:    "BPFLoaderUpgradeab1e11111111111111111111111",
			ZynkEntityID: "ent_123",
		},
	}}
	txns := newFakeTxnRepo()
	fiat := &fakeFiatGW{
		accountID: "acct_wallet_9",
		quote: &models.FiatTransferQuote{
			ExecutionID:      "exec_abc",
			Fee:              1.25,
			NetAmount:        98.75,
			Provider:         "zynk",
			EstimatedArrival: time.Now().Add(24 * time.Hour),
		},
	}
	compliance := &fakeComplianceGW{result: models.ScreeningApproved}
	events := &fakeEventGW{}

	return &rampFixture{
		uc:         NewRampUC(orgs, txns, fiat, compliance, events, &models.Config{}, zl),
		txns:       txns,
		fiat:       fiat,
		compliance: compliance,
		events:     events,
		orgID:      orgID,
	}
}

func simulateRequest(orgID uuid.UUID) *models.RampSimulateRequest {
	return &models.RampSimulateRequest{
		OrganizationID: orgID.String(),
		Token:          "USDC",
		Amount:         100,
		BankAccountID:  "acct_bank_1",
		WalletAddress:  "So11111111111111111111111111111111111111112",
	}
}

func requireRampCode(t *testing.T, err error, code string) *apperrors.AppError {
	t.Helper()
	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok, "expected AppError, got %T: %v", err, err)
	require.Equal(t, code, appErr.Code)
	return appErr
}

func TestSimulate_PersistsRecordWithFreshCorrelationID(t *testing.T) {
	f := newRampFixture(t)

	result, err := f.uc.Simulate(context.Background(), models.RampDirectionOnramp, simulateRequest(f.orgID))

	require.NoError(t, err)
	assert.Equal(t, 1.25, result.Fee)
	assert.Equal(t, 98.75, result.NetAmount)
	assert.Equal(t, "zynk", result.Provider)

	record := f.txns.records[result.TransactionID]
	require.NotNil(t, record, "simulated record persists immediately")
	assert.Equal(t, models.TransactionStatusSimulated, record.Status)
	assert.Equal(t, models.TransactionTypeDeposit, record.TransactionType)
	assert.Equal(t, f.orgID, record.OrganizationID)
	assert.Equal(t, "exec_abc", record.Metadata.ExecutionID)
	assert.Equal(t, "USD", record.Currency)

	require.Len(t, f.events.events, 1)
	assert.Equal(t, models.TransactionStatusSimulated, f.events.events[0].Status)
}

func TestSimulate_SequentialSimulationsGetDistinctIDs(t *testing.T) {
	f := newRampFixture(t)

	first, err := f.uc.Simulate(context.Background(), models.RampDirectionOnramp, simulateRequest(f.orgID))
	require.NoError(t, err)
	second, err := f.uc.Simulate(context.Background(), models.RampDirectionOnramp, simulateRequest(f.orgID))
	require.NoError(t, err)

	assert.NotEqual(t, first.TransactionID, second.TransactionID)
	assert.Len(t, f.txns.records, 2)
}

func TestSimulate_OnrampLegsBankToWallet(t *testing.T) {
	f := newRampFixture(t)

	_, err := f.uc.Simulate(context.Background(), models.RampDirectionOnramp, simulateRequest(f.orgID))

	require.NoError(t, err)
	params := f.fiat.lastParams
	require.NotNil(t, params)
	assert.Equal(t, "acct_bank_1", params.FromAccountID)
	assert.Equal(t, "acct_wallet_9", params.ToAccountID)
	assert.Equal(t, "ent_123", params.FromEntityID)
	assert.Equal(t, "ent_123", params.ToEntityID)
	assert.Equal(t, "USD", params.Currency)
}

func TestSimulate_OfframpLegsWalletToBank(t *testing.T) {
	f := newRampFixture(t)

	_, err := f.uc.Simulate(context.Background(), models.RampDirectionOfframp, simulateRequest(f.orgID))

	require.NoError(t, err)
	params := f.fiat.lastParams
	require.NotNil(t, params)
	assert.Equal(t, "acct_wallet_9", params.FromAccountID)
	assert.Equal(t, "acct_bank_1", params.ToAccountID)

	record := f.txns.records[params.TransactionID]
	require.NotNil(t, record)
	assert.Equal(t, models.TransactionTypeWithdrawal, record.TransactionType)
}

func TestSimulate_EuroStablecoinRampsAgainstEUR(t *testing.T) {
	f := newRampFixture(t)
	req := simulateRequest(f.orgID)
	req.Token = "EURC"

	_, err := f.uc.Simulate(context.Background(), models.RampDirectionOnramp, req)

	require.NoError(t, err)
	assert.Equal(t, "EUR", f.fiat.lastParams.Currency)
}

func TestSimulate_ScreeningDeniedBlocksBeforeProvider(t *testing.T) {
	f := newRampFixture(t)
	f.compliance.result = models.ScreeningDenied

	_, err := f.uc.Simulate(context.Background(), models.RampDirectionOnramp, simulateRequest(f.orgID))

	requireRampCode(t, err, "SCREENING_DENIED")
	assert.Zero(t, f.fiat.ensureCalls)
	assert.Zero(t, f.fiat.simulateCalls)
	assert.Empty(t, f.txns.records)
}

func TestSimulate_ScreeningReviewDoesNotBlock(t *testing.T) {
	f := newRampFixture(t)
	f.compliance.result = models.ScreeningReview

	_, err := f.uc.Simulate(context.Background(), models.RampDirectionOnramp, simulateRequest(f.orgID))

	require.NoError(t, err)
	assert.Equal(t, 1, f.fiat.simulateCalls)
}

func TestSimulate_OfframpScreensVaultAndDestination(t *testing.T) {
	f := newRampFixture(t)

	_, err := f.uc.Simulate(context.Background(), models.RampDirectionOfframp, simulateRequest(f.orgID))
	require.NoError(t, err)

	require.Equal(t, 1, f.compliance.txnCalls)
	assert.Zero(t, f.compliance.calls, "offramp screens the pair, not a single address")

	createKey := solana.MustPublicKeyFromBase58("BPFLoaderUpgradeab1e11111111111111111111111")
	addrs, err := squads.DeriveMultisigAddresses(createKey)
	require.NoError(t, err)
	assert.Equal(t, addrs.VaultPDA.String(), f.compliance.lastFrom)
	assert.Equal(t, "So11111111111111111111111111111111111111112", f.compliance.lastTo)
}

func TestSimulate_OfframpScreeningDeniedBlocks(t *testing.T) {
	f := newRampFixture(t)
	f.compliance.result = models.ScreeningDenied

	_, err := f.uc.Simulate(context.Background(), models.RampDirectionOfframp, simulateRequest(f.orgID))

	requireRampCode(t, err, "SCREENING_DENIED")
	assert.Equal(t, 1, f.compliance.txnCalls)
	assert.Zero(t, f.fiat.ensureCalls)
	assert.Empty(t, f.txns.records)
}

func TestSimulate_OrganizationWithoutRampEntity(t *testing.T) {
	f := newRampFixture(t)
	req := simulateRequest(f.orgID)
	org := f.uc.orgRepo.(*fakeOrgRepo).orgs[f.orgID.String()]
	org.ZynkEntityID = ""

	_, err := f.uc.Simulate(context.Background(), models.RampDirectionOnramp, req)

	requireRampCode(t, err, "NO_RAMP_ENTITY")
	assert.Zero(t, f.compliance.calls)
}

func TestSimulate_InputValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.RampSimulateRequest)
		code   string
	}{
		{"unsupported token", func(r *models.RampSimulateRequest) { r.Token = "DOGE" }, "UNSUPPORTED_TOKEN"},
		{"zero amount", func(r *models.RampSimulateRequest) { r.Amount = 0 }, "INVALID_AMOUNT"},
		{"missing bank account", func(r *models.RampSimulateRequest) { r.BankAccountID = "" }, "MISSING_BANK_ACCOUNT"},
		{"missing wallet", func(r *models.RampSimulateRequest) { r.WalletAddress = "" }, "MISSING_WALLET_ADDRESS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRampFixture(t)
			req := simulateRequest(f.orgID)
			tt.mutate(req)

			_, err := f.uc.Simulate(context.Background(), models.RampDirectionOnramp, req)

			requireRampCode(t, err, tt.code)
			assert.Zero(t, f.compliance.calls)
		})
	}
}

func TestExecute_MovesSimulatedToProcessing(t *testing.T) {
	f := newRampFixture(t)
	sim, err := f.uc.Simulate(context.Background(), models.RampDirectionOnramp, simulateRequest(f.orgID))
	require.NoError(t, err)

	result, err := f.uc.Execute(context.Background(), models.RampDirectionOnramp, &models.RampExecuteRequest{
		OrganizationID: f.orgID.String(),
		TransactionID:  sim.TransactionID,
	})

	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusProcessing, result.Status)
	assert.Equal(t, []string{"exec_abc"}, f.fiat.executedIDs)
	assert.Equal(t, models.TransactionStatusProcessing, f.txns.records[sim.TransactionID].Status)
}

func TestExecute_SecondAttemptRejected(t *testing.T) {
	f := newRampFixture(t)
	sim, err := f.uc.Simulate(context.Background(), models.RampDirectionOnramp, simulateRequest(f.orgID))
	require.NoError(t, err)

	req := &models.RampExecuteRequest{OrganizationID: f.orgID.String(), TransactionID: sim.TransactionID}
	_, err = f.uc.Execute(context.Background(), models.RampDirectionOnramp, req)
	require.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), models.RampDirectionOnramp, req)

	requireRampCode(t, err, "ALREADY_EXECUTED")
	assert.Equal(t, 1, f.fiat.executeCalls, "provider must see exactly one execute")
}

func TestExecute_DirectionMismatch(t *testing.T) {
	f := newRampFixture(t)
	sim, err := f.uc.Simulate(context.Background(), models.RampDirectionOnramp, simulateRequest(f.orgID))
	require.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), models.RampDirectionOfframp, &models.RampExecuteRequest{
		OrganizationID: f.orgID.String(),
		TransactionID:  sim.TransactionID,
	})

	requireRampCode(t, err, "DIRECTION_MISMATCH")
	assert.Zero(t, f.fiat.executeCalls)
}

func TestExecute_OtherOrganizationRejected(t *testing.T) {
	f := newRampFixture(t)
	sim, err := f.uc.Simulate(context.Background(), models.RampDirectionOnramp, simulateRequest(f.orgID))
	require.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), models.RampDirectionOnramp, &models.RampExecuteRequest{
		OrganizationID: uuid.NewString(),
		TransactionID:  sim.TransactionID,
	})

	requireRampCode(t, err, "NOT_OWNER")
	assert.Zero(t, f.fiat.executeCalls)
}

func TestExecute_UnknownTransaction(t *testing.T) {
	f := newRampFixture(t)

	_, err := f.uc.Execute(context.Background(), models.RampDirectionOnramp, &models.RampExecuteRequest{
		OrganizationID: f.orgID.String(),
		TransactionID:  uuid.NewString(),
	})

	requireRampCode(t, err, "TRANSACTION_NOT_FOUND")
}

func TestExecute_MissingExecutionID(t *testing.T) {
	f := newRampFixture(t)
	f.fiat.quote.ExecutionID = ""
	sim, err := f.uc.Simulate(context.Background(), models.RampDirectionOnramp, simulateRequest(f.orgID))
	require.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), models.RampDirectionOnramp, &models.RampExecuteRequest{
		OrganizationID: f.orgID.String(),
		TransactionID:  sim.TransactionID,
	})

	requireRampCode(t, err, "MISSING_EXECUTION_ID")
	assert.Zero(t, f.fiat.executeCalls)
}

func TestExecute_LocalUpdateFailureAfterProviderSuccess(t *testing.T) {
	f := newRampFixture(t)
	sim, err := f.uc.Simulate(context.Background(), models.RampDirectionOnramp, simulateRequest(f.orgID))
	require.NoError(t, err)
	f.txns.updateErr = errors.New("connection reset")

	result, err := f.uc.Execute(context.Background(), models.RampDirectionOnramp, &models.RampExecuteRequest{
		OrganizationID: f.orgID.String(),
		TransactionID:  sim.TransactionID,
	})

	require.NoError(t, err, "provider accepted the transfer; bookkeeping failure is not surfaced")
	assert.Equal(t, models.TransactionStatusProcessing, result.Status)
	assert.Equal(t, 1, f.fiat.executeCalls)
}

func TestListTransactions_ClampsPaging(t *testing.T) {
	f := newRampFixture(t)
	f.txns.listed = []models.Transaction{{ID: uuid.New()}}

	_, err := f.uc.ListTransactions(context.Background(), f.orgID.String(), 0, -3)
	require.NoError(t, err)
	assert.Equal(t, 50, f.txns.lastLimit)
	assert.Equal(t, 0, f.txns.lastOffset)

	_, err = f.uc.ListTransactions(context.Background(), f.orgID.String(), 500, 20)
	require.NoError(t, err)
	assert.Equal(t, 50, f.txns.lastLimit)
	assert.Equal(t, 20, f.txns.lastOffset)

	txns, err := f.uc.ListTransactions(context.Background(), f.orgID.String(), 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 10, f.txns.lastLimit)
	assert.Len(t, txns, 1)
}
