package usecase

import (
	"context"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stablehq/treasury/internal/pkg/apperrors"
	"github.com/stablehq/treasury/internal/pkg/models"
)

func requireCode(t *testing.T, err error, code string) *apperrors.AppError {
	t.Helper()
	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok, "expected AppError, got %T: %v", err, err)
	require.Equal(t, code, appErr.Code)
	return appErr
}

func TestSimulateSwap_SelfConversionRejectedBeforeAnyLookup(t *testing.T) {
	f := newFixture(t, 1)
	req := validSwapRequest(f.orgID)
	req.ToToken = req.FromToken

	_, err := f.uc.SimulateSwap(context.Background(), &req)

	requireCode(t, err, "SELF_CONVERSION")
	assert.Zero(t, f.orgs.calls)
	assert.Zero(t, f.ledger.balanceCalls)
	assert.Zero(t, f.dex.quoteCalls)
}

func TestSimulateSwap_InputValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.SwapRequest)
		code   string
	}{
		{"unsupported from token", func(r *models.SwapRequest) { r.FromToken = "DOGE" }, "UNSUPPORTED_TOKEN"},
		{"unsupported to token", func(r *models.SwapRequest) { r.ToToken = "DOGE" }, "UNSUPPORTED_TOKEN"},
		{"zero amount", func(r *models.SwapRequest) { r.Amount = 0 }, "INVALID_AMOUNT"},
		{"negative amount", func(r *models.SwapRequest) { r.Amount = -5 }, "INVALID_AMOUNT"},
		{"slippage below floor", func(r *models.SwapRequest) { r.SlippageTolerance = 0.05 }, "INVALID_SLIPPAGE"},
		{"slippage above ceiling", func(r *models.SwapRequest) { r.SlippageTolerance = 5.5 }, "INVALID_SLIPPAGE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, 1)
			req := validSwapRequest(f.orgID)
			tt.mutate(&req)

			_, err := f.uc.SimulateSwap(context.Background(), &req)

			requireCode(t, err, tt.code)
			assert.Zero(t, f.dex.quoteCalls)
		})
	}
}

func TestSimulateSwap_UnknownOrganization(t *testing.T) {
	f := newFixture(t, 1)
	req := validSwapRequest("99999999-0000-0000-0000-000000000000")

	_, err := f.uc.SimulateSwap(context.Background(), &req)

	requireCode(t, err, "ORGANIZATION_NOT_FOUND")
}

func TestSimulateSwap_OrganizationWithoutWallet(t *testing.T) {
	f := newFixture(t, 1)
	f.orgs.orgs[f.orgID].CreateKey = ""
	req := validSwapRequest(f.orgID)

	_, err := f.uc.SimulateSwap(context.Background(), &req)

	requireCode(t, err, "NO_OPERATIONAL_WALLET")
}

func TestSimulateSwap_InsufficientBalanceSkipsVenues(t *testing.T) {
	f := newFixture(t, 1)
	f.ledger.balance = 10
	req := validSwapRequest(f.orgID)
	req.Amount = 100

	_, err := f.uc.SimulateSwap(context.Background(), &req)

	appErr := requireCode(t, err, "INSUFFICIENT_BALANCE")
	assert.Contains(t, appErr.Details, "10.000000 USDC")
	assert.Zero(t, f.dex.quoteCalls)
}

func TestSimulateSwap_ReturnsVenueQuote(t *testing.T) {
	f := newFixture(t, 1)
	req := validSwapRequest(f.orgID)

	quote, err := f.uc.SimulateSwap(context.Background(), &req)

	require.NoError(t, err)
	assert.Equal(t, f.dex.quote, quote)
	assert.Equal(t, 1, f.dex.quoteCalls)
	assert.Equal(t, 1, f.ledger.balanceCalls)
}

func TestCheckQuoteDeviation(t *testing.T) {
	tests := []struct {
		name     string
		live     float64
		expected float64
		bound    float64
		code     string
	}{
		{"within bound", 99.0, 100.0, 2.0, ""},
		{"exactly at bound", 50.0, 100.0, 50.0, ""},
		{"just beyond bound", 97.9, 100.0, 2.0, "MARKET_CONDITIONS_CHANGED"},
		{"upward drift also guarded", 103.0, 100.0, 2.0, "MARKET_CONDITIONS_CHANGED"},
		{"missing expected out", 99.0, 0, 2.0, "MISSING_EXPECTED_OUT"},
		{"negative expected out", 99.0, -1, 2.0, "MISSING_EXPECTED_OUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkQuoteDeviation(tt.live, tt.expected, tt.bound)
			if tt.code == "" {
				assert.NoError(t, err)
				return
			}
			requireCode(t, err, tt.code)
		})
	}
}

func TestPrepareSwap_StoresRecordAndReturnsArtifact(t *testing.T) {
	f := newFixture(t, 2)

	prepared := preparedFixture(t, f)

	assert.NotEmpty(t, prepared.TransactionID)
	assert.NotEmpty(t, prepared.SerializedTransaction)

	record := f.store.prepared[prepared.TransactionID]
	require.NotNil(t, record)
	assert.Equal(t, f.orgID, record.OrganizationID)
	assert.Equal(t, uint64(5), record.TransactionIndex, "next index after on-chain TransactionIndex 4")
	assert.Equal(t, uint16(2), record.Threshold)
	assert.Equal(t, f.member.PublicKey().String(), record.MemberWallet)
	assert.NotEmpty(t, record.UnsignedTx)
	assert.NotEmpty(t, record.VaultMessage)
}

func TestPrepareSwap_IdempotentReplaySkipsVenues(t *testing.T) {
	f := newFixture(t, 2)
	first := preparedFixture(t, f)
	venueCalls := f.dex.quoteCalls

	req := &models.SwapPrepareRequest{
		SwapRequest:       validSwapRequest(f.orgID),
		ExpectedAmountOut: 99.5,
		WalletAddress:     f.member.PublicKey().String(),
		TransactionID:     first.TransactionID,
	}
	replay, err := f.uc.PrepareSwap(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, first.TransactionID, replay.TransactionID)
	assert.Equal(t, first.SerializedTransaction, replay.SerializedTransaction)
	assert.Equal(t, venueCalls, f.dex.quoteCalls, "replay must not touch the venues")
}

func TestPrepareSwap_ReplayByAnotherOrganizationRejected(t *testing.T) {
	f := newFixture(t, 2)
	first := preparedFixture(t, f)

	otherOrg := "66666666-7777-8888-9999-000000000000"
	f.orgs.orgs[otherOrg] = &models.Organization{Name: "rival", CreateKey: f.createKey.String()}

	req := &models.SwapPrepareRequest{
		SwapRequest:       validSwapRequest(otherOrg),
		ExpectedAmountOut: 99.5,
		WalletAddress:     f.member.PublicKey().String(),
		TransactionID:     first.TransactionID,
	}
	_, err := f.uc.PrepareSwap(context.Background(), req)

	requireCode(t, err, "NOT_OWNER")
}

func TestPrepareSwap_PriceDriftRejected(t *testing.T) {
	f := newFixture(t, 2)
	f.dex.quote.EstimatedAmountOut = 95 // user confirmed 99.5

	req := &models.SwapPrepareRequest{
		SwapRequest:       validSwapRequest(f.orgID),
		ExpectedAmountOut: 99.5,
		WalletAddress:     f.member.PublicKey().String(),
	}
	_, err := f.uc.PrepareSwap(context.Background(), req)

	requireCode(t, err, "MARKET_CONDITIONS_CHANGED")
	assert.Empty(t, f.store.prepared, "drifted prepare must not leave state behind")
}

func TestPrepareSwap_NonMemberWalletRejected(t *testing.T) {
	f := newFixture(t, 2)
	stranger := validSwapRequest(f.orgID)

	req := &models.SwapPrepareRequest{
		SwapRequest:       stranger,
		ExpectedAmountOut: 99.5,
		WalletAddress:     solana.NewWallet().PublicKey().String(),
	}
	_, err := f.uc.PrepareSwap(context.Background(), req)

	requireCode(t, err, "NOT_MULTISIG_MEMBER")
	assert.Empty(t, f.store.prepared)
}

func TestPrepareSwap_MalformedWalletRejected(t *testing.T) {
	f := newFixture(t, 2)

	req := &models.SwapPrepareRequest{
		SwapRequest:       validSwapRequest(f.orgID),
		ExpectedAmountOut: 99.5,
		WalletAddress:     "not-a-pubkey",
	}
	_, err := f.uc.PrepareSwap(context.Background(), req)

	requireCode(t, err, "INVALID_WALLET")
}

func TestPrepareSwap_ConcurrentRecordsAreIsolated(t *testing.T) {
	f := newFixture(t, 2)

	first := preparedFixture(t, f)
	second := preparedFixture(t, f)

	require.NotEqual(t, first.TransactionID, second.TransactionID)
	assert.Len(t, f.store.prepared, 2)
	assert.NotNil(t, f.store.prepared[first.TransactionID])
	assert.NotNil(t, f.store.prepared[second.TransactionID])
}
