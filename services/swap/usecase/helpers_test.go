package usecase

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"github.com/stablehq/treasury/internal/pkg/logger"
	"github.com/stablehq/treasury/internal/pkg/models"
	"github.com/stablehq/treasury/internal/pkg/squads"
)

type fakeOrgRepo struct {
	orgs  map[string]*models.Organization
	calls int
	err   error
}

func (f *fakeOrgRepo) GetOrganization(_ context.Context, id string) (*models.Organization, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.orgs[id], nil
}

// fakeFlowStore is a keyed in-memory mirror of the Redis store
type fakeFlowStore struct {
	prepared map[string]*models.PreparedTransaction
	execCtxs map[string]*models.ExecutionContext

	storeExecCtxErr error
}

func newFakeFlowStore() *fakeFlowStore {
	return &fakeFlowStore{
		prepared: make(map[string]*models.PreparedTransaction),
		execCtxs: make(map[string]*models.ExecutionContext),
	}
}

func (f *fakeFlowStore) StorePrepared(_ context.Context, p *models.PreparedTransaction) error {
	f.prepared[p.TransactionID] = p
	return nil
}

func (f *fakeFlowStore) GetPrepared(_ context.Context, id string) (*models.PreparedTransaction, error) {
	return f.prepared[id], nil
}

func (f *fakeFlowStore) DeletePrepared(_ context.Context, id string) error {
	delete(f.prepared, id)
	return nil
}

func (f *fakeFlowStore) StoreExecutionContext(_ context.Context, e *models.ExecutionContext) error {
	if f.storeExecCtxErr != nil {
		return f.storeExecCtxErr
	}
	f.execCtxs[e.ProposalSignature] = e
	return nil
}

func (f *fakeFlowStore) GetExecutionContext(_ context.Context, sig string) (*models.ExecutionContext, error) {
	return f.execCtxs[sig], nil
}

func (f *fakeFlowStore) DeleteExecutionContext(_ context.Context, sig string) error {
	delete(f.execCtxs, sig)
	return nil
}

type fakeDexGW struct {
	quote        *models.SwapQuote
	quoteErr     error
	quoteCalls   int
	swapMessage  []byte
	messageCalls int
}

func (f *fakeDexGW) Quote(context.Context, *models.SwapRequest) (*models.SwapQuote, error) {
	f.quoteCalls++
	if f.quoteErr != nil {
		return nil, f.quoteErr
	}
	return f.quote, nil
}

func (f *fakeDexGW) SwapMessage(context.Context, *models.SwapRequest, *models.SwapQuote, solana.PublicKey) ([]byte, error) {
	f.messageCalls++
	return f.swapMessage, nil
}

type fakeLedgerGW struct {
	multisig     *squads.MultisigAccount
	multisigErr  error
	balance      float64
	balanceErr   error
	balanceCalls int

	submitSig       string
	submitConfirmed bool
	submitErr       error
	submitCalls     int
}

func (f *fakeLedgerGW) GetMultisigAccount(context.Context, solana.PublicKey) (*squads.MultisigAccount, error) {
	return f.multisig, f.multisigErr
}

func (f *fakeLedgerGW) TokenBalance(context.Context, solana.PublicKey) (float64, error) {
	f.balanceCalls++
	return f.balance, f.balanceErr
}

func (f *fakeLedgerGW) LatestBlockhash(context.Context) (solana.Hash, error) {
	return solana.Hash{1}, nil
}

func (f *fakeLedgerGW) GetLookupTableAddresses(context.Context, solana.PublicKey) ([]solana.PublicKey, error) {
	return nil, errors.New("no lookup tables in tests")
}

func (f *fakeLedgerGW) EstimateComputeUnits(context.Context, *solana.Transaction, bool) uint32 {
	return 200_000
}

func (f *fakeLedgerGW) PriorityFee(context.Context, solana.PublicKeySlice, bool) uint64 {
	return 1_000
}

func (f *fakeLedgerGW) SubmitAndConfirm(context.Context, *solana.Transaction) (string, bool, error) {
	f.submitCalls++
	return f.submitSig, f.submitConfirmed, f.submitErr
}

type fakeEventGW struct {
	completed []*models.SwapCompletedEvent
}

func (f *fakeEventGW) PublishSwapCompleted(event *models.SwapCompletedEvent) error {
	f.completed = append(f.completed, event)
	return nil
}

type fixture struct {
	uc     *SwapUC
	orgs   *fakeOrgRepo
	store  *fakeFlowStore
	dex    *fakeDexGW
	ledger *fakeLedgerGW
	events *fakeEventGW

	orgID     string
	createKey solana.PublicKey
	member    *solana.Wallet
}

func testConfig() *models.Config {
	return &models.Config{
		Swap: models.SwapConfig{
			Venues:                []string{"orca", "raydium"},
			MaxSlippageDeviation:  2.0,
			PreparedTTLSeconds:    300,
			ExecutionCtxTTLSecond: 900,
		},
	}
}

func newFixture(t *testing.T, threshold uint16) *fixture {
	t.Helper()
	zl, err := logger.NewZapLogger(models.LoggerConfig{Level: "error"}, nil)
	require.NoError(t, err)

	member := solana.NewWallet()
	createKey := solana.NewWallet().PublicKey()
	orgID := "11111111-2222-3333-4444-555555555555"

	orgs := &fakeOrgRepo{orgs: map[string]*models.Organization{
		orgID: {Name: "acme", CreateKey: createKey.String()},
	}}
	store := newFakeFlowStore()
	dex := &fakeDexGW{
		quote: &models.SwapQuote{
			AmountIn:           100,
			EstimatedAmountOut: 99.5,
			MinimumAmountOut:   99,
			ExchangeRate:       0.995,
			Route:              "orca",
		},
		swapMessage: encodedVaultMessage(t, createKey),
	}
	ledger := &fakeLedgerGW{
		multisig: &squads.MultisigAccount{
			Threshold:        threshold,
			TransactionIndex: 4,
			Members: []squads.Member{
				{Key: member.PublicKey(), Permissions: squads.PermissionFull},
			},
		},
		balance:         1_000,
		submitSig:       solana.NewWallet().PublicKey().String(),
		submitConfirmed: true,
	}
	events := &fakeEventGW{}

	return &fixture{
		uc:        NewSwapUC(orgs, store, dex, ledger, events, testConfig(), zl),
		orgs:      orgs,
		store:     store,
		dex:       dex,
		ledger:    ledger,
		events:    events,
		orgID:     orgID,
		createKey: createKey,
		member:    member,
	}
}

// encodedVaultMessage builds a minimal borsh-encoded vault transaction
// message whose only account is the vault itself
func encodedVaultMessage(t *testing.T, createKey solana.PublicKey) []byte {
	t.Helper()
	addrs, err := squads.DeriveMultisigAddresses(createKey)
	require.NoError(t, err)

	msg := squads.VaultTransactionMessage{
		NumSigners:         1,
		NumWritableSigners: 1,
		AccountKeys:        []solana.PublicKey{addrs.VaultPDA, solana.TokenProgramID},
		Instructions: []squads.CompiledInstruction{{
			ProgramIDIndex: 1,
			AccountIndexes: []uint8{0},
			Data:           []byte{9},
		}},
	}
	data, err := bin.MarshalBorsh(&msg)
	require.NoError(t, err)
	return data
}

func validSwapRequest(orgID string) models.SwapRequest {
	return models.SwapRequest{
		OrganizationID:    orgID,
		FromToken:         "USDC",
		ToToken:           "USDT",
		Amount:            100,
		SlippageTolerance: 0.5,
	}
}

func preparedFixture(t *testing.T, f *fixture) *models.PreparedSwap {
	t.Helper()
	req := &models.SwapPrepareRequest{
		SwapRequest:       validSwapRequest(f.orgID),
		ExpectedAmountOut: 99.5,
		WalletAddress:     f.member.PublicKey().String(),
	}
	prepared, err := f.uc.PrepareSwap(context.Background(), req)
	require.NoError(t, err)
	return prepared
}

// signPrepared decodes the prepared artifact and signs it as the member
func signPrepared(t *testing.T, f *fixture, prepared *models.PreparedSwap) string {
	t.Helper()
	record := f.store.prepared[prepared.TransactionID]
	require.NotNil(t, record)
	return signUnsigned(t, f, record.UnsignedTx)
}

func signUnsigned(t *testing.T, f *fixture, unsigned []byte) string {
	t.Helper()
	tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(unsigned))
	require.NoError(t, err)

	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(f.member.PublicKey()) {
			return &f.member.PrivateKey
		}
		return nil
	})
	require.NoError(t, err)

	raw, err := tx.MarshalBinary()
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(raw)
}
