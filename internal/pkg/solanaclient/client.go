package solanaclient

import (
	"context"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/stablehq/treasury/internal/pkg/logger"
	"github.com/stablehq/treasury/internal/pkg/models"
	"github.com/stablehq/treasury/internal/pkg/retry"
)

// RPC is the subset of the ledger RPC surface the client depends on.
// *rpc.Client satisfies it; tests substitute fakes.
type RPC interface {
	GetSignatureStatuses(ctx context.Context, searchTransactionHistory bool, transactionSignatures ...solana.Signature) (*rpc.GetSignatureStatusesResult, error)
	SendTransactionWithOpts(ctx context.Context, transaction *solana.Transaction, opts rpc.TransactionOpts) (solana.Signature, error)
	SendRawTransactionWithOpts(ctx context.Context, data []byte, opts rpc.TransactionOpts) (solana.Signature, error)
	SimulateTransactionWithOpts(ctx context.Context, transaction *solana.Transaction, opts *rpc.SimulateTransactionOpts) (*rpc.SimulateTransactionResponse, error)
	GetRecentPrioritizationFees(ctx context.Context, accounts solana.PublicKeySlice) ([]rpc.PriorizationFeeResult, error)
	GetAccountInfo(ctx context.Context, account solana.PublicKey) (*rpc.GetAccountInfoResult, error)
	GetTokenAccountBalance(ctx context.Context, account solana.PublicKey, commitment rpc.CommitmentType) (*rpc.GetTokenAccountBalanceResult, error)
	GetLatestBlockhash(ctx context.Context, commitment rpc.CommitmentType) (*rpc.GetLatestBlockhashResult, error)
}

// Client submits transactions to the ledger and tracks their outcome
type Client struct {
	rpc        RPC
	commitment rpc.CommitmentType
	logger     *logger.ZapLogger
	retrier    *retry.Retrier

	confirmMaxAttempts int
	confirmTimeout     time.Duration
}

// New creates a ledger client from configuration
func New(cfg models.SolanaConfig, zl *logger.ZapLogger) *Client {
	commitment := rpc.CommitmentConfirmed
	switch cfg.Commitment {
	case "processed":
		commitment = rpc.CommitmentProcessed
	case "finalized":
		commitment = rpc.CommitmentFinalized
	}

	return &Client{
		rpc:                rpc.New(cfg.RPCURL),
		commitment:         commitment,
		logger:             zl,
		retrier:            newSendRetrier(zl),
		confirmMaxAttempts: cfg.ConfirmMaxAttempts,
		confirmTimeout:     time.Duration(cfg.ConfirmTimeoutSec) * time.Second,
	}
}

// NewWithRPC creates a client over an explicit RPC implementation
func NewWithRPC(rpcClient RPC, commitment rpc.CommitmentType, zl *logger.ZapLogger) *Client {
	return &Client{
		rpc:                rpcClient,
		commitment:         commitment,
		logger:             zl,
		retrier:            newSendRetrier(zl),
		confirmMaxAttempts: 30,
		confirmTimeout:     60 * time.Second,
	}
}

// newSendRetrier backs transaction submission. Only transient network and
// provider failures are retried; ledger rejections (bad blockhash,
// encoding mismatches) surface immediately so callers can react.
func newSendRetrier(zl *logger.ZapLogger) *retry.Retrier {
	return retry.New(retry.Config{
		MaxRetries:    3,
		BaseDelay:     500 * time.Millisecond,
		MaxDelay:      5 * time.Second,
		Multiplier:    2.0,
		Jitter:        true,
		RetryableFunc: retry.NetworkRetryableFunc(),
	}, zl)
}

// Commitment returns the configured commitment level
func (c *Client) Commitment() rpc.CommitmentType {
	return c.commitment
}

// RPCClient exposes the underlying RPC surface
func (c *Client) RPCClient() RPC {
	return c.rpc
}

// LatestBlockhash fetches a recent blockhash at the configured commitment
func (c *Client) LatestBlockhash(ctx context.Context) (solana.Hash, error) {
	out, err := c.rpc.GetLatestBlockhash(ctx, c.commitment)
	if err != nil {
		return solana.Hash{}, err
	}
	return out.Value.Blockhash, nil
}
