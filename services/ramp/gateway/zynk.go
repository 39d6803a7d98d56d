package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/stablehq/treasury/internal/pkg/apperrors"
	"github.com/stablehq/treasury/internal/pkg/circuitbreaker"
	httpclient "github.com/stablehq/treasury/internal/pkg/http"
	"github.com/stablehq/treasury/internal/pkg/logger"
	"github.com/stablehq/treasury/internal/pkg/models"
)

const idempotencyHeader = "Idempotency-Key"

// ZynkGateway talks to the fiat rail provider. All calls run through a
// circuit breaker so a degraded provider sheds load quickly instead of
// tying up request handlers.
type ZynkGateway struct {
	client  *httpclient.Client
	breaker *circuitbreaker.CircuitBreaker
	logger  *logger.ZapLogger
}

// NewZynkGateway creates a fiat rail gateway from configuration
func NewZynkGateway(cfg *models.Config, zl *logger.ZapLogger) *ZynkGateway {
	return &ZynkGateway{
		client:  httpclient.NewClient(cfg.Zynk.BaseURL, cfg.Zynk.APIKey, time.Duration(cfg.Zynk.TimeoutSec)*time.Second),
		breaker: circuitbreaker.New(circuitbreaker.DefaultConfig("zynk"), zl),
		logger:  zl,
	}
}

type zynkAccount struct {
	ID            string `json:"id"`
	WalletAddress string `json:"walletAddress"`
	Currency      string `json:"currency"`
}

type zynkAccountList struct {
	Accounts []zynkAccount `json:"accounts"`
}

type zynkCreateAccountRequest struct {
	Type          string `json:"type"`
	WalletAddress string `json:"walletAddress"`
	Chain         string `json:"chain"`
	Currency      string `json:"currency"`
}

type zynkQuoteRequest struct {
	ClientReference string  `json:"clientReference"`
	FromEntityID    string  `json:"fromEntityId"`
	FromAccountID   string  `json:"fromAccountId"`
	ToEntityID      string  `json:"toEntityId"`
	ToAccountID     string  `json:"toAccountId"`
	ExactAmountIn   float64 `json:"exactAmountIn"`
	Currency        string  `json:"currency"`
}

type zynkQuoteResponse struct {
	ExecutionID      string    `json:"executionId"`
	Fee              float64   `json:"fee"`
	NetAmount        float64   `json:"netAmount"`
	Provider         string    `json:"provider"`
	EstimatedArrival time.Time `json:"estimatedArrival"`
}

type zynkExecuteRequest struct {
	ExecutionID                  string `json:"executionId"`
	TransferAcknowledgement      bool   `json:"transferAcknowledgement"`
	CounterPartyRiskAcknowledged bool   `json:"counterPartyRiskAcknowledged"`
}

type zynkExecuteResponse struct {
	Success bool `json:"success"`
}

// EnsureWalletAccount returns the account bound to the wallet address,
// creating it with the provider on first use
func (g *ZynkGateway) EnsureWalletAccount(ctx context.Context, entityID, walletAddress, token string) (string, error) {
	var accountID string
	err := g.breaker.Execute(ctx, func(ctx context.Context) error {
		var list zynkAccountList
		path := fmt.Sprintf("/v1/entities/%s/accounts?walletAddress=%s", entityID, walletAddress)
		if err := g.client.Get(ctx, path, &list); err != nil {
			return err
		}
		for _, account := range list.Accounts {
			if account.WalletAddress == walletAddress {
				accountID = account.ID
				return nil
			}
		}

		var created zynkAccount
		err := g.client.PostWithHeaders(ctx,
			fmt.Sprintf("/v1/entities/%s/accounts", entityID),
			map[string]string{idempotencyHeader: uuid.NewString()},
			zynkCreateAccountRequest{
				Type:          "wallet",
				WalletAddress: walletAddress,
				Chain:         "solana",
				Currency:      token,
			}, &created)
		if err != nil {
			return err
		}
		g.logger.Info("created fiat rail wallet account binding",
			logger.String("entity_id", entityID),
			logger.String("account_id", created.ID))
		accountID = created.ID
		return nil
	})
	if err != nil {
		return "", apperrors.Provider("RAIL_ACCOUNT_FAILED", "failed to resolve wallet account binding").WithCause(err)
	}
	return accountID, nil
}

// SimulateTransfer requests a transfer quote for the given legs
func (g *ZynkGateway) SimulateTransfer(ctx context.Context, params *models.FiatTransferParams) (*models.FiatTransferQuote, error) {
	var resp zynkQuoteResponse
	err := g.breaker.Execute(ctx, func(ctx context.Context) error {
		return g.client.PostWithHeaders(ctx, "/v1/transfers/quote",
			map[string]string{idempotencyHeader: uuid.NewString()},
			zynkQuoteRequest{
				ClientReference: params.TransactionID,
				FromEntityID:    params.FromEntityID,
				FromAccountID:   params.FromAccountID,
				ToEntityID:      params.ToEntityID,
				ToAccountID:     params.ToAccountID,
				ExactAmountIn:   params.ExactAmountIn,
				Currency:        params.Currency,
			}, &resp)
	})
	if err != nil {
		return nil, apperrors.Provider("RAIL_QUOTE_FAILED", "fiat rail provider did not return a quote").WithCause(err)
	}
	return &models.FiatTransferQuote{
		ExecutionID:      resp.ExecutionID,
		Fee:              resp.Fee,
		NetAmount:        resp.NetAmount,
		Provider:         resp.Provider,
		EstimatedArrival: resp.EstimatedArrival,
	}, nil
}

// ExecuteTransfer executes a previously quoted transfer
func (g *ZynkGateway) ExecuteTransfer(ctx context.Context, executionID string) error {
	err := g.breaker.Execute(ctx, func(ctx context.Context) error {
		var resp zynkExecuteResponse
		err := g.client.PostWithHeaders(ctx, "/v1/transfers/execute",
			map[string]string{idempotencyHeader: uuid.NewString()},
			zynkExecuteRequest{
				ExecutionID:                  executionID,
				TransferAcknowledgement:      true,
				CounterPartyRiskAcknowledged: true,
			}, &resp)
		if err != nil {
			return err
		}
		if !resp.Success {
			return fmt.Errorf("provider rejected execution %s", executionID)
		}
		return nil
	})
	if err != nil {
		return apperrors.Provider("RAIL_EXECUTE_FAILED", "fiat rail provider rejected the transfer").WithCause(err)
	}
	return nil
}
