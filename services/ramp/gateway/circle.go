package gateway

import (
	"context"
	"time"

	"github.com/stablehq/treasury/internal/pkg/apperrors"
	httpclient "github.com/stablehq/treasury/internal/pkg/http"
	"github.com/stablehq/treasury/internal/pkg/logger"
	"github.com/stablehq/treasury/internal/pkg/models"
)

// CircleGateway screens addresses through the compliance provider
type CircleGateway struct {
	client *httpclient.Client
	logger *logger.ZapLogger
}

// NewCircleGateway creates a compliance gateway from configuration
func NewCircleGateway(cfg *models.Config, zl *logger.ZapLogger) *CircleGateway {
	return &CircleGateway{
		client: httpclient.NewClient(cfg.Circle.BaseURL, cfg.Circle.APIKey, time.Duration(cfg.Circle.TimeoutSec)*time.Second),
		logger: zl,
	}
}

type screeningRequest struct {
	Address string `json:"address"`
	Chain   string `json:"chain"`
}

type screeningResponse struct {
	Result struct {
		ScreeningDecision string `json:"screeningDecision"`
	} `json:"result"`
}

// ScreenAddress returns the provider's verdict for a single address
func (g *CircleGateway) ScreenAddress(ctx context.Context, address, chain string) (models.ScreeningResult, error) {
	var resp screeningResponse
	err := g.client.Post(ctx, "/v1/w3s/compliance/screening/addresses", screeningRequest{
		Address: address,
		Chain:   chain,
	}, &resp)
	if err != nil {
		return "", apperrors.Provider("SCREENING_FAILED", "compliance screening call failed").WithCause(err)
	}

	switch resp.Result.ScreeningDecision {
	case "APPROVED":
		return models.ScreeningApproved, nil
	case "DENIED":
		return models.ScreeningDenied, nil
	default:
		return models.ScreeningReview, nil
	}
}

// ScreenTransaction screens both sides of a transfer. The transfer is
// approved only when neither side is denied; an undenied non-approval on
// either side downgrades the verdict to review.
func (g *CircleGateway) ScreenTransaction(ctx context.Context, fromAddress, toAddress, chain string) (models.ScreeningResult, error) {
	fromResult, err := g.ScreenAddress(ctx, fromAddress, chain)
	if err != nil {
		return "", err
	}
	toResult, err := g.ScreenAddress(ctx, toAddress, chain)
	if err != nil {
		return "", err
	}

	if fromResult == models.ScreeningDenied || toResult == models.ScreeningDenied {
		g.logger.Warn("transaction screening denied",
			logger.String("from", fromAddress),
			logger.String("to", toAddress))
		return models.ScreeningDenied, nil
	}
	if fromResult == models.ScreeningApproved && toResult == models.ScreeningApproved {
		return models.ScreeningApproved, nil
	}
	return models.ScreeningReview, nil
}
