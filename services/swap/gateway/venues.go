package gateway

import (
	"context"
	"encoding/base64"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/stablehq/treasury/internal/pkg/apperrors"
	httpclient "github.com/stablehq/treasury/internal/pkg/http"
	"github.com/stablehq/treasury/internal/pkg/logger"
	"github.com/stablehq/treasury/internal/pkg/models"
)

// venueQuoteResponse is the wire quote from a liquidity venue. Amounts are
// in the token's smallest units.
type venueQuoteResponse struct {
	InAmount       uint64  `json:"inAmount,string"`
	OutAmount      uint64  `json:"outAmount,string"`
	MinOutAmount   uint64  `json:"otherAmountThreshold,string"`
	PriceImpactPct float64 `json:"priceImpactPct,string"`
	FeeAmount      uint64  `json:"feeAmount,string"`
}

type venueSwapResponse struct {
	SwapMessage string `json:"swapMessage"`
}

type venueQuoteRequest struct {
	InputMint   string `json:"inputMint"`
	OutputMint  string `json:"outputMint"`
	Amount      uint64 `json:"amount,string"`
	SlippageBps int    `json:"slippageBps"`
}

type venueSwapRequest struct {
	venueQuoteRequest
	VaultAddress string `json:"vaultAddress"`
}

// venueClient talks to a single liquidity venue
type venueClient struct {
	name   string
	client *httpclient.Client
}

// DexGateway aggregates quotes across the configured venues, in their
// declared order
type DexGateway struct {
	venues []venueClient
	logger *logger.ZapLogger
}

// NewDexGateway creates a venue aggregation gateway. Each configured venue
// is either a bare name (base URL derived from it) or "name=baseURL".
func NewDexGateway(cfg *models.Config, zl *logger.ZapLogger) *DexGateway {
	venues := make([]venueClient, 0, len(cfg.Swap.Venues))
	for _, entry := range cfg.Swap.Venues {
		name, baseURL := parseVenueEntry(entry)
		venues = append(venues, venueClient{
			name:   name,
			client: httpclient.NewClient(baseURL, "", 10*time.Second),
		})
	}
	return &DexGateway{venues: venues, logger: zl}
}

func parseVenueEntry(entry string) (name, baseURL string) {
	if i := strings.IndexByte(entry, '='); i > 0 {
		return entry[:i], entry[i+1:]
	}
	return entry, fmt.Sprintf("https://quote-api.%s.so", entry)
}

// Quote queries every configured venue and returns the best quote. A later
// venue replaces an earlier one only with a strictly better estimated
// output, so equal quotes resolve to the first declared venue.
func (g *DexGateway) Quote(ctx context.Context, req *models.SwapRequest) (*models.SwapQuote, error) {
	fromToken, _ := models.TokenBySymbol(req.FromToken)
	toToken, _ := models.TokenBySymbol(req.ToToken)

	var best *models.SwapQuote
	var lastErr error
	for _, venue := range g.venues {
		quote, err := g.quoteVenue(ctx, venue, req, fromToken, toToken)
		if err != nil {
			g.logger.Warn("venue quote failed",
				logger.String("venue", venue.name),
				logger.Err(err))
			lastErr = err
			continue
		}
		if best == nil || quote.EstimatedAmountOut > best.EstimatedAmountOut {
			best = quote
		}
	}
	if best == nil {
		return nil, apperrors.Provider("NO_ROUTE", "no venue returned a route").WithCause(lastErr)
	}
	return best, nil
}

func (g *DexGateway) quoteVenue(
	ctx context.Context,
	venue venueClient,
	req *models.SwapRequest,
	fromToken, toToken models.Token,
) (*models.SwapQuote, error) {
	var resp venueQuoteResponse
	err := venue.client.Post(ctx, "/v1/quote", venueQuoteRequest{
		InputMint:   fromToken.Mint,
		OutputMint:  toToken.Mint,
		Amount:      toAtomic(req.Amount, fromToken.Decimals),
		SlippageBps: int(req.SlippageTolerance * 100),
	}, &resp)
	if err != nil {
		return nil, err
	}

	amountIn := fromAtomic(resp.InAmount, fromToken.Decimals)
	amountOut := fromAtomic(resp.OutAmount, toToken.Decimals)
	quote := &models.SwapQuote{
		AmountIn:           amountIn,
		EstimatedAmountOut: amountOut,
		MinimumAmountOut:   fromAtomic(resp.MinOutAmount, toToken.Decimals),
		PriceImpact:        resp.PriceImpactPct,
		FeeAmount:          fromAtomic(resp.FeeAmount, fromToken.Decimals),
		Route:              venue.name,
	}
	if amountIn > 0 {
		quote.ExchangeRate = amountOut / amountIn
	}
	return quote, nil
}

// SwapMessage asks the quoted route's venue for the serialized vault
// transaction message performing the swap
func (g *DexGateway) SwapMessage(
	ctx context.Context,
	req *models.SwapRequest,
	quote *models.SwapQuote,
	vault solana.PublicKey,
) ([]byte, error) {
	venue, ok := g.venueByName(quote.Route)
	if !ok {
		return nil, apperrors.Provider("UNKNOWN_ROUTE", fmt.Sprintf("route %s is not a configured venue", quote.Route))
	}

	fromToken, _ := models.TokenBySymbol(req.FromToken)
	toToken, _ := models.TokenBySymbol(req.ToToken)

	var resp venueSwapResponse
	err := venue.client.Post(ctx, "/v1/swap-message", venueSwapRequest{
		venueQuoteRequest: venueQuoteRequest{
			InputMint:   fromToken.Mint,
			OutputMint:  toToken.Mint,
			Amount:      toAtomic(req.Amount, fromToken.Decimals),
			SlippageBps: int(req.SlippageTolerance * 100),
		},
		VaultAddress: vault.String(),
	}, &resp)
	if err != nil {
		return nil, apperrors.Provider("SWAP_MESSAGE_FAILED", "venue did not return a swap message").WithCause(err)
	}

	message, err := base64.StdEncoding.DecodeString(resp.SwapMessage)
	if err != nil {
		return nil, apperrors.Provider("SWAP_MESSAGE_INVALID", "venue swap message is not valid base64").WithCause(err)
	}
	return message, nil
}

func (g *DexGateway) venueByName(name string) (venueClient, bool) {
	for _, venue := range g.venues {
		if venue.name == name {
			return venue, true
		}
	}
	return venueClient{}, false
}

func toAtomic(amount float64, decimals uint8) uint64 {
	return uint64(math.Round(amount * math.Pow10(int(decimals))))
}

func fromAtomic(amount uint64, decimals uint8) float64 {
	return float64(amount) / math.Pow10(int(decimals))
}
