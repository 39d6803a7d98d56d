package solanaclient

import (
	"context"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/stablehq/treasury/internal/pkg/logger"
)

// pollInterval is the fixed delay between successful-but-unconfirmed polls
const pollInterval = 2 * time.Second

// ConfirmWithRetry polls a signature's status until it reaches the desired
// commitment. Returns nil (no error) when the timeout or attempt budget is
// exhausted without a status: the transaction may still land and the caller
// should report it as pending, not failed. An on-chain execution error is
// returned immediately; retrying a failed transaction reproduces the same
// failure. Backoff applies only after fetch errors; a healthy poll that has
// not yet confirmed waits the fixed interval.
func (c *Client) ConfirmWithRetry(
	ctx context.Context,
	signature solana.Signature,
	desired rpc.CommitmentType,
	maxAttempts int,
	timeout time.Duration,
) (*rpc.SignatureStatusesResult, error) {
	if maxAttempts <= 0 {
		maxAttempts = c.confirmMaxAttempts
	}
	if timeout <= 0 {
		timeout = c.confirmTimeout
	}

	deadline := time.Now().Add(timeout)
	fetchFailures := 0

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if time.Now().After(deadline) {
			c.logger.Warn("Confirmation timed out",
				logger.String("signature", signature.String()),
				logger.Int("attempts", attempt))
			return nil, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		out, err := c.rpc.GetSignatureStatuses(ctx, true, signature)
		if err != nil {
			fetchFailures++
			delay := backoffDelay(fetchFailures)
			c.logger.Debug("Signature status fetch failed, backing off",
				logger.Err(err),
				logger.Int("fetch_failures", fetchFailures),
				logger.Duration("delay", delay))
			if !sleepCtx(ctx, delay) {
				return nil, ctx.Err()
			}
			continue
		}
		fetchFailures = 0

		if len(out.Value) > 0 && out.Value[0] != nil {
			status := out.Value[0]

			if status.Err != nil {
				return nil, fmt.Errorf("transaction failed on-chain: %v", status.Err)
			}

			if commitmentReached(status.ConfirmationStatus, desired) {
				return status, nil
			}
		}

		if !sleepCtx(ctx, pollInterval) {
			return nil, ctx.Err()
		}
	}

	c.logger.Warn("Confirmation attempts exhausted",
		logger.String("signature", signature.String()),
		logger.Int("max_attempts", maxAttempts))
	return nil, nil
}

// backoffDelay doubles per consecutive fetch failure, capped at 16s
func backoffDelay(failures int) time.Duration {
	delay := pollInterval
	for i := 1; i < failures && delay < 16*time.Second; i++ {
		delay *= 2
	}
	if delay > 16*time.Second {
		delay = 16 * time.Second
	}
	return delay
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

// commitmentReached reports whether an observed confirmation status
// satisfies the desired commitment
func commitmentReached(observed rpc.ConfirmationStatusType, desired rpc.CommitmentType) bool {
	rank := func(s string) int {
		switch s {
		case "processed":
			return 1
		case "confirmed":
			return 2
		case "finalized":
			return 3
		default:
			return 0
		}
	}
	return rank(string(observed)) >= rank(string(desired))
}
