package solanaclient

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/stablehq/treasury/internal/pkg/logger"
)

// Compute budget bounds. The protocol caps a transaction at MaxComputeUnits;
// the floors keep an under-simulated transaction from being starved at
// execution time.
const (
	MaxComputeUnits        = 1_400_000
	MinComputeUnits        = 50_000
	MinAtomicComputeUnits  = 200_000
	unitsPerInstruction    = 45_000
	unitsPerMultisigExec   = 180_000
	atomicSafetyMultiplier = 1.5
	simpleSafetyMultiplier = 1.3
)

// Priority fee fallbacks in micro-lamports per compute unit, used when the
// fee oracle is unavailable
const (
	fallbackPriorityFee       = 50_000
	fallbackAtomicPriorityFee = 100_000
)

// EstimateComputeUnits simulates the transaction to measure consumed units
// and applies a safety multiplier: 1.5x for atomic multi-instruction
// batches, 1.3x otherwise, clamped to protocol bounds. If simulation fails
// the estimate falls back to a per-instruction heuristic.
func (c *Client) EstimateComputeUnits(ctx context.Context, tx *solana.Transaction, atomic bool) uint32 {
	multiplier := simpleSafetyMultiplier
	floor := uint64(MinComputeUnits)
	if atomic {
		multiplier = atomicSafetyMultiplier
		floor = MinAtomicComputeUnits
	}

	simulated, err := c.rpc.SimulateTransactionWithOpts(ctx, tx, &rpc.SimulateTransactionOpts{
		SigVerify:              false,
		ReplaceRecentBlockhash: true,
		Commitment:             c.commitment,
	})

	var estimate uint64
	if err != nil || simulated == nil || simulated.Value == nil || simulated.Value.UnitsConsumed == nil {
		estimate = c.heuristicComputeUnits(tx, atomic)
		c.logger.Warn("Compute simulation unavailable, using heuristic estimate",
			logger.Err(err),
			logger.Uint64("estimate", estimate))
	} else if simulated.Value.Err != nil {
		estimate = c.heuristicComputeUnits(tx, atomic)
		c.logger.Warn("Compute simulation reported program error, using heuristic estimate",
			logger.Any("sim_err", simulated.Value.Err),
			logger.Uint64("estimate", estimate))
	} else {
		estimate = uint64(float64(*simulated.Value.UnitsConsumed) * multiplier)
	}

	if estimate < floor {
		estimate = floor
	}
	if estimate > MaxComputeUnits {
		estimate = MaxComputeUnits
	}
	return uint32(estimate)
}

// heuristicComputeUnits derives a baseline from instruction counts by
// category: multisig execute instructions dominate, everything else gets a
// flat allowance
func (c *Client) heuristicComputeUnits(tx *solana.Transaction, atomic bool) uint64 {
	var units uint64
	for range tx.Message.Instructions {
		units += unitsPerInstruction
	}
	if atomic {
		units += unitsPerMultisigExec
	}
	return units
}

// PriorityFee returns the micro-lamport price per compute unit. The fee
// oracle is the recent prioritization fee history for the transaction's
// writable accounts; on oracle failure a fixed fallback applies, higher for
// atomic batches.
func (c *Client) PriorityFee(ctx context.Context, accounts solana.PublicKeySlice, atomic bool) uint64 {
	fallback := uint64(fallbackPriorityFee)
	if atomic {
		fallback = fallbackAtomicPriorityFee
	}

	fees, err := c.rpc.GetRecentPrioritizationFees(ctx, accounts)
	if err != nil || len(fees) == 0 {
		c.logger.Warn("Priority fee oracle unavailable, using fallback",
			logger.Err(err),
			logger.Uint64("fallback", fallback))
		return fallback
	}

	// Median of the recent window
	var observed []uint64
	for _, f := range fees {
		if f.PrioritizationFee > 0 {
			observed = append(observed, f.PrioritizationFee)
		}
	}
	if len(observed) == 0 {
		return fallback
	}

	for i := 1; i < len(observed); i++ {
		for j := i; j > 0 && observed[j] < observed[j-1]; j-- {
			observed[j], observed[j-1] = observed[j-1], observed[j]
		}
	}
	return observed[len(observed)/2]
}
