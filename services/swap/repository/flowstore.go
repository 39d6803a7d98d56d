package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/stablehq/treasury/internal/pkg/database"
	"github.com/stablehq/treasury/internal/pkg/models"
)

const (
	preparedKeyPrefix = "swap:prepared:"
	execCtxKeyPrefix  = "swap:execctx:"
)

// RedisFlowStore holds in-flight swap state in Redis so multiple service
// instances see the same prepared transactions and execution contexts.
// Expiry is enforced by Redis key TTLs; a lookup after expiry is a miss.
type RedisFlowStore struct {
	redis      *database.RedisClient
	execCtxTTL time.Duration
}

// NewRedisFlowStore creates a flow store backed by the shared Redis client
func NewRedisFlowStore(redisClient *database.RedisClient, cfg *models.Config) *RedisFlowStore {
	return &RedisFlowStore{
		redis:      redisClient,
		execCtxTTL: time.Duration(cfg.Swap.ExecutionCtxTTLSecond) * time.Second,
	}
}

// StorePrepared writes a prepared transaction under its transaction id.
// The key TTL tracks the record's own expiry so Redis sweeps it without a
// separate janitor. Writes are last-write-wins by key.
func (s *RedisFlowStore) StorePrepared(ctx context.Context, prepared *models.PreparedTransaction) error {
	ttl := time.Until(prepared.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("prepared transaction %s already expired", prepared.TransactionID)
	}

	data, err := json.Marshal(prepared)
	if err != nil {
		return fmt.Errorf("failed to marshal prepared transaction: %w", err)
	}
	return s.redis.Set(ctx, preparedKeyPrefix+prepared.TransactionID, data, ttl)
}

// GetPrepared returns the prepared transaction for a transaction id, or
// (nil, nil) when it does not exist or has expired
func (s *RedisFlowStore) GetPrepared(ctx context.Context, transactionID string) (*models.PreparedTransaction, error) {
	raw, err := s.redis.Get(ctx, preparedKeyPrefix+transactionID)
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get prepared transaction: %w", err)
	}

	var prepared models.PreparedTransaction
	if err := json.Unmarshal([]byte(raw), &prepared); err != nil {
		return nil, fmt.Errorf("failed to unmarshal prepared transaction: %w", err)
	}
	return &prepared, nil
}

// DeletePrepared removes a prepared transaction. Deleting a missing key is
// not an error.
func (s *RedisFlowStore) DeletePrepared(ctx context.Context, transactionID string) error {
	return s.redis.Delete(ctx, preparedKeyPrefix+transactionID)
}

// StoreExecutionContext writes the second-phase context keyed by the
// proposal signature
func (s *RedisFlowStore) StoreExecutionContext(ctx context.Context, execCtx *models.ExecutionContext) error {
	data, err := json.Marshal(execCtx)
	if err != nil {
		return fmt.Errorf("failed to marshal execution context: %w", err)
	}
	return s.redis.Set(ctx, execCtxKeyPrefix+execCtx.ProposalSignature, data, s.execCtxTTL)
}

// GetExecutionContext returns the execution context for a proposal
// signature, or (nil, nil) when it does not exist or has expired
func (s *RedisFlowStore) GetExecutionContext(ctx context.Context, proposalSignature string) (*models.ExecutionContext, error) {
	raw, err := s.redis.Get(ctx, execCtxKeyPrefix+proposalSignature)
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get execution context: %w", err)
	}

	var execCtx models.ExecutionContext
	if err := json.Unmarshal([]byte(raw), &execCtx); err != nil {
		return nil, fmt.Errorf("failed to unmarshal execution context: %w", err)
	}
	return &execCtx, nil
}

// DeleteExecutionContext removes an execution context. Deleting a missing
// key is not an error.
func (s *RedisFlowStore) DeleteExecutionContext(ctx context.Context, proposalSignature string) error {
	return s.redis.Delete(ctx, execCtxKeyPrefix+proposalSignature)
}
