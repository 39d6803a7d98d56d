package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/stablehq/treasury/internal/pkg/database"
	"github.com/stablehq/treasury/internal/pkg/models"
)

// TransactionRepo persists fiat rail transaction records in PostgreSQL
type TransactionRepo struct {
	db *database.PostgresClient
}

// NewTransactionRepo creates a new transaction repository
func NewTransactionRepo(db *database.PostgresClient) *TransactionRepo {
	return &TransactionRepo{db: db}
}

// CreateTransaction inserts a new transaction record. The metadata struct
// is stored as a JSONB column.
func (r *TransactionRepo) CreateTransaction(ctx context.Context, txn *models.Transaction) error {
	metadata, err := json.Marshal(txn.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction metadata: %w", err)
	}

	query := `
		INSERT INTO transactions (id, organization_id, amount, currency, transaction_type, status, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	now := time.Now()
	txn.CreatedAt = now
	txn.UpdatedAt = now

	_, err = r.db.GetDB().ExecContext(ctx, query,
		txn.ID, txn.OrganizationID, txn.Amount, txn.Currency,
		txn.TransactionType, txn.Status, metadata, txn.CreatedAt, txn.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

// GetTransaction retrieves a transaction by id, or (nil, nil) when no
// record exists
func (r *TransactionRepo) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	query := `
		SELECT id, organization_id, amount, currency, transaction_type, status, metadata, created_at, updated_at
		FROM transactions
		WHERE id = $1
	`

	var txn models.Transaction
	err := r.db.GetDB().GetContext(ctx, &txn, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	if err := decodeMetadata(&txn); err != nil {
		return nil, err
	}
	return &txn, nil
}

// UpdateTransactionStatus transitions a transaction's status
func (r *TransactionRepo) UpdateTransactionStatus(ctx context.Context, id, status string) error {
	query := `UPDATE transactions SET status = $1, updated_at = $2 WHERE id = $3`

	result, err := r.db.GetDB().ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update transaction status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return fmt.Errorf("transaction %s not found", id)
	}
	return nil
}

// ListTransactions returns an organization's transactions, newest first
func (r *TransactionRepo) ListTransactions(ctx context.Context, organizationID string, limit, offset int) ([]models.Transaction, error) {
	query := `
		SELECT id, organization_id, amount, currency, transaction_type, status, metadata, created_at, updated_at
		FROM transactions
		WHERE organization_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	var txns []models.Transaction
	err := r.db.GetDB().SelectContext(ctx, &txns, query, organizationID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	for i := range txns {
		if err := decodeMetadata(&txns[i]); err != nil {
			return nil, err
		}
	}
	return txns, nil
}

func decodeMetadata(txn *models.Transaction) error {
	if len(txn.RawMetadata) == 0 {
		return nil
	}
	if err := json.Unmarshal(txn.RawMetadata, &txn.Metadata); err != nil {
		return fmt.Errorf("failed to unmarshal transaction metadata: %w", err)
	}
	return nil
}
