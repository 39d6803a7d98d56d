package ramp

import (
	"context"

	"github.com/stablehq/treasury/internal/pkg/models"
)

// OrgRepo resolves organizations and their provider bindings
type OrgRepo interface {
	GetOrganization(ctx context.Context, id string) (*models.Organization, error)
}

// TransactionRepo persists fiat rail transaction records
type TransactionRepo interface {
	CreateTransaction(ctx context.Context, txn *models.Transaction) error

	// GetTransaction returns (nil, nil) when no record exists for the id
	GetTransaction(ctx context.Context, id string) (*models.Transaction, error)

	UpdateTransactionStatus(ctx context.Context, id, status string) error

	ListTransactions(ctx context.Context, organizationID string, limit, offset int) ([]models.Transaction, error)
}
