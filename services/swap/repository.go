package swap

import (
	"context"

	"github.com/stablehq/treasury/internal/pkg/models"
)

// OrgRepo resolves organizations and their wallet bindings
type OrgRepo interface {
	GetOrganization(ctx context.Context, id string) (*models.Organization, error)
}

// FlowStore holds in-flight swap state with a TTL. Lookups after expiry
// behave as not-found; deletes are idempotent.
type FlowStore interface {
	StorePrepared(ctx context.Context, prepared *models.PreparedTransaction) error
	GetPrepared(ctx context.Context, transactionID string) (*models.PreparedTransaction, error)
	DeletePrepared(ctx context.Context, transactionID string) error

	StoreExecutionContext(ctx context.Context, execCtx *models.ExecutionContext) error
	GetExecutionContext(ctx context.Context, proposalSignature string) (*models.ExecutionContext, error)
	DeleteExecutionContext(ctx context.Context, proposalSignature string) error
}
