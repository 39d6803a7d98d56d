package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/stablehq/treasury/internal/pkg/database"
	"github.com/stablehq/treasury/internal/pkg/models"
)

// OrganizationRepo resolves organizations from PostgreSQL
type OrganizationRepo struct {
	db *database.PostgresClient
}

// NewOrganizationRepo creates a new organization repository
func NewOrganizationRepo(db *database.PostgresClient) *OrganizationRepo {
	return &OrganizationRepo{db: db}
}

// GetOrganization retrieves an organization by id, or (nil, nil) when no
// such organization exists
func (r *OrganizationRepo) GetOrganization(ctx context.Context, id string) (*models.Organization, error) {
	query := `
		SELECT id, name, COALESCE(create_key, '') AS create_key,
		       COALESCE(zynk_entity_id, '') AS zynk_entity_id,
		       created_at, updated_at
		FROM organizations
		WHERE id = $1
	`

	var org models.Organization
	err := r.db.GetDB().GetContext(ctx, &org, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}
	return &org, nil
}
