package gateway

import (
	"github.com/stablehq/treasury/internal/pkg/models"
	natspkg "github.com/stablehq/treasury/internal/pkg/nats"
)

// NATSGateway publishes transaction lifecycle events
type NATSGateway struct {
	client *natspkg.Client
}

// NewNATSGateway creates a new NATS gateway
func NewNATSGateway(client *natspkg.Client) *NATSGateway {
	return &NATSGateway{client: client}
}

// PublishTransactionUpdated publishes a transaction status change
func (g *NATSGateway) PublishTransactionUpdated(event *models.TransactionEvent) error {
	return g.client.PublishJSON(natspkg.SubjectTransactionUpdated, event)
}
