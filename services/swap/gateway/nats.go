package gateway

import (
	"github.com/stablehq/treasury/internal/pkg/models"
	natspkg "github.com/stablehq/treasury/internal/pkg/nats"
)

// NATSGateway publishes swap lifecycle events
type NATSGateway struct {
	client *natspkg.Client
}

// NewNATSGateway creates a new NATS gateway
func NewNATSGateway(client *natspkg.Client) *NATSGateway {
	return &NATSGateway{client: client}
}

// PublishSwapCompleted publishes the terminal event of a confirmed swap
func (g *NATSGateway) PublishSwapCompleted(event *models.SwapCompletedEvent) error {
	return g.client.PublishJSON(natspkg.SubjectSwapCompleted, event)
}
