package nats

import (
	"encoding/json"
	"fmt"
)

// Subjects for treasury events
const (
	SubjectTransactionUpdated = "treasury.transaction.updated"
	SubjectSwapCompleted      = "treasury.swap.completed"
)

// PublishJSON marshals a message and publishes it to the subject
func (c *Client) PublishJSON(subject string, message interface{}) error {
	msgBytes, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	if err := c.conn.Publish(subject, msgBytes); err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}
