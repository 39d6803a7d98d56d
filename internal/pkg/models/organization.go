package models

import (
	"time"

	"github.com/google/uuid"
)

// Organization owns one operational multisig wallet and optionally a
// ramping entity with the fiat rail provider. Swaps require the wallet;
// ramp transfers additionally require the entity.
type Organization struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	CreateKey    string    `json:"create_key" db:"create_key"`
	ZynkEntityID string    `json:"zynk_entity_id" db:"zynk_entity_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// HasWallet reports whether the operational wallet binding exists
func (o *Organization) HasWallet() bool {
	return o.CreateKey != ""
}

// HasRampEntity reports whether the fiat rail identity binding exists
func (o *Organization) HasRampEntity() bool {
	return o.ZynkEntityID != ""
}
