package models

import (
	"time"

	"gorm.io/datatypes"
)

// GateRecord is one claimed gate allowance. A row for a given key is created
// at most once (primary key) and never updated or deleted by the service;
// cooldown claims use a fresh per-claim key so recency queries see them all.
type GateRecord struct {
	Key           string            `json:"key" gorm:"primaryKey;size:191"`
	OwnerIdentity string            `json:"owner_identity" gorm:"size:128;index;not null"`
	ClaimedAt     time.Time         `json:"claimed_at" gorm:"not null;default:now();index"`
	Metadata      datatypes.JSONMap `json:"metadata" gorm:"type:jsonb"`
}
