package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Ad kinds. Free ads are time-limited and gated monthly per user; classified
// ads are gated by a cooldown on the contact phone.
const (
	AdKindFree       = "free"
	AdKindClassified = "classified"
	AdKindJob        = "job"
	AdKindEvent      = "event"
)

type Ad struct {
	Id           string     `json:"id" gorm:"primaryKey"`
	OwnerId      string     `json:"owner_id" gorm:"index;not null"`
	Kind         string     `json:"kind" gorm:"type:VARCHAR(20);not null;index"`
	Title        string     `json:"title" gorm:"not null"`
	Body         string     `json:"body"`
	City         string     `json:"city" gorm:"index"`
	ContactPhone string     `json:"contact_phone"` // normalized, digits only
	ExpiresAt    *time.Time `json:"expires_at" gorm:"index"`
	CreatedAt    time.Time  `json:"created_at"`
}

func (ad *Ad) BeforeCreate(tx *gorm.DB) (err error) {
	if ad.Id == "" {
		// UUID version 4
		ad.Id = uuid.NewString()
	}
	return
}
