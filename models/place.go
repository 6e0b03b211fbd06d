package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Place struct {
	Id                string    `json:"id" gorm:"primaryKey"`
	Name              string    `json:"name" gorm:"not null"`
	Address           string    `json:"address" gorm:"not null"`
	NormalizedAddress string    `json:"-" gorm:"not null"`
	Lat               float64   `json:"lat" gorm:"type:numeric(9,6)"`
	Lng               float64   `json:"lng" gorm:"type:numeric(9,6)"`
	Fingerprint       string    `json:"-" gorm:"size:64;uniqueIndex;not null"`
	Category          string    `json:"category" gorm:"index"`
	PhoneNumber       string    `json:"phone_number"`
	SubmittedBy       string    `json:"submitted_by" gorm:"index"`
	CreatedAt         time.Time `json:"created_at"`
}

func (place *Place) BeforeCreate(tx *gorm.DB) (err error) {
	if place.Id == "" {
		// UUID version 4
		place.Id = uuid.NewString()
	}
	return
}
