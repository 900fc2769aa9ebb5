package model

import (
	"time"

	"github.com/google/uuid"
)

// Gift is a registry item. Available flips to false exactly once per claim.
type Gift struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Name      string     `gorm:"type:varchar(256);not null" json:"name"`
	Available bool       `gorm:"not null;default:true;index" json:"available"`
	ClaimedBy *uuid.UUID `gorm:"type:uuid;index" json:"claimed_by"`
	ImageURL  *string    `gorm:"type:text" json:"image_url"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (Gift) TableName() string { return "gifts" }
