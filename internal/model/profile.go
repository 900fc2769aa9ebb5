package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleGuest Role = "guest"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleGuest || r == RoleAdmin
}

// Profile is the account record. Its id doubles as the RSVP id.
type Profile struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string    `gorm:"type:varchar(320);uniqueIndex;not null" json:"email"`
	FullName  string    `gorm:"type:varchar(256);not null;default:''" json:"full_name"`
	Role      Role      `gorm:"type:varchar(16);not null;default:'guest'" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Identities []Identity `gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Profile) TableName() string { return "profiles" }

func (p *Profile) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Role == "" {
		p.Role = RoleGuest
	}
	return nil
}

func (p *Profile) IsAdmin() bool { return p.Role == RoleAdmin }
