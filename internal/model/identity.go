package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type IdentityType string

const (
	IdentityTypePassword IdentityType = "password"
	IdentityTypePasskey  IdentityType = "passkey"
)

// CredentialData is a JSON blob stored in the credential_data column.
type CredentialData map[string]interface{}

func (cd CredentialData) Value() (driver.Value, error) {
	if cd == nil {
		return nil, nil
	}
	return json.Marshal(cd)
}

func (cd *CredentialData) Scan(value interface{}) error {
	raw, err := jsonBytes(value)
	if err != nil {
		return errors.New("CredentialData.Scan: " + err.Error())
	}
	if raw == nil {
		*cd = nil
		return nil
	}
	return json.Unmarshal(raw, cd)
}

// Identity is one way of signing in to a profile: an email/password pair or
// a passkey credential.
type Identity struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ProfileID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"profile_id"`
	IdentityType   IdentityType   `gorm:"type:varchar(32);not null;uniqueIndex:idx_identity_type_identifier" json:"identity_type"`
	Identifier     string         `gorm:"type:varchar(512);not null;uniqueIndex:idx_identity_type_identifier" json:"identifier"`
	CredentialData CredentialData `gorm:"type:jsonb" json:"-"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

func (Identity) TableName() string { return "identities" }

func (i *Identity) BeforeCreate(_ *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// jsonBytes normalises what drivers hand back for json columns: pgx returns
// []byte, sqlite may return either []byte or string.
func jsonBytes(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, errors.New("unsupported column type")
	}
}
