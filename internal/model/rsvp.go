package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AdditionalGuest is a person an attendee brings along.
type AdditionalGuest struct {
	FullName string `json:"full_name"`
	Surname  string `json:"surname"`
}

// Complete reports whether both name fields are filled in.
func (g AdditionalGuest) Complete() bool {
	return strings.TrimSpace(g.FullName) != "" && strings.TrimSpace(g.Surname) != ""
}

// GuestList is stored as a JSON array; an empty list is stored as NULL.
type GuestList []AdditionalGuest

func (l GuestList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return nil, nil
	}
	return json.Marshal(l)
}

func (l *GuestList) Scan(value interface{}) error {
	raw, err := jsonBytes(value)
	if err != nil {
		return errors.New("GuestList.Scan: " + err.Error())
	}
	if raw == nil {
		*l = nil
		return nil
	}
	return json.Unmarshal(raw, l)
}

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

type PartyChoice string

const (
	PartyNone         PartyChoice = "none"
	PartyBachelor     PartyChoice = "bachelor"
	PartyBachelorette PartyChoice = "bachelorette"
)

// RSVP is the single attendance response of a profile, keyed by the profile id.
type RSVP struct {
	ID                  uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	Attending           bool        `gorm:"not null" json:"attending"`
	GuestCount          int         `gorm:"not null;default:0" json:"guest_count"`
	AdditionalGuests    GuestList   `gorm:"type:jsonb" json:"additional_guests"`
	DietaryRestrictions *string     `gorm:"type:text" json:"dietary_restrictions"`
	SongRequest         *string     `gorm:"type:text" json:"song_request"`
	HalaalPreference    *bool       `json:"halaal_preference"`
	Gender              *Gender     `gorm:"type:varchar(16)" json:"gender,omitempty"`
	PartyChoice         PartyChoice `gorm:"type:varchar(16);not null;default:'none'" json:"party_choice"`
	GiftID              *uint       `gorm:"index" json:"gift_id"`
	CreatedAt           time.Time   `json:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at"`
}

func (RSVP) TableName() string { return "rsvp" }
