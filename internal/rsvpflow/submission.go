package rsvpflow

import (
	"strings"

	"wedding/site/internal/model"
)

// Submission is the normalised RSVP handed to the service layer.
type Submission struct {
	FullName            string                  `json:"full_name"`
	Attending           bool                    `json:"attending"`
	GuestCount          int                     `json:"guest_count"`
	AdditionalGuests    []model.AdditionalGuest `json:"additional_guests"`
	DietaryRestrictions *string                 `json:"dietary_restrictions"`
	SongRequest         *string                 `json:"song_request"`
	HalaalPreference    bool                    `json:"halaal_preference"`
	Gender              *model.Gender           `json:"gender"`
	PartyChoice         model.PartyChoice       `json:"party_choice"`
	GiftID              *uint                   `json:"selected_gift"`
}

// Validate checks a submission that did not come through the wizard.
func (s Submission) Validate(maxGuests int) error {
	if strings.TrimSpace(s.FullName) == "" {
		return ErrNameRequired
	}
	if !s.Attending {
		return nil
	}
	if err := ValidateGuests(s.GuestCount, s.AdditionalGuests, maxGuests); err != nil {
		return err
	}
	switch s.PartyChoice {
	case "", model.PartyNone:
	case model.PartyBachelor, model.PartyBachelorette:
		if s.Gender == nil {
			return ErrGenderRequired
		}
	default:
		return ErrGenderRequired
	}
	return nil
}

// ValidateGuests requires 1..maxGuests people and, beyond the guest, a
// complete name for each of the count-1 companions.
func ValidateGuests(count int, guests []model.AdditionalGuest, maxGuests int) error {
	if maxGuests <= 0 {
		maxGuests = DefaultMaxGuests
	}
	if count < 1 || count > maxGuests {
		return ErrGuestCountOutOfRange
	}
	if count == 1 {
		return nil
	}
	if len(guests) != count-1 {
		return ErrGuestDetailsIncomplete
	}
	for _, g := range guests {
		if !g.Complete() {
			return ErrGuestDetailsIncomplete
		}
	}
	return nil
}
