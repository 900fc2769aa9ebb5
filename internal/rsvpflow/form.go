package rsvpflow

import (
	"strings"

	"wedding/site/internal/model"
)

// Form is everything the wizard collects across its steps.
type Form struct {
	FullName            string                  `json:"full_name"`
	Email               string                  `json:"email"`
	Phone               string                  `json:"phone"`
	Attending           *bool                   `json:"attending"`
	GuestCount          int                     `json:"guest_count"`
	AdditionalGuests    []model.AdditionalGuest `json:"additional_guests"`
	SelectedGift        *uint                   `json:"selected_gift"`
	Gender              *model.Gender           `json:"gender"`
	PartyChoice         model.PartyChoice       `json:"party_choice"`
	DietaryRestrictions string                  `json:"dietary_restrictions"`
	SongRequest         string                  `json:"song_request"`
	HalaalPreference    bool                    `json:"halaal_preference"`
}

// IsAttending is false while attendance is still unanswered.
func (f *Form) IsAttending() bool {
	return f.Attending != nil && *f.Attending
}

// SetAttending records the answer. Declining drops everything that only
// applies to attendees.
func (f *Form) SetAttending(attending bool) {
	f.Attending = &attending
	if !attending {
		f.GuestCount = 0
		f.AdditionalGuests = nil
		f.SelectedGift = nil
		f.Gender = nil
		f.PartyChoice = model.PartyNone
		return
	}
	if f.GuestCount < 1 {
		f.SetGuestCount(1)
	}
}

// SetGuestCount sets the party size, the guest included, and resizes the
// additional guest list to n-1 entries keeping what was already typed.
func (f *Form) SetGuestCount(n int) {
	if n < 0 {
		n = 0
	}
	f.GuestCount = n

	want := n - 1
	if want <= 0 {
		f.AdditionalGuests = nil
		return
	}
	guests := make([]model.AdditionalGuest, want)
	copy(guests, f.AdditionalGuests)
	f.AdditionalGuests = guests
}

// SetGuest updates the i-th additional guest; out of range indexes are ignored.
func (f *Form) SetGuest(i int, fullName, surname string) {
	if i < 0 || i >= len(f.AdditionalGuests) {
		return
	}
	f.AdditionalGuests[i] = model.AdditionalGuest{FullName: fullName, Surname: surname}
}

// ChooseGender picks the party track. It always resets the party choice.
func (f *Form) ChooseGender(g model.Gender) error {
	if !g.Valid() {
		return ErrInvalidGender
	}
	f.Gender = &g
	f.PartyChoice = model.PartyNone
	return nil
}

// JoinParty opts in to (or out of) the party matching the chosen gender.
func (f *Form) JoinParty(join bool) error {
	if f.Gender == nil {
		return ErrGenderRequired
	}
	switch {
	case !join:
		f.PartyChoice = model.PartyNone
	case *f.Gender == model.GenderMale:
		f.PartyChoice = model.PartyBachelor
	default:
		f.PartyChoice = model.PartyBachelorette
	}
	return nil
}

// Submission normalises the form to what gets persisted.
func (f *Form) Submission(opts Options) Submission {
	s := Submission{
		FullName:            strings.TrimSpace(f.FullName),
		Attending:           f.IsAttending(),
		DietaryRestrictions: optionalText(f.DietaryRestrictions),
		SongRequest:         optionalText(f.SongRequest),
		HalaalPreference:    f.HalaalPreference,
		PartyChoice:         model.PartyNone,
	}
	if !s.Attending {
		return s
	}

	s.GuestCount = f.GuestCount
	s.GiftID = f.SelectedGift
	if f.GuestCount > 1 && len(f.AdditionalGuests) > 0 {
		s.AdditionalGuests = make([]model.AdditionalGuest, 0, f.GuestCount-1)
		for _, g := range f.AdditionalGuests {
			s.AdditionalGuests = append(s.AdditionalGuests, model.AdditionalGuest{
				FullName: strings.TrimSpace(g.FullName),
				Surname:  strings.TrimSpace(g.Surname),
			})
		}
	}
	if opts.PartySelection && f.Gender != nil {
		g := *f.Gender
		s.Gender = &g
		s.PartyChoice = f.PartyChoice
		if s.PartyChoice == "" {
			s.PartyChoice = model.PartyNone
		}
	}
	return s
}

func optionalText(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
