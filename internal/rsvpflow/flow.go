// Package rsvpflow is the RSVP wizard: a small state machine over the steps
// a guest walks through, with the guards that decide when they may advance.
package rsvpflow

import (
	"strings"

	"wedding/site/internal/model"
)

// DefaultMaxGuests is the largest party one RSVP may cover.
const DefaultMaxGuests = 5

type Step int

const (
	StepPersonalInfo Step = iota + 1
	StepAttendance
	StepPartySelection
	StepAdditionalInfo
	StepSubmitted
)

func (s Step) String() string {
	switch s {
	case StepPersonalInfo:
		return "Personal Info"
	case StepAttendance:
		return "Attendance"
	case StepPartySelection:
		return "Party Selection"
	case StepAdditionalInfo:
		return "Additional Info"
	case StepSubmitted:
		return "Submitted"
	default:
		return "Unknown"
	}
}

type Options struct {
	PartySelection bool `json:"party_selection"`
	MaxGuests      int  `json:"max_guests"`
}

// Flow is serialised as a draft between requests, so every field is exported.
type Flow struct {
	Step    Step    `json:"step"`
	Form    Form    `json:"form"`
	Options Options `json:"options"`
}

func New(opts Options) *Flow {
	if opts.MaxGuests <= 0 {
		opts.MaxGuests = DefaultMaxGuests
	}
	return &Flow{
		Step:    StepPersonalInfo,
		Form:    Form{PartyChoice: model.PartyNone},
		Options: opts,
	}
}

// Steps lists the steps shown in the progress indicator. Party selection
// disappears once the guest has declined.
func (f *Flow) Steps() []Step {
	steps := []Step{StepPersonalInfo, StepAttendance}
	if f.partyStepApplies() {
		steps = append(steps, StepPartySelection)
	}
	return append(steps, StepAdditionalInfo)
}

// Position is the 1-based index of the current step in Steps, or 0 once submitted.
func (f *Flow) Position() int {
	for i, s := range f.Steps() {
		if s == f.Step {
			return i + 1
		}
	}
	return 0
}

func (f *Flow) partyStepApplies() bool {
	return f.Options.PartySelection && (f.Form.Attending == nil || *f.Form.Attending)
}

// CanContinue reports whether Next would succeed from the current step.
func (f *Flow) CanContinue() bool {
	return f.Step != StepAdditionalInfo && f.Step != StepSubmitted && f.checkStep() == nil
}

// Next advances one step if the current step's guard passes.
func (f *Flow) Next() error {
	switch f.Step {
	case StepSubmitted:
		return ErrAlreadySubmitted
	case StepAdditionalInfo:
		return ErrFinalStep
	}
	if err := f.checkStep(); err != nil {
		return err
	}

	switch f.Step {
	case StepPersonalInfo:
		f.Step = StepAttendance
	case StepAttendance:
		if f.partyStepApplies() {
			f.Step = StepPartySelection
		} else {
			f.Step = StepAdditionalInfo
		}
	case StepPartySelection:
		f.Step = StepAdditionalInfo
	}
	return nil
}

// Back returns to the previous visible step. It is a no-op on the first step.
func (f *Flow) Back() error {
	switch f.Step {
	case StepSubmitted:
		return ErrAlreadySubmitted
	case StepAttendance:
		f.Step = StepPersonalInfo
	case StepPartySelection:
		f.Step = StepAttendance
	case StepAdditionalInfo:
		if f.partyStepApplies() {
			f.Step = StepPartySelection
		} else {
			f.Step = StepAttendance
		}
	}
	return nil
}

func (f *Flow) checkStep() error {
	switch f.Step {
	case StepPersonalInfo:
		if strings.TrimSpace(f.Form.FullName) == "" {
			return ErrNameRequired
		}
	case StepAttendance:
		if f.Form.Attending == nil {
			return ErrAttendanceRequired
		}
		if *f.Form.Attending {
			return ValidateGuests(f.Form.GuestCount, f.Form.AdditionalGuests, f.Options.MaxGuests)
		}
	case StepPartySelection:
		if f.Form.Gender == nil {
			return ErrGenderRequired
		}
	}
	return nil
}

// Validate runs the checks required before submission, regardless of step.
func (f *Flow) Validate() error {
	if strings.TrimSpace(f.Form.FullName) == "" {
		return ErrNameRequired
	}
	if f.Form.Attending == nil {
		return ErrAttendanceRequired
	}
	if *f.Form.Attending {
		return ValidateGuests(f.Form.GuestCount, f.Form.AdditionalGuests, f.Options.MaxGuests)
	}
	return nil
}

// Submit validates and moves the flow into the terminal Submitted step.
// Only the AdditionalInfo step can submit.
func (f *Flow) Submit() (Submission, error) {
	switch f.Step {
	case StepSubmitted:
		return Submission{}, ErrAlreadySubmitted
	case StepAdditionalInfo:
	default:
		return Submission{}, ErrNotFinalStep
	}
	if err := f.Validate(); err != nil {
		return Submission{}, err
	}
	if f.partyStepApplies() && f.Form.Gender == nil {
		return Submission{}, ErrGenderRequired
	}
	f.Step = StepSubmitted
	return f.Form.Submission(f.Options), nil
}
