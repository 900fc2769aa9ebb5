package rsvpflow

import "errors"

// Messages are shown to guests as-is.
var (
	ErrNameRequired           = errors.New("please enter your full name")
	ErrAttendanceRequired     = errors.New("please let us know whether you can attend")
	ErrGuestCountOutOfRange   = errors.New("please choose how many people are coming")
	ErrGuestDetailsIncomplete = errors.New("please enter the name and surname of every additional guest")
	ErrGenderRequired         = errors.New("please choose which party you belong to")
	ErrInvalidGender          = errors.New("unknown gender")
	ErrAlreadySubmitted       = errors.New("your RSVP has already been submitted")
	ErrFinalStep              = errors.New("this is the last step, submit your RSVP")
	ErrNotFinalStep           = errors.New("please complete every step before submitting")
)
