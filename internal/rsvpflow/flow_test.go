package rsvpflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wedding/site/internal/model"
)

func partyFlow() *Flow {
	return New(Options{PartySelection: true})
}

func TestNew_Defaults(t *testing.T) {
	f := New(Options{})
	assert.Equal(t, StepPersonalInfo, f.Step)
	assert.Equal(t, DefaultMaxGuests, f.Options.MaxGuests)
	assert.Equal(t, model.PartyNone, f.Form.PartyChoice)
	assert.Equal(t, 1, f.Position())
}

func TestNext_RequiresName(t *testing.T) {
	f := partyFlow()
	f.Form.FullName = "   "
	assert.ErrorIs(t, f.Next(), ErrNameRequired)
	assert.Equal(t, StepPersonalInfo, f.Step)
	assert.False(t, f.CanContinue())

	f.Form.FullName = "Ana Silva"
	require.NoError(t, f.Next())
	assert.Equal(t, StepAttendance, f.Step)
}

func TestNext_AttendanceGuards(t *testing.T) {
	f := partyFlow()
	f.Form.FullName = "Ana"
	require.NoError(t, f.Next())

	assert.ErrorIs(t, f.Next(), ErrAttendanceRequired)

	f.Form.SetAttending(true)
	assert.Equal(t, 1, f.Form.GuestCount)

	f.Form.SetGuestCount(3)
	require.Len(t, f.Form.AdditionalGuests, 2)
	f.Form.SetGuest(0, "Jane", "Doe")
	assert.ErrorIs(t, f.Next(), ErrGuestDetailsIncomplete)

	f.Form.SetGuest(1, "John", " ")
	assert.ErrorIs(t, f.Next(), ErrGuestDetailsIncomplete)

	f.Form.SetGuest(1, "John", "Doe")
	require.NoError(t, f.Next())
	assert.Equal(t, StepPartySelection, f.Step)
}

func TestNext_GuestCountBounds(t *testing.T) {
	f := New(Options{MaxGuests: 2})
	f.Form.FullName = "Ana"
	require.NoError(t, f.Next())
	f.Form.SetAttending(true)

	f.Form.SetGuestCount(3)
	assert.ErrorIs(t, f.Next(), ErrGuestCountOutOfRange)

	f.Form.SetGuestCount(0)
	assert.ErrorIs(t, f.Next(), ErrGuestCountOutOfRange)
}

func TestSetGuestCount_PreservesEnteredGuests(t *testing.T) {
	var form Form
	form.SetGuestCount(3)
	form.SetGuest(0, "Jane", "Doe")
	form.SetGuest(1, "John", "Doe")

	form.SetGuestCount(2)
	require.Len(t, form.AdditionalGuests, 1)
	assert.Equal(t, "Jane", form.AdditionalGuests[0].FullName)

	form.SetGuestCount(4)
	require.Len(t, form.AdditionalGuests, 3)
	assert.Equal(t, "Jane", form.AdditionalGuests[0].FullName)
	assert.Empty(t, form.AdditionalGuests[2].FullName)

	form.SetGuest(7, "Out", "Of range")
	assert.Len(t, form.AdditionalGuests, 3)
}

func TestDecliningSkipsPartySelection(t *testing.T) {
	f := partyFlow()
	f.Form.FullName = "Ana"
	require.NoError(t, f.Next())

	f.Form.SetAttending(false)
	require.NoError(t, f.Next())
	assert.Equal(t, StepAdditionalInfo, f.Step)
	assert.Equal(t, []Step{StepPersonalInfo, StepAttendance, StepAdditionalInfo}, f.Steps())
	assert.Equal(t, 3, f.Position())

	require.NoError(t, f.Back())
	assert.Equal(t, StepAttendance, f.Step)
}

func TestAttendingBackFromAdditionalInfo(t *testing.T) {
	f := partyFlow()
	f.Form.FullName = "Ana"
	require.NoError(t, f.Next())
	f.Form.SetAttending(true)
	require.NoError(t, f.Next())

	assert.ErrorIs(t, f.Next(), ErrGenderRequired)
	require.NoError(t, f.Form.ChooseGender(model.GenderFemale))
	require.NoError(t, f.Next())
	assert.Equal(t, StepAdditionalInfo, f.Step)
	assert.Equal(t, 4, f.Position())
	assert.ErrorIs(t, f.Next(), ErrFinalStep)

	require.NoError(t, f.Back())
	assert.Equal(t, StepPartySelection, f.Step)
}

func TestWithoutPartySelection(t *testing.T) {
	f := New(Options{})
	f.Form.FullName = "Ana"
	require.NoError(t, f.Next())
	f.Form.SetAttending(true)
	require.NoError(t, f.Next())
	assert.Equal(t, StepAdditionalInfo, f.Step)
	assert.NotContains(t, f.Steps(), StepPartySelection)
}

func TestBack_StaysOnFirstStep(t *testing.T) {
	f := partyFlow()
	require.NoError(t, f.Back())
	assert.Equal(t, StepPersonalInfo, f.Step)
}

func TestPartyChoice(t *testing.T) {
	var form Form
	assert.ErrorIs(t, form.JoinParty(true), ErrGenderRequired)
	assert.ErrorIs(t, form.ChooseGender("other"), ErrInvalidGender)

	require.NoError(t, form.ChooseGender(model.GenderMale))
	require.NoError(t, form.JoinParty(true))
	assert.Equal(t, model.PartyBachelor, form.PartyChoice)

	require.NoError(t, form.ChooseGender(model.GenderFemale))
	assert.Equal(t, model.PartyNone, form.PartyChoice, "switching gender resets the choice")

	require.NoError(t, form.JoinParty(true))
	assert.Equal(t, model.PartyBachelorette, form.PartyChoice)

	require.NoError(t, form.JoinParty(false))
	assert.Equal(t, model.PartyNone, form.PartyChoice)
}

func TestSubmit_AttendingWithCompanion(t *testing.T) {
	gift := uint(7)
	f := partyFlow()
	f.Form.FullName = " Ana Silva "
	f.Form.SetAttending(true)
	f.Form.SetGuestCount(2)
	f.Form.SetGuest(0, "Jane", "Doe")
	f.Form.SelectedGift = &gift
	require.NoError(t, f.Form.ChooseGender(model.GenderFemale))
	require.NoError(t, f.Form.JoinParty(true))
	f.Form.SongRequest = "  "
	f.Form.DietaryRestrictions = "vegetarian"
	f.Step = StepAdditionalInfo

	sub, err := f.Submit()
	require.NoError(t, err)
	assert.Equal(t, StepSubmitted, f.Step)
	assert.Equal(t, 0, f.Position())

	assert.Equal(t, "Ana Silva", sub.FullName)
	assert.True(t, sub.Attending)
	assert.Equal(t, 2, sub.GuestCount)
	assert.Equal(t, []model.AdditionalGuest{{FullName: "Jane", Surname: "Doe"}}, sub.AdditionalGuests)
	require.NotNil(t, sub.GiftID)
	assert.Equal(t, uint(7), *sub.GiftID)
	assert.Equal(t, model.PartyBachelorette, sub.PartyChoice)
	assert.Nil(t, sub.SongRequest)
	require.NotNil(t, sub.DietaryRestrictions)
	assert.Equal(t, "vegetarian", *sub.DietaryRestrictions)

	_, err = f.Submit()
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
	assert.ErrorIs(t, f.Next(), ErrAlreadySubmitted)
	assert.ErrorIs(t, f.Back(), ErrAlreadySubmitted)
}

func TestSubmit_DecliningDropsAttendeeFields(t *testing.T) {
	gift := uint(3)
	f := partyFlow()
	f.Form.FullName = "Ana"
	f.Form.SetAttending(true)
	f.Form.SetGuestCount(3)
	f.Form.SelectedGift = &gift
	f.Form.SetAttending(false)
	f.Step = StepAdditionalInfo

	sub, err := f.Submit()
	require.NoError(t, err)
	assert.False(t, sub.Attending)
	assert.Equal(t, 0, sub.GuestCount)
	assert.Nil(t, sub.AdditionalGuests)
	assert.Nil(t, sub.GiftID)
	assert.Nil(t, sub.Gender)
	assert.Equal(t, model.PartyNone, sub.PartyChoice)
}

func TestSubmit_RequiresAttendance(t *testing.T) {
	f := partyFlow()
	f.Form.FullName = "Ana"
	f.Step = StepAdditionalInfo
	_, err := f.Submit()
	assert.ErrorIs(t, err, ErrAttendanceRequired)
	assert.Equal(t, StepAdditionalInfo, f.Step)
}

func TestSubmit_OnlyFromFinalStep(t *testing.T) {
	f := partyFlow()
	f.Form.FullName = "Ana"
	require.NoError(t, f.Next())
	f.Form.SetAttending(true)
	f.Form.SetGuestCount(1)
	require.NoError(t, f.Next())
	require.Equal(t, StepPartySelection, f.Step)
	assert.ErrorIs(t, f.Next(), ErrGenderRequired)

	_, err := f.Submit()
	assert.ErrorIs(t, err, ErrNotFinalStep)
	assert.Equal(t, StepPartySelection, f.Step)

	f.Step = StepPersonalInfo
	_, err = f.Submit()
	assert.ErrorIs(t, err, ErrNotFinalStep)
}

func TestSubmit_AttendeeNeedsGenderWithPartySelection(t *testing.T) {
	f := partyFlow()
	f.Form.FullName = "Ana"
	f.Form.SetAttending(true)
	f.Form.SetGuestCount(1)
	f.Step = StepAdditionalInfo

	_, err := f.Submit()
	assert.ErrorIs(t, err, ErrGenderRequired)
	assert.Equal(t, StepAdditionalInfo, f.Step)

	require.NoError(t, f.Form.ChooseGender(model.GenderMale))
	sub, err := f.Submit()
	require.NoError(t, err)
	assert.Equal(t, StepSubmitted, f.Step)
	assert.Equal(t, model.PartyNone, sub.PartyChoice)
}

func TestSubmissionValidate(t *testing.T) {
	male := model.GenderMale
	tests := []struct {
		name string
		sub  Submission
		want error
	}{
		{"declined", Submission{FullName: "A"}, nil},
		{"no name", Submission{Attending: true, GuestCount: 1}, ErrNameRequired},
		{"solo", Submission{FullName: "A", Attending: true, GuestCount: 1}, nil},
		{"zero guests", Submission{FullName: "A", Attending: true}, ErrGuestCountOutOfRange},
		{"too many", Submission{FullName: "A", Attending: true, GuestCount: 6}, ErrGuestCountOutOfRange},
		{
			"missing companion",
			Submission{FullName: "A", Attending: true, GuestCount: 2},
			ErrGuestDetailsIncomplete,
		},
		{
			"party without gender",
			Submission{FullName: "A", Attending: true, GuestCount: 1, PartyChoice: model.PartyBachelor},
			ErrGenderRequired,
		},
		{
			"party with gender",
			Submission{FullName: "A", Attending: true, GuestCount: 1, Gender: &male, PartyChoice: model.PartyBachelor},
			nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sub.Validate(DefaultMaxGuests)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
