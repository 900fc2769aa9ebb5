package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wedding/site/internal/model"
	"wedding/site/internal/rsvpflow"
)

func TestRSVPService_SubmitClaimsSelectedGift(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.profile(t, "ana@example.com")

	// Advance ids so the selected gift is number 7.
	var gift7 *model.Gift
	for i := 1; i <= 7; i++ {
		gift7 = f.giftNamed(t, "gift")
	}
	require.EqualValues(t, 7, gift7.ID)

	res, err := f.rsvp.Submit(ctx, p.ID, rsvpflow.Submission{
		FullName:         "Ana Silva",
		Attending:        true,
		GuestCount:       2,
		AdditionalGuests: []model.AdditionalGuest{{FullName: "Jane", Surname: "Doe"}},
		GiftID:           uintPtr(7),
	})
	require.NoError(t, err)
	assert.True(t, res.GiftClaimed)
	assert.NoError(t, res.GiftErr)

	stored, err := f.rsvps.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, stored.Attending)
	assert.Equal(t, 2, stored.GuestCount)
	assert.Equal(t, model.GuestList{{FullName: "Jane", Surname: "Doe"}}, stored.AdditionalGuests)
	require.NotNil(t, stored.GiftID)
	assert.EqualValues(t, 7, *stored.GiftID)

	gift, err := f.gifts.GetByID(ctx, 7)
	require.NoError(t, err)
	assert.False(t, gift.Available)
	require.NotNil(t, gift.ClaimedBy)
	assert.Equal(t, p.ID, *gift.ClaimedBy)

	profile, err := f.profiles.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana Silva", profile.FullName)
}

func TestRSVPService_ResubmissionIsRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.profile(t, "ana@example.com")

	_, err := f.rsvp.Submit(ctx, p.ID, rsvpflow.Submission{FullName: "Ana", Attending: false})
	require.NoError(t, err)

	_, err = f.rsvp.Submit(ctx, p.ID, rsvpflow.Submission{FullName: "Ana", Attending: true, GuestCount: 1})
	assert.ErrorIs(t, err, ErrRSVPAlreadySubmitted)

	status, err := f.rsvp.Status(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, status.Submitted())
	assert.False(t, status.RSVP.Attending)
}

func TestRSVPService_DeclineStoresZeroGuests(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.profile(t, "ana@example.com")
	g := f.giftNamed(t, "Vase")
	male := model.GenderMale

	res, err := f.rsvp.Submit(ctx, p.ID, rsvpflow.Submission{
		FullName:         "Ana",
		Attending:        false,
		GuestCount:       3,
		AdditionalGuests: []model.AdditionalGuest{{FullName: "x", Surname: "y"}},
		Gender:           &male,
		PartyChoice:      model.PartyBachelor,
		GiftID:           &g.ID,
	})
	require.NoError(t, err)
	assert.False(t, res.GiftClaimed)

	stored, err := f.rsvps.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.GuestCount)
	assert.Nil(t, stored.AdditionalGuests)
	assert.Nil(t, stored.GiftID)
	assert.Nil(t, stored.Gender)
	assert.Equal(t, model.PartyNone, stored.PartyChoice)

	gift, err := f.gifts.GetByID(ctx, g.ID)
	require.NoError(t, err)
	assert.True(t, gift.Available)
}

func TestRSVPService_InvalidSubmissionStoresNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.profile(t, "ana@example.com")

	_, err := f.rsvp.Submit(ctx, p.ID, rsvpflow.Submission{FullName: "Ana", Attending: true, GuestCount: 3})
	assert.ErrorIs(t, err, rsvpflow.ErrGuestDetailsIncomplete)

	status, err := f.rsvp.Status(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, status.Submitted())
}

func TestRSVPService_LostGiftRaceKeepsRSVP(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	g := f.giftNamed(t, "Blender")
	winner := f.profile(t, "winner@example.com")
	loser := f.profile(t, "loser@example.com")

	ok, err := f.gifts.Claim(ctx, g.ID, winner.ID)
	require.NoError(t, err)
	require.True(t, ok)

	res, err := f.rsvp.Submit(ctx, loser.ID, rsvpflow.Submission{
		FullName: "Lou", Attending: true, GuestCount: 1, GiftID: &g.ID,
	})
	require.NoError(t, err)
	assert.False(t, res.GiftClaimed)
	assert.ErrorIs(t, res.GiftErr, ErrGiftUnavailable)

	stored, err := f.rsvps.GetByID(ctx, loser.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.GiftID)

	gift, err := f.gifts.GetByID(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, winner.ID, *gift.ClaimedBy)
}

func TestRSVPService_ProfileHoldsAtMostOneGift(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.profile(t, "ana@example.com")
	first := f.giftNamed(t, "First")
	second := f.giftNamed(t, "Second")

	// A gift claimed before this RSVP existed, e.g. left over from a deleted one.
	ok, err := f.gifts.Claim(ctx, first.ID, p.ID)
	require.NoError(t, err)
	require.True(t, ok)

	res, err := f.rsvp.Submit(ctx, p.ID, rsvpflow.Submission{
		FullName: "Ana", Attending: true, GuestCount: 1, GiftID: &second.ID,
	})
	require.NoError(t, err)
	assert.ErrorIs(t, res.GiftErr, ErrGiftAlreadyHeld)

	gift, err := f.gifts.GetByID(ctx, second.ID)
	require.NoError(t, err)
	assert.True(t, gift.Available)
}

func TestRSVPService_ConcurrentSubmissionsClaimOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	g := f.giftNamed(t, "Espresso machine")

	const guests = 6
	ids := make([]uuid.UUID, guests)
	for i := range ids {
		ids[i] = f.profile(t, uuid.NewString()+"@example.com").ID
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		claimed int
	)
	for _, id := range ids {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			res, err := f.rsvp.Submit(ctx, id, rsvpflow.Submission{
				FullName: "Guest", Attending: true, GuestCount: 1, GiftID: &g.ID,
			})
			if err == nil && res.GiftClaimed {
				mu.Lock()
				claimed++
				mu.Unlock()
			}
		}(id)
	}
	wg.Wait()

	assert.Equal(t, 1, claimed)
	all, err := f.rsvps.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, guests, "every RSVP is stored regardless of the claim")
}

func TestRSVPService_Drafts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.profile(t, "ana@example.com")

	flow, err := f.rsvp.LoadDraft(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, rsvpflow.StepPersonalInfo, flow.Step)
	assert.Equal(t, "Someone", flow.Form.FullName)
	assert.Equal(t, "ana@example.com", flow.Form.Email)

	require.NoError(t, flow.Next())
	flow.Form.SetAttending(true)
	flow.Form.SetGuestCount(2)
	require.NoError(t, f.rsvp.SaveDraft(ctx, p.ID, flow))

	resumed, err := f.rsvp.LoadDraft(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, rsvpflow.StepAttendance, resumed.Step)
	assert.Equal(t, 2, resumed.Form.GuestCount)
	assert.Len(t, resumed.Form.AdditionalGuests, 1)

	_, err = f.rsvp.Submit(ctx, p.ID, rsvpflow.Submission{FullName: "Ana"})
	require.NoError(t, err)

	fresh, err := f.rsvp.LoadDraft(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, rsvpflow.StepPersonalInfo, fresh.Step, "submitting discards the draft")
}

func TestRSVPService_PartyLink(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, "https://chat.example/b", f.rsvp.PartyLink(model.PartyBachelor))
	assert.Empty(t, f.rsvp.PartyLink(model.PartyBachelorette))
	assert.Empty(t, f.rsvp.PartyLink(model.PartyNone))
}
