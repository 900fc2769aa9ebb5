package view

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wedding/site/internal/model"
	"wedding/site/internal/rsvpflow"
	"wedding/site/internal/service"
)

func render(t *testing.T, name string, data any) string {
	t.Helper()
	tmpl, err := Templates()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tmpl.ExecuteTemplate(&buf, name, data))
	return buf.String()
}

func strPtr(s string) *string { return &s }

func TestTemplates_Parse(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)
	for _, name := range []string{PageHome, PageGifts, PageCrew, PageSignIn, PageSignUp, PageRSVP, PageRSVPDone, PageAdmin, PageError} {
		assert.NotNil(t, tmpl.Lookup(name), name)
	}
}

func TestHomePage(t *testing.T) {
	layout := Layout{
		Title:   "Home",
		Couple:  "Ann and Ben",
		Flashes: []Flash{{Kind: FlashSuccess, Text: "Welcome back, Ann!"}},
	}

	out := render(t, PageHome, HomePage{
		Layout:    layout,
		Details:   service.Details{Couple: "Ann and Ben", Date: "Saturday, 20 March 2027", Venue: "The Old Barn"},
		Countdown: service.TimeLeft{Days: 3, Hours: 4},
		Gifts:     []model.Gift{{ID: 1, Name: "Toaster", ImageURL: strPtr("http://x/toaster.png")}},
	})
	assert.Contains(t, out, "Ann and Ben")
	assert.Contains(t, out, "toast-success")
	assert.Contains(t, out, "<strong>3</strong> days")
	assert.Contains(t, out, "Toaster")

	out = render(t, PageHome, HomePage{
		Layout:    layout,
		Details:   service.Details{Date: "Saturday, 20 March 2027"},
		Countdown: service.TimeLeft{Passed: true},
	})
	assert.Contains(t, out, "We're married!")

	out = render(t, PageHome, HomePage{Layout: layout})
	assert.NotContains(t, out, "countdown")
}

func TestRSVPPage_Steps(t *testing.T) {
	flow := rsvpflow.New(rsvpflow.Options{PartySelection: true, MaxGuests: 5})
	flow.Form.FullName = "Ann Smith"

	out := render(t, PageRSVP, RSVPPage{Layout: Layout{Title: "RSVP"}, Flow: flow, Steps: StepViews(flow)})
	assert.Contains(t, out, `name="full_name"`)
	assert.Contains(t, out, `value="Ann Smith"`)
	assert.Contains(t, out, `name="step" value="1"`)

	require.NoError(t, flow.Next())
	flow.Form.SetAttending(true)
	flow.Form.SetGuestCount(2)
	out = render(t, PageRSVP, RSVPPage{
		Layout:       Layout{Title: "RSVP"},
		Flow:         flow,
		Steps:        StepViews(flow),
		GuestOptions: []int{1, 2, 3, 4, 5},
	})
	assert.Contains(t, out, `name="guest_full_name_0"`)
	assert.Contains(t, out, `<option value="2" selected>`)

	flow.Form.SetGuest(0, "Jane", "Doe")
	require.NoError(t, flow.Next())
	require.NoError(t, flow.Form.ChooseGender(model.GenderFemale))
	out = render(t, PageRSVP, RSVPPage{Layout: Layout{Title: "RSVP"}, Flow: flow, Steps: StepViews(flow)})
	assert.Contains(t, out, "bachelorette party")

	require.NoError(t, flow.Next())
	gift := uint(7)
	flow.Form.SelectedGift = &gift
	out = render(t, PageRSVP, RSVPPage{
		Layout: Layout{Title: "RSVP"},
		Flow:   flow,
		Steps:  StepViews(flow),
		Gifts:  []model.Gift{{ID: 7, Name: "Kettle", Available: true}},
	})
	assert.Contains(t, out, `<option value="7" selected>Kettle</option>`)
	assert.Contains(t, out, `formaction="/rsvp/submit"`)
}

func TestRSVPDonePage(t *testing.T) {
	halaal := true
	out := render(t, PageRSVPDone, RSVPDonePage{
		Layout: Layout{Title: "RSVP"},
		Status: &service.RSVPStatus{
			Profile: &model.Profile{FullName: "Ann Smith"},
			RSVP: &model.RSVP{
				Attending:        true,
				GuestCount:       2,
				AdditionalGuests: model.GuestList{{FullName: "Jane", Surname: "Doe"}},
				SongRequest:      strPtr("Dancing Queen"),
				HalaalPreference: &halaal,
			},
			Gift: &model.Gift{Name: "Kettle"},
		},
		PartyLink: "https://chat.example/party",
	})
	assert.Contains(t, out, "Thank you, Ann Smith!")
	assert.Contains(t, out, "Jane Doe")
	assert.Contains(t, out, "Dancing Queen")
	assert.Contains(t, out, "Your gift: <strong>Kettle</strong>")
	assert.Contains(t, out, "https://chat.example/party")
}

func TestAdminPage_Tabs(t *testing.T) {
	female := model.GenderFemale
	layout := Layout{Title: "Admin", Nav: Nav{SignedIn: true, IsAdmin: true, FullName: "Admin"}}
	row := service.RSVPRow{
		RSVP: model.RSVP{
			ID:               uuid.New(),
			Attending:        true,
			GuestCount:       2,
			AdditionalGuests: model.GuestList{{FullName: "Jane", Surname: "Doe"}},
			Gender:           &female,
			PartyChoice:      model.PartyBachelorette,
		},
		FullName: "Ann Smith",
		Email:    "ann@example.com",
		GiftName: "Kettle",
	}

	out := render(t, PageAdmin, AdminPage{
		Layout: layout,
		Tab:    "rsvps",
		Stats:  service.Stats{TotalRSVPs: 1, Attending: 1, AttendingPercent: 100, TotalGuests: 2},
		RSVPs:  []service.RSVPRow{row},
	})
	assert.Contains(t, out, "ann@example.com")
	assert.Contains(t, out, `action="/admin/rsvps/`+row.ID.String()+`"`)
	assert.Contains(t, out, `<option value="female" selected>`)
	assert.Contains(t, out, "(100%)")
	assert.Contains(t, out, `href="/admin"`)

	out = render(t, PageAdmin, AdminPage{
		Layout: layout,
		Tab:    "gifts",
		Gifts:  []model.Gift{{ID: 3, Name: "Kettle", Available: false}},
	})
	assert.Contains(t, out, `action="/admin/gifts/3/release"`)
	assert.NotContains(t, out, "No RSVPs yet.")

	out = render(t, PageAdmin, AdminPage{Layout: layout, Tab: "crew"})
	assert.Contains(t, out, "No crew members yet.")
}

func TestSignInPage(t *testing.T) {
	out := render(t, PageSignIn, SignInPage{Layout: Layout{Title: "Sign in"}, RedirectedFrom: "/admin", Passkeys: true})
	assert.Contains(t, out, `name="redirectedFrom" value="/admin"`)
	assert.Contains(t, out, "passkey-signin")

	out = render(t, PageSignIn, SignInPage{Layout: Layout{Title: "Sign in"}})
	assert.NotContains(t, out, "passkey-signin")
}

func TestStepViews(t *testing.T) {
	flow := rsvpflow.New(rsvpflow.Options{PartySelection: false})
	views := StepViews(flow)
	require.Len(t, views, 3)
	assert.True(t, views[0].Current)
	assert.False(t, views[1].Done)
}
