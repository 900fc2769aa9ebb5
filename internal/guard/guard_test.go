package guard

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wedding/site/internal/model"
)

var (
	anonymous = Subject{}
	guest     = Subject{HasSession: true, Role: model.RoleGuest}
	admin     = Subject{HasSession: true, Role: model.RoleAdmin}
)

func eval(t *testing.T, raw string, s Subject) Decision {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return Evaluate(u, s)
}

func TestEvaluate_PublicPaths(t *testing.T) {
	for _, p := range []string{"/", "/gifts", "/bridal-crew", "/auth/signup", "/public/gift-images/a.png", "/api/v1/gifts", "/healthz"} {
		assert.Equal(t, Allow, eval(t, p, anonymous).Action, p)
	}
}

func TestEvaluate_HomeDoesNotOpenEverything(t *testing.T) {
	d := eval(t, "/rsvp", anonymous)
	assert.Equal(t, RedirectSignIn, d.Action)
	assert.Equal(t, "/auth/signin?redirectedFrom=%2Frsvp", d.Location)
}

func TestEvaluate_PrefixNeedsSegmentBoundary(t *testing.T) {
	d := eval(t, "/giftsfoo", anonymous)
	assert.Equal(t, RedirectSignIn, d.Action)

	d = eval(t, "/administrator", guest)
	assert.Equal(t, Allow, d.Action)
}

func TestEvaluate_AnonymousAdminKeepsFullPath(t *testing.T) {
	d := eval(t, "/admin/rsvps?tab=gifts", anonymous)
	assert.Equal(t, RedirectSignIn, d.Action)

	loc, err := url.Parse(d.Location)
	require.NoError(t, err)
	assert.Equal(t, SignInPath, loc.Path)
	assert.Equal(t, "/admin/rsvps?tab=gifts", loc.Query().Get(RedirectKey))
}

func TestEvaluate_GuestOnAdmin(t *testing.T) {
	for _, p := range []string{"/admin", "/admin/", "/api/v1/admin/rsvps", "/api/add-gift"} {
		d := eval(t, p, guest)
		assert.Equal(t, RedirectAway, d.Action, p)
		assert.Equal(t, HomePath, d.Location, p)
	}
	assert.Equal(t, Allow, eval(t, "/admin", admin).Action)
	assert.Equal(t, Allow, eval(t, "/rsvp", guest).Action)
}

func TestEvaluate_SignedInOnSignIn(t *testing.T) {
	d := eval(t, "/auth/signin", admin)
	assert.Equal(t, RedirectAway, d.Action)
	assert.Equal(t, AdminPath, d.Location)

	d = eval(t, "/auth/signin?redirectedFrom=/gifts", guest)
	assert.Equal(t, "/gifts", d.Location)

	d = eval(t, "/auth/signout", guest)
	assert.Equal(t, Allow, d.Action)
}

func TestAfterSignIn(t *testing.T) {
	tests := []struct {
		name string
		from string
		role model.Role
		want string
	}{
		{"guest default", "", model.RoleGuest, RSVPPath},
		{"admin default", "", model.RoleAdmin, AdminPath},
		{"remembered", "/rsvp?step=2", model.RoleGuest, "/rsvp?step=2"},
		{"admin target for guest", "/admin?tab=gifts", model.RoleGuest, RSVPPath},
		{"admin target for admin", "/admin?tab=gifts", model.RoleAdmin, "/admin?tab=gifts"},
		{"absolute url", "https://evil.example/", model.RoleGuest, RSVPPath},
		{"protocol relative", "//evil.example", model.RoleAdmin, AdminPath},
		{"sign in loop", "/auth/signin", model.RoleGuest, RSVPPath},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AfterSignIn(tt.from, tt.role))
		})
	}
}
