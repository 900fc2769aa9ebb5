package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"wedding/site/internal/model"
	"wedding/site/internal/repository"
	"wedding/site/internal/rsvpflow"
	"wedding/site/internal/storage"
	"wedding/site/internal/testutil"
	jwtpkg "wedding/site/pkg/jwt"
)

type fixture struct {
	db         *gorm.DB
	profiles   repository.ProfileRepository
	identities repository.IdentityRepository
	rsvps      repository.RSVPRepository
	gifts      repository.GiftRepository
	crew       repository.CrewRepository
	state      repository.StateStore
	store      *storage.MemoryStore
	jwt        *jwtpkg.Manager

	auth  AuthService
	rsvp  RSVPService
	gift  GiftService
	admin AdminService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	f := &fixture{
		db:         db,
		profiles:   repository.NewProfileRepository(db),
		identities: repository.NewIdentityRepository(db),
		rsvps:      repository.NewRSVPRepository(db),
		gifts:      repository.NewGiftRepository(db),
		crew:       repository.NewCrewRepository(db),
		state:      repository.NewMemoryStateStore(),
		store:      storage.NewMemoryStore(""),
		jwt:        jwtpkg.NewManager("test-key", "wedding", time.Minute, time.Hour),
	}
	logger := zap.NewNop()
	f.auth = NewAuthService(f.profiles, f.identities, f.state, f.jwt)
	f.rsvp = NewRSVPService(f.profiles, f.rsvps, f.gifts, f.state, RSVPOptions{
		Flow:       rsvpflow.Options{PartySelection: true, MaxGuests: 5},
		DraftTTL:   time.Hour,
		PartyLinks: map[string]string{"bachelor": "https://chat.example/b"},
	}, logger)
	f.gift = NewGiftService(f.gifts, f.rsvps, f.store, "gift-images", logger)
	f.admin = NewAdminService(f.profiles, f.rsvps, f.gifts, 5, logger)
	return f
}

func (f *fixture) profile(t *testing.T, email string) *model.Profile {
	t.Helper()
	p := &model.Profile{Email: email, FullName: "Someone"}
	require.NoError(t, f.profiles.Create(context.Background(), p))
	return p
}

func (f *fixture) giftNamed(t *testing.T, name string) *model.Gift {
	t.Helper()
	g := &model.Gift{Name: name}
	require.NoError(t, f.gifts.Create(context.Background(), g))
	return g
}

func uintPtr(v uint) *uint { return &v }
