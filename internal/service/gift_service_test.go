package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"wedding/site/internal/repository"
	"wedding/site/internal/rsvpflow"
	"wedding/site/internal/storage"
)

type failingStore struct{ *storage.MemoryStore }

func (failingStore) Upload(context.Context, string, string, io.ReadSeeker, string) error {
	return errors.New("bucket unavailable")
}

func TestGiftService_CreateWithImage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.gift.(*giftService)
	svc.now = func() time.Time { return time.UnixMilli(1700000000000) }

	gift, err := f.gift.Create(ctx, "  Dinner set ", &Upload{
		Filename:    "dinner set.png",
		ContentType: "image/png",
		Body:        strings.NewReader("png"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Dinner set", gift.Name)
	assert.True(t, gift.Available)
	require.NotNil(t, gift.ImageURL)
	assert.Equal(t, "/public/gift-images/1700000000000-dinner-set.png", *gift.ImageURL)

	obj, err := f.store.Get("gift-images", "1700000000000-dinner-set.png")
	require.NoError(t, err)
	assert.Equal(t, "png", string(obj.Body))
}

func TestGiftService_CreateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.gift.Create(ctx, " ", nil)
	assert.ErrorIs(t, err, ErrGiftNameRequired)

	_, err = f.gift.Create(ctx, "Doc", &Upload{Filename: "a.pdf", ContentType: "application/pdf", Body: strings.NewReader("")})
	assert.ErrorIs(t, err, ErrUnsupportedImage)

	gifts, err := f.gift.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, gifts)
}

func TestGiftService_UploadFailureStoresNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewGiftService(f.gifts, f.rsvps, failingStore{f.store}, "gift-images", zap.NewNop())

	_, err := svc.Create(ctx, "Lamp", &Upload{Filename: "a.png", ContentType: "image/png", Body: strings.NewReader("x")})
	assert.ErrorContains(t, err, "bucket unavailable")

	gifts, err := f.gift.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, gifts)
}

func TestGiftService_ReleaseAndDeleteUnlinkRSVP(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.profile(t, "ana@example.com")
	g := f.giftNamed(t, "Rug")

	_, err := f.rsvp.Submit(ctx, p.ID, rsvpflow.Submission{FullName: "Ana", Attending: true, GuestCount: 1, GiftID: &g.ID})
	require.NoError(t, err)

	require.NoError(t, f.gift.Release(ctx, g.ID))
	available, err := f.gift.ListAvailable(ctx)
	require.NoError(t, err)
	require.Len(t, available, 1)

	stored, err := f.rsvps.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.GiftID)

	require.NoError(t, f.gift.Delete(ctx, g.ID))
	assert.ErrorIs(t, f.gift.Delete(ctx, g.ID), ErrGiftNotFound)
	assert.ErrorIs(t, f.gift.Release(ctx, g.ID), ErrGiftNotFound)
}

// claimAfterRelease runs a callback as soon as a gift becomes available again.
type claimAfterRelease struct {
	repository.GiftRepository
	then func()
}

func (r claimAfterRelease) Release(ctx context.Context, id uint) error {
	if err := r.GiftRepository.Release(ctx, id); err != nil {
		return err
	}
	r.then()
	return nil
}

func TestGiftService_ReleaseKeepsNextClaimLinked(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.profile(t, "ana@example.com")
	next := f.profile(t, "bea@example.com")
	g := f.giftNamed(t, "Lamp")

	_, err := f.rsvp.Submit(ctx, first.ID, rsvpflow.Submission{FullName: "Ana", Attending: true, GuestCount: 1, GiftID: &g.ID})
	require.NoError(t, err)

	var claimed *SubmitResult
	repo := claimAfterRelease{GiftRepository: f.gifts, then: func() {
		claimed, err = f.rsvp.Submit(ctx, next.ID, rsvpflow.Submission{FullName: "Bea", Attending: true, GuestCount: 1, GiftID: &g.ID})
	}}
	svc := NewGiftService(repo, f.rsvps, f.store, "gift-images", zap.NewNop())

	require.NoError(t, svc.Release(ctx, g.ID))
	require.NoError(t, err)
	require.True(t, claimed.GiftClaimed)

	stored, err := f.rsvps.GetByID(ctx, next.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.GiftID)
	assert.Equal(t, g.ID, *stored.GiftID)

	stored, err = f.rsvps.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.GiftID)
}
