package repository

import (
	"context"

	"github.com/google/uuid"

	"wedding/site/internal/model"
)

type RSVPRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.RSVP, error)
	// Upsert inserts the RSVP or overwrites the answers of the existing row with
	// the same id. The gift link is left alone.
	Upsert(ctx context.Context, rsvp *model.RSVP) error
	// Update writes the admin-editable columns of an existing RSVP.
	Update(ctx context.Context, rsvp *model.RSVP) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]model.RSVP, error)
	SetGift(ctx context.Context, id uuid.UUID, giftID uint) error
	// ClearGift drops the gift reference from whichever RSVP points at giftID.
	ClearGift(ctx context.Context, giftID uint) error
}
