package repository

import (
	"context"

	"github.com/google/uuid"

	"wedding/site/internal/model"
)

type GiftRepository interface {
	Create(ctx context.Context, gift *model.Gift) error
	GetByID(ctx context.Context, id uint) (*model.Gift, error)
	List(ctx context.Context) ([]model.Gift, error)
	ListAvailable(ctx context.Context) ([]model.Gift, error)
	Delete(ctx context.Context, id uint) error
	// Claim marks the gift taken by profileID only if it is still available.
	// It reports false when another claim got there first.
	Claim(ctx context.Context, id uint, profileID uuid.UUID) (bool, error)
	Release(ctx context.Context, id uint) error
	// ReleaseHeldBy makes available every gift claimed by profileID, plus giftID when set.
	ReleaseHeldBy(ctx context.Context, profileID uuid.UUID, giftID *uint) (int64, error)
	GetHeldBy(ctx context.Context, profileID uuid.UUID) (*model.Gift, error)
}
