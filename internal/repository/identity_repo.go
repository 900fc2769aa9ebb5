package repository

import (
	"context"

	"github.com/google/uuid"

	"wedding/site/internal/model"
)

type IdentityRepository interface {
	Create(ctx context.Context, identity *model.Identity) error
	GetByTypeAndIdentifier(ctx context.Context, idType model.IdentityType, identifier string) (*model.Identity, error)
	ListByProfileID(ctx context.Context, profileID uuid.UUID) ([]model.Identity, error)
	Update(ctx context.Context, identity *model.Identity) error
}
