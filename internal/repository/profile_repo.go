package repository

import (
	"context"

	"github.com/google/uuid"

	"wedding/site/internal/model"
)

type ProfileRepository interface {
	Create(ctx context.Context, profile *model.Profile) error
	// CreateWithIdentity inserts the profile and its first identity atomically.
	CreateWithIdentity(ctx context.Context, profile *model.Profile, identity *model.Identity) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Profile, error)
	GetByEmail(ctx context.Context, email string) (*model.Profile, error)
	UpdateFullName(ctx context.Context, id uuid.UUID, fullName string) error
	UpdateRole(ctx context.Context, id uuid.UUID, role model.Role) error
	List(ctx context.Context) ([]model.Profile, error)
}
