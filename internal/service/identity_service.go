package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"wedding/site/internal/model"
	"wedding/site/internal/repository"
)

// SignInMethod is an identity with its secrets stripped.
type SignInMethod struct {
	ID         uuid.UUID          `json:"id"`
	Type       model.IdentityType `json:"type"`
	Identifier string             `json:"identifier"`
	CreatedAt  time.Time          `json:"created_at"`
}

type IdentityService interface {
	ListSignInMethods(ctx context.Context, profileID uuid.UUID) ([]SignInMethod, error)
}

type identityService struct {
	identityRepo repository.IdentityRepository
}

func NewIdentityService(identityRepo repository.IdentityRepository) IdentityService {
	return &identityService{identityRepo: identityRepo}
}

func (s *identityService) ListSignInMethods(ctx context.Context, profileID uuid.UUID) ([]SignInMethod, error) {
	identities, err := s.identityRepo.ListByProfileID(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to list identities: %w", err)
	}

	methods := make([]SignInMethod, 0, len(identities))
	for _, id := range identities {
		methods = append(methods, SignInMethod{
			ID:         id.ID,
			Type:       id.IdentityType,
			Identifier: displayIdentifier(id),
			CreatedAt:  id.CreatedAt,
		})
	}
	return methods, nil
}

// Passkey identifiers are long credential ids; only a short tail is shown.
func displayIdentifier(id model.Identity) string {
	if id.IdentityType == model.IdentityTypePasskey && len(id.Identifier) > 8 {
		return "…" + id.Identifier[len(id.Identifier)-8:]
	}
	return id.Identifier
}

var _ IdentityService = (*identityService)(nil)
