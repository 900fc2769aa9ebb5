package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"wedding/site/internal/model"
)

type gormIdentityRepository struct {
	db *gorm.DB
}

func NewIdentityRepository(db *gorm.DB) IdentityRepository {
	return &gormIdentityRepository{db: db}
}

func (r *gormIdentityRepository) Create(ctx context.Context, identity *model.Identity) error {
	return r.db.WithContext(ctx).Create(identity).Error
}

func (r *gormIdentityRepository) GetByTypeAndIdentifier(
	ctx context.Context, idType model.IdentityType, identifier string,
) (*model.Identity, error) {
	if idType == model.IdentityTypePassword {
		identifier = normalizeEmail(identifier)
	}
	var identity model.Identity
	err := r.db.WithContext(ctx).
		Where("identity_type = ? AND identifier = ?", idType, identifier).
		First(&identity).Error
	if err != nil {
		return nil, err
	}
	return &identity, nil
}

func (r *gormIdentityRepository) ListByProfileID(ctx context.Context, profileID uuid.UUID) ([]model.Identity, error) {
	var identities []model.Identity
	err := r.db.WithContext(ctx).Where("profile_id = ?", profileID).Find(&identities).Error
	return identities, err
}

func (r *gormIdentityRepository) Update(ctx context.Context, identity *model.Identity) error {
	return r.db.WithContext(ctx).Save(identity).Error
}
