package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"wedding/site/internal/model"
)

type gormProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &gormProfileRepository{db: db}
}

func (r *gormProfileRepository) Create(ctx context.Context, profile *model.Profile) error {
	profile.Email = normalizeEmail(profile.Email)
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *gormProfileRepository) CreateWithIdentity(ctx context.Context, profile *model.Profile, identity *model.Identity) error {
	profile.Email = normalizeEmail(profile.Email)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(profile).Error; err != nil {
			return err
		}
		identity.ProfileID = profile.ID
		return tx.Create(identity).Error
	})
}

func (r *gormProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	var profile model.Profile
	if err := r.db.WithContext(ctx).First(&profile, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *gormProfileRepository) GetByEmail(ctx context.Context, email string) (*model.Profile, error) {
	var profile model.Profile
	if err := r.db.WithContext(ctx).First(&profile, "email = ?", normalizeEmail(email)).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *gormProfileRepository) UpdateFullName(ctx context.Context, id uuid.UUID, fullName string) error {
	return r.updateColumn(ctx, id, "full_name", fullName)
}

func (r *gormProfileRepository) UpdateRole(ctx context.Context, id uuid.UUID, role model.Role) error {
	return r.updateColumn(ctx, id, "role", role)
}

func (r *gormProfileRepository) updateColumn(ctx context.Context, id uuid.UUID, column string, value interface{}) error {
	res := r.db.WithContext(ctx).Model(&model.Profile{}).Where("id = ?", id).Update(column, value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *gormProfileRepository) List(ctx context.Context) ([]model.Profile, error) {
	var profiles []model.Profile
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&profiles).Error
	return profiles, err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
