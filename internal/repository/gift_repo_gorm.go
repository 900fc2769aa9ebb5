package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"wedding/site/internal/model"
)

type gormGiftRepository struct {
	db *gorm.DB
}

func NewGiftRepository(db *gorm.DB) GiftRepository {
	return &gormGiftRepository{db: db}
}

func (r *gormGiftRepository) Create(ctx context.Context, gift *model.Gift) error {
	gift.Available = true
	gift.ClaimedBy = nil
	return r.db.WithContext(ctx).Create(gift).Error
}

func (r *gormGiftRepository) GetByID(ctx context.Context, id uint) (*model.Gift, error) {
	var gift model.Gift
	if err := r.db.WithContext(ctx).First(&gift, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &gift, nil
}

func (r *gormGiftRepository) List(ctx context.Context) ([]model.Gift, error) {
	var gifts []model.Gift
	err := r.db.WithContext(ctx).Order("id ASC").Find(&gifts).Error
	return gifts, err
}

func (r *gormGiftRepository) ListAvailable(ctx context.Context) ([]model.Gift, error) {
	var gifts []model.Gift
	err := r.db.WithContext(ctx).Where("available = ?", true).Order("id ASC").Find(&gifts).Error
	return gifts, err
}

func (r *gormGiftRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Gift{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *gormGiftRepository) Claim(ctx context.Context, id uint, profileID uuid.UUID) (bool, error) {
	// The availability check and the write are one statement; the database
	// serialises concurrent claims on the row.
	res := r.db.WithContext(ctx).
		Model(&model.Gift{}).
		Where("id = ? AND available = ?", id, true).
		Updates(map[string]interface{}{
			"available":  false,
			"claimed_by": profileID,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *gormGiftRepository) Release(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).
		Model(&model.Gift{}).
		Where("id = ?", id).
		Updates(releasedColumns())
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *gormGiftRepository) ReleaseHeldBy(ctx context.Context, profileID uuid.UUID, giftID *uint) (int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Gift{})
	if giftID != nil {
		q = q.Where("claimed_by = ? OR id = ?", profileID, *giftID)
	} else {
		q = q.Where("claimed_by = ?", profileID)
	}
	res := q.Updates(releasedColumns())
	return res.RowsAffected, res.Error
}

func (r *gormGiftRepository) GetHeldBy(ctx context.Context, profileID uuid.UUID) (*model.Gift, error) {
	var gift model.Gift
	if err := r.db.WithContext(ctx).First(&gift, "claimed_by = ?", profileID).Error; err != nil {
		return nil, err
	}
	return &gift, nil
}

func releasedColumns() map[string]interface{} {
	return map[string]interface{}{
		"available":  true,
		"claimed_by": nil,
	}
}
