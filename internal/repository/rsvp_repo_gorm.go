package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"wedding/site/internal/model"
)

var rsvpEditableColumns = []string{
	"attending",
	"guest_count",
	"additional_guests",
	"dietary_restrictions",
	"song_request",
	"halaal_preference",
	"gender",
	"party_choice",
}

// gift_id is only written by SetGift, so a repeated submission cannot drop a claimed gift.
var rsvpUpsertColumns = append(append([]string(nil), rsvpEditableColumns...), "updated_at")

type gormRSVPRepository struct {
	db *gorm.DB
}

func NewRSVPRepository(db *gorm.DB) RSVPRepository {
	return &gormRSVPRepository{db: db}
}

func (r *gormRSVPRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.RSVP, error) {
	var rsvp model.RSVP
	if err := r.db.WithContext(ctx).First(&rsvp, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rsvp, nil
}

func (r *gormRSVPRepository) Upsert(ctx context.Context, rsvp *model.RSVP) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns(rsvpUpsertColumns),
		}).
		Create(rsvp).Error
}

func (r *gormRSVPRepository) Update(ctx context.Context, rsvp *model.RSVP) error {
	res := r.db.WithContext(ctx).
		Model(&model.RSVP{ID: rsvp.ID}).
		Select(rsvpEditableColumns).
		Updates(rsvp)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *gormRSVPRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.RSVP{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *gormRSVPRepository) List(ctx context.Context) ([]model.RSVP, error) {
	var rsvps []model.RSVP
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rsvps).Error
	return rsvps, err
}

func (r *gormRSVPRepository) SetGift(ctx context.Context, id uuid.UUID, giftID uint) error {
	return r.db.WithContext(ctx).
		Model(&model.RSVP{}).
		Where("id = ?", id).
		Update("gift_id", giftID).Error
}

func (r *gormRSVPRepository) ClearGift(ctx context.Context, giftID uint) error {
	return r.db.WithContext(ctx).
		Model(&model.RSVP{}).
		Where("gift_id = ?", giftID).
		Update("gift_id", nil).Error
}
