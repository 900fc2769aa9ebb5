package repository

import (
	"context"

	"gorm.io/gorm"

	"wedding/site/internal/model"
)

type gormCrewRepository struct {
	db *gorm.DB
}

func NewCrewRepository(db *gorm.DB) CrewRepository {
	return &gormCrewRepository{db: db}
}

func (r *gormCrewRepository) Create(ctx context.Context, member *model.CrewMember) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *gormCrewRepository) GetByID(ctx context.Context, id uint) (*model.CrewMember, error) {
	var member model.CrewMember
	if err := r.db.WithContext(ctx).First(&member, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *gormCrewRepository) List(ctx context.Context) ([]model.CrewMember, error) {
	var members []model.CrewMember
	err := r.db.WithContext(ctx).Order("id ASC").Find(&members).Error
	return members, err
}

func (r *gormCrewRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.CrewMember{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
