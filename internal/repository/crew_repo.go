package repository

import (
	"context"

	"wedding/site/internal/model"
)

type CrewRepository interface {
	Create(ctx context.Context, member *model.CrewMember) error
	GetByID(ctx context.Context, id uint) (*model.CrewMember, error)
	List(ctx context.Context) ([]model.CrewMember, error)
	Delete(ctx context.Context, id uint) error
}
