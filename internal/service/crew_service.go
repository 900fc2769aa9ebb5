package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"wedding/site/internal/model"
	"wedding/site/internal/repository"
	"wedding/site/internal/storage"
)

type CrewInput struct {
	Name  string `json:"name" form:"name"`
	Role  string `json:"role" form:"role"`
	Quote string `json:"quote" form:"quote"`
}

type CrewService interface {
	List(ctx context.Context) ([]model.CrewMember, error)
	Create(ctx context.Context, in CrewInput, headshot *Upload) (*model.CrewMember, error)
	Delete(ctx context.Context, id uint) error
}

type crewService struct {
	crewRepo repository.CrewRepository
	store    storage.ObjectStore
	bucket   string
	logger   *zap.Logger
	now      func() time.Time
}

func NewCrewService(crewRepo repository.CrewRepository, store storage.ObjectStore, bucket string, logger *zap.Logger) CrewService {
	return &crewService{
		crewRepo: crewRepo,
		store:    store,
		bucket:   bucket,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *crewService) List(ctx context.Context) ([]model.CrewMember, error) {
	members, err := s.crewRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list crew: %w", err)
	}
	return members, nil
}

func (s *crewService) Create(ctx context.Context, in CrewInput, headshot *Upload) (*model.CrewMember, error) {
	name, role := strings.TrimSpace(in.Name), strings.TrimSpace(in.Role)
	if name == "" || role == "" {
		return nil, ErrCrewFieldsRequired
	}

	member := &model.CrewMember{Name: name, Role: role}
	if q := strings.TrimSpace(in.Quote); q != "" {
		member.Quote = &q
	}

	var up *uploaded
	if headshot != nil {
		var err error
		up, err = storeImage(ctx, s.store, s.bucket, headshot, s.now())
		if err != nil {
			return nil, err
		}
		member.HeadshotURL = &up.url
	}

	if err := s.crewRepo.Create(ctx, member); err != nil {
		if up != nil {
			if delErr := s.store.Delete(ctx, up.bucket, up.key); delErr != nil {
				s.logger.Warn("failed to remove orphaned headshot", zap.String("key", up.key), zap.Error(delErr))
			}
		}
		return nil, fmt.Errorf("failed to create crew member: %w", err)
	}
	return member, nil
}

func (s *crewService) Delete(ctx context.Context, id uint) error {
	if err := s.crewRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCrewMemberNotFound
		}
		return fmt.Errorf("failed to delete crew member: %w", err)
	}
	return nil
}

var _ CrewService = (*crewService)(nil)
