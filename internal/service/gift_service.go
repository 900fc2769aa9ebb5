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

type GiftService interface {
	ListAvailable(ctx context.Context) ([]model.Gift, error)
	ListAll(ctx context.Context) ([]model.Gift, error)
	// Create stores the image first, when given, then inserts the gift with its public URL.
	Create(ctx context.Context, name string, image *Upload) (*model.Gift, error)
	Delete(ctx context.Context, id uint) error
	// Release makes a claimed gift available again and unlinks it from the RSVP.
	Release(ctx context.Context, id uint) error
}

type giftService struct {
	giftRepo repository.GiftRepository
	rsvpRepo repository.RSVPRepository
	store    storage.ObjectStore
	bucket   string
	logger   *zap.Logger
	now      func() time.Time
}

func NewGiftService(
	giftRepo repository.GiftRepository,
	rsvpRepo repository.RSVPRepository,
	store storage.ObjectStore,
	bucket string,
	logger *zap.Logger,
) GiftService {
	return &giftService{
		giftRepo: giftRepo,
		rsvpRepo: rsvpRepo,
		store:    store,
		bucket:   bucket,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *giftService) ListAvailable(ctx context.Context) ([]model.Gift, error) {
	gifts, err := s.giftRepo.ListAvailable(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list gifts: %w", err)
	}
	return gifts, nil
}

func (s *giftService) ListAll(ctx context.Context) ([]model.Gift, error) {
	gifts, err := s.giftRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list gifts: %w", err)
	}
	return gifts, nil
}

func (s *giftService) Create(ctx context.Context, name string, image *Upload) (*model.Gift, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrGiftNameRequired
	}

	gift := &model.Gift{Name: name}
	var up *uploaded
	if image != nil {
		var err error
		up, err = storeImage(ctx, s.store, s.bucket, image, s.now())
		if err != nil {
			return nil, err
		}
		gift.ImageURL = &up.url
	}

	if err := s.giftRepo.Create(ctx, gift); err != nil {
		if up != nil {
			if delErr := s.store.Delete(ctx, up.bucket, up.key); delErr != nil {
				s.logger.Warn("failed to remove orphaned gift image", zap.String("key", up.key), zap.Error(delErr))
			}
		}
		return nil, fmt.Errorf("failed to create gift: %w", err)
	}
	return gift, nil
}

func (s *giftService) Delete(ctx context.Context, id uint) error {
	if err := s.rsvpRepo.ClearGift(ctx, id); err != nil {
		return fmt.Errorf("failed to unlink gift: %w", err)
	}
	if err := s.giftRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGiftNotFound
		}
		return fmt.Errorf("failed to delete gift: %w", err)
	}
	return nil
}

// Release unlinks the gift before making it available, so a guest who claims
// it right after keeps their link.
func (s *giftService) Release(ctx context.Context, id uint) error {
	if err := s.rsvpRepo.ClearGift(ctx, id); err != nil {
		return fmt.Errorf("failed to unlink gift: %w", err)
	}
	if err := s.giftRepo.Release(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGiftNotFound
		}
		return fmt.Errorf("failed to release gift: %w", err)
	}
	return nil
}

var _ GiftService = (*giftService)(nil)
