package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"wedding/site/internal/model"
	"wedding/site/internal/repository"
	"wedding/site/internal/rsvpflow"
)

// RSVPRow is an RSVP joined with the guest's profile and claimed gift for the dashboard.
type RSVPRow struct {
	model.RSVP
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	GiftName string `json:"gift_name,omitempty"`
}

type Stats struct {
	TotalRSVPs       int `json:"total_rsvps"`
	Attending        int `json:"attending"`
	AttendingPercent int `json:"attending_percent"`
	TotalGuests      int `json:"total_guests"`
}

// RSVPUpdate holds the fields an admin may edit.
type RSVPUpdate struct {
	Attending           bool                    `json:"attending"`
	GuestCount          int                     `json:"guest_count"`
	AdditionalGuests    []model.AdditionalGuest `json:"additional_guests"`
	DietaryRestrictions *string                 `json:"dietary_restrictions"`
	SongRequest         *string                 `json:"song_request"`
	HalaalPreference    *bool                   `json:"halaal_preference"`
	Gender              *model.Gender           `json:"gender"`
	PartyChoice         model.PartyChoice       `json:"party_choice"`
}

type AdminService interface {
	ListRSVPs(ctx context.Context) ([]RSVPRow, error)
	UpdateRSVP(ctx context.Context, id uuid.UUID, in RSVPUpdate) (*model.RSVP, error)
	// DeleteRSVP releases any gift the RSVP holds, then deletes it.
	DeleteRSVP(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context) (*Stats, error)
	ListProfiles(ctx context.Context) ([]model.Profile, error)
	SetRole(ctx context.Context, email string, role model.Role) (*model.Profile, error)
}

type adminService struct {
	profileRepo repository.ProfileRepository
	rsvpRepo    repository.RSVPRepository
	giftRepo    repository.GiftRepository
	maxGuests   int
	logger      *zap.Logger
}

func NewAdminService(
	profileRepo repository.ProfileRepository,
	rsvpRepo repository.RSVPRepository,
	giftRepo repository.GiftRepository,
	maxGuests int,
	logger *zap.Logger,
) AdminService {
	return &adminService{
		profileRepo: profileRepo,
		rsvpRepo:    rsvpRepo,
		giftRepo:    giftRepo,
		maxGuests:   maxGuests,
		logger:      logger,
	}
}

func (s *adminService) ListRSVPs(ctx context.Context) ([]RSVPRow, error) {
	rsvps, err := s.rsvpRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list RSVPs: %w", err)
	}
	profiles, err := s.profileRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	gifts, err := s.giftRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list gifts: %w", err)
	}

	byID := make(map[uuid.UUID]model.Profile, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}
	giftNames := make(map[uint]string, len(gifts))
	for _, g := range gifts {
		giftNames[g.ID] = g.Name
	}

	rows := make([]RSVPRow, 0, len(rsvps))
	for _, r := range rsvps {
		row := RSVPRow{RSVP: r}
		if p, ok := byID[r.ID]; ok {
			row.FullName = p.FullName
			row.Email = p.Email
		}
		if r.GiftID != nil {
			row.GiftName = giftNames[*r.GiftID]
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *adminService) UpdateRSVP(ctx context.Context, id uuid.UUID, in RSVPUpdate) (*model.RSVP, error) {
	rsvp, err := s.rsvpRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRSVPNotFound
		}
		return nil, fmt.Errorf("failed to find RSVP: %w", err)
	}

	rsvp.Attending = in.Attending
	rsvp.DietaryRestrictions = in.DietaryRestrictions
	rsvp.SongRequest = in.SongRequest
	rsvp.HalaalPreference = in.HalaalPreference
	if in.Attending {
		if err := rsvpflow.ValidateGuests(in.GuestCount, in.AdditionalGuests, s.maxGuests); err != nil {
			return nil, err
		}
		rsvp.GuestCount = in.GuestCount
		rsvp.AdditionalGuests = model.GuestList(in.AdditionalGuests)
		rsvp.Gender = in.Gender
		rsvp.PartyChoice = in.PartyChoice
		if rsvp.PartyChoice == "" || rsvp.Gender == nil {
			rsvp.PartyChoice = model.PartyNone
		}
	} else {
		rsvp.GuestCount = 0
		rsvp.AdditionalGuests = nil
		rsvp.Gender = nil
		rsvp.PartyChoice = model.PartyNone
	}

	if err := s.rsvpRepo.Update(ctx, rsvp); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRSVPNotFound
		}
		return nil, fmt.Errorf("failed to update RSVP: %w", err)
	}
	return rsvp, nil
}

func (s *adminService) DeleteRSVP(ctx context.Context, id uuid.UUID) error {
	// 1. Load the RSVP for its gift reference
	rsvp, err := s.rsvpRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRSVPNotFound
		}
		return fmt.Errorf("failed to find RSVP: %w", err)
	}

	// 2. Release gifts. Not in a transaction with step 3: if the delete
	// fails the gift stays released.
	released, err := s.giftRepo.ReleaseHeldBy(ctx, id, rsvp.GiftID)
	if err != nil {
		return fmt.Errorf("failed to release gift: %w", err)
	}

	// 3. Delete the RSVP
	if err := s.rsvpRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRSVPNotFound
		}
		return fmt.Errorf("failed to delete RSVP: %w", err)
	}

	s.logger.Info("RSVP deleted", zap.String("rsvp_id", id.String()), zap.Int64("gifts_released", released))
	return nil
}

func (s *adminService) Stats(ctx context.Context) (*Stats, error) {
	rsvps, err := s.rsvpRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list RSVPs: %w", err)
	}
	stats := ComputeStats(rsvps)
	return &stats, nil
}

// ComputeStats summarises RSVPs. Guests are counted from attending RSVPs only.
func ComputeStats(rsvps []model.RSVP) Stats {
	var st Stats
	st.TotalRSVPs = len(rsvps)
	for _, r := range rsvps {
		if !r.Attending {
			continue
		}
		st.Attending++
		st.TotalGuests += r.GuestCount
	}
	if st.TotalRSVPs > 0 {
		st.AttendingPercent = int(math.Round(float64(st.Attending) / float64(st.TotalRSVPs) * 100))
	}
	return st
}

func (s *adminService) ListProfiles(ctx context.Context) ([]model.Profile, error) {
	profiles, err := s.profileRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	return profiles, nil
}

func (s *adminService) SetRole(ctx context.Context, email string, role model.Role) (*model.Profile, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}
	profile, err := s.profileRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}
	if err := s.profileRepo.UpdateRole(ctx, profile.ID, role); err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}
	profile.Role = role
	return profile, nil
}

var _ AdminService = (*adminService)(nil)
