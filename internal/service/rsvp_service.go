package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"wedding/site/internal/metrics"
	"wedding/site/internal/model"
	"wedding/site/internal/repository"
	"wedding/site/internal/rsvpflow"
)

// RSVPStatus is what the RSVP page needs to decide between wizard and confirmation.
type RSVPStatus struct {
	Profile *model.Profile `json:"profile"`
	RSVP    *model.RSVP    `json:"rsvp"`
	Gift    *model.Gift    `json:"gift,omitempty"`
}

func (s *RSVPStatus) Submitted() bool { return s.RSVP != nil }

// SubmitResult reports the stored RSVP and, separately, how the gift claim went.
// A failed claim never undoes the RSVP.
type SubmitResult struct {
	RSVP        *model.RSVP
	GiftClaimed bool
	GiftErr     error
}

type RSVPService interface {
	Options() rsvpflow.Options
	PartyLink(choice model.PartyChoice) string
	Status(ctx context.Context, profileID uuid.UUID) (*RSVPStatus, error)
	Submit(ctx context.Context, profileID uuid.UUID, sub rsvpflow.Submission) (*SubmitResult, error)
	LoadDraft(ctx context.Context, profile *model.Profile) (*rsvpflow.Flow, error)
	SaveDraft(ctx context.Context, profileID uuid.UUID, flow *rsvpflow.Flow) error
	DiscardDraft(ctx context.Context, profileID uuid.UUID) error
}

type RSVPOptions struct {
	Flow       rsvpflow.Options
	DraftTTL   time.Duration
	PartyLinks map[string]string
}

type rsvpService struct {
	profileRepo repository.ProfileRepository
	rsvpRepo    repository.RSVPRepository
	giftRepo    repository.GiftRepository
	stateStore  repository.StateStore
	opts        RSVPOptions
	logger      *zap.Logger
}

func NewRSVPService(
	profileRepo repository.ProfileRepository,
	rsvpRepo repository.RSVPRepository,
	giftRepo repository.GiftRepository,
	stateStore repository.StateStore,
	opts RSVPOptions,
	logger *zap.Logger,
) RSVPService {
	if opts.Flow.MaxGuests <= 0 {
		opts.Flow.MaxGuests = rsvpflow.DefaultMaxGuests
	}
	return &rsvpService{
		profileRepo: profileRepo,
		rsvpRepo:    rsvpRepo,
		giftRepo:    giftRepo,
		stateStore:  stateStore,
		opts:        opts,
		logger:      logger,
	}
}

func (s *rsvpService) Options() rsvpflow.Options { return s.opts.Flow }

// PartyLink is the group chat invite for a party, empty when none is configured.
func (s *rsvpService) PartyLink(choice model.PartyChoice) string {
	if choice == model.PartyNone {
		return ""
	}
	return s.opts.PartyLinks[string(choice)]
}

func (s *rsvpService) Status(ctx context.Context, profileID uuid.UUID) (*RSVPStatus, error) {
	profile, err := s.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}

	status := &RSVPStatus{Profile: profile}
	rsvp, err := s.findRSVP(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if rsvp == nil {
		return status, nil
	}
	status.RSVP = rsvp

	if rsvp.GiftID != nil {
		gift, err := s.giftRepo.GetByID(ctx, *rsvp.GiftID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to find gift: %w", err)
		}
		status.Gift = gift
	}
	return status, nil
}

func (s *rsvpService) Submit(ctx context.Context, profileID uuid.UUID, sub rsvpflow.Submission) (*SubmitResult, error) {
	// 1. One RSVP per profile
	existing, err := s.findRSVP(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrRSVPAlreadySubmitted
	}

	// 2. Validate
	if err := sub.Validate(s.opts.Flow.MaxGuests); err != nil {
		return nil, err
	}

	// 3. Name on the profile
	if err := s.profileRepo.UpdateFullName(ctx, profileID, sub.FullName); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	// 4. Store the RSVP
	rsvp := newRSVP(profileID, sub, s.opts.Flow.PartySelection)
	if err := s.rsvpRepo.Upsert(ctx, rsvp); err != nil {
		return nil, fmt.Errorf("failed to save RSVP: %w", err)
	}
	metrics.ObserveRSVP(rsvp.Attending)

	// 5. Claim the gift; a lost race is reported, not returned
	result := &SubmitResult{RSVP: rsvp}
	if rsvp.Attending && sub.GiftID != nil {
		result.GiftClaimed, result.GiftErr = s.claimGift(ctx, profileID, *sub.GiftID)
		if result.GiftClaimed {
			id := *sub.GiftID
			rsvp.GiftID = &id
		} else {
			s.logger.Warn("gift claim failed",
				zap.String("profile_id", profileID.String()),
				zap.Uint("gift_id", *sub.GiftID),
				zap.Error(result.GiftErr),
			)
		}
	}

	if err := s.DiscardDraft(ctx, profileID); err != nil {
		s.logger.Warn("failed to discard RSVP draft", zap.Error(err))
	}
	return result, nil
}

func (s *rsvpService) claimGift(ctx context.Context, profileID uuid.UUID, giftID uint) (bool, error) {
	held, err := s.giftRepo.GetHeldBy(ctx, profileID)
	if err == nil && held != nil {
		metrics.ObserveGiftClaim(metrics.ClaimSkipped)
		return false, ErrGiftAlreadyHeld
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		metrics.ObserveGiftClaim(metrics.ClaimError)
		return false, fmt.Errorf("failed to check held gift: %w", err)
	}

	ok, err := s.giftRepo.Claim(ctx, giftID, profileID)
	if err != nil {
		metrics.ObserveGiftClaim(metrics.ClaimError)
		return false, fmt.Errorf("failed to claim gift: %w", err)
	}
	if !ok {
		metrics.ObserveGiftClaim(metrics.ClaimLost)
		return false, ErrGiftUnavailable
	}
	metrics.ObserveGiftClaim(metrics.ClaimWon)

	if err := s.rsvpRepo.SetGift(ctx, profileID, giftID); err != nil {
		return true, fmt.Errorf("failed to link gift: %w", err)
	}
	return true, nil
}

func (s *rsvpService) findRSVP(ctx context.Context, profileID uuid.UUID) (*model.RSVP, error) {
	rsvp, err := s.rsvpRepo.GetByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find RSVP: %w", err)
	}
	return rsvp, nil
}

// LoadDraft resumes a saved wizard or starts one prefilled from the profile.
func (s *rsvpService) LoadDraft(ctx context.Context, profile *model.Profile) (*rsvpflow.Flow, error) {
	data, err := s.stateStore.Get(ctx, draftKey(profile.ID))
	if err != nil {
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}
	if data != nil {
		var flow rsvpflow.Flow
		if err := json.Unmarshal(data, &flow); err == nil && flow.Step != rsvpflow.StepSubmitted {
			flow.Options = s.opts.Flow
			return &flow, nil
		}
	}

	flow := rsvpflow.New(s.opts.Flow)
	flow.Form.FullName = profile.FullName
	flow.Form.Email = profile.Email
	return flow, nil
}

func (s *rsvpService) SaveDraft(ctx context.Context, profileID uuid.UUID, flow *rsvpflow.Flow) error {
	data, err := json.Marshal(flow)
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}
	return s.stateStore.Set(ctx, draftKey(profileID), data, s.opts.DraftTTL)
}

func (s *rsvpService) DiscardDraft(ctx context.Context, profileID uuid.UUID) error {
	return s.stateStore.Delete(ctx, draftKey(profileID))
}

func draftKey(profileID uuid.UUID) string {
	return repository.KeyRSVPDraft + profileID.String()
}

// newRSVP maps a submission to its row. Attendee-only fields are dropped for
// guests who declined, and the companion list is only kept when there is one.
func newRSVP(id uuid.UUID, sub rsvpflow.Submission, partySelection bool) *model.RSVP {
	halaal := sub.HalaalPreference
	rsvp := &model.RSVP{
		ID:                  id,
		Attending:           sub.Attending,
		DietaryRestrictions: sub.DietaryRestrictions,
		SongRequest:         sub.SongRequest,
		HalaalPreference:    &halaal,
		PartyChoice:         model.PartyNone,
	}
	if !sub.Attending {
		return rsvp
	}

	rsvp.GuestCount = sub.GuestCount
	if sub.GuestCount > 1 && len(sub.AdditionalGuests) > 0 {
		rsvp.AdditionalGuests = model.GuestList(sub.AdditionalGuests)
	}
	if partySelection && sub.Gender != nil {
		g := *sub.Gender
		rsvp.Gender = &g
		if sub.PartyChoice != "" {
			rsvp.PartyChoice = sub.PartyChoice
		}
	}
	return rsvp
}

var _ RSVPService = (*rsvpService)(nil)
