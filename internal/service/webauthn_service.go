package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-webauthn/webauthn/protocol"
	"github.com/go-webauthn/webauthn/webauthn"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"wedding/site/internal/config"
	"wedding/site/internal/model"
	"wedding/site/internal/repository"
)

const webauthnSessionTTL = 5 * time.Minute

// WebAuthnService registers passkeys for signed-in guests and signs them in
// with a discoverable credential later.
type WebAuthnService interface {
	BeginRegistration(ctx context.Context, profileID uuid.UUID) (*protocol.CredentialCreation, string, error)
	FinishRegistration(ctx context.Context, profileID uuid.UUID, sessionID string, r *http.Request) error
	BeginLogin(ctx context.Context) (*protocol.CredentialAssertion, string, error)
	FinishLogin(ctx context.Context, sessionID string, r *http.Request) (*model.Profile, *TokenSet, error)
}

type webAuthnService struct {
	wa           *webauthn.WebAuthn
	profileRepo  repository.ProfileRepository
	identityRepo repository.IdentityRepository
	stateStore   repository.StateStore
	authService  AuthService
	logger       *zap.Logger
}

func NewWebAuthnService(
	cfg config.WebAuthnConfig,
	profileRepo repository.ProfileRepository,
	identityRepo repository.IdentityRepository,
	stateStore repository.StateStore,
	authService AuthService,
	logger *zap.Logger,
) (WebAuthnService, error) {
	wa, err := webauthn.New(&webauthn.Config{
		RPDisplayName: cfg.RPDisplayName,
		RPID:          cfg.RPID,
		RPOrigins:     cfg.RPOrigins,
	})
	if err != nil {
		return nil, fmt.Errorf("init webauthn: %w", err)
	}

	return &webAuthnService{
		wa:           wa,
		profileRepo:  profileRepo,
		identityRepo: identityRepo,
		stateStore:   stateStore,
		authService:  authService,
		logger:       logger,
	}, nil
}

func (s *webAuthnService) BeginRegistration(ctx context.Context, profileID uuid.UUID) (*protocol.CredentialCreation, string, error) {
	waUser, err := s.loadUser(ctx, profileID)
	if err != nil {
		return nil, "", err
	}

	creation, session, err := s.wa.BeginRegistration(
		waUser,
		webauthn.WithResidentKeyRequirement(protocol.ResidentKeyRequirementRequired),
		webauthn.WithExclusions(webauthn.Credentials(waUser.credentials).CredentialDescriptors()),
	)
	if err != nil {
		return nil, "", fmt.Errorf("begin registration: %w", err)
	}

	sessionID, err := s.saveSession(ctx, repository.KeyPasskeyReg, session)
	if err != nil {
		return nil, "", err
	}
	return creation, sessionID, nil
}

func (s *webAuthnService) FinishRegistration(ctx context.Context, profileID uuid.UUID, sessionID string, r *http.Request) error {
	session, err := s.takeSession(ctx, repository.KeyPasskeyReg, sessionID)
	if err != nil {
		return err
	}
	if !bytes.Equal(session.UserID, profileID[:]) {
		return ErrPasskeySessionExpired
	}

	waUser, err := s.loadUser(ctx, profileID)
	if err != nil {
		return err
	}

	credential, err := s.wa.FinishRegistration(waUser, *session, r)
	if err != nil {
		return fmt.Errorf("finish registration: %w", err)
	}

	identity := &model.Identity{
		ProfileID:      profileID,
		IdentityType:   model.IdentityTypePasskey,
		Identifier:     base64.RawURLEncoding.EncodeToString(credential.ID),
		CredentialData: credentialToData(credential),
	}
	if err := s.identityRepo.Create(ctx, identity); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrIdentityAlreadyExists
		}
		return fmt.Errorf("store passkey: %w", err)
	}
	return nil
}

func (s *webAuthnService) BeginLogin(ctx context.Context) (*protocol.CredentialAssertion, string, error) {
	assertion, session, err := s.wa.BeginDiscoverableLogin()
	if err != nil {
		return nil, "", fmt.Errorf("begin discoverable login: %w", err)
	}

	sessionID, err := s.saveSession(ctx, repository.KeyPasskeyLogin, session)
	if err != nil {
		return nil, "", err
	}
	return assertion, sessionID, nil
}

func (s *webAuthnService) FinishLogin(ctx context.Context, sessionID string, r *http.Request) (*model.Profile, *TokenSet, error) {
	session, err := s.takeSession(ctx, repository.KeyPasskeyLogin, sessionID)
	if err != nil {
		return nil, nil, err
	}

	// The user handle is the profile UUID set at registration.
	handler := func(_, userHandle []byte) (webauthn.User, error) {
		profileID, err := uuid.FromBytes(userHandle)
		if err != nil {
			return nil, fmt.Errorf("invalid user handle")
		}
		return s.loadUser(ctx, profileID)
	}

	waUser, credential, err := s.wa.FinishPasskeyLogin(handler, *session, r)
	if err != nil {
		return nil, nil, fmt.Errorf("finish passkey login: %w", err)
	}

	// Persist the new sign count; failure only weakens clone detection.
	credIdentifier := base64.RawURLEncoding.EncodeToString(credential.ID)
	if identity, err := s.identityRepo.GetByTypeAndIdentifier(ctx, model.IdentityTypePasskey, credIdentifier); err == nil {
		identity.CredentialData = credentialToData(credential)
		if err := s.identityRepo.Update(ctx, identity); err != nil {
			s.logger.Warn("failed to update passkey sign count", zap.Error(err))
		}
	}

	user := waUser.(*webauthnUser)
	tokens, err := s.authService.IssueTokenSet(ctx, user.profile.ID)
	if err != nil {
		return nil, nil, err
	}
	return user.profile, tokens, nil
}

func (s *webAuthnService) loadUser(ctx context.Context, profileID uuid.UUID) (*webauthnUser, error) {
	profile, err := s.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	identities, err := s.identityRepo.ListByProfileID(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("list identities: %w", err)
	}
	return newWebAuthnUser(profile, identities), nil
}

func (s *webAuthnService) saveSession(ctx context.Context, prefix string, session *webauthn.SessionData) (string, error) {
	sessionID := uuid.NewString()
	data, err := json.Marshal(session)
	if err != nil {
		return "", fmt.Errorf("marshal session: %w", err)
	}
	if err := s.stateStore.Set(ctx, prefix+sessionID, data, webauthnSessionTTL); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return sessionID, nil
}

// takeSession consumes the ceremony state so it cannot be replayed.
func (s *webAuthnService) takeSession(ctx context.Context, prefix, sessionID string) (*webauthn.SessionData, error) {
	data, err := s.stateStore.Take(ctx, prefix+sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if data == nil {
		return nil, ErrPasskeySessionExpired
	}
	var session webauthn.SessionData
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &session, nil
}
