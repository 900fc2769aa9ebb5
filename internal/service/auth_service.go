package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"wedding/site/internal/model"
	"wedding/site/internal/repository"
	"wedding/site/pkg/crypto"
	jwtpkg "wedding/site/pkg/jwt"
)

// TokenSet represents a set of tokens returned after authentication.
type TokenSet struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type SignUpInput struct {
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
	FullName string `json:"full_name" form:"full_name"`
}

type AuthService interface {
	SignUp(ctx context.Context, in SignUpInput) (*model.Profile, *TokenSet, error)
	SignIn(ctx context.Context, email, password string) (*model.Profile, *TokenSet, error)
	Refresh(ctx context.Context, refreshToken string) (*model.Profile, *TokenSet, error)
	SignOut(ctx context.Context, refreshToken string) error
	// Authenticate resolves an access token to the current profile row.
	Authenticate(ctx context.Context, accessToken string) (*model.Profile, error)
	IssueTokenSet(ctx context.Context, profileID uuid.UUID) (*TokenSet, error)
}

type authService struct {
	profileRepo  repository.ProfileRepository
	identityRepo repository.IdentityRepository
	stateStore   repository.StateStore
	jwtManager   *jwtpkg.Manager
}

func NewAuthService(
	profileRepo repository.ProfileRepository,
	identityRepo repository.IdentityRepository,
	stateStore repository.StateStore,
	jwtManager *jwtpkg.Manager,
) AuthService {
	return &authService{
		profileRepo:  profileRepo,
		identityRepo: identityRepo,
		stateStore:   stateStore,
		jwtManager:   jwtManager,
	}
}

func (s *authService) SignUp(ctx context.Context, in SignUpInput) (*model.Profile, *TokenSet, error) {
	// 1. Validate input
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, nil, err
	}
	if len(in.Password) < crypto.MinPasswordLength {
		return nil, nil, ErrPasswordTooShort
	}

	// 2. Email must be free
	_, err = s.identityRepo.GetByTypeAndIdentifier(ctx, model.IdentityTypePassword, email)
	if err == nil {
		return nil, nil, ErrIdentityAlreadyExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, fmt.Errorf("failed to check identity: %w", err)
	}

	// 3. Create profile and password identity together
	hash, err := crypto.HashPassword(in.Password)
	if errors.Is(err, crypto.ErrPasswordTooLong) {
		return nil, nil, ErrPasswordTooLong
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}
	profile := &model.Profile{
		Email:    email,
		FullName: strings.TrimSpace(in.FullName),
		Role:     model.RoleGuest,
	}
	identity := &model.Identity{
		IdentityType:   model.IdentityTypePassword,
		Identifier:     email,
		CredentialData: model.CredentialData{"password_hash": hash},
	}
	if err := s.profileRepo.CreateWithIdentity(ctx, profile, identity); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, nil, ErrIdentityAlreadyExists
		}
		return nil, nil, fmt.Errorf("failed to create profile: %w", err)
	}

	// 4. Sign in straight away
	tokens, err := s.IssueTokenSet(ctx, profile.ID)
	if err != nil {
		return nil, nil, err
	}
	return profile, tokens, nil
}

func (s *authService) SignIn(ctx context.Context, email, password string) (*model.Profile, *TokenSet, error) {
	identity, err := s.identityRepo.GetByTypeAndIdentifier(ctx, model.IdentityTypePassword, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("failed to find identity: %w", err)
	}

	hash, _ := identity.CredentialData["password_hash"].(string)
	if hash == "" || !crypto.CheckPassword(password, hash) {
		return nil, nil, ErrInvalidCredentials
	}

	profile, err := s.loadProfile(ctx, identity.ProfileID)
	if err != nil {
		return nil, nil, err
	}
	tokens, err := s.IssueTokenSet(ctx, profile.ID)
	if err != nil {
		return nil, nil, err
	}
	return profile, tokens, nil
}

// Refresh rotates the refresh token: the presented one is consumed and a new pair issued.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*model.Profile, *TokenSet, error) {
	claims, err := s.jwtManager.Validate(refreshToken)
	if err != nil || claims.TokenType != jwtpkg.TokenTypeRefresh {
		return nil, nil, ErrRefreshTokenInvalid
	}
	profileID, err := claims.ProfileID()
	if err != nil {
		return nil, nil, ErrRefreshTokenInvalid
	}

	stored, err := s.stateStore.Take(ctx, repository.KeyRefreshToken+claims.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read refresh token: %w", err)
	}
	if stored == nil || string(stored) != profileID.String() {
		return nil, nil, ErrRefreshTokenInvalid
	}

	profile, err := s.loadProfile(ctx, profileID)
	if err != nil {
		return nil, nil, err
	}
	tokens, err := s.IssueTokenSet(ctx, profile.ID)
	if err != nil {
		return nil, nil, err
	}
	return profile, tokens, nil
}

func (s *authService) SignOut(ctx context.Context, refreshToken string) error {
	claims, err := s.jwtManager.Validate(refreshToken)
	if err != nil || claims.TokenType != jwtpkg.TokenTypeRefresh {
		return ErrRefreshTokenInvalid
	}
	return s.stateStore.Delete(ctx, repository.KeyRefreshToken+claims.ID)
}

func (s *authService) Authenticate(ctx context.Context, accessToken string) (*model.Profile, error) {
	claims, err := s.jwtManager.Validate(accessToken)
	if err != nil || claims.TokenType != jwtpkg.TokenTypeAccess {
		return nil, ErrAccessTokenInvalid
	}
	profileID, err := claims.ProfileID()
	if err != nil {
		return nil, ErrAccessTokenInvalid
	}
	return s.loadProfile(ctx, profileID)
}

func (s *authService) IssueTokenSet(ctx context.Context, profileID uuid.UUID) (*TokenSet, error) {
	access, err := s.jwtManager.GenerateAccessToken(profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}
	refresh, claims, err := s.jwtManager.GenerateRefreshToken(profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}
	key := repository.KeyRefreshToken + claims.ID
	if err := s.stateStore.Set(ctx, key, []byte(profileID.String()), s.jwtManager.RefreshTokenTTL()); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}
	return &TokenSet{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.jwtManager.AccessTokenTTL().Seconds()),
	}, nil
}

func (s *authService) loadProfile(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	profile, err := s.profileRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}
	return profile, nil
}

func normalizeEmail(raw string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(raw))
	if err != nil || addr.Name != "" {
		return "", ErrInvalidEmail
	}
	return strings.ToLower(addr.Address), nil
}

var _ AuthService = (*authService)(nil)
