package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wedding/site/internal/model"
	"wedding/site/internal/repository"
)

func TestAuthService_SignUpAndSignIn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	profile, tokens, err := f.auth.SignUp(ctx, SignUpInput{Email: "Ana@Example.com", Password: "long-enough", FullName: " Ana "})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", profile.Email)
	assert.Equal(t, "Ana", profile.FullName)
	assert.Equal(t, model.RoleGuest, profile.Role)
	assert.NotEmpty(t, tokens.AccessToken)

	_, _, err = f.auth.SignUp(ctx, SignUpInput{Email: "ana@example.com", Password: "long-enough"})
	assert.ErrorIs(t, err, ErrIdentityAlreadyExists)

	_, _, err = f.auth.SignIn(ctx, "ana@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = f.auth.SignIn(ctx, "nobody@example.com", "long-enough")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	signedIn, _, err := f.auth.SignIn(ctx, "ANA@example.com", "long-enough")
	require.NoError(t, err)
	assert.Equal(t, profile.ID, signedIn.ID)
}

func TestAuthService_SignUpValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, _, err := f.auth.SignUp(ctx, SignUpInput{Email: "not-an-email", Password: "long-enough"})
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, _, err = f.auth.SignUp(ctx, SignUpInput{Email: "a@b.co", Password: "short"})
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestAuthService_AuthenticateReadsCurrentRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	profile, tokens, err := f.auth.SignUp(ctx, SignUpInput{Email: "lee@example.com", Password: "long-enough"})
	require.NoError(t, err)

	got, err := f.auth.Authenticate(ctx, tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, model.RoleGuest, got.Role)

	require.NoError(t, f.profiles.UpdateRole(ctx, profile.ID, model.RoleAdmin))

	got, err = f.auth.Authenticate(ctx, tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, got.Role, "same token, fresh role")

	_, err = f.auth.Authenticate(ctx, tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrAccessTokenInvalid)
}

func TestAuthService_RefreshRotatesAndSignOutRevokes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, first, err := f.auth.SignUp(ctx, SignUpInput{Email: "kim@example.com", Password: "long-enough"})
	require.NoError(t, err)

	_, second, err := f.auth.Refresh(ctx, first.RefreshToken)
	require.NoError(t, err)

	_, _, err = f.auth.Refresh(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, ErrRefreshTokenInvalid, "a refresh token is single use")

	require.NoError(t, f.auth.SignOut(ctx, second.RefreshToken))
	_, _, err = f.auth.Refresh(ctx, second.RefreshToken)
	assert.ErrorIs(t, err, ErrRefreshTokenInvalid)

	assert.ErrorIs(t, f.auth.SignOut(ctx, "garbage"), ErrRefreshTokenInvalid)
}

func TestAuthService_IssueTokenSetRecordsJTI(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.profile(t, "jti@example.com")

	tokens, err := f.auth.IssueTokenSet(ctx, p.ID)
	require.NoError(t, err)

	claims, err := f.jwt.Validate(tokens.RefreshToken)
	require.NoError(t, err)
	ok, err := f.state.Exists(ctx, repository.KeyRefreshToken+claims.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.EqualValues(t, 60, tokens.ExpiresIn)
}
