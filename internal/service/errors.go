package service

import (
	"errors"

	"wedding/site/pkg/crypto"
)

var (
	ErrIdentityAlreadyExists = errors.New("an account with this email already exists")
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrInvalidEmail          = errors.New("please enter a valid email address")
	ErrPasswordTooShort      = errors.New("password must be at least 8 characters")
	ErrPasswordTooLong       = crypto.ErrPasswordTooLong
	ErrRefreshTokenInvalid   = errors.New("refresh token invalid or revoked")
	ErrAccessTokenInvalid    = errors.New("access token invalid or expired")
	ErrProfileNotFound       = errors.New("profile not found")
	ErrIdentityNotFound      = errors.New("identity not found")
	ErrPasskeySessionExpired = errors.New("passkey session not found or expired")
	ErrInvalidRole           = errors.New("unknown role")

	ErrRSVPAlreadySubmitted = errors.New("you have already submitted your RSVP")
	ErrRSVPNotFound         = errors.New("RSVP not found")

	ErrGiftNameRequired = errors.New("gift name is required")
	ErrGiftNotFound     = errors.New("gift not found")
	ErrGiftUnavailable  = errors.New("that gift has already been claimed")
	ErrGiftAlreadyHeld  = errors.New("you have already claimed a gift")

	ErrCrewFieldsRequired = errors.New("name and role are required")
	ErrCrewMemberNotFound = errors.New("crew member not found")

	ErrUnsupportedImage = errors.New("only image uploads are accepted")
	ErrInvalidQRSize    = errors.New("size must be between 64 and 1024")
)
