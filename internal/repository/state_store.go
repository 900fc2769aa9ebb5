package repository

import (
	"context"
	"time"
)

// StateStore holds short-lived key-value state: refresh token ids, passkey
// ceremonies and RSVP drafts. Get returns nil, nil for a missing key.
type StateStore interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	// Take returns the value and removes it, so a key can be consumed once.
	Take(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// Key prefixes used with StateStore.
const (
	KeyRefreshToken = "refresh_jti:"
	KeyRSVPDraft    = "rsvp_draft:"
	KeyPasskeyReg   = "webauthn_reg:"
	KeyPasskeyLogin = "webauthn_login:"
)
