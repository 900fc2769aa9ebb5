package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Claims extends jwt.RegisteredClaims with the token type. The role is
// deliberately absent: it is read from the profile on every request.
type Claims struct {
	jwt.RegisteredClaims
	TokenType TokenType `json:"token_type"`
}

// ProfileID parses the subject claim.
func (c *Claims) ProfileID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

type Manager struct {
	signingKey      []byte
	issuer          string
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
}

func NewManager(signingKey string, issuer string, accessTTL, refreshTTL time.Duration) *Manager {
	return &Manager{
		signingKey:      []byte(signingKey),
		issuer:          issuer,
		accessTokenTTL:  accessTTL,
		refreshTokenTTL: refreshTTL,
	}
}

func (m *Manager) AccessTokenTTL() time.Duration  { return m.accessTokenTTL }
func (m *Manager) RefreshTokenTTL() time.Duration { return m.refreshTokenTTL }

// GenerateAccessToken creates a signed JWT access token for a profile.
func (m *Manager) GenerateAccessToken(profileID uuid.UUID) (string, error) {
	signed, _, err := m.generate(profileID, TokenTypeAccess, m.accessTokenTTL)
	return signed, err
}

// GenerateRefreshToken creates a signed JWT refresh token.
// The returned claims carry the JTI the caller records for revocation.
func (m *Manager) GenerateRefreshToken(profileID uuid.UUID) (string, *Claims, error) {
	return m.generate(profileID, TokenTypeRefresh, m.refreshTokenTTL)
}

func (m *Manager) generate(profileID uuid.UUID, tokenType TokenType, ttl time.Duration) (string, *Claims, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   profileID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.New().String(),
		},
		TokenType: tokenType,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.signingKey)
	if err != nil {
		return "", nil, err
	}
	return signed, &claims, nil
}

// Validate parses and validates a token string, returning claims.
func (m *Manager) Validate(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.signingKey, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	if claims.Issuer != m.issuer {
		return nil, errors.New("invalid issuer")
	}

	return claims, nil
}
