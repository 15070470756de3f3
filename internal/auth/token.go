// Package auth derives the caller's identity from a bearer token and
// exposes the guard operations consumed by every protected resolver.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/diewo77/go-users/internal/apperr"
	"github.com/diewo77/go-users/internal/models"
)

// ProfileClaim is the profile projection embedded in token claims.
type ProfileClaim struct {
	ID          uint   `json:"id"`
	Name        string `json:"nome"`
	Description string `json:"descricao,omitempty"`
}

// Claims is the identity payload carried by every issued token.
type Claims struct {
	UserID   uint           `json:"id"`
	Name     string         `json:"nome"`
	Email    string         `json:"email"`
	Active   bool           `json:"ativo"`
	Profiles []ProfileClaim `json:"perfis"`
	jwt.RegisteredClaims
}

// IsAdmin reports whether the identity holds the admin-named profile.
func (c *Claims) IsAdmin() bool {
	for _, p := range c.Profiles {
		if p.Name == models.AdminProfileName {
			return true
		}
	}
	return false
}

// TokenService signs and verifies HS256 bearer tokens with a fixed expiry.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token for the given user and profile set, returning the
// token string with its issued-at and expiry timestamps.
func (s *TokenService) Issue(user *models.User, profiles []models.Profile) (token string, issuedAt, expiresAt time.Time, err error) {
	issuedAt = time.Now()
	expiresAt = issuedAt.Add(s.ttl)

	claims := Claims{
		UserID:   user.ID,
		Name:     user.Name,
		Email:    user.Email,
		Active:   user.Active,
		Profiles: make([]ProfileClaim, len(profiles)),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	for i, p := range profiles {
		claims.Profiles[i] = ProfileClaim{ID: p.ID, Name: p.Name, Description: p.Description}
	}

	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, time.Time{}, apperr.Upstream("failed to sign token", err)
	}
	return token, issuedAt, expiresAt, nil
}

// Verify checks the token's signature and expiry and decodes its claims.
// Malformed, expired or tampered tokens fail with an Unauthenticated error.
func (s *TokenService) Verify(raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, &apperr.Error{Code: apperr.CodeUnauthenticated, Message: "invalid or expired token", Err: err}
	}
	return claims, nil
}
