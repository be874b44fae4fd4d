// Package token issues and verifies the session credential pair: a
// short-lived access token (stateless, signature + expiry only) and a
// long-lived refresh token whose server-side record lives in
// token/refresh. The package is pure; it performs no I/O.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/guilddash/guilddash/internal/autherrors"
	"github.com/guilddash/guilddash/users"
)

const (
	DefaultAccessTokenExpiry  = 15 * time.Minute
	DefaultRefreshTokenExpiry = 7 * 24 * time.Hour
)

// Manager creates and verifies the two token classes. Each class has
// its own HMAC signer so the secrets can never be interchanged.
type Manager struct {
	accessSigner  Signer
	refreshSigner Signer
	accessExpiry  time.Duration
	refreshExpiry time.Duration
	nowFunc       func() time.Time
}

type ManagerOption func(*Manager)

func WithTokenExpiry(accessTokenExpiry, refreshTokenExpiry time.Duration) ManagerOption {
	return func(m *Manager) {
		if accessTokenExpiry > 0 {
			m.accessExpiry = accessTokenExpiry
		}
		if refreshTokenExpiry > 0 {
			m.refreshExpiry = refreshTokenExpiry
		}
	}
}

// WithNowFunc sets the now time function (primarily for testing)
func WithNowFunc(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowFunc = now
	}
}

func New(accessSecret, refreshSecret string, options ...ManagerOption) (*Manager, error) {
	if accessSecret == "" || refreshSecret == "" {
		return nil, errors.New("[token.New] both token secrets are required")
	}
	if accessSecret == refreshSecret {
		return nil, errors.New("[token.New] access and refresh secrets must differ")
	}

	m := &Manager{
		accessSigner:  NewHMACSigner(accessSecret),
		refreshSigner: NewHMACSigner(refreshSecret),
		accessExpiry:  DefaultAccessTokenExpiry,
		refreshExpiry: DefaultRefreshTokenExpiry,
		nowFunc:       time.Now,
	}

	for _, opt := range options {
		opt(m)
	}

	return m, nil
}

func (m *Manager) AccessTokenExpiry() time.Duration  { return m.accessExpiry }
func (m *Manager) RefreshTokenExpiry() time.Duration { return m.refreshExpiry }

// Issue creates the access/refresh pair for an authenticated user. The
// refresh token carries the subject only; identity claims travel in the
// access token.
func (m *Manager) Issue(user *users.User) (accessToken, refreshToken string, err error) {
	accessToken, err = m.IssueAccess(user)
	if err != nil {
		return "", "", err
	}

	now := m.nowFunc()
	refreshToken, err = m.refreshSigner.Sign(&Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.refreshExpiry)),
		},
		TokenUse: UseRefresh,
		Version:  claimsVersion,
	})
	if err != nil {
		return "", "", errors.Wrap(err, "[Issue] refresh token")
	}

	return accessToken, refreshToken, nil
}

// IssueAccess mints a fresh access token alone. Used by the session
// gate when a valid refresh token is presented without an access token.
func (m *Manager) IssueAccess(user *users.User) (string, error) {
	now := m.nowFunc()
	accessToken, err := m.accessSigner.Sign(&Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.accessExpiry)),
		},
		Email:     user.Email,
		DiscordID: user.DiscordID,
		TokenUse:  UseAccess,
		Version:   claimsVersion,
	})
	if err != nil {
		return "", errors.Wrap(err, "[IssueAccess] access token")
	}
	return accessToken, nil
}

// VerifyAccess validates an access token. Every failure mode returns
// autherrors.ErrTokenInvalid so callers cannot distinguish why.
func (m *Manager) VerifyAccess(rawToken string) (*Claims, error) {
	return m.verify(rawToken, m.accessSigner, UseAccess)
}

// VerifyRefresh validates a refresh token's signature and expiry. The
// store-side record check is the caller's responsibility.
func (m *Manager) VerifyRefresh(rawToken string) (*Claims, error) {
	return m.verify(rawToken, m.refreshSigner, UseRefresh)
}

func (m *Manager) verify(rawToken string, signer Signer, use string) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.nowFunc),
		jwt.WithExpirationRequired(),
	)

	parsed, err := parser.ParseWithClaims(rawToken, claims, signer.GetVerificationKey)
	if err != nil || !parsed.Valid {
		return nil, autherrors.ErrTokenInvalid
	}
	if claims.TokenUse != use || claims.Version != claimsVersion || claims.Subject == "" {
		return nil, autherrors.ErrTokenInvalid
	}

	return claims, nil
}
