package config

import (
	"strings"
	"time"
)

type AuthConfig interface {
	GetAccessTokenSecret() string
	GetRefreshTokenSecret() string
	GetAccessTokenExpiry() time.Duration
	GetRefreshTokenExpiry() time.Duration
	GetProtectedPrefixes() []string
}

type Auth struct{}

var _ AuthConfig = Auth{}

// GetAccessTokenSecret returns the HMAC secret for access tokens.
// Access and refresh secrets must never be the same value; a leaked
// access secret must not allow refresh-token forgery.
func (Auth) GetAccessTokenSecret() string {
	return GetEnv("JWT_SECRET", "")
}

func (Auth) GetRefreshTokenSecret() string {
	return GetEnv("JWT_REFRESH_SECRET", "")
}

func (Auth) GetAccessTokenExpiry() time.Duration {
	return durationEnv("ACCESS_TOKEN_EXPIRY", 15*time.Minute)
}

func (Auth) GetRefreshTokenExpiry() time.Duration {
	return durationEnv("REFRESH_TOKEN_EXPIRY", 7*24*time.Hour)
}

// GetProtectedPrefixes returns the path prefixes guarded by the session
// gate. Paths outside every prefix bypass the gate entirely.
func (Auth) GetProtectedPrefixes() []string {
	raw := GetEnv("PROTECTED_PREFIXES", "/dashboard")
	parts := strings.Split(raw, ",")
	prefixes := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			prefixes = append(prefixes, p)
		}
	}
	return prefixes
}

func durationEnv(envVar string, defaultValue time.Duration) time.Duration {
	raw := GetEnv(envVar, "")
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return defaultValue
	}
	return d
}
