package token

import (
	"github.com/golang-jwt/jwt/v5"
)

// Token use values, embedded in every issued token so an access token
// can never be replayed where a refresh token is expected (and vice
// versa), even before the signature check fails.
const (
	UseAccess  = "access"
	UseRefresh = "refresh"
)

// claimsVersion is bumped when the claim shape changes. Tokens carrying
// any other version are rejected as invalid.
const claimsVersion = 1

// Claims is the explicit claim set for both token classes. Decoded
// payloads that do not match this shape fail verification; arbitrary
// extra fields are never trusted.
type Claims struct {
	jwt.RegisteredClaims
	Email     string `json:"email,omitempty"`
	DiscordID string `json:"discord_id,omitempty"`
	TokenUse  string `json:"use"`
	Version   int    `json:"v"`
}
