package refresh

import (
	"context"
	"time"
)

// StoredRefreshToken is the server-side record of an issued refresh
// token. A refresh token mints a new access token only while a live,
// unexpired record exists; deleting the record revokes the token even
// though its signature remains valid.
type StoredRefreshToken struct {
	Token     string    // The signed token value, as sent to the client
	UserID    string    // Subject the token was issued for
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Repo manages server-side refresh-token records. A subject may hold
// several live records at once (one per device).
type Repo interface {
	Save(ctx context.Context, refreshToken *StoredRefreshToken) error
	// Get returns (nil, nil) when no record exists for the token.
	Get(ctx context.Context, token string) (*StoredRefreshToken, error)
	// Delete removes the record. Deleting a missing record is not an error.
	Delete(ctx context.Context, token string) error
}
