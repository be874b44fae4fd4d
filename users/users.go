// Package users holds the Session Identity: the application's view of
// an authenticated principal. Identities are immutable once issued into
// a token; the gate re-reads the store when it needs fresh fields.
package users

import "time"

type User struct {
	ID        string    // Opaque internal id (UUID)
	Email     string    // From the provider's identity endpoint
	DiscordID string    // External provider id
	Username  string    // Display name, optional
	AvatarURL string    // Avatar reference, optional
	CreatedAt time.Time
	UpdatedAt time.Time
}
