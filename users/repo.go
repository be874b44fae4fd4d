package users

import "context"

// Repo is the durable user store. Upsert is keyed by the external
// provider id: a returning user keeps their internal id and has their
// identity fields refreshed.
type Repo interface {
	Upsert(ctx context.Context, user *User) (*User, error)
	// Get returns (nil, nil) when no user exists with the given id.
	Get(ctx context.Context, id string) (*User, error)
}
