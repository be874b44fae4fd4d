package installations

import "context"

// Repo persists installation records. Upsert is a single atomic unit of
// work: concurrent installs for the same guild id must serialize so
// exactly one row remains, matching exactly one of the payloads.
type Repo interface {
	Upsert(ctx context.Context, installation *Installation) error
	// Get returns (nil, nil) when no installation exists for the guild.
	Get(ctx context.Context, guildID string) (*Installation, error)
}
