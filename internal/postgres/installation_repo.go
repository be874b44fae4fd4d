package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/guilddash/guilddash/installations"
	"github.com/guilddash/guilddash/internal/autherrors"
)

var _ installations.Repo = (*InstallationRepo)(nil)

type InstallationRepo struct {
	pool *pgxpool.Pool
}

func NewInstallationRepo(pool *pgxpool.Pool) *InstallationRepo {
	return &InstallationRepo{pool: pool}
}

// Upsert performs the read-modify-write inside one transaction.
// Concurrent installs for the same guild serialize on an advisory lock
// keyed by the guild id, so the second writer always sees (and
// overwrites) the first writer's row. The deferred rollback is a no-op
// after commit; either way the connection goes back to the pool.
func (r *InstallationRepo) Upsert(ctx context.Context, inst *installations.Installation) (err error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return &autherrors.StoreError{Op: "installations.begin", Err: err}
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err = tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, inst.GuildID); err != nil {
		return &autherrors.StoreError{Op: "installations.lock", Err: err}
	}

	var existing string
	err = tx.QueryRow(ctx, `SELECT guild_id FROM bot_installations WHERE guild_id = $1`, inst.GuildID).Scan(&existing)
	switch {
	case err == nil:
		_, err = tx.Exec(ctx, `
			UPDATE bot_installations
			SET bot_token = $2,
				guild_name = $3,
				guild_icon = $4,
				discord_user_id = $5,
				installed_at = $6
			WHERE guild_id = $1`,
			inst.GuildID, inst.BotToken, inst.GuildName, inst.GuildIcon, inst.DiscordUserID, inst.InstalledAt)
	case errors.Is(err, pgx.ErrNoRows):
		_, err = tx.Exec(ctx, `
			INSERT INTO bot_installations
			(guild_id, bot_token, guild_name, guild_icon, discord_user_id, installed_at)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			inst.GuildID, inst.BotToken, inst.GuildName, inst.GuildIcon, inst.DiscordUserID, inst.InstalledAt)
	default:
		return &autherrors.StoreError{Op: "installations.select", Err: err}
	}
	if err != nil {
		return &autherrors.StoreError{Op: "installations.write", Err: err}
	}

	if err = tx.Commit(ctx); err != nil {
		return &autherrors.StoreError{Op: "installations.commit", Err: err}
	}
	return nil
}

func (r *InstallationRepo) Get(ctx context.Context, guildID string) (*installations.Installation, error) {
	const query = `
		SELECT guild_id, bot_token, guild_name, guild_icon, discord_user_id, installed_at
		FROM bot_installations WHERE guild_id = $1`

	inst := &installations.Installation{}
	err := r.pool.QueryRow(ctx, query, guildID).Scan(&inst.GuildID, &inst.BotToken,
		&inst.GuildName, &inst.GuildIcon, &inst.DiscordUserID, &inst.InstalledAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &autherrors.StoreError{Op: "installations.get", Err: err}
	}
	return inst, nil
}
