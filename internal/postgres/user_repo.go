package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/guilddash/guilddash/internal/autherrors"
	"github.com/guilddash/guilddash/users"
)

var _ users.Repo = (*UserRepo)(nil)

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) Upsert(ctx context.Context, user *users.User) (*users.User, error) {
	const query = `
		INSERT INTO users (id, email, discord_id, username, avatar_url)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (discord_id) DO UPDATE SET
			email = EXCLUDED.email,
			username = EXCLUDED.username,
			avatar_url = EXCLUDED.avatar_url,
			updated_at = NOW()
		RETURNING id, email, discord_id, username, avatar_url, created_at, updated_at`

	stored := &users.User{}
	err := r.pool.QueryRow(ctx, query,
		user.ID, user.Email, user.DiscordID, user.Username, user.AvatarURL,
	).Scan(&stored.ID, &stored.Email, &stored.DiscordID, &stored.Username,
		&stored.AvatarURL, &stored.CreatedAt, &stored.UpdatedAt)
	if err != nil {
		return nil, &autherrors.StoreError{Op: "users.upsert", Err: err}
	}
	return stored, nil
}

func (r *UserRepo) Get(ctx context.Context, id string) (*users.User, error) {
	const query = `
		SELECT id, email, discord_id, username, avatar_url, created_at, updated_at
		FROM users WHERE id = $1`

	user := &users.User{}
	err := r.pool.QueryRow(ctx, query, id).Scan(&user.ID, &user.Email,
		&user.DiscordID, &user.Username, &user.AvatarURL, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &autherrors.StoreError{Op: "users.get", Err: err}
	}
	return user, nil
}
