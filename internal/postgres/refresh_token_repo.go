package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/guilddash/guilddash/internal/autherrors"
	"github.com/guilddash/guilddash/token/refresh"
)

var _ refresh.Repo = (*RefreshTokenRepo)(nil)

type RefreshTokenRepo struct {
	pool *pgxpool.Pool
}

func NewRefreshTokenRepo(pool *pgxpool.Pool) *RefreshTokenRepo {
	return &RefreshTokenRepo{pool: pool}
}

func (r *RefreshTokenRepo) Save(ctx context.Context, rt *refresh.StoredRefreshToken) error {
	const query = `
		INSERT INTO refresh_tokens (token, user_id, issued_at, expires_at)
		VALUES ($1, $2, $3, $4)`

	if _, err := r.pool.Exec(ctx, query, rt.Token, rt.UserID, rt.IssuedAt, rt.ExpiresAt); err != nil {
		return &autherrors.StoreError{Op: "refresh_tokens.save", Err: err}
	}
	return nil
}

func (r *RefreshTokenRepo) Get(ctx context.Context, token string) (*refresh.StoredRefreshToken, error) {
	const query = `
		SELECT token, user_id, issued_at, expires_at
		FROM refresh_tokens WHERE token = $1`

	rt := &refresh.StoredRefreshToken{}
	err := r.pool.QueryRow(ctx, query, token).Scan(&rt.Token, &rt.UserID, &rt.IssuedAt, &rt.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &autherrors.StoreError{Op: "refresh_tokens.get", Err: err}
	}
	return rt, nil
}

// Delete is idempotent: deleting a token with no record succeeds.
func (r *RefreshTokenRepo) Delete(ctx context.Context, token string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE token = $1`, token); err != nil {
		return &autherrors.StoreError{Op: "refresh_tokens.delete", Err: err}
	}
	return nil
}
