package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RevocationRepository is the server-side deny-list of token identifiers
// invalidated before their natural expiry. Rows past their expiry are inert
// and swept lazily on insert.
type RevocationRepository struct {
	pool *pgxpool.Pool
}

func NewRevocationRepository(pool *pgxpool.Pool) *RevocationRepository {
	return &RevocationRepository{pool: pool}
}

func (r *RevocationRepository) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO revoked_tokens (jti, expires_at, revoked_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (jti) DO NOTHING`,
		jti, expiresAt.UTC(), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}

	// Opportunistic sweep keeps the table bounded without a background job.
	_, _ = r.pool.Exec(ctx, `DELETE FROM revoked_tokens WHERE expires_at <= now()`)

	return nil
}

func (r *RevocationRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var revoked bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM revoked_tokens WHERE jti = $1 AND expires_at > now())`,
		jti).Scan(&revoked)
	if err != nil {
		return false, fmt.Errorf("check token revocation: %w", err)
	}
	return revoked, nil
}
