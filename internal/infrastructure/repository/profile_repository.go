package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	domain "github.com/mohammadpnp/account-import/internal/domain/account"
)

const upsertProfileSQL = `
INSERT INTO profiles (user_id, email, created_at)
VALUES ($1, $2, NOW())
ON CONFLICT (user_id) DO UPDATE
SET email = EXCLUDED.email,
    created_at = NOW()
`

// ProfileRepository writes profiles with a server assigned timestamp. A later
// write for the same user replaces the earlier one.
type ProfileRepository struct {
	pool *pgxpool.Pool
}

func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

func (r *ProfileRepository) PutProfile(ctx context.Context, profile domain.Profile) error {
	if _, err := r.pool.Exec(ctx, upsertProfileSQL, profile.UserID, profile.Email); err != nil {
		return fmt.Errorf("upsert profile %s: %w", profile.UserID, err)
	}
	return nil
}
