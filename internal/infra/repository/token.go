package repository

import (
	"context"
	"time"

	"lessonbook/internal/infra"
	"lessonbook/internal/infra/db"
	"lessonbook/internal/infra/pgconv"
)

type TokenRepository struct{}

func NewTokenRepository() *TokenRepository {
	return &TokenRepository{}
}

const deleteExpiredTokensSQL = `
DELETE FROM access_tokens
WHERE consumed = FALSE AND expires_at <= $1`

// DeleteExpired removes unused time-limited tokens past their expiry.
// Consumed tokens stay for audit.
func (r *TokenRepository) DeleteExpired(ctx context.Context, dbtx db.DBTX, now time.Time) (int64, error) {
	tag, err := dbtx.Exec(ctx, deleteExpiredTokensSQL, pgconv.TimeToPgtype(now))
	if err != nil {
		return 0, infra.WrapRepoErr("failed to delete expired tokens", err)
	}
	return tag.RowsAffected(), nil
}
