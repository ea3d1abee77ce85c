package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"bookcatalog-backend/internal/domains/auth/model"
)

type tokenRepository struct {
	pool *pgxpool.Pool
}

func NewTokenRepository(pool *pgxpool.Pool) TokenRepositoryInterface {
	return &tokenRepository{pool: pool}
}

func (r *tokenRepository) Save(ctx context.Context, token *model.RefreshToken) error {
	query := `
		INSERT INTO refresh_tokens (jti, user_id, token, issued_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (jti) DO NOTHING`
	_, err := r.pool.Exec(ctx, query,
		token.JTI, token.UserID, token.Token, token.IssuedAt, token.ExpiresAt)
	if err != nil {
		return fmt.Errorf("save refresh token: %w", err)
	}
	return nil
}

func (r *tokenRepository) Blacklist(ctx context.Context, token *model.RefreshToken) error {
	query := `
		INSERT INTO refresh_tokens (jti, user_id, token, issued_at, expires_at, blacklisted_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (jti) DO UPDATE
		SET blacklisted_at = COALESCE(refresh_tokens.blacklisted_at, NOW())`
	_, err := r.pool.Exec(ctx, query,
		token.JTI, token.UserID, token.Token, token.IssuedAt, token.ExpiresAt)
	if err != nil {
		return fmt.Errorf("blacklist refresh token: %w", err)
	}
	return nil
}

func (r *tokenRepository) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	var blacklisted bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM refresh_tokens WHERE jti = $1 AND blacklisted_at IS NOT NULL)`,
		jti).Scan(&blacklisted)
	if err != nil {
		return false, fmt.Errorf("check blacklist: %w", err)
	}
	return blacklisted, nil
}

func (r *tokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM refresh_tokens WHERE expires_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("delete expired tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}
