package repository

import (
	"context"
	"time"

	"bookcatalog-backend/internal/domains/auth/model"
)

type UserRepositoryInterface interface {
	Create(ctx context.Context, user *model.User) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, user *model.User) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
}

type TokenRepositoryInterface interface {
	Save(ctx context.Context, token *model.RefreshToken) error
	// Blacklist marks a refresh token revoked. Tokens the store has
	// never seen are inserted already revoked, so logout works even
	// after the issuing row was cleaned up.
	Blacklist(ctx context.Context, token *model.RefreshToken) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
