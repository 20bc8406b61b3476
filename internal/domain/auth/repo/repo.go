package repo

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Miraines/MoonyAndStarry/course-service/internal/domain/auth/model"
)

type UserRepo interface {
	// CreateUser returns errors.ErrAlreadyExists when the email is taken.
	CreateUser(ctx context.Context, u model.User) (uuid.UUID, error)

	GetUserByEmail(ctx context.Context, email string) (model.User, error)

	GetUserByID(ctx context.Context, id uuid.UUID) (model.User, error)

	Ping(ctx context.Context) error
}

// TokenRepo is the refresh-token blacklist. Entries expire on their own.
type TokenRepo interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error

	IsRevoked(ctx context.Context, token string) (bool, error)

	Ping(ctx context.Context) error
}
