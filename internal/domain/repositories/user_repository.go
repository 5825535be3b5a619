package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"shortlink.backend/internal/domain/entities"
)

// UserRepository defines account data operations
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	Update(ctx context.Context, user *entities.User) error
	MarkEmailVerified(ctx context.Context, id uuid.UUID, at time.Time) error
}
