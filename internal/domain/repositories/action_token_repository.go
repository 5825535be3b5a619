package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"shortlink.backend/internal/domain/entities"
)

// ActionTokenRepository defines action token data operations
type ActionTokenRepository interface {
	Create(ctx context.Context, token *entities.ActionToken) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.ActionToken, error)
	MarkExecuted(ctx context.Context, id uuid.UUID, at time.Time) error
	// DeleteExpired removes unexecuted tokens that expired before cutoff
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}
