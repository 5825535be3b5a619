package repositories

import (
	"context"

	"github.com/google/uuid"
	"shortlink.backend/internal/domain/entities"
	"shortlink.backend/pkg/utils"
)

// ShortURLRepository defines short URL mapping operations
type ShortURLRepository interface {
	Create(ctx context.Context, url *entities.ShortURL) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.ShortURL, error)
	GetByShortCode(ctx context.Context, code string) (*entities.ShortURL, error)
	ListByUser(ctx context.Context, userID uuid.UUID, pagination utils.PaginationParams) ([]*entities.ShortURL, int64, error)
	Update(ctx context.Context, url *entities.ShortURL) error
	Delete(ctx context.Context, id uuid.UUID) error
}
