package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"shortlink.backend/internal/domain/entities"
	domainerrors "shortlink.backend/internal/domain/errors"
	"shortlink.backend/internal/infrastructure/models"
)

// ActionTokenRepository implements action token data operations
type ActionTokenRepository struct {
	db *gorm.DB
}

func NewActionTokenRepository(db *gorm.DB) *ActionTokenRepository {
	return &ActionTokenRepository{db: db}
}

func (r *ActionTokenRepository) Create(ctx context.Context, token *entities.ActionToken) error {
	m := &models.ActionToken{
		ID:         token.ID,
		EntityID:   token.EntityID,
		ActionName: string(token.ActionName),
		CreatedAt:  token.CreatedAt,
		ExpiresAt:  token.ExpiresAt,
		ExecutedAt: token.ExecutedAt.Ptr(),
	}
	return translateError("create action token", GetDB(ctx, r.db).Create(m).Error)
}

func (r *ActionTokenRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.ActionToken, error) {
	var m models.ActionToken
	if err := GetDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, translateError("get action token", err)
	}
	return &entities.ActionToken{
		ID:         m.ID,
		EntityID:   m.EntityID,
		ActionName: entities.ActionName(m.ActionName),
		CreatedAt:  m.CreatedAt,
		ExpiresAt:  m.ExpiresAt,
		ExecutedAt: null.TimeFromPtr(m.ExecutedAt),
	}, nil
}

// MarkExecuted consumes the token. A token that was already executed yields ErrNotFound.
func (r *ActionTokenRepository) MarkExecuted(ctx context.Context, id uuid.UUID, at time.Time) error {
	result := GetDB(ctx, r.db).
		Model(&models.ActionToken{}).
		Where("id = ? AND executed_at IS NULL", id).
		Update("executed_at", at)
	if result.Error != nil {
		return translateError("mark action token executed", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *ActionTokenRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	result := GetDB(ctx, r.db).
		Where("executed_at IS NULL AND expires_at < ?", cutoff).
		Delete(&models.ActionToken{})
	if result.Error != nil {
		return 0, translateError("delete expired action tokens", result.Error)
	}
	return result.RowsAffected, nil
}
