package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"shortlink.backend/internal/domain/entities"
	domainerrors "shortlink.backend/internal/domain/errors"
	"shortlink.backend/internal/infrastructure/models"
	"shortlink.backend/pkg/utils"
)

// ShortURLRepository implements short URL mapping operations
type ShortURLRepository struct {
	db *gorm.DB
}

func NewShortURLRepository(db *gorm.DB) *ShortURLRepository {
	return &ShortURLRepository{db: db}
}

// Create inserts a mapping. A taken short code yields ErrDuplicateKey.
func (r *ShortURLRepository) Create(ctx context.Context, url *entities.ShortURL) error {
	m := &models.ShortURL{
		ID:        url.ID,
		ShortCode: url.ShortCode,
		LongURL:   url.LongURL,
		UserID:    url.UserID,
		CreatedAt: url.CreatedAt,
		UpdatedAt: url.UpdatedAt,
	}
	return translateError("create short url", GetDB(ctx, r.db).Create(m).Error)
}

func (r *ShortURLRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.ShortURL, error) {
	var m models.ShortURL
	if err := GetDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, translateError("get short url", err)
	}
	return toShortURLEntity(&m), nil
}

func (r *ShortURLRepository) GetByShortCode(ctx context.Context, code string) (*entities.ShortURL, error) {
	var m models.ShortURL
	if err := GetDB(ctx, r.db).Where("short_code = ?", code).First(&m).Error; err != nil {
		return nil, translateError("get short url by code", err)
	}
	return toShortURLEntity(&m), nil
}

// ListByUser returns the owner's mappings in storage order, paged when pagination is enabled
func (r *ShortURLRepository) ListByUser(ctx context.Context, userID uuid.UUID, pagination utils.PaginationParams) ([]*entities.ShortURL, int64, error) {
	query := GetDB(ctx, r.db).Model(&models.ShortURL{}).Where("user_id = ?", userID).Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError("count short urls", err)
	}

	if pagination.Enabled() {
		query = query.Offset(pagination.CalculateOffset()).Limit(pagination.Limit)
	}

	var ms []models.ShortURL
	if err := query.Find(&ms).Error; err != nil {
		return nil, 0, translateError("list short urls", err)
	}

	items := make([]*entities.ShortURL, 0, len(ms))
	for i := range ms {
		items = append(items, toShortURLEntity(&ms[i]))
	}
	return items, total, nil
}

func (r *ShortURLRepository) Update(ctx context.Context, url *entities.ShortURL) error {
	result := GetDB(ctx, r.db).Model(&models.ShortURL{}).Where("id = ?", url.ID).Updates(map[string]interface{}{
		"short_code": url.ShortCode,
		"long_url":   url.LongURL,
		"updated_at": url.UpdatedAt,
	})
	if result.Error != nil {
		return translateError("update short url", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *ShortURLRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := GetDB(ctx, r.db).Where("id = ?", id).Delete(&models.ShortURL{})
	if result.Error != nil {
		return translateError("delete short url", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func toShortURLEntity(m *models.ShortURL) *entities.ShortURL {
	return &entities.ShortURL{
		ID:        m.ID,
		ShortCode: m.ShortCode,
		LongURL:   m.LongURL,
		UserID:    m.UserID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
