package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"shortlink.backend/internal/domain/entities"
	domainerrors "shortlink.backend/internal/domain/errors"
	"shortlink.backend/internal/domain/repositories"
	"shortlink.backend/internal/infrastructure/cache"
	"shortlink.backend/pkg/crypto"
	"shortlink.backend/pkg/logger"
	"shortlink.backend/pkg/metrics"
	"shortlink.backend/pkg/utils"
)

// ShortURLUsecase handles short URL mapping business logic
type ShortURLUsecase struct {
	repo         repositories.ShortURLRepository
	cache        *cache.URLCache
	generateCode func() (string, error)
	now          func() time.Time
}

// NewShortURLUsecase creates a new short URL usecase. urlCache may be nil.
func NewShortURLUsecase(repo repositories.ShortURLRepository, urlCache *cache.URLCache) *ShortURLUsecase {
	return &ShortURLUsecase{
		repo:         repo,
		cache:        urlCache,
		generateCode: crypto.GenerateShortCode,
		now:          time.Now,
	}
}

// GenerateShortCode returns 8 random lowercase hex characters. Uniqueness is not guaranteed.
func (u *ShortURLUsecase) GenerateShortCode() (string, error) {
	return u.generateCode()
}

// Create stores a mapping owned by ownerID, generating a code when none is given.
// A code already in use yields ErrAlreadyExists.
func (u *ShortURLUsecase) Create(ctx context.Context, ownerID uuid.UUID, input *entities.CreateShortURLInput) (*entities.ShortURL, error) {
	code := input.ShortURL
	if code == "" {
		generated, err := u.generateCode()
		if err != nil {
			return nil, err
		}
		code = generated
	} else if !entities.IsValidShortCode(code) {
		return nil, domainerrors.ErrInvalidInput
	}

	_, err := u.repo.GetByShortCode(ctx, code)
	if err == nil {
		return nil, domainerrors.ErrAlreadyExists
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	now := u.now()
	mapping := &entities.ShortURL{
		ID:        utils.GenerateUUIDv7(),
		ShortCode: code,
		LongURL:   input.LongURL,
		UserID:    ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := u.repo.Create(ctx, mapping); err != nil {
		// the unique index decides races the pre-check cannot see
		if errors.Is(err, domainerrors.ErrDuplicateKey) {
			return nil, domainerrors.ErrAlreadyExists
		}
		return nil, err
	}

	metrics.URLEvent("created")
	return mapping, nil
}

// Resolve returns the long URL for code
func (u *ShortURLUsecase) Resolve(ctx context.Context, code string) (string, error) {
	if longURL, ok := u.cache.Get(code); ok {
		metrics.CacheLookup(true)
		return longURL, nil
	}
	metrics.CacheLookup(false)

	gen := u.cache.Generation()
	mapping, err := u.repo.GetByShortCode(ctx, code)
	if err != nil {
		return "", err
	}
	u.cache.Add(mapping.ShortCode, mapping.LongURL, gen)
	return mapping.LongURL, nil
}

// ListForOwner returns ownerID's mappings in storage order along with their total count
func (u *ShortURLUsecase) ListForOwner(ctx context.Context, ownerID uuid.UUID, pagination utils.PaginationParams) ([]*entities.ShortURL, int64, error) {
	return u.repo.ListByUser(ctx, ownerID, pagination)
}

// getOwned loads mapping id and checks that ownerID owns it
func (u *ShortURLUsecase) getOwned(ctx context.Context, ownerID, id uuid.UUID) (*entities.ShortURL, error) {
	mapping, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if mapping.UserID != ownerID {
		return nil, domainerrors.ErrForbidden
	}
	return mapping, nil
}

// Update merges the provided fields into mapping id.
// A new code taken by another mapping yields ErrDuplicateKey.
func (u *ShortURLUsecase) Update(ctx context.Context, ownerID, id uuid.UUID, input *entities.UpdateShortURLInput) (*entities.ShortURL, error) {
	if input.IsEmpty() {
		return nil, domainerrors.ErrInvalidInput
	}

	mapping, err := u.getOwned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	oldCode := mapping.ShortCode
	if input.ShortURL != nil {
		if !entities.IsValidShortCode(*input.ShortURL) {
			return nil, domainerrors.ErrInvalidInput
		}
		mapping.ShortCode = *input.ShortURL
	}
	if input.LongURL != nil {
		mapping.LongURL = *input.LongURL
	}
	mapping.UpdatedAt = u.now()

	if err := u.repo.Update(ctx, mapping); err != nil {
		return nil, err
	}

	u.cache.Remove(oldCode)
	logger.Debug(ctx, "Short URL updated", zap.String("from", oldCode), zap.String("to", mapping.ShortCode))
	metrics.URLEvent("updated")
	return mapping, nil
}

// Delete removes mapping id owned by ownerID
func (u *ShortURLUsecase) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	mapping, err := u.getOwned(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if err := u.repo.Delete(ctx, id); err != nil {
		return err
	}
	u.cache.Remove(mapping.ShortCode)
	metrics.URLEvent("deleted")
	return nil
}
