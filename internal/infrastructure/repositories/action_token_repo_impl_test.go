package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"
	"shortlink.backend/internal/domain/entities"
	domainerrors "shortlink.backend/internal/domain/errors"
)

func newActionToken(owner uuid.UUID, created time.Time) *entities.ActionToken {
	return &entities.ActionToken{
		ID:         uuid.New(),
		EntityID:   owner,
		ActionName: entities.ActionVerifyEmail,
		CreatedAt:  created,
		ExpiresAt:  created.Add(15 * time.Minute),
	}
}

func TestActionTokenRepository_CreateGetExecute(t *testing.T) {
	db := newTestDB(t)
	createActionTokenTable(t, db)
	repo := NewActionTokenRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()
	token := newActionToken(uuid.New(), now)
	require.NoError(t, repo.Create(ctx, token))

	got, err := repo.GetByID(ctx, token.ID)
	require.NoError(t, err)
	assert.Equal(t, token.EntityID, got.EntityID)
	assert.Equal(t, entities.ActionVerifyEmail, got.ActionName)
	assert.WithinDuration(t, token.ExpiresAt, got.ExpiresAt, time.Second)
	assert.False(t, got.IsExecuted())

	require.NoError(t, repo.MarkExecuted(ctx, token.ID, now))
	got, err = repo.GetByID(ctx, token.ID)
	require.NoError(t, err)
	assert.True(t, got.IsExecuted())

	// second execution finds no pending token
	assert.ErrorIs(t, repo.MarkExecuted(ctx, token.ID, now), domainerrors.ErrNotFound)
}

func TestActionTokenRepository_NotFound(t *testing.T) {
	db := newTestDB(t)
	createActionTokenTable(t, db)
	repo := NewActionTokenRepository(db)

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
	assert.ErrorIs(t, repo.MarkExecuted(context.Background(), uuid.New(), time.Now()), domainerrors.ErrNotFound)
}

func TestActionTokenRepository_DeleteExpired(t *testing.T) {
	db := newTestDB(t)
	createActionTokenTable(t, db)
	repo := NewActionTokenRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()
	owner := uuid.New()

	expired := newActionToken(owner, now.Add(-2*time.Hour))
	fresh := newActionToken(owner, now)
	executed := newActionToken(owner, now.Add(-2*time.Hour))
	executed.ExecutedAt = null.TimeFrom(now.Add(-2 * time.Hour))

	for _, tok := range []*entities.ActionToken{expired, fresh, executed} {
		require.NoError(t, repo.Create(ctx, tok))
	}

	n, err := repo.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = repo.GetByID(ctx, expired.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
	_, err = repo.GetByID(ctx, fresh.ID)
	assert.NoError(t, err)
	_, err = repo.GetByID(ctx, executed.ID)
	assert.NoError(t, err)
}

func TestActionTokenRepository_DeleteExpiredMissingTable(t *testing.T) {
	repo := NewActionTokenRepository(newTestDB(t))
	_, err := repo.DeleteExpired(context.Background(), time.Now())
	assert.Error(t, err)
}
