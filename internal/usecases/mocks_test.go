package usecases_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"shortlink.backend/internal/domain/entities"
	"shortlink.backend/internal/infrastructure/mail"
	"shortlink.backend/pkg/utils"
)

// Mock UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
}

func (m *MockUnitOfWork) Do(ctx context.Context, f func(context.Context) error) error {
	m.Called(ctx, f)
	return f(ctx)
}

// Mock UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entities.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *entities.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) MarkEmailVerified(ctx context.Context, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

// Mock ActionTokenRepository
type MockActionTokenRepository struct {
	mock.Mock
}

func (m *MockActionTokenRepository) Create(ctx context.Context, token *entities.ActionToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockActionTokenRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.ActionToken, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ActionToken), args.Error(1)
}

func (m *MockActionTokenRepository) MarkExecuted(ctx context.Context, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockActionTokenRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// Mock ShortURLRepository
type MockShortURLRepository struct {
	mock.Mock
}

func (m *MockShortURLRepository) Create(ctx context.Context, url *entities.ShortURL) error {
	args := m.Called(ctx, url)
	return args.Error(0)
}

func (m *MockShortURLRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.ShortURL, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ShortURL), args.Error(1)
}

func (m *MockShortURLRepository) GetByShortCode(ctx context.Context, code string) (*entities.ShortURL, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ShortURL), args.Error(1)
}

func (m *MockShortURLRepository) ListByUser(ctx context.Context, userID uuid.UUID, pagination utils.PaginationParams) ([]*entities.ShortURL, int64, error) {
	args := m.Called(ctx, userID, pagination)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.ShortURL), args.Get(1).(int64), args.Error(2)
}

func (m *MockShortURLRepository) Update(ctx context.Context, url *entities.ShortURL) error {
	args := m.Called(ctx, url)
	return args.Error(0)
}

func (m *MockShortURLRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Mock mail.Sender
type MockMailSender struct {
	mock.Mock
}

func (m *MockMailSender) Send(ctx context.Context, msg mail.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// Mock SessionRevoker
type MockRevoker struct {
	mock.Mock
}

func (m *MockRevoker) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, ttl)
	return args.Error(0)
}

func (m *MockRevoker) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}
