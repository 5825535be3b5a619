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

// UserRepository implements account data operations
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new account. Name or email collisions yield ErrDuplicateKey.
func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	m := &models.User{
		ID:              user.ID,
		Name:            user.Name,
		Email:           user.Email,
		PasswordHash:    user.PasswordHash,
		EmailVerifiedAt: user.EmailVerifiedAt.Ptr(),
		CreatedAt:       user.CreatedAt,
		UpdatedAt:       user.UpdatedAt,
	}
	return translateError("create user", GetDB(ctx, r.db).Create(m).Error)
}

// GetByID gets a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	var m models.User
	if err := GetDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, translateError("get user", err)
	}
	return toUserEntity(&m), nil
}

// GetByEmail gets a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	var m models.User
	if err := GetDB(ctx, r.db).Where("email = ?", email).First(&m).Error; err != nil {
		return nil, translateError("get user by email", err)
	}
	return toUserEntity(&m), nil
}

// Update writes the profile fields of user
func (r *UserRepository) Update(ctx context.Context, user *entities.User) error {
	updates := map[string]interface{}{
		"name":          user.Name,
		"email":         user.Email,
		"password_hash": user.PasswordHash,
		"updated_at":    user.UpdatedAt,
	}

	result := GetDB(ctx, r.db).Model(&models.User{}).Where("id = ?", user.ID).Updates(updates)
	if result.Error != nil {
		return translateError("update user", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// MarkEmailVerified stamps the verification time of an account
func (r *UserRepository) MarkEmailVerified(ctx context.Context, id uuid.UUID, at time.Time) error {
	result := GetDB(ctx, r.db).Model(&models.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"email_verified_at": at,
		"updated_at":        at,
	})
	if result.Error != nil {
		return translateError("mark email verified", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func toUserEntity(m *models.User) *entities.User {
	return &entities.User{
		ID:              m.ID,
		Name:            m.Name,
		Email:           m.Email,
		PasswordHash:    m.PasswordHash,
		EmailVerifiedAt: null.TimeFromPtr(m.EmailVerifiedAt),
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
