package usecases

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"shortlink.backend/internal/domain/entities"
	domainerrors "shortlink.backend/internal/domain/errors"
	"shortlink.backend/internal/domain/repositories"
)

// UserUsecase handles account profile business logic
type UserUsecase struct {
	userRepo repositories.UserRepository
	now      func() time.Time
}

func NewUserUsecase(userRepo repositories.UserRepository) *UserUsecase {
	return &UserUsecase{userRepo: userRepo, now: time.Now}
}

// GetByID returns the account or ErrNotFound
func (u *UserUsecase) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	return u.userRepo.GetByID(ctx, id)
}

// Update applies a partial profile update to account id on behalf of actorID.
// Only the account holder may update it; a taken name or email yields ErrDuplicateKey.
func (u *UserUsecase) Update(ctx context.Context, actorID, id uuid.UUID, input *entities.UpdateUserInput) (*entities.User, error) {
	if input.IsEmpty() {
		return nil, domainerrors.ErrInvalidInput
	}

	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.ID != actorID {
		return nil, domainerrors.ErrForbidden
	}

	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		user.Email = normalizeEmail(*input.Email)
	}
	if input.Password != nil {
		hash, err := hashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	user.UpdatedAt = u.now()

	if err := u.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
