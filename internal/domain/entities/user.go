package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// User represents an account
type User struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	PasswordHash    string    `json:"-"`
	EmailVerifiedAt null.Time `json:"emailVerifiedAt"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// IsVerified reports whether the account confirmed its email address
func (u *User) IsVerified() bool {
	return u.EmailVerifiedAt.Valid
}

// CreateUserInput represents input for registering an account
type CreateUserInput struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

// LoginInput represents input for user login
type LoginInput struct {
	Email    string `json:"email" form:"email" binding:"required,email,max=255"`
	Password string `json:"password" form:"password" binding:"required"`
}

// ResendVerificationInput carries the credentials of an unverified account
type ResendVerificationInput = LoginInput

// UpdateUserInput represents a partial profile update
type UpdateUserInput struct {
	Name     *string `json:"name" binding:"omitempty,min=2,max=100"`
	Email    *string `json:"email" binding:"omitempty,email,max=255"`
	Password *string `json:"password" binding:"omitempty,min=6,max=72"`
}

// IsEmpty reports whether no field was provided
func (in UpdateUserInput) IsEmpty() bool {
	return in.Name == nil && in.Email == nil && in.Password == nil
}
