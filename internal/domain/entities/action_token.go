package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// ActionName identifies what an action token authorizes
type ActionName string

const (
	ActionVerifyEmail ActionName = "verify_email"
)

// ActionToken is a single-use, expiring token emailed to an account holder
type ActionToken struct {
	ID         uuid.UUID  `json:"id"`
	EntityID   uuid.UUID  `json:"entityId"`
	ActionName ActionName `json:"actionName"`
	CreatedAt  time.Time  `json:"createdAt"`
	ExpiresAt  time.Time  `json:"expiresAt"`
	ExecutedAt null.Time  `json:"executedAt"`
}

// IsExecuted reports whether the token was already consumed
func (t *ActionToken) IsExecuted() bool {
	return t.ExecutedAt.Valid
}

// IsExpiredAt reports whether the token is no longer usable at now.
// A token used exactly at ExpiresAt is still valid.
func (t *ActionToken) IsExpiredAt(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// VerificationMessage is the composed verification email
type VerificationMessage struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
	HTML    string `json:"html"`
	Link    string `json:"link"`
}

// RegistrationResult is what a successful registration produces
type RegistrationResult struct {
	User         *User                `json:"user"`
	ActionToken  *ActionToken         `json:"actionToken"`
	Verification *VerificationMessage `json:"verificationSent"`
}

// VerificationResult is what a resend produces
type VerificationResult struct {
	ActionToken  *ActionToken         `json:"actionToken"`
	Verification *VerificationMessage `json:"verificationSent"`
}
