package usecases

import (
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/google/uuid"
	domainerrors "shortlink.backend/internal/domain/errors"
	"shortlink.backend/pkg/crypto"
)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// hashPassword reports an overlong password as invalid input
func hashPassword(password string) (string, error) {
	hash, err := crypto.HashPassword(password)
	if errors.Is(err, crypto.ErrPasswordTooLong) {
		return "", fmt.Errorf("%w: %v", domainerrors.ErrInvalidInput, err)
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return hash, nil
}

func verificationLink(publicHost string, tokenID uuid.UUID) string {
	return strings.TrimRight(publicHost, "/") + VerifyEmailPath + tokenID.String()
}

func verificationText(link string, ttl time.Duration) string {
	return fmt.Sprintf("Please verify your email by opening the following link: %s\nThe link expires in %s.", link, humanDuration(ttl))
}

func verificationHTML(link string, ttl time.Duration) string {
	escaped := html.EscapeString(link)
	return fmt.Sprintf(`<p>Please verify your email by clicking <a href="%s">this link</a>.</p><p>The link expires in %s.</p>`, escaped, humanDuration(ttl))
}

// humanDuration renders whole hours or minutes as words, anything else as time.Duration does
func humanDuration(d time.Duration) string {
	plural := func(n int64, unit string) string {
		if n == 1 {
			return "1 " + unit
		}
		return fmt.Sprintf("%d %ss", n, unit)
	}
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		return plural(int64(d/time.Hour), "hour")
	case d >= time.Minute && d%time.Minute == 0:
		return plural(int64(d/time.Minute), "minute")
	}
	return d.String()
}

// outcomeOf maps an error onto a metric label
func outcomeOf(err error) string {
	if err != nil {
		return outcomeFailure
	}
	return outcomeSuccess
}
