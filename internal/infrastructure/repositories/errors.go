package repositories

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	domainerrors "shortlink.backend/internal/domain/errors"
)

// translateError maps driver errors onto domain sentinels. op prefixes any
// error that has no domain meaning.
func translateError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domainerrors.ErrNotFound
	}
	if isDuplicateKey(err) {
		return domainerrors.ErrDuplicateKey
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
