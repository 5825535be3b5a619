package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultCost is the bcrypt cost used for account passwords
	DefaultCost = 10

	// ShortCodeBytes is the number of random bytes behind a generated short code
	ShortCodeBytes = 4

	// MaxPasswordBytes is the longest input bcrypt accepts
	MaxPasswordBytes = 72
)

// ErrPasswordTooLong is returned for passwords over MaxPasswordBytes bytes
var ErrPasswordTooLong = errors.New("password exceeds 72 bytes")

var (
	bcryptGenerateFromPassword = bcrypt.GenerateFromPassword
	randomRead                 = rand.Read
)

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	if len(password) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	bytes, err := bcryptGenerateFromPassword([]byte(password), DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}

// CheckPassword compares a password with a hash in constant time
func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// GenerateRandomToken generates a hex string from length random bytes
func GenerateRandomToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := randomRead(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// GenerateShortCode returns an 8-character lowercase hex code.
// Uniqueness is not guaranteed; callers check the store.
func GenerateShortCode() (string, error) {
	return GenerateRandomToken(ShortCodeBytes)
}
