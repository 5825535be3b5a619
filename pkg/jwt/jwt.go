package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// Claims represents session token claims
type Claims struct {
	UserID uuid.UUID `json:"userId"`
	jwt.RegisteredClaims
}

// SessionToken is a signed session credential together with its identity and lifetime
type SessionToken struct {
	Token     string    `json:"token"`
	TokenID   string    `json:"-"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// JWTService signs and validates session tokens
type JWTService struct {
	secret []byte
	expiry time.Duration
}

var (
	signJWTToken = func(token *jwt.Token, secret []byte) (string, error) {
		return token.SignedString(secret)
	}
	timeNow = time.Now
)

// NewJWTService creates a new JWT service
func NewJWTService(secret string, expiry time.Duration) *JWTService {
	return &JWTService{
		secret: []byte(secret),
		expiry: expiry,
	}
}

// Expiry returns the configured session lifetime
func (s *JWTService) Expiry() time.Duration {
	return s.expiry
}

// GenerateSessionToken issues a token carrying the account id
func (s *JWTService) GenerateSessionToken(userID uuid.UUID) (*SessionToken, error) {
	now := timeNow()
	expiresAt := now.Add(s.expiry)
	tokenID := uuid.NewString()

	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	signed, err := signJWTToken(jwt.NewWithClaims(jwt.SigningMethodHS256, claims), s.secret)
	if err != nil {
		return nil, err
	}

	return &SessionToken{
		Token:     signed,
		TokenID:   tokenID,
		ExpiresAt: expiresAt,
	}, nil
}

// ValidateToken validates a session token and returns the claims
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == uuid.Nil {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
