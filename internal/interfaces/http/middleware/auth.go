package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	domainerrors "shortlink.backend/internal/domain/errors"
	"shortlink.backend/internal/interfaces/http/response"
	"shortlink.backend/pkg/jwt"
	"shortlink.backend/pkg/logger"
)

const (
	// AuthorizationHeader is the header key for authorization
	AuthorizationHeader = "Authorization"
	// BearerPrefix is the prefix for bearer tokens
	BearerPrefix = "Bearer "
	// SessionCookieName is the cookie the login endpoint sets
	SessionCookieName = "jwtAuthToken"
	// UserIDKey is the context key for user ID
	UserIDKey = "userId"
	// ClaimsKey is the context key for the validated session claims
	ClaimsKey = "sessionClaims"
	// TokenKey is the context key for the raw session token
	TokenKey = "sessionToken"
)

// SessionValidator checks a raw session token
type SessionValidator interface {
	ValidateSession(ctx context.Context, token string) (*jwt.Claims, error)
}

// TokenFromRequest returns the session token from the Authorization header
// (with or without the Bearer prefix) or, failing that, the session cookie.
func TokenFromRequest(c *gin.Context) string {
	if header := strings.TrimSpace(c.GetHeader(AuthorizationHeader)); header != "" {
		return strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
	}
	if cookie, err := c.Cookie(SessionCookieName); err == nil {
		return cookie
	}
	return ""
}

// SessionAuth rejects requests without a valid, unrevoked session token
func SessionAuth(validator SessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := TokenFromRequest(c)
		if token == "" {
			response.AbortWithError(c, domainerrors.Unauthorized("Unauthorized - Missing token"))
			return
		}

		claims, err := validator.ValidateSession(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, jwt.ErrInvalidToken) || errors.Is(err, jwt.ErrExpiredToken) {
				response.AbortWithError(c, domainerrors.Forbidden("Forbidden - Invalid token"))
				return
			}
			logger.Error(c.Request.Context(), "Session validation failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
			response.AbortWithError(c, domainerrors.InternalError(err))
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(ClaimsKey, claims)
		c.Set(TokenKey, token)
		ctx := context.WithValue(c.Request.Context(), logger.UserIDKey, claims.UserID.String())
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetUserID gets the user ID from context
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := userID.(uuid.UUID)
	return id, ok
}

// GetClaims gets the session claims from context
func GetClaims(c *gin.Context) (*jwt.Claims, bool) {
	claims, exists := c.Get(ClaimsKey)
	if !exists {
		return nil, false
	}
	typed, ok := claims.(*jwt.Claims)
	return typed, ok
}
