package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"shortlink.backend/internal/domain/entities"
	domainerrors "shortlink.backend/internal/domain/errors"
	"shortlink.backend/internal/interfaces/http/middleware"
	"shortlink.backend/internal/interfaces/http/response"
	"shortlink.backend/pkg/jwt"
)

type authService interface {
	Register(ctx context.Context, input *entities.CreateUserInput) (*entities.RegistrationResult, error)
	Login(ctx context.Context, input *entities.LoginInput) (*jwt.SessionToken, error)
	VerifyEmail(ctx context.Context, tokenID string, now time.Time) error
	ResendVerification(ctx context.Context, input *entities.ResendVerificationInput) (*entities.VerificationResult, error)
	ValidateSession(ctx context.Context, token string) (*jwt.Claims, error)
	Logout(ctx context.Context, claims *jwt.Claims) error
	SessionTTL() time.Duration
}

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	auth         authService
	cookieSecure bool
	now          func() time.Time
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth authService, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		auth:         auth,
		cookieSecure: cookieSecure,
		now:          time.Now,
	}
}

// Register handles user registration
// POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var input entities.CreateUserInput
	if err := bindJSON(c, &input); err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.auth.Register(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err, "")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"message":          "User created successfully",
		"user":             result.User,
		"message2":         "Verification token created",
		"actionToken":      result.ActionToken,
		"message3":         "Verification email sent",
		"verificationSent": result.Verification,
	})
}

// Login issues a session token and sets it as an httpOnly cookie
// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	ctx := c.Request.Context()
	if token := middleware.TokenFromRequest(c); token != "" {
		if _, err := h.auth.ValidateSession(ctx, token); err == nil {
			respondError(c, domainerrors.ErrAlreadyLoggedIn, "")
			return
		}
	}

	var input entities.LoginInput
	if err := bindJSON(c, &input); err != nil {
		response.Error(c, err)
		return
	}

	session, err := h.auth.Login(ctx, &input)
	if err != nil {
		respondError(c, err, "Invalid email")
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, session.Token, int(h.auth.SessionTTL().Seconds()), "/", "", h.cookieSecure, true)
	response.Success(c, http.StatusOK, gin.H{"token": session.Token})
}

// Logout revokes the current session and clears the cookie
// POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Unauthorized - Missing token"))
		return
	}
	if err := h.auth.Logout(c.Request.Context(), claims); err != nil {
		respondError(c, err, "")
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", h.cookieSecure, true)
	response.Success(c, http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// VerifyEmail consumes a verification token from the emailed link
// GET /auth/verify-email/:tokenId
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	if err := h.auth.VerifyEmail(c.Request.Context(), c.Param("tokenId"), h.now()); err != nil {
		respondError(c, err, "Invalid token")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message":  "Email verified successfully",
		"verified": true,
	})
}

// ResendVerification emails a fresh verification link. Credentials come
// from a JSON body or, when there is none, from the query string.
// GET /auth/resend-verification
func (h *AuthHandler) ResendVerification(c *gin.Context) {
	var input entities.ResendVerificationInput
	var err error
	if c.Request.ContentLength > 0 {
		err = bindJSON(c, &input)
	} else {
		err = bindQuery(c, &input)
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.auth.ResendVerification(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err, "Invalid email")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"message":          "Verification token created",
		"actionToken":      result.ActionToken,
		"message2":         "Verification email sent",
		"verificationSent": result.Verification,
	})
}
