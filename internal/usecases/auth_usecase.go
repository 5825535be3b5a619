package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"shortlink.backend/internal/domain/entities"
	domainerrors "shortlink.backend/internal/domain/errors"
	"shortlink.backend/internal/domain/repositories"
	"shortlink.backend/internal/infrastructure/mail"
	"shortlink.backend/pkg/crypto"
	"shortlink.backend/pkg/jwt"
	"shortlink.backend/pkg/logger"
	"shortlink.backend/pkg/metrics"
	"shortlink.backend/pkg/utils"
)

// SessionRevoker remembers logged-out session token ids
type SessionRevoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// AuthOptions carries the settings AuthUsecase reads from configuration
type AuthOptions struct {
	PublicHost string
	TokenTTL   time.Duration
}

// AuthUsecase handles registration, verification and session business logic
type AuthUsecase struct {
	userRepo   repositories.UserRepository
	tokenRepo  repositories.ActionTokenRepository
	uow        repositories.UnitOfWork
	jwtService *jwt.JWTService
	mailer     mail.Sender
	revoker    SessionRevoker
	publicHost string
	tokenTTL   time.Duration
	now        func() time.Time
}

// NewAuthUsecase creates a new auth usecase. revoker may be nil, in which case logout only clears the cookie.
func NewAuthUsecase(
	userRepo repositories.UserRepository,
	tokenRepo repositories.ActionTokenRepository,
	uow repositories.UnitOfWork,
	jwtService *jwt.JWTService,
	mailer mail.Sender,
	revoker SessionRevoker,
	opts AuthOptions,
) *AuthUsecase {
	ttl := opts.TokenTTL
	if ttl <= 0 {
		ttl = DefaultVerificationTokenTTL
	}
	return &AuthUsecase{
		userRepo:   userRepo,
		tokenRepo:  tokenRepo,
		uow:        uow,
		jwtService: jwtService,
		mailer:     mailer,
		revoker:    revoker,
		publicHost: opts.PublicHost,
		tokenTTL:   ttl,
		now:        time.Now,
	}
}

// Register creates an unverified account, issues a verification token and emails it.
// A taken name or email yields ErrDuplicateKey.
func (u *AuthUsecase) Register(ctx context.Context, input *entities.CreateUserInput) (*entities.RegistrationResult, error) {
	passwordHash, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	now := u.now()
	user := &entities.User{
		ID:           utils.GenerateUUIDv7(),
		Name:         strings.TrimSpace(input.Name),
		Email:        normalizeEmail(input.Email),
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := u.userRepo.Create(ctx, user); err != nil {
		metrics.AuthEvent("register", outcomeFailure)
		return nil, err
	}
	metrics.AuthEvent("register", outcomeSuccess)

	token, err := u.CreateVerificationToken(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	msg, err := u.SendVerificationEmail(ctx, user.Email, token.ID)
	if err != nil {
		return nil, err
	}

	return &entities.RegistrationResult{
		User:         user,
		ActionToken:  token,
		Verification: msg,
	}, nil
}

// CreateVerificationToken persists a fresh verify_email token for userID
func (u *AuthUsecase) CreateVerificationToken(ctx context.Context, userID uuid.UUID) (*entities.ActionToken, error) {
	now := u.now()
	token := &entities.ActionToken{
		ID:         utils.GenerateUUIDv7(),
		EntityID:   userID,
		ActionName: entities.ActionVerifyEmail,
		CreatedAt:  now,
		ExpiresAt:  now.Add(u.tokenTTL),
	}
	if err := u.tokenRepo.Create(ctx, token); err != nil {
		return nil, err
	}
	return token, nil
}

// SendVerificationEmail composes the verification email for tokenID, dispatches it and returns it
func (u *AuthUsecase) SendVerificationEmail(ctx context.Context, email string, tokenID uuid.UUID) (*entities.VerificationMessage, error) {
	link := verificationLink(u.publicHost, tokenID)
	msg := &entities.VerificationMessage{
		To:      email,
		Subject: VerificationEmailSubject,
		Text:    verificationText(link, u.tokenTTL),
		HTML:    verificationHTML(link, u.tokenTTL),
		Link:    link,
	}

	err := u.mailer.Send(ctx, mail.Message{
		To:      msg.To,
		Subject: msg.Subject,
		Text:    msg.Text,
		HTML:    msg.HTML,
	})
	metrics.AuthEvent("verification_email", outcomeOf(err))
	if err != nil {
		logger.Error(ctx, "Failed to send verification email", zap.String("email", email), zap.Error(err))
		return nil, err
	}
	return msg, nil
}

// checkCredentials resolves the account behind email and password
func (u *AuthUsecase) checkCredentials(ctx context.Context, email, password string) (*entities.User, error) {
	user, err := u.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.ErrAccountNotFound
		}
		return nil, err
	}
	return user, nil
}

// Login authenticates a verified account and issues a session token
func (u *AuthUsecase) Login(ctx context.Context, input *entities.LoginInput) (*jwt.SessionToken, error) {
	token, err := u.login(ctx, input)
	metrics.AuthEvent("login", outcomeOf(err))
	return token, err
}

func (u *AuthUsecase) login(ctx context.Context, input *entities.LoginInput) (*jwt.SessionToken, error) {
	user, err := u.checkCredentials(ctx, input.Email, input.Password)
	if err != nil {
		return nil, err
	}
	if !user.IsVerified() {
		return nil, domainerrors.ErrEmailNotVerified
	}
	if !crypto.CheckPassword(input.Password, user.PasswordHash) {
		return nil, domainerrors.ErrInvalidPassword
	}
	return u.jwtService.GenerateSessionToken(user.ID)
}

// VerifyEmail consumes the action token tokenID at now and marks its account verified.
// Both writes happen in one transaction.
func (u *AuthUsecase) VerifyEmail(ctx context.Context, tokenID string, now time.Time) error {
	err := u.verifyEmail(ctx, tokenID, now)
	metrics.AuthEvent("verify_email", outcomeOf(err))
	return err
}

func (u *AuthUsecase) verifyEmail(ctx context.Context, tokenID string, now time.Time) error {
	id, ok := utils.ParseUUID(tokenID)
	if !ok {
		return domainerrors.ErrInvalidToken
	}

	token, err := u.tokenRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return domainerrors.ErrInvalidToken
		}
		return err
	}
	if token.ActionName != entities.ActionVerifyEmail {
		return domainerrors.ErrInvalidToken
	}
	if token.IsExecuted() {
		return domainerrors.ErrAlreadyVerified
	}
	if token.IsExpiredAt(now) {
		return domainerrors.ErrTokenExpired
	}

	return u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.userRepo.MarkEmailVerified(txCtx, token.EntityID, now); err != nil {
			if errors.Is(err, domainerrors.ErrNotFound) {
				return domainerrors.ErrInvalidToken
			}
			return err
		}
		if err := u.tokenRepo.MarkExecuted(txCtx, token.ID, now); err != nil {
			// lost a race with a concurrent verification of the same token
			if errors.Is(err, domainerrors.ErrNotFound) {
				return domainerrors.ErrAlreadyVerified
			}
			return err
		}
		return nil
	})
}

// ResendVerification issues and emails a new token for an unverified account
func (u *AuthUsecase) ResendVerification(ctx context.Context, input *entities.ResendVerificationInput) (*entities.VerificationResult, error) {
	user, err := u.checkCredentials(ctx, input.Email, input.Password)
	if err != nil {
		return nil, err
	}
	if !crypto.CheckPassword(input.Password, user.PasswordHash) {
		return nil, domainerrors.ErrInvalidPassword
	}
	if user.IsVerified() {
		return nil, domainerrors.ErrAlreadyVerified
	}

	token, err := u.CreateVerificationToken(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	msg, err := u.SendVerificationEmail(ctx, user.Email, token.ID)
	if err != nil {
		return nil, err
	}
	return &entities.VerificationResult{ActionToken: token, Verification: msg}, nil
}

// ValidateSession checks the signature, expiry and revocation of a session token
func (u *AuthUsecase) ValidateSession(ctx context.Context, token string) (*jwt.Claims, error) {
	claims, err := u.jwtService.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	if u.revoker == nil {
		return claims, nil
	}
	revoked, err := u.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check session revocation: %w", err)
	}
	if revoked {
		return nil, jwt.ErrInvalidToken
	}
	return claims, nil
}

// Logout revokes the session until the token would have expired anyway
func (u *AuthUsecase) Logout(ctx context.Context, claims *jwt.Claims) error {
	if u.revoker == nil || claims == nil || claims.ExpiresAt == nil {
		return nil
	}
	ttl := claims.ExpiresAt.Time.Sub(u.now())
	if err := u.revoker.Revoke(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	metrics.AuthEvent("logout", outcomeSuccess)
	return nil
}

// SessionTTL is how long issued session tokens stay valid
func (u *AuthUsecase) SessionTTL() time.Duration {
	return u.jwtService.Expiry()
}
