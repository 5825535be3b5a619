package usecases_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"
	"golang.org/x/crypto/bcrypt"
	"shortlink.backend/internal/domain/entities"
	domainerrors "shortlink.backend/internal/domain/errors"
	"shortlink.backend/internal/infrastructure/mail"
	"shortlink.backend/internal/usecases"
	"shortlink.backend/pkg/crypto"
	"shortlink.backend/pkg/jwt"
)

const testPublicHost = "http://localhost:3000"

type authDeps struct {
	users   *MockUserRepository
	tokens  *MockActionTokenRepository
	uow     *MockUnitOfWork
	mailer  *MockMailSender
	revoker *MockRevoker
	jwt     *jwt.JWTService
	uc      *usecases.AuthUsecase
}

func newAuthDeps() *authDeps {
	d := &authDeps{
		users:   new(MockUserRepository),
		tokens:  new(MockActionTokenRepository),
		uow:     new(MockUnitOfWork),
		mailer:  new(MockMailSender),
		revoker: new(MockRevoker),
		jwt:     jwt.NewJWTService("test-secret", time.Hour),
	}
	d.uc = usecases.NewAuthUsecase(d.users, d.tokens, d.uow, d.jwt, d.mailer, d.revoker, usecases.AuthOptions{
		PublicHost: testPublicHost,
	})
	return d
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := crypto.HashPassword(password)
	require.NoError(t, err)
	return hash
}

func TestAuthUsecase_Register_Success(t *testing.T) {
	d := newAuthDeps()
	ctx := context.Background()

	var created *entities.User
	d.users.On("Create", ctx, mock.AnythingOfType("*entities.User")).Run(func(args mock.Arguments) {
		created = args.Get(1).(*entities.User)
	}).Return(nil).Once()
	d.tokens.On("Create", ctx, mock.AnythingOfType("*entities.ActionToken")).Return(nil).Once()
	d.mailer.On("Send", ctx, mock.MatchedBy(func(m mail.Message) bool {
		return m.To == "ana@example.com" && m.Subject == usecases.VerificationEmailSubject
	})).Return(nil).Once()

	res, err := d.uc.Register(ctx, &entities.CreateUserInput{Name: " ana ", Email: " Ana@Example.COM ", Password: "secret1"})
	require.NoError(t, err)

	assert.Same(t, created, res.User)
	assert.Equal(t, "ana", res.User.Name)
	assert.Equal(t, "ana@example.com", res.User.Email)
	assert.False(t, res.User.IsVerified())
	assert.NotEqual(t, uuid.Nil, res.User.ID)

	cost, err := bcrypt.Cost([]byte(res.User.PasswordHash))
	require.NoError(t, err)
	assert.Equal(t, 10, cost)
	assert.True(t, crypto.CheckPassword("secret1", res.User.PasswordHash))

	assert.Equal(t, res.User.ID, res.ActionToken.EntityID)
	assert.Equal(t, entities.ActionVerifyEmail, res.ActionToken.ActionName)
	assert.Equal(t, 15*time.Minute, res.ActionToken.ExpiresAt.Sub(res.ActionToken.CreatedAt))
	assert.False(t, res.ActionToken.IsExecuted())

	wantLink := testPublicHost + "/auth/verify-email/" + res.ActionToken.ID.String()
	assert.Equal(t, wantLink, res.Verification.Link)
	assert.Contains(t, res.Verification.Text, wantLink)
	assert.Contains(t, res.Verification.HTML, `href="`+wantLink+`"`)
	assert.Contains(t, res.Verification.Text, "expires in 15 minutes")

	d.users.AssertExpectations(t)
	d.tokens.AssertExpectations(t)
	d.mailer.AssertExpectations(t)
}

func TestAuthUsecase_SendVerificationEmail_RendersConfiguredTTL(t *testing.T) {
	d := newAuthDeps()
	uc := usecases.NewAuthUsecase(d.users, d.tokens, d.uow, d.jwt, d.mailer, d.revoker, usecases.AuthOptions{
		PublicHost: testPublicHost,
		TokenTTL:   30 * time.Minute,
	})
	ctx := context.Background()
	d.mailer.On("Send", ctx, mock.Anything).Return(nil).Once()

	msg, err := uc.SendVerificationEmail(ctx, "ana@example.com", uuid.New())
	require.NoError(t, err)
	assert.Contains(t, msg.Text, "expires in 30 minutes")
	assert.Contains(t, msg.HTML, "expires in 30 minutes")
}

func TestAuthUsecase_Register_PasswordTooLong(t *testing.T) {
	d := newAuthDeps()
	ctx := context.Background()

	// 40 runes but 80 bytes, past what bcrypt accepts
	res, err := d.uc.Register(ctx, &entities.CreateUserInput{Name: "ana", Email: "ana@example.com", Password: strings.Repeat("é", 40)})
	assert.Nil(t, res)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
	d.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthUsecase_Register_Duplicate(t *testing.T) {
	d := newAuthDeps()
	ctx := context.Background()
	d.users.On("Create", ctx, mock.Anything).Return(domainerrors.ErrDuplicateKey).Once()

	res, err := d.uc.Register(ctx, &entities.CreateUserInput{Name: "ana", Email: "ana@example.com", Password: "secret1"})
	assert.Nil(t, res)
	assert.ErrorIs(t, err, domainerrors.ErrDuplicateKey)
	d.tokens.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	d.mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestAuthUsecase_Register_DownstreamFailures(t *testing.T) {
	ctx := context.Background()
	input := &entities.CreateUserInput{Name: "ana", Email: "ana@example.com", Password: "secret1"}

	t.Run("token store", func(t *testing.T) {
		d := newAuthDeps()
		d.users.On("Create", ctx, mock.Anything).Return(nil)
		d.tokens.On("Create", ctx, mock.Anything).Return(errors.New("db down"))
		_, err := d.uc.Register(ctx, input)
		assert.EqualError(t, err, "db down")
	})

	t.Run("mail relay", func(t *testing.T) {
		d := newAuthDeps()
		d.users.On("Create", ctx, mock.Anything).Return(nil)
		d.tokens.On("Create", ctx, mock.Anything).Return(nil)
		d.mailer.On("Send", ctx, mock.Anything).Return(errors.New("smtp down"))
		_, err := d.uc.Register(ctx, input)
		assert.EqualError(t, err, "smtp down")
	})
}

func TestAuthUsecase_Login(t *testing.T) {
	ctx := context.Background()
	hash := mustHash(t, "secret1")
	verified := &entities.User{ID: uuid.New(), Email: "ana@example.com", PasswordHash: hash, EmailVerifiedAt: null.TimeFrom(time.Now())}
	unverified := &entities.User{ID: uuid.New(), Email: "bob@example.com", PasswordHash: hash}

	t.Run("unknown email", func(t *testing.T) {
		d := newAuthDeps()
		d.users.On("GetByEmail", ctx, "nobody@example.com").Return(nil, domainerrors.ErrNotFound)
		_, err := d.uc.Login(ctx, &entities.LoginInput{Email: "Nobody@example.com", Password: "secret1"})
		assert.ErrorIs(t, err, domainerrors.ErrAccountNotFound)
	})

	t.Run("store failure", func(t *testing.T) {
		d := newAuthDeps()
		d.users.On("GetByEmail", ctx, "ana@example.com").Return(nil, errors.New("db down"))
		_, err := d.uc.Login(ctx, &entities.LoginInput{Email: "ana@example.com", Password: "secret1"})
		assert.EqualError(t, err, "db down")
	})

	t.Run("unverified is checked before password", func(t *testing.T) {
		d := newAuthDeps()
		d.users.On("GetByEmail", ctx, "bob@example.com").Return(unverified, nil)
		_, err := d.uc.Login(ctx, &entities.LoginInput{Email: "bob@example.com", Password: "wrong"})
		assert.ErrorIs(t, err, domainerrors.ErrEmailNotVerified)
	})

	t.Run("wrong password", func(t *testing.T) {
		d := newAuthDeps()
		d.users.On("GetByEmail", ctx, "ana@example.com").Return(verified, nil)
		_, err := d.uc.Login(ctx, &entities.LoginInput{Email: "ana@example.com", Password: "wrong"})
		assert.ErrorIs(t, err, domainerrors.ErrInvalidPassword)
	})

	t.Run("success", func(t *testing.T) {
		d := newAuthDeps()
		d.users.On("GetByEmail", ctx, "ana@example.com").Return(verified, nil)
		d.revoker.On("IsRevoked", ctx, mock.Anything).Return(false, nil)

		session, err := d.uc.Login(ctx, &entities.LoginInput{Email: "ana@example.com", Password: "secret1"})
		require.NoError(t, err)
		assert.NotEmpty(t, session.Token)
		assert.Equal(t, time.Hour, d.uc.SessionTTL())

		claims, err := d.uc.ValidateSession(ctx, session.Token)
		require.NoError(t, err)
		assert.Equal(t, verified.ID, claims.UserID)
		assert.Equal(t, session.TokenID, claims.ID)
	})
}

func pendingToken(owner uuid.UUID, created time.Time) *entities.ActionToken {
	return &entities.ActionToken{
		ID:         uuid.New(),
		EntityID:   owner,
		ActionName: entities.ActionVerifyEmail,
		CreatedAt:  created,
		ExpiresAt:  created.Add(15 * time.Minute),
	}
}

func TestAuthUsecase_VerifyEmail(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	t.Run("malformed id", func(t *testing.T) {
		d := newAuthDeps()
		assert.ErrorIs(t, d.uc.VerifyEmail(ctx, "not-a-uuid", created), domainerrors.ErrInvalidToken)
		d.tokens.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("unknown token", func(t *testing.T) {
		d := newAuthDeps()
		id := uuid.New()
		d.tokens.On("GetByID", ctx, id).Return(nil, domainerrors.ErrNotFound)
		assert.ErrorIs(t, d.uc.VerifyEmail(ctx, id.String(), created), domainerrors.ErrInvalidToken)
	})

	t.Run("store failure", func(t *testing.T) {
		d := newAuthDeps()
		id := uuid.New()
		d.tokens.On("GetByID", ctx, id).Return(nil, errors.New("db down"))
		assert.EqualError(t, d.uc.VerifyEmail(ctx, id.String(), created), "db down")
	})

	t.Run("wrong action", func(t *testing.T) {
		d := newAuthDeps()
		tok := pendingToken(uuid.New(), created)
		tok.ActionName = "reset_password"
		d.tokens.On("GetByID", ctx, tok.ID).Return(tok, nil)
		assert.ErrorIs(t, d.uc.VerifyEmail(ctx, tok.ID.String(), created), domainerrors.ErrInvalidToken)
	})

	t.Run("already executed", func(t *testing.T) {
		d := newAuthDeps()
		tok := pendingToken(uuid.New(), created)
		tok.ExecutedAt = null.TimeFrom(created.Add(time.Minute))
		d.tokens.On("GetByID", ctx, tok.ID).Return(tok, nil)
		assert.ErrorIs(t, d.uc.VerifyEmail(ctx, tok.ID.String(), created.Add(2*time.Minute)), domainerrors.ErrAlreadyVerified)
	})

	t.Run("expired just after deadline", func(t *testing.T) {
		d := newAuthDeps()
		tok := pendingToken(uuid.New(), created)
		d.tokens.On("GetByID", ctx, tok.ID).Return(tok, nil)
		err := d.uc.VerifyEmail(ctx, tok.ID.String(), tok.ExpiresAt.Add(time.Second))
		assert.ErrorIs(t, err, domainerrors.ErrTokenExpired)
		d.uow.AssertNotCalled(t, "Do", mock.Anything, mock.Anything)
	})

	t.Run("valid exactly at deadline marks this token", func(t *testing.T) {
		d := newAuthDeps()
		tok := pendingToken(uuid.New(), created)
		at := tok.ExpiresAt
		d.tokens.On("GetByID", ctx, tok.ID).Return(tok, nil)
		d.uow.On("Do", ctx, mock.Anything).Return(nil)
		d.users.On("MarkEmailVerified", ctx, tok.EntityID, at).Return(nil).Once()
		d.tokens.On("MarkExecuted", ctx, tok.ID, at).Return(nil).Once()

		require.NoError(t, d.uc.VerifyEmail(ctx, tok.ID.String(), at))
		d.uow.AssertNumberOfCalls(t, "Do", 1)
		d.users.AssertExpectations(t)
		d.tokens.AssertExpectations(t)
	})

	t.Run("concurrent consumption reports already verified", func(t *testing.T) {
		d := newAuthDeps()
		tok := pendingToken(uuid.New(), created)
		d.tokens.On("GetByID", ctx, tok.ID).Return(tok, nil)
		d.uow.On("Do", ctx, mock.Anything).Return(nil)
		d.users.On("MarkEmailVerified", ctx, tok.EntityID, created).Return(nil)
		d.tokens.On("MarkExecuted", ctx, tok.ID, created).Return(domainerrors.ErrNotFound)

		assert.ErrorIs(t, d.uc.VerifyEmail(ctx, tok.ID.String(), created), domainerrors.ErrAlreadyVerified)
	})

	t.Run("owner vanished", func(t *testing.T) {
		d := newAuthDeps()
		tok := pendingToken(uuid.New(), created)
		d.tokens.On("GetByID", ctx, tok.ID).Return(tok, nil)
		d.uow.On("Do", ctx, mock.Anything).Return(nil)
		d.users.On("MarkEmailVerified", ctx, tok.EntityID, created).Return(domainerrors.ErrNotFound)

		assert.ErrorIs(t, d.uc.VerifyEmail(ctx, tok.ID.String(), created), domainerrors.ErrInvalidToken)
		d.tokens.AssertNotCalled(t, "MarkExecuted", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAuthUsecase_ResendVerification(t *testing.T) {
	ctx := context.Background()
	hash := mustHash(t, "secret1")

	t.Run("unknown email", func(t *testing.T) {
		d := newAuthDeps()
		d.users.On("GetByEmail", ctx, "ana@example.com").Return(nil, domainerrors.ErrNotFound)
		_, err := d.uc.ResendVerification(ctx, &entities.ResendVerificationInput{Email: "ana@example.com", Password: "secret1"})
		assert.ErrorIs(t, err, domainerrors.ErrAccountNotFound)
	})

	t.Run("wrong password", func(t *testing.T) {
		d := newAuthDeps()
		d.users.On("GetByEmail", ctx, "ana@example.com").Return(&entities.User{Email: "ana@example.com", PasswordHash: hash}, nil)
		_, err := d.uc.ResendVerification(ctx, &entities.ResendVerificationInput{Email: "ana@example.com", Password: "nope"})
		assert.ErrorIs(t, err, domainerrors.ErrInvalidPassword)
	})

	t.Run("already verified", func(t *testing.T) {
		d := newAuthDeps()
		d.users.On("GetByEmail", ctx, "ana@example.com").Return(&entities.User{Email: "ana@example.com", PasswordHash: hash, EmailVerifiedAt: null.TimeFrom(time.Now())}, nil)
		_, err := d.uc.ResendVerification(ctx, &entities.ResendVerificationInput{Email: "ana@example.com", Password: "secret1"})
		assert.ErrorIs(t, err, domainerrors.ErrAlreadyVerified)
	})

	t.Run("issues a new token", func(t *testing.T) {
		d := newAuthDeps()
		user := &entities.User{ID: uuid.New(), Email: "ana@example.com", PasswordHash: hash}
		d.users.On("GetByEmail", ctx, "ana@example.com").Return(user, nil)
		d.tokens.On("Create", ctx, mock.AnythingOfType("*entities.ActionToken")).Return(nil).Once()
		d.mailer.On("Send", ctx, mock.Anything).Return(nil).Once()

		res, err := d.uc.ResendVerification(ctx, &entities.ResendVerificationInput{Email: "ANA@example.com", Password: "secret1"})
		require.NoError(t, err)
		assert.Equal(t, user.ID, res.ActionToken.EntityID)
		assert.True(t, strings.HasSuffix(res.Verification.Link, res.ActionToken.ID.String()))
	})
}

func TestAuthUsecase_SessionRevocation(t *testing.T) {
	ctx := context.Background()
	d := newAuthDeps()
	session, err := d.jwt.GenerateSessionToken(uuid.New())
	require.NoError(t, err)

	claims, err := d.jwt.ValidateToken(session.Token)
	require.NoError(t, err)

	d.revoker.On("Revoke", ctx, session.TokenID, mock.MatchedBy(func(ttl time.Duration) bool {
		return ttl > 59*time.Minute && ttl <= time.Hour
	})).Return(nil).Once()
	require.NoError(t, d.uc.Logout(ctx, claims))

	d.revoker.On("IsRevoked", ctx, session.TokenID).Return(true, nil).Once()
	_, err = d.uc.ValidateSession(ctx, session.Token)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)

	d.revoker.On("IsRevoked", ctx, session.TokenID).Return(false, errors.New("redis down")).Once()
	_, err = d.uc.ValidateSession(ctx, session.Token)
	assert.ErrorContains(t, err, "redis down")

	_, err = d.uc.ValidateSession(ctx, "garbage")
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)

	d.revoker.AssertExpectations(t)
}

func TestAuthUsecase_LogoutWithoutRevoker(t *testing.T) {
	uc := usecases.NewAuthUsecase(nil, nil, nil, jwt.NewJWTService("s", time.Hour), nil, nil, usecases.AuthOptions{})
	assert.NoError(t, uc.Logout(context.Background(), &jwt.Claims{}))

	session, err := jwt.NewJWTService("s", time.Hour).GenerateSessionToken(uuid.New())
	require.NoError(t, err)
	_, err = uc.ValidateSession(context.Background(), session.Token)
	assert.NoError(t, err)
}
