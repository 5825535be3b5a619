package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	domainerrors "shortlink.backend/internal/domain/errors"
	"shortlink.backend/internal/interfaces/http/response"
	"shortlink.backend/pkg/logger"
)

const msgInvalidData = "Invalid data input"

// toAppError maps usecase sentinels onto HTTP errors. notFound is the
// message used for ErrNotFound. Unknown errors are returned unchanged.
func toAppError(err error, notFound string) error {
	var appErr *domainerrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	unauthorized := func(msg string) error {
		return domainerrors.Wrap(http.StatusUnauthorized, domainerrors.CodeUnauthorized, msg, err)
	}

	switch {
	case errors.Is(err, domainerrors.ErrNotFound):
		return domainerrors.Wrap(http.StatusNotFound, domainerrors.CodeNotFound, notFound, err)
	case errors.Is(err, domainerrors.ErrDuplicateKey), errors.Is(err, domainerrors.ErrInvalidInput):
		return domainerrors.Wrap(http.StatusBadRequest, domainerrors.CodeInvalidInput, msgInvalidData, err)
	case errors.Is(err, domainerrors.ErrAlreadyExists):
		return domainerrors.Wrap(http.StatusForbidden, domainerrors.CodeForbidden, "Url already exists", err)
	case errors.Is(err, domainerrors.ErrForbidden):
		return domainerrors.Wrap(http.StatusForbidden, domainerrors.CodeForbidden, "Forbidden", err)
	case errors.Is(err, domainerrors.ErrAccountNotFound):
		return unauthorized("Invalid email")
	case errors.Is(err, domainerrors.ErrInvalidPassword):
		return unauthorized("Invalid password")
	case errors.Is(err, domainerrors.ErrEmailNotVerified):
		return unauthorized("Email not verified")
	case errors.Is(err, domainerrors.ErrAlreadyVerified):
		return unauthorized("Email already verified")
	case errors.Is(err, domainerrors.ErrInvalidToken):
		return unauthorized("Invalid token")
	case errors.Is(err, domainerrors.ErrTokenExpired):
		return unauthorized("Token expired")
	case errors.Is(err, domainerrors.ErrAlreadyLoggedIn):
		return domainerrors.Wrap(http.StatusConflict, domainerrors.CodeConflict, "Already logged in", err)
	}
	return err
}

// respondError renders err and logs it when it ends up as a 500
func respondError(c *gin.Context, err error, notFound string) {
	mapped := toAppError(err, notFound)
	var appErr *domainerrors.AppError
	if !errors.As(mapped, &appErr) {
		logger.Error(c.Request.Context(), "Request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}
	response.Error(c, mapped)
}
