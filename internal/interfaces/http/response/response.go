package response

import (
	"errors"

	"github.com/gin-gonic/gin"
	domainerrors "shortlink.backend/internal/domain/errors"
)

// Success sends a success response
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Error sends an error response. Anything that is not an AppError is
// reported as a 500 without leaking its message.
func Error(c *gin.Context, err error) {
	var appErr *domainerrors.AppError
	if !errors.As(err, &appErr) {
		appErr = domainerrors.InternalError(err)
	}

	if len(appErr.Details) > 0 {
		c.JSON(appErr.Status, gin.H{
			"code":    appErr.Code,
			"message": appErr.Message,
			"errors":  appErr.Details,
		})
		return
	}

	c.JSON(appErr.Status, gin.H{
		"code":    appErr.Code,
		"message": appErr.Message,
		"error":   appErr.Message,
	})
}

// ErrorWithError sends an error response with a specific status and message
func ErrorWithError(c *gin.Context, status int, code string, message string) {
	c.JSON(status, gin.H{
		"code":    code,
		"message": message,
		"error":   message,
	})
}

// AbortWithError renders err and stops the handler chain
func AbortWithError(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}
