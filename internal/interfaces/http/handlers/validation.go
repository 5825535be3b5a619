package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"shortlink.backend/internal/domain/entities"
	domainerrors "shortlink.backend/internal/domain/errors"
)

var registerOnce sync.Once

func init() {
	RegisterValidators()
}

// RegisterValidators installs the custom binding tags on gin's validator and
// reports field errors under their JSON names.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return field.Name
			}
			return name
		})
		_ = v.RegisterValidation("shortcode", func(fl validator.FieldLevel) bool {
			return entities.IsValidShortCode(fl.Field().String())
		})
	})
}

func bindJSON(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		return translateBindError(err)
	}
	return nil
}

func bindQuery(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindQuery(obj); err != nil {
		return translateBindError(err)
	}
	return nil
}

func translateBindError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domainerrors.BadRequest("Invalid request body")
	}
	details := make([]domainerrors.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, domainerrors.FieldError{
			Field:   fe.Field(),
			Message: fieldMessage(fe),
		})
	}
	return domainerrors.Validation(details)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", fe.Field())
	case "shortcode":
		return fmt.Sprintf("%s may only contain letters, digits, '-' and '_' and must not be a reserved word", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
