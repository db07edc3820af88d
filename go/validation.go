package bookstoreserver

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	apierrors "github.com/Apurer/go-gin-bookstore/internal/shared/errors"
)

var registerTagNames sync.Once

// useJSONFieldNames makes validator report `customerId` instead of `CustomerID`.
func useJSONFieldNames() {
	registerTagNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return field.Name
			}
			return name
		})
	})
}

// bindJSON decodes and validates the body, answering 422 with field errors on failure.
func bindJSON(c *gin.Context, payload any) bool {
	useJSONFieldNames()
	if err := c.ShouldBindJSON(payload); err != nil {
		respondError(c, toValidationError(err))
		return false
	}
	return true
}

func toValidationError(err error) *apierrors.ValidationError {
	var invalid validator.ValidationErrors
	if errors.As(err, &invalid) {
		fields := make([]apierrors.FieldError, 0, len(invalid))
		for _, fe := range invalid {
			fields = append(fields, apierrors.FieldError{Field: fe.Field(), Message: describe(fe)})
		}
		return apierrors.NewValidation(fields...)
	}
	return apierrors.NewValidation(apierrors.FieldError{Field: "body", Message: err.Error()})
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s must be informed", fe.Field())
	case "email":
		return "Email must be valid"
	case "min":
		return fmt.Sprintf("%s must have at least %s", fe.Field(), fe.Param())
	case "gt", "gte":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag())
}
