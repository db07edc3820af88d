package application

import (
	"errors"

	"github.com/Apurer/go-gin-bookstore/internal/domains/books/domain"
	"github.com/Apurer/go-gin-bookstore/internal/domains/books/ports"
	apierrors "github.com/Apurer/go-gin-bookstore/internal/shared/errors"
)

func mapError(err error, id int64) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ports.ErrNotFound):
		return apierrors.NewNotFound(apierrors.ML1001, id)
	case errors.Is(err, domain.ErrEmptyName):
		return fieldError("name", err)
	case errors.Is(err, domain.ErrInvalidPrice):
		return fieldError("price", err)
	case errors.Is(err, domain.ErrInvalidOwner):
		return fieldError("customerId", err)
	case errors.Is(err, domain.ErrInvalidStatus):
		return fieldError("status", err)
	}
	return err
}

func fieldError(field string, err error) error {
	return apierrors.NewValidation(apierrors.FieldError{Field: field, Message: err.Error()})
}
