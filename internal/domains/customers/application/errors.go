package application

import (
	"errors"

	"github.com/Apurer/go-gin-bookstore/internal/domains/customers/domain"
	"github.com/Apurer/go-gin-bookstore/internal/domains/customers/ports"
	apierrors "github.com/Apurer/go-gin-bookstore/internal/shared/errors"
)

func notFound(id int64) error {
	return apierrors.NewNotFound(apierrors.ML1102, id)
}

func mapError(err error, id int64) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ports.ErrNotFound):
		return notFound(id)
	case errors.Is(err, ports.ErrEmailTaken):
		return apierrors.NewValidation(apierrors.FieldError{Field: "email", Message: "Email already in use"})
	case errors.Is(err, ports.ErrInvalidCredentials), errors.Is(err, ports.ErrSessionNotFound):
		return apierrors.NewUnauthorized(err.Error())
	case errors.Is(err, domain.ErrEmptyName):
		return fieldError("name", err)
	case errors.Is(err, domain.ErrInvalidEmail):
		return fieldError("email", err)
	case errors.Is(err, domain.ErrEmptyPassword), errors.Is(err, domain.ErrWeakPassword):
		return fieldError("password", err)
	case errors.Is(err, domain.ErrInvalidStatus):
		return fieldError("status", err)
	}
	return err
}

func fieldError(field string, err error) error {
	return apierrors.NewValidation(apierrors.FieldError{Field: field, Message: err.Error()})
}
