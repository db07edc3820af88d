package application

import (
	"errors"

	"github.com/Apurer/go-gin-bookstore/internal/domains/purchases/domain"
	"github.com/Apurer/go-gin-bookstore/internal/domains/purchases/ports"
	apierrors "github.com/Apurer/go-gin-bookstore/internal/shared/errors"
)

func mapError(err error, id int64) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ports.ErrNotFound):
		return apierrors.NewNotFound(apierrors.ML1301, id)
	case errors.Is(err, domain.ErrInvalidCustomer):
		return apierrors.NewValidation(apierrors.FieldError{Field: "customerId", Message: err.Error()})
	case errors.Is(err, domain.ErrNoBooks):
		return apierrors.NewValidation(apierrors.FieldError{Field: "bookIds", Message: err.Error()})
	}
	return err
}
