package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBook(t *testing.T) {
	b, err := NewBook(" Dom Casmurro ", 1050, 1)
	require.NoError(t, err)
	assert.Equal(t, "Dom Casmurro", b.Name)
	assert.Equal(t, StatusActive, b.Status)
	assert.True(t, b.Purchasable())

	_, err = NewBook("", 1050, 1)
	assert.ErrorIs(t, err, ErrEmptyName)
	_, err = NewBook("x", 0, 1)
	assert.ErrorIs(t, err, ErrInvalidPrice)
	_, err = NewBook("x", 10, 0)
	assert.ErrorIs(t, err, ErrInvalidOwner)
}

func TestEditable(t *testing.T) {
	for status, want := range map[Status]bool{
		StatusActive:   true,
		StatusSold:     true,
		StatusCanceled: false,
		StatusDeleted:  false,
	} {
		b := &Book{Status: status}
		assert.Equal(t, want, b.Editable(), status)
	}
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "10.50", FormatPrice(1050))
	assert.Equal(t, "0.05", FormatPrice(5))
	assert.Equal(t, "-1.00", FormatPrice(-100))
}
