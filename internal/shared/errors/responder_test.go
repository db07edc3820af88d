package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func respond(t *testing.T, err error) (*httptest.ResponseRecorder, ErrorResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/customers/1", nil)
	DefaultResponder.RespondError(c, err)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestRespondError_NotFoundKeepsCatalogMessage(t *testing.T) {
	rec, body := respond(t, fmt.Errorf("lookup: %w", NewNotFound(ML1102, 1)))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, http.StatusNotFound, body.HTTPCode)
	assert.Equal(t, "ML-1102", body.InternalCode)
	assert.Equal(t, "Customer with the id [1] doesn't exist", body.Message)
	assert.Empty(t, body.Errors)
}

func TestRespondError_ValidationListsFields(t *testing.T) {
	rec, body := respond(t, NewValidation(FieldError{Field: "email", Message: "Email already in use"}))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "ML-0001", body.InternalCode)
	assert.Equal(t, "Fields errors", body.Message)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "email", body.Errors[0].Field)
}

func TestRespondError_HidesUnknownErrors(t *testing.T) {
	rec, body := respond(t, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "ML-999", body.InternalCode)
	assert.NotContains(t, body.Message, "pq")
}

func TestRespondError_UsesErrorStatus(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{NewForbidden(), http.StatusForbidden},
		{NewConflict(ML1002, "DELETED"), http.StatusConflict},
		{NewUnauthorized(""), http.StatusUnauthorized},
		{NewTooManyRequests(), http.StatusTooManyRequests},
	}
	for _, tc := range cases {
		rec, body := respond(t, tc.err)
		assert.Equal(t, tc.code, rec.Code)
		assert.Equal(t, tc.code, body.HTTPCode)
	}
}
