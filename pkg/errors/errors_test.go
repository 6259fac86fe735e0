package errors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCodeMapping(t *testing.T) {
	tests := []struct {
		err  *AppError
		want int
	}{
		{NewBadRequestError("bad"), http.StatusBadRequest},
		{NewValidationError("invalid"), http.StatusBadRequest},
		{NewRecipeNotFoundError("rec-1"), http.StatusNotFound},
		{NewInternalError(""), http.StatusInternalServerError},
		{NewExternalServiceError("record store", errors.New("boom")), http.StatusInternalServerError},
		{NewConfigurationError("missing key"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.StatusCode(), tt.err.Code)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying")
	wrapped := Wrap(cause, "something failed")
	require.NotNil(t, wrapped)
	assert.Equal(t, CodeInternal, wrapped.Code)
	assert.ErrorIs(t, wrapped, cause)

	appErr := NewValidationError("bad input")
	assert.Same(t, appErr, Wrap(appErr, "ignored"))

	assert.Nil(t, Wrap(nil, "ignored"))
}

func TestToErrorResponseStripsDetails(t *testing.T) {
	err := NewRecipeNotFoundError("rec-1")

	full := ToErrorResponse(err, "req-123", true)
	assert.Equal(t, "req-123", full.Error.RequestID)
	assert.NotEmpty(t, full.Error.Details)
	assert.NotEmpty(t, full.Error.Metadata)

	stripped := ToErrorResponse(err, "req-123", false)
	assert.Empty(t, stripped.Error.Details)
	assert.Empty(t, stripped.Error.Metadata)
	assert.Equal(t, err.Code, stripped.Error.Code)
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, CodeValidationFailed, GetCode(NewValidationError("x")))
	assert.Equal(t, CodeInternal, GetCode(errors.New("plain")))
}
