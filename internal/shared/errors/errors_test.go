package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructors_MapStatusCodes(t *testing.T) {
	tests := []struct {
		err  *AppError
		code int
		typ  ErrorType
	}{
		{NewValidationError("x"), http.StatusBadRequest, ErrorTypeValidation},
		{NewBadRequestError("x"), http.StatusBadRequest, ErrorTypeBadRequest},
		{NewUnauthorizedError("x"), http.StatusUnauthorized, ErrorTypeUnauthorized},
		{NewForbiddenError("x"), http.StatusForbidden, ErrorTypeForbidden},
		{NewNotFoundError("x"), http.StatusNotFound, ErrorTypeNotFound},
		{NewConflictError("x"), http.StatusConflict, ErrorTypeConflict},
		{NewTooManyRequestsError("x"), http.StatusTooManyRequests, ErrorTypeTooManyRequests},
		{NewInternalError("x"), http.StatusInternalServerError, ErrorTypeInternal},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.typ, tt.err.Type)
		})
	}
}

func TestGetAppError_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", NewConflictError("version mismatch", "expected 2"))

	assert.True(t, IsAppError(wrapped))
	assert.True(t, IsConflictError(wrapped))
	assert.False(t, IsNotFoundError(wrapped))
	assert.Equal(t, "conflict: version mismatch (expected 2)", GetAppError(wrapped).Error())
	assert.Nil(t, GetAppError(fmt.Errorf("plain")))
}
