package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/SscSPs/vizinhomais/internal/apperrors"
	"github.com/stretchr/testify/assert"
)

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: wrapped", apperrors.ErrInvalidCredential), http.StatusUnauthorized},
		{apperrors.ErrCustomerInactive, http.StatusForbidden},
		{apperrors.ErrDuplicate, http.StatusConflict},
		{apperrors.ErrValidation, http.StatusBadRequest},
		{apperrors.NewAppError(500, "append movement", errors.New("disk full")), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		got, msg := errorStatus(tt.err)
		assert.Equal(t, tt.want, got, tt.err.Error())
		if got == http.StatusInternalServerError {
			assert.Empty(t, msg, "internal details must not leak")
		}
	}
}
