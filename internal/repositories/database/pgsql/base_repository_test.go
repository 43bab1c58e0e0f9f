package pgsql

import (
	"errors"
	"fmt"
	"testing"

	"github.com/SscSPs/vizinhomais/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "no rows", err: pgx.ErrNoRows, want: apperrors.ErrNotFound},
		{name: "unique violation", err: &pgconn.PgError{Code: "23505"}, want: apperrors.ErrDuplicate},
		{name: "foreign key violation", err: &pgconn.PgError{Code: "23503"}, want: apperrors.ErrValidation},
		{name: "lock timeout", err: &pgconn.PgError{Code: "55P03"}, want: apperrors.ErrRedemptionBusy},
		{name: "serialization failure", err: &pgconn.PgError{Code: "40001"}, want: apperrors.ErrTransient},
		{name: "deadlock", err: &pgconn.PgError{Code: "40P01"}, want: apperrors.ErrTransient},
		{name: "connection failure", err: &pgconn.PgError{Code: "08006"}, want: apperrors.ErrTransient},
		{name: "wrapped driver error", err: fmt.Errorf("exec: %w", &pgconn.PgError{Code: "40001"}), want: apperrors.ErrTransient},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, classifyError("op", tt.err), tt.want)
		})
	}
}

func TestClassifyError_Permanent(t *testing.T) {
	err := classifyError("op", &pgconn.PgError{Code: "42P01"})
	assert.False(t, apperrors.IsRetryable(err))
	var appErr *apperrors.AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, 500, appErr.Code)

	assert.NoError(t, classifyError("op", nil))
}
