package services

import (
	"context"

	"github.com/SscSPs/vizinhomais/internal/core/domain"
)

// AuthorizationGateSvc validates operator credentials for store-side movements.
type AuthorizationGateSvc interface {
	// Authorize resolves the single active operator of storeID matching credentialCode.
	// It fails with apperrors.ErrStoreSuspended or apperrors.ErrInvalidCredential.
	Authorize(ctx context.Context, storeID string, credentialCode string) (*domain.Operator, error)
}
