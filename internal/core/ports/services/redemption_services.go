package services

import (
	"context"

	"github.com/SscSPs/vizinhomais/internal/core/domain"
	"github.com/SscSPs/vizinhomais/internal/dto"
)

// RedemptionSvc is the only entry point allowed to write movements on behalf of a principal.
type RedemptionSvc interface {
	// Submit authorizes and commits a single movement, or rejects it leaving the ledger untouched.
	Submit(ctx context.Context, principal domain.Principal, req dto.SubmitMovementRequest) (*domain.Movement, error)
}
