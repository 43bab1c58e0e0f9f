package services

import (
	"context"

	"github.com/SscSPs/vizinhomais/internal/core/domain"
	"github.com/SscSPs/vizinhomais/internal/dto"
)

// LedgerWriterSvc appends movements with bounded retry on transient storage failures.
// It performs no authorization; callers are the redemption coordinator and its tests.
type LedgerWriterSvc interface {
	Append(ctx context.Context, movement domain.Movement) (*domain.Movement, error)
}

// LedgerReaderSvc reads the ledger on behalf of a principal.
type LedgerReaderSvc interface {
	// ListMovements returns one page of the ledger, restricted to what the principal may read.
	ListMovements(ctx context.Context, principal domain.Principal, params dto.ListMovementsParams) (*dto.ListMovementsResponse, error)
}

// LedgerSvcFacade combines all ledger service interfaces.
type LedgerSvcFacade interface {
	LedgerWriterSvc
	LedgerReaderSvc
}
