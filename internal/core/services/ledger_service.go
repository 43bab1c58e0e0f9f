package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/vizinhomais/internal/apperrors"
	"github.com/SscSPs/vizinhomais/internal/core/domain"
	portsrepo "github.com/SscSPs/vizinhomais/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/vizinhomais/internal/core/ports/services"
	"github.com/SscSPs/vizinhomais/internal/dto"
	"github.com/google/uuid"
)

// LedgerOption configures the ledger service.
type LedgerOption func(*ledgerService)

// WithLedgerRetry overrides the retry policy for appends.
func WithLedgerRetry(cfg RetryConfig) LedgerOption {
	return func(s *ledgerService) { s.retry = cfg }
}

// WithLedgerClock overrides the clock used to derive maturity status in responses.
func WithLedgerClock(clock Clock) LedgerOption {
	return func(s *ledgerService) { s.now = clock }
}

type ledgerService struct {
	BaseService
	movementRepo portsrepo.MovementRepositoryFacade
	retry        RetryConfig
	now          Clock
}

// NewLedgerService creates the ledger service on top of a movement repository.
func NewLedgerService(repo portsrepo.MovementRepositoryFacade, opts ...LedgerOption) portssvc.LedgerSvcFacade {
	svc := &ledgerService{
		movementRepo: repo,
		retry:        DefaultRetryConfig(),
		now:          systemClock,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// Append validates and stores a movement, retrying transient storage failures.
// The movement id is fixed before the first attempt so a retry never duplicates a committed record.
func (s *ledgerService) Append(ctx context.Context, movement domain.Movement) (*domain.Movement, error) {
	if err := movement.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvariant, err)
	}
	if movement.MovementID == "" {
		movement.MovementID = uuid.NewString()
	}

	attempt := 0
	committed, err := retryTransient(ctx, s.retry, func() (*domain.Movement, error) {
		attempt++
		m, err := s.movementRepo.AppendMovement(ctx, movement)
		if err != nil && apperrors.IsRetryable(err) {
			s.LogWarn(ctx, "Transient failure appending movement",
				slog.String("movement_id", movement.MovementID),
				slog.Int("attempt", attempt),
				slog.String("error", err.Error()))
		}
		return m, err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to append movement",
			slog.String("movement_id", movement.MovementID),
			slog.String("customer_id", movement.CustomerID),
			slog.Int("attempts", attempt))
		return nil, err
	}

	s.LogInfo(ctx, "Movement appended",
		slog.String("movement_id", committed.MovementID),
		slog.String("kind", string(committed.Kind)),
		slog.String("customer_id", committed.CustomerID),
		slog.String("store_id", committed.StoreID))
	return committed, nil
}

// ListMovements reads one page of the ledger. Customers only ever see their own movements
// and store principals only those recorded at their store.
func (s *ledgerService) ListMovements(ctx context.Context, principal domain.Principal, params dto.ListMovementsParams) (*dto.ListMovementsResponse, error) {
	query := portsrepo.MovementQuery{
		Since:     params.Since,
		Limit:     params.Limit,
		NextToken: params.NextToken,
	}
	if params.CustomerID != "" {
		query.CustomerID = &params.CustomerID
	}
	if params.StoreID != "" {
		query.StoreID = &params.StoreID
	}

	switch p := principal.(type) {
	case domain.CustomerPrincipal:
		if query.CustomerID != nil && !p.CanViewCustomer(*query.CustomerID) {
			return nil, fmt.Errorf("%w: customer %s", apperrors.ErrForbidden, *query.CustomerID)
		}
		if query.StoreID != nil {
			return nil, fmt.Errorf("%w: customers cannot filter by store", apperrors.ErrForbidden)
		}
		own := p.CustomerID
		query.CustomerID = &own
	case domain.StorePrincipal:
		if query.StoreID != nil && !p.CanQueryStore(*query.StoreID) {
			return nil, fmt.Errorf("%w: store %s", apperrors.ErrForbidden, *query.StoreID)
		}
		own := p.StoreID
		query.StoreID = &own
	case domain.AdminPrincipal:
	default:
		return nil, fmt.Errorf("%w: unknown principal", apperrors.ErrForbidden)
	}

	movements, nextToken, err := s.movementRepo.QueryMovements(ctx, query)
	if err != nil {
		s.LogError(ctx, err, "Failed to query movements", slog.String("subject", principal.Subject()))
		return nil, err
	}

	return &dto.ListMovementsResponse{
		Movements: dto.ToMovementResponses(movements, s.now()),
		NextToken: nextToken,
	}, nil
}
