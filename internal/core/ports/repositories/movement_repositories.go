package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/vizinhomais/internal/core/domain"
)

// MovementQuery narrows a ledger read. Nil fields do not filter.
type MovementQuery struct {
	CustomerID *string
	StoreID    *string
	Since      *time.Time
	Limit      int
	NextToken  *string
}

// MovementReader defines read operations over the ledger.
type MovementReader interface {
	// QueryMovements returns one page of movements ordered by OccurredAt descending,
	// plus a token to resume from, or nil when the sequence is exhausted.
	QueryMovements(ctx context.Context, query MovementQuery) ([]domain.Movement, *string, error)

	// ListCustomerMovements returns the full history of a customer.
	ListCustomerMovements(ctx context.Context, customerID string) ([]domain.Movement, error)
}

// MovementWriter defines the only write operation of the ledger. There is no update or delete.
type MovementWriter interface {
	// AppendMovement persists a movement, assigning OccurredAt and, when empty, MovementID.
	// Appending an id that is already committed returns the committed record.
	AppendMovement(ctx context.Context, movement domain.Movement) (*domain.Movement, error)
}

// CustomerScope is the view of the ledger available inside a per-customer critical section.
// Reads observe every movement committed before the section was entered.
type CustomerScope interface {
	ListCustomerMovements(ctx context.Context) ([]domain.Movement, error)
	AppendMovement(ctx context.Context, movement domain.Movement) (*domain.Movement, error)
}

// CustomerScopeSupport serializes check-then-append sequences per customer.
type CustomerScopeSupport interface {
	// WithCustomerScope runs fn while holding the customer's exclusive section.
	// Movements appended through the scope are committed only if fn returns nil.
	// A bounded wait for the section fails with apperrors.ErrRedemptionBusy.
	WithCustomerScope(ctx context.Context, customerID string, fn func(ctx context.Context, scope CustomerScope) error) error
}

// MovementRepositoryFacade combines all ledger repository interfaces.
type MovementRepositoryFacade interface {
	MovementReader
	MovementWriter
	CustomerScopeSupport
}
