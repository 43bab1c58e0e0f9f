// Package memory provides an in-process implementation of the ledger and directory repositories.
// It is used by tests and by the "memory" database driver for local development.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/vizinhomais/internal/apperrors"
	"github.com/SscSPs/vizinhomais/internal/core/domain"
	portsrepo "github.com/SscSPs/vizinhomais/internal/core/ports/repositories"
	"github.com/SscSPs/vizinhomais/internal/utils/pagination"
	"github.com/google/uuid"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used to stamp OccurredAt.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) { s.clock = clock }
}

// WithLockTimeout bounds the wait for a customer's critical section.
func WithLockTimeout(d time.Duration) Option {
	return func(s *Store) { s.lockTimeout = d }
}

// WithAppendHook installs a function called before every append; a non-nil error aborts the append.
func WithAppendHook(hook func(domain.Movement) error) Option {
	return func(s *Store) { s.appendHook = hook }
}

// Store keeps movements and directory records in memory. Safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	movements []domain.Movement
	byID      map[string]int
	stores    map[string]domain.Store
	customers map[string]domain.Customer
	operators map[string]domain.Operator

	locksMu       sync.Mutex
	customerLocks map[string]chan struct{}

	clock       func() time.Time
	lockTimeout time.Duration
	appendHook  func(domain.Movement) error
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		byID:          make(map[string]int),
		stores:        make(map[string]domain.Store),
		customers:     make(map[string]domain.Customer),
		operators:     make(map[string]domain.Operator),
		customerLocks: make(map[string]chan struct{}),
		clock:         func() time.Time { return time.Now().UTC() },
		lockTimeout:   2 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var (
	_ portsrepo.MovementRepositoryFacade  = (*Store)(nil)
	_ portsrepo.DirectoryRepositoryFacade = (*Store)(nil)
)

// --- ledger ---

// AppendMovement stores a movement. OccurredAt always comes from the store clock.
func (s *Store) AppendMovement(ctx context.Context, movement domain.Movement) (*domain.Movement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendLocked(movement)
}

func (s *Store) appendLocked(movement domain.Movement) (*domain.Movement, error) {
	if movement.MovementID == "" {
		movement.MovementID = uuid.NewString()
	}
	if idx, ok := s.byID[movement.MovementID]; ok {
		existing := s.movements[idx]
		return &existing, nil
	}
	if s.appendHook != nil {
		if err := s.appendHook(movement); err != nil {
			return nil, err
		}
	}
	movement.OccurredAt = s.clock().UTC().Truncate(time.Microsecond)
	s.byID[movement.MovementID] = len(s.movements)
	s.movements = append(s.movements, movement)
	return &movement, nil
}

// QueryMovements returns one page ordered by OccurredAt descending.
func (s *Store) QueryMovements(ctx context.Context, query portsrepo.MovementQuery) ([]domain.Movement, *string, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	var cursor *pagination.Cursor
	if query.NextToken != nil && *query.NextToken != "" {
		c, err := pagination.DecodeToken(*query.NextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		cursor = &c
	}
	limit := pagination.NormalizeLimit(query.Limit, defaultPageSize, maxPageSize)

	s.mu.RLock()
	matched := make([]domain.Movement, 0)
	for _, m := range s.movements {
		if query.CustomerID != nil && m.CustomerID != *query.CustomerID {
			continue
		}
		if query.StoreID != nil && m.StoreID != *query.StoreID {
			continue
		}
		if query.Since != nil && m.OccurredAt.Before(*query.Since) {
			continue
		}
		if cursor != nil && !cursor.Before(m.OccurredAt, m.MovementID) {
			continue
		}
		matched = append(matched, m)
	}
	s.mu.RUnlock()

	sortDescending(matched)

	var nextToken *string
	if len(matched) > limit {
		matched = matched[:limit]
		last := matched[limit-1]
		token := pagination.EncodeToken(last.OccurredAt, last.MovementID)
		nextToken = &token
	}
	return matched, nextToken, nil
}

// ListCustomerMovements returns the full history of a customer.
func (s *Store) ListCustomerMovements(ctx context.Context, customerID string) ([]domain.Movement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.customerMovementsLocked(customerID), nil
}

func (s *Store) customerMovementsLocked(customerID string) []domain.Movement {
	out := make([]domain.Movement, 0)
	for _, m := range s.movements {
		if m.CustomerID == customerID {
			out = append(out, m)
		}
	}
	sortDescending(out)
	return out
}

// WithCustomerScope runs fn holding the customer's lock. Appends are staged and committed when fn succeeds.
func (s *Store) WithCustomerScope(ctx context.Context, customerID string, fn func(ctx context.Context, scope portsrepo.CustomerScope) error) error {
	lock := s.customerLock(customerID)

	timer := time.NewTimer(s.lockTimeout)
	defer timer.Stop()
	select {
	case lock <- struct{}{}:
	case <-timer.C:
		return fmt.Errorf("%w: customer %s", apperrors.ErrRedemptionBusy, customerID)
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-lock }()

	scope := &customerScope{store: s, customerID: customerID}
	if err := fn(ctx, scope); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, staged := range scope.staged {
		committed, err := s.appendLocked(staged)
		if err != nil {
			return err
		}
		*scope.results[i] = *committed
	}
	return nil
}

func (s *Store) customerLock(customerID string) chan struct{} {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	lock, ok := s.customerLocks[customerID]
	if !ok {
		lock = make(chan struct{}, 1)
		s.customerLocks[customerID] = lock
	}
	return lock
}

type customerScope struct {
	store      *Store
	customerID string
	staged     []domain.Movement
	results    []*domain.Movement
}

func (c *customerScope) ListCustomerMovements(ctx context.Context) ([]domain.Movement, error) {
	return c.store.ListCustomerMovements(ctx, c.customerID)
}

// AppendMovement stages a movement. The returned record is filled in when the scope commits.
func (c *customerScope) AppendMovement(ctx context.Context, movement domain.Movement) (*domain.Movement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if movement.CustomerID != c.customerID {
		return nil, fmt.Errorf("%w: movement for customer %s appended in scope of %s", apperrors.ErrInvariant, movement.CustomerID, c.customerID)
	}
	if movement.MovementID == "" {
		movement.MovementID = uuid.NewString()
	}
	result := movement
	c.staged = append(c.staged, movement)
	c.results = append(c.results, &result)
	return &result, nil
}

func sortDescending(ms []domain.Movement) {
	sort.Slice(ms, func(i, j int) bool {
		if ms[i].OccurredAt.Equal(ms[j].OccurredAt) {
			return ms[i].MovementID > ms[j].MovementID
		}
		return ms[i].OccurredAt.After(ms[j].OccurredAt)
	})
}

// --- directory ---

func (s *Store) FindStoreByID(ctx context.Context, storeID string) (*domain.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.stores[storeID]
	if !ok {
		return nil, fmt.Errorf("%w: store %s", apperrors.ErrNotFound, storeID)
	}
	return &st, nil
}

func (s *Store) SaveStore(ctx context.Context, store domain.Store) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.stores[store.StoreID]; ok {
		return fmt.Errorf("%w: store %s", apperrors.ErrDuplicate, store.StoreID)
	}
	s.stores[store.StoreID] = store
	return nil
}

func (s *Store) UpdateStore(ctx context.Context, store domain.Store) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.stores[store.StoreID]; !ok {
		return fmt.Errorf("%w: store %s", apperrors.ErrNotFound, store.StoreID)
	}
	s.stores[store.StoreID] = store
	return nil
}

func (s *Store) FindCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.customers[customerID]
	if !ok {
		return nil, fmt.Errorf("%w: customer %s", apperrors.ErrNotFound, customerID)
	}
	return &c, nil
}

func (s *Store) FindCustomerByCardNumber(ctx context.Context, cardNumber string) (*domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.customers {
		if c.CardNumber == cardNumber {
			found := c
			return &found, nil
		}
	}
	return nil, fmt.Errorf("%w: card %s", apperrors.ErrNotFound, cardNumber)
}

func (s *Store) SaveCustomer(ctx context.Context, customer domain.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.customers {
		if c.CustomerID == customer.CustomerID || c.TaxID == customer.TaxID || c.CardNumber == customer.CardNumber {
			return fmt.Errorf("%w: customer with tax id %s or card %s", apperrors.ErrDuplicate, customer.TaxID, customer.CardNumber)
		}
	}
	s.customers[customer.CustomerID] = customer
	return nil
}

func (s *Store) UpdateCustomer(ctx context.Context, customer domain.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.customers[customer.CustomerID]; !ok {
		return fmt.Errorf("%w: customer %s", apperrors.ErrNotFound, customer.CustomerID)
	}
	s.customers[customer.CustomerID] = customer
	return nil
}

func (s *Store) FindOperatorByID(ctx context.Context, operatorID string) (*domain.Operator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.operators[operatorID]
	if !ok {
		return nil, fmt.Errorf("%w: operator %s", apperrors.ErrNotFound, operatorID)
	}
	return &o, nil
}

func (s *Store) ListActiveOperatorsByStore(ctx context.Context, storeID string) ([]domain.Operator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Operator, 0)
	for _, o := range s.operators {
		if o.StoreID == storeID && o.IsActive {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OperatorID < out[j].OperatorID })
	return out, nil
}

func (s *Store) SaveOperator(ctx context.Context, operator domain.Operator) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.operators[operator.OperatorID]; ok {
		return fmt.Errorf("%w: operator %s", apperrors.ErrDuplicate, operator.OperatorID)
	}
	s.operators[operator.OperatorID] = operator
	return nil
}

func (s *Store) UpdateOperator(ctx context.Context, operator domain.Operator) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.operators[operator.OperatorID]; !ok {
		return fmt.Errorf("%w: operator %s", apperrors.ErrNotFound, operator.OperatorID)
	}
	s.operators[operator.OperatorID] = operator
	return nil
}
