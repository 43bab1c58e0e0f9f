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
	"github.com/SscSPs/vizinhomais/internal/utils"
	"github.com/SscSPs/vizinhomais/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventMovementCommitted is the analytics event emitted after every committed movement.
const EventMovementCommitted = "movement_committed"

// Analytics receives fire-and-forget product events.
type Analytics interface {
	Enqueue(distinctID string, event string, properties map[string]any)
}

type noopAnalytics struct{}

func (noopAnalytics) Enqueue(string, string, map[string]any) {}

// RedemptionOption configures the redemption coordinator.
type RedemptionOption func(*redemptionCoordinator)

// WithRedemptionClock overrides the clock used to fold balances.
func WithRedemptionClock(clock Clock) RedemptionOption {
	return func(c *redemptionCoordinator) { c.now = clock }
}

// WithRedemptionRetry overrides the retry policy of the redemption critical section.
func WithRedemptionRetry(cfg RetryConfig) RedemptionOption {
	return func(c *redemptionCoordinator) { c.retry = cfg }
}

// WithAnalytics sets the sink for committed-movement events.
func WithAnalytics(a Analytics) RedemptionOption {
	return func(c *redemptionCoordinator) {
		if a != nil {
			c.analytics = a
		}
	}
}

type redemptionCoordinator struct {
	BaseService
	ledger       portssvc.LedgerWriterSvc
	movementRepo portsrepo.CustomerScopeSupport
	storeRepo    portsrepo.StoreReader
	customerRepo portsrepo.CustomerReader
	gate         portssvc.AuthorizationGateSvc
	analytics    Analytics
	retry        RetryConfig
	now          Clock
}

// NewRedemptionCoordinator wires the coordinator. Earnings and reversals go through the ledger
// service; redemptions run inside the repository's per-customer scope.
func NewRedemptionCoordinator(
	ledger portssvc.LedgerWriterSvc,
	movementRepo portsrepo.CustomerScopeSupport,
	directory portsrepo.DirectoryRepositoryFacade,
	gate portssvc.AuthorizationGateSvc,
	opts ...RedemptionOption,
) portssvc.RedemptionSvc {
	c := &redemptionCoordinator{
		ledger:       ledger,
		movementRepo: movementRepo,
		storeRepo:    directory,
		customerRepo: directory,
		gate:         gate,
		analytics:    noopAnalytics{},
		retry:        DefaultRetryConfig(),
		now:          systemClock,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ portssvc.RedemptionSvc = (*redemptionCoordinator)(nil)

func (c *redemptionCoordinator) Submit(ctx context.Context, principal domain.Principal, req dto.SubmitMovementRequest) (*domain.Movement, error) {
	if !req.Kind.Valid() {
		return nil, fmt.Errorf("%w: unknown movement kind %q", apperrors.ErrInvariant, req.Kind)
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive, got %s", apperrors.ErrInvariant, req.Amount)
	}
	if !utils.HasCurrencyPrecision(req.Amount) {
		return nil, fmt.Errorf("%w: amount %s has more than %d decimal places", apperrors.ErrInvariant, req.Amount, utils.CurrencyPrecision)
	}
	if !principal.CanSubmit(req.Kind, req.StoreID) {
		return nil, fmt.Errorf("%w: %s principal cannot submit %s for store %s", apperrors.ErrForbidden, principal.Role(), req.Kind, req.StoreID)
	}

	operator, err := c.gate.Authorize(ctx, req.StoreID, req.OperatorCode)
	if err != nil {
		c.LogInfo(ctx, "Movement rejected by authorization gate",
			slog.String("store_id", req.StoreID),
			slog.String("kind", string(req.Kind)),
			slog.String("error", err.Error()))
		return nil, err
	}

	customer, err := c.customerRepo.FindCustomerByID(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}
	if !customer.IsActive && req.Kind != domain.Reverse {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrCustomerInactive, req.CustomerID)
	}

	store, err := c.storeRepo.FindStoreByID(ctx, req.StoreID)
	if err != nil {
		return nil, err
	}

	var committed *domain.Movement
	switch req.Kind {
	case domain.Earn:
		committed, err = c.earn(ctx, req, store, operator)
	case domain.Reverse:
		committed, err = c.ledger.Append(ctx, c.newMovement(req, store, operator, req.Amount))
	case domain.Redeem:
		committed, err = c.redeem(ctx, req, store)
	}
	if err != nil {
		return nil, err
	}

	c.analytics.Enqueue(principal.Subject(), EventMovementCommitted, map[string]any{
		"movement_id": committed.MovementID,
		"kind":        string(committed.Kind),
		"store_id":    committed.StoreID,
		"cashback":    utils.FormatAmount(committed.CashbackAmount),
	})
	return committed, nil
}

func (c *redemptionCoordinator) earn(ctx context.Context, req dto.SubmitMovementRequest, store *domain.Store, operator *domain.Operator) (*domain.Movement, error) {
	cashback, err := accounting.CalculateCashback(req.Amount, store.CashbackPercent)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvariant, err)
	}
	movement := c.newMovement(req, store, operator, cashback)
	movement.SaleAmount = req.Amount
	return c.ledger.Append(ctx, movement)
}

// redeem runs the check-then-append sequence inside the customer's critical section.
// A transient failure retries the whole section, so the balance is always re-read. The movement id
// is fixed across attempts and an attempt that finds it already committed returns that record.
func (c *redemptionCoordinator) redeem(ctx context.Context, req dto.SubmitMovementRequest, store *domain.Store) (*domain.Movement, error) {
	movementID := uuid.NewString()

	return retryTransient(ctx, c.retry, func() (*domain.Movement, error) {
		var committed *domain.Movement
		err := c.movementRepo.WithCustomerScope(ctx, req.CustomerID, func(ctx context.Context, scope portsrepo.CustomerScope) error {
			history, err := scope.ListCustomerMovements(ctx)
			if err != nil {
				return err
			}
			// An earlier attempt may have committed before its acknowledgement was lost.
			for i := range history {
				if history[i].MovementID == movementID {
					committed = &history[i]
					return nil
				}
			}

			// The operator may have been revoked while we waited for the lock.
			operator, err := c.gate.Authorize(ctx, req.StoreID, req.OperatorCode)
			if err != nil {
				return err
			}
			balances := accounting.ComputeBalances(history, domain.MaturationWindow, c.now())
			if req.Amount.GreaterThan(balances.Available) {
				return fmt.Errorf("%w: requested %s, available %s", apperrors.ErrInsufficientBalance,
					utils.FormatAmount(req.Amount), utils.FormatAmount(decimal.Max(balances.Available, decimal.Zero)))
			}

			movement := c.newMovement(req, store, operator, req.Amount)
			movement.MovementID = movementID
			if err := movement.Validate(); err != nil {
				return fmt.Errorf("%w: %v", apperrors.ErrInvariant, err)
			}
			committed, err = scope.AppendMovement(ctx, movement)
			return err
		})
		if err != nil {
			return nil, err
		}
		return committed, nil
	})
}

func (c *redemptionCoordinator) newMovement(req dto.SubmitMovementRequest, store *domain.Store, operator *domain.Operator, cashback decimal.Decimal) domain.Movement {
	operatorID := operator.OperatorID
	operatorName := operator.Name
	return domain.Movement{
		Kind:           req.Kind,
		SaleAmount:     decimal.Zero,
		CashbackAmount: cashback,
		CustomerID:     req.CustomerID,
		StoreID:        store.StoreID,
		StoreName:      store.Name,
		OriginDocument: req.OriginDocument,
		OperatorID:     &operatorID,
		OperatorName:   &operatorName,
	}
}
