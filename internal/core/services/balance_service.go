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
)

type balanceService struct {
	BaseService
	movementRepo portsrepo.MovementReader
	customerRepo portsrepo.CustomerReader
	now          Clock
}

// NewBalanceService creates the balance view service.
func NewBalanceService(movementRepo portsrepo.MovementReader, customerRepo portsrepo.CustomerReader, clock Clock) portssvc.BalanceSvc {
	if clock == nil {
		clock = systemClock
	}
	return &balanceService{movementRepo: movementRepo, customerRepo: customerRepo, now: clock}
}

var _ portssvc.BalanceSvc = (*balanceService)(nil)

func (s *balanceService) GetCustomerBalances(ctx context.Context, principal domain.Principal, customerID string) (*dto.BalanceResponse, error) {
	if !principal.CanViewCustomer(customerID) {
		return nil, fmt.Errorf("%w: customer %s", apperrors.ErrForbidden, customerID)
	}
	if _, err := s.customerRepo.FindCustomerByID(ctx, customerID); err != nil {
		return nil, err
	}

	movements, err := s.movementRepo.ListCustomerMovements(ctx, customerID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load customer movements", slog.String("customer_id", customerID))
		return nil, err
	}

	now := s.now()
	raw := accounting.ComputeBalances(movements, domain.MaturationWindow, now)
	anomalous := raw.IsAnomalous()
	if anomalous {
		s.LogWarn(ctx, "Customer available balance is negative",
			slog.String("customer_id", customerID),
			slog.String("available", utils.FormatAmount(raw.Available)),
			slog.String("total", utils.FormatAmount(raw.Total)))
	}

	resp := &dto.BalanceResponse{CustomerID: customerID, ComputedAt: now}
	if principal.SeesRawBalances() {
		resp.Total = raw.Total
		resp.Available = raw.Available
		resp.Pending = raw.Pending()
		resp.Anomalous = &anomalous
		return resp, nil
	}

	shown := raw.Clamped()
	resp.Total = shown.Total
	resp.Available = shown.Available
	resp.Pending = shown.Pending()
	return resp, nil
}
