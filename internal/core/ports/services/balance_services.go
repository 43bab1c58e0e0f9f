package services

import (
	"context"

	"github.com/SscSPs/vizinhomais/internal/core/domain"
	"github.com/SscSPs/vizinhomais/internal/dto"
)

// BalanceSvc derives balances from the ledger for presentation.
type BalanceSvc interface {
	// GetCustomerBalances returns display balances; only administrators see raw negative values.
	GetCustomerBalances(ctx context.Context, principal domain.Principal, customerID string) (*dto.BalanceResponse, error)
}
