package accounting

import (
	"fmt"
	"time"

	"github.com/SscSPs/vizinhomais/internal/core/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ComputeBalances folds a movement sequence into total and available balances.
// The result does not depend on the order of movements.
//
// EARN adds to Total, and to Available once it is at least window old at now.
// REVERSE and REDEEM subtract from both figures immediately, whatever their age.
func ComputeBalances(movements []domain.Movement, window time.Duration, now time.Time) domain.Balances {
	total := decimal.Zero
	available := decimal.Zero

	for _, mov := range movements {
		switch mov.Kind {
		case domain.Earn:
			total = total.Add(mov.CashbackAmount)
			if now.Sub(mov.OccurredAt) >= window {
				available = available.Add(mov.CashbackAmount)
			}
		case domain.Reverse, domain.Redeem:
			total = total.Sub(mov.CashbackAmount)
			available = available.Sub(mov.CashbackAmount)
		}
	}

	return domain.Balances{Total: total, Available: available}
}

// CalculateCashback derives the cashback of a sale from the store's percentage, rounded half-up to cents.
func CalculateCashback(saleAmount, cashbackPercent decimal.Decimal) (decimal.Decimal, error) {
	if saleAmount.IsNegative() {
		return decimal.Zero, fmt.Errorf("sale amount must not be negative, got %s", saleAmount)
	}
	if cashbackPercent.IsNegative() || cashbackPercent.GreaterThan(hundred) {
		return decimal.Zero, fmt.Errorf("cashback percent must be between 0 and 100, got %s", cashbackPercent)
	}
	return saleAmount.Mul(cashbackPercent).Div(hundred).Round(2), nil
}
