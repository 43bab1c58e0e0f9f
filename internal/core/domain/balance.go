package domain

import "github.com/shopspring/decimal"

// Balances holds the two figures derived from a customer's movements.
// Available is kept raw: a negative value means something overdrew the ledger.
type Balances struct {
	Total     decimal.Decimal `json:"total"`
	Available decimal.Decimal `json:"available"`
}

// Pending is the part of Total that has not matured yet.
func (b Balances) Pending() decimal.Decimal {
	p := b.Total.Sub(b.Available)
	if p.IsNegative() {
		return decimal.Zero
	}
	return p
}

// IsAnomalous reports a negative raw available balance.
func (b Balances) IsAnomalous() bool {
	return b.Available.IsNegative()
}

// Clamped returns the figures floored at zero, for display only.
// Authorization decisions must use the raw value.
func (b Balances) Clamped() Balances {
	return Balances{
		Total:     decimal.Max(b.Total, decimal.Zero),
		Available: decimal.Max(b.Available, decimal.Zero),
	}
}
