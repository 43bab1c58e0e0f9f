package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// MaturationWindow is the delay after which an earned amount becomes spendable.
// It is shared network-wide and is not configurable per store or customer.
const MaturationWindow = 48 * time.Hour

// MovementKind determines the effect of a movement on the balances.
type MovementKind string

const (
	Earn    MovementKind = "EARN"
	Reverse MovementKind = "REVERSE"
	Redeem  MovementKind = "REDEEM"
)

// Valid reports whether k is one of the known kinds.
func (k MovementKind) Valid() bool {
	switch k {
	case Earn, Reverse, Redeem:
		return true
	}
	return false
}

// MaturityStatus tells whether an earned amount can already be spent.
type MaturityStatus string

const (
	Pending   MaturityStatus = "PENDING"
	Available MaturityStatus = "AVAILABLE"
)

// Movement is a single immutable ledger entry.
type Movement struct {
	MovementID     string          `json:"movementID"`
	Kind           MovementKind    `json:"kind"`
	SaleAmount     decimal.Decimal `json:"saleAmount"`     // Zero for REVERSE and REDEEM
	CashbackAmount decimal.Decimal `json:"cashbackAmount"` // Never negative; the sign comes from Kind
	CustomerID     string          `json:"customerID"`
	StoreID        string          `json:"storeID"`
	StoreName      string          `json:"storeName"` // Denormalized label, not authoritative
	OccurredAt     time.Time       `json:"occurredAt"`
	OriginDocument *string         `json:"originDocument,omitempty"`
	OperatorID     *string         `json:"operatorID,omitempty"`
	OperatorName   *string         `json:"operatorName,omitempty"`
}

// AvailableAt returns the instant from which the movement counts towards the available balance.
func (m Movement) AvailableAt() time.Time {
	if m.Kind == Earn {
		return m.OccurredAt.Add(MaturationWindow)
	}
	return m.OccurredAt
}

// MaturityStatus reports whether the movement has matured at now.
func (m Movement) MaturityStatus(now time.Time) MaturityStatus {
	if now.Sub(m.OccurredAt) >= MaturationWindow || m.Kind != Earn {
		return Available
	}
	return Pending
}

// Validate checks the invariants a movement must satisfy before it may be appended.
func (m Movement) Validate() error {
	if !m.Kind.Valid() {
		return fmt.Errorf("unknown movement kind %q", m.Kind)
	}
	if m.CustomerID == "" {
		return fmt.Errorf("customer is required")
	}
	if m.StoreID == "" {
		return fmt.Errorf("store is required")
	}
	if m.CashbackAmount.IsNegative() {
		return fmt.Errorf("cashback amount must not be negative, got %s", m.CashbackAmount)
	}
	if m.SaleAmount.IsNegative() {
		return fmt.Errorf("sale amount must not be negative, got %s", m.SaleAmount)
	}
	switch m.Kind {
	case Earn:
		if !m.SaleAmount.IsPositive() {
			return fmt.Errorf("earn movement requires a positive sale amount")
		}
	case Reverse, Redeem:
		if !m.SaleAmount.IsZero() {
			return fmt.Errorf("%s movement must not carry a sale amount", m.Kind)
		}
		if !m.CashbackAmount.IsPositive() {
			return fmt.Errorf("%s movement requires a positive amount", m.Kind)
		}
	}
	return nil
}
