package dto

import (
	"time"

	"github.com/SscSPs/vizinhomais/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SubmitMovementRequest is a point-of-sale request to earn, redeem or reverse cashback.
// Amount is the sale value for EARN and the cashback to remove for REDEEM and REVERSE.
type SubmitMovementRequest struct {
	Kind           domain.MovementKind `json:"kind" binding:"required,oneof=EARN REVERSE REDEEM"`
	CustomerID     string              `json:"customerID" binding:"required"`
	StoreID        string              `json:"storeID" binding:"required"`
	Amount         decimal.Decimal     `json:"amount"`
	OperatorCode   string              `json:"operatorCode" binding:"required,credential"`
	OriginDocument *string             `json:"originDocument" binding:"omitempty,max=64"` // Invoice or credit note number
}

// MovementResponse defines the data returned for a movement.
type MovementResponse struct {
	MovementID     string                `json:"movementID"`
	Kind           domain.MovementKind   `json:"kind"`
	SaleAmount     decimal.Decimal       `json:"saleAmount"`
	CashbackAmount decimal.Decimal       `json:"cashbackAmount"`
	CustomerID     string                `json:"customerID"`
	StoreID        string                `json:"storeID"`
	StoreName      string                `json:"storeName"`
	OccurredAt     time.Time             `json:"occurredAt"`
	AvailableAt    time.Time             `json:"availableAt"`
	Status         domain.MaturityStatus `json:"status"`
	OriginDocument *string               `json:"originDocument,omitempty"`
	OperatorID     *string               `json:"operatorID,omitempty"`
	OperatorName   *string               `json:"operatorName,omitempty"`
}

// ListMovementsParams defines the query parameters for reading the ledger.
type ListMovementsParams struct {
	CustomerID string     `form:"customerID"`
	StoreID    string     `form:"storeID"`
	Since      *time.Time `form:"since" time_format:"2006-01-02T15:04:05Z07:00"`
	Limit      int        `form:"limit,default=50" binding:"omitempty,min=1,max=200"`
	NextToken  *string    `form:"nextToken"`
}

// ListMovementsResponse wraps one page of movements.
type ListMovementsResponse struct {
	Movements []MovementResponse `json:"movements"`
	NextToken *string            `json:"nextToken,omitempty"`
}

// BalanceResponse carries the balances of a customer.
// Customers and stores receive figures clamped at zero; administrators receive raw figures and the anomaly flag.
type BalanceResponse struct {
	CustomerID string          `json:"customerID"`
	Total      decimal.Decimal `json:"total"`
	Available  decimal.Decimal `json:"available"`
	Pending    decimal.Decimal `json:"pending"`
	Anomalous  *bool           `json:"anomalous,omitempty"`
	ComputedAt time.Time       `json:"computedAt"`
}

// ToMovementResponse converts a domain.Movement to a MovementResponse DTO.
func ToMovementResponse(m *domain.Movement, now time.Time) MovementResponse {
	return MovementResponse{
		MovementID:     m.MovementID,
		Kind:           m.Kind,
		SaleAmount:     m.SaleAmount,
		CashbackAmount: m.CashbackAmount,
		CustomerID:     m.CustomerID,
		StoreID:        m.StoreID,
		StoreName:      m.StoreName,
		OccurredAt:     m.OccurredAt,
		AvailableAt:    m.AvailableAt(),
		Status:         m.MaturityStatus(now),
		OriginDocument: m.OriginDocument,
		OperatorID:     m.OperatorID,
		OperatorName:   m.OperatorName,
	}
}

// ToMovementResponses converts a slice of domain.Movement to []MovementResponse.
func ToMovementResponses(ms []domain.Movement, now time.Time) []MovementResponse {
	responses := make([]MovementResponse, len(ms))
	for i := range ms {
		responses[i] = ToMovementResponse(&ms[i], now)
	}
	return responses
}
