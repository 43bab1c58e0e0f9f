package mapping

import (
	"database/sql"

	"github.com/SscSPs/vizinhomais/internal/core/domain"
	"github.com/SscSPs/vizinhomais/internal/models"
)

func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func fromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// ToModelMovement converts a domain Movement to a model Movement
func ToModelMovement(d domain.Movement) models.Movement {
	return models.Movement{
		MovementID:     d.MovementID,
		Kind:           string(d.Kind),
		SaleAmount:     d.SaleAmount,
		CashbackAmount: d.CashbackAmount,
		CustomerID:     d.CustomerID,
		StoreID:        d.StoreID,
		StoreName:      d.StoreName,
		OccurredAt:     d.OccurredAt,
		OriginDocument: toNullString(d.OriginDocument),
		OperatorID:     toNullString(d.OperatorID),
		OperatorName:   toNullString(d.OperatorName),
	}
}

// ToDomainMovement converts a model Movement to a domain Movement
func ToDomainMovement(m models.Movement) domain.Movement {
	return domain.Movement{
		MovementID:     m.MovementID,
		Kind:           domain.MovementKind(m.Kind),
		SaleAmount:     m.SaleAmount,
		CashbackAmount: m.CashbackAmount,
		CustomerID:     m.CustomerID,
		StoreID:        m.StoreID,
		StoreName:      m.StoreName,
		OccurredAt:     m.OccurredAt.UTC(),
		OriginDocument: fromNullString(m.OriginDocument),
		OperatorID:     fromNullString(m.OperatorID),
		OperatorName:   fromNullString(m.OperatorName),
	}
}

// ToDomainMovementSlice converts a slice of model Movements to a slice of domain Movements
func ToDomainMovementSlice(ms []models.Movement) []domain.Movement {
	ds := make([]domain.Movement, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainMovement(m)
	}
	return ds
}
