package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Movement is a row of the append-only movements table.
type Movement struct {
	MovementID     string          `db:"movement_id"`
	Kind           string          `db:"kind"`
	SaleAmount     decimal.Decimal `db:"sale_amount"`
	CashbackAmount decimal.Decimal `db:"cashback_amount"`
	CustomerID     string          `db:"customer_id"`
	StoreID        string          `db:"store_id"`
	StoreName      string          `db:"store_name"`
	OccurredAt     time.Time       `db:"occurred_at"`
	OriginDocument sql.NullString  `db:"origin_document"`
	OperatorID     sql.NullString  `db:"operator_id"`
	OperatorName   sql.NullString  `db:"operator_name"`
}
