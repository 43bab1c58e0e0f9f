package models

import "github.com/shopspring/decimal"

// Store is a row of the stores table.
type Store struct {
	StoreID         string          `db:"store_id"`
	Name            string          `db:"name"`
	TaxID           string          `db:"tax_id"`
	CashbackPercent decimal.Decimal `db:"cashback_percent"`
	IsActive        bool            `db:"is_active"`
	AuditFields
}

// Customer is a row of the customers table.
type Customer struct {
	CustomerID string `db:"customer_id"`
	Name       string `db:"name"`
	TaxID      string `db:"tax_id"`
	CardNumber string `db:"card_number"`
	IsActive   bool   `db:"is_active"`
	AuditFields
}

// Operator is a row of the operators table.
type Operator struct {
	OperatorID     string `db:"operator_id"`
	StoreID        string `db:"store_id"`
	Name           string `db:"name"`
	CredentialHash string `db:"credential_hash"`
	IsActive       bool   `db:"is_active"`
	AuditFields
}
