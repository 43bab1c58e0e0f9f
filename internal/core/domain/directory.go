package domain

import "github.com/shopspring/decimal"

// Store is a participating shop. Stores are never deleted so historical movements stay attributable.
type Store struct {
	StoreID         string          `json:"storeID"`
	Name            string          `json:"name"`
	TaxID           string          `json:"taxID"`
	CashbackPercent decimal.Decimal `json:"cashbackPercent"` // 0..100
	IsActive        bool            `json:"isActive"`        // false suspends write privileges
	AuditFields
}

// Customer is an enrolled shopper.
type Customer struct {
	CustomerID string `json:"customerID"`
	Name       string `json:"name"`
	TaxID      string `json:"taxID"` // Unique
	CardNumber string `json:"cardNumber"`
	IsActive   bool   `json:"isActive"`
	AuditFields
}

// Operator is a store employee allowed to authorize movements for exactly one store.
type Operator struct {
	OperatorID     string `json:"operatorID"`
	StoreID        string `json:"storeID"`
	Name           string `json:"name"`
	CredentialHash string `json:"-"` // bcrypt hash of the 5-digit code
	IsActive       bool   `json:"isActive"`
	AuditFields
}
