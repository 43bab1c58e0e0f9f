package dto

import (
	"time"

	"github.com/SscSPs/vizinhomais/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateStoreRequest defines the data needed to onboard a store.
type CreateStoreRequest struct {
	Name            string          `json:"name" binding:"required"`
	TaxID           string          `json:"taxID" binding:"required,numeric,len=9"`
	CashbackPercent decimal.Decimal `json:"cashbackPercent"`
}

// UpdateStoreRequest defines the fields an administrator may change on a store.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateStoreRequest struct {
	CashbackPercent *decimal.Decimal `json:"cashbackPercent"`
	IsActive        *bool            `json:"isActive"`
}

// StoreResponse defines the data returned for a store.
type StoreResponse struct {
	StoreID         string          `json:"storeID"`
	Name            string          `json:"name"`
	TaxID           string          `json:"taxID"`
	CashbackPercent decimal.Decimal `json:"cashbackPercent"`
	IsActive        bool            `json:"isActive"`
	CreatedAt       time.Time       `json:"createdAt"`
	LastUpdatedAt   time.Time       `json:"lastUpdatedAt"`
}

// CreateCustomerRequest defines the data needed to enroll a customer.
// A card number is generated when none is supplied.
type CreateCustomerRequest struct {
	Name       string `json:"name" binding:"required"`
	TaxID      string `json:"taxID" binding:"required,numeric,len=9"`
	CardNumber string `json:"cardNumber" binding:"omitempty,numeric,len=10"`
}

// UpdateCustomerRequest defines the fields an administrator may change on a customer.
type UpdateCustomerRequest struct {
	IsActive *bool `json:"isActive"`
}

// CustomerResponse defines the data returned for a customer.
type CustomerResponse struct {
	CustomerID string    `json:"customerID"`
	Name       string    `json:"name"`
	TaxID      string    `json:"taxID"`
	CardNumber string    `json:"cardNumber"`
	IsActive   bool      `json:"isActive"`
	CreatedAt  time.Time `json:"createdAt"`
}

// CreateOperatorRequest defines the data needed to add an operator to a store.
type CreateOperatorRequest struct {
	Name string `json:"name" binding:"required"`
	Code string `json:"code" binding:"required,credential"`
}

// OperatorResponse defines the data returned for an operator. The code is never returned.
type OperatorResponse struct {
	OperatorID string    `json:"operatorID"`
	StoreID    string    `json:"storeID"`
	Name       string    `json:"name"`
	IsActive   bool      `json:"isActive"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ToStoreResponse converts a domain.Store to StoreResponse DTO.
func ToStoreResponse(s *domain.Store) StoreResponse {
	return StoreResponse{
		StoreID:         s.StoreID,
		Name:            s.Name,
		TaxID:           s.TaxID,
		CashbackPercent: s.CashbackPercent,
		IsActive:        s.IsActive,
		CreatedAt:       s.CreatedAt,
		LastUpdatedAt:   s.LastUpdatedAt,
	}
}

// ToCustomerResponse converts a domain.Customer to CustomerResponse DTO.
func ToCustomerResponse(c *domain.Customer) CustomerResponse {
	return CustomerResponse{
		CustomerID: c.CustomerID,
		Name:       c.Name,
		TaxID:      c.TaxID,
		CardNumber: c.CardNumber,
		IsActive:   c.IsActive,
		CreatedAt:  c.CreatedAt,
	}
}

// ToOperatorResponse converts a domain.Operator to OperatorResponse DTO.
func ToOperatorResponse(o *domain.Operator) OperatorResponse {
	return OperatorResponse{
		OperatorID: o.OperatorID,
		StoreID:    o.StoreID,
		Name:       o.Name,
		IsActive:   o.IsActive,
		CreatedAt:  o.CreatedAt,
	}
}
