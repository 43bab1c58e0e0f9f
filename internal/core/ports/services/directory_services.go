package services

import (
	"context"

	"github.com/SscSPs/vizinhomais/internal/core/domain"
	"github.com/SscSPs/vizinhomais/internal/dto"
)

// StoreSvc manages stores and their operators. Administrator only.
type StoreSvc interface {
	CreateStore(ctx context.Context, principal domain.Principal, req dto.CreateStoreRequest) (*domain.Store, error)
	GetStore(ctx context.Context, principal domain.Principal, storeID string) (*domain.Store, error)
	UpdateStore(ctx context.Context, principal domain.Principal, storeID string, req dto.UpdateStoreRequest) (*domain.Store, error)
	CreateOperator(ctx context.Context, principal domain.Principal, storeID string, req dto.CreateOperatorRequest) (*domain.Operator, error)
	RevokeOperator(ctx context.Context, principal domain.Principal, storeID string, operatorID string) error
}

// CustomerSvc manages customer enrollment and lookup.
type CustomerSvc interface {
	EnrollCustomer(ctx context.Context, principal domain.Principal, req dto.CreateCustomerRequest) (*domain.Customer, error)
	GetCustomer(ctx context.Context, principal domain.Principal, customerID string) (*domain.Customer, error)
	GetCustomerByCardNumber(ctx context.Context, principal domain.Principal, cardNumber string) (*domain.Customer, error)
	UpdateCustomer(ctx context.Context, principal domain.Principal, customerID string, req dto.UpdateCustomerRequest) (*domain.Customer, error)
}

// DirectorySvcFacade combines the directory service interfaces.
type DirectorySvcFacade interface {
	StoreSvc
	CustomerSvc
}
