package repositories

import (
	"context"

	"github.com/SscSPs/vizinhomais/internal/core/domain"
)

// StoreReader defines read operations for stores.
type StoreReader interface {
	FindStoreByID(ctx context.Context, storeID string) (*domain.Store, error)
}

// StoreWriter defines write operations for stores. Stores are never deleted.
type StoreWriter interface {
	SaveStore(ctx context.Context, store domain.Store) error
	UpdateStore(ctx context.Context, store domain.Store) error
}

// CustomerReader defines read operations for customers.
type CustomerReader interface {
	FindCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error)
	FindCustomerByCardNumber(ctx context.Context, cardNumber string) (*domain.Customer, error)
}

// CustomerWriter defines write operations for customers.
type CustomerWriter interface {
	// SaveCustomer returns apperrors.ErrDuplicate when the tax id or card number is taken.
	SaveCustomer(ctx context.Context, customer domain.Customer) error
	UpdateCustomer(ctx context.Context, customer domain.Customer) error
}

// OperatorReader defines read operations for operators.
type OperatorReader interface {
	FindOperatorByID(ctx context.Context, operatorID string) (*domain.Operator, error)

	// ListActiveOperatorsByStore returns the store's live operator set.
	ListActiveOperatorsByStore(ctx context.Context, storeID string) ([]domain.Operator, error)
}

// OperatorWriter defines write operations for operators.
type OperatorWriter interface {
	SaveOperator(ctx context.Context, operator domain.Operator) error
	UpdateOperator(ctx context.Context, operator domain.Operator) error
}

// DirectoryRepositoryFacade combines the store, customer and operator repositories.
type DirectoryRepositoryFacade interface {
	StoreReader
	StoreWriter
	CustomerReader
	CustomerWriter
	OperatorReader
	OperatorWriter
}
