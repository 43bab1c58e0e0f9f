package mapping

import (
	"github.com/SscSPs/vizinhomais/internal/core/domain"
	"github.com/SscSPs/vizinhomais/internal/models"
)

// ToModelStore converts a domain Store to a model Store
func ToModelStore(d domain.Store) models.Store {
	return models.Store{
		StoreID:         d.StoreID,
		Name:            d.Name,
		TaxID:           d.TaxID,
		CashbackPercent: d.CashbackPercent,
		IsActive:        d.IsActive,
		AuditFields:     models.AuditFields(d.AuditFields),
	}
}

// ToDomainStore converts a model Store to a domain Store
func ToDomainStore(m models.Store) domain.Store {
	return domain.Store{
		StoreID:         m.StoreID,
		Name:            m.Name,
		TaxID:           m.TaxID,
		CashbackPercent: m.CashbackPercent,
		IsActive:        m.IsActive,
		AuditFields:     domain.AuditFields(m.AuditFields),
	}
}

// ToModelCustomer converts a domain Customer to a model Customer
func ToModelCustomer(d domain.Customer) models.Customer {
	return models.Customer{
		CustomerID:  d.CustomerID,
		Name:        d.Name,
		TaxID:       d.TaxID,
		CardNumber:  d.CardNumber,
		IsActive:    d.IsActive,
		AuditFields: models.AuditFields(d.AuditFields),
	}
}

// ToDomainCustomer converts a model Customer to a domain Customer
func ToDomainCustomer(m models.Customer) domain.Customer {
	return domain.Customer{
		CustomerID:  m.CustomerID,
		Name:        m.Name,
		TaxID:       m.TaxID,
		CardNumber:  m.CardNumber,
		IsActive:    m.IsActive,
		AuditFields: domain.AuditFields(m.AuditFields),
	}
}

// ToModelOperator converts a domain Operator to a model Operator
func ToModelOperator(d domain.Operator) models.Operator {
	return models.Operator{
		OperatorID:     d.OperatorID,
		StoreID:        d.StoreID,
		Name:           d.Name,
		CredentialHash: d.CredentialHash,
		IsActive:       d.IsActive,
		AuditFields:    models.AuditFields(d.AuditFields),
	}
}

// ToDomainOperator converts a model Operator to a domain Operator
func ToDomainOperator(m models.Operator) domain.Operator {
	return domain.Operator{
		OperatorID:     m.OperatorID,
		StoreID:        m.StoreID,
		Name:           m.Name,
		CredentialHash: m.CredentialHash,
		IsActive:       m.IsActive,
		AuditFields:    domain.AuditFields(m.AuditFields),
	}
}

// ToDomainOperatorSlice converts a slice of model Operators to a slice of domain Operators
func ToDomainOperatorSlice(ms []models.Operator) []domain.Operator {
	ds := make([]domain.Operator, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainOperator(m)
	}
	return ds
}
