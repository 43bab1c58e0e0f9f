package sqlite

import (
	"context"
	"database/sql"

	"github.com/SscSPs/vizinhomais/internal/core/domain"
	"github.com/SscSPs/vizinhomais/internal/models"
	"github.com/SscSPs/vizinhomais/internal/utils/mapping"
)

// execOne runs a statement that must touch exactly one row.
func (s *Store) execOne(ctx context.Context, op string, stmt string, args ...any) error {
	res, err := s.sqlDB.ExecContext(ctx, stmt, args...)
	if err != nil {
		return classifyError(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return classifyError(op, err)
	}
	if n == 0 {
		return classifyError(op, sql.ErrNoRows)
	}
	return nil
}

// --- stores ---

func (s *Store) SaveStore(ctx context.Context, store domain.Store) error {
	m := mapping.ToModelStore(store)
	return s.execOne(ctx, "failed to save store "+m.StoreID, `
		INSERT INTO stores (store_id, name, tax_id, cashback_percent, is_active, created_at, created_by, last_updated_at, last_updated_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.StoreID, m.Name, m.TaxID, m.CashbackPercent.String(), m.IsActive,
		toMicros(m.CreatedAt), m.CreatedBy, toMicros(m.LastUpdatedAt), m.LastUpdatedBy)
}

func (s *Store) UpdateStore(ctx context.Context, store domain.Store) error {
	m := mapping.ToModelStore(store)
	return s.execOne(ctx, "failed to update store "+m.StoreID, `
		UPDATE stores SET name = ?, cashback_percent = ?, is_active = ?, last_updated_at = ?, last_updated_by = ?
		WHERE store_id = ?`,
		m.Name, m.CashbackPercent.String(), m.IsActive, toMicros(m.LastUpdatedAt), m.LastUpdatedBy, m.StoreID)
}

func (s *Store) FindStoreByID(ctx context.Context, storeID string) (*domain.Store, error) {
	var m models.Store
	var createdAt, updatedAt int64
	err := s.sqlDB.QueryRowContext(ctx, `
		SELECT store_id, name, tax_id, cashback_percent, is_active, created_at, created_by, last_updated_at, last_updated_by
		FROM stores WHERE store_id = ?`, storeID).Scan(
		&m.StoreID, &m.Name, &m.TaxID, &m.CashbackPercent, &m.IsActive,
		&createdAt, &m.CreatedBy, &updatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, classifyError("store "+storeID, err)
	}
	m.CreatedAt, m.LastUpdatedAt = fromMicros(createdAt), fromMicros(updatedAt)
	store := mapping.ToDomainStore(m)
	return &store, nil
}

// --- customers ---

const customerColumns = `customer_id, name, tax_id, card_number, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanCustomer(row rowScanner) (*domain.Customer, error) {
	var m models.Customer
	var createdAt, updatedAt int64
	if err := row.Scan(&m.CustomerID, &m.Name, &m.TaxID, &m.CardNumber, &m.IsActive,
		&createdAt, &m.CreatedBy, &updatedAt, &m.LastUpdatedBy); err != nil {
		return nil, err
	}
	m.CreatedAt, m.LastUpdatedAt = fromMicros(createdAt), fromMicros(updatedAt)
	customer := mapping.ToDomainCustomer(m)
	return &customer, nil
}

func (s *Store) SaveCustomer(ctx context.Context, customer domain.Customer) error {
	m := mapping.ToModelCustomer(customer)
	return s.execOne(ctx, "failed to save customer "+m.CustomerID, `
		INSERT INTO customers (`+customerColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.CustomerID, m.Name, m.TaxID, m.CardNumber, m.IsActive,
		toMicros(m.CreatedAt), m.CreatedBy, toMicros(m.LastUpdatedAt), m.LastUpdatedBy)
}

func (s *Store) UpdateCustomer(ctx context.Context, customer domain.Customer) error {
	m := mapping.ToModelCustomer(customer)
	return s.execOne(ctx, "failed to update customer "+m.CustomerID, `
		UPDATE customers SET name = ?, is_active = ?, last_updated_at = ?, last_updated_by = ?
		WHERE customer_id = ?`,
		m.Name, m.IsActive, toMicros(m.LastUpdatedAt), m.LastUpdatedBy, m.CustomerID)
}

func (s *Store) FindCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error) {
	c, err := scanCustomer(s.sqlDB.QueryRowContext(ctx, `SELECT `+customerColumns+` FROM customers WHERE customer_id = ?`, customerID))
	if err != nil {
		return nil, classifyError("customer "+customerID, err)
	}
	return c, nil
}

func (s *Store) FindCustomerByCardNumber(ctx context.Context, cardNumber string) (*domain.Customer, error) {
	c, err := scanCustomer(s.sqlDB.QueryRowContext(ctx, `SELECT `+customerColumns+` FROM customers WHERE card_number = ?`, cardNumber))
	if err != nil {
		return nil, classifyError("customer with card "+cardNumber, err)
	}
	return c, nil
}

// --- operators ---

const operatorColumns = `operator_id, store_id, name, credential_hash, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanOperator(row rowScanner) (models.Operator, error) {
	var m models.Operator
	var createdAt, updatedAt int64
	err := row.Scan(&m.OperatorID, &m.StoreID, &m.Name, &m.CredentialHash, &m.IsActive,
		&createdAt, &m.CreatedBy, &updatedAt, &m.LastUpdatedBy)
	m.CreatedAt, m.LastUpdatedAt = fromMicros(createdAt), fromMicros(updatedAt)
	return m, err
}

func (s *Store) SaveOperator(ctx context.Context, operator domain.Operator) error {
	m := mapping.ToModelOperator(operator)
	return s.execOne(ctx, "failed to save operator "+m.OperatorID, `
		INSERT INTO operators (`+operatorColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.OperatorID, m.StoreID, m.Name, m.CredentialHash, m.IsActive,
		toMicros(m.CreatedAt), m.CreatedBy, toMicros(m.LastUpdatedAt), m.LastUpdatedBy)
}

func (s *Store) UpdateOperator(ctx context.Context, operator domain.Operator) error {
	m := mapping.ToModelOperator(operator)
	return s.execOne(ctx, "failed to update operator "+m.OperatorID, `
		UPDATE operators SET name = ?, is_active = ?, last_updated_at = ?, last_updated_by = ?
		WHERE operator_id = ?`,
		m.Name, m.IsActive, toMicros(m.LastUpdatedAt), m.LastUpdatedBy, m.OperatorID)
}

func (s *Store) FindOperatorByID(ctx context.Context, operatorID string) (*domain.Operator, error) {
	m, err := scanOperator(s.sqlDB.QueryRowContext(ctx, `SELECT `+operatorColumns+` FROM operators WHERE operator_id = ?`, operatorID))
	if err != nil {
		return nil, classifyError("operator "+operatorID, err)
	}
	op := mapping.ToDomainOperator(m)
	return &op, nil
}

func (s *Store) ListActiveOperatorsByStore(ctx context.Context, storeID string) ([]domain.Operator, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT `+operatorColumns+` FROM operators
		WHERE store_id = ? AND is_active = 1
		ORDER BY operator_id`, storeID)
	if err != nil {
		return nil, classifyError("failed to list operators of store "+storeID, err)
	}
	defer rows.Close()

	var ms []models.Operator
	for rows.Next() {
		m, err := scanOperator(rows)
		if err != nil {
			return nil, classifyError("failed to scan operator", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyError("failed to iterate operators", err)
	}
	return mapping.ToDomainOperatorSlice(ms), nil
}
