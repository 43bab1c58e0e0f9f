package pgsql

import (
	"context"

	"github.com/SscSPs/vizinhomais/internal/core/domain"
	portsrepo "github.com/SscSPs/vizinhomais/internal/core/ports/repositories"
	"github.com/SscSPs/vizinhomais/internal/models"
	"github.com/SscSPs/vizinhomais/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxDirectoryRepository struct {
	BaseRepository
}

// newPgxDirectoryRepository creates a new repository for stores, customers and operators.
func newPgxDirectoryRepository(pool *pgxpool.Pool) *PgxDirectoryRepository {
	return &PgxDirectoryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.DirectoryRepositoryFacade = (*PgxDirectoryRepository)(nil)

// execOne runs a statement that must touch exactly one row.
func (r *PgxDirectoryRepository) execOne(ctx context.Context, op string, sql string, args ...any) error {
	tag, err := r.Pool.Exec(ctx, sql, args...)
	if err != nil {
		return classifyError(op, err)
	}
	if tag.RowsAffected() == 0 {
		return classifyError(op, pgx.ErrNoRows)
	}
	return nil
}

// --- stores ---

func (r *PgxDirectoryRepository) SaveStore(ctx context.Context, store domain.Store) error {
	m := mapping.ToModelStore(store)
	return r.execOne(ctx, "failed to save store "+m.StoreID, `
		INSERT INTO stores (store_id, name, tax_id, cashback_percent, is_active, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		m.StoreID, m.Name, m.TaxID, m.CashbackPercent, m.IsActive, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
}

func (r *PgxDirectoryRepository) UpdateStore(ctx context.Context, store domain.Store) error {
	m := mapping.ToModelStore(store)
	return r.execOne(ctx, "failed to update store "+m.StoreID, `
		UPDATE stores SET name = $2, cashback_percent = $3, is_active = $4, last_updated_at = $5, last_updated_by = $6
		WHERE store_id = $1`,
		m.StoreID, m.Name, m.CashbackPercent, m.IsActive, m.LastUpdatedAt, m.LastUpdatedBy)
}

func (r *PgxDirectoryRepository) FindStoreByID(ctx context.Context, storeID string) (*domain.Store, error) {
	var m models.Store
	err := r.Pool.QueryRow(ctx, `
		SELECT store_id, name, tax_id, cashback_percent, is_active, created_at, created_by, last_updated_at, last_updated_by
		FROM stores WHERE store_id = $1`, storeID).Scan(
		&m.StoreID, &m.Name, &m.TaxID, &m.CashbackPercent, &m.IsActive,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, classifyError("store "+storeID, err)
	}
	store := mapping.ToDomainStore(m)
	return &store, nil
}

// --- customers ---

const customerColumns = `customer_id, name, tax_id, card_number, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanCustomer(row pgx.Row) (*domain.Customer, error) {
	var m models.Customer
	if err := row.Scan(&m.CustomerID, &m.Name, &m.TaxID, &m.CardNumber, &m.IsActive,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy); err != nil {
		return nil, err
	}
	customer := mapping.ToDomainCustomer(m)
	return &customer, nil
}

func (r *PgxDirectoryRepository) SaveCustomer(ctx context.Context, customer domain.Customer) error {
	m := mapping.ToModelCustomer(customer)
	return r.execOne(ctx, "failed to save customer "+m.CustomerID, `
		INSERT INTO customers (`+customerColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		m.CustomerID, m.Name, m.TaxID, m.CardNumber, m.IsActive, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
}

func (r *PgxDirectoryRepository) UpdateCustomer(ctx context.Context, customer domain.Customer) error {
	m := mapping.ToModelCustomer(customer)
	return r.execOne(ctx, "failed to update customer "+m.CustomerID, `
		UPDATE customers SET name = $2, is_active = $3, last_updated_at = $4, last_updated_by = $5
		WHERE customer_id = $1`,
		m.CustomerID, m.Name, m.IsActive, m.LastUpdatedAt, m.LastUpdatedBy)
}

func (r *PgxDirectoryRepository) FindCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error) {
	c, err := scanCustomer(r.Pool.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE customer_id = $1`, customerID))
	if err != nil {
		return nil, classifyError("customer "+customerID, err)
	}
	return c, nil
}

func (r *PgxDirectoryRepository) FindCustomerByCardNumber(ctx context.Context, cardNumber string) (*domain.Customer, error) {
	c, err := scanCustomer(r.Pool.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE card_number = $1`, cardNumber))
	if err != nil {
		return nil, classifyError("customer with card "+cardNumber, err)
	}
	return c, nil
}

// --- operators ---

const operatorColumns = `operator_id, store_id, name, credential_hash, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanOperator(row pgx.Row) (models.Operator, error) {
	var m models.Operator
	err := row.Scan(&m.OperatorID, &m.StoreID, &m.Name, &m.CredentialHash, &m.IsActive,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy)
	return m, err
}

func (r *PgxDirectoryRepository) SaveOperator(ctx context.Context, operator domain.Operator) error {
	m := mapping.ToModelOperator(operator)
	return r.execOne(ctx, "failed to save operator "+m.OperatorID, `
		INSERT INTO operators (`+operatorColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		m.OperatorID, m.StoreID, m.Name, m.CredentialHash, m.IsActive, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
}

func (r *PgxDirectoryRepository) UpdateOperator(ctx context.Context, operator domain.Operator) error {
	m := mapping.ToModelOperator(operator)
	return r.execOne(ctx, "failed to update operator "+m.OperatorID, `
		UPDATE operators SET name = $2, is_active = $3, last_updated_at = $4, last_updated_by = $5
		WHERE operator_id = $1`,
		m.OperatorID, m.Name, m.IsActive, m.LastUpdatedAt, m.LastUpdatedBy)
}

func (r *PgxDirectoryRepository) FindOperatorByID(ctx context.Context, operatorID string) (*domain.Operator, error) {
	m, err := scanOperator(r.Pool.QueryRow(ctx, `SELECT `+operatorColumns+` FROM operators WHERE operator_id = $1`, operatorID))
	if err != nil {
		return nil, classifyError("operator "+operatorID, err)
	}
	op := mapping.ToDomainOperator(m)
	return &op, nil
}

func (r *PgxDirectoryRepository) ListActiveOperatorsByStore(ctx context.Context, storeID string) ([]domain.Operator, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+operatorColumns+` FROM operators
		WHERE store_id = $1 AND is_active
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

