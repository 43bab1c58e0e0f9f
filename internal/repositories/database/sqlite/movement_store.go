package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/SscSPs/vizinhomais/internal/apperrors"
	"github.com/SscSPs/vizinhomais/internal/core/domain"
	portsrepo "github.com/SscSPs/vizinhomais/internal/core/ports/repositories"
	"github.com/SscSPs/vizinhomais/internal/models"
	"github.com/SscSPs/vizinhomais/internal/utils/mapping"
	"github.com/SscSPs/vizinhomais/internal/utils/pagination"
	"github.com/google/uuid"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200

	movementColumns = `movement_id, kind, sale_amount, cashback_amount, customer_id, store_id, store_name,
		occurred_at, origin_document, operator_id, operator_name`
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMovement(row rowScanner) (domain.Movement, error) {
	var m models.Movement
	var occurredAt int64
	err := row.Scan(
		&m.MovementID,
		&m.Kind,
		&m.SaleAmount,
		&m.CashbackAmount,
		&m.CustomerID,
		&m.StoreID,
		&m.StoreName,
		&occurredAt,
		&m.OriginDocument,
		&m.OperatorID,
		&m.OperatorName,
	)
	if err != nil {
		return domain.Movement{}, err
	}
	m.OccurredAt = fromMicros(occurredAt)
	return mapping.ToDomainMovement(m), nil
}

func collectMovements(rows *sql.Rows) ([]domain.Movement, error) {
	defer rows.Close()
	out := make([]domain.Movement, 0)
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *Store) appendMovement(ctx context.Context, q querier, movement domain.Movement) (*domain.Movement, error) {
	if movement.MovementID == "" {
		movement.MovementID = uuid.NewString()
	}
	row := mapping.ToModelMovement(movement)

	committed, err := scanMovement(q.QueryRowContext(ctx, `
		INSERT INTO movements (movement_id, kind, sale_amount, cashback_amount, customer_id, store_id, store_name,
			occurred_at, origin_document, operator_id, operator_name)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (movement_id) DO NOTHING
		RETURNING `+movementColumns,
		row.MovementID,
		row.Kind,
		row.SaleAmount.String(),
		row.CashbackAmount.String(),
		row.CustomerID,
		row.StoreID,
		row.StoreName,
		toMicros(s.clock()),
		row.OriginDocument,
		row.OperatorID,
		row.OperatorName,
	))
	if errors.Is(err, sql.ErrNoRows) {
		existing, err := scanMovement(q.QueryRowContext(ctx, `SELECT `+movementColumns+` FROM movements WHERE movement_id = ?`, row.MovementID))
		if err != nil {
			return nil, classifyError("failed to read committed movement "+row.MovementID, err)
		}
		return &existing, nil
	}
	if err != nil {
		return nil, classifyError("failed to insert movement "+row.MovementID, err)
	}
	return &committed, nil
}

func listCustomerMovements(ctx context.Context, q querier, customerID string) ([]domain.Movement, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+movementColumns+` FROM movements
		WHERE customer_id = ?
		ORDER BY occurred_at DESC, movement_id DESC`, customerID)
	if err != nil {
		return nil, classifyError("failed to list movements of customer "+customerID, err)
	}
	ms, err := collectMovements(rows)
	if err != nil {
		return nil, classifyError("failed to scan movements of customer "+customerID, err)
	}
	return ms, nil
}

// AppendMovement inserts a single movement stamped with the store clock.
func (s *Store) AppendMovement(ctx context.Context, movement domain.Movement) (*domain.Movement, error) {
	return s.appendMovement(ctx, s.sqlDB, movement)
}

// ListCustomerMovements returns the full history of a customer, newest first.
func (s *Store) ListCustomerMovements(ctx context.Context, customerID string) ([]domain.Movement, error) {
	return listCustomerMovements(ctx, s.sqlDB, customerID)
}

// QueryMovements returns one page ordered by occurred_at, movement_id descending.
func (s *Store) QueryMovements(ctx context.Context, query portsrepo.MovementQuery) ([]domain.Movement, *string, error) {
	var conds []string
	var args []any

	if query.CustomerID != nil {
		conds = append(conds, "customer_id = ?")
		args = append(args, *query.CustomerID)
	}
	if query.StoreID != nil {
		conds = append(conds, "store_id = ?")
		args = append(args, *query.StoreID)
	}
	if query.Since != nil {
		conds = append(conds, "occurred_at >= ?")
		args = append(args, toMicros(*query.Since))
	}
	if query.NextToken != nil && *query.NextToken != "" {
		cursor, err := pagination.DecodeToken(*query.NextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		conds = append(conds, "(occurred_at < ? OR (occurred_at = ? AND movement_id < ?))")
		at := toMicros(cursor.OccurredAt)
		args = append(args, at, at, cursor.MovementID)
	}

	limit := pagination.NormalizeLimit(query.Limit, defaultPageSize, maxPageSize)
	stmt := `SELECT ` + movementColumns + ` FROM movements`
	if len(conds) > 0 {
		stmt += " WHERE " + strings.Join(conds, " AND ")
	}
	stmt += " ORDER BY occurred_at DESC, movement_id DESC LIMIT ?"
	args = append(args, limit+1)

	rows, err := s.sqlDB.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, nil, classifyError("failed to query movements", err)
	}
	movements, err := collectMovements(rows)
	if err != nil {
		return nil, nil, classifyError("failed to scan movements", err)
	}

	var nextToken *string
	if len(movements) > limit {
		movements = movements[:limit]
		last := movements[limit-1]
		token := pagination.EncodeToken(last.OccurredAt, last.MovementID)
		nextToken = &token
	}
	return movements, nextToken, nil
}

// WithCustomerScope runs fn inside an immediate transaction. SQLite has a single writer, so the
// section excludes every other writer, not only those of the same customer. A writer that cannot
// get in within busy_timeout fails with apperrors.ErrRedemptionBusy.
func (s *Store) WithCustomerScope(ctx context.Context, customerID string, fn func(ctx context.Context, scope portsrepo.CustomerScope) error) error {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		if isBusy(err) {
			return fmt.Errorf("%w: customer %s", apperrors.ErrRedemptionBusy, customerID)
		}
		return classifyError("failed to begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(ctx, &sqliteCustomerScope{store: s, tx: tx, customerID: customerID}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return classifyError("failed to commit transaction", err)
	}
	return nil
}

type sqliteCustomerScope struct {
	store      *Store
	tx         *sql.Tx
	customerID string
}

func (c *sqliteCustomerScope) ListCustomerMovements(ctx context.Context) ([]domain.Movement, error) {
	return listCustomerMovements(ctx, c.tx, c.customerID)
}

func (c *sqliteCustomerScope) AppendMovement(ctx context.Context, movement domain.Movement) (*domain.Movement, error) {
	if movement.CustomerID != c.customerID {
		return nil, fmt.Errorf("%w: movement for customer %s appended in scope of %s", apperrors.ErrInvariant, movement.CustomerID, c.customerID)
	}
	return c.store.appendMovement(ctx, c.tx, movement)
}
