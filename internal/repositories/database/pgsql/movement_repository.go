package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/vizinhomais/internal/apperrors"
	"github.com/SscSPs/vizinhomais/internal/core/domain"
	portsrepo "github.com/SscSPs/vizinhomais/internal/core/ports/repositories"
	"github.com/SscSPs/vizinhomais/internal/models"
	"github.com/SscSPs/vizinhomais/internal/utils/mapping"
	"github.com/SscSPs/vizinhomais/internal/utils/pagination"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200

	movementColumns = `movement_id, kind, sale_amount, cashback_amount, customer_id, store_id, store_name,
		occurred_at, origin_document, operator_id, operator_name`
)

type PgxMovementRepository struct {
	BaseRepository
	lockTimeout time.Duration
}

// newPgxMovementRepository creates a new repository for ledger movements.
func newPgxMovementRepository(pool *pgxpool.Pool, lockTimeout time.Duration) *PgxMovementRepository {
	return &PgxMovementRepository{
		BaseRepository: BaseRepository{Pool: pool},
		lockTimeout:    lockTimeout,
	}
}

var _ portsrepo.MovementRepositoryFacade = (*PgxMovementRepository)(nil)

func scanMovement(row pgx.Row) (domain.Movement, error) {
	var m models.Movement
	err := row.Scan(
		&m.MovementID,
		&m.Kind,
		&m.SaleAmount,
		&m.CashbackAmount,
		&m.CustomerID,
		&m.StoreID,
		&m.StoreName,
		&m.OccurredAt,
		&m.OriginDocument,
		&m.OperatorID,
		&m.OperatorName,
	)
	if err != nil {
		return domain.Movement{}, err
	}
	return mapping.ToDomainMovement(m), nil
}

func collectMovements(rows pgx.Rows) ([]domain.Movement, error) {
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

// appendMovement inserts a movement stamped with the database clock.
// A conflicting id means an earlier attempt already committed; that record is returned.
func appendMovement(ctx context.Context, q querier, movement domain.Movement) (*domain.Movement, error) {
	if movement.MovementID == "" {
		movement.MovementID = uuid.NewString()
	}
	row := mapping.ToModelMovement(movement)

	insert := `
		INSERT INTO movements (movement_id, kind, sale_amount, cashback_amount, customer_id, store_id, store_name,
			occurred_at, origin_document, operator_id, operator_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7, date_trunc('microseconds', clock_timestamp()), $8, $9, $10)
		ON CONFLICT (movement_id) DO NOTHING
		RETURNING ` + movementColumns
	committed, err := scanMovement(q.QueryRow(ctx, insert,
		row.MovementID,
		row.Kind,
		row.SaleAmount,
		row.CashbackAmount,
		row.CustomerID,
		row.StoreID,
		row.StoreName,
		row.OriginDocument,
		row.OperatorID,
		row.OperatorName,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		existing, err := scanMovement(q.QueryRow(ctx, `SELECT `+movementColumns+` FROM movements WHERE movement_id = $1`, row.MovementID))
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
	rows, err := q.Query(ctx, `SELECT `+movementColumns+` FROM movements
		WHERE customer_id = $1
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

// AppendMovement inserts a single movement.
func (r *PgxMovementRepository) AppendMovement(ctx context.Context, movement domain.Movement) (*domain.Movement, error) {
	return appendMovement(ctx, r.Pool, movement)
}

// ListCustomerMovements returns the full history of a customer, newest first.
func (r *PgxMovementRepository) ListCustomerMovements(ctx context.Context, customerID string) ([]domain.Movement, error) {
	return listCustomerMovements(ctx, r.Pool, customerID)
}

// QueryMovements returns one page ordered by occurred_at, movement_id descending.
func (r *PgxMovementRepository) QueryMovements(ctx context.Context, query portsrepo.MovementQuery) ([]domain.Movement, *string, error) {
	var conds []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if query.CustomerID != nil {
		conds = append(conds, "customer_id = "+arg(*query.CustomerID))
	}
	if query.StoreID != nil {
		conds = append(conds, "store_id = "+arg(*query.StoreID))
	}
	if query.Since != nil {
		conds = append(conds, "occurred_at >= "+arg(*query.Since))
	}
	if query.NextToken != nil && *query.NextToken != "" {
		cursor, err := pagination.DecodeToken(*query.NextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		conds = append(conds, fmt.Sprintf("(occurred_at, movement_id) < (%s, %s)", arg(cursor.OccurredAt), arg(cursor.MovementID)))
	}

	limit := pagination.NormalizeLimit(query.Limit, defaultPageSize, maxPageSize)
	sql := `SELECT ` + movementColumns + ` FROM movements`
	if len(conds) > 0 {
		sql += " WHERE " + strings.Join(conds, " AND ")
	}
	sql += " ORDER BY occurred_at DESC, movement_id DESC LIMIT " + arg(limit+1)

	rows, err := r.Pool.Query(ctx, sql, args...)
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

// WithCustomerScope runs fn inside a transaction holding a transaction-scoped advisory lock on the customer.
// The wait for the lock is bounded by lock_timeout, surfacing as apperrors.ErrRedemptionBusy.
func (r *PgxMovementRepository) WithCustomerScope(ctx context.Context, customerID string, fn func(ctx context.Context, scope portsrepo.CustomerScope) error) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	timeout := fmt.Sprintf("%dms", r.lockTimeout.Milliseconds())
	if _, err := tx.Exec(ctx, `SELECT set_config('lock_timeout', $1, true)`, timeout); err != nil {
		return classifyError("failed to set lock timeout", err)
	}
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, customerID); err != nil {
		return classifyError("failed to lock customer "+customerID, err)
	}

	if err := fn(ctx, &pgxCustomerScope{tx: tx, customerID: customerID}); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

type pgxCustomerScope struct {
	tx         pgx.Tx
	customerID string
}

func (s *pgxCustomerScope) ListCustomerMovements(ctx context.Context) ([]domain.Movement, error) {
	return listCustomerMovements(ctx, s.tx, s.customerID)
}

func (s *pgxCustomerScope) AppendMovement(ctx context.Context, movement domain.Movement) (*domain.Movement, error) {
	if movement.CustomerID != s.customerID {
		return nil, fmt.Errorf("%w: movement for customer %s appended in scope of %s", apperrors.ErrInvariant, movement.CustomerID, s.customerID)
	}
	return appendMovement(ctx, s.tx, movement)
}
