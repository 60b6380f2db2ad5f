package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/simaogato/wealthflow-ledger/internal/domain"
)

// operationRepository implements domain.OperationRepository
type operationRepository struct {
	q querier
}

// NewOperationRepository creates a new operation repository
func NewOperationRepository(db *DB) domain.OperationRepository {
	return &operationRepository{q: db}
}

const operationColumns = `
	o.id, o.created_at, o.category_id, o.description, o.asset_id, o.amount,
	o.operation_type, o.operation_date, o.parent_operation_id, o.is_split, o.linked_operation_id,
	ARRAY(
		SELECT h.name FROM operation_hashtags oh
		JOIN hashtags h ON h.id = oh.hashtag_id
		WHERE oh.operation_id = o.id
		ORDER BY h.name
	)
`

func scanOperation(row rowScanner) (*domain.Operation, error) {
	var op domain.Operation
	var categoryID, parentID, linkedID sql.NullString

	err := row.Scan(
		&op.ID,
		&op.CreatedAt,
		&categoryID,
		&op.Description,
		&op.AssetID,
		&op.Amount,
		&op.Type,
		&op.Date,
		&parentID,
		&op.IsSplit,
		&linkedID,
		pq.Array(&op.Hashtags),
	)
	if err != nil {
		return nil, err
	}

	if op.CategoryID, err = scanNullableID(categoryID); err != nil {
		return nil, fmt.Errorf("failed to parse category_id: %w", err)
	}
	if op.ParentOperationID, err = scanNullableID(parentID); err != nil {
		return nil, fmt.Errorf("failed to parse parent_operation_id: %w", err)
	}
	if op.LinkedOperationID, err = scanNullableID(linkedID); err != nil {
		return nil, fmt.Errorf("failed to parse linked_operation_id: %w", err)
	}

	return &op, nil
}

func (r *operationRepository) queryOperations(ctx context.Context, query string, args ...any) ([]*domain.Operation, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeError(err, "failed to query operations")
	}
	defer rows.Close()

	var ops []*domain.Operation
	for rows.Next() {
		op, err := scanOperation(rows)
		if err != nil {
			return nil, storeError(err, "failed to scan operation")
		}
		ops = append(ops, op)
	}

	if err := rows.Err(); err != nil {
		return nil, storeError(err, "error iterating operations")
	}

	return ops, nil
}

// GetByID retrieves an operation (with its hashtags) by its ID
func (r *operationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Operation, error) {
	query := `SELECT ` + operationColumns + ` FROM operations o WHERE o.id = $1`

	op, err := scanOperation(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, storeError(err, "operation not found: %s", id)
	}

	return op, nil
}

// GetForUpdate retrieves an operation and locks its row
func (r *operationRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Operation, error) {
	query := `SELECT ` + operationColumns + ` FROM operations o WHERE o.id = $1 FOR UPDATE OF o`

	op, err := scanOperation(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, storeError(err, "operation not found: %s", id)
	}

	return op, nil
}

// Create inserts a new operation
func (r *operationRepository) Create(ctx context.Context, op *domain.Operation) error {
	query := `
		INSERT INTO operations (id, category_id, description, asset_id, amount, operation_type,
			operation_date, parent_operation_id, is_split, linked_operation_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at
	`

	err := r.q.QueryRowContext(ctx, query,
		op.ID,
		nullableID(op.CategoryID),
		op.Description,
		op.AssetID,
		op.Amount,
		string(op.Type),
		op.Date,
		nullableID(op.ParentOperationID),
		op.IsSplit,
		nullableID(op.LinkedOperationID),
	).Scan(&op.CreatedAt)
	if err != nil {
		return storeError(err, "failed to create operation")
	}

	return nil
}

// Update overwrites the mutable columns of an operation
func (r *operationRepository) Update(ctx context.Context, op *domain.Operation) error {
	query := `
		UPDATE operations
		SET category_id = $1, description = $2, asset_id = $3, amount = $4,
			operation_type = $5, operation_date = $6
		WHERE id = $7
	`

	res, err := r.q.ExecContext(ctx, query,
		nullableID(op.CategoryID),
		op.Description,
		op.AssetID,
		op.Amount,
		string(op.Type),
		op.Date,
		op.ID,
	)
	if err != nil {
		return storeError(err, "failed to update operation")
	}
	return notFound(res, "operation not found: %s", op.ID)
}

// Delete removes an operation. Split children cascade, a transfer partner
// loses its link.
func (r *operationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM operations WHERE id = $1`, id)
	if err != nil {
		return storeError(err, "failed to delete operation")
	}
	return notFound(res, "operation not found: %s", id)
}

// SetLinked points id at its transfer partner
func (r *operationRepository) SetLinked(ctx context.Context, id uuid.UUID, linkedID uuid.UUID) error {
	res, err := r.q.ExecContext(ctx, `UPDATE operations SET linked_operation_id = $1 WHERE id = $2`, linkedID, id)
	if err != nil {
		return storeError(err, "failed to link operation")
	}
	return notFound(res, "operation not found: %s", id)
}

// SetSplit changes the is_split flag
func (r *operationRepository) SetSplit(ctx context.Context, id uuid.UUID, isSplit bool) error {
	res, err := r.q.ExecContext(ctx, `UPDATE operations SET is_split = $1 WHERE id = $2`, isSplit, id)
	if err != nil {
		return storeError(err, "failed to update split flag")
	}
	return notFound(res, "operation not found: %s", id)
}

// ListChildren retrieves the split children of parentID
func (r *operationRepository) ListChildren(ctx context.Context, parentID uuid.UUID) ([]*domain.Operation, error) {
	query := `SELECT ` + operationColumns + `
		FROM operations o
		WHERE o.parent_operation_id = $1
		ORDER BY o.created_at, o.id
	`
	return r.queryOperations(ctx, query, parentID)
}

// DeleteChildren removes every split child of parentID
func (r *operationRepository) DeleteChildren(ctx context.Context, parentID uuid.UUID) (int, error) {
	res, err := r.q.ExecContext(ctx, `DELETE FROM operations WHERE parent_operation_id = $1`, parentID)
	if err != nil {
		return 0, storeError(err, "failed to delete split children")
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, domain.NewStoreFailure(err, "failed to read affected rows")
	}
	return int(n), nil
}

// List retrieves a page of top-level operations, newest first
func (r *operationRepository) List(ctx context.Context, filter domain.OperationFilter) ([]*domain.Operation, error) {
	if filter.AssetID == nil {
		query := `SELECT ` + operationColumns + `
			FROM operations o
			WHERE o.parent_operation_id IS NULL
			ORDER BY o.operation_date DESC, o.created_at DESC
			LIMIT $1 OFFSET $2
		`
		return r.queryOperations(ctx, query, filter.Limit, filter.Offset)
	}

	query := `SELECT ` + operationColumns + `
		FROM operations o
		WHERE o.parent_operation_id IS NULL AND o.asset_id = $1
		ORDER BY o.operation_date DESC, o.created_at DESC
		LIMIT $2 OFFSET $3
	`
	return r.queryOperations(ctx, query, *filter.AssetID, filter.Limit, filter.Offset)
}

// Count returns the number of top-level operations
func (r *operationRepository) Count(ctx context.Context, assetID *uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*) FROM operations
		WHERE parent_operation_id IS NULL AND ($1::uuid IS NULL OR asset_id = $1::uuid)
	`

	var n int
	if err := r.q.QueryRowContext(ctx, query, nullableID(assetID)).Scan(&n); err != nil {
		return 0, storeError(err, "failed to count operations")
	}
	return n, nil
}

// SumBalance returns Σ amount of the asset's top-level operations
func (r *operationRepository) SumBalance(ctx context.Context, assetID uuid.UUID) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0) FROM operations
		WHERE asset_id = $1 AND parent_operation_id IS NULL
	`

	var balance decimal.Decimal
	if err := r.q.QueryRowContext(ctx, query, assetID).Scan(&balance); err != nil {
		return decimal.Zero, storeError(err, "failed to sum balance")
	}
	return balance, nil
}
