package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/simaogato/wealthflow-ledger/internal/domain"
)

// categoryRepository implements domain.CategoryRepository
type categoryRepository struct {
	q querier
}

func scanCategory(row rowScanner) (*domain.Category, error) {
	var c domain.Category
	var parentID, systemKey sql.NullString

	if err := row.Scan(&c.ID, &c.Name, &parentID, &c.Kind, &c.IsSystem, &systemKey); err != nil {
		return nil, err
	}

	var err error
	if c.ParentID, err = scanNullableID(parentID); err != nil {
		return nil, fmt.Errorf("failed to parse parent_id: %w", err)
	}
	if systemKey.Valid {
		c.SystemRole = domain.SystemCategoryRole(systemKey.String)
	}

	return &c, nil
}

// GetByID retrieves a category by its ID
func (r *categoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	query := `SELECT id, name, parent_id, kind, is_system, system_key FROM categories WHERE id = $1`

	c, err := scanCategory(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, storeError(err, "category not found: %s", id)
	}
	return c, nil
}

// GetOrCreateSystem returns the system category for spec. Concurrent callers
// race on the system_key unique constraint; the loser reads the winner's row.
func (r *categoryRepository) GetOrCreateSystem(ctx context.Context, spec domain.SystemCategorySpec, parentID *uuid.UUID) (*domain.Category, error) {
	insert := `
		INSERT INTO categories (id, name, parent_id, kind, is_system, system_key)
		VALUES ($1, $2, $3, $4, TRUE, $5)
		ON CONFLICT (system_key) DO NOTHING
	`

	_, err := r.q.ExecContext(ctx, insert,
		uuid.New(),
		spec.Name,
		nullableID(parentID),
		string(spec.Kind),
		string(spec.Role),
	)
	if err != nil {
		return nil, storeError(err, "failed to create system category %s", spec.Role)
	}

	query := `SELECT id, name, parent_id, kind, is_system, system_key FROM categories WHERE system_key = $1`

	c, err := scanCategory(r.q.QueryRowContext(ctx, query, string(spec.Role)))
	if err != nil {
		return nil, storeError(err, "system category not found: %s", spec.Role)
	}
	return c, nil
}

// Delete removes a category; operations referencing it keep a NULL category
func (r *categoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return storeError(err, "failed to delete category")
	}
	return notFound(res, "category not found: %s", id)
}
