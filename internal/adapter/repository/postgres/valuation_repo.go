package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/simaogato/wealthflow-ledger/internal/domain"
)

// valuationRepository implements domain.ValuationRepository
type valuationRepository struct {
	q querier
}

// Add creates a new valuation entry
func (r *valuationRepository) Add(ctx context.Context, v *domain.AssetValuation) error {
	query := `
		INSERT INTO asset_valuations (id, asset_id, valuation_date, value, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	err := r.q.QueryRowContext(ctx, query, v.ID, v.AssetID, v.Date, v.Value, v.Notes).Scan(&v.CreatedAt)
	if err != nil {
		return storeError(err, "failed to add valuation")
	}
	return nil
}

// GetByID retrieves a valuation by its ID
func (r *valuationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.AssetValuation, error) {
	query := `
		SELECT id, asset_id, valuation_date, value, notes, created_at
		FROM asset_valuations
		WHERE id = $1
	`

	var v domain.AssetValuation
	err := r.q.QueryRowContext(ctx, query, id).Scan(&v.ID, &v.AssetID, &v.Date, &v.Value, &v.Notes, &v.CreatedAt)
	if err != nil {
		return nil, storeError(err, "valuation not found: %s", id)
	}
	return &v, nil
}

// Delete removes a valuation
func (r *valuationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM asset_valuations WHERE id = $1`, id)
	if err != nil {
		return storeError(err, "failed to delete valuation")
	}
	return notFound(res, "valuation not found: %s", id)
}

// ListByAsset retrieves the asset's valuations, newest first
func (r *valuationRepository) ListByAsset(ctx context.Context, assetID uuid.UUID) ([]*domain.AssetValuation, error) {
	query := `
		SELECT id, asset_id, valuation_date, value, notes, created_at
		FROM asset_valuations
		WHERE asset_id = $1
		ORDER BY valuation_date DESC, created_at DESC
	`

	rows, err := r.q.QueryContext(ctx, query, assetID)
	if err != nil {
		return nil, storeError(err, "failed to list valuations")
	}
	defer rows.Close()

	var valuations []*domain.AssetValuation
	for rows.Next() {
		var v domain.AssetValuation
		if err := rows.Scan(&v.ID, &v.AssetID, &v.Date, &v.Value, &v.Notes, &v.CreatedAt); err != nil {
			return nil, storeError(err, "failed to scan valuation")
		}
		valuations = append(valuations, &v)
	}

	if err := rows.Err(); err != nil {
		return nil, storeError(err, "error iterating valuations")
	}

	return valuations, nil
}
