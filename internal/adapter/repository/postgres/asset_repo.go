package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/wealthflow-ledger/internal/domain"
)

// assetRepository implements domain.AssetRepository
type assetRepository struct {
	q querier
}

// NewAssetRepository creates a new asset repository
func NewAssetRepository(db *DB) domain.AssetRepository {
	return &assetRepository{q: db}
}

const assetColumns = `
	a.id, a.user_id, a.asset_type_id, t.category, a.name, a.description, a.account_number,
	a.quantity, a.average_purchase_price, a.current_valuation, a.currency, a.is_active,
	a.created_at, a.sort_order
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAsset(row rowScanner) (*domain.Asset, error) {
	var asset domain.Asset
	var current decimal.NullDecimal

	err := row.Scan(
		&asset.ID,
		&asset.UserID,
		&asset.AssetTypeID,
		&asset.Category,
		&asset.Name,
		&asset.Description,
		&asset.AccountNumber,
		&asset.Quantity,
		&asset.AveragePurchasePrice,
		&current,
		&asset.Currency,
		&asset.IsActive,
		&asset.CreatedAt,
		&asset.SortOrder,
	)
	if err != nil {
		return nil, err
	}

	// current_valuation is either the balance or the valuation, by category
	asset.SetCurrentValuation(current)
	return &asset, nil
}

// GetByID retrieves an asset by its ID
func (r *assetRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Asset, error) {
	query := `SELECT ` + assetColumns + `
		FROM assets a
		JOIN asset_types t ON t.id = a.asset_type_id
		WHERE a.id = $1
	`

	asset, err := scanAsset(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, storeError(err, "asset not found: %s", id)
	}

	return asset, nil
}

// GetForUpdate retrieves an asset and locks its row
func (r *assetRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Asset, error) {
	query := `SELECT ` + assetColumns + `
		FROM assets a
		JOIN asset_types t ON t.id = a.asset_type_id
		WHERE a.id = $1
		FOR UPDATE OF a
	`

	asset, err := scanAsset(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, storeError(err, "asset not found: %s", id)
	}

	return asset, nil
}

// Create creates a new asset
func (r *assetRepository) Create(ctx context.Context, asset *domain.Asset) error {
	query := `
		INSERT INTO assets (id, user_id, asset_type_id, name, description, account_number,
			quantity, average_purchase_price, current_valuation, currency, is_active, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at
	`

	err := r.q.QueryRowContext(ctx, query,
		asset.ID,
		asset.UserID,
		asset.AssetTypeID,
		asset.Name,
		asset.Description,
		asset.AccountNumber,
		asset.Quantity,
		asset.AveragePurchasePrice,
		asset.CurrentValuation(),
		asset.Currency,
		asset.IsActive,
		asset.SortOrder,
	).Scan(&asset.CreatedAt)
	if err != nil {
		return storeError(err, "failed to create asset")
	}

	return nil
}

// List retrieves assets, optionally filtered by category
func (r *assetRepository) List(ctx context.Context, category domain.AssetCategory) ([]*domain.Asset, error) {
	query := `SELECT ` + assetColumns + `
		FROM assets a
		JOIN asset_types t ON t.id = a.asset_type_id
	`

	var rows *sql.Rows
	var err error

	if category == "" {
		query += ` ORDER BY a.sort_order, a.created_at`
		rows, err = r.q.QueryContext(ctx, query)
	} else {
		query += ` WHERE t.category = $1 ORDER BY a.sort_order, a.created_at`
		rows, err = r.q.QueryContext(ctx, query, string(category))
	}
	if err != nil {
		return nil, storeError(err, "failed to list assets")
	}
	defer rows.Close()

	var assets []*domain.Asset
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, storeError(err, "failed to scan asset")
		}
		assets = append(assets, asset)
	}

	if err := rows.Err(); err != nil {
		return nil, storeError(err, "error iterating assets")
	}

	return assets, nil
}

// Delete removes an asset; operations, investment transactions and
// valuations go with it through ON DELETE CASCADE
func (r *assetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM assets WHERE id = $1`, id)
	if err != nil {
		return storeError(err, "failed to delete asset")
	}
	return notFound(res, "asset not found: %s", id)
}

// Update overwrites the descriptive fields of an asset
func (r *assetRepository) Update(ctx context.Context, asset *domain.Asset) error {
	query := `
		UPDATE assets
		SET name = $1, description = $2, account_number = $3, currency = $4, sort_order = $5
		WHERE id = $6
	`

	res, err := r.q.ExecContext(ctx, query,
		asset.Name, asset.Description, asset.AccountNumber, asset.Currency, asset.SortOrder, asset.ID)
	if err != nil {
		return storeError(err, "failed to update asset")
	}
	return notFound(res, "asset not found: %s", asset.ID)
}

// SetActive changes the active flag
func (r *assetRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	res, err := r.q.ExecContext(ctx, `UPDATE assets SET is_active = $1 WHERE id = $2`, active, id)
	if err != nil {
		return storeError(err, "failed to update asset")
	}
	return notFound(res, "asset not found: %s", id)
}

// SetCurrentValuation overwrites the current_valuation column
func (r *assetRepository) SetCurrentValuation(ctx context.Context, id uuid.UUID, value decimal.NullDecimal) error {
	res, err := r.q.ExecContext(ctx, `UPDATE assets SET current_valuation = $1 WHERE id = $2`, value, id)
	if err != nil {
		return storeError(err, "failed to update current valuation")
	}
	return notFound(res, "asset not found: %s", id)
}

// SetHoldings overwrites quantity and average purchase price
func (r *assetRepository) SetHoldings(ctx context.Context, id uuid.UUID, holdings domain.Holdings) error {
	query := `UPDATE assets SET quantity = $1, average_purchase_price = $2 WHERE id = $3`

	res, err := r.q.ExecContext(ctx, query, holdings.Quantity, holdings.AveragePurchasePrice, id)
	if err != nil {
		return storeError(err, "failed to update holdings")
	}
	return notFound(res, "asset not found: %s", id)
}
