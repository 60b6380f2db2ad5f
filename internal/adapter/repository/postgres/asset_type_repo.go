package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/simaogato/wealthflow-ledger/internal/domain"
)

const assetTypesCacheKey = "asset_types"

// assetTypeRegistry implements domain.AssetTypeRegistry. The registry is
// seeded by the schema and rarely changes, so lookups are served from an
// in-process cache.
type assetTypeRegistry struct {
	db    *DB
	cache *cache.Cache
}

// NewAssetTypeRegistry creates an asset type registry whose entries live for ttl
func NewAssetTypeRegistry(db *DB, ttl time.Duration) domain.AssetTypeRegistry {
	return &assetTypeRegistry{
		db:    db,
		cache: cache.New(ttl, 2*ttl),
	}
}

// GetByID retrieves an asset type by its ID
func (r *assetTypeRegistry) GetByID(ctx context.Context, id uuid.UUID) (*domain.AssetType, error) {
	types, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	for _, t := range types {
		if t.ID == id {
			return t, nil
		}
	}

	return nil, domain.NewNotFound("asset type not found: %s", id)
}

// List retrieves every asset type
func (r *assetTypeRegistry) List(ctx context.Context) ([]*domain.AssetType, error) {
	if cached, ok := r.cache.Get(assetTypesCacheKey); ok {
		return cached.([]*domain.AssetType), nil
	}

	query := `
		SELECT id, name, category, allows_operations
		FROM asset_types
		ORDER BY category, name
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, storeError(err, "failed to list asset types")
	}
	defer rows.Close()

	var types []*domain.AssetType
	for rows.Next() {
		var t domain.AssetType
		if err := rows.Scan(&t.ID, &t.Name, &t.Category, &t.AllowsOperations); err != nil {
			return nil, storeError(err, "failed to scan asset type")
		}
		types = append(types, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, storeError(err, "error iterating asset types")
	}

	r.cache.Set(assetTypesCacheKey, types, cache.DefaultExpiration)
	return types, nil
}
