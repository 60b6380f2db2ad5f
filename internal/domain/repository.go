package domain

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AssetRepository defines the interface for asset persistence operations
type AssetRepository interface {
	// GetByID retrieves an asset by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*Asset, error)

	// GetForUpdate retrieves an asset and locks its row until the surrounding
	// transaction ends. Only meaningful inside UnitOfWork.Do.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*Asset, error)

	// Create creates a new asset
	Create(ctx context.Context, asset *Asset) error

	// List retrieves assets, optionally filtered by category
	// If category is empty, returns all assets
	List(ctx context.Context, category AssetCategory) ([]*Asset, error)

	// Delete removes an asset together with its operations, investment
	// transactions and valuations
	Delete(ctx context.Context, id uuid.UUID) error

	// Update overwrites the descriptive fields: name, description,
	// account number, currency and sort order
	Update(ctx context.Context, asset *Asset) error

	// SetActive changes the active flag
	SetActive(ctx context.Context, id uuid.UUID, active bool) error

	// SetCurrentValuation overwrites the current_valuation column
	SetCurrentValuation(ctx context.Context, id uuid.UUID, value decimal.NullDecimal) error

	// SetHoldings overwrites quantity and average purchase price
	SetHoldings(ctx context.Context, id uuid.UUID, holdings Holdings) error
}

// AssetTypeRegistry is the asset type collaborator
type AssetTypeRegistry interface {
	// GetByID retrieves an asset type by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*AssetType, error)

	// List retrieves every asset type
	List(ctx context.Context) ([]*AssetType, error)
}

// OperationRepository defines the interface for operation persistence operations
type OperationRepository interface {
	// GetByID retrieves an operation (with its hashtags) by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*Operation, error)

	// GetForUpdate retrieves an operation and locks its row
	GetForUpdate(ctx context.Context, id uuid.UUID) (*Operation, error)

	// Create inserts a new operation
	Create(ctx context.Context, op *Operation) error

	// Update overwrites the mutable columns of an operation
	Update(ctx context.Context, op *Operation) error

	// Delete removes an operation; split children are removed with their parent
	Delete(ctx context.Context, id uuid.UUID) error

	// SetLinked points id at its transfer partner
	SetLinked(ctx context.Context, id uuid.UUID, linkedID uuid.UUID) error

	// SetSplit changes the is_split flag
	SetSplit(ctx context.Context, id uuid.UUID, isSplit bool) error

	// ListChildren retrieves the split children of parentID
	ListChildren(ctx context.Context, parentID uuid.UUID) ([]*Operation, error)

	// DeleteChildren removes every split child of parentID
	DeleteChildren(ctx context.Context, parentID uuid.UUID) (int, error)

	// List retrieves a page of top-level operations, newest first
	List(ctx context.Context, filter OperationFilter) ([]*Operation, error)

	// Count returns the number of top-level operations
	// If assetID is nil, counts every asset
	Count(ctx context.Context, assetID *uuid.UUID) (int, error)

	// SumBalance returns Σ amount of the asset's top-level operations
	SumBalance(ctx context.Context, assetID uuid.UUID) (decimal.Decimal, error)
}

// InvestmentTransactionRepository defines the interface for investment transaction persistence
type InvestmentTransactionRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*InvestmentTransaction, error)
	Create(ctx context.Context, tx *InvestmentTransaction) error
	Delete(ctx context.Context, id uuid.UUID) error

	// ListByAsset retrieves the asset's transactions, newest first
	ListByAsset(ctx context.Context, assetID uuid.UUID) ([]*InvestmentTransaction, error)
}

// ValuationRepository defines the interface for asset valuation persistence
type ValuationRepository interface {
	// Add creates a new valuation entry
	Add(ctx context.Context, v *AssetValuation) error

	GetByID(ctx context.Context, id uuid.UUID) (*AssetValuation, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// ListByAsset retrieves the asset's valuations, newest first
	ListByAsset(ctx context.Context, assetID uuid.UUID) ([]*AssetValuation, error)
}

// CategoryRepository is the category collaborator
type CategoryRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Category, error)

	// GetOrCreateSystem returns the system category for spec, creating it when
	// missing. Must be safe under concurrent callers (unique role key).
	GetOrCreateSystem(ctx context.Context, spec SystemCategorySpec, parentID *uuid.UUID) (*Category, error)

	Delete(ctx context.Context, id uuid.UUID) error
}

// HashtagRepository defines the interface for the shared hashtag registry
type HashtagRepository interface {
	// Link upserts names into the registry and links them to the operation
	Link(ctx context.Context, operationID uuid.UUID, names []string) error

	// Unlink removes every hashtag link of the operation
	Unlink(ctx context.Context, operationID uuid.UUID) error

	// NamesFor returns the hashtag names linked to each operation
	NamesFor(ctx context.Context, operationIDs []uuid.UUID) (map[uuid.UUID][]string, error)

	List(ctx context.Context) ([]*Hashtag, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Hashtag, error)
	Upsert(ctx context.Context, name string) (*Hashtag, error)

	// Usage returns how many operations reference the hashtag
	Usage(ctx context.Context, id uuid.UUID) (int, error)

	Delete(ctx context.Context, id uuid.UUID) error
}

// Repositories groups the repositories bound to one connection or transaction
type Repositories struct {
	Assets                 AssetRepository
	AssetTypes             AssetTypeRegistry
	Operations             OperationRepository
	InvestmentTransactions InvestmentTransactionRepository
	Valuations             ValuationRepository
	Categories             CategoryRepository
	Hashtags               HashtagRepository
}

// UnitOfWork runs a function atomically
type UnitOfWork interface {
	// Do runs fn inside one database transaction. The repositories passed to fn
	// are bound to that transaction; any error returned by fn rolls back every
	// write made through them.
	Do(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}
