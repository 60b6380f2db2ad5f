// Package mocks provides testify mocks of the domain repositories for use
// case tests.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/wealthflow-ledger/internal/domain"
	"github.com/stretchr/testify/mock"
)

// MockAssetRepository is a mock implementation of AssetRepository for testing
type MockAssetRepository struct {
	mock.Mock
}

func (m *MockAssetRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Asset, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Asset), args.Error(1)
}

func (m *MockAssetRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Asset, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Asset), args.Error(1)
}

func (m *MockAssetRepository) Create(ctx context.Context, asset *domain.Asset) error {
	args := m.Called(ctx, asset)
	return args.Error(0)
}

func (m *MockAssetRepository) List(ctx context.Context, category domain.AssetCategory) ([]*domain.Asset, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Asset), args.Error(1)
}

func (m *MockAssetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAssetRepository) Update(ctx context.Context, asset *domain.Asset) error {
	args := m.Called(ctx, asset)
	return args.Error(0)
}

func (m *MockAssetRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

func (m *MockAssetRepository) SetCurrentValuation(ctx context.Context, id uuid.UUID, value decimal.NullDecimal) error {
	args := m.Called(ctx, id, value)
	return args.Error(0)
}

func (m *MockAssetRepository) SetHoldings(ctx context.Context, id uuid.UUID, holdings domain.Holdings) error {
	args := m.Called(ctx, id, holdings)
	return args.Error(0)
}

// MockAssetTypeRegistry is a mock implementation of AssetTypeRegistry for testing
type MockAssetTypeRegistry struct {
	mock.Mock
}

func (m *MockAssetTypeRegistry) GetByID(ctx context.Context, id uuid.UUID) (*domain.AssetType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AssetType), args.Error(1)
}

func (m *MockAssetTypeRegistry) List(ctx context.Context) ([]*domain.AssetType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.AssetType), args.Error(1)
}

// MockOperationRepository is a mock implementation of OperationRepository for testing
type MockOperationRepository struct {
	mock.Mock
}

func (m *MockOperationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Operation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Operation), args.Error(1)
}

func (m *MockOperationRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Operation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Operation), args.Error(1)
}

func (m *MockOperationRepository) Create(ctx context.Context, op *domain.Operation) error {
	args := m.Called(ctx, op)
	return args.Error(0)
}

func (m *MockOperationRepository) Update(ctx context.Context, op *domain.Operation) error {
	args := m.Called(ctx, op)
	return args.Error(0)
}

func (m *MockOperationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOperationRepository) SetLinked(ctx context.Context, id uuid.UUID, linkedID uuid.UUID) error {
	args := m.Called(ctx, id, linkedID)
	return args.Error(0)
}

func (m *MockOperationRepository) SetSplit(ctx context.Context, id uuid.UUID, isSplit bool) error {
	args := m.Called(ctx, id, isSplit)
	return args.Error(0)
}

func (m *MockOperationRepository) ListChildren(ctx context.Context, parentID uuid.UUID) ([]*domain.Operation, error) {
	args := m.Called(ctx, parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Operation), args.Error(1)
}

func (m *MockOperationRepository) DeleteChildren(ctx context.Context, parentID uuid.UUID) (int, error) {
	args := m.Called(ctx, parentID)
	return args.Int(0), args.Error(1)
}

func (m *MockOperationRepository) List(ctx context.Context, filter domain.OperationFilter) ([]*domain.Operation, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Operation), args.Error(1)
}

func (m *MockOperationRepository) Count(ctx context.Context, assetID *uuid.UUID) (int, error) {
	args := m.Called(ctx, assetID)
	return args.Int(0), args.Error(1)
}

func (m *MockOperationRepository) SumBalance(ctx context.Context, assetID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, assetID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockInvestmentTransactionRepository is a mock implementation of InvestmentTransactionRepository for testing
type MockInvestmentTransactionRepository struct {
	mock.Mock
}

func (m *MockInvestmentTransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.InvestmentTransaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InvestmentTransaction), args.Error(1)
}

func (m *MockInvestmentTransactionRepository) Create(ctx context.Context, tx *domain.InvestmentTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockInvestmentTransactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockInvestmentTransactionRepository) ListByAsset(ctx context.Context, assetID uuid.UUID) ([]*domain.InvestmentTransaction, error) {
	args := m.Called(ctx, assetID)
	if fn, ok := args.Get(0).(func(context.Context, uuid.UUID) []*domain.InvestmentTransaction); ok {
		return fn(ctx, assetID), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.InvestmentTransaction), args.Error(1)
}

// MockValuationRepository is a mock implementation of ValuationRepository for testing
type MockValuationRepository struct {
	mock.Mock
}

func (m *MockValuationRepository) Add(ctx context.Context, v *domain.AssetValuation) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *MockValuationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.AssetValuation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AssetValuation), args.Error(1)
}

func (m *MockValuationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockValuationRepository) ListByAsset(ctx context.Context, assetID uuid.UUID) ([]*domain.AssetValuation, error) {
	args := m.Called(ctx, assetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.AssetValuation), args.Error(1)
}

// MockCategoryRepository is a mock implementation of CategoryRepository for testing
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) GetOrCreateSystem(ctx context.Context, spec domain.SystemCategorySpec, parentID *uuid.UUID) (*domain.Category, error) {
	args := m.Called(ctx, spec, parentID)
	if fn, ok := args.Get(0).(func(context.Context, domain.SystemCategorySpec, *uuid.UUID) *domain.Category); ok {
		return fn(ctx, spec, parentID), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockHashtagRepository is a mock implementation of HashtagRepository for testing
type MockHashtagRepository struct {
	mock.Mock
}

func (m *MockHashtagRepository) Link(ctx context.Context, operationID uuid.UUID, names []string) error {
	args := m.Called(ctx, operationID, names)
	return args.Error(0)
}

func (m *MockHashtagRepository) Unlink(ctx context.Context, operationID uuid.UUID) error {
	args := m.Called(ctx, operationID)
	return args.Error(0)
}

func (m *MockHashtagRepository) NamesFor(ctx context.Context, operationIDs []uuid.UUID) (map[uuid.UUID][]string, error) {
	args := m.Called(ctx, operationIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID][]string), args.Error(1)
}

func (m *MockHashtagRepository) List(ctx context.Context) ([]*domain.Hashtag, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Hashtag), args.Error(1)
}

func (m *MockHashtagRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Hashtag, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Hashtag), args.Error(1)
}

func (m *MockHashtagRepository) Upsert(ctx context.Context, name string) (*domain.Hashtag, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Hashtag), args.Error(1)
}

func (m *MockHashtagRepository) Usage(ctx context.Context, id uuid.UUID) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *MockHashtagRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Set bundles one mock per repository
type Set struct {
	Assets                 *MockAssetRepository
	AssetTypes             *MockAssetTypeRegistry
	Operations             *MockOperationRepository
	InvestmentTransactions *MockInvestmentTransactionRepository
	Valuations             *MockValuationRepository
	Categories             *MockCategoryRepository
	Hashtags               *MockHashtagRepository
}

// NewSet creates a fresh Set
func NewSet() *Set {
	return &Set{
		Assets:                 new(MockAssetRepository),
		AssetTypes:             new(MockAssetTypeRegistry),
		Operations:             new(MockOperationRepository),
		InvestmentTransactions: new(MockInvestmentTransactionRepository),
		Valuations:             new(MockValuationRepository),
		Categories:             new(MockCategoryRepository),
		Hashtags:               new(MockHashtagRepository),
	}
}

// Repositories exposes the set as domain.Repositories
func (s *Set) Repositories() domain.Repositories {
	return domain.Repositories{
		Assets:                 s.Assets,
		AssetTypes:             s.AssetTypes,
		Operations:             s.Operations,
		InvestmentTransactions: s.InvestmentTransactions,
		Valuations:             s.Valuations,
		Categories:             s.Categories,
		Hashtags:               s.Hashtags,
	}
}

// UnitOfWork returns a UnitOfWork that runs fn directly against the set
func (s *Set) UnitOfWork() *MockUnitOfWork {
	return &MockUnitOfWork{Repos: s.Repositories()}
}

// MockUnitOfWork runs fn against fixed repositories and counts invocations.
// It does not roll anything back.
type MockUnitOfWork struct {
	Repos domain.Repositories
	Calls int
}

func (u *MockUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, repos domain.Repositories) error) error {
	u.Calls++
	return fn(ctx, u.Repos)
}
