package ledger

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/wealthflow-ledger/internal/domain"
	"github.com/simaogato/wealthflow-ledger/internal/domain/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = func() time.Time { return time.Date(2024, 3, 15, 18, 30, 0, 0, time.UTC) }

func newService(set *mocks.Set) *LedgerService {
	service := NewLedgerService(set.Repositories(), set.UnitOfWork())
	service.Now = fixedNow
	return service
}

func liquidAsset(balance int64) *domain.Asset {
	return &domain.Asset{
		ID:       uuid.New(),
		Name:     "Checking",
		Category: domain.AssetCategoryLiquid,
		Balance:  decimal.NewFromInt(balance),
		Currency: "PLN",
		IsActive: true,
	}
}

func TestCreateOperation_ExpenseIsStoredNegative(t *testing.T) {
	ctx := context.Background()
	set := mocks.NewSet()
	service := newService(set)

	asset := liquidAsset(1000)

	set.Assets.On("GetForUpdate", ctx, asset.ID).Return(asset, nil)
	set.Operations.On("Create", ctx, mock.MatchedBy(func(op *domain.Operation) bool {
		return op.AssetID == asset.ID &&
			op.Type == domain.OperationTypeExpense &&
			op.Amount.Equal(decimal.NewFromInt(-50)) &&
			op.ParentOperationID == nil
	})).Return(nil)
	set.Hashtags.On("Link", ctx, mock.AnythingOfType("uuid.UUID"), []string{"food", "weekly"}).Return(nil)
	set.Operations.On("SumBalance", ctx, asset.ID).Return(decimal.NewFromInt(950), nil)
	set.Assets.On("SetCurrentValuation", ctx, asset.ID, decimal.NewNullDecimal(decimal.NewFromInt(950))).Return(nil)

	op, err := service.CreateOperation(ctx, OperationInput{
		AssetID:     asset.ID,
		Amount:      decimal.NewFromInt(50),
		Type:        domain.OperationTypeExpense,
		Date:        time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Description: "Groceries #Food #weekly #food",
	})

	require.NoError(t, err)
	assert.Equal(t, decimal.NewFromInt(-50).String(), op.Amount.String())
	assert.Equal(t, []string{"food", "weekly"}, op.Hashtags)
	assert.True(t, asset.Balance.Equal(decimal.NewFromInt(950)))

	set.Assets.AssertExpectations(t)
	set.Operations.AssertExpectations(t)
	set.Hashtags.AssertExpectations(t)
}

func TestCreateOperation_DefaultsDateToToday(t *testing.T) {
	ctx := context.Background()
	set := mocks.NewSet()
	service := newService(set)

	asset := liquidAsset(0)

	set.Assets.On("GetForUpdate", ctx, asset.ID).Return(asset, nil)
	set.Operations.On("Create", ctx, mock.MatchedBy(func(op *domain.Operation) bool {
		return op.Date.Equal(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))
	})).Return(nil)
	set.Operations.On("SumBalance", ctx, asset.ID).Return(decimal.NewFromInt(10), nil)
	set.Assets.On("SetCurrentValuation", ctx, asset.ID, mock.Anything).Return(nil)

	_, err := service.CreateOperation(ctx, OperationInput{
		AssetID: asset.ID,
		Amount:  decimal.NewFromInt(10),
		Type:    domain.OperationTypeIncome,
	})

	require.NoError(t, err)
	set.Operations.AssertExpectations(t)
	set.Hashtags.AssertNotCalled(t, "Link")
}

func TestCreateOperation_ValuationAssetKeepsValuation(t *testing.T) {
	ctx := context.Background()
	set := mocks.NewSet()
	service := newService(set)

	house := &domain.Asset{
		ID:        uuid.New(),
		Name:      "Flat",
		Category:  domain.AssetCategoryProperty,
		Valuation: decimal.NewNullDecimal(decimal.NewFromInt(500000)),
		Currency:  "PLN",
	}

	set.Assets.On("GetForUpdate", ctx, house.ID).Return(house, nil)
	set.Operations.On("Create", ctx, mock.Anything).Return(nil)

	_, err := service.CreateOperation(ctx, OperationInput{
		AssetID: house.ID,
		Amount:  decimal.NewFromInt(300),
		Type:    domain.OperationTypeExpense,
		Date:    fixedNow(),
	})

	require.NoError(t, err)
	set.Operations.AssertNotCalled(t, "SumBalance", mock.Anything, mock.Anything)
	set.Assets.AssertNotCalled(t, "SetCurrentValuation", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateOperation_Validation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		input OperationInput
	}{
		{
			name:  "missing asset",
			input: OperationInput{Amount: decimal.NewFromInt(1), Type: domain.OperationTypeIncome},
		},
		{
			name:  "unknown type",
			input: OperationInput{AssetID: uuid.New(), Amount: decimal.NewFromInt(1), Type: "transfer"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := mocks.NewSet()
			uow := set.UnitOfWork()
			service := NewLedgerService(set.Repositories(), uow)

			_, err := service.CreateOperation(ctx, tt.input)

			assert.Equal(t, domain.KindInvalidArgument, domain.KindOf(err))
			assert.Equal(t, 0, uow.Calls, "no transaction should be opened")
		})
	}
}

func TestCreateOperation_AssetNotFound(t *testing.T) {
	ctx := context.Background()
	set := mocks.NewSet()
	service := newService(set)

	assetID := uuid.New()
	set.Assets.On("GetForUpdate", ctx, assetID).Return(nil, domain.NewNotFound("asset not found: %s", assetID))

	_, err := service.CreateOperation(ctx, OperationInput{
		AssetID: assetID,
		Amount:  decimal.NewFromInt(10),
		Type:    domain.OperationTypeIncome,
	})

	assert.True(t, domain.IsNotFound(err))
	set.Operations.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdateOperation_RelinksHashtags(t *testing.T) {
	ctx := context.Background()
	set := mocks.NewSet()
	service := newService(set)

	asset := liquidAsset(-20)
	current := &domain.Operation{
		ID:          uuid.New(),
		AssetID:     asset.ID,
		Amount:      decimal.NewFromInt(-20),
		Type:        domain.OperationTypeExpense,
		Date:        time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Description: "Coffee #cafe",
	}

	set.Operations.On("GetForUpdate", ctx, current.ID).Return(current, nil)
	set.Assets.On("GetForUpdate", ctx, asset.ID).Return(asset, nil)
	set.Operations.On("Update", ctx, mock.MatchedBy(func(op *domain.Operation) bool {
		return op.ID == current.ID && op.Amount.Equal(decimal.NewFromInt(-25))
	})).Return(nil)
	set.Hashtags.On("Unlink", ctx, current.ID).Return(nil)
	set.Hashtags.On("Link", ctx, current.ID, []string{"breakfast"}).Return(nil)
	set.Operations.On("SumBalance", ctx, asset.ID).Return(decimal.NewFromInt(-25), nil)
	set.Assets.On("SetCurrentValuation", ctx, asset.ID, decimal.NewNullDecimal(decimal.NewFromInt(-25))).Return(nil)

	updated, err := service.UpdateOperation(ctx, current.ID, OperationInput{
		AssetID:     asset.ID,
		Amount:      decimal.NewFromInt(25),
		Type:        domain.OperationTypeExpense,
		Date:        current.Date,
		Description: "Coffee and croissant #breakfast",
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"breakfast"}, updated.Hashtags)
	set.Hashtags.AssertExpectations(t)
	set.Assets.AssertExpectations(t)
}

func TestUpdateOperation_MovesBetweenAssets(t *testing.T) {
	ctx := context.Background()
	set := mocks.NewSet()
	service := newService(set)

	from := liquidAsset(-20)
	to := liquidAsset(0)
	current := &domain.Operation{
		ID:      uuid.New(),
		AssetID: from.ID,
		Amount:  decimal.NewFromInt(-20),
		Type:    domain.OperationTypeExpense,
		Date:    fixedNow(),
	}

	set.Operations.On("GetForUpdate", ctx, current.ID).Return(current, nil)
	set.Assets.On("GetForUpdate", ctx, from.ID).Return(from, nil)
	set.Assets.On("GetForUpdate", ctx, to.ID).Return(to, nil)
	set.Operations.On("Update", ctx, mock.Anything).Return(nil)
	set.Hashtags.On("Unlink", ctx, current.ID).Return(nil)
	set.Operations.On("SumBalance", ctx, from.ID).Return(decimal.Zero, nil)
	set.Operations.On("SumBalance", ctx, to.ID).Return(decimal.NewFromInt(-20), nil)
	set.Assets.On("SetCurrentValuation", ctx, from.ID, decimal.NewNullDecimal(decimal.Zero)).Return(nil)
	set.Assets.On("SetCurrentValuation", ctx, to.ID, decimal.NewNullDecimal(decimal.NewFromInt(-20))).Return(nil)

	_, err := service.UpdateOperation(ctx, current.ID, OperationInput{
		AssetID: to.ID,
		Amount:  decimal.NewFromInt(20),
		Type:    domain.OperationTypeExpense,
		Date:    current.Date,
	})

	require.NoError(t, err)
	set.Assets.AssertExpectations(t)
	set.Operations.AssertExpectations(t)
}

func TestUpdateOperation_SplitRowsRejectStructuralChanges(t *testing.T) {
	ctx := context.Background()
	assetID := uuid.New()
	parentID := uuid.New()
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		current *domain.Operation
		input   OperationInput
		kind    domain.ErrorKind
	}{
		{
			name: "split parent amount",
			current: &domain.Operation{ID: uuid.New(), AssetID: assetID, Amount: decimal.NewFromInt(-200),
				Type: domain.OperationTypeExpense, Date: date, IsSplit: true},
			input: OperationInput{AssetID: assetID, Amount: decimal.NewFromInt(210), Type: domain.OperationTypeExpense, Date: date},
			kind:  domain.KindInvalidState,
		},
		{
			name: "split child type",
			current: &domain.Operation{ID: uuid.New(), AssetID: assetID, Amount: decimal.NewFromInt(-80),
				Type: domain.OperationTypeExpense, Date: date, ParentOperationID: &parentID},
			input: OperationInput{AssetID: assetID, Amount: decimal.NewFromInt(80), Type: domain.OperationTypeIncome, Date: date},
			kind:  domain.KindInvalidState,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := mocks.NewSet()
			service := newService(set)
			set.Operations.On("GetForUpdate", ctx, tt.current.ID).Return(tt.current, nil)

			_, err := service.UpdateOperation(ctx, tt.current.ID, tt.input)

			assert.Equal(t, tt.kind, domain.KindOf(err))
			set.Operations.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		})
	}
}

func TestUpdateOperation_SplitChildAcceptsDescription(t *testing.T) {
	ctx := context.Background()
	set := mocks.NewSet()
	service := newService(set)

	asset := liquidAsset(-200)
	parentID := uuid.New()
	child := &domain.Operation{
		ID:                uuid.New(),
		AssetID:           asset.ID,
		Amount:            decimal.NewFromInt(-80),
		Type:              domain.OperationTypeExpense,
		Date:              time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		ParentOperationID: &parentID,
	}

	set.Operations.On("GetForUpdate", ctx, child.ID).Return(child, nil)
	set.Assets.On("GetForUpdate", ctx, asset.ID).Return(asset, nil)
	set.Operations.On("Update", ctx, mock.MatchedBy(func(op *domain.Operation) bool {
		return op.Description == "Household" && op.IsChild()
	})).Return(nil)
	set.Hashtags.On("Unlink", ctx, child.ID).Return(nil)
	set.Operations.On("SumBalance", ctx, asset.ID).Return(decimal.NewFromInt(-200), nil)
	set.Assets.On("SetCurrentValuation", ctx, asset.ID, mock.Anything).Return(nil)

	_, err := service.UpdateOperation(ctx, child.ID, OperationInput{
		AssetID:     asset.ID,
		Amount:      decimal.NewFromInt(80),
		Type:        domain.OperationTypeExpense,
		Date:        child.Date,
		Description: "Household",
	})

	require.NoError(t, err)
	set.Operations.AssertExpectations(t)
}

func TestDeleteOperation_RefreshesBalance(t *testing.T) {
	ctx := context.Background()
	set := mocks.NewSet()
	service := newService(set)

	asset := liquidAsset(500)
	op := &domain.Operation{
		ID:      uuid.New(),
		AssetID: asset.ID,
		Amount:  decimal.NewFromInt(500),
		Type:    domain.OperationTypeIncome,
		Date:    fixedNow(),
	}

	set.Operations.On("GetForUpdate", ctx, op.ID).Return(op, nil)
	set.Assets.On("GetForUpdate", ctx, asset.ID).Return(asset, nil)
	set.Operations.On("Delete", ctx, op.ID).Return(nil)
	set.Operations.On("SumBalance", ctx, asset.ID).Return(decimal.Zero, nil)
	set.Assets.On("SetCurrentValuation", ctx, asset.ID, decimal.NewNullDecimal(decimal.Zero)).Return(nil)

	err := service.DeleteOperation(ctx, op.ID)

	require.NoError(t, err)
	assert.True(t, asset.Balance.IsZero())
	set.Operations.AssertExpectations(t)
	set.Assets.AssertExpectations(t)
}

func TestDeleteOperation_SplitChildRejected(t *testing.T) {
	ctx := context.Background()
	set := mocks.NewSet()
	service := newService(set)

	parentID := uuid.New()
	child := &domain.Operation{
		ID:                uuid.New(),
		AssetID:           uuid.New(),
		Amount:            decimal.NewFromInt(-80),
		Type:              domain.OperationTypeExpense,
		Date:              fixedNow(),
		ParentOperationID: &parentID,
	}
	set.Operations.On("GetForUpdate", ctx, child.ID).Return(child, nil)

	err := service.DeleteOperation(ctx, child.ID)

	assert.Equal(t, domain.KindInvalidState, domain.KindOf(err))
	set.Operations.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestGetBalance(t *testing.T) {
	ctx := context.Background()
	set := mocks.NewSet()
	service := newService(set)

	asset := liquidAsset(0)
	set.Assets.On("GetByID", ctx, asset.ID).Return(asset, nil)
	set.Operations.On("SumBalance", ctx, asset.ID).Return(decimal.RequireFromString("-200.00"), nil)

	balance, err := service.GetBalance(ctx, asset.ID)

	require.NoError(t, err)
	assert.Equal(t, "-200", balance.String())
}

func TestGetBalance_AssetNotFound(t *testing.T) {
	ctx := context.Background()
	set := mocks.NewSet()
	service := newService(set)

	assetID := uuid.New()
	set.Assets.On("GetByID", ctx, assetID).Return(nil, domain.NewNotFound("asset not found"))

	_, err := service.GetBalance(ctx, assetID)

	assert.True(t, domain.IsNotFound(err))
	set.Operations.AssertNotCalled(t, "SumBalance", mock.Anything, mock.Anything)
}

func TestListOperations(t *testing.T) {
	ctx := context.Background()
	set := mocks.NewSet()
	service := newService(set)

	assetID := uuid.New()
	filter := domain.OperationFilter{AssetID: &assetID, Limit: 10}
	ops := []*domain.Operation{{ID: uuid.New()}, {ID: uuid.New()}}

	set.Operations.On("Count", ctx, &assetID).Return(12, nil)
	set.Operations.On("List", ctx, filter).Return(ops, nil)

	got, total, err := service.ListOperations(ctx, filter)

	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, 12, total)

	_, _, err = service.ListOperations(ctx, domain.OperationFilter{Limit: 0})
	assert.Equal(t, domain.KindInvalidArgument, domain.KindOf(err))
}

func TestLockAssets_SortedAndDeduplicated(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockAssetRepository)

	a := uuid.MustParse("00000000-0000-0000-0000-0000000000aa")
	b := uuid.MustParse("00000000-0000-0000-0000-0000000000bb")

	var order []uuid.UUID
	repo.On("GetForUpdate", ctx, mock.AnythingOfType("uuid.UUID")).
		Run(func(args mock.Arguments) {
			order = append(order, args.Get(1).(uuid.UUID))
		}).
		Return(&domain.Asset{}, nil)

	locked, err := LockAssets(ctx, repo, b, a, b)

	require.NoError(t, err)
	assert.Len(t, locked, 2)
	require.Len(t, order, 2)
	assert.True(t, bytes.Compare(order[0][:], order[1][:]) < 0)
	assert.Equal(t, a, order[0])
}

func TestLockAssets_PropagatesError(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockAssetRepository)

	id := uuid.New()
	repo.On("GetForUpdate", ctx, id).Return(nil, errors.New("connection reset"))

	_, err := LockAssets(ctx, repo, id)

	assert.Error(t, err)
}
