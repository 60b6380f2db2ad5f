package split

import (
	"context"
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

func expenseParent(amount string) *domain.Operation {
	return &domain.Operation{
		ID:      uuid.New(),
		AssetID: uuid.New(),
		Amount:  decimal.RequireFromString(amount),
		Type:    domain.OperationTypeExpense,
		Date:    time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
	}
}

func TestSplitOperation_Success(t *testing.T) {
	ctx := context.Background()
	set := mocks.NewSet()
	service := NewSplitService(set.Repositories(), set.UnitOfWork())

	parent := expenseParent("-200.00")
	groceries := uuid.New()

	set.Operations.On("GetForUpdate", ctx, parent.ID).Return(parent, nil)
	set.Operations.On("SetSplit", ctx, parent.ID, true).Return(nil)
	set.Operations.On("Create", ctx, mock.MatchedBy(func(op *domain.Operation) bool {
		return op.ParentOperationID != nil && *op.ParentOperationID == parent.ID &&
			op.AssetID == parent.AssetID &&
			op.Type == domain.OperationTypeExpense &&
			op.Date.Equal(parent.Date) &&
			op.Amount.IsNegative()
	})).Return(nil).Twice()
	set.Hashtags.On("Link", ctx, mock.AnythingOfType("uuid.UUID"), []string{"food"}).Return(nil).Once()

	children, err := service.SplitOperation(ctx, parent.ID, []domain.SplitItem{
		{CategoryID: &groceries, Amount: decimal.RequireFromString("120.00"), Description: "Market #food"},
		{Amount: decimal.RequireFromString("80.00"), Description: "Pharmacy"},
	})

	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.Equal(t, "-120", children[0].Amount.String())
	assert.Equal(t, "-80", children[1].Amount.String())
	assert.Equal(t, &groceries, children[0].CategoryID)

	// The split never touches the asset balance
	set.Operations.AssertNotCalled(t, "SumBalance", mock.Anything, mock.Anything)
	set.Assets.AssertNotCalled(t, "SetCurrentValuation", mock.Anything, mock.Anything, mock.Anything)
	set.Operations.AssertExpectations(t)
	set.Hashtags.AssertExpectations(t)
}

func TestSplitOperation_WithinTolerance(t *testing.T) {
	ctx := context.Background()
	set := mocks.NewSet()
	service := NewSplitService(set.Repositories(), set.UnitOfWork())

	parent := expenseParent("-100.00")

	set.Operations.On("GetForUpdate", ctx, parent.ID).Return(parent, nil)
	set.Operations.On("SetSplit", ctx, parent.ID, true).Return(nil)
	set.Operations.On("Create", ctx, mock.Anything).Return(nil)

	children, err := service.SplitOperation(ctx, parent.ID, []domain.SplitItem{
		{Amount: decimal.RequireFromString("33.33")},
		{Amount: decimal.RequireFromString("33.33")},
		{Amount: decimal.RequireFromString("33.33")},
	})

	require.NoError(t, err)
	assert.Len(t, children, 3)
}

func TestSplitOperation_Failures(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		parent func() *domain.Operation
		items  []domain.SplitItem
		kind   domain.ErrorKind
	}{
		{
			name: "already split",
			parent: func() *domain.Operation {
				p := expenseParent("-200")
				p.IsSplit = true
				return p
			},
			items: []domain.SplitItem{{Amount: decimal.NewFromInt(100)}, {Amount: decimal.NewFromInt(100)}},
			kind:  domain.KindInvalidState,
		},
		{
			name:   "single item",
			parent: func() *domain.Operation { return expenseParent("-200") },
			items:  []domain.SplitItem{{Amount: decimal.NewFromInt(200)}},
			kind:   domain.KindInvalidArgument,
		},
		{
			name:   "sum too large",
			parent: func() *domain.Operation { return expenseParent("-200.00") },
			items: []domain.SplitItem{
				{Amount: decimal.RequireFromString("120.00")},
				{Amount: decimal.RequireFromString("90.00")},
			},
			kind: domain.KindAmountMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := mocks.NewSet()
			service := NewSplitService(set.Repositories(), set.UnitOfWork())
			parent := tt.parent()
			set.Operations.On("GetForUpdate", ctx, parent.ID).Return(parent, nil)

			children, err := service.SplitOperation(ctx, parent.ID, tt.items)

			assert.Nil(t, children)
			assert.Equal(t, tt.kind, domain.KindOf(err))
			set.Operations.AssertNotCalled(t, "SetSplit", mock.Anything, mock.Anything, mock.Anything)
			set.Operations.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestSplitOperation_ParentNotFound(t *testing.T) {
	ctx := context.Background()
	set := mocks.NewSet()
	service := NewSplitService(set.Repositories(), set.UnitOfWork())

	id := uuid.New()
	set.Operations.On("GetForUpdate", ctx, id).Return(nil, domain.NewNotFound("operation not found: %s", id))

	_, err := service.SplitOperation(ctx, id, []domain.SplitItem{
		{Amount: decimal.NewFromInt(1)}, {Amount: decimal.NewFromInt(1)},
	})

	assert.True(t, domain.IsNotFound(err))
}

func TestUnsplitOperation(t *testing.T) {
	ctx := context.Background()
	set := mocks.NewSet()
	service := NewSplitService(set.Repositories(), set.UnitOfWork())

	parent := expenseParent("-200")
	parent.IsSplit = true

	set.Operations.On("GetForUpdate", ctx, parent.ID).Return(parent, nil)
	set.Operations.On("DeleteChildren", ctx, parent.ID).Return(2, nil)
	set.Operations.On("SetSplit", ctx, parent.ID, false).Return(nil)

	restored, err := service.UnsplitOperation(ctx, parent.ID)

	require.NoError(t, err)
	assert.False(t, restored.IsSplit)
	assert.Equal(t, "-200", restored.Amount.String())
	set.Operations.AssertExpectations(t)
	set.Operations.AssertNotCalled(t, "SumBalance", mock.Anything, mock.Anything)
}

func TestUnsplitOperation_NotSplit(t *testing.T) {
	ctx := context.Background()
	set := mocks.NewSet()
	service := NewSplitService(set.Repositories(), set.UnitOfWork())

	parent := expenseParent("-200")
	set.Operations.On("GetForUpdate", ctx, parent.ID).Return(parent, nil)

	_, err := service.UnsplitOperation(ctx, parent.ID)

	assert.Equal(t, domain.KindInvalidState, domain.KindOf(err))
	set.Operations.AssertNotCalled(t, "DeleteChildren", mock.Anything, mock.Anything)
}

func TestGetOperationChildren(t *testing.T) {
	ctx := context.Background()
	set := mocks.NewSet()
	service := NewSplitService(set.Repositories(), set.UnitOfWork())

	parent := expenseParent("-200")
	parent.IsSplit = true
	children := []*domain.Operation{{ID: uuid.New()}, {ID: uuid.New()}}

	set.Operations.On("GetByID", ctx, parent.ID).Return(parent, nil)
	set.Operations.On("ListChildren", ctx, parent.ID).Return(children, nil)

	got, err := service.GetOperationChildren(ctx, parent.ID)

	require.NoError(t, err)
	assert.Equal(t, children, got)
}
