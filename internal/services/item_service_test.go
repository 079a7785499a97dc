package services

import (
	"context"
	"testing"

	"branchdesk-backend/internal/apperr"
	"branchdesk-backend/internal/cache"
	"branchdesk-backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newItemService(t *testing.T) (*ItemService, *mockItemStore) {
	repo := &mockItemStore{}
	t.Cleanup(func() { repo.AssertExpectations(t) })
	return NewItemService(repo, &cache.Cache{}, zaptest.NewLogger(t)), repo
}

func TestItemService_ListUsesBranchScope(t *testing.T) {
	svc, repo := newItemService(t)
	ctx := context.Background()

	repo.On("List", ctx, 3).Return([]*models.Item{{ID: 1, BranchID: 3}}, nil).Once()
	repo.On("List", ctx, 0).Return([]*models.Item{}, nil).Once()

	items, err := svc.ListItems(ctx, clerkIn(3))
	require.NoError(t, err)
	assert.Len(t, items, 1)

	_, err = svc.ListItems(ctx, superAdmin())
	require.NoError(t, err)
}

func TestItemService_GetOtherBranch(t *testing.T) {
	svc, repo := newItemService(t)
	ctx := context.Background()
	repo.On("Get", ctx, 9).Return(&models.Item{ID: 9, BranchID: 2}, nil)

	_, err := svc.GetItem(ctx, clerkIn(1), 9)
	assert.ErrorIs(t, err, apperr.ErrBranchScope)

	it, err := svc.GetItem(ctx, superAdmin(), 9)
	require.NoError(t, err)
	assert.Equal(t, 9, it.ID)
}

func TestItemService_CreateRejectsNegativePrice(t *testing.T) {
	svc, _ := newItemService(t)
	_, err := svc.CreateItem(context.Background(), clerkIn(1), &models.CreateItemRequest{
		Name:  "Pipe",
		Price: decimal.RequireFromString("-1"),
	})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestItemService_CreateInCallerBranch(t *testing.T) {
	svc, repo := newItemService(t)
	ctx := context.Background()
	repo.On("Create", ctx, mock.MatchedBy(func(it *models.Item) bool {
		return it.BranchID == 4 && it.Name == "Pipe" && it.Weight == "4.5kg"
	})).Return(nil)

	it, err := svc.CreateItem(ctx, clerkIn(4), &models.CreateItemRequest{
		Name:   "Pipe",
		Price:  decimal.RequireFromString("120.50"),
		Weight: "4.5kg",
	})
	require.NoError(t, err)
	assert.Equal(t, 4, it.BranchID)
}

func TestItemService_RecordLossWritesNegativeDelta(t *testing.T) {
	svc, repo := newItemService(t)
	ctx := context.Background()
	id := clerkIn(2)

	repo.On("Get", ctx, 5).Return(&models.Item{ID: 5, BranchID: 2, Stock: 10}, nil)
	repo.On("RecordStockChange", ctx, mock.MatchedBy(func(l *models.StockLog) bool {
		return l.Action == models.StockActionLoss && l.Quantity == 3 && l.Delta() == -3 &&
			l.BranchID == 2 && l.CreatedBy == id.UserID
	})).Return(7, nil)

	res, err := svc.RecordLoss(ctx, id, 5, &models.StockAdjustRequest{Quantity: 3, Remark: "damaged"})
	require.NoError(t, err)
	assert.Equal(t, 7, res.Stock)
	assert.Equal(t, "damaged", res.Log.Remark)
}

func TestItemService_AddStockPropagatesLedgerError(t *testing.T) {
	svc, repo := newItemService(t)
	ctx := context.Background()

	repo.On("Get", ctx, 5).Return(&models.Item{ID: 5, BranchID: 2}, nil)
	repo.On("RecordStockChange", ctx, mock.Anything).Return(0, apperr.ErrItemNotFound)

	_, err := svc.AddStock(ctx, clerkIn(2), 5, &models.StockAdjustRequest{Quantity: 1})
	assert.ErrorIs(t, err, apperr.ErrItemNotFound)
}

func TestItemService_StockAdjustNeedsPositiveQuantity(t *testing.T) {
	svc, _ := newItemService(t)
	_, err := svc.AddStock(context.Background(), clerkIn(2), 5, &models.StockAdjustRequest{Quantity: -4})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}
