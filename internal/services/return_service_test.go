package services

import (
	"context"
	"testing"

	"branchdesk-backend/internal/apperr"
	"branchdesk-backend/internal/cache"
	"branchdesk-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newReturnService(t *testing.T) (*ReturnService, *mockReturnStore) {
	repo := &mockReturnStore{}
	t.Cleanup(func() { repo.AssertExpectations(t) })
	return NewReturnService(repo, &cache.Cache{}, zaptest.NewLogger(t)), repo
}

func TestReturnService_CreateInCallerBranch(t *testing.T) {
	svc, repo := newReturnService(t)
	ctx := context.Background()
	id := clerkIn(3)

	repo.On("Create", ctx, mock.MatchedBy(func(r *models.Return) bool {
		return r.BranchID == 3 && r.CreatedBy == id.UserID && r.ItemID == 10 && r.Quantity == 4
	})).Return(nil)

	_, err := svc.CreateReturn(ctx, id, &models.ReturnRequest{ItemID: 10, Quantity: 4})
	require.NoError(t, err)
}

func TestReturnService_UpdateKeepsStoredBranch(t *testing.T) {
	svc, repo := newReturnService(t)
	ctx := context.Background()

	repo.On("Get", ctx, 70).Return(&models.Return{ID: 70, BranchID: 6, ItemID: 10, Quantity: 4}, nil)
	repo.On("Update", ctx, mock.MatchedBy(func(r *models.Return) bool {
		return r.ID == 70 && r.BranchID == 6 && r.Quantity == 9
	})).Return(nil)

	ret, err := svc.UpdateReturn(ctx, superAdmin(), 70, &models.ReturnRequest{ItemID: 10, Quantity: 9})
	require.NoError(t, err)
	assert.Equal(t, 9, ret.Quantity)
}

func TestReturnService_DeleteOtherBranch(t *testing.T) {
	svc, repo := newReturnService(t)
	ctx := context.Background()
	repo.On("Get", ctx, 70).Return(&models.Return{ID: 70, BranchID: 6}, nil)

	err := svc.DeleteReturn(ctx, clerkIn(1), 70)
	assert.ErrorIs(t, err, apperr.ErrBranchScope)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestReturnService_DeleteUsesReturnBranch(t *testing.T) {
	svc, repo := newReturnService(t)
	ctx := context.Background()
	repo.On("Get", ctx, 70).Return(&models.Return{ID: 70, BranchID: 6, Quantity: 4}, nil)
	repo.On("Delete", ctx, 70, 6).Return(nil)

	require.NoError(t, svc.DeleteReturn(ctx, clerkIn(6), 70))
}
