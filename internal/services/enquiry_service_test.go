package services

import (
	"context"
	"testing"
	"time"

	"branchdesk-backend/internal/apperr"
	"branchdesk-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newEnquiryService(t *testing.T) (*EnquiryService, *mockEnquiryStore) {
	repo := &mockEnquiryStore{}
	t.Cleanup(func() { repo.AssertExpectations(t) })
	return NewEnquiryService(repo, zaptest.NewLogger(t)), repo
}

func TestEnquiryService_CreateParsesDate(t *testing.T) {
	svc, repo := newEnquiryService(t)
	ctx := context.Background()
	id := clerkIn(3)

	repo.On("Create", ctx, mock.MatchedBy(func(e *models.Enquiry) bool {
		return e.BranchID == 3 && e.CreatedBy == id.UserID && e.PartyName == "Acme" &&
			e.EnquiryDate != nil && e.EnquiryDate.Day() == 14 && e.EnquiryDate.Month() == time.March &&
			len(e.Items) == 2 && e.Items[1].Quantity == 3
	})).Return(nil)

	e, err := svc.CreateEnquiry(ctx, id, &models.EnquiryRequest{
		PartyName:   "  Acme ",
		EnquiryDate: "2024-03-14",
		Items:       []models.EnquiryLineRequest{{ItemID: 1, Quantity: 2}, {ItemID: 2, Quantity: 3}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme", e.PartyName)
}

func TestEnquiryService_CreateWithoutDate(t *testing.T) {
	svc, repo := newEnquiryService(t)
	ctx := context.Background()
	repo.On("Create", ctx, mock.MatchedBy(func(e *models.Enquiry) bool {
		return e.EnquiryDate == nil
	})).Return(nil)

	_, err := svc.CreateEnquiry(ctx, clerkIn(3), &models.EnquiryRequest{
		PartyName: "Acme",
		Items:     []models.EnquiryLineRequest{{ItemID: 1, Quantity: 2}},
	})
	require.NoError(t, err)
}

func TestEnquiryService_ConfirmUsesEnquiryBranch(t *testing.T) {
	svc, repo := newEnquiryService(t)
	ctx := context.Background()
	admin := superAdmin()

	repo.On("Get", ctx, 55).Return(&models.Enquiry{ID: 55, BranchID: 7, Items: make([]models.EnquiryItem, 2)}, nil)
	repo.On("Confirm", ctx, 55, admin.UserID, 7).Return(800, nil)

	res, err := svc.ConfirmEnquiry(ctx, admin, 55)
	require.NoError(t, err)
	assert.Equal(t, 800, res.OrderID)
}

func TestEnquiryService_ConfirmOtherBranch(t *testing.T) {
	svc, repo := newEnquiryService(t)
	ctx := context.Background()
	repo.On("Get", ctx, 55).Return(&models.Enquiry{ID: 55, BranchID: 7}, nil)

	_, err := svc.ConfirmEnquiry(ctx, clerkIn(1), 55)
	assert.ErrorIs(t, err, apperr.ErrBranchScope)
	repo.AssertNotCalled(t, "Confirm", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestEnquiryService_ConfirmMissing(t *testing.T) {
	svc, repo := newEnquiryService(t)
	ctx := context.Background()
	repo.On("Get", ctx, 56).Return(nil, apperr.ErrEnquiryNotFound)

	_, err := svc.ConfirmEnquiry(ctx, clerkIn(1), 56)
	assert.ErrorIs(t, err, apperr.ErrEnquiryNotFound)
}
