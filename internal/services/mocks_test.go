package services

import (
	"context"

	"branchdesk-backend/internal/models"
	"branchdesk-backend/internal/repositories"

	"github.com/stretchr/testify/mock"
)

func itemOrNil[T any](args mock.Arguments, idx int) *T {
	if v, ok := args.Get(idx).(*T); ok {
		return v
	}
	return nil
}

type mockItemStore struct{ mock.Mock }

func (m *mockItemStore) Create(ctx context.Context, it *models.Item) error {
	return m.Called(ctx, it).Error(0)
}
func (m *mockItemStore) Get(ctx context.Context, id int) (*models.Item, error) {
	args := m.Called(ctx, id)
	return itemOrNil[models.Item](args, 0), args.Error(1)
}
func (m *mockItemStore) List(ctx context.Context, branchID int) ([]*models.Item, error) {
	args := m.Called(ctx, branchID)
	return args.Get(0).([]*models.Item), args.Error(1)
}
func (m *mockItemStore) LowStock(ctx context.Context, branchID int) ([]*models.Item, error) {
	args := m.Called(ctx, branchID)
	return args.Get(0).([]*models.Item), args.Error(1)
}
func (m *mockItemStore) Update(ctx context.Context, it *models.Item) error {
	return m.Called(ctx, it).Error(0)
}
func (m *mockItemStore) Delete(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}
func (m *mockItemStore) RecordStockChange(ctx context.Context, log *models.StockLog) (int, error) {
	args := m.Called(ctx, log)
	return args.Int(0), args.Error(1)
}
func (m *mockItemStore) ListStockLogs(ctx context.Context, itemID int) ([]*models.StockLog, error) {
	args := m.Called(ctx, itemID)
	return args.Get(0).([]*models.StockLog), args.Error(1)
}

type mockEnquiryStore struct{ mock.Mock }

func (m *mockEnquiryStore) Create(ctx context.Context, e *models.Enquiry) error {
	return m.Called(ctx, e).Error(0)
}
func (m *mockEnquiryStore) Update(ctx context.Context, e *models.Enquiry) error {
	return m.Called(ctx, e).Error(0)
}
func (m *mockEnquiryStore) Get(ctx context.Context, id int) (*models.Enquiry, error) {
	args := m.Called(ctx, id)
	return itemOrNil[models.Enquiry](args, 0), args.Error(1)
}
func (m *mockEnquiryStore) List(ctx context.Context, branchID int) ([]*models.Enquiry, error) {
	args := m.Called(ctx, branchID)
	return args.Get(0).([]*models.Enquiry), args.Error(1)
}
func (m *mockEnquiryStore) Delete(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}
func (m *mockEnquiryStore) Confirm(ctx context.Context, enquiryID, actorUserID, branchID int) (int, error) {
	args := m.Called(ctx, enquiryID, actorUserID, branchID)
	return args.Int(0), args.Error(1)
}

type mockOrderStore struct{ mock.Mock }

func (m *mockOrderStore) Get(ctx context.Context, id int) (*models.Order, error) {
	args := m.Called(ctx, id)
	return itemOrNil[models.Order](args, 0), args.Error(1)
}
func (m *mockOrderStore) List(ctx context.Context, branchID int, status string) ([]*models.Order, error) {
	args := m.Called(ctx, branchID, status)
	return args.Get(0).([]*models.Order), args.Error(1)
}
func (m *mockOrderStore) Dispatch(ctx context.Context, orderID, branchID int, lines []models.DispatchLine) (string, error) {
	args := m.Called(ctx, orderID, branchID, lines)
	return args.String(0), args.Error(1)
}
func (m *mockOrderStore) Delete(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

type mockReturnStore struct{ mock.Mock }

func (m *mockReturnStore) Create(ctx context.Context, ret *models.Return) error {
	return m.Called(ctx, ret).Error(0)
}
func (m *mockReturnStore) Update(ctx context.Context, ret *models.Return) error {
	return m.Called(ctx, ret).Error(0)
}
func (m *mockReturnStore) Delete(ctx context.Context, id, branchID int) error {
	return m.Called(ctx, id, branchID).Error(0)
}
func (m *mockReturnStore) Get(ctx context.Context, id int) (*models.Return, error) {
	args := m.Called(ctx, id)
	return itemOrNil[models.Return](args, 0), args.Error(1)
}
func (m *mockReturnStore) List(ctx context.Context, branchID int) ([]*models.Return, error) {
	args := m.Called(ctx, branchID)
	return args.Get(0).([]*models.Return), args.Error(1)
}

type mockPaymentStore struct{ mock.Mock }

func (m *mockPaymentStore) Create(ctx context.Context, p *models.Payment) error {
	return m.Called(ctx, p).Error(0)
}
func (m *mockPaymentStore) Get(ctx context.Context, userID, id int) (*models.Payment, error) {
	args := m.Called(ctx, userID, id)
	return itemOrNil[models.Payment](args, 0), args.Error(1)
}
func (m *mockPaymentStore) List(ctx context.Context, userID int, f repositories.PaymentFilter) ([]*models.Payment, error) {
	args := m.Called(ctx, userID, f)
	return args.Get(0).([]*models.Payment), args.Error(1)
}
func (m *mockPaymentStore) ListMergedChildren(ctx context.Context, userID, parentID int) ([]*models.Payment, error) {
	args := m.Called(ctx, userID, parentID)
	return args.Get(0).([]*models.Payment), args.Error(1)
}
func (m *mockPaymentStore) Update(ctx context.Context, userID int, p *models.Payment) error {
	return m.Called(ctx, userID, p).Error(0)
}
func (m *mockPaymentStore) Delete(ctx context.Context, userID, id int) error {
	return m.Called(ctx, userID, id).Error(0)
}
func (m *mockPaymentStore) AddTracking(ctx context.Context, userID int, t *models.PaymentTracking) error {
	return m.Called(ctx, userID, t).Error(0)
}
func (m *mockPaymentStore) ListTracking(ctx context.Context, paymentID int) ([]models.PaymentTracking, error) {
	args := m.Called(ctx, paymentID)
	return args.Get(0).([]models.PaymentTracking), args.Error(1)
}
func (m *mockPaymentStore) Merge(ctx context.Context, userID, targetID int, sourceIDs []int) (*repositories.MergeResult, error) {
	args := m.Called(ctx, userID, targetID, sourceIDs)
	return itemOrNil[repositories.MergeResult](args, 0), args.Error(1)
}
func (m *mockPaymentStore) Unmerge(ctx context.Context, userID, paymentID int) (*models.Payment, error) {
	args := m.Called(ctx, userID, paymentID)
	return itemOrNil[models.Payment](args, 0), args.Error(1)
}
func (m *mockPaymentStore) ResolveRoot(ctx context.Context, userID, id int) (int, error) {
	args := m.Called(ctx, userID, id)
	return args.Int(0), args.Error(1)
}
func (m *mockPaymentStore) Import(ctx context.Context, userID int, month string, year int, rows []models.ImportRow) (*models.ImportResult, error) {
	args := m.Called(ctx, userID, month, year, rows)
	return itemOrNil[models.ImportResult](args, 0), args.Error(1)
}

type mockArchive struct{ mock.Mock }

func (m *mockArchive) Enabled() bool { return true }
func (m *mockArchive) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	args := m.Called(ctx, key, contentType, data)
	return args.String(0), args.Error(1)
}

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) Create(ctx context.Context, u *models.User) error {
	return m.Called(ctx, u).Error(0)
}
func (m *mockUserStore) Get(ctx context.Context, id int) (*models.User, error) {
	args := m.Called(ctx, id)
	return itemOrNil[models.User](args, 0), args.Error(1)
}
func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	return itemOrNil[models.User](args, 0), args.Error(1)
}
func (m *mockUserStore) List(ctx context.Context, branchID int) ([]*models.User, error) {
	args := m.Called(ctx, branchID)
	return args.Get(0).([]*models.User), args.Error(1)
}
func (m *mockUserStore) Update(ctx context.Context, u *models.User) error {
	return m.Called(ctx, u).Error(0)
}
func (m *mockUserStore) SetActive(ctx context.Context, id int, active bool) error {
	return m.Called(ctx, id, active).Error(0)
}
