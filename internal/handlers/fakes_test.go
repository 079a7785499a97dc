package handlers

import (
	"context"
	"net/http"

	"branchdesk-backend/internal/apperr"
	"branchdesk-backend/internal/auth"
	"branchdesk-backend/internal/middleware"
	"branchdesk-backend/internal/models"
	"branchdesk-backend/internal/repositories"
)

func asUser(r *http.Request, u *models.User) *http.Request {
	return r.WithContext(middleware.WithIdentity(r.Context(), auth.NewIdentity(u)))
}

// fakePayments owns payments 100..199 for user 7; everything else belongs to someone else
type fakePayments struct {
	mergeTarget  int
	mergeSources []int
	importMonth  string
	importYear   int
	importRows   []models.ImportRow
}

func owned(userID, id int) bool {
	return userID == 7 && id >= 100 && id < 200
}

func (f *fakePayments) Create(ctx context.Context, p *models.Payment) error {
	p.ID = 150
	return nil
}
func (f *fakePayments) Get(ctx context.Context, userID, id int) (*models.Payment, error) {
	if !owned(userID, id) {
		return nil, apperr.ErrPaymentOwnership
	}
	return &models.Payment{ID: id, UserID: userID, Status: models.PaymentStatusPending}, nil
}
func (f *fakePayments) List(ctx context.Context, userID int, filter repositories.PaymentFilter) ([]*models.Payment, error) {
	return []*models.Payment{}, nil
}
func (f *fakePayments) ListMergedChildren(ctx context.Context, userID, parentID int) ([]*models.Payment, error) {
	return []*models.Payment{}, nil
}
func (f *fakePayments) Update(ctx context.Context, userID int, p *models.Payment) error {
	return nil
}
func (f *fakePayments) Delete(ctx context.Context, userID, id int) error {
	return nil
}
func (f *fakePayments) AddTracking(ctx context.Context, userID int, t *models.PaymentTracking) error {
	return nil
}
func (f *fakePayments) ListTracking(ctx context.Context, paymentID int) ([]models.PaymentTracking, error) {
	return []models.PaymentTracking{}, nil
}
func (f *fakePayments) Merge(ctx context.Context, userID, targetID int, sourceIDs []int) (*repositories.MergeResult, error) {
	for _, id := range append([]int{targetID}, sourceIDs...) {
		if !owned(userID, id) {
			return nil, apperr.ErrPaymentOwnership
		}
	}
	f.mergeTarget, f.mergeSources = targetID, sourceIDs
	return &repositories.MergeResult{TargetID: targetID, MergedIDs: sourceIDs, Reparented: 2}, nil
}
func (f *fakePayments) Unmerge(ctx context.Context, userID, paymentID int) (*models.Payment, error) {
	return f.Get(ctx, userID, paymentID)
}
func (f *fakePayments) ResolveRoot(ctx context.Context, userID, id int) (int, error) {
	return id, nil
}
func (f *fakePayments) Import(ctx context.Context, userID int, month string, year int, rows []models.ImportRow) (*models.ImportResult, error) {
	f.importMonth, f.importYear, f.importRows = month, year, rows
	return &models.ImportResult{Inserted: len(rows), Skipped: 0}, nil
}

// fakeEnquiries holds one enquiry (id 55) in branch 3
type fakeEnquiries struct {
	confirmed bool
}

func (f *fakeEnquiries) Create(ctx context.Context, e *models.Enquiry) error { return nil }
func (f *fakeEnquiries) Update(ctx context.Context, e *models.Enquiry) error { return nil }
func (f *fakeEnquiries) Get(ctx context.Context, id int) (*models.Enquiry, error) {
	if id != 55 || f.confirmed {
		return nil, apperr.ErrEnquiryNotFound
	}
	return &models.Enquiry{ID: 55, BranchID: 3, PartyName: "Acme"}, nil
}
func (f *fakeEnquiries) List(ctx context.Context, branchID int) ([]*models.Enquiry, error) {
	return []*models.Enquiry{}, nil
}
func (f *fakeEnquiries) Delete(ctx context.Context, id int) error { return nil }
func (f *fakeEnquiries) Confirm(ctx context.Context, enquiryID, actorUserID, branchID int) (int, error) {
	f.confirmed = true
	return 800, nil
}
