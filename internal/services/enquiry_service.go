package services

import (
	"context"
	"strings"
	"time"

	"branchdesk-backend/internal/apperr"
	"branchdesk-backend/internal/auth"
	"branchdesk-backend/internal/logger"
	"branchdesk-backend/internal/metrics"
	"branchdesk-backend/internal/models"
	"branchdesk-backend/internal/timeutil"

	"go.uber.org/zap"
)

type enquiryStore interface {
	Create(ctx context.Context, e *models.Enquiry) error
	Update(ctx context.Context, e *models.Enquiry) error
	Get(ctx context.Context, id int) (*models.Enquiry, error)
	List(ctx context.Context, branchID int) ([]*models.Enquiry, error)
	Delete(ctx context.Context, id int) error
	Confirm(ctx context.Context, enquiryID, actorUserID, branchID int) (int, error)
}

type EnquiryService struct {
	Repo   enquiryStore
	Logger *zap.Logger
}

func NewEnquiryService(repo enquiryStore, logger *zap.Logger) *EnquiryService {
	return &EnquiryService{Repo: repo, Logger: logger}
}

func (s *EnquiryService) ListEnquiries(ctx context.Context, id auth.Identity) ([]*models.Enquiry, error) {
	return s.Repo.List(ctx, branchScope(id))
}

func (s *EnquiryService) GetEnquiry(ctx context.Context, id auth.Identity, enquiryID int) (*models.Enquiry, error) {
	e, err := s.Repo.Get(ctx, enquiryID)
	if err != nil {
		return nil, err
	}
	if err := checkBranch(id, e.BranchID); err != nil {
		return nil, err
	}
	return e, nil
}

// fill copies the request onto e, replacing its lines
func fill(e *models.Enquiry, req *models.EnquiryRequest) error {
	var date *time.Time
	if req.EnquiryDate != "" {
		d, err := timeutil.ParseDate(req.EnquiryDate)
		if err != nil {
			return apperr.ErrInvalidInput.Withf("enquiry_date must be a date in YYYY-MM-DD format")
		}
		date = &d
	}

	e.PartyName = strings.TrimSpace(req.PartyName)
	e.Contact = req.Contact
	e.Reference = req.Reference
	e.Remark = req.Remark
	e.EnquiryDate = date
	e.Items = make([]models.EnquiryItem, len(req.Items))
	for i, line := range req.Items {
		e.Items[i] = models.EnquiryItem{ItemID: line.ItemID, Quantity: line.Quantity}
	}
	return nil
}

func (s *EnquiryService) CreateEnquiry(ctx context.Context, id auth.Identity, req *models.EnquiryRequest) (*models.Enquiry, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	e := &models.Enquiry{BranchID: id.BranchID, CreatedBy: id.UserID}
	if err := fill(e, req); err != nil {
		return nil, err
	}
	if err := s.Repo.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *EnquiryService) UpdateEnquiry(ctx context.Context, id auth.Identity, enquiryID int, req *models.EnquiryRequest) (*models.Enquiry, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	e, err := s.GetEnquiry(ctx, id, enquiryID)
	if err != nil {
		return nil, err
	}
	if err := fill(e, req); err != nil {
		return nil, err
	}
	if err := s.Repo.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *EnquiryService) DeleteEnquiry(ctx context.Context, id auth.Identity, enquiryID int) error {
	if _, err := s.GetEnquiry(ctx, id, enquiryID); err != nil {
		return err
	}
	return s.Repo.Delete(ctx, enquiryID)
}

// ConfirmEnquiry turns the enquiry into a Pending order in the enquiry's branch
func (s *EnquiryService) ConfirmEnquiry(ctx context.Context, id auth.Identity, enquiryID int) (*models.ConfirmEnquiryResponse, error) {
	e, err := s.GetEnquiry(ctx, id, enquiryID)
	if err != nil {
		return nil, err
	}
	orderID, err := s.Repo.Confirm(ctx, enquiryID, id.UserID, e.BranchID)
	if err != nil {
		return nil, err
	}

	metrics.EnquiriesConfirmed.Inc()
	logger.FromContext(ctx, s.Logger).Info("enquiry confirmed",
		zap.Int("enquiry_id", enquiryID),
		zap.Int("order_id", orderID),
		zap.Int("lines", len(e.Items)),
	)
	return &models.ConfirmEnquiryResponse{OrderID: orderID}, nil
}
