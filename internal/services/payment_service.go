package services

import (
	"bytes"
	"context"
	"strings"
	"time"

	"branchdesk-backend/internal/apperr"
	"branchdesk-backend/internal/auth"
	"branchdesk-backend/internal/importer"
	"branchdesk-backend/internal/logger"
	"branchdesk-backend/internal/metrics"
	"branchdesk-backend/internal/models"
	"branchdesk-backend/internal/repositories"
	"branchdesk-backend/internal/storage"
	"branchdesk-backend/internal/timeutil"

	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type paymentStore interface {
	Create(ctx context.Context, p *models.Payment) error
	Get(ctx context.Context, userID, id int) (*models.Payment, error)
	List(ctx context.Context, userID int, f repositories.PaymentFilter) ([]*models.Payment, error)
	ListMergedChildren(ctx context.Context, userID, parentID int) ([]*models.Payment, error)
	Update(ctx context.Context, userID int, p *models.Payment) error
	Delete(ctx context.Context, userID, id int) error
	AddTracking(ctx context.Context, userID int, t *models.PaymentTracking) error
	ListTracking(ctx context.Context, paymentID int) ([]models.PaymentTracking, error)
	Merge(ctx context.Context, userID, targetID int, sourceIDs []int) (*repositories.MergeResult, error)
	Unmerge(ctx context.Context, userID, paymentID int) (*models.Payment, error)
	ResolveRoot(ctx context.Context, userID, id int) (int, error)
	Import(ctx context.Context, userID int, month string, year int, rows []models.ImportRow) (*models.ImportResult, error)
}

type archiver interface {
	Enabled() bool
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
}

// ImportUpload is a payment workbook posted for one month bucket
type ImportUpload struct {
	Filename string
	Data     []byte
	Month    string
	Year     int
}

// PaymentService manages the caller's own payment follow-ups. Every operation
// is scoped to the authenticated user; payments of other users are never visible.
type PaymentService struct {
	Repo    paymentStore
	Archive archiver
	Sheet   string
	Logger  *zap.Logger
}

func NewPaymentService(repo paymentStore, archive archiver, sheet string, logger *zap.Logger) *PaymentService {
	return &PaymentService{Repo: repo, Archive: archive, Sheet: sheet, Logger: logger}
}

func bucket(month string, year int) (string, error) {
	m, ok := timeutil.NormalizeMonth(month)
	if !ok {
		return "", apperr.ErrInvalidInput.Withf("invalid month %q", month)
	}
	if !timeutil.ValidYear(year) {
		return "", apperr.ErrInvalidInput.Withf("year must be between 2000 and 2100")
	}
	return m, nil
}

// ListPayments returns a month bucket. Month and year are optional filters;
// absorbed payments are hidden unless includeMerged is set.
func (s *PaymentService) ListPayments(ctx context.Context, id auth.Identity, month string, year int, includeMerged bool) ([]*models.Payment, error) {
	f := repositories.PaymentFilter{Year: year, IncludeMerged: includeMerged}
	if strings.TrimSpace(month) != "" {
		m, ok := timeutil.NormalizeMonth(month)
		if !ok {
			return nil, apperr.ErrInvalidInput.Withf("invalid month %q", month)
		}
		f.Month = m
	}
	if year != 0 && !timeutil.ValidYear(year) {
		return nil, apperr.ErrInvalidInput.Withf("year must be between 2000 and 2100")
	}
	return s.Repo.List(ctx, id.UserID, f)
}

// GetPayment returns the payment with its tracking history and the id at the root of its merge chain
func (s *PaymentService) GetPayment(ctx context.Context, id auth.Identity, paymentID int) (*models.PaymentDetail, error) {
	p, err := s.Repo.Get(ctx, id.UserID, paymentID)
	if err != nil {
		return nil, err
	}
	root := p.ID
	if p.IsMerged() {
		if root, err = s.Repo.ResolveRoot(ctx, id.UserID, p.ID); err != nil {
			return nil, err
		}
	}
	tracking, err := s.Repo.ListTracking(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return &models.PaymentDetail{Payment: *p, CanonicalID: root, Tracking: tracking}, nil
}

func (s *PaymentService) CreatePayment(ctx context.Context, id auth.Identity, req *models.CreatePaymentRequest) (*models.Payment, error) {
	req.PartyName = strings.TrimSpace(req.PartyName)
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	month, err := bucket(req.Month, req.Year)
	if err != nil {
		return nil, err
	}
	status := req.Status
	if status == "" {
		status = models.PaymentStatusPending
	}

	p := &models.Payment{
		UserID:    id.UserID,
		PartyName: req.PartyName,
		Contact:   req.Contact,
		Status:    status,
		Month:     month,
		Year:      req.Year,
	}
	if err := s.Repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PaymentService) UpdatePayment(ctx context.Context, id auth.Identity, paymentID int, req *models.UpdatePaymentRequest) (*models.Payment, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	p, err := s.Repo.Get(ctx, id.UserID, paymentID)
	if err != nil {
		return nil, err
	}
	p.Status = req.Status
	p.Contact = req.Contact
	if err := s.Repo.Update(ctx, id.UserID, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PaymentService) DeletePayment(ctx context.Context, id auth.Identity, paymentID int) error {
	return s.Repo.Delete(ctx, id.UserID, paymentID)
}

// AddTracking appends a follow-up note; the date defaults to today
func (s *PaymentService) AddTracking(ctx context.Context, id auth.Identity, paymentID int, req *models.TrackingRequest) (*models.PaymentTracking, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	date := timeutil.Now()
	if req.TrackingDate != "" {
		d, err := timeutil.ParseDate(req.TrackingDate)
		if err != nil {
			return nil, apperr.ErrInvalidInput.Withf("tracking_date must be a date in YYYY-MM-DD format")
		}
		date = d
	}

	t := &models.PaymentTracking{
		PaymentID:    paymentID,
		TrackingDate: time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, timeutil.IST),
		Remark:       strings.TrimSpace(req.Remark),
	}
	if err := s.Repo.AddTracking(ctx, id.UserID, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *PaymentService) ListTracking(ctx context.Context, id auth.Identity, paymentID int) ([]models.PaymentTracking, error) {
	if _, err := s.Repo.Get(ctx, id.UserID, paymentID); err != nil {
		return nil, err
	}
	return s.Repo.ListTracking(ctx, paymentID)
}

// MergedChildren lists the payments absorbed directly into paymentID
func (s *PaymentService) MergedChildren(ctx context.Context, id auth.Identity, paymentID int) ([]*models.Payment, error) {
	if _, err := s.Repo.Get(ctx, id.UserID, paymentID); err != nil {
		return nil, err
	}
	return s.Repo.ListMergedChildren(ctx, id.UserID, paymentID)
}

// Merge absorbs the sources into the target, moving their tracking history
func (s *PaymentService) Merge(ctx context.Context, id auth.Identity, req *models.MergeRequest) (*repositories.MergeResult, error) {
	sources := make([]int, len(req.SourceIDs))
	for i, src := range req.SourceIDs {
		sources[i] = int(src)
	}

	result, err := s.Repo.Merge(ctx, id.UserID, int(req.TargetID), sources)
	if err != nil {
		return nil, err
	}

	metrics.PaymentsMerged.Add(float64(len(result.MergedIDs)))
	logger.FromContext(ctx, s.Logger).Info("payments merged",
		zap.Int("target_id", result.TargetID),
		zap.Ints("merged_ids", result.MergedIDs),
		zap.Int64("tracking_reparented", result.Reparented),
	)
	return result, nil
}

// Unmerge detaches the payment again. Tracking moved by the merge stays on the target.
func (s *PaymentService) Unmerge(ctx context.Context, id auth.Identity, paymentID int) (*models.Payment, error) {
	p, err := s.Repo.Unmerge(ctx, id.UserID, paymentID)
	if err != nil {
		return nil, err
	}
	metrics.PaymentsUnmerged.Inc()
	logger.FromContext(ctx, s.Logger).Info("payment unmerged", zap.Int("payment_id", paymentID))
	return p, nil
}

// Import loads a workbook into the month bucket, skipping parties already on file.
// The original upload is archived when archiving is configured.
func (s *PaymentService) Import(ctx context.Context, id auth.Identity, up ImportUpload) (*models.ImportResult, error) {
	if err := importer.CheckFilename(up.Filename); err != nil {
		return nil, err
	}
	month, err := bucket(up.Month, up.Year)
	if err != nil {
		return nil, err
	}

	rows, err := importer.ReadPaymentRows(bytes.NewReader(up.Data), s.Sheet)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperr.ErrInvalidInput.Withf("workbook has no party rows")
	}

	result, err := s.Repo.Import(ctx, id.UserID, month, up.Year, rows)
	if err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx, s.Logger)
	metrics.ImportRows.WithLabelValues("inserted").Add(float64(result.Inserted))
	metrics.ImportRows.WithLabelValues("skipped").Add(float64(result.Skipped))
	log.Info("payments imported",
		zap.String("month", month),
		zap.Int("year", up.Year),
		zap.Int("inserted", result.Inserted),
		zap.Int("skipped", result.Skipped),
	)

	if s.Archive != nil && s.Archive.Enabled() {
		key := storage.ImportKey(id.UserID, month, up.Year, up.Filename, timeutil.Now())
		if _, err := s.Archive.Put(ctx, key, xlsxContentType, up.Data); err != nil {
			// the import already committed; a missing archive copy is not fatal
			log.Warn("archive payment workbook", zap.String("key", key), zap.Error(err))
		}
	}
	return result, nil
}
