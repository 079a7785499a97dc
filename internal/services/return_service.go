package services

import (
	"context"

	"branchdesk-backend/internal/auth"
	"branchdesk-backend/internal/cache"
	"branchdesk-backend/internal/logger"
	"branchdesk-backend/internal/metrics"
	"branchdesk-backend/internal/models"

	"go.uber.org/zap"
)

type returnStore interface {
	Create(ctx context.Context, ret *models.Return) error
	Update(ctx context.Context, ret *models.Return) error
	Delete(ctx context.Context, id, branchID int) error
	Get(ctx context.Context, id int) (*models.Return, error)
	List(ctx context.Context, branchID int) ([]*models.Return, error)
}

type ReturnService struct {
	Repo   returnStore
	Cache  *cache.Cache
	Logger *zap.Logger
}

func NewReturnService(repo returnStore, c *cache.Cache, logger *zap.Logger) *ReturnService {
	return &ReturnService{Repo: repo, Cache: c, Logger: logger}
}

func (s *ReturnService) ListReturns(ctx context.Context, id auth.Identity) ([]*models.Return, error) {
	return s.Repo.List(ctx, branchScope(id))
}

func (s *ReturnService) GetReturn(ctx context.Context, id auth.Identity, returnID int) (*models.Return, error) {
	ret, err := s.Repo.Get(ctx, returnID)
	if err != nil {
		return nil, err
	}
	if err := checkBranch(id, ret.BranchID); err != nil {
		return nil, err
	}
	return ret, nil
}

// CreateReturn records goods coming back and adds them to stock
func (s *ReturnService) CreateReturn(ctx context.Context, id auth.Identity, req *models.ReturnRequest) (*models.Return, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	ret := &models.Return{
		BranchID:  id.BranchID,
		OrderID:   req.OrderID,
		ItemID:    req.ItemID,
		Quantity:  req.Quantity,
		ChallanNo: req.ChallanNo,
		Remark:    req.Remark,
		CreatedBy: id.UserID,
	}
	if err := s.Repo.Create(ctx, ret); err != nil {
		return nil, err
	}
	s.stockMoved(ctx, ret.BranchID, "return created", ret.ID, ret.Quantity)
	return ret, nil
}

// UpdateReturn rewrites the return; stock follows the change in quantity or item
func (s *ReturnService) UpdateReturn(ctx context.Context, id auth.Identity, returnID int, req *models.ReturnRequest) (*models.Return, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	old, err := s.GetReturn(ctx, id, returnID)
	if err != nil {
		return nil, err
	}

	ret := &models.Return{
		ID:        old.ID,
		BranchID:  old.BranchID,
		OrderID:   req.OrderID,
		ItemID:    req.ItemID,
		Quantity:  req.Quantity,
		ChallanNo: req.ChallanNo,
		Remark:    req.Remark,
	}
	if err := s.Repo.Update(ctx, ret); err != nil {
		return nil, err
	}
	s.stockMoved(ctx, ret.BranchID, "return updated", ret.ID, ret.Quantity-old.Quantity)
	return ret, nil
}

// DeleteReturn removes the return and takes its quantity back out of stock
func (s *ReturnService) DeleteReturn(ctx context.Context, id auth.Identity, returnID int) error {
	ret, err := s.GetReturn(ctx, id, returnID)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, returnID, ret.BranchID); err != nil {
		return err
	}
	s.stockMoved(ctx, ret.BranchID, "return deleted", ret.ID, -ret.Quantity)
	return nil
}

func (s *ReturnService) stockMoved(ctx context.Context, branchID int, msg string, returnID, delta int) {
	s.Cache.InvalidateItems(ctx, branchID)
	metrics.StockAdjustments.WithLabelValues(metrics.SourceReturn).Inc()
	logger.FromContext(ctx, s.Logger).Info(msg, zap.Int("return_id", returnID), zap.Int("delta", delta))
}
