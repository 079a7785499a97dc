package services

import (
	"context"
	"io"

	"branchdesk-backend/internal/apperr"
	"branchdesk-backend/internal/auth"
	"branchdesk-backend/internal/cache"
	"branchdesk-backend/internal/challan"
	"branchdesk-backend/internal/logger"
	"branchdesk-backend/internal/metrics"
	"branchdesk-backend/internal/models"

	"go.uber.org/zap"
)

type orderStore interface {
	Get(ctx context.Context, id int) (*models.Order, error)
	List(ctx context.Context, branchID int, status string) ([]*models.Order, error)
	Dispatch(ctx context.Context, orderID, branchID int, lines []models.DispatchLine) (string, error)
	Delete(ctx context.Context, id int) error
}

type OrderService struct {
	Repo   orderStore
	Cache  *cache.Cache
	Logger *zap.Logger
}

func NewOrderService(repo orderStore, c *cache.Cache, logger *zap.Logger) *OrderService {
	return &OrderService{Repo: repo, Cache: c, Logger: logger}
}

// ListOrders filters by status when one is given
func (s *OrderService) ListOrders(ctx context.Context, id auth.Identity, status string) ([]*models.Order, error) {
	switch status {
	case "", models.OrderStatusPending, models.OrderStatusDispatched:
	default:
		return nil, apperr.ErrInvalidInput.Withf("status must be %s or %s", models.OrderStatusPending, models.OrderStatusDispatched)
	}
	return s.Repo.List(ctx, branchScope(id), status)
}

func (s *OrderService) GetOrder(ctx context.Context, id auth.Identity, orderID int) (*models.Order, error) {
	o, err := s.Repo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := checkBranch(id, o.BranchID); err != nil {
		return nil, err
	}
	return o, nil
}

// DispatchOrder applies cumulative dispatched quantities and returns the refreshed order
func (s *OrderService) DispatchOrder(ctx context.Context, id auth.Identity, orderID int, req *models.DispatchRequest) (*models.Order, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	seen := make(map[int]struct{}, len(req.Lines))
	for _, line := range req.Lines {
		if _, dup := seen[line.OrderItemID]; dup {
			return nil, apperr.ErrInvalidInput.Withf("order item %d listed more than once", line.OrderItemID)
		}
		seen[line.OrderItemID] = struct{}{}
	}

	o, err := s.GetOrder(ctx, id, orderID)
	if err != nil {
		return nil, err
	}
	before := make(map[int]int, len(o.Items))
	for _, it := range o.Items {
		before[it.ID] = it.DispatchedQuantity
	}

	status, err := s.Repo.Dispatch(ctx, orderID, o.BranchID, req.Lines)
	if err != nil {
		return nil, err
	}
	s.Cache.InvalidateItems(ctx, o.BranchID)

	moved := 0
	for _, line := range req.Lines {
		if before[line.OrderItemID] != line.DispatchedQuantity {
			moved++
		}
	}
	metrics.StockAdjustments.WithLabelValues(metrics.SourceDispatch).Add(float64(moved))
	logger.FromContext(ctx, s.Logger).Info("order dispatched",
		zap.Int("order_id", orderID),
		zap.Int("lines_changed", moved),
		zap.String("status", status),
	)
	return s.Repo.Get(ctx, orderID)
}

// WriteChallan renders the dispatch challan PDF of the order to w
func (s *OrderService) WriteChallan(ctx context.Context, id auth.Identity, orderID int, w io.Writer) error {
	o, err := s.GetOrder(ctx, id, orderID)
	if err != nil {
		return err
	}
	return challan.Render(w, o)
}

func (s *OrderService) DeleteOrder(ctx context.Context, id auth.Identity, orderID int) error {
	if _, err := s.GetOrder(ctx, id, orderID); err != nil {
		return err
	}
	return s.Repo.Delete(ctx, orderID)
}
