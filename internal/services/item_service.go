package services

import (
	"context"

	"branchdesk-backend/internal/apperr"
	"branchdesk-backend/internal/auth"
	"branchdesk-backend/internal/cache"
	"branchdesk-backend/internal/logger"
	"branchdesk-backend/internal/metrics"
	"branchdesk-backend/internal/models"

	"go.uber.org/zap"
)

type itemStore interface {
	Create(ctx context.Context, it *models.Item) error
	Get(ctx context.Context, id int) (*models.Item, error)
	List(ctx context.Context, branchID int) ([]*models.Item, error)
	LowStock(ctx context.Context, branchID int) ([]*models.Item, error)
	Update(ctx context.Context, it *models.Item) error
	Delete(ctx context.Context, id int) error
	RecordStockChange(ctx context.Context, log *models.StockLog) (int, error)
	ListStockLogs(ctx context.Context, itemID int) ([]*models.StockLog, error)
}

type ItemService struct {
	Repo   itemStore
	Cache  *cache.Cache
	Logger *zap.Logger
}

func NewItemService(repo itemStore, c *cache.Cache, logger *zap.Logger) *ItemService {
	return &ItemService{Repo: repo, Cache: c, Logger: logger}
}

// ListItems serves the branch list from cache when possible
func (s *ItemService) ListItems(ctx context.Context, id auth.Identity) ([]*models.Item, error) {
	branchID := branchScope(id)
	if items, ok := s.Cache.GetItems(ctx, branchID); ok {
		return items, nil
	}
	items, err := s.Repo.List(ctx, branchID)
	if err != nil {
		return nil, err
	}
	s.Cache.SetItems(ctx, branchID, items)
	return items, nil
}

func (s *ItemService) LowStock(ctx context.Context, id auth.Identity) ([]*models.Item, error) {
	return s.Repo.LowStock(ctx, branchScope(id))
}

func (s *ItemService) GetItem(ctx context.Context, id auth.Identity, itemID int) (*models.Item, error) {
	it, err := s.Repo.Get(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if err := checkBranch(id, it.BranchID); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *ItemService) CreateItem(ctx context.Context, id auth.Identity, req *models.CreateItemRequest) (*models.Item, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if req.Price.IsNegative() {
		return nil, apperr.ErrInvalidInput.Withf("price cannot be negative")
	}

	it := &models.Item{
		BranchID: id.BranchID,
		Name:     req.Name,
		Size:     req.Size,
		Stock:    req.Stock,
		Price:    req.Price,
		MinStock: req.MinStock,
		Weight:   req.Weight,
	}
	if err := s.Repo.Create(ctx, it); err != nil {
		return nil, err
	}
	s.Cache.InvalidateItems(ctx, it.BranchID)
	return it, nil
}

func (s *ItemService) UpdateItem(ctx context.Context, id auth.Identity, itemID int, req *models.UpdateItemRequest) (*models.Item, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if req.Price.IsNegative() {
		return nil, apperr.ErrInvalidInput.Withf("price cannot be negative")
	}
	it, err := s.GetItem(ctx, id, itemID)
	if err != nil {
		return nil, err
	}

	it.Name = req.Name
	it.Size = req.Size
	it.Price = req.Price
	it.MinStock = req.MinStock
	it.Weight = req.Weight
	if err := s.Repo.Update(ctx, it); err != nil {
		return nil, err
	}
	s.Cache.InvalidateItems(ctx, it.BranchID)
	return it, nil
}

func (s *ItemService) DeleteItem(ctx context.Context, id auth.Identity, itemID int) error {
	it, err := s.GetItem(ctx, id, itemID)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, itemID); err != nil {
		return err
	}
	s.Cache.InvalidateItems(ctx, it.BranchID)
	return nil
}

// AddStock records a receipt of goods and raises stock by the quantity
func (s *ItemService) AddStock(ctx context.Context, id auth.Identity, itemID int, req *models.StockAdjustRequest) (*models.StockChangeResponse, error) {
	return s.changeStock(ctx, id, itemID, models.StockActionAdd, req)
}

// RecordLoss writes off damaged or missing goods and lowers stock by the quantity
func (s *ItemService) RecordLoss(ctx context.Context, id auth.Identity, itemID int, req *models.StockAdjustRequest) (*models.StockChangeResponse, error) {
	return s.changeStock(ctx, id, itemID, models.StockActionLoss, req)
}

func (s *ItemService) changeStock(ctx context.Context, id auth.Identity, itemID int, action string, req *models.StockAdjustRequest) (*models.StockChangeResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	it, err := s.GetItem(ctx, id, itemID)
	if err != nil {
		return nil, err
	}

	log := &models.StockLog{
		BranchID:  it.BranchID,
		ItemID:    it.ID,
		Action:    action,
		Quantity:  req.Quantity,
		Remark:    req.Remark,
		CreatedBy: id.UserID,
	}
	stock, err := s.Repo.RecordStockChange(ctx, log)
	if err != nil {
		return nil, err
	}
	s.Cache.InvalidateItems(ctx, it.BranchID)

	source := metrics.SourceAddStock
	if action == models.StockActionLoss {
		source = metrics.SourceLoss
	}
	metrics.StockAdjustments.WithLabelValues(source).Inc()
	logger.FromContext(ctx, s.Logger).Info("stock adjusted",
		zap.Int("item_id", it.ID),
		zap.String("action", action),
		zap.Int("delta", log.Delta()),
		zap.Int("stock", stock),
	)
	return &models.StockChangeResponse{Log: log, Stock: stock}, nil
}

func (s *ItemService) StockLogs(ctx context.Context, id auth.Identity, itemID int) ([]*models.StockLog, error) {
	if _, err := s.GetItem(ctx, id, itemID); err != nil {
		return nil, err
	}
	return s.Repo.ListStockLogs(ctx, itemID)
}
