package handlers

import (
	"context"
	"net/http"

	"branchdesk-backend/internal/auth"
	"branchdesk-backend/internal/models"
	"branchdesk-backend/internal/services"
	"branchdesk-backend/pkg/utils"

	"go.uber.org/zap"
)

type ItemHandler struct {
	Service *services.ItemService
	Logger  *zap.Logger
}

func NewItemHandler(s *services.ItemService, logger *zap.Logger) *ItemHandler {
	return &ItemHandler{Service: s, Logger: logger}
}

func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	items, err := h.Service.ListItems(r.Context(), id)
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, items)
}

func (h *ItemHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	items, err := h.Service.LowStock(r.Context(), id)
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, items)
}

func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	itemID, err := pathID(r, "id")
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	item, err := h.Service.GetItem(r.Context(), id, itemID)
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, item)
}

func (h *ItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	var req models.CreateItemRequest
	if err := decode(w, r, &req); err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	item, err := h.Service.CreateItem(r.Context(), id, &req)
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	utils.JSON(w, http.StatusCreated, item)
}

func (h *ItemHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	itemID, err := pathID(r, "id")
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	var req models.UpdateItemRequest
	if err := decode(w, r, &req); err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	item, err := h.Service.UpdateItem(r.Context(), id, itemID, &req)
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, item)
}

func (h *ItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	itemID, err := pathID(r, "id")
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	if err := h.Service.DeleteItem(r.Context(), id, itemID); err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ItemHandler) AddStock(w http.ResponseWriter, r *http.Request) {
	h.adjust(w, r, h.Service.AddStock)
}

func (h *ItemHandler) RecordLoss(w http.ResponseWriter, r *http.Request) {
	h.adjust(w, r, h.Service.RecordLoss)
}

type stockAdjustFunc func(ctx context.Context, id auth.Identity, itemID int, req *models.StockAdjustRequest) (*models.StockChangeResponse, error)

func (h *ItemHandler) adjust(w http.ResponseWriter, r *http.Request, apply stockAdjustFunc) {
	id, err := identity(r)
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	itemID, err := pathID(r, "id")
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	var req models.StockAdjustRequest
	if err := decode(w, r, &req); err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	res, err := apply(r.Context(), id, itemID, &req)
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	utils.JSON(w, http.StatusCreated, res)
}

func (h *ItemHandler) StockLogs(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	itemID, err := pathID(r, "id")
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	logs, err := h.Service.StockLogs(r.Context(), id, itemID)
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, logs)
}
