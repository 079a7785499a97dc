package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"branchdesk-backend/internal/models"
	"branchdesk-backend/internal/services"
	"branchdesk-backend/pkg/utils"

	"go.uber.org/zap"
)

type OrderHandler struct {
	Service *services.OrderService
	Logger  *zap.Logger
}

func NewOrderHandler(s *services.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{Service: s, Logger: logger}
}

// ListOrders accepts ?status=Pending|Dispatched
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	orders, err := h.Service.ListOrders(r.Context(), id, r.URL.Query().Get("status"))
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	orderID, err := pathID(r, "id")
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	order, err := h.Service.GetOrder(r.Context(), id, orderID)
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, order)
}

func (h *OrderHandler) DispatchOrder(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	orderID, err := pathID(r, "id")
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	var req models.DispatchRequest
	if err := decode(w, r, &req); err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	order, err := h.Service.DispatchOrder(r.Context(), id, orderID, &req)
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, order)
}

// Challan streams the dispatch challan as a PDF download
func (h *OrderHandler) Challan(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	orderID, err := pathID(r, "id")
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}

	// render into a buffer so a failure can still be reported as JSON
	var buf bytes.Buffer
	if err := h.Service.WriteChallan(r.Context(), id, orderID, &buf); err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=challan_%d.pdf", orderID))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (h *OrderHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	orderID, err := pathID(r, "id")
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	if err := h.Service.DeleteOrder(r.Context(), id, orderID); err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
