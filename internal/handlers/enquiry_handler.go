package handlers

import (
	"net/http"

	"branchdesk-backend/internal/models"
	"branchdesk-backend/internal/services"
	"branchdesk-backend/pkg/utils"

	"go.uber.org/zap"
)

type EnquiryHandler struct {
	Service *services.EnquiryService
	Logger  *zap.Logger
}

func NewEnquiryHandler(s *services.EnquiryService, logger *zap.Logger) *EnquiryHandler {
	return &EnquiryHandler{Service: s, Logger: logger}
}

func (h *EnquiryHandler) ListEnquiries(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	enquiries, err := h.Service.ListEnquiries(r.Context(), id)
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, enquiries)
}

func (h *EnquiryHandler) GetEnquiry(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	enquiryID, err := pathID(r, "id")
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	enquiry, err := h.Service.GetEnquiry(r.Context(), id, enquiryID)
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, enquiry)
}

func (h *EnquiryHandler) CreateEnquiry(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	var req models.EnquiryRequest
	if err := decode(w, r, &req); err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	enquiry, err := h.Service.CreateEnquiry(r.Context(), id, &req)
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	utils.JSON(w, http.StatusCreated, enquiry)
}

func (h *EnquiryHandler) UpdateEnquiry(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	enquiryID, err := pathID(r, "id")
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	var req models.EnquiryRequest
	if err := decode(w, r, &req); err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	enquiry, err := h.Service.UpdateEnquiry(r.Context(), id, enquiryID, &req)
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, enquiry)
}

func (h *EnquiryHandler) DeleteEnquiry(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	enquiryID, err := pathID(r, "id")
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	if err := h.Service.DeleteEnquiry(r.Context(), id, enquiryID); err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ConfirmEnquiry converts the enquiry into an order and returns {order_id}
func (h *EnquiryHandler) ConfirmEnquiry(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	enquiryID, err := pathID(r, "id")
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	res, err := h.Service.ConfirmEnquiry(r.Context(), id, enquiryID)
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	utils.JSON(w, http.StatusCreated, res)
}
