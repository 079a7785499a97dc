package handlers

import (
	"io"
	"net/http"
	"strconv"

	"branchdesk-backend/internal/apperr"
	"branchdesk-backend/internal/models"
	"branchdesk-backend/internal/services"
	"branchdesk-backend/pkg/utils"

	"go.uber.org/zap"
)

type PaymentHandler struct {
	Service        *services.PaymentService
	MaxUploadBytes int64
	Logger         *zap.Logger
}

func NewPaymentHandler(s *services.PaymentService, maxUploadMB int64, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{Service: s, MaxUploadBytes: maxUploadMB << 20, Logger: logger}
}

// ListPayments accepts ?month=&year=&include_merged=true
func (h *PaymentHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	q := r.URL.Query()
	year := 0
	if v := q.Get("year"); v != "" {
		if year, err = strconv.Atoi(v); err != nil {
			fail(w, r, h.Logger, apperr.ErrInvalidInput.Withf("invalid year %q", v))
			return
		}
	}
	includeMerged, _ := strconv.ParseBool(q.Get("include_merged"))

	payments, err := h.Service.ListPayments(r.Context(), id, q.Get("month"), year, includeMerged)
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, payments)
}

func (h *PaymentHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	paymentID, err := pathID(r, "id")
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	detail, err := h.Service.GetPayment(r.Context(), id, paymentID)
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, detail)
}

func (h *PaymentHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	var req models.CreatePaymentRequest
	if err := decode(w, r, &req); err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	payment, err := h.Service.CreatePayment(r.Context(), id, &req)
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	utils.JSON(w, http.StatusCreated, payment)
}

func (h *PaymentHandler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	paymentID, err := pathID(r, "id")
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	var req models.UpdatePaymentRequest
	if err := decode(w, r, &req); err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	payment, err := h.Service.UpdatePayment(r.Context(), id, paymentID, &req)
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, payment)
}

func (h *PaymentHandler) DeletePayment(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	paymentID, err := pathID(r, "id")
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	if err := h.Service.DeletePayment(r.Context(), id, paymentID); err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PaymentHandler) AddTracking(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	paymentID, err := pathID(r, "id")
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	var req models.TrackingRequest
	if err := decode(w, r, &req); err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	entry, err := h.Service.AddTracking(r.Context(), id, paymentID, &req)
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	utils.JSON(w, http.StatusCreated, entry)
}

func (h *PaymentHandler) ListTracking(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	paymentID, err := pathID(r, "id")
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	entries, err := h.Service.ListTracking(r.Context(), id, paymentID)
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, entries)
}

func (h *PaymentHandler) MergedChildren(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	paymentID, err := pathID(r, "id")
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	children, err := h.Service.MergedChildren(r.Context(), id, paymentID)
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, children)
}

// Merge takes {target_id, source_ids[]}; ids may be numbers or numeric strings
func (h *PaymentHandler) Merge(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	var req models.MergeRequest
	if err := decode(w, r, &req); err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	res, err := h.Service.Merge(r.Context(), id, &req)
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, res)
}

func (h *PaymentHandler) Unmerge(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	paymentID, err := pathID(r, "id")
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	payment, err := h.Service.Unmerge(r.Context(), id, paymentID)
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, payment)
}

// Import reads a multipart form with "file" (.xlsx), "month" and "year"
func (h *PaymentHandler) Import(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.MaxUploadBytes); err != nil {
		fail(w, r, h.Logger, apperr.ErrInvalidInput.Withf("upload must be a multipart form under %d MB", h.MaxUploadBytes>>20))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		fail(w, r, h.Logger, apperr.ErrInvalidInput.Withf("file is required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		fail(w, r, h.Logger, apperr.ErrInvalidInput.Withf("failed to read upload"))
		return
	}
	year, err := strconv.Atoi(r.FormValue("year"))
	if err != nil {
		fail(w, r, h.Logger, apperr.ErrInvalidInput.Withf("year is required"))
		return
	}

	res, err := h.Service.Import(r.Context(), id, services.ImportUpload{
		Filename: header.Filename,
		Data:     data,
		Month:    r.FormValue("month"),
		Year:     year,
	})
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, res)
}
