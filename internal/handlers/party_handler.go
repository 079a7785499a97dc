package handlers

import (
	"net/http"

	"branchdesk-backend/internal/models"
	"branchdesk-backend/internal/services"
	"branchdesk-backend/pkg/utils"

	"go.uber.org/zap"
)

type PartyHandler struct {
	Service *services.PartyService
	Logger  *zap.Logger
}

func NewPartyHandler(s *services.PartyService, logger *zap.Logger) *PartyHandler {
	return &PartyHandler{Service: s, Logger: logger}
}

// ListParties accepts ?q= to search by name
func (h *PartyHandler) ListParties(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	parties, err := h.Service.ListParties(r.Context(), id, r.URL.Query().Get("q"))
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, parties)
}

func (h *PartyHandler) GetParty(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	partyID, err := pathID(r, "id")
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	party, err := h.Service.GetParty(r.Context(), id, partyID)
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, party)
}

func (h *PartyHandler) CreateParty(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	var req models.PartyRequest
	if err := decode(w, r, &req); err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	party, err := h.Service.CreateParty(r.Context(), id, &req)
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	utils.JSON(w, http.StatusCreated, party)
}

func (h *PartyHandler) UpdateParty(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	partyID, err := pathID(r, "id")
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	var req models.PartyRequest
	if err := decode(w, r, &req); err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	party, err := h.Service.UpdateParty(r.Context(), id, partyID, &req)
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, party)
}

func (h *PartyHandler) DeleteParty(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	partyID, err := pathID(r, "id")
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	if err := h.Service.DeleteParty(r.Context(), id, partyID); err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
