package handlers

import (
	"net/http"

	"branchdesk-backend/internal/models"
	"branchdesk-backend/internal/services"
	"branchdesk-backend/pkg/utils"

	"go.uber.org/zap"
)

type AuthHandler struct {
	Service *services.AuthService
	Logger  *zap.Logger
}

func NewAuthHandler(s *services.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{Service: s, Logger: logger}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decode(w, r, &req); err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	res, err := h.Service.Login(r.Context(), &req)
	if err != nil {
		fail(w, r, h.Logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, res)
}

// Logout only acknowledges; tokens are stateless and the client discards its copy
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}
