package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"branchdesk-backend/internal/models"
	"branchdesk-backend/internal/services"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

func confirmRequest(u *models.User) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/enquiries/55/confirm", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "55"})
	return asUser(req, u)
}

func TestConfirmEnquiry(t *testing.T) {
	logger := zaptest.NewLogger(t)
	repo := &fakeEnquiries{}
	h := NewEnquiryHandler(services.NewEnquiryService(repo, logger), logger)
	clerk := &models.User{ID: 4, BranchID: 3, Permissions: []string{"orders:write"}}

	rec := httptest.NewRecorder()
	h.ConfirmEnquiry(rec, confirmRequest(clerk))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"order_id":800}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.ConfirmEnquiry(rec, confirmRequest(clerk))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestConfirmEnquiry_OtherBranch(t *testing.T) {
	logger := zaptest.NewLogger(t)
	repo := &fakeEnquiries{}
	h := NewEnquiryHandler(services.NewEnquiryService(repo, logger), logger)

	rec := httptest.NewRecorder()
	h.ConfirmEnquiry(rec, confirmRequest(&models.User{ID: 5, BranchID: 9}))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, repo.confirmed)
}
