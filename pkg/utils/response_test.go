package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"branchdesk-backend/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusCreated, map[string]int{"order_id": 800})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"order_id":800}`, rec.Body.String())
}

func TestError_MapsKind(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, nil, apperr.ErrPaymentOwnership)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	var body ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "PAYMENT_OWNERSHIP", body.Code)
}

func TestError_LogsInternalDetailOnly(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	rec := httptest.NewRecorder()

	Error(rec, zap.New(core), errors.New("pq: relation \"payments\" does not exist"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "relation")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "request failed", logs.All()[0].Message)

	Error(httptest.NewRecorder(), zap.New(core), apperr.ErrItemNotFound)
	assert.Equal(t, 1, logs.Len())
}
