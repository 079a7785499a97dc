package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"branchdesk-backend/internal/apperr"
	"branchdesk-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordStockChange_LossWritesLogAndDecrements(t *testing.T) {
	mock := newMock(t)
	repo := NewItemRepository(mock, NewStockLedger(true))

	mock.ExpectBegin()
	mock.ExpectQuery(sql("UPDATE items SET stock = stock + $1")).
		WithArgs(-3, 9, 1).
		WillReturnRows(stockRow(7))
	mock.ExpectQuery(sql("INSERT INTO stock_logs")).
		WithArgs(1, 9, models.StockActionLoss, 3, "damaged in transit", 4).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(70, time.Now()))
	mock.ExpectCommit()

	log := &models.StockLog{BranchID: 1, ItemID: 9, Action: models.StockActionLoss, Quantity: 3, Remark: "damaged in transit", CreatedBy: 4}
	stock, err := repo.RecordStockChange(context.Background(), log)
	require.NoError(t, err)
	assert.Equal(t, 7, stock)
	assert.Equal(t, 70, log.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordStockChange_MissingItemWritesNoLog(t *testing.T) {
	mock := newMock(t)
	repo := NewItemRepository(mock, NewStockLedger(true))

	mock.ExpectBegin()
	mock.ExpectQuery(sql("UPDATE items SET stock = stock + $1")).
		WithArgs(5, 404, 1).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.RecordStockChange(context.Background(),
		&models.StockLog{BranchID: 1, ItemID: 404, Action: models.StockActionAdd, Quantity: 5})
	assert.True(t, errors.Is(err, apperr.ErrItemNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}
