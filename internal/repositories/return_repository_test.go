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

func TestReturn_CreateThenDeleteConservesStock(t *testing.T) {
	mock := newMock(t)
	repo := NewReturnRepository(mock, NewStockLedger(true))
	ctx := context.Background()

	// create: insert the return and add its quantity to stock
	mock.ExpectBegin()
	mock.ExpectQuery(sql("INSERT INTO returns")).
		WithArgs(1, (*int)(nil), 9, 4, "CH-17", "", 3).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(55, time.Now()))
	mock.ExpectQuery(sql("UPDATE items SET stock = stock + $1")).
		WithArgs(4, 9, 1).
		WillReturnRows(stockRow(14))
	mock.ExpectCommit()

	// delete: remove the return and take the same quantity back out
	mock.ExpectBegin()
	mock.ExpectQuery(sql("DELETE FROM returns WHERE id = $1 AND branch_id = $2 RETURNING item_id, quantity")).
		WithArgs(55, 1).
		WillReturnRows(pgxmock.NewRows([]string{"item_id", "quantity"}).AddRow(9, 4))
	mock.ExpectQuery(sql("UPDATE items SET stock = stock + $1")).
		WithArgs(-4, 9, 1).
		WillReturnRows(stockRow(10))
	mock.ExpectCommit()

	ret := &models.Return{BranchID: 1, ItemID: 9, Quantity: 4, ChallanNo: "CH-17", CreatedBy: 3}
	require.NoError(t, repo.Create(ctx, ret))
	assert.Equal(t, 55, ret.ID)

	require.NoError(t, repo.Delete(ctx, ret.ID, 1))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReturn_CreateRollsBackWhenItemMissing(t *testing.T) {
	mock := newMock(t)
	repo := NewReturnRepository(mock, NewStockLedger(true))

	mock.ExpectBegin()
	mock.ExpectQuery(sql("INSERT INTO returns")).
		WithArgs(1, (*int)(nil), 404, 2, "", "", 3).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(56, time.Now()))
	mock.ExpectQuery(sql("UPDATE items SET stock = stock + $1")).
		WithArgs(2, 404, 1).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &models.Return{BranchID: 1, ItemID: 404, Quantity: 2, CreatedBy: 3})
	assert.True(t, errors.Is(err, apperr.ErrItemNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReturn_UpdateAppliesDelta(t *testing.T) {
	mock := newMock(t)
	repo := NewReturnRepository(mock, NewStockLedger(true))

	mock.ExpectBegin()
	mock.ExpectQuery(sql("SELECT item_id, quantity FROM returns WHERE id = $1 AND branch_id = $2 FOR UPDATE")).
		WithArgs(55, 1).
		WillReturnRows(pgxmock.NewRows([]string{"item_id", "quantity"}).AddRow(9, 4))
	mock.ExpectQuery(sql("UPDATE items SET stock = stock + $1")).
		WithArgs(3, 9, 1).
		WillReturnRows(stockRow(13))
	mock.ExpectQuery(sql("UPDATE returns SET order_id = $1")).
		WithArgs((*int)(nil), 9, 7, "CH-17", "recount", 55).
		WillReturnRows(pgxmock.NewRows([]string{"created_by", "created_at"}).AddRow(3, time.Now()))
	mock.ExpectCommit()

	ret := &models.Return{ID: 55, BranchID: 1, ItemID: 9, Quantity: 7, ChallanNo: "CH-17", Remark: "recount"}
	require.NoError(t, repo.Update(context.Background(), ret))
	assert.Equal(t, 3, ret.CreatedBy)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReturn_UpdateMovesStockBetweenItems(t *testing.T) {
	mock := newMock(t)
	repo := NewReturnRepository(mock, NewStockLedger(true))

	mock.ExpectBegin()
	mock.ExpectQuery(sql("SELECT item_id, quantity FROM returns")).
		WithArgs(55, 1).
		WillReturnRows(pgxmock.NewRows([]string{"item_id", "quantity"}).AddRow(9, 4))
	mock.ExpectQuery(sql("UPDATE items SET stock = stock + $1")).
		WithArgs(-4, 9, 1).
		WillReturnRows(stockRow(6))
	mock.ExpectQuery(sql("UPDATE items SET stock = stock + $1")).
		WithArgs(4, 12, 1).
		WillReturnRows(stockRow(20))
	mock.ExpectQuery(sql("UPDATE returns SET order_id = $1")).
		WithArgs((*int)(nil), 12, 4, "", "", 55).
		WillReturnRows(pgxmock.NewRows([]string{"created_by", "created_at"}).AddRow(3, time.Now()))
	mock.ExpectCommit()

	ret := &models.Return{ID: 55, BranchID: 1, ItemID: 12, Quantity: 4}
	require.NoError(t, repo.Update(context.Background(), ret))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReturn_DeleteMissing(t *testing.T) {
	mock := newMock(t)
	repo := NewReturnRepository(mock, NewStockLedger(true))

	mock.ExpectBegin()
	mock.ExpectQuery(sql("DELETE FROM returns")).
		WithArgs(99, 1).
		WillReturnRows(pgxmock.NewRows([]string{"item_id", "quantity"}))
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), 99, 1)
	assert.True(t, errors.Is(err, apperr.ErrReturnNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}
