package repositories

import (
	"context"
	"errors"
	"testing"

	"branchdesk-backend/internal/apperr"
	"branchdesk-backend/internal/models"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expectLockedOrder(mock pgxmock.PgxPoolIface, status string, lines ...[4]int) {
	mock.ExpectBegin()
	mock.ExpectQuery(sql("SELECT status FROM orders WHERE id = $1 AND branch_id = $2 FOR UPDATE")).
		WithArgs(800, 1).
		WillReturnRows(pgxmock.NewRows([]string{"status"}).AddRow(status))
	rows := pgxmock.NewRows([]string{"id", "item_id", "ordered_quantity", "dispatched_quantity"})
	for _, l := range lines {
		rows.AddRow(l[0], l[1], l[2], l[3])
	}
	mock.ExpectQuery(sql("FROM order_items WHERE order_id = $1 ORDER BY id FOR UPDATE")).
		WithArgs(800).
		WillReturnRows(rows)
}

func TestDispatch_PartialKeepsPending(t *testing.T) {
	mock := newMock(t)
	repo := NewOrderRepository(mock, NewStockLedger(true))

	expectLockedOrder(mock, models.OrderStatusPending, [4]int{1, 9, 3, 0}, [4]int{2, 12, 2, 0})
	mock.ExpectQuery(sql("UPDATE items SET stock = stock + $1")).
		WithArgs(-2, 9, 1).
		WillReturnRows(stockRow(8))
	mock.ExpectExec(sql("UPDATE order_items SET dispatched_quantity = $1 WHERE id = $2")).
		WithArgs(2, 1).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	status, err := repo.Dispatch(context.Background(), 800, 1, []models.DispatchLine{{OrderItemID: 1, DispatchedQuantity: 2}})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDispatch_CompletesOrder(t *testing.T) {
	mock := newMock(t)
	repo := NewOrderRepository(mock, NewStockLedger(true))

	expectLockedOrder(mock, models.OrderStatusPending, [4]int{1, 9, 3, 2}, [4]int{2, 12, 2, 0})
	mock.ExpectQuery(sql("UPDATE items SET stock = stock + $1")).
		WithArgs(-1, 9, 1).
		WillReturnRows(stockRow(7))
	mock.ExpectExec(sql("UPDATE order_items SET dispatched_quantity")).
		WithArgs(3, 1).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery(sql("UPDATE items SET stock = stock + $1")).
		WithArgs(-2, 12, 1).
		WillReturnRows(stockRow(0))
	mock.ExpectExec(sql("UPDATE order_items SET dispatched_quantity")).
		WithArgs(2, 2).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(sql("UPDATE orders SET status = $1 WHERE id = $2")).
		WithArgs(models.OrderStatusDispatched, 800).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	status, err := repo.Dispatch(context.Background(), 800, 1, []models.DispatchLine{
		{OrderItemID: 1, DispatchedQuantity: 3},
		{OrderItemID: 2, DispatchedQuantity: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDispatched, status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDispatch_LoweringQuantityRestoresStockAndReopens(t *testing.T) {
	mock := newMock(t)
	repo := NewOrderRepository(mock, NewStockLedger(true))

	expectLockedOrder(mock, models.OrderStatusDispatched, [4]int{1, 9, 3, 3})
	mock.ExpectQuery(sql("UPDATE items SET stock = stock + $1")).
		WithArgs(3, 9, 1).
		WillReturnRows(stockRow(10))
	mock.ExpectExec(sql("UPDATE order_items SET dispatched_quantity")).
		WithArgs(0, 1).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(sql("UPDATE orders SET status = $1")).
		WithArgs(models.OrderStatusPending, 800).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	status, err := repo.Dispatch(context.Background(), 800, 1, []models.DispatchLine{{OrderItemID: 1, DispatchedQuantity: 0}})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDispatch_UnknownLineRollsBack(t *testing.T) {
	mock := newMock(t)
	repo := NewOrderRepository(mock, NewStockLedger(true))

	expectLockedOrder(mock, models.OrderStatusPending, [4]int{1, 9, 3, 0})
	mock.ExpectRollback()

	_, err := repo.Dispatch(context.Background(), 800, 1, []models.DispatchLine{{OrderItemID: 77, DispatchedQuantity: 1}})
	assert.True(t, errors.Is(err, apperr.ErrOrderItemMissing))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderDelete_RefusesDispatchedOrder(t *testing.T) {
	mock := newMock(t)
	repo := NewOrderRepository(mock, NewStockLedger(true))

	mock.ExpectExec(sql("DELETE FROM orders")).
		WithArgs(800).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectQuery(sql("SELECT EXISTS(SELECT 1 FROM orders WHERE id = $1)")).
		WithArgs(800).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	err := repo.Delete(context.Background(), 800)
	assert.True(t, errors.Is(err, apperr.ErrInvalidState))
	assert.NoError(t, mock.ExpectationsWereMet())
}
