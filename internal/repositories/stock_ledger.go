package repositories

import (
	"context"
	"errors"
	"fmt"

	"branchdesk-backend/internal/apperr"
	"branchdesk-backend/internal/db"

	"github.com/jackc/pgx/v5"
)

// StockLedger applies signed deltas to an item's running stock inside the
// caller's transaction. There is no history table: the return, order line or
// stock log written in the same transaction is the record of the change.
type StockLedger struct {
	allowNegative bool
}

func NewStockLedger(allowNegative bool) *StockLedger {
	return &StockLedger{allowNegative: allowNegative}
}

// Adjust adds delta to the stock of itemID within branchID and returns the new stock.
// With negative stock disallowed a delta that would take stock below zero
// fails with ErrInsufficientStock and changes nothing.
func (l *StockLedger) Adjust(ctx context.Context, q db.DBTX, branchID, itemID, delta int) (int, error) {
	query := `UPDATE items SET stock = stock + $1, updated_at = NOW()
         WHERE id = $2 AND branch_id = $3`
	if !l.allowNegative && delta < 0 {
		query += ` AND stock + $1 >= 0`
	}
	query += ` RETURNING stock`

	var stock int
	err := q.QueryRow(ctx, query, delta, itemID, branchID).Scan(&stock)
	if err == nil {
		return stock, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("adjust stock of item %d: %w", itemID, err)
	}
	if l.allowNegative || delta >= 0 {
		return 0, apperr.ErrItemNotFound
	}

	// Distinguish a missing item from the floor rejecting the update
	var exists bool
	if err := q.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM items WHERE id = $1 AND branch_id = $2)`,
		itemID, branchID).Scan(&exists); err != nil {
		return 0, fmt.Errorf("check item %d: %w", itemID, err)
	}
	if !exists {
		return 0, apperr.ErrItemNotFound
	}
	return 0, apperr.ErrInsufficientStock.Withf("item %d has insufficient stock for a change of %d", itemID, delta)
}
