package repositories

import (
	"context"
	"errors"
	"fmt"

	"branchdesk-backend/internal/apperr"
	"branchdesk-backend/internal/db"
	"branchdesk-backend/internal/models"

	"github.com/jackc/pgx/v5"
)

const orderColumns = `id, branch_id, party_name, contact, reference, remark, order_date, status, created_by, created_at`

type OrderRepository struct {
	DB     db.Pool
	Ledger *StockLedger
}

func NewOrderRepository(pool db.Pool, ledger *StockLedger) *OrderRepository {
	return &OrderRepository{DB: pool, Ledger: ledger}
}

func scanOrder(row pgx.Row) (*models.Order, error) {
	var o models.Order
	err := row.Scan(&o.ID, &o.BranchID, &o.PartyName, &o.Contact, &o.Reference, &o.Remark,
		&o.OrderDate, &o.Status, &o.CreatedBy, &o.CreatedAt)
	return &o, err
}

// Get loads the order with its lines
func (r *OrderRepository) Get(ctx context.Context, id int) (*models.Order, error) {
	o, err := scanOrder(r.DB.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order %d: %w", id, err)
	}

	rows, err := r.DB.Query(ctx,
		`SELECT oi.id, oi.order_id, oi.item_id, i.name, oi.ordered_quantity, oi.dispatched_quantity, oi.total_weight
         FROM order_items oi
         JOIN items i ON i.id = oi.item_id
         WHERE oi.order_id = $1
         ORDER BY oi.id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	o.Items = []models.OrderItem{}
	for rows.Next() {
		var it models.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ItemID, &it.ItemName, &it.OrderedQuantity,
			&it.DispatchedQuantity, &it.TotalWeight); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, it)
	}
	return o, rows.Err()
}

// List returns order headers, newest first, optionally filtered by status
func (r *OrderRepository) List(ctx context.Context, branchID int, status string) ([]*models.Order, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+orderColumns+` FROM orders
         WHERE ($1 = 0 OR branch_id = $1) AND ($2 = '' OR status = $2)
         ORDER BY order_date DESC, id DESC`, branchID, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []*models.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func lockOrderItems(ctx context.Context, tx pgx.Tx, orderID int) ([]models.OrderItem, error) {
	rows, err := tx.Query(ctx,
		`SELECT id, item_id, ordered_quantity, dispatched_quantity
         FROM order_items WHERE order_id = $1
         ORDER BY id
         FOR UPDATE`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		it := models.OrderItem{OrderID: orderID}
		if err := rows.Scan(&it.ID, &it.ItemID, &it.OrderedQuantity, &it.DispatchedQuantity); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Dispatch sets the cumulative dispatched quantity of each listed line. Stock
// moves by the difference from the previous value, so re-dispatching the same
// quantity is a no-op and lowering it puts stock back. The order becomes
// Dispatched once every line has shipped at least its ordered quantity.
func (r *OrderRepository) Dispatch(ctx context.Context, orderID, branchID int, lines []models.DispatchLine) (string, error) {
	var status string
	err := db.WithTx(ctx, r.DB, func(tx pgx.Tx) error {
		var current string
		err := tx.QueryRow(ctx,
			`SELECT status FROM orders WHERE id = $1 AND branch_id = $2 FOR UPDATE`,
			orderID, branchID).Scan(&current)
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.ErrOrderNotFound
		}
		if err != nil {
			return fmt.Errorf("lock order: %w", err)
		}

		items, err := lockOrderItems(ctx, tx, orderID)
		if err != nil {
			return fmt.Errorf("lock order items: %w", err)
		}
		byID := make(map[int]int, len(items))
		for i, it := range items {
			byID[it.ID] = i
		}

		for _, line := range lines {
			idx, ok := byID[line.OrderItemID]
			if !ok {
				return apperr.ErrOrderItemMissing.Withf("order item %d is not on order %d", line.OrderItemID, orderID)
			}
			it := &items[idx]
			delta := line.DispatchedQuantity - it.DispatchedQuantity
			if delta == 0 {
				continue
			}
			if _, err := r.Ledger.Adjust(ctx, tx, branchID, it.ItemID, -delta); err != nil {
				return err
			}
			if _, err := tx.Exec(ctx,
				`UPDATE order_items SET dispatched_quantity = $1 WHERE id = $2`,
				line.DispatchedQuantity, it.ID); err != nil {
				return fmt.Errorf("update order item: %w", err)
			}
			it.DispatchedQuantity = line.DispatchedQuantity
		}

		status = models.OrderStatusPending
		if models.FullyDispatched(items) {
			status = models.OrderStatusDispatched
		}
		if status != current {
			if _, err := tx.Exec(ctx, `UPDATE orders SET status = $1 WHERE id = $2`, status, orderID); err != nil {
				return fmt.Errorf("update order status: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return status, nil
}

// Delete removes an order that has not shipped anything. Orders with dispatched
// quantity must be dispatched back to zero first so stock is restored.
func (r *OrderRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx,
		`DELETE FROM orders
         WHERE id = $1
           AND NOT EXISTS (SELECT 1 FROM order_items WHERE order_id = $1 AND dispatched_quantity > 0)`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	if err := r.DB.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM orders WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return apperr.ErrOrderNotFound
	}
	return apperr.ErrInvalidState.Withf("order %d has dispatched items; set dispatched quantities to 0 first", id)
}
