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

// ReturnRepository keeps every return's quantity coupled to item stock:
// insert adds it, delete takes it back, edits apply the difference.
type ReturnRepository struct {
	DB     db.Pool
	Ledger *StockLedger
}

func NewReturnRepository(pool db.Pool, ledger *StockLedger) *ReturnRepository {
	return &ReturnRepository{DB: pool, Ledger: ledger}
}

func checkOrderInBranch(ctx context.Context, q db.DBTX, orderID *int, branchID int) error {
	if orderID == nil {
		return nil
	}
	var exists bool
	if err := q.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM orders WHERE id = $1 AND branch_id = $2)`,
		*orderID, branchID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return apperr.ErrOrderNotFound
	}
	return nil
}

func (r *ReturnRepository) Create(ctx context.Context, ret *models.Return) error {
	return db.WithTx(ctx, r.DB, func(tx pgx.Tx) error {
		if err := checkOrderInBranch(ctx, tx, ret.OrderID, ret.BranchID); err != nil {
			return err
		}
		if err := tx.QueryRow(ctx,
			`INSERT INTO returns (branch_id, order_id, item_id, quantity, challan_no, remark, created_by)
             VALUES ($1, $2, $3, $4, $5, $6, $7)
             RETURNING id, created_at`,
			ret.BranchID, ret.OrderID, ret.ItemID, ret.Quantity, ret.ChallanNo, ret.Remark, ret.CreatedBy,
		).Scan(&ret.ID, &ret.CreatedAt); err != nil {
			return fmt.Errorf("insert return: %w", err)
		}
		_, err := r.Ledger.Adjust(ctx, tx, ret.BranchID, ret.ItemID, ret.Quantity)
		return err
	})
}

// Update rewrites the return and reconciles stock against the stored row.
// Changing the item moves the quantity from the old item to the new one.
func (r *ReturnRepository) Update(ctx context.Context, ret *models.Return) error {
	return db.WithTx(ctx, r.DB, func(tx pgx.Tx) error {
		var oldItemID, oldQty int
		err := tx.QueryRow(ctx,
			`SELECT item_id, quantity FROM returns WHERE id = $1 AND branch_id = $2 FOR UPDATE`,
			ret.ID, ret.BranchID).Scan(&oldItemID, &oldQty)
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.ErrReturnNotFound
		}
		if err != nil {
			return fmt.Errorf("lock return: %w", err)
		}
		if err := checkOrderInBranch(ctx, tx, ret.OrderID, ret.BranchID); err != nil {
			return err
		}

		if oldItemID == ret.ItemID {
			if delta := ret.Quantity - oldQty; delta != 0 {
				if _, err := r.Ledger.Adjust(ctx, tx, ret.BranchID, ret.ItemID, delta); err != nil {
					return err
				}
			}
		} else {
			if _, err := r.Ledger.Adjust(ctx, tx, ret.BranchID, oldItemID, -oldQty); err != nil {
				return err
			}
			if _, err := r.Ledger.Adjust(ctx, tx, ret.BranchID, ret.ItemID, ret.Quantity); err != nil {
				return err
			}
		}

		return tx.QueryRow(ctx,
			`UPDATE returns SET order_id = $1, item_id = $2, quantity = $3, challan_no = $4, remark = $5
             WHERE id = $6
             RETURNING created_by, created_at`,
			ret.OrderID, ret.ItemID, ret.Quantity, ret.ChallanNo, ret.Remark, ret.ID,
		).Scan(&ret.CreatedBy, &ret.CreatedAt)
	})
}

// Delete removes the return and takes its quantity back out of stock
func (r *ReturnRepository) Delete(ctx context.Context, id, branchID int) error {
	return db.WithTx(ctx, r.DB, func(tx pgx.Tx) error {
		var itemID, qty int
		err := tx.QueryRow(ctx,
			`DELETE FROM returns WHERE id = $1 AND branch_id = $2 RETURNING item_id, quantity`,
			id, branchID).Scan(&itemID, &qty)
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.ErrReturnNotFound
		}
		if err != nil {
			return fmt.Errorf("delete return: %w", err)
		}
		_, err = r.Ledger.Adjust(ctx, tx, branchID, itemID, -qty)
		return err
	})
}

func (r *ReturnRepository) Get(ctx context.Context, id int) (*models.Return, error) {
	var ret models.Return
	err := r.DB.QueryRow(ctx,
		`SELECT r.id, r.branch_id, r.order_id, r.item_id, i.name, r.quantity, r.challan_no, r.remark,
                r.created_by, r.created_at
         FROM returns r
         JOIN items i ON i.id = r.item_id
         WHERE r.id = $1`, id,
	).Scan(&ret.ID, &ret.BranchID, &ret.OrderID, &ret.ItemID, &ret.ItemName, &ret.Quantity,
		&ret.ChallanNo, &ret.Remark, &ret.CreatedBy, &ret.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.ErrReturnNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get return %d: %w", id, err)
	}
	return &ret, nil
}

func (r *ReturnRepository) List(ctx context.Context, branchID int) ([]*models.Return, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT r.id, r.branch_id, r.order_id, r.item_id, i.name, r.quantity, r.challan_no, r.remark,
                r.created_by, r.created_at
         FROM returns r
         JOIN items i ON i.id = r.item_id
         WHERE ($1 = 0 OR r.branch_id = $1)
         ORDER BY r.created_at DESC, r.id DESC`, branchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	returns := []*models.Return{}
	for rows.Next() {
		var ret models.Return
		if err := rows.Scan(&ret.ID, &ret.BranchID, &ret.OrderID, &ret.ItemID, &ret.ItemName, &ret.Quantity,
			&ret.ChallanNo, &ret.Remark, &ret.CreatedBy, &ret.CreatedAt); err != nil {
			return nil, err
		}
		returns = append(returns, &ret)
	}
	return returns, rows.Err()
}
