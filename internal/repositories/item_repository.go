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

const itemColumns = `id, branch_id, name, size, stock, price, min_stock, weight, created_at, updated_at`

type ItemRepository struct {
	DB     db.Pool
	Ledger *StockLedger
}

func NewItemRepository(pool db.Pool, ledger *StockLedger) *ItemRepository {
	return &ItemRepository{DB: pool, Ledger: ledger}
}

func scanItem(row pgx.Row) (*models.Item, error) {
	var it models.Item
	err := row.Scan(&it.ID, &it.BranchID, &it.Name, &it.Size, &it.Stock, &it.Price,
		&it.MinStock, &it.Weight, &it.CreatedAt, &it.UpdatedAt)
	return &it, err
}

func (r *ItemRepository) Create(ctx context.Context, it *models.Item) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO items (branch_id, name, size, stock, price, min_stock, weight)
         VALUES ($1, $2, $3, $4, $5, $6, $7)
         RETURNING id, created_at, updated_at`,
		it.BranchID, it.Name, it.Size, it.Stock, it.Price, it.MinStock, it.Weight,
	).Scan(&it.ID, &it.CreatedAt, &it.UpdatedAt)
}

func (r *ItemRepository) Get(ctx context.Context, id int) (*models.Item, error) {
	it, err := scanItem(r.DB.QueryRow(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get item %d: %w", id, err)
	}
	return it, nil
}

// List returns the branch's items by name. branchID 0 lists every branch.
func (r *ItemRepository) List(ctx context.Context, branchID int) ([]*models.Item, error) {
	return r.query(ctx,
		`SELECT `+itemColumns+` FROM items
         WHERE ($1 = 0 OR branch_id = $1)
         ORDER BY name, size`, branchID)
}

// LowStock lists items at or below their minimum stock
func (r *ItemRepository) LowStock(ctx context.Context, branchID int) ([]*models.Item, error) {
	return r.query(ctx,
		`SELECT `+itemColumns+` FROM items
         WHERE ($1 = 0 OR branch_id = $1) AND stock <= min_stock
         ORDER BY stock - min_stock, name`, branchID)
}

func (r *ItemRepository) query(ctx context.Context, sql string, args ...any) ([]*models.Item, error) {
	rows, err := r.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []*models.Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Update edits master data only; stock is untouched
func (r *ItemRepository) Update(ctx context.Context, it *models.Item) error {
	err := r.DB.QueryRow(ctx,
		`UPDATE items SET name = $1, size = $2, price = $3, min_stock = $4, weight = $5, updated_at = NOW()
         WHERE id = $6
         RETURNING stock, updated_at`,
		it.Name, it.Size, it.Price, it.MinStock, it.Weight, it.ID,
	).Scan(&it.Stock, &it.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.ErrItemNotFound
	}
	return err
}

func (r *ItemRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if db.IsForeignKeyViolation(err) {
		return apperr.ErrInvalidState.Withf("item is referenced by enquiries, orders or returns")
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrItemNotFound
	}
	return nil
}

// RecordStockChange writes the stock log and applies its delta in one transaction
func (r *ItemRepository) RecordStockChange(ctx context.Context, log *models.StockLog) (int, error) {
	var stock int
	err := db.WithTx(ctx, r.DB, func(tx pgx.Tx) error {
		var err error
		stock, err = r.Ledger.Adjust(ctx, tx, log.BranchID, log.ItemID, log.Delta())
		if err != nil {
			return err
		}
		return tx.QueryRow(ctx,
			`INSERT INTO stock_logs (branch_id, item_id, action, quantity, remark, created_by)
             VALUES ($1, $2, $3, $4, $5, $6)
             RETURNING id, created_at`,
			log.BranchID, log.ItemID, log.Action, log.Quantity, log.Remark, log.CreatedBy,
		).Scan(&log.ID, &log.CreatedAt)
	})
	if err != nil {
		return 0, err
	}
	return stock, nil
}

func (r *ItemRepository) ListStockLogs(ctx context.Context, itemID int) ([]*models.StockLog, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, branch_id, item_id, action, quantity, remark, created_by, created_at
         FROM stock_logs WHERE item_id = $1
         ORDER BY created_at DESC, id DESC`, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []*models.StockLog{}
	for rows.Next() {
		var l models.StockLog
		if err := rows.Scan(&l.ID, &l.BranchID, &l.ItemID, &l.Action, &l.Quantity,
			&l.Remark, &l.CreatedBy, &l.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, &l)
	}
	return logs, rows.Err()
}
