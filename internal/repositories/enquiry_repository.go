package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"branchdesk-backend/internal/apperr"
	"branchdesk-backend/internal/db"
	"branchdesk-backend/internal/models"

	"github.com/jackc/pgx/v5"
)

type EnquiryRepository struct {
	DB db.Pool
}

func NewEnquiryRepository(pool db.Pool) *EnquiryRepository {
	return &EnquiryRepository{DB: pool}
}

// loadItemWeights returns the unit weight text of every referenced item in the
// branch, failing with ErrItemNotFound if any id is missing.
func loadItemWeights(ctx context.Context, q db.DBTX, branchID int, itemIDs []int) (map[int]string, error) {
	ids := uniqueInts(itemIDs)
	rows, err := q.Query(ctx,
		`SELECT id, weight FROM items WHERE branch_id = $1 AND id = ANY($2)`, branchID, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	weights := make(map[int]string, len(ids))
	for rows.Next() {
		var id int
		var weight string
		if err := rows.Scan(&id, &weight); err != nil {
			return nil, err
		}
		weights[id] = weight
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, id := range ids {
		if _, ok := weights[id]; !ok {
			return nil, apperr.ErrItemNotFound.Withf("item %d not found in this branch", id)
		}
	}
	return weights, nil
}

func uniqueInts(in []int) []int {
	seen := make(map[int]struct{}, len(in))
	out := make([]int, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func (r *EnquiryRepository) insertLines(ctx context.Context, tx pgx.Tx, e *models.Enquiry) error {
	itemIDs := make([]int, len(e.Items))
	for i, line := range e.Items {
		itemIDs[i] = line.ItemID
	}
	weights, err := loadItemWeights(ctx, tx, e.BranchID, itemIDs)
	if err != nil {
		return err
	}

	for i := range e.Items {
		line := &e.Items[i]
		line.EnquiryID = e.ID
		line.TotalWeight = models.LineWeight(weights[line.ItemID], line.Quantity)
		if err := tx.QueryRow(ctx,
			`INSERT INTO enquiry_items (enquiry_id, item_id, quantity, total_weight)
             VALUES ($1, $2, $3, $4)
             RETURNING id`,
			e.ID, line.ItemID, line.Quantity, line.TotalWeight,
		).Scan(&line.ID); err != nil {
			return fmt.Errorf("insert enquiry item: %w", err)
		}
	}
	return nil
}

// Create inserts the enquiry and its lines in one transaction
func (r *EnquiryRepository) Create(ctx context.Context, e *models.Enquiry) error {
	return db.WithTx(ctx, r.DB, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx,
			`INSERT INTO enquiries (branch_id, party_name, contact, reference, remark, enquiry_date, created_by)
             VALUES ($1, $2, $3, $4, $5, $6, $7)
             RETURNING id, created_at`,
			e.BranchID, e.PartyName, e.Contact, e.Reference, e.Remark, e.EnquiryDate, e.CreatedBy,
		).Scan(&e.ID, &e.CreatedAt); err != nil {
			return fmt.Errorf("insert enquiry: %w", err)
		}
		return r.insertLines(ctx, tx, e)
	})
}

// Update rewrites the header and replaces every line
func (r *EnquiryRepository) Update(ctx context.Context, e *models.Enquiry) error {
	return db.WithTx(ctx, r.DB, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`UPDATE enquiries SET party_name = $1, contact = $2, reference = $3, remark = $4, enquiry_date = $5
             WHERE id = $6 AND branch_id = $7
             RETURNING created_by, created_at`,
			e.PartyName, e.Contact, e.Reference, e.Remark, e.EnquiryDate, e.ID, e.BranchID,
		).Scan(&e.CreatedBy, &e.CreatedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.ErrEnquiryNotFound
		}
		if err != nil {
			return fmt.Errorf("update enquiry: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM enquiry_items WHERE enquiry_id = $1`, e.ID); err != nil {
			return fmt.Errorf("clear enquiry items: %w", err)
		}
		return r.insertLines(ctx, tx, e)
	})
}

func (r *EnquiryRepository) Get(ctx context.Context, id int) (*models.Enquiry, error) {
	var e models.Enquiry
	err := r.DB.QueryRow(ctx,
		`SELECT id, branch_id, party_name, contact, reference, remark, enquiry_date, created_by, created_at
         FROM enquiries WHERE id = $1`, id,
	).Scan(&e.ID, &e.BranchID, &e.PartyName, &e.Contact, &e.Reference, &e.Remark,
		&e.EnquiryDate, &e.CreatedBy, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.ErrEnquiryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get enquiry %d: %w", id, err)
	}

	rows, err := r.DB.Query(ctx,
		`SELECT ei.id, ei.enquiry_id, ei.item_id, i.name, ei.quantity, ei.total_weight
         FROM enquiry_items ei
         JOIN items i ON i.id = ei.item_id
         WHERE ei.enquiry_id = $1
         ORDER BY ei.id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	e.Items = []models.EnquiryItem{}
	for rows.Next() {
		var line models.EnquiryItem
		if err := rows.Scan(&line.ID, &line.EnquiryID, &line.ItemID, &line.ItemName,
			&line.Quantity, &line.TotalWeight); err != nil {
			return nil, err
		}
		e.Items = append(e.Items, line)
	}
	return &e, rows.Err()
}

// List returns enquiry headers, newest first. branchID 0 lists every branch.
func (r *EnquiryRepository) List(ctx context.Context, branchID int) ([]*models.Enquiry, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, branch_id, party_name, contact, reference, remark, enquiry_date, created_by, created_at
         FROM enquiries
         WHERE ($1 = 0 OR branch_id = $1)
         ORDER BY created_at DESC, id DESC`, branchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	enquiries := []*models.Enquiry{}
	for rows.Next() {
		var e models.Enquiry
		if err := rows.Scan(&e.ID, &e.BranchID, &e.PartyName, &e.Contact, &e.Reference, &e.Remark,
			&e.EnquiryDate, &e.CreatedBy, &e.CreatedAt); err != nil {
			return nil, err
		}
		enquiries = append(enquiries, &e)
	}
	return enquiries, rows.Err()
}

func (r *EnquiryRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM enquiries WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrEnquiryNotFound
	}
	return nil
}

type confirmLine struct {
	itemID   int
	quantity int
	weight   string
}

func loadConfirmLines(ctx context.Context, tx pgx.Tx, enquiryID int) ([]confirmLine, error) {
	rows, err := tx.Query(ctx,
		`SELECT ei.item_id, ei.quantity, i.weight
         FROM enquiry_items ei
         JOIN items i ON i.id = ei.item_id
         WHERE ei.enquiry_id = $1
         ORDER BY ei.id`, enquiryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []confirmLine
	for rows.Next() {
		var l confirmLine
		if err := rows.Scan(&l.itemID, &l.quantity, &l.weight); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// Confirm converts the enquiry into a Pending order and deletes the enquiry.
// Everything happens in one transaction; any failure leaves the enquiry intact.
func (r *EnquiryRepository) Confirm(ctx context.Context, enquiryID, actorUserID, branchID int) (int, error) {
	var orderID int
	err := db.WithTx(ctx, r.DB, func(tx pgx.Tx) error {
		var partyName, contact, reference, remark string
		var orderDate time.Time
		err := tx.QueryRow(ctx,
			`SELECT party_name, contact, reference, remark, COALESCE(enquiry_date, NOW())
             FROM enquiries WHERE id = $1 AND branch_id = $2
             FOR UPDATE`, enquiryID, branchID,
		).Scan(&partyName, &contact, &reference, &remark, &orderDate)
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.ErrEnquiryNotFound
		}
		if err != nil {
			return fmt.Errorf("load enquiry: %w", err)
		}

		if err := tx.QueryRow(ctx,
			`INSERT INTO orders (branch_id, party_name, contact, reference, remark, order_date, status, created_by)
             VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
             RETURNING id`,
			branchID, partyName, contact, reference, remark, orderDate, models.OrderStatusPending, actorUserID,
		).Scan(&orderID); err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		lines, err := loadConfirmLines(ctx, tx, enquiryID)
		if err != nil {
			return fmt.Errorf("load enquiry items: %w", err)
		}

		for _, l := range lines {
			weight := models.LineWeight(l.weight, l.quantity)
			if _, err := tx.Exec(ctx,
				`INSERT INTO order_items (order_id, item_id, ordered_quantity, dispatched_quantity, total_weight)
                 VALUES ($1, $2, $3, 0, $4)`,
				orderID, l.itemID, l.quantity, weight,
			); err != nil {
				return fmt.Errorf("insert order item: %w", err)
			}
		}

		if _, err := tx.Exec(ctx, `DELETE FROM enquiries WHERE id = $1`, enquiryID); err != nil {
			return fmt.Errorf("delete enquiry: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return orderID, nil
}
