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

const paymentColumns = `id, user_id, party_name, contact, status, month, year, merged_into_id, created_at, updated_at`

// PaymentRepository stores payment follow-ups. Every access is scoped to the
// owning user: a row owned by someone else is reported as ErrPaymentOwnership.
type PaymentRepository struct {
	DB db.Pool
}

func NewPaymentRepository(pool db.Pool) *PaymentRepository {
	return &PaymentRepository{DB: pool}
}

func scanPayment(row pgx.Row) (*models.Payment, error) {
	var p models.Payment
	err := row.Scan(&p.ID, &p.UserID, &p.PartyName, &p.Contact, &p.Status, &p.Month, &p.Year,
		&p.MergedIntoID, &p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

// ownershipError classifies a scoped statement that matched no row
func ownershipError(ctx context.Context, q db.DBTX, id int) error {
	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM payments WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return apperr.ErrPaymentNotFound
	}
	return apperr.ErrPaymentOwnership
}

func (r *PaymentRepository) Create(ctx context.Context, p *models.Payment) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO payments (user_id, party_name, contact, status, month, year)
         VALUES ($1, $2, $3, $4, $5, $6)
         RETURNING id, created_at, updated_at`,
		p.UserID, p.PartyName, p.Contact, p.Status, p.Month, p.Year,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *PaymentRepository) Get(ctx context.Context, userID, id int) (*models.Payment, error) {
	p, err := scanPayment(r.DB.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get payment %d: %w", id, err)
	}
	if p.UserID != userID {
		return nil, apperr.ErrPaymentOwnership
	}
	return p, nil
}

// PaymentFilter selects a month/year bucket. Empty month or zero year match any.
type PaymentFilter struct {
	Month         string
	Year          int
	IncludeMerged bool
}

func (r *PaymentRepository) List(ctx context.Context, userID int, f PaymentFilter) ([]*models.Payment, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+paymentColumns+` FROM payments
         WHERE user_id = $1
           AND ($2 = '' OR month = $2)
           AND ($3 = 0 OR year = $3)
           AND ($4 OR merged_into_id IS NULL)
         ORDER BY party_name, id`, userID, f.Month, f.Year, f.IncludeMerged)
	if err != nil {
		return nil, err
	}
	return collectPayments(rows)
}

// ListMergedChildren returns the payments merged directly into parentID
func (r *PaymentRepository) ListMergedChildren(ctx context.Context, userID, parentID int) ([]*models.Payment, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+paymentColumns+` FROM payments
         WHERE merged_into_id = $1 AND user_id = $2
         ORDER BY id`, parentID, userID)
	if err != nil {
		return nil, err
	}
	return collectPayments(rows)
}

func collectPayments(rows pgx.Rows) ([]*models.Payment, error) {
	defer rows.Close()
	payments := []*models.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// Update changes status and contact of an owned payment
func (r *PaymentRepository) Update(ctx context.Context, userID int, p *models.Payment) error {
	err := r.DB.QueryRow(ctx,
		`UPDATE payments SET status = $1, contact = $2, updated_at = NOW()
         WHERE id = $3 AND user_id = $4
         RETURNING party_name, month, year, created_at, updated_at`,
		p.Status, p.Contact, p.ID, userID,
	).Scan(&p.PartyName, &p.Month, &p.Year, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ownershipError(ctx, r.DB, p.ID)
	}
	return err
}

// Delete removes a standalone payment that has nothing merged into it.
// Its tracking entries go with it.
func (r *PaymentRepository) Delete(ctx context.Context, userID, id int) error {
	tag, err := r.DB.Exec(ctx,
		`DELETE FROM payments p
         WHERE p.id = $1 AND p.user_id = $2 AND p.merged_into_id IS NULL
           AND NOT EXISTS (SELECT 1 FROM payments c WHERE c.merged_into_id = p.id)`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	if _, err := r.Get(ctx, userID, id); err != nil {
		return err
	}
	return apperr.ErrInvalidState.Withf("payment %d is part of a merge; unmerge it first", id)
}

// AddTracking appends a follow-up note. Absorbed payments take no new notes;
// they belong on the payment it was merged into.
func (r *PaymentRepository) AddTracking(ctx context.Context, userID int, t *models.PaymentTracking) error {
	err := r.DB.QueryRow(ctx,
		`INSERT INTO payment_tracking (payment_id, tracking_date, remark)
         SELECT $1::int, $2::date, $3::text
         WHERE EXISTS (SELECT 1 FROM payments WHERE id = $1 AND user_id = $4 AND merged_into_id IS NULL)
         RETURNING id, created_at`,
		t.PaymentID, t.TrackingDate, t.Remark, userID,
	).Scan(&t.ID, &t.CreatedAt)
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	if _, err := r.Get(ctx, userID, t.PaymentID); err != nil {
		return err
	}
	return apperr.ErrInvalidState.Withf("payment %d is merged; add tracking to the payment it was merged into", t.PaymentID)
}

// ListTracking returns the tracking history currently attached to paymentID
func (r *PaymentRepository) ListTracking(ctx context.Context, paymentID int) ([]models.PaymentTracking, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, payment_id, tracking_date, remark, created_at
         FROM payment_tracking WHERE payment_id = $1
         ORDER BY tracking_date DESC, id DESC`, paymentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []models.PaymentTracking{}
	for rows.Next() {
		var t models.PaymentTracking
		if err := rows.Scan(&t.ID, &t.PaymentID, &t.TrackingDate, &t.Remark, &t.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, t)
	}
	return entries, rows.Err()
}
