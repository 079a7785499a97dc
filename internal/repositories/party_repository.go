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

const partyColumns = `id, branch_id, name, contact, address, gstin, created_at, updated_at`

type PartyRepository struct {
	DB db.DBTX
}

func NewPartyRepository(conn db.DBTX) *PartyRepository {
	return &PartyRepository{DB: conn}
}

func (r *PartyRepository) Create(ctx context.Context, p *models.Party) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO parties (branch_id, name, contact, address, gstin)
         VALUES ($1, $2, $3, $4, $5)
         RETURNING id, created_at, updated_at`,
		p.BranchID, p.Name, p.Contact, p.Address, p.GSTIN,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *PartyRepository) Get(ctx context.Context, id int) (*models.Party, error) {
	var p models.Party
	err := r.DB.QueryRow(ctx, `SELECT `+partyColumns+` FROM parties WHERE id = $1`, id).
		Scan(&p.ID, &p.BranchID, &p.Name, &p.Contact, &p.Address, &p.GSTIN, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.ErrPartyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get party %d: %w", id, err)
	}
	return &p, nil
}

// List returns parties of a branch (0 = all), optionally filtered by a name fragment
func (r *PartyRepository) List(ctx context.Context, branchID int, search string) ([]*models.Party, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+partyColumns+` FROM parties
         WHERE ($1 = 0 OR branch_id = $1)
           AND ($2 = '' OR name ILIKE '%' || $2 || '%')
         ORDER BY name`, branchID, search)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	parties := []*models.Party{}
	for rows.Next() {
		var p models.Party
		if err := rows.Scan(&p.ID, &p.BranchID, &p.Name, &p.Contact, &p.Address, &p.GSTIN,
			&p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		parties = append(parties, &p)
	}
	return parties, rows.Err()
}

func (r *PartyRepository) Update(ctx context.Context, p *models.Party) error {
	err := r.DB.QueryRow(ctx,
		`UPDATE parties SET name = $1, contact = $2, address = $3, gstin = $4, updated_at = NOW()
         WHERE id = $5
         RETURNING updated_at`,
		p.Name, p.Contact, p.Address, p.GSTIN, p.ID,
	).Scan(&p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.ErrPartyNotFound
	}
	return err
}

func (r *PartyRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM parties WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrPartyNotFound
	}
	return nil
}
