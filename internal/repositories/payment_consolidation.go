package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"branchdesk-backend/internal/apperr"
	"branchdesk-backend/internal/db"
	"branchdesk-backend/internal/models"

	"github.com/jackc/pgx/v5"
)

// maxMergeDepth bounds the read-time walk of a merge chain
const maxMergeDepth = 32

type MergeResult struct {
	TargetID   int   `json:"target_id"`
	MergedIDs  []int `json:"merged_ids"`
	Reparented int64 `json:"tracking_reparented"`
}

// mergeSources drops duplicates and the target itself from sourceIDs
func mergeSources(targetID int, sourceIDs []int) ([]int, error) {
	if targetID <= 0 {
		return nil, apperr.ErrInvalidInput.Withf("target_id is required")
	}
	seen := map[int]struct{}{targetID: {}}
	sources := make([]int, 0, len(sourceIDs))
	for _, id := range sourceIDs {
		if id <= 0 {
			return nil, apperr.ErrInvalidInput.Withf("invalid source id %d", id)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		sources = append(sources, id)
	}
	if len(sources) == 0 {
		return nil, apperr.ErrInvalidInput.Withf("at least one source id other than the target is required")
	}
	return sources, nil
}

// Merge absorbs sourceIDs into targetID: every tracking entry of the sources is
// moved to the target and each source is marked merged_into_id = target.
// All ids must exist and belong to userID, otherwise nothing changes.
// Chains are left as they are; a target may itself be merged later, but a
// source already on the target's chain would close a cycle and is refused.
func (r *PaymentRepository) Merge(ctx context.Context, userID, targetID int, sourceIDs []int) (*MergeResult, error) {
	sources, err := mergeSources(targetID, sourceIDs)
	if err != nil {
		return nil, err
	}
	all := append([]int{targetID}, sources...)

	result := &MergeResult{TargetID: targetID, MergedIDs: sources}
	err = db.WithTx(ctx, r.DB, func(tx pgx.Tx) error {
		var owned int
		if err := tx.QueryRow(ctx,
			`SELECT COUNT(*) FROM payments WHERE id = ANY($1) AND user_id = $2`,
			all, userID).Scan(&owned); err != nil {
			return fmt.Errorf("verify payment ownership: %w", err)
		}
		if owned != len(all) {
			return apperr.ErrPaymentOwnership
		}

		var cycle bool
		if err := tx.QueryRow(ctx,
			`WITH RECURSIVE chain(id, merged_into_id, depth) AS (
                 SELECT id, merged_into_id, 0 FROM payments WHERE id = $1
                 UNION ALL
                 SELECT p.id, p.merged_into_id, c.depth + 1
                 FROM payments p JOIN chain c ON p.id = c.merged_into_id
                 WHERE c.depth < $3
             )
             SELECT EXISTS(SELECT 1 FROM chain WHERE id = ANY($2))`,
			targetID, sources, maxMergeDepth).Scan(&cycle); err != nil {
			return fmt.Errorf("check merge chain: %w", err)
		}
		if cycle {
			return apperr.ErrMergeCycle
		}

		tag, err := tx.Exec(ctx,
			`UPDATE payment_tracking SET payment_id = $1 WHERE payment_id = ANY($2)`,
			targetID, sources)
		if err != nil {
			return fmt.Errorf("reparent tracking: %w", err)
		}
		result.Reparented = tag.RowsAffected()

		if _, err := tx.Exec(ctx,
			`UPDATE payments SET merged_into_id = $1, updated_at = NOW() WHERE id = ANY($2)`,
			targetID, sources); err != nil {
			return fmt.Errorf("mark merged payments: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Unmerge clears merged_into_id on paymentID only. Tracking entries moved by
// the merge stay on the payment that currently holds them.
func (r *PaymentRepository) Unmerge(ctx context.Context, userID, paymentID int) (*models.Payment, error) {
	p := &models.Payment{}
	err := r.DB.QueryRow(ctx,
		`UPDATE payments SET merged_into_id = NULL, updated_at = NOW()
         WHERE id = $1 AND user_id = $2
         RETURNING id, user_id, party_name, contact, status, month, year, created_at, updated_at`,
		paymentID, userID,
	).Scan(&p.ID, &p.UserID, &p.PartyName, &p.Contact, &p.Status, &p.Month, &p.Year, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ownershipError(ctx, r.DB, paymentID)
	}
	if err != nil {
		return nil, fmt.Errorf("unmerge payment %d: %w", paymentID, err)
	}
	return p, nil
}

type mergeLink struct {
	id         int
	mergedInto int // 0 = canonical
}

// ResolveRoot follows merged_into_id from id to the canonical payment. Stored
// pointers are never rewritten; this is a read-time view of the chain.
func (r *PaymentRepository) ResolveRoot(ctx context.Context, userID, id int) (int, error) {
	rows, err := r.DB.Query(ctx,
		`WITH RECURSIVE chain(id, merged_into_id, depth) AS (
             SELECT id, merged_into_id, 0 FROM payments WHERE id = $1 AND user_id = $2
             UNION ALL
             SELECT p.id, p.merged_into_id, c.depth + 1
             FROM payments p JOIN chain c ON p.id = c.merged_into_id
             WHERE c.depth < $3
         )
         SELECT id, COALESCE(merged_into_id, 0) FROM chain ORDER BY depth`,
		id, userID, maxMergeDepth)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var links []mergeLink
	for rows.Next() {
		var l mergeLink
		if err := rows.Scan(&l.id, &l.mergedInto); err != nil {
			return 0, err
		}
		links = append(links, l)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}
	if len(links) == 0 {
		return 0, apperr.ErrPaymentNotFound
	}
	return resolveRoot(links), nil
}

// resolveRoot walks links in chain order. A cycle resolves to its smallest id
// so every member of the cycle reports the same root.
func resolveRoot(links []mergeLink) int {
	seen := make(map[int]int, len(links))
	for i, l := range links {
		if first, ok := seen[l.id]; ok {
			root := l.id
			for _, c := range links[first:i] {
				if c.id < root {
					root = c.id
				}
			}
			return root
		}
		seen[l.id] = i
		if l.mergedInto == 0 {
			return l.id
		}
	}
	return links[len(links)-1].id
}

// planImport decides which incoming rows to insert. Each existing party name
// in the bucket absorbs at most one incoming row with the same name, so two
// existing "A" rows absorb two incoming "A" rows and a third is inserted.
func planImport(existing []string, incoming []models.ImportRow) (toInsert []models.ImportRow, skipped int) {
	remaining := make(map[string]int, len(existing))
	for _, name := range existing {
		remaining[strings.TrimSpace(name)]++
	}
	for _, row := range incoming {
		name := strings.TrimSpace(row.PartyName)
		if name == "" {
			continue
		}
		if remaining[name] > 0 {
			remaining[name]--
			skipped++
			continue
		}
		toInsert = append(toInsert, models.ImportRow{PartyName: name, Contact: strings.TrimSpace(row.Contact)})
	}
	return toInsert, skipped
}

// Import inserts the rows of an uploaded sheet into the (user, month, year)
// bucket, skipping rows that match a party already on file. The dedup scan and
// the single bulk insert share one transaction.
func (r *PaymentRepository) Import(ctx context.Context, userID int, month string, year int, rows []models.ImportRow) (*models.ImportResult, error) {
	result := &models.ImportResult{}
	err := db.WithTx(ctx, r.DB, func(tx pgx.Tx) error {
		existing, err := bucketPartyNames(ctx, tx, userID, month, year)
		if err != nil {
			return fmt.Errorf("load existing parties: %w", err)
		}

		toInsert, skipped := planImport(existing, rows)
		result.Skipped = skipped
		if len(toInsert) == 0 {
			return nil
		}

		names := make([]string, len(toInsert))
		contacts := make([]string, len(toInsert))
		for i, row := range toInsert {
			names[i] = row.PartyName
			contacts[i] = row.Contact
		}
		tag, err := tx.Exec(ctx,
			`INSERT INTO payments (user_id, month, year, status, party_name, contact)
             SELECT $1::int, $2::text, $3::int, $4::text, t.party_name, t.contact
             FROM unnest($5::text[], $6::text[]) AS t(party_name, contact)`,
			userID, month, year, models.PaymentStatusPending, names, contacts)
		if err != nil {
			return fmt.Errorf("bulk insert payments: %w", err)
		}
		result.Inserted = int(tag.RowsAffected())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func bucketPartyNames(ctx context.Context, q db.DBTX, userID int, month string, year int) ([]string, error) {
	rows, err := q.Query(ctx,
		`SELECT party_name FROM payments WHERE user_id = $1 AND month = $2 AND year = $3`,
		userID, month, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
