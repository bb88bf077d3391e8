package readstore

import (
	"context"

	"concert-ticket-api/internal/infra"
	"concert-ticket-api/internal/infra/db"
	"concert-ticket-api/internal/usecase/queries"
	"concert-ticket-api/internal/usecase/shared"

	"github.com/google/uuid"
)

type ConcertReadStore struct {
	db db.DBTX
}

func NewConcertReadStore(dbtx db.DBTX) *ConcertReadStore {
	return &ConcertReadStore{db: dbtx}
}

func (r *ConcertReadStore) FindByID(ctx context.Context, id uuid.UUID) (*shared.ConcertSnapshot, error) {
	var s shared.ConcertSnapshot
	err := r.db.QueryRow(ctx,
		`SELECT id, name, venue, starts_at FROM concerts WHERE id = $1`,
		id,
	).Scan(&s.ID, &s.Name, &s.Venue, &s.StartsAt)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, infra.WrapRepoErr("concert not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find concert by id", err)
	}
	return &s, nil
}

const tiersByConcertSQL = `
SELECT id, concert_id, name, unit_price_cents, total_qty, available_qty
FROM tiers
WHERE concert_id = $1
ORDER BY unit_price_cents, name`

// FindByConcertID returns the tier listing clients quote against. The
// availability values are a snapshot, not a promise.
func (r *ConcertReadStore) FindByConcertID(ctx context.Context, concertID uuid.UUID) ([]*queries.TierView, error) {
	if _, err := r.FindByID(ctx, concertID); err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, tiersByConcertSQL, concertID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list tiers", err)
	}
	defer rows.Close()

	var views []*queries.TierView
	for rows.Next() {
		var v queries.TierView
		if err := rows.Scan(&v.ID, &v.ConcertID, &v.Name, &v.UnitPriceCents, &v.TotalQty, &v.AvailableQty); err != nil {
			return nil, infra.WrapRepoErr("failed to scan tier", err)
		}
		views = append(views, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read tiers", err)
	}
	return views, nil
}
