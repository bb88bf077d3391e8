package readstore

import (
	"context"

	"concert-ticket-api/internal/infra"
	"concert-ticket-api/internal/infra/db"
	"concert-ticket-api/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingReadStore struct {
	db db.DBTX
}

func NewBookingReadStore(dbtx db.DBTX) *BookingReadStore {
	return &BookingReadStore{db: dbtx}
}

const bookingViewSQL = `
SELECT b.id, b.concert_id, c.name, b.requester_id, b.idempotency_key, b.status, b.total_amount_cents, b.created_at, b.updated_at
FROM bookings b
JOIN concerts c ON c.id = b.concert_id
WHERE b.id = $1`

const bookingItemsSQL = `
SELECT i.id, i.tier_id, t.name, i.quantity, i.unit_price_cents
FROM booking_items i
JOIN tiers t ON t.id = i.tier_id
WHERE i.booking_id = $1
ORDER BY i.tier_id`

func (r *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	var v queries.BookingView
	err := r.db.QueryRow(ctx, bookingViewSQL, id).Scan(
		&v.ID, &v.ConcertID, &v.ConcertName, &v.RequesterID, &v.IdempotencyKey,
		&v.Status, &v.TotalAmountCents, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking by id", err)
	}

	items, err := r.loadItems(ctx, id)
	if err != nil {
		return nil, err
	}
	v.Items = items
	return &v, nil
}

func (r *BookingReadStore) FindByIdempotencyKey(ctx context.Context, key uuid.UUID) (*queries.BookingView, error) {
	var id uuid.UUID
	err := r.db.QueryRow(ctx, `SELECT id FROM bookings WHERE idempotency_key = $1`, key).Scan(&id)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking by idempotency key", err)
	}
	return r.FindByID(ctx, id)
}

func (r *BookingReadStore) loadItems(ctx context.Context, bookingID uuid.UUID) ([]queries.BookingItemView, error) {
	rows, err := r.db.Query(ctx, bookingItemsSQL, bookingID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load booking items", err)
	}
	defer rows.Close()

	var items []queries.BookingItemView
	for rows.Next() {
		var it queries.BookingItemView
		if err := rows.Scan(&it.ID, &it.TierID, &it.TierName, &it.Quantity, &it.UnitPriceCents); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking item", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read booking items", err)
	}
	return items, nil
}
