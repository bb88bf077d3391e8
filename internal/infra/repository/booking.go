package repository

import (
	"context"

	"concert-ticket-api/internal/domain/booking"
	"concert-ticket-api/internal/infra"
	"concert-ticket-api/internal/infra/db"

	"github.com/google/uuid"
)

type BookingRepository struct {
	db db.DBTX
}

func NewBookingRepository(dbtx db.DBTX) *BookingRepository {
	return &BookingRepository{db: dbtx}
}

const insertBookingSQL = `
INSERT INTO bookings (id, concert_id, requester_id, idempotency_key, status, total_amount_cents)
VALUES ($1, $2, $3, $4, $5, $6)`

const insertBookingItemSQL = `
INSERT INTO booking_items (id, booking_id, tier_id, quantity, unit_price_cents)
VALUES ($1, $2, $3, $4, $5)`

// Create inserts the header and every line item through the same
// transaction handle. The unique index on idempotency_key is the last
// line of defense against concurrent first submissions.
func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	_, err := r.db.Exec(ctx, insertBookingSQL,
		b.ID(), b.ConcertID(), b.RequesterID(), b.IdempotencyKey(), b.Status().String(), b.Total().Cents(),
	)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return infra.WrapRepoErr("idempotency key already used", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to insert booking", err)
	}

	for _, it := range b.Items() {
		_, err := r.db.Exec(ctx, insertBookingItemSQL,
			it.ID(), b.ID(), it.TierID(), it.Quantity(), it.UnitPrice().Cents(),
		)
		if err != nil {
			return infra.WrapRepoErr("failed to insert booking item", err)
		}
	}
	return nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status booking.Status) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE bookings SET status = $2, updated_at = now() WHERE id = $1`,
		id, status.String(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update booking status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *BookingRepository) FindIDByIdempotencyKey(ctx context.Context, key uuid.UUID) (*uuid.UUID, error) {
	var id uuid.UUID
	err := r.db.QueryRow(ctx,
		`SELECT id FROM bookings WHERE idempotency_key = $1`,
		key,
	).Scan(&id)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, nil
		}
		return nil, infra.WrapRepoErr("failed to find booking by idempotency key", err)
	}
	return &id, nil
}
