package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Read models (DTO for read side)
type BookingView struct {
	ID               uuid.UUID         `json:"id"`
	ConcertID        uuid.UUID         `json:"concert_id"`
	ConcertName      string            `json:"concert_name"`
	RequesterID      uuid.UUID         `json:"requester_id"`
	IdempotencyKey   uuid.UUID         `json:"idempotency_key"`
	Status           string            `json:"status"`
	TotalAmountCents int64             `json:"total_amount_cents"`
	Items            []BookingItemView `json:"items"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

type BookingItemView struct {
	ID             uuid.UUID `json:"id"`
	TierID         uuid.UUID `json:"tier_id"`
	TierName       string    `json:"tier_name"`
	Quantity       int32     `json:"quantity"`
	UnitPriceCents int64     `json:"unit_price_cents"`
}

type TierView struct {
	ID             uuid.UUID `json:"id"`
	ConcertID      uuid.UUID `json:"concert_id"`
	Name           string    `json:"name"`
	UnitPriceCents int64     `json:"unit_price_cents"`
	TotalQty       int32     `json:"total_qty"`
	AvailableQty   int32     `json:"available_qty"`
}

type BookingQueries interface {
	// GetByID returns the booking-with-items view, scoped to the requester.
	GetByID(ctx context.Context, requesterID, id uuid.UUID) (*BookingView, error)
}

type TierQueries interface {
	// ListByConcert returns a non-authoritative availability snapshot for
	// clients to quote against. Only the locked read inside a booking
	// transaction is authoritative.
	ListByConcert(ctx context.Context, concertID uuid.UUID) ([]*TierView, error)
}

type BookingViewRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
}

type TierViewRepo interface {
	FindByConcertID(ctx context.Context, concertID uuid.UUID) ([]*TierView, error)
}
