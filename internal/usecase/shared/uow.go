package shared

import (
	"context"
	"time"

	"concert-ticket-api/internal/domain/booking"
	"concert-ticket-api/internal/usecase/queries"

	"github.com/google/uuid"
)

// UnitOfWork scopes a group of reads and writes to one atomic store
// transaction. Every exit path of Within either commits or rolls back;
// a handle is never left dangling.
type UnitOfWork interface {
	// Within runs fn inside a transaction bounded by the booking deadline.
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// Reads gives pool-backed reads outside any transaction.
	Reads() CommandReads
}

// Tx is the transactional view handed to collaborators. Repositories
// obtained from it write through the same underlying transaction.
type Tx interface {
	Bookings() BookingRepository
	Inventory() InventoryRepository
	Reads() CommandReads
}

type BookingRepository interface {
	// Create inserts the booking header and all items. A duplicate
	// idempotency key surfaces as KindDuplicateKey.
	Create(ctx context.Context, b *booking.Booking) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status booking.Status) error
	// FindIDByIdempotencyKey returns nil when no booking carries the key.
	FindIDByIdempotencyKey(ctx context.Context, key uuid.UUID) (*uuid.UUID, error)
}

type InventoryRepository interface {
	// LockTiers acquires exclusive row locks on the given tiers in one
	// batched statement, in ascending id order, and returns the
	// authoritative post-lock state. Missing ids are simply absent from
	// the result; the caller decides how to report them.
	LockTiers(ctx context.Context, concertID uuid.UUID, tierIDs []uuid.UUID) ([]TierSnapshot, error)
	// Decrement subtracts quantity under the already-held lock and bumps
	// the revision counter. KindConflict when the guard fails.
	Decrement(ctx context.Context, tierID uuid.UUID, quantity int32) error
}

type CommandReads interface {
	ConcertByID(ctx context.Context, id uuid.UUID) (*ConcertSnapshot, error)
	BookingViewByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error)
	BookingViewByIdempotencyKey(ctx context.Context, key uuid.UUID) (*queries.BookingView, error)
}

// PaymentGateway is the opaque external authorize capability: binary
// and final for the purposes of one booking attempt.
type PaymentGateway interface {
	Authorize(ctx context.Context, amount booking.Money) (bool, error)
}

type ConcertSnapshot struct {
	ID       uuid.UUID
	Name     string
	Venue    string
	StartsAt time.Time
}

type TierSnapshot struct {
	ID             uuid.UUID
	ConcertID      uuid.UUID
	Name           string
	UnitPriceCents int64
	TotalQty       int32
	AvailableQty   int32
	Revision       int64
}
