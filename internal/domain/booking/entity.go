package booking

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNoItems              = errors.New("booking requires at least one item")
	ErrInvalidQuantity      = errors.New("item quantity must be positive")
	ErrDuplicateTier        = errors.New("duplicate tier in booking items")
	ErrMissingIdempotency   = errors.New("idempotency key required")
	ErrInvalidTransition    = errors.New("invalid booking status transition")
	ErrTotalMismatchesItems = errors.New("booking total must equal sum of items")
)

// Item is a line of a booking. The unit price is copied from the tier at
// booking time; later tier price changes never affect historical bookings.
type Item struct {
	id        uuid.UUID
	tierID    uuid.UUID
	quantity  int32
	unitPrice Money
}

func NewItem(tierID uuid.UUID, quantity int32, unitPrice Money) (Item, error) {
	if quantity <= 0 {
		return Item{}, ErrInvalidQuantity
	}
	return Item{
		id:        uuid.New(),
		tierID:    tierID,
		quantity:  quantity,
		unitPrice: unitPrice,
	}, nil
}

func ReconstructItem(id, tierID uuid.UUID, quantity int32, unitPrice Money) Item {
	return Item{id: id, tierID: tierID, quantity: quantity, unitPrice: unitPrice}
}

func (i Item) ID() uuid.UUID    { return i.id }
func (i Item) TierID() uuid.UUID { return i.tierID }
func (i Item) Quantity() int32  { return i.quantity }
func (i Item) UnitPrice() Money { return i.unitPrice }

func (i Item) Subtotal() Money {
	return i.unitPrice.MulQuantity(i.quantity)
}

type Booking struct {
	id             uuid.UUID
	concertID      uuid.UUID
	requesterID    uuid.UUID
	idempotencyKey uuid.UUID
	status         Status
	total          Money
	items          []Item
	createdAt      time.Time
	updatedAt      time.Time
}

// NewBooking creates a pending booking whose total is derived from its
// items, never taken from the caller.
func NewBooking(concertID, requesterID, idempotencyKey uuid.UUID, items []Item) (*Booking, error) {
	if idempotencyKey == uuid.Nil {
		return nil, ErrMissingIdempotency
	}
	if len(items) == 0 {
		return nil, ErrNoItems
	}

	seen := make(map[uuid.UUID]struct{}, len(items))
	total := Money{}
	for _, it := range items {
		if it.quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		if _, dup := seen[it.tierID]; dup {
			return nil, ErrDuplicateTier
		}
		seen[it.tierID] = struct{}{}
		total = total.Add(it.Subtotal())
	}

	return &Booking{
		id:             uuid.New(),
		concertID:      concertID,
		requesterID:    requesterID,
		idempotencyKey: idempotencyKey,
		status:         StatusPending,
		total:          total,
		items:          items,
	}, nil
}

func ReconstructBooking(
	id, concertID, requesterID, idempotencyKey uuid.UUID,
	status Status,
	total Money,
	items []Item,
	createdAt, updatedAt time.Time,
) (*Booking, error) {
	sum := Money{}
	for _, it := range items {
		sum = sum.Add(it.Subtotal())
	}
	if sum.Cents() != total.Cents() {
		return nil, ErrTotalMismatchesItems
	}
	return &Booking{
		id:             id,
		concertID:      concertID,
		requesterID:    requesterID,
		idempotencyKey: idempotencyKey,
		status:         status,
		total:          total,
		items:          items,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}, nil
}

func (b *Booking) TransitionTo(next Status) error {
	if !b.status.CanTransitionTo(next) {
		return ErrInvalidTransition
	}
	b.status = next
	return nil
}

func (b *Booking) IsConfirmed() bool {
	return b.status == StatusConfirmed
}

func (b *Booking) ID() uuid.UUID             { return b.id }
func (b *Booking) ConcertID() uuid.UUID      { return b.concertID }
func (b *Booking) RequesterID() uuid.UUID    { return b.requesterID }
func (b *Booking) IdempotencyKey() uuid.UUID { return b.idempotencyKey }
func (b *Booking) Status() Status            { return b.status }
func (b *Booking) Total() Money              { return b.total }
func (b *Booking) Items() []Item             { return b.items }
func (b *Booking) CreatedAt() time.Time      { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time      { return b.updatedAt }
