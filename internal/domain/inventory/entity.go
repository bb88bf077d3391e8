package inventory

import (
	"errors"

	"concert-ticket-api/internal/domain/booking"

	"github.com/google/uuid"
)

var (
	ErrCapacityInvariant = errors.New("available must be between zero and total")
	ErrSoldOut           = errors.New("tier is sold out")
	ErrInsufficient      = errors.New("insufficient availability")
	ErrInvalidQuantity   = errors.New("requested quantity must be positive")
)

// Tier is a fungible ticket category with its own price and capacity.
// Counters are authoritative only while the row lock is held; entities
// constructed from pre-lock reads must not be used for decisions.
type Tier struct {
	id        uuid.UUID
	concertID uuid.UUID
	name      string
	unitPrice booking.Money
	total     int32
	available int32
	revision  int64
}

func NewTier(id, concertID uuid.UUID, name string, unitPrice booking.Money, total, available int32, revision int64) (*Tier, error) {
	if available < 0 || available > total {
		return nil, ErrCapacityInvariant
	}
	return &Tier{
		id:        id,
		concertID: concertID,
		name:      name,
		unitPrice: unitPrice,
		total:     total,
		available: available,
		revision:  revision,
	}, nil
}

// CheckAvailability distinguishes sold-out from merely insufficient;
// the numeric test is the same but callers message them differently.
func (t *Tier) CheckAvailability(requested int32) error {
	if requested <= 0 {
		return ErrInvalidQuantity
	}
	if t.available == 0 {
		return ErrSoldOut
	}
	if t.available < requested {
		return ErrInsufficient
	}
	return nil
}

// Reserve applies the decrement to the in-memory view and bumps the
// revision, mirroring what the store performs under the row lock.
func (t *Tier) Reserve(requested int32) error {
	if err := t.CheckAvailability(requested); err != nil {
		return err
	}
	t.available -= requested
	t.revision++
	return nil
}

func (t *Tier) ID() uuid.UUID            { return t.id }
func (t *Tier) ConcertID() uuid.UUID     { return t.concertID }
func (t *Tier) Name() string             { return t.name }
func (t *Tier) UnitPrice() booking.Money { return t.unitPrice }
func (t *Tier) Total() int32             { return t.total }
func (t *Tier) Available() int32         { return t.available }
func (t *Tier) Revision() int64          { return t.revision }
