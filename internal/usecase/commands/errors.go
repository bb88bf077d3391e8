package commands

import (
	"fmt"

	"concert-ticket-api/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrConcertNotFound         = errs.New("concert not found")
	ErrTierNotFound            = errs.New("tier not found")
	ErrSoldOut                 = errs.New("tier sold out")
	ErrInsufficientInventory   = errs.New("insufficient inventory")
	ErrAmountMismatch          = errs.New("amount mismatch")
	ErrPaymentFailed           = errs.New("payment failed")
	ErrBookingConflict         = errs.New("booking conflict")
	ErrBookingTimeout          = errs.New("booking timed out")
	ErrConcertStarted          = errs.New("concert already started")
	ErrDomainValidation        = errs.New("domain validation error")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

// lost the idempotency-key insert race inside an open transaction; the
// coordinator resolves to the winner after rollback
var errIdempotencyRace = errs.New("idempotency key race lost")

// key already used by a different requester; replaying it must not leak
// the owner's booking
var errForeignIdempotencyKey = errs.New("idempotency key belongs to another requester")

// TiersMissing lists the requested tier ids that do not exist for the
// concert, so the client can correct its request.
type TiersMissing struct {
	TierIDs []uuid.UUID
}

func (e *TiersMissing) Error() string {
	return fmt.Sprintf("tiers not found: %v", e.TierIDs)
}

// InventoryShortage carries the counts a client needs for precise
// messaging. SoldOut distinguishes an empty tier from one that merely
// cannot cover the request.
type InventoryShortage struct {
	TierID    uuid.UUID
	TierName  string
	Requested int32
	Available int32
	SoldOut   bool
}

func (e *InventoryShortage) Error() string {
	if e.SoldOut {
		return fmt.Sprintf("tier %q is sold out", e.TierName)
	}
	return fmt.Sprintf("tier %q has %d available, %d requested", e.TierName, e.Available, e.Requested)
}

// AmountMismatch reports the authoritative total computed from locked
// tier prices against the caller's claim.
type AmountMismatch struct {
	ComputedCents int64
	ClaimedCents  int64
}

func (e *AmountMismatch) Error() string {
	return fmt.Sprintf("claimed total %d does not match computed total %d", e.ClaimedCents, e.ComputedCents)
}
