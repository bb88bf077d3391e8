package commands

import (
	"concert-ticket-api/internal/domain/booking"
	"concert-ticket-api/internal/pkg/errs"
	"concert-ticket-api/internal/usecase/shared"

	"github.com/google/uuid"
)

// AmountToleranceCents absorbs client-side rounding of decimal displays.
// Anything beyond one cent is a real price disagreement, typically a
// stale quote or a manipulated payload.
const AmountToleranceCents int64 = 1

// computeTotal prices the request from the locked, authoritative tier
// snapshots, never from anything the caller sent.
func computeTotal(locked map[uuid.UUID]shared.TierSnapshot, items []ItemParams) booking.Money {
	total := booking.Money{}
	for _, it := range items {
		tier := locked[it.TierID]
		unit := booking.MustMoney(tier.UnitPriceCents)
		total = total.Add(unit.MulQuantity(it.Quantity))
	}
	return total
}

func validateClaimedAmount(computed booking.Money, claimedCents int64) error {
	claimed, err := booking.NewMoney(claimedCents)
	if err != nil {
		return errs.Mark(err, ErrAmountMismatch)
	}
	if !computed.WithinTolerance(claimed, AmountToleranceCents) {
		return errs.Mark(&AmountMismatch{
			ComputedCents: computed.Cents(),
			ClaimedCents:  claimedCents,
		}, ErrAmountMismatch)
	}
	return nil
}
