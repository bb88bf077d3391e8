package request

import (
	"concert-ticket-api/internal/usecase/commands"

	"github.com/google/uuid"
)

type BookingItemRequest struct {
	TierID   uuid.UUID `json:"tier_id" binding:"required"`
	Quantity int32     `json:"quantity" binding:"required,gt=0"`
}

type CreateBookingRequest struct {
	ConcertID         uuid.UUID            `json:"concert_id" binding:"required"`
	Items             []BookingItemRequest `json:"items" binding:"required,min=1,dive"`
	ClaimedTotalCents int64                `json:"claimed_total_cents" binding:"required,gte=0"`
}

func (r CreateBookingRequest) ToParams(requesterID uuid.UUID) commands.CreateBookingParams {
	items := make([]commands.ItemParams, len(r.Items))
	for i, it := range r.Items {
		items[i] = commands.ItemParams{
			TierID:   it.TierID,
			Quantity: it.Quantity,
		}
	}
	return commands.CreateBookingParams{
		ConcertID:         r.ConcertID,
		RequesterID:       requesterID,
		Items:             items,
		ClaimedTotalCents: r.ClaimedTotalCents,
	}
}
