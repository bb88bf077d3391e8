//go:build unit || e2e

package builder

import (
	"time"

	dombooking "concert-ticket-api/internal/domain/booking"
	reqdto "concert-ticket-api/internal/handler/dto/request"
	"concert-ticket-api/internal/usecase/commands"
	"concert-ticket-api/internal/usecase/queries"
	"concert-ticket-api/internal/usecase/shared"

	"github.com/google/uuid"
)

type BookingBuilder struct {
	ConcertID      uuid.UUID
	ConcertName    string
	RequesterID    uuid.UUID
	IdempotencyKey uuid.UUID
	TierID         uuid.UUID
	TierName       string
	Quantity       int32
	UnitPriceCents int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func NewBookingBuilder() *BookingBuilder {
	now := time.Now()
	return &BookingBuilder{
		ConcertID:      uuid.New(),
		ConcertName:    "Midnight Echoes Live",
		RequesterID:    uuid.New(),
		IdempotencyKey: uuid.New(),
		TierID:         uuid.New(),
		TierName:       "General Admission",
		Quantity:       2,
		UnitPriceCents: 4500,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

func (b *BookingBuilder) TotalCents() int64 {
	return b.UnitPriceCents * int64(b.Quantity)
}

// Build methods
func (b *BookingBuilder) BuildDomain() (*dombooking.Booking, error) {
	item, err := dombooking.NewItem(b.TierID, b.Quantity, dombooking.MustMoney(b.UnitPriceCents))
	if err != nil {
		return nil, err
	}
	return dombooking.NewBooking(b.ConcertID, b.RequesterID, b.IdempotencyKey, []dombooking.Item{item})
}

func (b *BookingBuilder) BuildParams() commands.CreateBookingParams {
	return commands.CreateBookingParams{
		ConcertID:   b.ConcertID,
		RequesterID: b.RequesterID,
		Items: []commands.ItemParams{
			{TierID: b.TierID, Quantity: b.Quantity},
		},
		ClaimedTotalCents: b.TotalCents(),
	}
}

func (b *BookingBuilder) BuildView(status string) *queries.BookingView {
	return &queries.BookingView{
		ID:               uuid.New(),
		ConcertID:        b.ConcertID,
		ConcertName:      b.ConcertName,
		RequesterID:      b.RequesterID,
		IdempotencyKey:   b.IdempotencyKey,
		Status:           status,
		TotalAmountCents: b.TotalCents(),
		Items: []queries.BookingItemView{
			{
				ID:             uuid.New(),
				TierID:         b.TierID,
				TierName:       b.TierName,
				Quantity:       b.Quantity,
				UnitPriceCents: b.UnitPriceCents,
			},
		},
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func (b *BookingBuilder) BuildTierSnapshot(available int32) shared.TierSnapshot {
	return shared.TierSnapshot{
		ID:             b.TierID,
		ConcertID:      b.ConcertID,
		Name:           b.TierName,
		UnitPriceCents: b.UnitPriceCents,
		TotalQty:       available + b.Quantity,
		AvailableQty:   available,
		Revision:       1,
	}
}

func (b *BookingBuilder) BuildConcertSnapshot() *shared.ConcertSnapshot {
	return &shared.ConcertSnapshot{
		ID:       b.ConcertID,
		Name:     b.ConcertName,
		Venue:    "Riverside Arena",
		StartsAt: b.CreatedAt.Add(30 * 24 * time.Hour),
	}
}

func (b *BookingBuilder) BuildCreateRequestDTO() reqdto.CreateBookingRequest {
	return reqdto.CreateBookingRequest{
		ConcertID: b.ConcertID,
		Items: []reqdto.BookingItemRequest{
			{TierID: b.TierID, Quantity: b.Quantity},
		},
		ClaimedTotalCents: b.TotalCents(),
	}
}
