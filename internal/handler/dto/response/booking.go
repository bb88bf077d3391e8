package response

import (
	"time"

	"concert-ticket-api/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingResponse struct {
	ID               uuid.UUID             `json:"id"`
	ConcertID        uuid.UUID             `json:"concertId"`
	ConcertName      string                `json:"concertName"`
	RequesterID      uuid.UUID             `json:"requesterId"`
	Status           string                `json:"status"`
	TotalAmountCents int64                 `json:"totalAmountCents"`
	Items            []BookingItemResponse `json:"items"`
	IsReplayed       bool                  `json:"isReplayed"`
	CreatedAt        time.Time             `json:"createdAt"`
	UpdatedAt        time.Time             `json:"updatedAt"`
}

type BookingItemResponse struct {
	TierID         uuid.UUID `json:"tierId"`
	TierName       string    `json:"tierName"`
	Quantity       int32     `json:"quantity"`
	UnitPriceCents int64     `json:"unitPriceCents"`
}

type TierResponse struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	UnitPriceCents int64     `json:"unitPriceCents"`
	TotalQty       int32     `json:"totalQty"`
	AvailableQty   int32     `json:"availableQty"`
}

func FromBookingView(rm *queries.BookingView, isReplayed bool) *BookingResponse {
	items := make([]BookingItemResponse, len(rm.Items))
	for i, it := range rm.Items {
		items[i] = BookingItemResponse{
			TierID:         it.TierID,
			TierName:       it.TierName,
			Quantity:       it.Quantity,
			UnitPriceCents: it.UnitPriceCents,
		}
	}
	return &BookingResponse{
		ID:               rm.ID,
		ConcertID:        rm.ConcertID,
		ConcertName:      rm.ConcertName,
		RequesterID:      rm.RequesterID,
		Status:           rm.Status,
		TotalAmountCents: rm.TotalAmountCents,
		Items:            items,
		IsReplayed:       isReplayed,
		CreatedAt:        rm.CreatedAt,
		UpdatedAt:        rm.UpdatedAt,
	}
}

func FromTierView(rm *queries.TierView) *TierResponse {
	return &TierResponse{
		ID:             rm.ID,
		Name:           rm.Name,
		UnitPriceCents: rm.UnitPriceCents,
		TotalQty:       rm.TotalQty,
		AvailableQty:   rm.AvailableQty,
	}
}
