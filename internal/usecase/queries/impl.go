package queries

import (
	"context"

	"concert-ticket-api/internal/infra"
	"concert-ticket-api/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrBookingNotFound = errs.New("booking not found")
	ErrConcertNotFound = errs.New("concert not found")
)

type bookingQueriesImpl struct {
	repo BookingViewRepo
}

func NewBookingQueries(repo BookingViewRepo) BookingQueries {
	return &bookingQueriesImpl{repo: repo}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, requesterID, id uuid.UUID) (*BookingView, error) {
	view, err := q.repo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrBookingNotFound)
		}
		return nil, err
	}
	// Another requester's booking is indistinguishable from a missing one.
	if view.RequesterID != requesterID {
		return nil, ErrBookingNotFound
	}
	return view, nil
}

type tierQueriesImpl struct {
	repo TierViewRepo
}

func NewTierQueries(repo TierViewRepo) TierQueries {
	return &tierQueriesImpl{repo: repo}
}

func (q *tierQueriesImpl) ListByConcert(ctx context.Context, concertID uuid.UUID) ([]*TierView, error) {
	views, err := q.repo.FindByConcertID(ctx, concertID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrConcertNotFound)
		}
		return nil, err
	}
	return views, nil
}
