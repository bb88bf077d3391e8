//go:build unit

package queries

import (
	"context"
	"testing"

	"concert-ticket-api/internal/infra"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBookingViewRepo struct {
	view *BookingView
	err  error
}

func (s *stubBookingViewRepo) FindByID(_ context.Context, _ uuid.UUID) (*BookingView, error) {
	return s.view, s.err
}

type stubTierViewRepo struct {
	views []*TierView
	err   error
}

func (s *stubTierViewRepo) FindByConcertID(_ context.Context, _ uuid.UUID) ([]*TierView, error) {
	return s.views, s.err
}

func TestBookingQueriesGetByID(t *testing.T) {
	requesterID := uuid.New()
	bookingID := uuid.New()

	t.Run("returns own booking", func(t *testing.T) {
		view := &BookingView{ID: bookingID, RequesterID: requesterID}
		q := NewBookingQueries(&stubBookingViewRepo{view: view})

		got, err := q.GetByID(context.Background(), requesterID, bookingID)
		require.NoError(t, err)
		assert.Equal(t, bookingID, got.ID)
	})

	t.Run("foreign booking reads as not found", func(t *testing.T) {
		view := &BookingView{ID: bookingID, RequesterID: uuid.New()}
		q := NewBookingQueries(&stubBookingViewRepo{view: view})

		_, err := q.GetByID(context.Background(), requesterID, bookingID)
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})

	t.Run("missing booking", func(t *testing.T) {
		q := NewBookingQueries(&stubBookingViewRepo{err: infra.WrapRepoErr("no rows", nil, infra.KindNotFound)})

		_, err := q.GetByID(context.Background(), requesterID, bookingID)
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})

	t.Run("infrastructure failures pass through", func(t *testing.T) {
		repoErr := infra.WrapRepoErr("connection reset", nil)
		q := NewBookingQueries(&stubBookingViewRepo{err: repoErr})

		_, err := q.GetByID(context.Background(), requesterID, bookingID)
		assert.NotErrorIs(t, err, ErrBookingNotFound)
		assert.Error(t, err)
	})
}

func TestTierQueriesListByConcert(t *testing.T) {
	concertID := uuid.New()

	t.Run("returns tier views", func(t *testing.T) {
		views := []*TierView{{ID: uuid.New(), ConcertID: concertID, Name: "GA"}}
		q := NewTierQueries(&stubTierViewRepo{views: views})

		got, err := q.ListByConcert(context.Background(), concertID)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("unknown concert", func(t *testing.T) {
		q := NewTierQueries(&stubTierViewRepo{err: infra.WrapRepoErr("no rows", nil, infra.KindNotFound)})

		_, err := q.ListByConcert(context.Background(), concertID)
		assert.ErrorIs(t, err, ErrConcertNotFound)
	})
}
