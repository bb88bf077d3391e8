//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"concert-ticket-api/internal/domain/booking"
	"concert-ticket-api/internal/infra"
	"concert-ticket-api/internal/pkg/clock"
	. "concert-ticket-api/internal/usecase/commands"
	"concert-ticket-api/internal/usecase/queries"
	"concert-ticket-api/internal/usecase/shared"
	"concert-ticket-api/tests/common/builder"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// fakes
// ---------------------------------------------------------------------------

type fakeBookingRepo struct {
	existingID  *uuid.UUID
	findErr     error
	createErr   error
	created     *booking.Booking
	statusTrail []booking.Status
}

func (f *fakeBookingRepo) Create(_ context.Context, b *booking.Booking) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = b
	return nil
}

func (f *fakeBookingRepo) UpdateStatus(_ context.Context, _ uuid.UUID, status booking.Status) error {
	f.statusTrail = append(f.statusTrail, status)
	return nil
}

func (f *fakeBookingRepo) FindIDByIdempotencyKey(_ context.Context, _ uuid.UUID) (*uuid.UUID, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.existingID, nil
}

type fakeInventoryRepo struct {
	snapshots    []shared.TierSnapshot
	lockErr      error
	lockedIDs    []uuid.UUID
	decremented  map[uuid.UUID]int32
	decrementErr error
}

func (f *fakeInventoryRepo) LockTiers(_ context.Context, _ uuid.UUID, tierIDs []uuid.UUID) ([]shared.TierSnapshot, error) {
	f.lockedIDs = append([]uuid.UUID{}, tierIDs...)
	if f.lockErr != nil {
		return nil, f.lockErr
	}
	return f.snapshots, nil
}

func (f *fakeInventoryRepo) Decrement(_ context.Context, tierID uuid.UUID, quantity int32) error {
	if f.decrementErr != nil {
		return f.decrementErr
	}
	if f.decremented == nil {
		f.decremented = make(map[uuid.UUID]int32)
	}
	f.decremented[tierID] += quantity
	return nil
}

type fakeReads struct {
	concert    *shared.ConcertSnapshot
	concertErr error
	viewByID   *queries.BookingView
	viewErr    error
	viewByKey  *queries.BookingView
	byKeyErr   error
}

func (f *fakeReads) ConcertByID(_ context.Context, _ uuid.UUID) (*shared.ConcertSnapshot, error) {
	if f.concertErr != nil {
		return nil, f.concertErr
	}
	return f.concert, nil
}

func (f *fakeReads) BookingViewByID(_ context.Context, _ uuid.UUID) (*queries.BookingView, error) {
	if f.viewErr != nil {
		return nil, f.viewErr
	}
	return f.viewByID, nil
}

func (f *fakeReads) BookingViewByIdempotencyKey(_ context.Context, _ uuid.UUID) (*queries.BookingView, error) {
	if f.byKeyErr != nil {
		return nil, f.byKeyErr
	}
	return f.viewByKey, nil
}

type fakeTx struct {
	bookings  *fakeBookingRepo
	inventory *fakeInventoryRepo
	reads     *fakeReads
}

func (f *fakeTx) Bookings() shared.BookingRepository   { return f.bookings }
func (f *fakeTx) Inventory() shared.InventoryRepository { return f.inventory }
func (f *fakeTx) Reads() shared.CommandReads            { return f.reads }

type fakeUoW struct {
	tx         *fakeTx
	poolReads  *fakeReads
	withinErr  error
	committed  bool
	rolledBack bool
}

func (f *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	if f.withinErr != nil {
		return f.withinErr
	}
	if err := fn(ctx, f.tx); err != nil {
		f.rolledBack = true
		return err
	}
	f.committed = true
	return nil
}

func (f *fakeUoW) Reads() shared.CommandReads { return f.poolReads }

type fakeGateway struct {
	approved bool
	err      error
	amounts  []int64
}

func (f *fakeGateway) Authorize(_ context.Context, amount booking.Money) (bool, error) {
	f.amounts = append(f.amounts, amount.Cents())
	if f.err != nil {
		return false, f.err
	}
	return f.approved, nil
}

// ---------------------------------------------------------------------------
// fixture
// ---------------------------------------------------------------------------

type fixture struct {
	b       *builder.BookingBuilder
	uow     *fakeUoW
	gateway *fakeGateway
	clock   *clock.MockClock
	uc      BookingCommands
}

func newFixture(t *testing.T, available int32) *fixture {
	t.Helper()
	b := builder.NewBookingBuilder()
	tx := &fakeTx{
		bookings: &fakeBookingRepo{},
		inventory: &fakeInventoryRepo{
			snapshots: []shared.TierSnapshot{b.BuildTierSnapshot(available)},
		},
		reads: &fakeReads{
			concert:  b.BuildConcertSnapshot(),
			viewByID: b.BuildView(string(booking.StatusConfirmed)),
		},
	}
	uow := &fakeUoW{tx: tx, poolReads: &fakeReads{}}
	gateway := &fakeGateway{approved: true}
	mockClock := clock.NewMockClock(time.Now())
	return &fixture{
		b:       b,
		uow:     uow,
		gateway: gateway,
		clock:   mockClock,
		uc:      NewBookingUseCase(uow, gateway, mockClock),
	}
}

// ---------------------------------------------------------------------------
// CreateBooking
// ---------------------------------------------------------------------------

func TestCreateBooking_Success(t *testing.T) {
	f := newFixture(t, 10)

	result, err := f.uc.CreateBooking(context.Background(), f.b.BuildParams(), f.b.IdempotencyKey)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.False(t, result.IsReplayed)
	assert.Equal(t, string(booking.StatusConfirmed), result.Booking.Status)
	assert.Empty(t, cmp.Diff(f.uow.tx.reads.viewByID, result.Booking))
	assert.True(t, f.uow.committed)

	inv := f.uow.tx.inventory
	assert.Equal(t, f.b.Quantity, inv.decremented[f.b.TierID])

	repo := f.uow.tx.bookings
	require.NotNil(t, repo.created)
	assert.Equal(t, f.b.TotalCents(), repo.created.Total().Cents())
	assert.Equal(t, []booking.Status{booking.StatusConfirmed}, repo.statusTrail)

	// payment is authorized for the computed total, not the claimed one
	assert.Equal(t, []int64{f.b.TotalCents()}, f.gateway.amounts)
}

func TestCreateBooking_ReplaySkipsAllWork(t *testing.T) {
	f := newFixture(t, 10)
	existing := f.b.BuildView(string(booking.StatusConfirmed))
	f.uow.tx.bookings.existingID = &existing.ID
	f.uow.tx.reads.viewByID = existing

	result, err := f.uc.CreateBooking(context.Background(), f.b.BuildParams(), f.b.IdempotencyKey)
	require.NoError(t, err)

	assert.True(t, result.IsReplayed)
	assert.Equal(t, existing.ID, result.Booking.ID)
	assert.Nil(t, f.uow.tx.inventory.lockedIDs)
	assert.Nil(t, f.uow.tx.bookings.created)
	assert.Empty(t, f.gateway.amounts)
}

func TestCreateBooking_ReplayOfForeignKeyIsConflict(t *testing.T) {
	f := newFixture(t, 10)
	existing := f.b.BuildView(string(booking.StatusConfirmed))
	existing.RequesterID = uuid.New()
	f.uow.tx.bookings.existingID = &existing.ID
	f.uow.tx.reads.viewByID = existing

	params := f.b.BuildParams()
	_, err := f.uc.CreateBooking(context.Background(), params, f.b.IdempotencyKey)

	assert.ErrorIs(t, err, ErrBookingConflict)
	assert.Nil(t, f.uow.tx.inventory.lockedIDs)
	assert.Empty(t, f.gateway.amounts)
}

func TestCreateBooking_ConcertAlreadyStarted(t *testing.T) {
	f := newFixture(t, 10)
	f.clock.Set(f.uow.tx.reads.concert.StartsAt.Add(time.Minute))

	_, err := f.uc.CreateBooking(context.Background(), f.b.BuildParams(), f.b.IdempotencyKey)

	assert.ErrorIs(t, err, ErrConcertStarted)
	assert.ErrorIs(t, err, ErrDomainValidation)
	assert.Nil(t, f.uow.tx.inventory.lockedIDs)
}

func TestCreateBooking_ConcertNotFound(t *testing.T) {
	f := newFixture(t, 10)
	f.uow.tx.reads.concertErr = infra.WrapRepoErr("concert not found", nil, infra.KindNotFound)

	_, err := f.uc.CreateBooking(context.Background(), f.b.BuildParams(), f.b.IdempotencyKey)

	assert.ErrorIs(t, err, ErrConcertNotFound)
	assert.True(t, f.uow.rolledBack)
}

func TestCreateBooking_TierNotFound(t *testing.T) {
	f := newFixture(t, 10)
	f.uow.tx.inventory.snapshots = nil

	_, err := f.uc.CreateBooking(context.Background(), f.b.BuildParams(), f.b.IdempotencyKey)

	assert.ErrorIs(t, err, ErrTierNotFound)

	var detail *TiersMissing
	require.True(t, errors.As(err, &detail))
	assert.Equal(t, []uuid.UUID{f.b.TierID}, detail.TierIDs)
}

func TestCreateBooking_SoldOut(t *testing.T) {
	f := newFixture(t, 0)

	_, err := f.uc.CreateBooking(context.Background(), f.b.BuildParams(), f.b.IdempotencyKey)

	assert.ErrorIs(t, err, ErrSoldOut)

	var detail *InventoryShortage
	require.True(t, errors.As(err, &detail))
	assert.True(t, detail.SoldOut)
	assert.Equal(t, int32(0), detail.Available)
	assert.Empty(t, f.uow.tx.inventory.decremented)
}

func TestCreateBooking_InsufficientInventory(t *testing.T) {
	f := newFixture(t, 1)

	_, err := f.uc.CreateBooking(context.Background(), f.b.BuildParams(), f.b.IdempotencyKey)

	assert.ErrorIs(t, err, ErrInsufficientInventory)

	var detail *InventoryShortage
	require.True(t, errors.As(err, &detail))
	assert.False(t, detail.SoldOut)
	assert.Equal(t, f.b.Quantity, detail.Requested)
	assert.Equal(t, int32(1), detail.Available)
}

func TestCreateBooking_AmountMismatch(t *testing.T) {
	f := newFixture(t, 10)
	params := f.b.BuildParams()
	params.ClaimedTotalCents = f.b.TotalCents() + 50

	_, err := f.uc.CreateBooking(context.Background(), params, f.b.IdempotencyKey)

	assert.ErrorIs(t, err, ErrAmountMismatch)
	// mismatch is detected before any decrement
	assert.Empty(t, f.uow.tx.inventory.decremented)
	assert.Empty(t, f.gateway.amounts)
}

func TestCreateBooking_AmountWithinTolerance(t *testing.T) {
	f := newFixture(t, 10)
	params := f.b.BuildParams()
	params.ClaimedTotalCents = f.b.TotalCents() + 1

	result, err := f.uc.CreateBooking(context.Background(), params, f.b.IdempotencyKey)

	require.NoError(t, err)
	assert.False(t, result.IsReplayed)
}

func TestCreateBooking_PaymentDeclined(t *testing.T) {
	f := newFixture(t, 10)
	f.gateway.approved = false

	_, err := f.uc.CreateBooking(context.Background(), f.b.BuildParams(), f.b.IdempotencyKey)

	assert.ErrorIs(t, err, ErrPaymentFailed)
	assert.True(t, f.uow.rolledBack)
	// the failed status is written inside the doomed transaction only
	assert.Equal(t, []booking.Status{booking.StatusFailed}, f.uow.tx.bookings.statusTrail)
}

func TestCreateBooking_PaymentGatewayError(t *testing.T) {
	f := newFixture(t, 10)
	f.gateway.err = errors.New("gateway unreachable")

	_, err := f.uc.CreateBooking(context.Background(), f.b.BuildParams(), f.b.IdempotencyKey)

	assert.ErrorIs(t, err, ErrPaymentFailed)
	assert.True(t, f.uow.rolledBack)
}

func TestCreateBooking_IdempotencyRaceResolvesToWinner(t *testing.T) {
	f := newFixture(t, 10)
	f.uow.tx.bookings.createErr = infra.WrapRepoErr("duplicate key", nil, infra.KindDuplicateKey)

	winner := f.b.BuildView(string(booking.StatusConfirmed))
	f.uow.poolReads.viewByKey = winner

	result, err := f.uc.CreateBooking(context.Background(), f.b.BuildParams(), f.b.IdempotencyKey)
	require.NoError(t, err)

	assert.True(t, result.IsReplayed)
	assert.Equal(t, winner.ID, result.Booking.ID)
	assert.True(t, f.uow.rolledBack)
}

func TestCreateBooking_IdempotencyRaceForeignWinnerIsConflict(t *testing.T) {
	f := newFixture(t, 10)
	f.uow.tx.bookings.createErr = infra.WrapRepoErr("duplicate key", nil, infra.KindDuplicateKey)

	winner := f.b.BuildView(string(booking.StatusConfirmed))
	winner.RequesterID = uuid.New()
	f.uow.poolReads.viewByKey = winner

	_, err := f.uc.CreateBooking(context.Background(), f.b.BuildParams(), f.b.IdempotencyKey)

	assert.ErrorIs(t, err, ErrBookingConflict)
	assert.True(t, f.uow.rolledBack)
}

func TestCreateBooking_IdempotencyRaceWinnerUnreadable(t *testing.T) {
	f := newFixture(t, 10)
	f.uow.tx.bookings.createErr = infra.WrapRepoErr("duplicate key", nil, infra.KindDuplicateKey)
	f.uow.poolReads.byKeyErr = infra.WrapRepoErr("not found", nil, infra.KindNotFound)

	_, err := f.uc.CreateBooking(context.Background(), f.b.BuildParams(), f.b.IdempotencyKey)

	assert.ErrorIs(t, err, ErrBookingConflict)
}

func TestCreateBooking_TimeoutMapping(t *testing.T) {
	f := newFixture(t, 10)
	f.uow.withinErr = context.DeadlineExceeded

	_, err := f.uc.CreateBooking(context.Background(), f.b.BuildParams(), f.b.IdempotencyKey)

	assert.ErrorIs(t, err, ErrBookingTimeout)
}

func TestCreateBooking_ConflictMapping(t *testing.T) {
	f := newFixture(t, 10)
	f.uow.withinErr = infra.WrapRepoErr("decrement guard", nil, infra.KindConflict)

	_, err := f.uc.CreateBooking(context.Background(), f.b.BuildParams(), f.b.IdempotencyKey)

	assert.ErrorIs(t, err, ErrBookingConflict)
}

func TestCreateBooking_InvalidItems(t *testing.T) {
	f := newFixture(t, 10)

	t.Run("empty items", func(t *testing.T) {
		params := f.b.BuildParams()
		params.Items = nil

		_, err := f.uc.CreateBooking(context.Background(), params, f.b.IdempotencyKey)
		assert.ErrorIs(t, err, ErrDomainValidation)
	})

	t.Run("zero quantity", func(t *testing.T) {
		params := f.b.BuildParams()
		params.Items[0].Quantity = 0

		_, err := f.uc.CreateBooking(context.Background(), params, f.b.IdempotencyKey)
		assert.ErrorIs(t, err, ErrDomainValidation)
	})
}
