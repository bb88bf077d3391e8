package commands

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"slices"

	"concert-ticket-api/internal/domain/booking"
	"concert-ticket-api/internal/domain/inventory"
	"concert-ticket-api/internal/infra"
	"concert-ticket-api/internal/pkg/clock"
	"concert-ticket-api/internal/pkg/errs"
	"concert-ticket-api/internal/pkg/metrics"
	"concert-ticket-api/internal/usecase/queries"
	"concert-ticket-api/internal/usecase/shared"

	"github.com/google/uuid"
)

type ItemParams struct {
	TierID   uuid.UUID
	Quantity int32
}

type CreateBookingParams struct {
	ConcertID         uuid.UUID
	RequesterID       uuid.UUID
	Items             []ItemParams
	ClaimedTotalCents int64
}

type CreateBookingResult struct {
	Booking    *queries.BookingView
	IsReplayed bool
}

type BookingCommands interface {
	CreateBooking(ctx context.Context, params CreateBookingParams, idempotencyKey uuid.UUID) (*CreateBookingResult, error)
}

type bookingUseCaseImpl struct {
	uow     shared.UnitOfWork
	gateway shared.PaymentGateway
	clock   clock.Clock
}

func NewBookingUseCase(uow shared.UnitOfWork, gateway shared.PaymentGateway, clk clock.Clock) BookingCommands {
	return &bookingUseCaseImpl{
		uow:     uow,
		gateway: gateway,
		clock:   clk,
	}
}

// CreateBooking drives one booking attempt through a single unit of
// work: idempotency resolve, existence check, batched tier locking,
// amount validation, decrement, persist as pending, payment authorize,
// confirm. Any error aborts the transaction and every provisional write
// with it.
func (u *bookingUseCaseImpl) CreateBooking(
	ctx context.Context,
	params CreateBookingParams,
	idempotencyKey uuid.UUID,
) (*CreateBookingResult, error) {
	items, err := normalizeItems(params.Items)
	if err != nil {
		metrics.BookingsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		return nil, err
	}

	var result *CreateBookingResult
	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		replayed, err := u.resolveIdempotency(ctx, tx, params.RequesterID, idempotencyKey)
		if err != nil {
			return err
		}
		if replayed != nil {
			result = replayed
			return nil
		}

		created, err := u.createNewBooking(ctx, tx, params, items, idempotencyKey)
		if err != nil {
			return err
		}
		result = created
		return nil
	})
	if err != nil {
		return u.mapFailure(ctx, err, params.RequesterID, idempotencyKey)
	}

	if result.IsReplayed {
		metrics.BookingsTotal.WithLabelValues(metrics.OutcomeReplayed).Inc()
	} else {
		metrics.BookingsTotal.WithLabelValues(metrics.OutcomeConfirmed).Inc()
		for _, it := range items {
			metrics.TicketsSold.Add(float64(it.Quantity))
		}
	}
	return result, nil
}

// resolveIdempotency looks the key up inside the same transaction that
// would perform the write. A hit short-circuits the attempt: no locks,
// no payment call. A key held by a different requester is a conflict,
// never a replay, matching the owner scoping on the query side.
func (u *bookingUseCaseImpl) resolveIdempotency(
	ctx context.Context,
	tx shared.Tx,
	requesterID uuid.UUID,
	idempotencyKey uuid.UUID,
) (*CreateBookingResult, error) {
	existingID, err := tx.Bookings().FindIDByIdempotencyKey(ctx, idempotencyKey)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if existingID == nil {
		return nil, nil
	}

	view, err := tx.Reads().BookingViewByID(ctx, *existingID)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if view.RequesterID != requesterID {
		return nil, errs.Mark(errForeignIdempotencyKey, ErrBookingConflict)
	}
	return &CreateBookingResult{Booking: view, IsReplayed: true}, nil
}

func (u *bookingUseCaseImpl) createNewBooking(
	ctx context.Context,
	tx shared.Tx,
	params CreateBookingParams,
	items []ItemParams,
	idempotencyKey uuid.UUID,
) (*CreateBookingResult, error) {
	// Cheap existence check before taking row locks.
	concert, err := tx.Reads().ConcertByID(ctx, params.ConcertID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrConcertNotFound)
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if !concert.StartsAt.IsZero() && !u.clock.Now().Before(concert.StartsAt) {
		return nil, errs.Mark(ErrConcertStarted, ErrDomainValidation)
	}

	locked, err := u.lockAndValidateTiers(ctx, tx, params.ConcertID, items)
	if err != nil {
		return nil, err
	}

	// Price from the locked rows, after the lock: a pre-lock read could
	// be stale by the time the lock is granted.
	computed := computeTotal(locked, items)
	if err := validateClaimedAmount(computed, params.ClaimedTotalCents); err != nil {
		return nil, err
	}

	for _, it := range items {
		if err := tx.Inventory().Decrement(ctx, it.TierID, it.Quantity); err != nil {
			return nil, errs.Mark(err, ErrDatabaseOperationFailed)
		}
	}

	entity, err := buildBooking(params, items, locked, idempotencyKey)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	if err := tx.Bookings().Create(ctx, entity); err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			// A concurrent first submission with the same key committed
			// before us. Abort so our decrement is undone, then resolve
			// to the winner outside this transaction.
			return nil, errIdempotencyRace
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	if err := u.authorizePayment(ctx, tx, entity); err != nil {
		return nil, err
	}

	if err := entity.TransitionTo(booking.StatusConfirmed); err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}
	if err := tx.Bookings().UpdateStatus(ctx, entity.ID(), booking.StatusConfirmed); err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	// Read back from within the transaction; a separate read might not
	// see the uncommitted rows.
	view, err := tx.Reads().BookingViewByID(ctx, entity.ID())
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return &CreateBookingResult{Booking: view, IsReplayed: false}, nil
}

// lockAndValidateTiers acquires the batched exclusive hold and checks
// existence and availability against the post-lock authoritative rows.
func (u *bookingUseCaseImpl) lockAndValidateTiers(
	ctx context.Context,
	tx shared.Tx,
	concertID uuid.UUID,
	items []ItemParams,
) (map[uuid.UUID]shared.TierSnapshot, error) {
	ids := make([]uuid.UUID, len(items))
	for i, it := range items {
		ids[i] = it.TierID
	}

	snapshots, err := tx.Inventory().LockTiers(ctx, concertID, ids)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	locked := make(map[uuid.UUID]shared.TierSnapshot, len(snapshots))
	for _, s := range snapshots {
		locked[s.ID] = s
	}

	var missing []uuid.UUID
	for _, id := range ids {
		if _, ok := locked[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, errs.Mark(&TiersMissing{TierIDs: missing}, ErrTierNotFound)
	}

	for _, it := range items {
		s := locked[it.TierID]
		tier, err := inventory.NewTier(s.ID, s.ConcertID, s.Name, booking.MustMoney(s.UnitPriceCents), s.TotalQty, s.AvailableQty, s.Revision)
		if err != nil {
			return nil, errs.Mark(err, ErrDatabaseOperationFailed)
		}
		switch err := tier.CheckAvailability(it.Quantity); {
		case errors.Is(err, inventory.ErrSoldOut):
			return nil, errs.Mark(&InventoryShortage{
				TierID:    s.ID,
				TierName:  s.Name,
				Requested: it.Quantity,
				Available: s.AvailableQty,
				SoldOut:   true,
			}, ErrSoldOut)
		case errors.Is(err, inventory.ErrInsufficient):
			return nil, errs.Mark(&InventoryShortage{
				TierID:    s.ID,
				TierName:  s.Name,
				Requested: it.Quantity,
				Available: s.AvailableQty,
			}, ErrInsufficientInventory)
		case err != nil:
			return nil, errs.Mark(err, ErrDomainValidation)
		}
	}
	return locked, nil
}

func (u *bookingUseCaseImpl) authorizePayment(ctx context.Context, tx shared.Tx, entity *booking.Booking) error {
	approved, err := u.gateway.Authorize(ctx, entity.Total())
	if err != nil {
		metrics.PaymentAuthorizations.WithLabelValues("error").Inc()
		return errs.Mark(err, ErrPaymentFailed)
	}
	if !approved {
		metrics.PaymentAuthorizations.WithLabelValues("declined").Inc()
		// The failed status write is erased by the rollback along with
		// the decrement and the booking rows; a declined attempt leaves
		// no trace.
		if err := entity.TransitionTo(booking.StatusFailed); err == nil {
			if updErr := tx.Bookings().UpdateStatus(ctx, entity.ID(), booking.StatusFailed); updErr != nil {
				slog.Warn("failed-status write before rollback", "error", updErr.Error())
			}
		}
		return ErrPaymentFailed
	}
	metrics.PaymentAuthorizations.WithLabelValues("approved").Inc()
	return nil
}

// mapFailure translates transaction failures into the caller-facing
// taxonomy and counts them.
func (u *bookingUseCaseImpl) mapFailure(ctx context.Context, err error, requesterID, idempotencyKey uuid.UUID) (*CreateBookingResult, error) {
	if errors.Is(err, errIdempotencyRace) {
		view, readErr := u.uow.Reads().BookingViewByIdempotencyKey(ctx, idempotencyKey)
		if readErr == nil {
			if view.RequesterID != requesterID {
				metrics.BookingsTotal.WithLabelValues(metrics.OutcomeError).Inc()
				return nil, errs.Mark(errForeignIdempotencyKey, ErrBookingConflict)
			}
			metrics.BookingsTotal.WithLabelValues(metrics.OutcomeReplayed).Inc()
			return &CreateBookingResult{Booking: view, IsReplayed: true}, nil
		}
		metrics.BookingsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, errs.Mark(readErr, ErrBookingConflict)
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded) || infra.IsKind(err, infra.KindTimeout):
		metrics.BookingsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, errs.Mark(err, ErrBookingTimeout)
	case infra.IsKind(err, infra.KindConflict):
		metrics.BookingsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, errs.Mark(err, ErrBookingConflict)
	case errors.Is(err, ErrPaymentFailed):
		metrics.BookingsTotal.WithLabelValues(metrics.OutcomePaymentError).Inc()
		return nil, err
	case errors.Is(err, ErrConcertNotFound),
		errors.Is(err, ErrTierNotFound),
		errors.Is(err, ErrSoldOut),
		errors.Is(err, ErrInsufficientInventory),
		errors.Is(err, ErrAmountMismatch),
		errors.Is(err, ErrDomainValidation):
		metrics.BookingsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		return nil, err
	default:
		metrics.BookingsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, err
	}
}

// normalizeItems merges duplicate tier lines and orders them by tier id.
// The fixed total order makes multi-tier lock acquisition deadlock-free
// when concurrent bookings overlap.
func normalizeItems(items []ItemParams) ([]ItemParams, error) {
	if len(items) == 0 {
		return nil, errs.Mark(booking.ErrNoItems, ErrDomainValidation)
	}

	merged := make(map[uuid.UUID]int32, len(items))
	for _, it := range items {
		if it.Quantity <= 0 {
			return nil, errs.Mark(booking.ErrInvalidQuantity, ErrDomainValidation)
		}
		merged[it.TierID] += it.Quantity
	}

	out := make([]ItemParams, 0, len(merged))
	for id, qty := range merged {
		out = append(out, ItemParams{TierID: id, Quantity: qty})
	}
	slices.SortFunc(out, func(a, b ItemParams) int {
		return bytes.Compare(a.TierID[:], b.TierID[:])
	})
	return out, nil
}

func buildBooking(
	params CreateBookingParams,
	items []ItemParams,
	locked map[uuid.UUID]shared.TierSnapshot,
	idempotencyKey uuid.UUID,
) (*booking.Booking, error) {
	lines := make([]booking.Item, 0, len(items))
	for _, it := range items {
		// Unit price copied at this instant from the locked row.
		line, err := booking.NewItem(it.TierID, it.Quantity, booking.MustMoney(locked[it.TierID].UnitPriceCents))
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return booking.NewBooking(params.ConcertID, params.RequesterID, idempotencyKey, lines)
}
