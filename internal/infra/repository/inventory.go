package repository

import (
	"bytes"
	"context"
	"slices"

	"concert-ticket-api/internal/infra"
	"concert-ticket-api/internal/infra/db"
	"concert-ticket-api/internal/usecase/shared"

	"github.com/google/uuid"
)

type InventoryRepository struct {
	db db.DBTX
}

func NewInventoryRepository(dbtx db.DBTX) *InventoryRepository {
	return &InventoryRepository{db: dbtx}
}

const lockTiersSQL = `
SELECT id, concert_id, name, unit_price_cents, total_qty, available_qty, revision
FROM tiers
WHERE concert_id = $1 AND id = ANY($2)
ORDER BY id
FOR UPDATE`

// LockTiers takes the exclusive holds in one batched statement. Ids are
// sorted into ascending order first; two bookings overlapping on tiers
// then always contend in the same order and cannot deadlock. The rows
// returned are read after the lock is granted, so their counters are
// authoritative.
func (r *InventoryRepository) LockTiers(ctx context.Context, concertID uuid.UUID, tierIDs []uuid.UUID) ([]shared.TierSnapshot, error) {
	ids := make([]uuid.UUID, len(tierIDs))
	copy(ids, tierIDs)
	slices.SortFunc(ids, func(a, b uuid.UUID) int {
		return bytes.Compare(a[:], b[:])
	})

	rows, err := r.db.Query(ctx, lockTiersSQL, concertID, ids)
	if err != nil {
		if db.IsTimeout(err) {
			return nil, infra.WrapRepoErr("timed out waiting for tier locks", err, infra.KindTimeout)
		}
		return nil, infra.WrapRepoErr("failed to lock tiers", err)
	}
	defer rows.Close()

	snapshots := make([]shared.TierSnapshot, 0, len(ids))
	for rows.Next() {
		var s shared.TierSnapshot
		if err := rows.Scan(&s.ID, &s.ConcertID, &s.Name, &s.UnitPriceCents, &s.TotalQty, &s.AvailableQty, &s.Revision); err != nil {
			return nil, infra.WrapRepoErr("failed to scan locked tier", err)
		}
		snapshots = append(snapshots, s)
	}
	if err := rows.Err(); err != nil {
		if db.IsTimeout(err) {
			return nil, infra.WrapRepoErr("timed out waiting for tier locks", err, infra.KindTimeout)
		}
		return nil, infra.WrapRepoErr("failed to read locked tiers", err)
	}
	return snapshots, nil
}

const decrementTierSQL = `
UPDATE tiers
SET available_qty = available_qty - $2, revision = revision + 1
WHERE id = $1 AND available_qty >= $2`

// Decrement runs under the lock already held by this transaction. The
// available_qty guard and the table CHECK constraint both keep the
// counter from going negative even if a caller skips validation.
func (r *InventoryRepository) Decrement(ctx context.Context, tierID uuid.UUID, quantity int32) error {
	tag, err := r.db.Exec(ctx, decrementTierSQL, tierID, quantity)
	if err != nil {
		if db.IsCheckViolation(err) {
			return infra.WrapRepoErr("tier capacity constraint violated", err, infra.KindConflict)
		}
		return infra.WrapRepoErr("failed to decrement tier", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("tier availability changed under decrement", nil, infra.KindConflict)
	}
	return nil
}
