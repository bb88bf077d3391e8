//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// TierSpec describes one tier to seed alongside a concert.
type TierSpec struct {
	Name           string
	UnitPriceCents int64
	TotalQty       int32
	AvailableQty   int32
}

func CreateTestConcert(t *testing.T, db Conn, name string) uuid.UUID {
	return CreateTestConcertAt(t, db, name, time.Now().Add(30*24*time.Hour))
}

func CreateTestConcertAt(t *testing.T, db Conn, name string, startsAt time.Time) uuid.UUID {
	t.Helper()

	concertID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx,
		"INSERT INTO concerts (id, name, venue, starts_at) VALUES ($1, $2, $3, $4)",
		concertID, name, "Riverside Arena", startsAt)
	require.NoError(t, err)

	return concertID
}

func CreateTestTier(t *testing.T, db Conn, concertID uuid.UUID, spec TierSpec) uuid.UUID {
	t.Helper()

	tierID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx,
		"INSERT INTO tiers (id, concert_id, name, unit_price_cents, total_qty, available_qty) VALUES ($1, $2, $3, $4, $5, $6)",
		tierID, concertID, spec.Name, spec.UnitPriceCents, spec.TotalQty, spec.AvailableQty)
	require.NoError(t, err)

	return tierID
}

func TierAvailability(t *testing.T, db Conn, tierID uuid.UUID) int32 {
	t.Helper()

	var available int32
	err := db.QueryRow(context.Background(),
		"SELECT available_qty FROM tiers WHERE id = $1", tierID).Scan(&available)
	require.NoError(t, err)
	return available
}

func CountBookings(t *testing.T, db Conn, idempotencyKey uuid.UUID) int {
	t.Helper()

	var n int
	err := db.QueryRow(context.Background(),
		"SELECT count(*) FROM bookings WHERE idempotency_key = $1", idempotencyKey).Scan(&n)
	require.NoError(t, err)
	return n
}

// truncates all tables except the migration ledger
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rows, err := pool.Query(ctx, `
	  SELECT 'public.' || quote_ident(tablename)
	  FROM pg_tables
	  WHERE schemaname = 'public'
	    AND tablename NOT IN ('schema_migrations')`)
	if err != nil {
		return err
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var tbl string
		if err := rows.Scan(&tbl); err != nil {
			return err
		}
		tables = append(tables, tbl)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if len(tables) == 0 {
		return fmt.Errorf("no tables to truncate")
	}

	_, err = pool.Exec(ctx, "TRUNCATE "+strings.Join(tables, ", ")+" RESTART IDENTITY CASCADE;")
	return err
}
