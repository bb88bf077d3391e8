//go:build unit

package commands

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// normalizeItems
// ---------------------------------------------------------------------------

func TestNormalizeItems(t *testing.T) {
	t.Run("merges duplicate tiers", func(t *testing.T) {
		tierID := uuid.New()
		out, err := normalizeItems([]ItemParams{
			{TierID: tierID, Quantity: 2},
			{TierID: tierID, Quantity: 3},
		})
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, int32(5), out[0].Quantity)
	})

	t.Run("orders by tier id bytes", func(t *testing.T) {
		a := uuid.MustParse("00000000-0000-0000-0000-000000000001")
		b := uuid.MustParse("00000000-0000-0000-0000-000000000002")
		c := uuid.MustParse("ffffffff-0000-0000-0000-000000000000")

		out, err := normalizeItems([]ItemParams{
			{TierID: c, Quantity: 1},
			{TierID: b, Quantity: 1},
			{TierID: a, Quantity: 1},
		})
		require.NoError(t, err)
		require.Len(t, out, 3)
		assert.Equal(t, []uuid.UUID{a, b, c}, []uuid.UUID{out[0].TierID, out[1].TierID, out[2].TierID})
	})

	t.Run("rejects non-positive quantity even when merged total positive", func(t *testing.T) {
		tierID := uuid.New()
		_, err := normalizeItems([]ItemParams{
			{TierID: tierID, Quantity: 5},
			{TierID: tierID, Quantity: -1},
		})
		assert.ErrorIs(t, err, ErrDomainValidation)
	})
}
