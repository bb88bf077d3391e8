//go:build unit

package payment_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"concert-ticket-api/internal/domain/booking"
	"concert-ticket-api/internal/infra/payment"
	"concert-ticket-api/internal/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGateway(t *testing.T) {
	t.Run("approve stub", func(t *testing.T) {
		g := payment.NewGateway(config.PaymentConfig{Mode: "approve"})
		approved, err := g.Authorize(context.Background(), booking.MustMoney(100))
		require.NoError(t, err)
		assert.True(t, approved)
	})

	t.Run("decline stub", func(t *testing.T) {
		g := payment.NewGateway(config.PaymentConfig{Mode: "decline"})
		approved, err := g.Authorize(context.Background(), booking.MustMoney(100))
		require.NoError(t, err)
		assert.False(t, approved)
	})

	t.Run("threshold stub", func(t *testing.T) {
		g := payment.NewGateway(config.PaymentConfig{Mode: "threshold", DeclineAboveCents: 5000})

		approved, err := g.Authorize(context.Background(), booking.MustMoney(5000))
		require.NoError(t, err)
		assert.True(t, approved)

		approved, err = g.Authorize(context.Background(), booking.MustMoney(5001))
		require.NoError(t, err)
		assert.False(t, approved)
	})
}

func TestHTTPGateway(t *testing.T) {
	newServer := func(t *testing.T, status int, approved bool, gotAmount *int64) *httptest.Server {
		t.Helper()
		return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				AmountCents int64 `json:"amount_cents"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			if gotAmount != nil {
				*gotAmount = req.AmountCents
			}
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(map[string]bool{"approved": approved})
		}))
	}

	t.Run("approved", func(t *testing.T) {
		var gotAmount int64
		srv := newServer(t, http.StatusOK, true, &gotAmount)
		defer srv.Close()

		g := payment.NewHTTPGateway(config.PaymentConfig{GatewayURL: srv.URL, Timeout: time.Second})
		approved, err := g.Authorize(context.Background(), booking.MustMoney(13500))

		require.NoError(t, err)
		assert.True(t, approved)
		assert.Equal(t, int64(13500), gotAmount)
	})

	t.Run("declined", func(t *testing.T) {
		srv := newServer(t, http.StatusOK, false, nil)
		defer srv.Close()

		g := payment.NewHTTPGateway(config.PaymentConfig{GatewayURL: srv.URL, Timeout: time.Second})
		approved, err := g.Authorize(context.Background(), booking.MustMoney(100))

		require.NoError(t, err)
		assert.False(t, approved)
	})

	t.Run("non-200 is an error, not a decline", func(t *testing.T) {
		srv := newServer(t, http.StatusBadGateway, false, nil)
		defer srv.Close()

		g := payment.NewHTTPGateway(config.PaymentConfig{GatewayURL: srv.URL, Timeout: time.Second})
		_, err := g.Authorize(context.Background(), booking.MustMoney(100))

		assert.Error(t, err)
	})

	t.Run("unreachable gateway", func(t *testing.T) {
		g := payment.NewHTTPGateway(config.PaymentConfig{GatewayURL: "http://127.0.0.1:1", Timeout: 200 * time.Millisecond})
		_, err := g.Authorize(context.Background(), booking.MustMoney(100))

		assert.Error(t, err)
	})
}
