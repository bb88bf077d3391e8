package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Booking outcomes as recorded by the transaction coordinator.
const (
	OutcomeConfirmed    = "confirmed"
	OutcomeReplayed     = "replayed"
	OutcomeRejected     = "rejected"
	OutcomePaymentError = "payment_failed"
	OutcomeError        = "error"
)

var (
	BookingsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookings_total",
		Help: "Booking attempts by outcome.",
	}, []string{"outcome"})

	PaymentAuthorizations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_authorizations_total",
		Help: "Payment gateway authorization results.",
	}, []string{"result"})

	TicketsSold = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tickets_sold_total",
		Help: "Tickets decremented from inventory by confirmed bookings.",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency by route and status.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)
