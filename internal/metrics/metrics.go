// Package metrics exposes prometheus instrumentation for the booking and
// verification pipelines.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// BookingsCreated counts pending bookings created by the reserve step.
	BookingsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookings_created_total",
		Help: "Pending bookings created",
	})

	// BookingsConfirmed counts successful payment confirmations.
	BookingsConfirmed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookings_confirmed_total",
		Help: "Bookings confirmed and paid",
	})

	// TicketsIssued counts tickets created at confirmation time.
	TicketsIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tickets_issued_total",
		Help: "Tickets issued",
	})

	// Verifications counts verification attempts by outcome:
	// verified, already_verified, not_found, bad_credentials, error.
	Verifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ticket_verifications_total",
		Help: "Ticket verification attempts by result",
	}, []string{"result"})

	// ConfirmDuration observes the latency of the confirmation transaction.
	ConfirmDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "booking_confirm_duration_seconds",
		Help:    "Duration of the payment confirmation transaction",
		Buckets: prometheus.DefBuckets,
	})
)

// Handler returns the /metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
