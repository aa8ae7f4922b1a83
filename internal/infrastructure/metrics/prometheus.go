package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collectors are registered once per process on the default registry, so building the
// Fiber app more than once (serverless cold starts, tests) does not re-register them.
var (
	RequestCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "handler_requests_total",
			Help: "Total number of HTTP requests handled by the handler layer.",
		},
		[]string{"method", "route", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "handler_request_duration_seconds",
			Help:    "Histogram of response latency for handler in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	ListingsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "listings_created_total",
		Help: "Listings accepted by create-listing.",
	})

	ActiveListings = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "listings_active",
		Help: "Active listings returned by the last listings request.",
	})

	CheckoutSessions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_sessions_total",
			Help: "Checkout sessions requested, by kind (feature, sponsor) and result.",
		},
		[]string{"kind", "result"},
	)

	WebhookEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_events_total",
			Help: "Stripe webhook deliveries by outcome.",
		},
		[]string{"outcome"},
	)
)

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
