package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce       sync.Once
	apiRequestsTotal   *prometheus.CounterVec
	apiLatencySeconds  *prometheus.HistogramVec
	apiErrorsTotal     *prometheus.CounterVec
	pointsEventsTotal  *prometheus.CounterVec
	ledgerWriteErrors  prometheus.Counter
	badgeChecksTotal   *prometheus.CounterVec
	badgesAwardedTotal prometheus.Counter
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		apiLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "api_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		apiErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "api_errors_total",
			Help: "Total number of error responses returned by API endpoints.",
		}, []string{"method", "route", "status"})

		pointsEventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "points_events_total",
			Help: "Total number of point deltas applied to the score ledger.",
		}, []string{"category"})

		ledgerWriteErrors = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ledger_write_errors_total",
			Help: "Total number of failed score ledger writes (best-effort accounting).",
		})

		badgeChecksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "badge_checks_total",
			Help: "Total number of badge eligibility checks by outcome.",
		}, []string{"result"})

		badgesAwardedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "badges_awarded_total",
			Help: "Total number of completion badges awarded.",
		})

		prometheus.MustRegister(
			apiRequestsTotal,
			apiLatencySeconds,
			apiErrorsTotal,
			pointsEventsTotal,
			ledgerWriteErrors,
			badgeChecksTotal,
			badgesAwardedTotal,
		)
	})
}

// APIRequests exposes the counter for API requests.
func APIRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return apiRequestsTotal
}

// APILatency exposes the latency histogram for API requests.
func APILatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return apiLatencySeconds
}

// APIErrors exposes the counter for API error responses.
func APIErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return apiErrorsTotal
}

// PointsEvents exposes the counter for applied ledger deltas.
func PointsEvents() *prometheus.CounterVec {
	RegisterMetrics()
	return pointsEventsTotal
}

// LedgerWriteErrors exposes the counter for swallowed ledger failures.
func LedgerWriteErrors() prometheus.Counter {
	RegisterMetrics()
	return ledgerWriteErrors
}

// BadgeChecks exposes the counter for badge eligibility checks.
func BadgeChecks() *prometheus.CounterVec {
	RegisterMetrics()
	return badgeChecksTotal
}

// BadgesAwarded exposes the counter for awarded badges.
func BadgesAwarded() prometheus.Counter {
	RegisterMetrics()
	return badgesAwardedTotal
}
