package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	VisitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "linkbio_visits_total",
			Help: "Page visits classified by the session tracker",
		},
		[]string{"kind"}, // "new", "returning"
	)

	TrackedVisitors = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "linkbio_tracked_visitors",
			Help: "Visitor sessions currently held in memory",
		},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "linkbio_notifications_total",
			Help: "Notification send attempts by outcome",
		},
		[]string{"outcome"},
	)

	NotificationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "linkbio_notification_duration_seconds",
			Help:    "Time spent delivering one notification",
			Buckets: prometheus.DefBuckets,
		},
	)

	GeoLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "linkbio_geo_lookups_total",
			Help: "Geolocation lookups by result",
		},
		[]string{"result"}, // "ok", "local", "error", "breaker_open"
	)

	GeoBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "linkbio_geo_breaker_state",
			Help: "Geolocation circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)

	ProbeFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "linkbio_probe_failures_total",
			Help: "Connectivity probe failures",
		},
		[]string{"probe"}, // "dns", "provider"
	)

	QueueMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "linkbio_queue_messages_total",
			Help: "Relay queue messages by action",
		},
		[]string{"action"}, // "published", "delivered", "requeued", "dropped"
	)

	RateLimitedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "linkbio_rate_limited_total",
			Help: "Requests rejected by the per-IP rate limiter",
		},
		[]string{"path"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "linkbio_http_requests_total",
			Help: "HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "linkbio_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func RecordNotification(outcome string, duration time.Duration) {
	NotificationsTotal.WithLabelValues(outcome).Inc()
	NotificationDuration.Observe(duration.Seconds())
}

func RecordVisit(isNew bool) {
	if isNew {
		VisitsTotal.WithLabelValues("new").Inc()
		return
	}
	VisitsTotal.WithLabelValues("returning").Inc()
}
