// internal/observability/metrics/metrics.go
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Common label names for consistent metrics
const (
	LabelMethod  = "method"
	LabelPath    = "path"
	LabelStatus  = "status"
	LabelOutcome = "outcome"
	LabelKind    = "kind"
	LabelCache   = "cache"
	LabelReason  = "reason"
)

var (
	// RequestsTotal counts all HTTP requests
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cookiegate_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	// RequestDuration tracks the duration of HTTP requests
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cookiegate_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	// AuthenticationTotal counts identification outcomes per request
	AuthenticationTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cookiegate_authentication_total",
			Help: "Total number of authentication outcomes",
		},
		[]string{LabelOutcome},
	)

	// MembershipFetchTotal counts remote membership lookups
	MembershipFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cookiegate_membership_fetch_total",
			Help: "Total number of remote membership lookups",
		},
		[]string{LabelKind, LabelOutcome},
	)

	// MembershipFetchDuration tracks the duration of remote membership lookups
	MembershipFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cookiegate_membership_fetch_duration_seconds",
			Help:    "Duration of remote membership lookups in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{LabelKind},
	)

	// CacheLookupTotal counts membership cache hits and misses
	CacheLookupTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cookiegate_cache_lookup_total",
			Help: "Total number of membership cache lookups",
		},
		[]string{LabelCache, LabelOutcome},
	)

	// RedirectsTotal counts responses replaced with login/denial redirects
	RedirectsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cookiegate_redirects_total",
			Help: "Total number of responses replaced with a redirect",
		},
		[]string{LabelReason},
	)
)

// Collector provides methods for recording metrics
type Collector struct{}

// NewCollector creates a new metrics collector
func NewCollector() *Collector {
	return &Collector{}
}

// RecordRequest records metrics for an HTTP request
func (c *Collector) RecordRequest(method, path string, status int, duration time.Duration) {
	RequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordAuthentication records an identification outcome
// (authenticated, anonymous, asserted, bad_signature, bad_cookie)
func (c *Collector) RecordAuthentication(outcome string) {
	AuthenticationTotal.WithLabelValues(outcome).Inc()
}

// RecordMembershipFetch records a remote membership lookup
func (c *Collector) RecordMembershipFetch(kind, outcome string, duration time.Duration) {
	MembershipFetchTotal.WithLabelValues(kind, outcome).Inc()
	MembershipFetchDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordCacheLookup records a membership cache hit or miss
func (c *Collector) RecordCacheLookup(cache string, hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	CacheLookupTotal.WithLabelValues(cache, outcome).Inc()
}

// RecordRedirect records a response replaced with a redirect
// (login, insufficient_privileges)
func (c *Collector) RecordRedirect(reason string) {
	RedirectsTotal.WithLabelValues(reason).Inc()
}

// Handler returns an HTTP handler for exposing metrics
func Handler() http.Handler {
	return promhttp.Handler()
}
