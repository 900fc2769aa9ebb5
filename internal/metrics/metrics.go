// Package metrics registers the site's Prometheus collectors.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Gift claim outcomes.
const (
	ClaimWon     = "won"
	ClaimLost    = "lost"
	ClaimSkipped = "skipped"
	ClaimError   = "error"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wedding_http_requests_total",
		Help: "HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "wedding_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	RSVPSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wedding_rsvp_submissions_total",
		Help: "Stored RSVPs by attendance.",
	}, []string{"attending"})

	GiftClaims = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wedding_gift_claims_total",
		Help: "Gift claim attempts by result.",
	}, []string{"result"})
)

func ObserveRSVP(attending bool) {
	RSVPSubmissions.WithLabelValues(strconv.FormatBool(attending)).Inc()
}

func ObserveGiftClaim(result string) {
	GiftClaims.WithLabelValues(result).Inc()
}
