package models

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SignupSubmissions counts submissions by result kind.
// Use RegisterMetrics to register this with a Prometheus registry.
var SignupSubmissions = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "signupform_submissions_total",
		Help: "Total number of signup submissions by result",
	},
	[]string{"result"},
)

// SignupDuration observes the round trip of requests that reached the network.
var SignupDuration = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "signupform_submission_duration_seconds",
		Help:    "Signup request duration in seconds",
		Buckets: prometheus.DefBuckets,
	},
)

// SignupInFlight tracks requests currently waiting on the signup endpoint.
var SignupInFlight = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "signupform_submissions_in_flight",
		Help: "Number of signup requests currently in flight",
	},
)

// RegisterMetrics registers the signup metrics with the given registry.
// Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(SignupSubmissions)
	reg.MustRegister(SignupDuration)
	reg.MustRegister(SignupInFlight)
}

// RecordSubmission increments the counter for the given result kind.
func RecordSubmission(kind ResultKind) {
	SignupSubmissions.WithLabelValues(kind.String()).Inc()
}

// RecordSubmissionDuration records how long a signup request took.
func RecordSubmissionDuration(d time.Duration) {
	SignupDuration.Observe(d.Seconds())
}
