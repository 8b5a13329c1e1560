package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Enrollment outcomes used as the "outcome" label.
const (
	OutcomeJoined          = "joined"
	OutcomeLeft            = "left"
	OutcomeFull            = "full"
	OutcomeAlreadyEnrolled = "already_enrolled"
	OutcomeNotEnrolled     = "not_enrolled"
	OutcomeClassNotFound   = "class_not_found"
	OutcomeUserNotFound    = "user_not_found"
	OutcomeError           = "error"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymbook_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gymbook_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	EnrollmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymbook_enrollments_total",
			Help: "Join attempts by outcome",
		},
		[]string{"outcome"},
	)

	LeavesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymbook_leaves_total",
			Help: "Leave attempts by outcome",
		},
		[]string{"outcome"},
	)

	CounterRepairsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gymbook_class_counter_repairs_total",
			Help: "Classes whose stored attendee count was corrected by the reconciler",
		},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymbook_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gymbook_email_queue_length",
			Help: "Current length of email queue",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordEnrollment(outcome string) {
	EnrollmentsTotal.WithLabelValues(outcome).Inc()
}

func RecordLeave(outcome string) {
	LeavesTotal.WithLabelValues(outcome).Inc()
}

func RecordCounterRepairs(n int64) {
	if n > 0 {
		CounterRepairsTotal.Add(float64(n))
	}
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}
