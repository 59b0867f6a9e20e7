package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Turn outcomes.
const (
	OutcomeReplied         = "replied"
	OutcomeMissingIdentity = "missing_identity"
	OutcomeWrongPassword   = "wrong_password"
	OutcomeError           = "error"
)

var (
	turnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_turns_total",
			Help: "Total number of processed onboarding turns by outcome",
		},
		[]string{"outcome"},
	)

	turnDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "intake_turn_duration_seconds",
			Help:    "Duration of onboarding turns in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 40, 60},
		},
	)

	departmentTransfersTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "intake_department_transfers_total",
			Help: "Total number of department transfers inside an interaction",
		},
	)

	gatewayCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_llm_calls_total",
			Help: "Total number of language model calls",
		},
		[]string{"operation", "status"},
	)

	gatewayCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "intake_llm_call_duration_seconds",
			Help:    "Duration of language model calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)
)

// RecordTurn records the outcome and duration of one HandleTurn call.
func RecordTurn(outcome string, elapsed time.Duration) {
	turnsTotal.WithLabelValues(outcome).Inc()
	turnDuration.Observe(elapsed.Seconds())
}

func RecordDepartmentTransfer() {
	departmentTransfersTotal.Inc()
}

// RecordGatewayCall records one call to the language model provider.
func RecordGatewayCall(operation string, elapsed time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	gatewayCallsTotal.WithLabelValues(operation, status).Inc()
	gatewayCallDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

func RecordHTTPRequest(method, route string, status int) {
	httpRequestsTotal.WithLabelValues(method, route, statusClass(status)).Inc()
}

func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
