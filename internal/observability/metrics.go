package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "amcpctl"

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	commandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "amcp",
			Name:      "commands_total",
			Help:      "AMCP commands by verb and terminal status.",
		},
		[]string{"verb", "status"},
	)
	responseCodes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "amcp",
			Name:      "responses_total",
			Help:      "AMCP replies by status code.",
		},
		[]string{"code"},
	)
	commandDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "amcp",
			Name:      "command_duration_seconds",
			Help:      "AMCP command round trip in seconds.",
			Buckets:   []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"verb"},
	)
	connectAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "amcp",
			Name:      "connect_attempts_total",
			Help:      "AMCP connect attempts by outcome.",
		},
		[]string{"success"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			httpRequests, httpDuration,
			commandsTotal, responseCodes, commandDuration, connectAttempts,
		)
	})
}

func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(method, path, statusLabel).Observe(duration.Seconds())
}

// RecordCommand records one finished command. A zero code means no reply
// was read (timeouts, write failures, BYE).
func RecordCommand(verb, status string, code int, duration time.Duration) {
	RegisterMetrics()
	commandsTotal.WithLabelValues(verb, status).Inc()
	commandDuration.WithLabelValues(verb).Observe(duration.Seconds())
	if code > 0 {
		responseCodes.WithLabelValues(strconv.Itoa(code)).Inc()
	}
}

func RecordConnect(success bool) {
	RegisterMetrics()
	connectAttempts.WithLabelValues(strconv.FormatBool(success)).Inc()
}
