package monitoring

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	dashboardRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_refresh_total",
			Help: "Dashboard refresh batches by outcome",
		},
		[]string{"trigger", "result"},
	)

	dashboardRefreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dashboard_refresh_duration_seconds",
			Help:    "Duration of a full dashboard fan-out",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		},
	)

	sourceFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_source_failures_total",
			Help: "Dashboard sources that degraded to an empty collection",
		},
		[]string{"source"},
	)

	operatorActions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_actions_total",
			Help: "Operator actions by outcome",
		},
		[]string{"action", "result"},
	)

	snapshotGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dashboard_snapshot_value",
			Help: "Latest published dashboard statistics",
		},
		[]string{"stat"},
	)

	apiRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backend_requests_total",
			Help: "Requests sent to the SangKumFund backend",
		},
		[]string{"method", "status"},
	)

	apiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "backend_request_duration_seconds",
			Help:    "Latency of backend requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	unauthenticated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "backend_unauthenticated_total",
			Help: "401 responses that invalidated the console token",
		},
	)
)

// Monitor records console metrics. A nil *Monitor is valid and records
// nothing, so components can be built without metrics in tests.
type Monitor struct{}

func NewMonitor() *Monitor {
	return &Monitor{}
}

func (m *Monitor) TrackRefresh(trigger, result string, took time.Duration) {
	if m == nil {
		return
	}
	dashboardRefreshes.WithLabelValues(trigger, result).Inc()
	if took > 0 {
		dashboardRefreshDuration.Observe(took.Seconds())
	}
}

func (m *Monitor) TrackSourceFailure(source string) {
	if m == nil {
		return
	}
	sourceFailures.WithLabelValues(source).Inc()
}

func (m *Monitor) TrackAction(action string, ok bool) {
	if m == nil {
		return
	}
	result := "success"
	if !ok {
		result = "failure"
	}
	operatorActions.WithLabelValues(action, result).Inc()
}

// SetSnapshotStat exposes one published statistic as a gauge.
func (m *Monitor) SetSnapshotStat(stat string, value float64) {
	if m == nil {
		return
	}
	snapshotGauge.WithLabelValues(stat).Set(value)
}

// TrackBackendRequest matches apiclient.Observer.
func (m *Monitor) TrackBackendRequest(method, _ string, status int, took time.Duration) {
	if m == nil {
		return
	}
	apiRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	apiRequestDuration.WithLabelValues(method).Observe(took.Seconds())
}

func (m *Monitor) TrackUnauthenticated() {
	if m == nil {
		return
	}
	unauthenticated.Inc()
}
