package monitoring

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RequestSize     *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Session metrics
	SessionsActive   prometheus.Gauge
	SessionsTotal    prometheus.Counter
	SessionsRejected prometheus.Counter

	// Shell metrics
	Keystrokes *prometheus.CounterVec
	Commands   *prometheus.CounterVec
	Games      *prometheus.CounterVec

	// Content and storage metrics
	ContentReloads *prometheus.CounterVec
	StorageErrors  *prometheus.CounterVec

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec

	// System metrics
	Uptime    prometheus.GaugeFunc
	startTime time.Time

	// Snapshot for JSON API - track current values
	snapshot MetricsSnapshot

	mu sync.RWMutex
}

// MetricsSnapshot holds current metric values for JSON API
type MetricsSnapshot struct {
	TotalRequests    int64   `json:"total_requests"`
	TotalErrors      int64   `json:"total_errors"`
	ActiveSessions   int64   `json:"active_sessions"`
	TotalCommands    int64   `json:"total_commands"`
	TotalDuration    float64 `json:"-"` // sum of all request durations
	RequestCount     int64   `json:"-"`
	AvgRequestMillis float64 `json:"avg_request_ms"`
	UptimeSeconds    float64 `json:"uptime_seconds"`
}

// NewMetrics creates a metrics collector registered with reg. A nil reg
// uses the default Prometheus registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	m := &Metrics{
		startTime: time.Now(),

		// HTTP metrics
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "termfolio_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "termfolio_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		RequestSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "termfolio_http_request_size_bytes",
				Help:    "HTTP request size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "path"},
		),
		ResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "termfolio_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "path"},
		),

		// Session metrics
		SessionsActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "termfolio_sessions_active",
				Help: "Number of live shell sessions",
			},
		),
		SessionsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "termfolio_sessions_total",
				Help: "Total number of shell sessions started",
			},
		),
		SessionsRejected: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "termfolio_sessions_rejected_total",
				Help: "Sessions refused because the limit was reached",
			},
		),

		// Shell metrics
		Keystrokes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "termfolio_keystrokes_total",
				Help: "Keystrokes handled, by input mode",
			},
			[]string{"mode"},
		),
		Commands: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "termfolio_commands_total",
				Help: "Commands executed, by name and outcome",
			},
			[]string{"command", "outcome"},
		),
		Games: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "termfolio_games_total",
				Help: "Arcade games, by lifecycle event",
			},
			[]string{"event"},
		),

		// Content and storage metrics
		ContentReloads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "termfolio_content_reloads_total",
				Help: "Content reloads, by result",
			},
			[]string{"result"},
		),
		StorageErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "termfolio_storage_errors_total",
				Help: "Durable storage failures, by operation",
			},
			[]string{"op"},
		),

		// WebSocket metrics
		WSConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "termfolio_ws_connections",
				Help: "Number of active WebSocket connections",
			},
		),
		WSMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "termfolio_ws_messages_total",
				Help: "Total number of WebSocket messages",
			},
			[]string{"direction", "type"},
		),
	}

	m.Uptime = factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "termfolio_uptime_seconds",
			Help: "Backend uptime in seconds",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	return m
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, reqSize, respSize int64) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.RequestSize.WithLabelValues(method, path).Observe(float64(reqSize))
	m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))

	// Update snapshot
	m.mu.Lock()
	m.snapshot.TotalRequests++
	m.snapshot.TotalDuration += duration.Seconds()
	m.snapshot.RequestCount++
	if status[0] == '4' || status[0] == '5' {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// RecordKeystroke records one key handled in mode
func (m *Metrics) RecordKeystroke(mode string) {
	m.Keystrokes.WithLabelValues(mode).Inc()
}

// RecordCommand records an executed command
func (m *Metrics) RecordCommand(command, outcome string) {
	m.Commands.WithLabelValues(command, outcome).Inc()
	m.mu.Lock()
	m.snapshot.TotalCommands++
	m.mu.Unlock()
}

// RecordGame records a game lifecycle event
func (m *Metrics) RecordGame(event string) {
	m.Games.WithLabelValues(event).Inc()
}

// RecordContentReload records a content reload attempt
func (m *Metrics) RecordContentReload(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.ContentReloads.WithLabelValues(result).Inc()
}

// RecordStorageError records a failed storage operation
func (m *Metrics) RecordStorageError(op string) {
	m.StorageErrors.WithLabelValues(op).Inc()
}

// RecordWSMessage records a WebSocket message
func (m *Metrics) RecordWSMessage(direction, msgType string) {
	m.WSMessages.WithLabelValues(direction, msgType).Inc()
}

// SessionStarted counts a new live session
func (m *Metrics) SessionStarted() {
	m.SessionsTotal.Inc()
	m.SessionsActive.Inc()
	m.mu.Lock()
	m.snapshot.ActiveSessions++
	m.mu.Unlock()
}

// SessionEnded removes a live session
func (m *Metrics) SessionEnded() {
	m.SessionsActive.Dec()
	m.mu.Lock()
	m.snapshot.ActiveSessions--
	m.mu.Unlock()
}

// SessionRejected counts a session refused at the limit
func (m *Metrics) SessionRejected() {
	m.SessionsRejected.Inc()
}

// IncWSConnections increments WebSocket connections
func (m *Metrics) IncWSConnections() {
	m.WSConnections.Inc()
}

// DecWSConnections decrements WebSocket connections
func (m *Metrics) DecWSConnections() {
	m.WSConnections.Dec()
}
