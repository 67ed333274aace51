package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics prometheus collectors of the service.
// All methods are safe on a nil receiver so components can run with metrics disabled.
type Metrics struct {
	registry    *prometheus.Registry
	serviceName string

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	dbQueryDuration *prometheus.HistogramVec
	dbQueryErrors   *prometheus.CounterVec
	dbOpenConns     *prometheus.GaugeVec
	dbInUseConns    *prometheus.GaugeVec
	dbIdleConns     *prometheus.GaugeVec
	dbTxRetries     *prometheus.CounterVec

	bookingTransitions *prometheus.CounterVec
	jobOutcomes        *prometheus.CounterVec
	jobDuration        *prometheus.HistogramVec
}

// New creates the collectors in a dedicated registry
func New(serviceName string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry:    reg,
		serviceName: serviceName,

		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"service", "method", "path", "status"}),

		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "method", "path"}),

		dbQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query latency",
			Buckets: []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"service", "operation"}),

		dbQueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "db_query_errors_total",
			Help: "Total number of failed database queries",
		}, []string{"service", "operation"}),

		dbOpenConns: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_open_connections",
			Help: "Open connections in the pool",
		}, []string{"service"}),

		dbInUseConns: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_in_use_connections",
			Help: "Connections currently in use",
		}, []string{"service"}),

		dbIdleConns: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_idle_connections",
			Help: "Idle connections in the pool",
		}, []string{"service"}),

		dbTxRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "db_tx_retries_total",
			Help: "Transactions retried after a serialization failure",
		}, []string{"service"}),

		bookingTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "booking_transitions_total",
			Help: "Booking status transitions",
		}, []string{"service", "to"}),

		jobOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "booking_job_outcomes_total",
			Help: "Per-booking outcomes of the batch jobs",
		}, []string{"service", "job", "outcome"}),

		jobDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "booking_job_duration_seconds",
			Help:    "Batch job run time",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "job"}),
	}

	reg.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.dbQueryDuration,
		m.dbQueryErrors,
		m.dbOpenConns,
		m.dbInUseConns,
		m.dbIdleConns,
		m.dbTxRetries,
		m.bookingTransitions,
		m.jobOutcomes,
		m.jobDuration,
	)

	return m
}

// Handler exposes the registry for scraping
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry (tests gather from it)
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(m.serviceName, method, path, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(m.serviceName, method, path).Observe(duration.Seconds())
}

func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(m.serviceName, operation).Observe(duration.Seconds())
	if err != nil {
		m.dbQueryErrors.WithLabelValues(m.serviceName, operation).Inc()
	}
}

func (m *Metrics) SetDBPoolStats(open, inUse, idle int) {
	if m == nil {
		return
	}
	m.dbOpenConns.WithLabelValues(m.serviceName).Set(float64(open))
	m.dbInUseConns.WithLabelValues(m.serviceName).Set(float64(inUse))
	m.dbIdleConns.WithLabelValues(m.serviceName).Set(float64(idle))
}

func (m *Metrics) IncTxRetry() {
	if m == nil {
		return
	}
	m.dbTxRetries.WithLabelValues(m.serviceName).Inc()
}

func (m *Metrics) IncBookingTransition(to string) {
	if m == nil {
		return
	}
	m.bookingTransitions.WithLabelValues(m.serviceName, to).Inc()
}

func (m *Metrics) IncJobOutcome(job, outcome string) {
	if m == nil {
		return
	}
	m.jobOutcomes.WithLabelValues(m.serviceName, job, outcome).Inc()
}

func (m *Metrics) ObserveJobDuration(job string, duration time.Duration) {
	if m == nil {
		return
	}
	m.jobDuration.WithLabelValues(m.serviceName, job).Observe(duration.Seconds())
}
