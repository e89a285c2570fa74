package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Triggers de la transición active -> expired.
const (
	TriggerSweep  = "sweep"
	TriggerManual = "manual"
	TriggerWrite  = "write"
)

// Metrics agrupa los collectors Prometheus del servicio.
// Registry propio (no el global) para que los tests puedan crear instancias aisladas.
type Metrics struct {
	registry *prometheus.Registry

	RecordsExpired     *prometheus.CounterVec
	SweepDuration      prometheus.Histogram
	NotificationsSent  *prometheus.CounterVec
	TasksProcessed     *prometheus.CounterVec
	TasksAbandoned     *prometheus.CounterVec
	HTTPRequestsServed *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		RecordsExpired: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pet_vaccinations_records_expired_total",
			Help: "Vaccination records transitioned to expired, by trigger",
		}, []string{"trigger"}),
		SweepDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "pet_vaccinations_sweep_duration_seconds",
			Help:    "Duration of the bulk expiration sweep",
			Buckets: prometheus.DefBuckets,
		}),
		NotificationsSent: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pet_vaccinations_notifications_total",
			Help: "Expiration notifications by channel and outcome",
		}, []string{"channel", "outcome"}),
		TasksProcessed: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pet_vaccinations_tasks_processed_total",
			Help: "Background tasks processed by name and outcome",
		}, []string{"task", "outcome"}),
		TasksAbandoned: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pet_vaccinations_tasks_abandoned_total",
			Help: "Background tasks dropped after exhausting retries",
		}, []string{"task"}),
		HTTPRequestsServed: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pet_vaccinations_http_requests_total",
			Help: "HTTP requests by method and status class",
		}, []string{"method", "status"}),
	}
}

// Handler expone /metrics del registry propio.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Los métodos toleran receiver nil para que los componentes funcionen sin métricas.

func (m *Metrics) AddRecordsExpired(trigger string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.RecordsExpired.WithLabelValues(trigger).Add(float64(n))
}

func (m *Metrics) ObserveSweep(d time.Duration) {
	if m == nil {
		return
	}
	m.SweepDuration.Observe(d.Seconds())
}

func (m *Metrics) NotificationSent(channel string, err error) {
	if m == nil {
		return
	}
	m.NotificationsSent.WithLabelValues(channel, outcome(err)).Inc()
}

func (m *Metrics) TaskProcessed(task string, err error) {
	if m == nil {
		return
	}
	m.TasksProcessed.WithLabelValues(task, outcome(err)).Inc()
}

func (m *Metrics) TaskAbandoned(task string) {
	if m == nil {
		return
	}
	m.TasksAbandoned.WithLabelValues(task).Inc()
}

func (m *Metrics) HTTPRequest(method string, status int) {
	if m == nil {
		return
	}
	m.HTTPRequestsServed.WithLabelValues(method, statusClass(status)).Inc()
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
