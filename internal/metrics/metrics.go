// Package metrics expone los contadores Prometheus de la API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics agrupa los colectores de la API. Un *Metrics nil es válido y no registra nada.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	LoginCodesIssued     prometheus.Counter
	LoginCodeDeliveries  *prometheus.CounterVec
	LoginVerifications   *prometheus.CounterVec
	SessionsIssued       prometheus.Counter
	VerificationOutcomes *prometheus.CounterVec
	RatingsTotal         prometheus.Counter
	ModerationVerdicts   *prometheus.CounterVec
	FeedPhases           *prometheus.CounterVec
}

// New crea las métricas sobre un registry propio para que varias instancias
// (por ejemplo en tests) no colisionen.
func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "Current number of HTTP requests being processed",
			},
		),
		LoginCodesIssued: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "login_codes_issued_total",
				Help:      "Login codes issued",
			},
		),
		LoginCodeDeliveries: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "login_code_deliveries_total",
				Help:      "Login code deliveries by result",
			},
			[]string{"result"},
		),
		LoginVerifications: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "login_verifications_total",
				Help:      "Login code verifications by result",
			},
			[]string{"result"},
		),
		SessionsIssued: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sessions_issued_total",
				Help:      "Session tokens issued",
			},
		),
		VerificationOutcomes: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "creator_verification_outcomes_total",
				Help:      "Creator upgrade outcomes by status",
			},
			[]string{"status"},
		),
		RatingsTotal: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ratings_total",
				Help:      "Ratings applied to content",
			},
		),
		ModerationVerdicts: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "moderation_verdicts_total",
				Help:      "Comment moderation verdicts by note",
			},
			[]string{"note"},
		),
		FeedPhases: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "feed_pages_total",
				Help:      "Feed pages served by phase",
			},
			[]string{"source"},
		),
	}
}

// Handler devuelve el handler HTTP del registry.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry expone el registry para tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) RequestStarted() {
	if m == nil {
		return
	}
	m.HTTPRequestsInFlight.Inc()
}

// RecordRequest cierra una petición. path debe ser la ruta registrada, no la URL cruda.
func (m *Metrics) RecordRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsInFlight.Dec()
	if path == "" {
		path = "unmatched"
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func (m *Metrics) LoginCodeIssued() {
	if m == nil {
		return
	}
	m.LoginCodesIssued.Inc()
}

func (m *Metrics) LoginCodeDelivered(err error) {
	if m == nil {
		return
	}
	m.LoginCodeDeliveries.WithLabelValues(resultLabel(err)).Inc()
}

func (m *Metrics) LoginVerified(err error) {
	if m == nil {
		return
	}
	m.LoginVerifications.WithLabelValues(resultLabel(err)).Inc()
}

func (m *Metrics) SessionIssued() {
	if m == nil {
		return
	}
	m.SessionsIssued.Inc()
}

func (m *Metrics) VerificationOutcome(status string) {
	if m == nil {
		return
	}
	m.VerificationOutcomes.WithLabelValues(status).Inc()
}

func (m *Metrics) RatingApplied() {
	if m == nil {
		return
	}
	m.RatingsTotal.Inc()
}

func (m *Metrics) ModerationVerdict(note string) {
	if m == nil {
		return
	}
	m.ModerationVerdicts.WithLabelValues(note).Inc()
}

func (m *Metrics) FeedServed(source string) {
	if m == nil {
		return
	}
	m.FeedPhases.WithLabelValues(source).Inc()
}

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
