// Package metrics expone las métricas de negocio en formato Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/vaxa-api/internal/application/ports"
)

var _ ports.Metrics = (*Collector)(nil)

// Collector implementa ports.Metrics sobre un registry propio.
type Collector struct {
	registry *prometheus.Registry

	certificatesGenerated *prometheus.CounterVec
	batchesTotal          *prometheus.CounterVec
	batchDuration         prometheus.Histogram
	revocations           prometheus.Counter
	validations           *prometheus.CounterVec
}

// New registra los colectores de negocio más los de proceso y runtime de Go.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		certificatesGenerated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vaxa_certificates_generated_total",
				Help: "Certificados procesados en lotes por resultado",
			},
			[]string{"result"},
		),
		batchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vaxa_batches_total",
				Help: "Lotes finalizados por estado",
			},
			[]string{"status"},
		),
		batchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "vaxa_batch_duration_seconds",
				Help:    "Duración de la generación de un lote",
				Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
			},
		),
		revocations: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "vaxa_certificates_revoked_total",
				Help: "Certificados revocados",
			},
		),
		validations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vaxa_validations_total",
				Help: "Validaciones públicas por resultado",
			},
			[]string{"result"},
		),
	}
	c.registry.MustRegister(
		c.certificatesGenerated,
		c.batchesTotal,
		c.batchDuration,
		c.revocations,
		c.validations,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

func (c *Collector) CertificateGenerated(result string) {
	c.certificatesGenerated.WithLabelValues(result).Inc()
}

func (c *Collector) BatchFinished(status string, elapsed time.Duration) {
	c.batchesTotal.WithLabelValues(status).Inc()
	c.batchDuration.Observe(elapsed.Seconds())
}

func (c *Collector) CertificateRevoked() {
	c.revocations.Inc()
}

func (c *Collector) Validation(result string) {
	c.validations.WithLabelValues(result).Inc()
}

// Handler handler HTTP de /metrics.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Registry expone el registry (tests).
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Noop descarta las métricas.
type Noop struct{}

func (Noop) CertificateGenerated(string) {}
func (Noop) BatchFinished(string, time.Duration) {}
func (Noop) CertificateRevoked() {}
func (Noop) Validation(string) {}
