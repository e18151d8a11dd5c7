// Package metrics expone contadores Prometheus del servicio.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/jhoicas/lotetracker/internal/application/ports"
)

var _ ports.LotMetrics = (*Metrics)(nil)

const namespace = "lotetracker"

// Metrics registro propio (no el global) para que los tests no colisionen.
type Metrics struct {
	Registry *prometheus.Registry

	lotsRegistered prometheus.Counter
	suggestions    *prometheus.CounterVec
	storeUp        prometheus.Gauge
}

// New registra las métricas de la aplicación y las del runtime de Go.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		lotsRegistered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lotes_registrados_total",
			Help:      "Lotes registrados.",
		}),
		suggestions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sugerencias_servidas_total",
			Help:      "Consultas de autocompletado atendidas por campo.",
		}, []string{"campo"}),
		storeUp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "store_up",
			Help:      "1 si el almacén de datos responde.",
		}),
	}
	reg.MustRegister(
		m.lotsRegistered,
		m.suggestions,
		m.storeUp,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) LotRegistered() {
	m.lotsRegistered.Inc()
}

func (m *Metrics) StoreAvailable(up bool) {
	if up {
		m.storeUp.Set(1)
		return
	}
	m.storeUp.Set(0)
}

func (m *Metrics) SuggestionServed(category string) {
	m.suggestions.WithLabelValues(category).Inc()
}
