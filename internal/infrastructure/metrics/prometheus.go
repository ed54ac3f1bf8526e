// Package metrics expone métricas Prometheus del servidor HTTP y del libro de movimientos.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/warehouse-api/internal/application/inventory"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
)

var _ inventory.MovementObserver = (*Metrics)(nil)

// Metrics registro propio (no el global) para que cada instancia y cada test sea independiente.
type Metrics struct {
	registry   *prometheus.Registry
	httpDur    *prometheus.HistogramVec
	movements  *prometheus.CounterVec
	units      *prometheus.CounterVec
	rejections *prometheus.CounterVec
}

// New registra los colectores bajo el namespace indicado (ej. "warehouse").
func New(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duración de las peticiones HTTP por ruta y código de estado.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		movements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inventory_movements_total",
			Help:      "Movimientos confirmados en el libro por dirección.",
		}, []string{"direction"}),
		units: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inventory_units_total",
			Help:      "Unidades movidas por dirección.",
		}, []string{"direction"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inventory_stock_rejections_total",
			Help:      "Salidas rechazadas por stock insuficiente.",
		}, []string{"operation"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpDur, m.movements, m.units, m.rejections,
	)
	return m
}

// MovementRecorded implementa inventory.MovementObserver.
func (m *Metrics) MovementRecorded(direction int, quantity int64) {
	label := entity.DirectionLabel(direction)
	m.movements.WithLabelValues(label).Inc()
	m.units.WithLabelValues(label).Add(float64(quantity))
}

// StockRejected implementa inventory.MovementObserver.
func (m *Metrics) StockRejected(operation string) {
	m.rejections.WithLabelValues(operation).Inc()
}

// ObserveHTTP registra la duración de una petición. route es el patrón (ej. /kits/:id), no la URL.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	m.httpDur.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// Handler handler estándar de exposición para /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry para pruebas.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
