package hooklistener

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metrics holds the listener's Prometheus collectors. Each Server owns
// its registry so two listeners in one process never collide.
type metrics struct {
	registry *prometheus.Registry

	deliveriesTotal *prometheus.CounterVec
	queueDepth      prometheus.Gauge
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		deliveriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "potx_hook_deliveries_total",
			Help: "Total hook deliveries by outcome.",
		}, []string{"outcome"}),
		queueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "potx_hook_queue_depth",
			Help: "Deliveries buffered and not yet consumed.",
		}),
	}
	m.registry.MustRegister(m.deliveriesTotal, m.queueDepth)
	return m
}

func (m *metrics) handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
