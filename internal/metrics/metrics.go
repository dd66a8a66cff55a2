// Package metrics exposes the Prometheus collectors served on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	VentasCreadas = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gestorstock_ventas_creadas_total",
		Help: "Ventas registradas, por tipo.",
	}, []string{"tipo"})

	AdvertenciasStock = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gestorstock_advertencias_stock_total",
		Help: "Lineas de venta que dejaron el stock por debajo de cero.",
	})

	CierresCaja = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gestorstock_cierres_caja_total",
		Help: "Cierres de caja completados.",
	})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gestorstock_http_request_duration_seconds",
		Help:    "Duracion de las requests HTTP.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

// Middleware observes every request under its route template, so /v1/ventas/1
// and /v1/ventas/2 share a series.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		requestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
