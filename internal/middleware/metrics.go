package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns the HTTP request collectors for one Fiber app.
type Metrics struct {
	registry *prometheus.Registry
	prom     *fiberprometheus.FiberPrometheus
}

// InitMetrics builds request metrics on a private registry so several apps can
// coexist in one process. The default registry (runtime and application
// collectors) is served alongside it.
func InitMetrics(serviceName string) *Metrics {
	reg := prometheus.NewRegistry()

	return &Metrics{
		registry: reg,
		prom:     fiberprometheus.NewWithRegistry(reg, serviceName, "blog", "http", nil),
	}
}

// Middleware records request count, latency and in-flight requests.
func (m *Metrics) Middleware() fiber.Handler {
	return m.prom.Middleware
}

// Handler serves the Prometheus text exposition.
func (m *Metrics) Handler() fiber.Handler {
	gatherers := prometheus.Gatherers{m.registry, prometheus.DefaultGatherer}
	return adaptor.HTTPHandler(promhttp.HandlerFor(gatherers, promhttp.HandlerOpts{}))
}
