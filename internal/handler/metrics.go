package handler

import (
	"net/http"

	"github.com/pickage/platform/internal/infra"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsHandler exposes the Prometheus registry at /metrics.
func MetricsHandler(metrics *infra.Metrics) http.Handler {
	return promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})
}
