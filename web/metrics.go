package web

import (
	"bytes"
	"net/http"
	"sync"

	"signupform/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/common/expfmt"
	"github.com/rohanthewiz/logger"
	"github.com/rohanthewiz/rweb"
)

var (
	registry     *prometheus.Registry
	registryOnce sync.Once
)

// Registry returns the Prometheus registry served on /metrics.
// Signup metrics and the Go runtime collectors are registered on first use.
func Registry() *prometheus.Registry {
	registryOnce.Do(func() {
		registry = prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector())
		models.RegisterMetrics(registry)
	})
	return registry
}

// MetricsHandler writes the registry in the Prometheus text format
// GET /metrics
func MetricsHandler(c rweb.Context) error {
	families, err := Registry().Gather()
	if err != nil {
		logger.LogErr(err, "failed to gather metrics")
		c.SetStatus(http.StatusInternalServerError)
		return nil
	}

	var buf bytes.Buffer
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(&buf, mf); err != nil {
			logger.LogErr(err, "failed to encode metric family", "name", mf.GetName())
			c.SetStatus(http.StatusInternalServerError)
			return nil
		}
	}

	c.Response().SetHeader("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	return c.Bytes(buf.Bytes())
}
