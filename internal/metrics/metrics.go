// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vaultpass/passgen-go/internal/crypto"
)

var (
	metricGenerate = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "passgen_generate_total",
			Help: "Number of generate requests, by result.",
		},
		[]string{"result"},
	)
	metricGenerateDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "passgen_generate_duration_seconds",
			Help:    "Time spent generating the passwords of one request.",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)
	metricGeneratedChars = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "passgen_generated_chars_total",
			Help: "Number of characters generated.",
		},
	)
)

// ObserveGenerate records one generate request. err is nil on success.
func ObserveGenerate(err error, d time.Duration, chars int) {
	metricGenerate.WithLabelValues(Result(err)).Inc()
	metricGenerateDuration.Observe(d.Seconds())
	if err == nil {
		metricGeneratedChars.Add(float64(chars))
	}
}

// Result maps err to the result label value.
func Result(err error) string {
	if err == nil {
		return "ok"
	}
	var cfgErr *crypto.ConfigError
	if errors.As(err, &cfgErr) {
		return cfgErr.Kind.String()
	}
	return "error"
}
