// Copyright 2025 Certen Protocol
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

// Package metrics exposes the Prometheus collectors for the two engine
// entry points, lightclient.Advance and withdrawal.Execute. The corpus
// carries github.com/prometheus/client_golang as a direct dependency
// without a call site; this package is that call site.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collectors groups every metric the engine registers. A nil *Collectors
// is safe to call methods on -- every method is a no-op in that case, so
// callers can leave metrics disabled by passing nil rather than branching
// on a separate "enabled" flag at every call site.
type Collectors struct {
	advanceTotal  *prometheus.CounterVec
	executeTotal  *prometheus.CounterVec
	currentHeight prometheus.Gauge
}

// New registers the engine's collectors against reg and returns a
// Collectors handle. Pass prometheus.NewRegistry() for an isolated
// registry in tests, or prometheus.DefaultRegisterer in production.
func New(reg prometheus.Registerer) *Collectors {
	factory := promauto.With(reg)
	return &Collectors{
		advanceTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lightclient",
			Name:      "advance_total",
			Help:      "Header chain advance attempts, partitioned by outcome.",
		}, []string{"outcome"}),
		executeTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lightclient",
			Name:      "execute_total",
			Help:      "Withdrawal dispatch attempts, partitioned by outcome.",
		}, []string{"outcome"}),
		currentHeight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "lightclient",
			Name:      "current_height",
			Help:      "Height of the last header accepted into state.",
		}),
	}
}

// ObserveAdvance records the outcome of one lightclient.Advance call.
// outcome is typically "accepted" or an engineerrors.Kind string.
func (c *Collectors) ObserveAdvance(outcome string, newHeight uint64) {
	if c == nil {
		return
	}
	c.advanceTotal.WithLabelValues(outcome).Inc()
	if outcome == "accepted" {
		c.currentHeight.Set(float64(newHeight))
	}
}

// ObserveExecute records the outcome of one withdrawal.Execute call.
func (c *Collectors) ObserveExecute(outcome string) {
	if c == nil {
		return
	}
	c.executeTotal.WithLabelValues(outcome).Inc()
}
