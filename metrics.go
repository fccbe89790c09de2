// Copyright The ActForGood Authors.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://github.com/actforgood/xconf/blob/main/LICENSE.

package scle

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// executorMetrics tracks Background Executor (C4) state for observability.
// Grounded on the pack's realtime.RealtimeMetrics shape (gauges for live
// queue/running depth, counters for failure modes). The metrics register on
// whatever prometheus.Registerer is passed to NewExecutorMetrics; passing a
// fresh registry per Engine rather than the global default registerer keeps
// many Engines (e.g. one per test) from colliding on duplicate metric
// registration.
type executorMetrics struct {
	queued  prometheus.Gauge
	running prometheus.Gauge
	panics  prometheus.Counter
	applies prometheus.Counter
	suggest prometheus.Counter
	dismiss prometheus.Counter
}

// NewExecutorMetrics registers the engine's metrics against reg. Pass a
// fresh [prometheus.NewRegistry] (the default, unless you intend to expose
// these alongside your application's own default-registry metrics).
func NewExecutorMetrics(reg prometheus.Registerer, namespace string) *executorMetrics {
	factory := promauto.With(reg)

	return &executorMetrics{
		queued: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "scle",
			Name:      "executor_queued",
			Help:      "Number of script configuration loads currently queued.",
		}),
		running: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "scle",
			Name:      "executor_running",
			Help:      "Number of script configuration loads currently running.",
		}),
		panics: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scle",
			Name:      "executor_panics_total",
			Help:      "Total number of background loader tasks that panicked.",
		}),
		applies: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scle",
			Name:      "apply_total",
			Help:      "Total number of configurations applied (auto or user-accepted).",
		}),
		suggest: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scle",
			Name:      "suggest_total",
			Help:      "Total number of configurations placed into the pending slot.",
		}),
		dismiss: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scle",
			Name:      "dismiss_total",
			Help:      "Total number of pending configurations dismissed by the user.",
		}),
	}
}

func (m *executorMetrics) setQueued(n int) {
	if m == nil {
		return
	}
	m.queued.Set(float64(n))
}

func (m *executorMetrics) setRunning(n int) {
	if m == nil {
		return
	}
	m.running.Set(float64(n))
}

func (m *executorMetrics) incPanics() {
	if m == nil {
		return
	}
	m.panics.Inc()
}

func (m *executorMetrics) incApply() {
	if m == nil {
		return
	}
	m.applies.Inc()
}

func (m *executorMetrics) incSuggest() {
	if m == nil {
		return
	}
	m.suggest.Inc()
}

func (m *executorMetrics) incDismiss() {
	if m == nil {
		return
	}
	m.dismiss.Inc()
}
