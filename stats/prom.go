// Package stats registers and exposes Prometheus metrics for job
// execution (spec out of scope for the core but carried as ambient
// infrastructure, replacing the teacher's cluster-wide stats.Tracker with
// a tracker scoped to one runtime). Grounded on the teacher's
// stats/common_prom.go: a private prometheus.Registry, Namespace/Subsystem
// naming, and MustRegister at construction time.
/*
 * Copyright (c) 2018-2025, NVIDIA CORPORATION. All rights reserved.
 */
package stats

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "coldlake"
	subsystem = "runtime"
)

// Tracker records per-batch and per-job Prometheus metrics for one
// runtime.Runtime. Devoid of the default go_gc*/go_mem* metrics: it owns
// a private registry rather than using prometheus.DefaultRegisterer.
type Tracker struct {
	registry *prometheus.Registry

	batchDuration  prometheus.Histogram
	actionsPassed  prometheus.Counter
	actionsFailed  prometheus.Counter
	rebalanceBytes prometheus.Counter
}

// New builds a Tracker with a fresh, private registry.
func New() *Tracker {
	registry := prometheus.NewRegistry()

	t := &Tracker{
		registry: registry,
		batchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "batch_duration_seconds",
			Help:      "Wall-clock duration of one action-tree batch.",
			Buckets:   prometheus.DefBuckets,
		}),
		actionsPassed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "actions_passed_total",
			Help:      "Actions that completed without error.",
		}),
		actionsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "actions_failed_total",
			Help:      "Actions that returned an error.",
		}),
		rebalanceBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "rebalance_bytes_moved_total",
			Help:      "Bytes written by Rebalance actions' output files.",
		}),
	}

	registry.MustRegister(t.batchDuration, t.actionsPassed, t.actionsFailed, t.rebalanceBytes)
	return t
}

// ObserveBatch records one batch's wall-clock duration.
func (t *Tracker) ObserveBatch(d time.Duration) {
	t.batchDuration.Observe(d.Seconds())
}

// RecordAction increments the passed or failed counter.
func (t *Tracker) RecordAction(ok bool) {
	if ok {
		t.actionsPassed.Inc()
		return
	}
	t.actionsFailed.Inc()
}

// AddRebalanceBytes adds n bytes to the rebalance output counter.
func (t *Tracker) AddRebalanceBytes(n int64) {
	t.rebalanceBytes.Add(float64(n))
}

// Handler exposes the tracker's registry in the Prometheus text format.
func (t *Tracker) Handler() http.Handler {
	return promhttp.HandlerFor(t.registry, promhttp.HandlerOpts{})
}
