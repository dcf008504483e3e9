// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "mintsdk"

// Prometheus implements Metrics with prometheus collectors.
type Prometheus struct {
	gatherer prometheus.Gatherer

	txsSubmitted prometheus.Counter
	txsSealed    prometheus.Counter
	txsRejected  prometheus.Counter
	sealLatency  prometheus.Histogram
	scriptsRun   prometheus.Counter
	rpcErrors    *prometheus.CounterVec
}

var _ Metrics = (*Prometheus)(nil)

// NewPrometheus registers the collectors with reg.  A nil reg uses a fresh
// registry.
func NewPrometheus(reg *prometheus.Registry) *Prometheus {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	m := &Prometheus{
		gatherer: reg,

		txsSubmitted: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transactions_submitted_total",
				Help:      "Total number of transactions accepted by the ledger",
			},
		),
		txsSealed: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transactions_sealed_total",
				Help:      "Total number of transactions sealed without error",
			},
		),
		txsRejected: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transactions_rejected_total",
				Help:      "Total number of transactions aborted or expired",
			},
		),
		sealLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "transaction_seal_seconds",
				Help:      "Time from submission to seal",
				Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 120},
			},
		),
		scriptsRun: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "scripts_executed_total",
				Help:      "Total number of scripts executed",
			},
		),
		rpcErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rpc_errors_total",
				Help:      "Total number of failed ledger requests",
			},
			[]string{"method"},
		),
	}

	reg.MustRegister(
		m.txsSubmitted,
		m.txsSealed,
		m.txsRejected,
		m.sealLatency,
		m.scriptsRun,
		m.rpcErrors,
	)

	return m
}

// Handler returns an http.Handler serving the registered collectors.
func (m *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func (m *Prometheus) TransactionSubmitted() {
	m.txsSubmitted.Inc()
}

func (m *Prometheus) TransactionSealed(elapsed time.Duration) {
	m.txsSealed.Inc()
	m.sealLatency.Observe(elapsed.Seconds())
}

func (m *Prometheus) TransactionRejected() {
	m.txsRejected.Inc()
}

func (m *Prometheus) ScriptExecuted() {
	m.scriptsRun.Inc()
}

func (m *Prometheus) RPCError(method string) {
	m.rpcErrors.WithLabelValues(method).Inc()
}
