package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Throughput metrics - Track user actions
var (
	ActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_actions_total",
			Help: "Total number of form actions handled by action and outcome",
		},
		[]string{"action", "outcome"},
	)

	TransactionsSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_transactions_submitted_total",
			Help: "Total number of transactions submitted by contract method",
		},
		[]string{"method"},
	)
)

// Performance metrics - Track latency of the remote contract
var (
	ContractCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bridge_contract_call_duration_seconds",
			Help:    "Time taken by contract operations by kind (call or send)",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	ReceiptWaitDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bridge_receipt_wait_duration_seconds",
		Help:    "Time between submitting a transaction and receiving its receipt",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
	})
)

// State metrics - Track bridge readiness
var (
	BridgeReady = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bridge_ready",
		Help: "1 when a wallet session and contract binding are established",
	})

	PipelineWorkerCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bridge_pipeline_worker_count",
		Help: "Number of active product fetch workers",
	})

	PipelineQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bridge_pipeline_queue_depth",
		Help: "Number of fetched products waiting on an earlier id",
	})
)

// Error metrics - Track failures
var (
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_errors_total",
			Help: "Total number of errors by kind (environment, validation, remote)",
		},
		[]string{"kind"},
	)
)
