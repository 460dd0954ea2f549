package coordinator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus counters for coordinator decisions, following the promauto
// var-block style of the cdc-sink reference material
// (internal/staging/stage/metrics.go): one histogram/counter group per
// concern, registered at package init.
var (
	decisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "accord_coordinator_decisions_total",
		Help: "number of decisions made by the coordinator, by outcome",
	}, []string{"outcome"})

	waitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "accord_coordinator_waits_total",
		Help: "number of times the coordinator deferred a decision pending more responses",
	}, []string{"phase"})

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "accord_coordinator_errors_total",
		Help: "number of errors surfaced by the coordinator, by kind",
	}, []string{"kind"})

	executorLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "accord_coordinator_executor_compute_seconds",
		Help:    "time spent inside the injected Executor's Compute call",
		Buckets: prometheus.DefBuckets,
	})
)

const (
	outcomeFastPathCommit = "fast_path_commit"
	outcomeSlowPathAccept = "slow_path_accept"
	outcomeSlowPathCommit = "slow_path_commit"

	errorKindMissingTx     = "missing_tx"
	errorKindInvalidPhase  = "invalid_phase"
	errorKindExecutorError = "executor_error"
)
