package checkpoint

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for checkpoint operations.
var (
	checkpointHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checkpoint_hits_total",
		Help: "Windows resumed from a stored checkpoint",
	})

	checkpointMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checkpoint_misses_total",
		Help: "Windows with no stored checkpoint",
	})

	checkpointSaves = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checkpoint_saves_total",
		Help: "Window checkpoints written",
	})

	checkpointErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "checkpoint_errors_total",
		Help: "Checkpoint store errors by operation",
	}, []string{"operation"})
)
