package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Global collectors, registered on the default registry through promauto.
// Every series is labeled by generator name.

var (
	// 1. Batches Served (Counter)
	// Counts every successful Sequence.Get call.
	BatchesServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clustergcn_batches_total",
			Help: "Total number of mini-batches assembled",
		},
		[]string{"generator"},
	)

	// 2. Batch Nodes (Histogram)
	// Size of the induced subgraph of each batch. The adjacency matrix is n x n,
	// so this is the number to watch when batches get slow.
	BatchNodes = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "clustergcn_batch_nodes",
			Help:    "Number of subgraph nodes per mini-batch",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10), // 1 .. 262144
		},
		[]string{"generator"},
	)

	// 3. Batch Build Duration (Histogram)
	BatchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "clustergcn_batch_duration_seconds",
			Help:    "Time spent assembling one mini-batch",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"generator"},
	)

	// 4. Epochs (Counter)
	// Incremented each time a sequence reshuffles its clusters.
	Epochs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clustergcn_epochs_total",
			Help: "Total number of epoch reshuffles",
		},
		[]string{"generator"},
	)

	// 5. Clusters (Gauge)
	// Number of clusters in the generator's partition.
	Clusters = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "clustergcn_clusters",
			Help: "Number of clusters in the partition",
		},
		[]string{"generator"},
	)
)
