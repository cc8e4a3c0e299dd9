package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Transaction manager metrics (§4.7).
	OpenReadTxns = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "graphdb_open_read_txns",
			Help: "Number of currently open read-only transactions",
		},
	)

	WriterHeld = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "graphdb_writer_slot_held",
			Help: "Whether the single write-transaction slot is currently held (1) or free (0)",
		},
	)

	TxnsCommittedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphdb_txns_committed_total",
			Help: "Total number of committed transactions by mode",
		},
		[]string{"mode"},
	)

	TxnsAbortedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphdb_txns_aborted_total",
			Help: "Total number of transactions that rolled back, by reason",
		},
		[]string{"reason"},
	)

	WriterContentionTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "graphdb_writer_contention_total",
			Help: "Total number of write transaction attempts that had to wait for the writer slot",
		},
	)

	CommitDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "graphdb_commit_duration_seconds",
			Help:    "Time taken to commit a write transaction in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Secondary index metrics (§4.6).
	IndexLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphdb_index_lookups_total",
			Help: "Total number of secondary index lookups by operator",
		},
		[]string{"op"},
	)

	IndexScanLength = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "graphdb_index_scan_length",
			Help:    "Number of index entries visited per lookup",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100, 500, 1000, 10000},
		},
	)

	// Query/traversal metrics (§4.8).
	TraversalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphdb_traversals_total",
			Help: "Total number of traversal operations by kind",
		},
		[]string{"kind"},
	)

	TraversalVisited = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "graphdb_traversal_visited_vertices",
			Help:    "Number of distinct vertices visited per traversal",
			Buckets: []float64{1, 5, 10, 50, 100, 500, 1000, 10000},
		},
	)
)

func init() {
	prometheus.MustRegister(OpenReadTxns)
	prometheus.MustRegister(WriterHeld)
	prometheus.MustRegister(TxnsCommittedTotal)
	prometheus.MustRegister(TxnsAbortedTotal)
	prometheus.MustRegister(WriterContentionTotal)
	prometheus.MustRegister(CommitDuration)

	prometheus.MustRegister(IndexLookupsTotal)
	prometheus.MustRegister(IndexScanLength)

	prometheus.MustRegister(TraversalsTotal)
	prometheus.MustRegister(TraversalVisited)
}

// Handler returns the Prometheus HTTP handler for the optional
// --metrics-addr surface cmd/graphdbctl exposes.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a helper for timing operations, observed into a histogram on
// completion.
type Timer struct {
	start time.Time
}

// NewTimer starts a timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the elapsed duration to histogram.
func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	histogram.Observe(time.Since(t.start).Seconds())
}

// Duration returns the elapsed time since the timer started.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
