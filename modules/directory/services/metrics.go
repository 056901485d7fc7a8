package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	directoryLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "directory",
		Subsystem: "load",
		Name:      "total",
		Help:      "Total number of directory loads broken down by result.",
	}, []string{"result"})

	directoryLoadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "directory",
		Subsystem: "load",
		Name:      "duration_seconds",
		Help:      "Time spent fetching and indexing both directory tables.",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	})

	directoryRecords = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "directory",
		Subsystem: "snapshot",
		Name:      "records",
		Help:      "Number of records in the current snapshot broken down by table.",
	}, []string{"table"})

	directorySkippedRows = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "directory",
		Subsystem: "ingest",
		Name:      "skipped_rows_total",
		Help:      "Total number of primary-table rows dropped for lacking a name.",
	})

	directorySearches = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "directory",
		Subsystem: "search",
		Name:      "queries_total",
		Help:      "Total number of evaluated search queries broken down by whether anything matched.",
	}, []string{"result"})

	directorySearchLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "directory",
		Subsystem: "search",
		Name:      "latency_seconds",
		Help:      "Latency distribution for search evaluation.",
		Buckets: []float64{
			0.0005, 0.001, 0.002, 0.005,
			0.01, 0.02, 0.05,
			0.1, 0.2, 0.5,
		},
	})
)

func recordLoad(ok bool, seconds float64) {
	result := "success"
	if !ok {
		result = "failure"
	}
	directoryLoads.WithLabelValues(result).Inc()
	directoryLoadDuration.Observe(seconds)
}

func recordSnapshot(s *Snapshot) {
	directoryRecords.WithLabelValues("persons").Set(float64(len(s.Persons)))
	directoryRecords.WithLabelValues("relationships").Set(float64(len(s.Relationships)))
	directorySkippedRows.Add(float64(s.Ingestion.SkippedRows))
}

func recordSearch(matched int, seconds float64) {
	result := "hit"
	if matched == 0 {
		result = "empty"
	}
	directorySearches.WithLabelValues(result).Inc()
	directorySearchLatency.Observe(seconds)
}
