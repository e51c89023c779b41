package main

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	cyclesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "deposit_sync_cycles_total",
		Help: "Total number of sync cycles started",
	})

	cycleErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "deposit_sync_errors_total",
		Help: "Total number of cycle and brand-level errors",
	})

	rowsFetchedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "deposit_sync_rows_fetched_total",
		Help: "Total number of raw rows read from the spreadsheet",
	})

	rowsDiscardedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "deposit_sync_rows_discarded_total",
		Help: "Total number of blank rows discarded before identity resolution",
	})

	recordsUpsertedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "deposit_sync_records_upserted_total",
		Help: "Total number of deduplicated records upserted into PostgreSQL",
	})

	recordsSweptTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "deposit_sync_records_swept_total",
		Help: "Total number of stale pending records swept to the cleared status",
	})

	cycleDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "deposit_sync_cycle_duration_seconds",
		Help:    "Time taken by a full sync cycle",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to ~1min
	})
)

func init() {
	// Register all metrics
	prometheus.MustRegister(
		cyclesTotal,
		cycleErrorsTotal,
		rowsFetchedTotal,
		rowsDiscardedTotal,
		recordsUpsertedTotal,
		recordsSweptTotal,
		cycleDuration,
	)
}
