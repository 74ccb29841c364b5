// Package metrics holds the prometheus collectors for the data layer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CatalogFetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "animeshelf_catalog_fetches_total",
		Help: "Catalog page fetches by outcome (ok, network_error, decode_error).",
	}, []string{"outcome"})

	CatalogFetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "animeshelf_catalog_fetch_duration_seconds",
		Help:    "Time from request issue to settled response for one catalog page.",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	})

	CatalogItems = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "animeshelf_catalog_items",
		Help: "Number of items currently held in the merged catalog list.",
	})

	FavouriteTogglesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "animeshelf_favourite_toggles_total",
		Help: "Favourite toggles by direction (added, removed).",
	}, []string{"direction"})

	KVWritesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "animeshelf_kv_writes_total",
		Help: "Background key-value writes that landed.",
	})

	KVWriteErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "animeshelf_kv_write_errors_total",
		Help: "Background key-value writes that failed.",
	})

	AuthAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "animeshelf_auth_attempts_total",
		Help: "Register and login attempts by operation and result.",
	}, []string{"op", "result"})
)
