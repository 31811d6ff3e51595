package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	loadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ecdash_load_duration_seconds",
		Help:    "Duration of dataset snapshot retrieval, cache hits included.",
		Buckets: prometheus.DefBuckets,
	})

	loadWarnings = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ecdash_load_warnings",
		Help: "Number of per-school warnings in the current snapshot.",
	})

	datasetRecords = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "ecdash_dataset_records",
		Help: "Record count per unified dataset in the current snapshot.",
	}, []string{"dataset"})
)
