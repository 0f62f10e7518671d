package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// requestsTotal counts HTTP requests by route and status code.
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gridspike",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests by route and status",
	}, []string{"route", "code"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "gridspike",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"route"})

	// filteredRows tracks how many rows survive filtering per dataset.
	filteredRows = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "gridspike",
		Subsystem: "grid",
		Name:      "filtered_rows",
		Help:      "Rows matching the filters of a grid request",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
	}, []string{"dataset"})

	notModified = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gridspike",
		Subsystem: "grid",
		Name:      "not_modified_total",
		Help:      "Grid requests answered from the client's cached ETag",
	}, []string{"dataset"})
)
