package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	intentsReceivedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "projection_intents_received_total",
			Help: "Total number of inbound intents processed by a session, by screen and intent name.",
		},
		[]string{"screen", "name"},
	)

	renderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "projection_render_duration_seconds",
			Help:    "Time taken to render a screen's view-model.",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		},
		[]string{"status"}, // status: ok, error
	)

	patchOpsSent = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "projection_patch_ops_sent",
			Help:    "Number of coalesced ops in each outbound patch envelope.",
			Buckets: []float64{1, 2, 4, 8, 16, 32, 64, 128},
		},
		[]string{"screen"},
	)

	errorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "projection_errors_total",
			Help: "Total number of session-level faults, by kind.",
		},
		[]string{"kind"},
	)
)
