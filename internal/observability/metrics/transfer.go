package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TransfersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transfers_total",
			Help: "Total number of transfer attempts by result",
		},
		[]string{"result"},
	)

	TransferredCentsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "transferred_cents_total",
			Help: "Total amount moved by committed transfers, in cents",
		},
	)

	TransferDurationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "transfer_duration_seconds",
			Help:    "Duration of the transfer unit of work in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)
