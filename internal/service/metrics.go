package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	eventsHandled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notifier_events_total",
		Help: "Domain events handled, by type and outcome.",
	}, []string{"type", "outcome"})

	translateDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "notifier_translate_duration_seconds",
		Help:    "Time spent translating one event into batches.",
		Buckets: prometheus.DefBuckets,
	}, []string{"type"})

	recipientsNotified = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notifier_recipients_total",
		Help: "Recipients placed into batches, by category.",
	}, []string{"category"})

	outboxRelayed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notifier_outbox_relayed_total",
		Help: "Outbox messages handed to the publisher, by outcome.",
	}, []string{"outcome"})
)
