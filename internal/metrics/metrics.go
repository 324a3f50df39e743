// Package metrics holds the prometheus collectors shared by both processes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ReadingsPublished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "weather_logs_readings_published_total",
		Help: "Readings successfully handed to the broker.",
	})

	PublishFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "weather_logs_publish_failures_total",
		Help: "Publish attempts that returned an error.",
	})

	MessagesProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "weather_logs_messages_processed_total",
		Help: "Messages persisted and acknowledged, by validation status.",
	}, []string{"status"})

	DecodeDiscards = promauto.NewCounter(prometheus.CounterOpts{
		Name: "weather_logs_decode_discards_total",
		Help: "Undecodable messages acknowledged and dropped without a stored row.",
	})

	StoreFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "weather_logs_store_failures_total",
		Help: "Store writes that failed, causing a reject without requeue.",
	})
)
