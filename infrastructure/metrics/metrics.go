package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "product_analytics_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "product_analytics_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "product_analytics_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "product_analytics_events_published_total", Help: "Captured events written to Kafka.",
	}, []string{"result"})

	EventsConsumed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "product_analytics_events_consumed_total", Help: "Events processed by the ingestion workers.",
	}, []string{"worker", "result"})

	PersonsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "product_analytics_persons_created_total", Help: "Persons created for unseen distinct ids.",
	})

	TrendDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "product_analytics_trend_assembly_duration_seconds",
		Help:    "Time spent assembling a trends response.",
		Buckets: prometheus.DefBuckets,
	})

	TokenCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "product_analytics_token_cache_lookups_total", Help: "Auth token cache lookups.",
	}, []string{"kind", "result"})
)
