// In file: internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ChatRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cafe_chat_requests_total",
			Help: "Total number of chat turns by resolved action and path (llm or fallback)",
		},
		[]string{"action", "path"},
	)

	ChatFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cafe_chat_fallbacks_total",
			Help: "Total number of chat turns answered by the fallback responder, by error code",
		},
		[]string{"error_code"},
	)

	LLMRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cafe_llm_request_duration_seconds",
			Help:    "Duration of completion requests to the LLM provider",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 15},
		},
		[]string{"provider", "outcome"},
	)

	MenuCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cafe_menu_cache_lookups_total",
			Help: "Menu snapshot cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)

	OrdersCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cafe_orders_created_total",
			Help: "Total number of orders persisted",
		},
	)
)
