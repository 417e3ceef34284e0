package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	StockAdjustments = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "inventory",
		Name:      "stock_adjustments_total",
		Help:      "Stock ledger adjustments by movement type.",
	}, []string{"movement_type"})

	StockDepletions = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "inventory",
		Name:      "stock_depletions_total",
		Help:      "Decrements that left a part with zero stock.",
	})

	PurchaseOrderTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "inventory",
		Name:      "purchase_order_transitions_total",
		Help:      "Purchase order lifecycle transitions by target state.",
	}, []string{"to"})

	StaleBOMDetections = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "inventory",
		Name:      "bom_stale_dependencies_total",
		Help:      "Buildability checks that hit a BOM line whose part is gone.",
	})

	ScanLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "inventory",
		Name:      "scan_lookups_total",
		Help:      "Scan resolutions by outcome.",
	}, []string{"result"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "inventory",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)
