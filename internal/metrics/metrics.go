package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus collectors are registered once per process.
var (
	// AlertsProcessed counts alerts taken from inbound batches.
	AlertsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "alert_relay",
		Name:      "alerts_processed_total",
		Help:      "Number of alerts taken from inbound webhook batches.",
	})

	// AlertsFailed counts alerts whose delivery was aborted before any send.
	AlertsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "alert_relay",
		Name:      "alerts_failed_total",
		Help:      "Number of alerts aborted before delivery, e.g. on credential failure.",
	})

	// DeliveriesAttempted counts individual SMS delivery attempts.
	DeliveriesAttempted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "alert_relay",
		Name:      "deliveries_attempted_total",
		Help:      "Number of SMS delivery attempts.",
	})

	// DeliveriesFailed counts SMS delivery attempts rejected by the gateway.
	DeliveriesFailed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "alert_relay",
		Name:      "deliveries_failed_total",
		Help:      "Number of SMS delivery attempts that failed.",
	})

	// TokenExchanges counts credential exchanges against the identity provider.
	TokenExchanges = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "alert_relay",
		Name:      "token_exchanges_total",
		Help:      "Number of access token exchanges performed on cache misses.",
	})
)
