// Package metrics defines the Prometheus collectors exported by the relay.
//
// Counters are registered through promauto on the default registry and
// exposed by the HTTP server on /metrics.
package metrics
