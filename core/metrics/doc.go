// Package metrics defines the Prometheus counters exported at /metrics.
package metrics
