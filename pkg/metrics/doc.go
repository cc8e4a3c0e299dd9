/*
Package metrics defines and registers this module's Prometheus metrics:
transaction manager throughput and contention (§4.7), secondary index
lookup cost (§4.6), and traversal size (§4.8). Metrics are package-level
vars registered against the default registry at init, mirroring how the
rest of this codebase's ambient stack favors init-time registration over
a constructed registry object, and are exposed over HTTP via Handler for
cmd/graphdbctl's optional --metrics-addr flag.

Timer is a small stopwatch helper: start one with NewTimer, then call
ObserveDuration against the relevant histogram once the timed operation
finishes.
*/
package metrics
