// Package metrics defines the Prometheus collectors exported by habitd.
//
// Collectors are registered on a dedicated registry rather than the global
// default, so tests can build as many Metrics values as they like. Handler
// exposes the registry in the Prometheus text format.
//
// Every recording method is safe to call on a nil *Metrics; callers that run
// with metrics disabled simply pass nil.
package metrics
