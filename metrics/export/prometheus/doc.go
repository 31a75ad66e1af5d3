// Package prometheus provides Prometheus collectors for pasetoAuth metrics.
//
// [NewPrometheusExporter] accepts a [pasetoAuth.Engine] and exposes an
// [http.Handler] that renders all engine counters and histograms in Prometheus
// text exposition format. Counter names are prefixed pasetoauth_*_total; the
// single histogram is pasetoauth_authenticate_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry — callers mount the Handler.
//   - Mutate engine state.
package prometheus
