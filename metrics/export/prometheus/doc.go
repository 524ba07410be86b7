// Package prometheus renders permbit metrics in Prometheus text
// exposition format.
//
// [NewPrometheusExporter] accepts a [permbit.Engine] and exposes an
// [http.Handler] that renders every counter and the Check latency
// histogram. Counter names are prefixed permbit_*_total; the histogram
// is permbit_check_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry — callers mount the Handler.
//   - Mutate engine state.
package prometheus
