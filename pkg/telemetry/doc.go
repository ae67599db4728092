// Package telemetry connects a reconcile.Runtime to Prometheus and
// OpenTelemetry.
//
// # Prometheus Metrics
//
// Prometheus returns a reconcile.Metrics that counts node and component
// creation (split by whether the pool supplied them), render passes by
// mode, unmounts, failures, and flush batch sizes and durations:
//
//	m := telemetry.Prometheus(telemetry.WithNamespace("myapp"))
//	rt := reconcile.New(reconcile.WithMetrics(m))
//
//	http.Handle("/metrics", promhttp.Handler())
//
// Pool and queue sizes are gauges; call m.Observe(rt.Stats()) after a
// render to refresh them.
//
// # OpenTelemetry
//
// OpenTelemetry returns a reconcile.Tracer. Each Render and Flush becomes
// a span named vtree.render or vtree.flush with the number of nodes
// created and components rendered attached:
//
//	rt := reconcile.New(reconcile.WithTracer(telemetry.OpenTelemetry(
//	    telemetry.WithParentContext(r.Context()),
//	)))
//
// Spans end with codes.Error and the recorded error when the operation
// fails.
package telemetry
