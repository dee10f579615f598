// Package observability provides OpenTelemetry tracing and metrics for flow runs.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("nightly-etl"))
//	defer tp.Shutdown(ctx)
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("nightly-etl"))
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewMetrics(observability.Meter("flowkit"))
//	metrics.RecordRunEnd(ctx, "nightly-etl", "success", duration)
//
// Without Init* calls the global OpenTelemetry providers are no-ops, so
// instrumented code costs almost nothing.
package observability
