/*
Package observability turns generation hooks into telemetry.

Each constructor returns a domain.Hooks value; combine several with
domain.ChainHooks and pass the result to mbt.WithHooks.

  - Metrics: Prometheus counters and coverage gauges.
  - NewTracingHooks: one OpenTelemetry span per step, backtrack and dead end.
  - NewLoggingHooks: structured log records through slog.
*/
package observability
