// Package otel exports the tokenauth engine counters through an
// OpenTelemetry meter.
//
// [NewOTelExporter] registers an Int64ObservableCounter per engine metric
// and a single callback that reads [tokenauth.Engine.MetricsSnapshot] on
// each collection cycle. Callers own the MeterProvider; this package never
// creates one.
package otel
