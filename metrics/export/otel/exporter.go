package otel

import (
	"context"
	"errors"
	"fmt"

	"github.com/ekstion/tokenauth"
	"go.opentelemetry.io/otel/metric"
)

var (
	ErrNilMeter  = errors.New("nil meter")
	ErrNilSource = errors.New("nil metrics source")
)

// metricsSource is satisfied by *tokenauth.Engine; tests substitute fakes.
type metricsSource interface {
	MetricsSnapshot() tokenauth.MetricsSnapshot
}

type counterDef struct {
	ID   tokenauth.MetricID
	Name string
	Help string
}

var counterDefs = []counterDef{
	{tokenauth.MetricIssueAccess, "tokenauth_access_tokens_issued_total", "Access tokens issued."},
	{tokenauth.MetricIssueRefresh, "tokenauth_refresh_tokens_issued_total", "Refresh tokens issued."},
	{tokenauth.MetricIssueVerification, "tokenauth_verification_tokens_issued_total", "Email verification tokens issued."},
	{tokenauth.MetricVerifySuccess, "tokenauth_verify_success_total", "Tokens that passed verification."},
	{tokenauth.MetricVerifyFailure, "tokenauth_verify_failure_total", "Tokens rejected during verification."},
	{tokenauth.MetricRefreshSuccess, "tokenauth_refresh_success_total", "Successful refresh exchanges."},
	{tokenauth.MetricRefreshFailure, "tokenauth_refresh_failure_total", "Rejected refresh exchanges."},
	{tokenauth.MetricLogout, "tokenauth_logouts_total", "Logout revocations written."},
	{tokenauth.MetricRevoke, "tokenauth_revocations_total", "Explicit single-token revocations."},
	{tokenauth.MetricRevokeAll, "tokenauth_bulk_revocations_total", "Bulk per-user revocation sweeps."},
}

type observedCounter struct {
	id         tokenauth.MetricID
	instrument metric.Int64ObservableCounter
}

// OTelExporter bridges the engine's in-process counters to an OpenTelemetry
// meter via observable counters. Values are read fresh from the snapshot on
// every collection, so the exporter itself holds no mutable state.
type OTelExporter struct {
	source       metricsSource
	registration metric.Registration
	counters     []observedCounter
}

// NewOTelExporter registers the engine's counters on meter.
func NewOTelExporter(meter metric.Meter, engine *tokenauth.Engine) (*OTelExporter, error) {
	return NewOTelExporterFromSource(meter, engine)
}

// NewOTelExporterFromSource is the generic constructor for any snapshot
// source.
func NewOTelExporterFromSource(meter metric.Meter, source metricsSource) (*OTelExporter, error) {
	if meter == nil {
		return nil, ErrNilMeter
	}
	if source == nil {
		return nil, ErrNilSource
	}

	exporter := &OTelExporter{
		source:   source,
		counters: make([]observedCounter, 0, len(counterDefs)),
	}

	observables := make([]metric.Observable, 0, len(counterDefs))
	for _, def := range counterDefs {
		ins, err := meter.Int64ObservableCounter(def.Name, metric.WithDescription(def.Help))
		if err != nil {
			return nil, fmt.Errorf("create observable counter %s: %w", def.Name, err)
		}
		exporter.counters = append(exporter.counters, observedCounter{id: def.ID, instrument: ins})
		observables = append(observables, ins)
	}

	registration, err := meter.RegisterCallback(func(_ context.Context, observer metric.Observer) error {
		snapshot := exporter.source.MetricsSnapshot()
		for _, c := range exporter.counters {
			observer.ObserveInt64(c.instrument, int64(snapshot.Counters[c.id]))
		}
		return nil
	}, observables...)
	if err != nil {
		return nil, fmt.Errorf("register callback: %w", err)
	}

	exporter.registration = registration
	return exporter, nil
}

// Close unregisters the collection callback. Safe on nil.
func (e *OTelExporter) Close() error {
	if e == nil || e.registration == nil {
		return nil
	}
	return e.registration.Unregister()
}
