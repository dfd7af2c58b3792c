package tokenauth

import "sync/atomic"

// MetricID indexes a fixed-slot counter.
type MetricID uint16

const (
	// MetricIssueAccess counts issued access tokens.
	MetricIssueAccess MetricID = iota
	// MetricIssueRefresh counts issued refresh tokens.
	MetricIssueRefresh
	// MetricIssueVerification counts issued email-verification tokens.
	MetricIssueVerification
	// MetricVerifySuccess counts successful verifications.
	MetricVerifySuccess
	// MetricVerifyFailure counts failed verifications.
	MetricVerifyFailure
	// MetricRefreshSuccess counts successful refresh exchanges.
	MetricRefreshSuccess
	// MetricRefreshFailure counts rejected refresh exchanges.
	MetricRefreshFailure
	// MetricLogout counts logout revocations written.
	MetricLogout
	// MetricRevoke counts explicit single-token revocations.
	MetricRevoke
	// MetricRevokeAll counts bulk per-user revocations.
	MetricRevokeAll
	metricIDCount
)

const cacheLineSize = 64

// paddedCounter keeps adjacent hot counters on separate cache lines.
type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics is a set of lock-free counters. A nil or disabled Metrics is a
// no-op on every method.
type Metrics struct {
	enabled  bool
	counters [metricIDCount]paddedCounter
}

// NewMetrics returns counters honoring cfg.Enabled.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{enabled: cfg.Enabled}
}

// Enabled reports whether counting is active.
func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

// Inc increments one counter.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Value reads one counter.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// MetricsSnapshot is a point-in-time copy of all counters.
type MetricsSnapshot struct {
	Counters map[MetricID]uint64
}

// Snapshot copies every counter. Counters are read individually, so the
// snapshot is not a single atomic cut across IDs.
func (m *Metrics) Snapshot() MetricsSnapshot {
	s := MetricsSnapshot{Counters: make(map[MetricID]uint64, int(metricIDCount))}
	if m == nil || !m.enabled {
		return s
	}
	for id := MetricID(0); id < metricIDCount; id++ {
		s.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}
	return s
}
