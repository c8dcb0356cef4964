package metrics

import "time"

// NopMetrics is a no-op implementation of the Metrics interface.
// Use this when metrics collection is disabled.
type NopMetrics struct{}

// NewNopMetrics creates a new NopMetrics instance.
func NewNopMetrics() *NopMetrics {
	return &NopMetrics{}
}

// Submission metrics (no-op)

func (m *NopMetrics) IncSubmissions(endpoint string)        {}
func (m *NopMetrics) IncSubmissionFailures(endpoint string) {}
func (m *NopMetrics) ObserveSubmitDuration(d time.Duration) {}

// Settlement metrics (no-op)

func (m *NopMetrics) SetPendingRequests(n int)                  {}
func (m *NopMetrics) IncSettlements()                           {}
func (m *NopMetrics) ObserveSettlementDuration(d time.Duration) {}

// Query metrics (no-op)

func (m *NopMetrics) IncQueries(function string)                            {}
func (m *NopMetrics) IncQueryFailures(function string)                      {}
func (m *NopMetrics) IncDecodeFailures(kind string)                         {}
func (m *NopMetrics) ObserveQueryDuration(function string, d time.Duration) {}

// Ensure NopMetrics implements Metrics.
var _ Metrics = (*NopMetrics)(nil)
