// Package metrics provides metrics collection interfaces and
// implementations for leaseberry.
package metrics

import "time"

// Metrics defines the metrics collection interface for the contract
// client. Implementations must be safe for concurrent use.
type Metrics interface {
	// Submission metrics

	// IncSubmissions counts submitted transactions by contract endpoint.
	IncSubmissions(endpoint string)

	// IncSubmissionFailures counts ledger-rejected submissions by endpoint.
	IncSubmissionFailures(endpoint string)

	// ObserveSubmitDuration records the duration of a submission round trip.
	ObserveSubmitDuration(d time.Duration)

	// Settlement metrics

	// SetPendingRequests records the current number of in-flight requests.
	SetPendingRequests(n int)

	// IncSettlements counts settled requests.
	IncSettlements()

	// ObserveSettlementDuration records submission-to-settlement latency.
	ObserveSettlementDuration(d time.Duration)

	// Query metrics

	// IncQueries counts read-only queries by contract function.
	IncQueries(function string)

	// IncQueryFailures counts failed read-only queries by contract function.
	IncQueryFailures(function string)

	// IncDecodeFailures counts decode failures by kind
	// ("truncated", "invalid_text", "unknown_status").
	IncDecodeFailures(kind string)

	// ObserveQueryDuration records the duration of a query round trip.
	ObserveQueryDuration(function string, d time.Duration)
}
