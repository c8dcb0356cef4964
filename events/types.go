// Package events provides an in-memory pub/sub bus for client-side
// lifecycle events: submissions, settlements and reconciliation outcomes.
// The submission tracker builds its cancellable settlement awaitable on
// top of this bus.
package events

import "time"

// EventType identifies the kind of event.
type EventType string

// Event types published by the contract client.
const (
	// TypeSubmitted is published when a request is accepted by the ledger.
	TypeSubmitted EventType = "submitted"

	// TypeSettled is published when a tracked request is no longer
	// pending. Settlement does not imply success.
	TypeSettled EventType = "settled"

	// TypeReconciled is published after the post-settlement fetch
	// refreshed an agreement.
	TypeReconciled EventType = "reconciled"

	// TypeDiagnostic is published for decode and query failures that the
	// facade downgraded to "no data".
	TypeDiagnostic EventType = "diagnostic"
)

// Event is one client-side lifecycle event.
type Event struct {
	// Type is the event kind.
	Type EventType

	// Handle is the correlation handle ID of the affected request, if any.
	Handle string

	// TxHash is the ledger transaction hash, if known.
	TxHash string

	// AgreementID is the affected agreement, if any.
	AgreementID uint64

	// Detail is an optional human-readable detail (status name, error text).
	Detail string

	// Time is when the event was observed.
	Time time.Time
}

// Query selects events for a subscription.
type Query interface {
	// Matches returns true if the event should be delivered.
	Matches(Event) bool

	// String returns a stable representation used for subscription keys.
	String() string
}

// QueryAll matches every event.
type QueryAll struct{}

func (QueryAll) Matches(Event) bool { return true }
func (QueryAll) String() string     { return "all" }

// QueryType matches events of one type.
type QueryType struct {
	Type EventType
}

func (q QueryType) Matches(e Event) bool { return e.Type == q.Type }
func (q QueryType) String() string       { return "type:" + string(q.Type) }

// QueryHandle matches events for one correlation handle.
type QueryHandle struct {
	Handle string
}

func (q QueryHandle) Matches(e Event) bool { return e.Handle == q.Handle }
func (q QueryHandle) String() string       { return "handle:" + q.Handle }

// BusConfig contains configuration for the event bus.
type BusConfig struct {
	// BufferSize is the per-subscription channel buffer.
	BufferSize int

	// MaxSubscribers limits the total number of subscriptions.
	// 0 means unlimited.
	MaxSubscribers int
}

// DefaultBusConfig returns sensible defaults for bus configuration.
func DefaultBusConfig() BusConfig {
	return BusConfig{
		BufferSize:     100,
		MaxSubscribers: 0,
	}
}
