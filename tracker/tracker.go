// Package tracker tracks submitted transactions until settlement.
//
// A submission returns a correlation handle immediately; the tracker's
// poll loop (or an external status stream) watches the ledger until the
// transaction is no longer pending. Settlement only means "no longer
// pending": success and failure are indistinguishable at this layer, and
// callers re-fetch state after settlement to observe the outcome.
package tracker

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/blockberries/leaseberry/abi"
	"github.com/blockberries/leaseberry/events"
	"github.com/blockberries/leaseberry/gateway"
	"github.com/blockberries/leaseberry/logging"
	"github.com/blockberries/leaseberry/metrics"
	"github.com/blockberries/leaseberry/types"
)

// Operation is the logical write operation a submission performs.
type Operation string

// Operations tracked per submission.
const (
	OpCreate           Operation = "create"
	OpAccept           Operation = "accept"
	OpPay              Operation = "pay"
	OpLandlordDecision Operation = "landlord_decision"
	OpTenantDecision   Operation = "tenant_decision"
)

// Handle is the opaque correlation handle returned at submission. It
// binds a submitted transaction to the logical operation and target
// agreement it affects.
type Handle struct {
	// ID is the client-local correlation identifier.
	ID string

	// TxHash is the ledger's transaction hash.
	TxHash string

	// Op is the logical operation.
	Op Operation

	// AgreementID is the affected agreement. Zero for create, whose ID is
	// assigned on chain.
	AgreementID types.AgreementID

	// SubmittedAt is when the submission was accepted.
	SubmittedAt time.Time
}

// Settlement records the terminal observation for a handle.
type Settlement struct {
	// Handle is the settled request.
	Handle Handle

	// Status is the last status the tracker observed. TxUnknown when the
	// settlement was inferred rather than reported.
	Status gateway.TxStatus

	// SettledAt is when settlement was observed.
	SettledAt time.Time
}

// settledHistorySize bounds the settled-handle history kept for late
// Await calls.
const settledHistorySize = 256

type pendingEntry struct {
	handle Handle
}

// Tracker submits transactions and tracks their settlement. It is safe
// for concurrent use.
type Tracker struct {
	provider     gateway.Provider
	bus          *events.Bus
	logger       *logging.Logger
	metrics      metrics.Metrics
	pollInterval time.Duration

	mu      sync.Mutex
	pending map[string]*pendingEntry // by handle ID
	byHash  map[string]string        // tx hash -> handle ID
	settled *lru.Cache[string, Settlement]

	running atomic.Bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithLogger sets the diagnostic logger.
func WithLogger(l *logging.Logger) Option {
	return func(t *Tracker) { t.logger = l }
}

// WithMetrics sets the metrics backend.
func WithMetrics(m metrics.Metrics) Option {
	return func(t *Tracker) { t.metrics = m }
}

// WithPollInterval sets the status poll interval.
func WithPollInterval(d time.Duration) Option {
	return func(t *Tracker) {
		if d > 0 {
			t.pollInterval = d
		}
	}
}

// New creates a Tracker over the given provider.
func New(provider gateway.Provider, opts ...Option) *Tracker {
	settled, _ := lru.New[string, Settlement](settledHistorySize)
	t := &Tracker{
		provider:     provider,
		bus:          events.NewBus(),
		logger:       logging.NewNopLogger(),
		metrics:      metrics.NewNopMetrics(),
		pollInterval: 2 * time.Second,
		pending:      make(map[string]*pendingEntry),
		byHash:       make(map[string]string),
		settled:      settled,
		stopCh:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.logger = t.logger.WithComponent("tracker")
	return t
}

// Start starts the settlement poll loop.
func (t *Tracker) Start() error {
	if t.running.Swap(true) {
		return nil // Already running
	}
	t.stopCh = make(chan struct{})
	if err := t.bus.Start(); err != nil {
		return err
	}
	t.wg.Add(1)
	go t.pollLoop()
	return nil
}

// Stop stops the poll loop and the event bus. Pending entries are kept;
// a restarted tracker resumes watching them.
func (t *Tracker) Stop() error {
	if !t.running.Swap(false) {
		return nil // Already stopped
	}
	close(t.stopCh)
	t.wg.Wait()
	return t.bus.Stop()
}

// Submit broadcasts a built transaction and returns its correlation
// handle. Submission is at-most-once: a ledger rejection propagates
// immediately and nothing is retried.
func (t *Tracker) Submit(ctx context.Context, tx *abi.Transaction, op Operation, id types.AgreementID) (Handle, error) {
	if !t.running.Load() {
		return Handle{}, types.ErrTrackerClosed
	}

	endpoint := tx.Endpoint()
	txHash, err := t.provider.Submit(ctx, tx)
	if err != nil {
		t.metrics.IncSubmissionFailures(endpoint)
		return Handle{}, err
	}
	t.metrics.IncSubmissions(endpoint)

	handle := Handle{
		ID:          uuid.NewString(),
		TxHash:      txHash,
		Op:          op,
		AgreementID: id,
		SubmittedAt: time.Now(),
	}

	t.mu.Lock()
	t.pending[handle.ID] = &pendingEntry{handle: handle}
	t.byHash[txHash] = handle.ID
	pending := len(t.pending)
	t.mu.Unlock()
	t.metrics.SetPendingRequests(pending)

	t.logger.Info("request submitted",
		logging.Handle(handle.ID),
		logging.TxHash(txHash),
		logging.Function(endpoint),
		logging.AgreementID(id.Uint64()),
		logging.Pending(pending),
	)

	_ = t.bus.Publish(events.Event{
		Type:        events.TypeSubmitted,
		Handle:      handle.ID,
		TxHash:      txHash,
		AgreementID: id.Uint64(),
		Time:        handle.SubmittedAt,
	})

	return handle, nil
}

// HasPending returns true while any submitted request is still pending.
func (t *Tracker) HasPending() bool {
	return t.PendingCount() > 0
}

// PendingCount returns the number of in-flight requests.
func (t *Tracker) PendingCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.pending)
}

// Settled reports the settlement for a handle, if observed.
func (t *Tracker) Settled(handleID string) (Settlement, bool) {
	return t.settled.Get(handleID)
}

// Await blocks until the handle settles or ctx is cancelled. It is the
// cancellable awaitable the facade's reconciliation builds on: callers
// that navigate away cancel the context and the settlement is simply
// dropped for them.
func (t *Tracker) Await(ctx context.Context, handle Handle) (Settlement, error) {
	if s, ok := t.settled.Get(handle.ID); ok {
		return s, nil
	}

	t.mu.Lock()
	_, isPending := t.pending[handle.ID]
	t.mu.Unlock()
	if !isPending {
		if s, ok := t.settled.Get(handle.ID); ok {
			return s, nil
		}
		return Settlement{}, types.ErrUnknownHandle
	}

	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	subscriber := "await-" + uuid.NewString()
	ch, err := t.bus.Subscribe(subCtx, subscriber, events.QueryHandle{Handle: handle.ID})
	if err != nil {
		return Settlement{}, err
	}

	// The handle may have settled between the pending check and the
	// subscription; re-check before waiting.
	if s, ok := t.settled.Get(handle.ID); ok {
		return s, nil
	}

	for {
		select {
		case event, ok := <-ch:
			if !ok {
				// The bus also closes the channel when ctx cancellation
				// unsubscribes us.
				if err := ctx.Err(); err != nil {
					return Settlement{}, err
				}
				return Settlement{}, types.ErrTrackerClosed
			}
			if event.Type != events.TypeSettled {
				continue
			}
			if s, ok := t.settled.Get(handle.ID); ok {
				return s, nil
			}
			return Settlement{
				Handle:    handle,
				Status:    gateway.TxStatus(event.Detail),
				SettledAt: event.Time,
			}, nil
		case <-ctx.Done():
			return Settlement{}, ctx.Err()
		}
	}
}

// Events exposes the tracker's event bus for observers (diagnostics,
// UI bridges). Consumers must treat the signal as read-only.
func (t *Tracker) Events() *events.Bus {
	return t.bus
}

// ProcessStatus feeds an externally observed status update into the
// tracker, typically from the gateway's websocket stream. Unknown hashes
// are ignored.
func (t *Tracker) ProcessStatus(event gateway.StatusEvent) {
	if !event.Status.IsFinal() {
		return
	}
	t.mu.Lock()
	handleID, ok := t.byHash[event.TxHash]
	t.mu.Unlock()
	if !ok {
		return
	}
	t.settle(handleID, event.Status)
}

// pollLoop periodically asks the gateway for the status of every pending
// transaction and settles the ones that are no longer pending.
func (t *Tracker) pollLoop() {
	defer t.wg.Done()

	ticker := time.NewTicker(t.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			t.pollOnce()
		case <-t.stopCh:
			return
		}
	}
}

func (t *Tracker) pollOnce() {
	t.mu.Lock()
	entries := make([]*pendingEntry, 0, len(t.pending))
	for _, e := range t.pending {
		entries = append(entries, e)
	}
	t.mu.Unlock()

	for _, e := range entries {
		ctx, cancel := context.WithTimeout(context.Background(), t.pollInterval)
		status, err := t.provider.TransactionStatus(ctx, e.handle.TxHash)
		cancel()
		if err != nil {
			t.logger.Debug("status poll failed",
				logging.TxHash(e.handle.TxHash),
				logging.Error(err),
			)
			continue
		}
		if status.IsFinal() {
			t.settle(e.handle.ID, status)
		}
	}
}

func (t *Tracker) settle(handleID string, status gateway.TxStatus) {
	t.mu.Lock()
	entry, ok := t.pending[handleID]
	if !ok {
		t.mu.Unlock()
		return
	}
	delete(t.pending, handleID)
	delete(t.byHash, entry.handle.TxHash)
	pending := len(t.pending)
	t.mu.Unlock()

	settledAt := time.Now()
	settlement := Settlement{
		Handle:    entry.handle,
		Status:    status,
		SettledAt: settledAt,
	}
	t.settled.Add(handleID, settlement)

	t.metrics.SetPendingRequests(pending)
	t.metrics.IncSettlements()
	t.metrics.ObserveSettlementDuration(settledAt.Sub(entry.handle.SubmittedAt))

	t.logger.Info("request settled",
		logging.Handle(handleID),
		logging.TxHash(entry.handle.TxHash),
		logging.TxStatus(string(status)),
		logging.Pending(pending),
	)

	_ = t.bus.Publish(events.Event{
		Type:        events.TypeSettled,
		Handle:      handleID,
		TxHash:      entry.handle.TxHash,
		AgreementID: entry.handle.AgreementID.Uint64(),
		Detail:      string(status),
		Time:        settledAt,
	})
}
