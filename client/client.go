// Package client provides the contract client facade. It composes the
// transaction builder, submission tracker and query decoder into the
// caller-facing operations of the lease contract, and owns the
// reconciliation policy applied after settlement.
package client

import (
	"context"
	"errors"
	"math/big"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/blockberries/leaseberry/abi"
	"github.com/blockberries/leaseberry/config"
	"github.com/blockberries/leaseberry/gateway"
	"github.com/blockberries/leaseberry/logging"
	"github.com/blockberries/leaseberry/metrics"
	"github.com/blockberries/leaseberry/tracker"
	"github.com/blockberries/leaseberry/types"
)

// Identity supplies the caller's ledger identity. It comes from the
// external wallet collaborator and is required for all write operations.
type Identity interface {
	// Address returns the caller's address. Empty means not authenticated.
	Address() types.Address
}

// Client is the contract client facade. All reads return fresh value
// objects; the client holds no mutable shared cache, so no internal
// locking is needed beyond the tracker's own.
type Client struct {
	cfg      *config.Config
	provider gateway.Provider
	identity Identity
	builder  *abi.Builder
	decoder  *abi.Decoder
	tracker  *tracker.Tracker
	logger   *logging.Logger
	metrics  metrics.Metrics

	streamCancel context.CancelFunc
	streamDone   chan struct{}
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the diagnostic logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithMetrics sets the metrics backend.
func WithMetrics(m metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// New creates a Client from configuration, a gateway provider and a
// caller identity. identity may be nil; write operations then fail with
// ErrNotAuthenticated until one is supplied at construction of a new
// client.
func New(cfg *config.Config, provider gateway.Provider, identity Identity, opts ...Option) (*Client, error) {
	builder, err := abi.NewBuilder(abi.BuilderConfig{
		ContractAddress: types.Address(cfg.Contract.Address),
		ChainID:         cfg.Contract.ChainID,
		GasLimit:        cfg.Contract.GasLimit,
		GasPrice:        cfg.Contract.GasPrice,
	})
	if err != nil {
		return nil, err
	}

	c := &Client{
		cfg:      cfg,
		provider: provider,
		identity: identity,
		builder:  builder,
		decoder:  abi.NewDecoder(cfg.Contract.AddressHRP),
		logger:   logging.NewNopLogger(),
		metrics:  metrics.NewNopMetrics(),
	}
	for _, opt := range opts {
		opt(c)
	}
	// The tracker tags its own component, so it gets the base logger.
	baseLogger := c.logger
	c.logger = baseLogger.WithComponent("client")

	c.tracker = tracker.New(provider,
		tracker.WithLogger(baseLogger),
		tracker.WithMetrics(c.metrics),
		tracker.WithPollInterval(cfg.Client.PollInterval.Duration()),
	)

	return c, nil
}

// Start starts the settlement tracker and, if configured, the gateway's
// websocket status stream.
func (c *Client) Start() error {
	if err := c.tracker.Start(); err != nil {
		return err
	}
	if c.cfg.Gateway.WSURL != "" {
		ctx, cancel := context.WithCancel(context.Background())
		stream, err := gateway.DialStatusStream(ctx, c.cfg.Gateway.WSURL, c.logger)
		if err != nil {
			// The poll loop still observes settlement without the stream.
			c.logger.Warn("status stream unavailable, relying on polling",
				logging.Error(err))
			cancel()
			return nil
		}
		c.streamCancel = cancel
		c.streamDone = make(chan struct{})
		go func() {
			defer close(c.streamDone)
			defer stream.Close()
			for event := range stream.Events() {
				c.tracker.ProcessStatus(event)
			}
		}()
	}
	return nil
}

// Stop stops the tracker and the status stream.
func (c *Client) Stop() error {
	if c.streamCancel != nil {
		c.streamCancel()
		<-c.streamDone
		c.streamCancel = nil
	}
	return c.tracker.Stop()
}

// Tracker exposes the submission tracker for observers. The in-flight
// signal must be read, not mutated, by consumers.
func (c *Client) Tracker() *tracker.Tracker {
	return c.tracker
}

// HasPending reports whether any write operation is still in flight.
func (c *Client) HasPending() bool {
	return c.tracker.HasPending()
}

func (c *Client) sender() types.Address {
	if c.identity == nil {
		return ""
	}
	return c.identity.Address()
}

// Create submits a new agreement. The caller becomes the landlord; the
// resulting agreement ID is assigned on chain and discovered through the
// landlord's list after settlement.
func (c *Client) Create(ctx context.Context, p types.CreateParams) (tracker.Handle, error) {
	tx, err := c.builder.Create(c.sender(), p)
	if err != nil {
		return tracker.Handle{}, err
	}
	return c.tracker.Submit(ctx, tx, tracker.OpCreate, 0)
}

// Accept submits the tenant's acceptance, attaching the caller-supplied
// deposit. The ledger rejects the call unless the value equals the
// on-chain deposit.
func (c *Client) Accept(ctx context.Context, id types.AgreementID, deposit *big.Int) (tracker.Handle, error) {
	tx, err := c.builder.Accept(c.sender(), id, deposit)
	if err != nil {
		return tracker.Handle{}, err
	}
	return c.tracker.Submit(ctx, tx, tracker.OpAccept, id)
}

// Pay submits one monthly rent payment.
func (c *Client) Pay(ctx context.Context, id types.AgreementID, rent *big.Int) (tracker.Handle, error) {
	tx, err := c.builder.Pay(c.sender(), id, rent)
	if err != nil {
		return tracker.Handle{}, err
	}
	return c.tracker.Submit(ctx, tx, tracker.OpPay, id)
}

// LandlordDecision submits the landlord's deposit decision.
func (c *Client) LandlordDecision(ctx context.Context, id types.AgreementID, wantsReturn bool) (tracker.Handle, error) {
	tx, err := c.builder.LandlordDecision(c.sender(), id, wantsReturn)
	if err != nil {
		return tracker.Handle{}, err
	}
	return c.tracker.Submit(ctx, tx, tracker.OpLandlordDecision, id)
}

// TenantDecision submits the tenant's deposit decision.
func (c *Client) TenantDecision(ctx context.Context, id types.AgreementID, wantsReturn bool) (tracker.Handle, error) {
	tx, err := c.builder.TenantDecision(c.sender(), id, wantsReturn)
	if err != nil {
		return tracker.Handle{}, err
	}
	return c.tracker.Submit(ctx, tx, tracker.OpTenantDecision, id)
}

// Await blocks until the handle settles or ctx is cancelled.
func (c *Client) Await(ctx context.Context, handle tracker.Handle) (tracker.Settlement, error) {
	return c.tracker.Await(ctx, handle)
}

// Reconcile waits for the handle to settle, applies the configured settle
// delay, then re-fetches the affected agreement. The delay is a
// deliberate staleness buffer: ledger state propagation lags transaction
// confirmation by about one block. Cancelling ctx drops the
// reconciliation; it is never retried in the background.
//
// For create operations the new agreement's ID is not known client-side,
// so Reconcile returns nil after the delay; callers discover the ID
// through ListByLandlord.
func (c *Client) Reconcile(ctx context.Context, handle tracker.Handle) (*types.Agreement, error) {
	if _, err := c.tracker.Await(ctx, handle); err != nil {
		return nil, err
	}

	timer := time.NewTimer(c.cfg.Client.SettleDelay.Duration())
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if handle.Op == tracker.OpCreate {
		return nil, nil
	}
	return c.GetAgreement(ctx, handle.AgreementID)
}

// GetAgreement fetches and decodes one agreement. Query and decode
// failures are reported as diagnostics and surface as an absent result,
// never a crash; only context cancellation is returned as an error.
func (c *Client) GetAgreement(ctx context.Context, id types.AgreementID) (*types.Agreement, error) {
	fields, err := c.query(ctx, abi.ViewAgreementDetails, abi.ArgU64(id.Uint64()))
	if err != nil {
		return nil, c.degradeRead(err, abi.ViewAgreementDetails, id)
	}

	agreement, err := c.decoder.DecodeAgreement(id, fields)
	if err != nil {
		c.reportDecodeFailure(err, abi.ViewAgreementDetails, id, len(fields))
		return nil, nil
	}

	// The contract should never report more payments than expected. The
	// values are flagged, not adjusted.
	if agreement.PaymentsMade > agreement.TotalPaymentsExpected {
		c.logger.Warn("agreement reports more payments than expected",
			logging.AgreementID(id.Uint64()),
			logging.Count(int(agreement.PaymentsMade)),
		)
	}
	return agreement, nil
}

// GetDepositDecision fetches the deposit decision record. Meaningful only
// for agreements in Completed, InDispute or Finalized; for earlier states
// the contract reports no record and the result is absent.
func (c *Client) GetDepositDecision(ctx context.Context, id types.AgreementID) (*types.DepositDecision, error) {
	fields, err := c.query(ctx, abi.ViewDepositDecision, abi.ArgU64(id.Uint64()))
	if err != nil {
		return nil, c.degradeRead(err, abi.ViewDepositDecision, id)
	}

	decision, err := c.decoder.DecodeDepositDecision(fields)
	if err != nil {
		c.reportDecodeFailure(err, abi.ViewDepositDecision, id, len(fields))
		return nil, nil
	}
	return decision, nil
}

// PaymentsStatus fetches the compact payment progress view.
func (c *Client) PaymentsStatus(ctx context.Context, id types.AgreementID) (*types.PaymentStatus, error) {
	fields, err := c.query(ctx, abi.ViewPaymentsStatus, abi.ArgU64(id.Uint64()))
	if err != nil {
		return nil, c.degradeRead(err, abi.ViewPaymentsStatus, id)
	}

	status, err := c.decoder.DecodePaymentStatus(fields)
	if err != nil {
		c.reportDecodeFailure(err, abi.ViewPaymentsStatus, id, len(fields))
		return nil, nil
	}
	return status, nil
}

// ListByLandlord returns the IDs of the agreements a landlord created.
// An empty list is a legitimate "no agreements yet" state.
func (c *Client) ListByLandlord(ctx context.Context, addr types.Address) ([]types.AgreementID, error) {
	return c.listByAddress(ctx, abi.ViewByLandlord, addr)
}

// ListByTenant returns the IDs of the agreements naming a tenant.
func (c *Client) ListByTenant(ctx context.Context, addr types.Address) ([]types.AgreementID, error) {
	return c.listByAddress(ctx, abi.ViewByTenant, addr)
}

// ListByParticipant returns the union of the landlord and tenant lists
// for one address, deduplicated in first-seen order with the landlord
// list first. Both lists are fetched concurrently.
func (c *Client) ListByParticipant(ctx context.Context, addr types.Address) ([]types.AgreementID, error) {
	var asLandlord, asTenant []types.AgreementID

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ids, err := c.ListByLandlord(gctx, addr)
		asLandlord = ids
		return err
	})
	g.Go(func() error {
		ids, err := c.ListByTenant(gctx, addr)
		asTenant = ids
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return MergeIDs(asLandlord, asTenant), nil
}

// MergeIDs unions two ID lists, removing duplicates while preserving
// first-seen order.
func MergeIDs(a, b []types.AgreementID) []types.AgreementID {
	seen := make(map[types.AgreementID]struct{}, len(a)+len(b))
	merged := make([]types.AgreementID, 0, len(a)+len(b))
	for _, id := range a {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		merged = append(merged, id)
	}
	for _, id := range b {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		merged = append(merged, id)
	}
	return merged
}

// AvailableActions reports which write operations are meaningful for an
// agreement in its current status. This gating is advisory; the ledger is
// the actual authority and rejects anything out of order.
func (c *Client) AvailableActions(a *types.Agreement) []types.Action {
	if a == nil {
		return nil
	}
	switch a.Status {
	case types.StatusPending:
		return []types.Action{types.ActionAccept}
	case types.StatusActive:
		if a.PaymentsRemaining() > 0 {
			return []types.Action{types.ActionPay}
		}
		return nil
	case types.StatusCompleted:
		return []types.Action{types.ActionLandlordDecide, types.ActionTenantDecide}
	default:
		// InDispute resolution is out of band; Finalized is terminal.
		return nil
	}
}

func (c *Client) listByAddress(ctx context.Context, view string, addr types.Address) ([]types.AgreementID, error) {
	arg, err := abi.ArgAddress(addr)
	if err != nil {
		c.logger.Warn("list query skipped: bad address",
			logging.Function(view),
			logging.Address(addr.String()),
			logging.Error(err),
		)
		return []types.AgreementID{}, nil
	}

	fields, err := c.query(ctx, view, arg)
	if err != nil {
		if isCtxErr(err) {
			return nil, err
		}
		c.logger.Warn("list query failed",
			logging.Function(view),
			logging.Address(addr.String()),
			logging.Error(err),
		)
		return []types.AgreementID{}, nil
	}
	return c.decoder.DecodeAgreementIDs(fields), nil
}

func (c *Client) query(ctx context.Context, funcName string, args ...string) ([]abi.Field, error) {
	c.metrics.IncQueries(funcName)
	fields, err := c.provider.Query(ctx, funcName, args)
	if err != nil {
		c.metrics.IncQueryFailures(funcName)
		return nil, err
	}
	return fields, nil
}

// degradeRead converts a query failure into the read contract's "absent"
// result, keeping context cancellation as a real error.
func (c *Client) degradeRead(err error, funcName string, id types.AgreementID) error {
	if isCtxErr(err) {
		return err
	}
	c.logger.Warn("read degraded to no data",
		logging.Function(funcName),
		logging.AgreementID(id.Uint64()),
		logging.Error(err),
	)
	return nil
}

func (c *Client) reportDecodeFailure(err error, funcName string, id types.AgreementID, fieldCount int) {
	c.metrics.IncDecodeFailures(decodeKind(err))
	c.logger.Warn("query response decode failed",
		logging.Function(funcName),
		logging.AgreementID(id.Uint64()),
		logging.Fields(fieldCount),
		logging.Error(err),
	)
}

func decodeKind(err error) string {
	var truncated *types.TruncatedError
	var invalidText *types.InvalidTextError
	var unknownStatus *types.UnknownStatusError
	switch {
	case errors.As(err, &truncated):
		return "truncated"
	case errors.As(err, &invalidText):
		return "invalid_text"
	case errors.As(err, &unknownStatus):
		return "unknown_status"
	default:
		return "other"
	}
}

func isCtxErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
