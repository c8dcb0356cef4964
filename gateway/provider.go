// Package gateway is the ledger RPC boundary. It exposes the two
// primitives the client depends on, transaction submission and read-only
// contract queries, plus the transaction status signal settlement tracking
// is built on. The ledger node behind the gateway is opaque.
package gateway

import (
	"context"

	"github.com/blockberries/leaseberry/abi"
	"github.com/blockberries/leaseberry/types"
)

// TxStatus is the gateway-reported status of a submitted transaction.
type TxStatus string

// Transaction status values reported by the gateway.
const (
	TxPending TxStatus = "pending"
	TxSuccess TxStatus = "success"
	TxFail    TxStatus = "fail"
	TxInvalid TxStatus = "invalid"
	TxUnknown TxStatus = "unknown"
)

// IsFinal returns true once the status can no longer change. Settlement
// tracking only cares about "no longer pending"; success and failure are
// indistinguishable at that layer.
func (s TxStatus) IsFinal() bool {
	switch s {
	case TxSuccess, TxFail, TxInvalid:
		return true
	default:
		return false
	}
}

// Provider is the consumed ledger interface. Network calls are the only
// suspension points in this module, so every method takes a context.
type Provider interface {
	// Submit signs and broadcasts a transaction, returning the ledger's
	// transaction hash. Submission is at-most-once: a rejected submission
	// is never retried by this layer.
	Submit(ctx context.Context, tx *abi.Transaction) (string, error)

	// Query executes a read-only contract call and returns the ordered
	// field sequence of the response.
	Query(ctx context.Context, funcName string, args []string) ([]abi.Field, error)

	// TransactionStatus reports the current status of a submitted
	// transaction.
	TransactionStatus(ctx context.Context, txHash string) (TxStatus, error)

	// AccountNonce returns the current account nonce for an address.
	AccountNonce(ctx context.Context, addr types.Address) (uint64, error)
}

// Signer is the wallet boundary. Key management and signing UI are
// external collaborators; the gateway only needs an address and a
// signature over the serialized transaction.
type Signer interface {
	// Address returns the signing identity's address.
	Address() types.Address

	// Sign signs the serialized transaction bytes.
	Sign(msg []byte) ([]byte, error)
}

// StatusEvent is one transaction status update from the gateway's push
// stream.
type StatusEvent struct {
	// TxHash is the transaction the update refers to.
	TxHash string

	// Status is the reported status.
	Status TxStatus
}
