package abi

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/blockberries/leaseberry/types"
)

// Contract endpoint names.
const (
	EndpointCreate           = "createRentalContract"
	EndpointAccept           = "acceptContract"
	EndpointPay              = "makePayment"
	EndpointLandlordDecision = "landlordDecision"
	EndpointTenantDecision   = "tenantDecision"

	ViewAgreementDetails = "getContractDetails"
	ViewByLandlord       = "getContractsByLandlord"
	ViewByTenant         = "getContractsByTenant"
	ViewDepositDecision  = "getDepositDecisionDetails"
	ViewPaymentsStatus   = "getPaymentsStatus"
)

// Transaction is a fully specified, ready-to-submit contract call.
// It is unsigned; signing happens behind the gateway's wallet boundary.
type Transaction struct {
	// Nonce is the sender's account nonce. Filled by the gateway at
	// submission time.
	Nonce uint64 `json:"nonce"`

	// Value is the attached amount in the ledger's base unit as a
	// decimal string. "0" when no value is attached.
	Value string `json:"value"`

	// Receiver is the contract address.
	Receiver string `json:"receiver"`

	// Sender is the caller's address.
	Sender string `json:"sender"`

	// GasPrice is the configured price per computation unit.
	GasPrice uint64 `json:"gasPrice"`

	// GasLimit is the configured gas budget for contract calls.
	GasLimit uint64 `json:"gasLimit"`

	// Data is the encoded call: endpoint name plus hex-encoded arguments.
	Data []byte `json:"data"`

	// ChainID is the fixed network identifier.
	ChainID string `json:"chainID"`

	// Version is the transaction format version.
	Version uint32 `json:"version"`

	// Signature is set by the signer before broadcast.
	Signature string `json:"signature,omitempty"`
}

// Endpoint returns the endpoint name encoded in the transaction data.
func (tx *Transaction) Endpoint() string {
	data := string(tx.Data)
	if i := strings.IndexByte(data, '@'); i >= 0 {
		return data[:i]
	}
	return data
}

// HasValue returns true if the transaction attaches a non-zero amount.
func (tx *Transaction) HasValue() bool {
	return tx.Value != "" && tx.Value != "0"
}

// BuilderConfig fixes the constants every built request carries. All of
// these are configuration, not computed.
type BuilderConfig struct {
	// ContractAddress is the deployed contract's address.
	ContractAddress types.Address

	// ChainID is the network identifier (e.g. "D" for devnet).
	ChainID string

	// GasLimit is the gas budget for contract calls.
	GasLimit uint64

	// GasPrice is the price per computation unit.
	GasPrice uint64
}

// Builder constructs ready-to-submit requests for the contract's write
// endpoints. It performs no on-chain validation: authorization is the
// ledger's job, the builder's contract is purely "construct a correctly
// shaped request".
type Builder struct {
	cfg BuilderConfig
}

// NewBuilder creates a Builder. The contract address must be set.
func NewBuilder(cfg BuilderConfig) (*Builder, error) {
	if cfg.ContractAddress.IsEmpty() {
		return nil, types.ErrEmptyContractAddress
	}
	return &Builder{cfg: cfg}, nil
}

// Create builds the request that creates a new agreement. The sender
// becomes the landlord. No value is attached.
func (b *Builder) Create(sender types.Address, p types.CreateParams) (*Transaction, error) {
	if sender.IsEmpty() {
		return nil, types.ErrNotAuthenticated
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	tenantArg, err := ArgAddress(p.Tenant)
	if err != nil {
		return nil, types.WrapParamError(err, "tenant")
	}
	data := encodeCall(EndpointCreate,
		tenantArg,
		ArgBigUint(p.Deposit),
		ArgBigUint(p.MonthlyRent),
		ArgU64(p.DurationMonths),
		ArgString(p.Reference),
	)
	return b.transaction(sender, data, nil), nil
}

// Accept builds the request that accepts an agreement. The attached value
// is the caller-supplied deposit; the ledger rejects the call unless it
// equals the on-chain deposit.
func (b *Builder) Accept(sender types.Address, id types.AgreementID, deposit *big.Int) (*Transaction, error) {
	if sender.IsEmpty() {
		return nil, types.ErrNotAuthenticated
	}
	if deposit == nil || deposit.Sign() <= 0 {
		return nil, types.WrapParamError(types.ErrNonPositiveAmount, "deposit")
	}
	data := encodeCall(EndpointAccept, ArgU64(id.Uint64()))
	return b.transaction(sender, data, deposit), nil
}

// Pay builds one monthly rent payment. Repeatable up to the agreement's
// total expected payments; the ledger enforces the limit.
func (b *Builder) Pay(sender types.Address, id types.AgreementID, rent *big.Int) (*Transaction, error) {
	if sender.IsEmpty() {
		return nil, types.ErrNotAuthenticated
	}
	if rent == nil || rent.Sign() <= 0 {
		return nil, types.WrapParamError(types.ErrNonPositiveAmount, "rent")
	}
	data := encodeCall(EndpointPay, ArgU64(id.Uint64()))
	return b.transaction(sender, data, rent), nil
}

// LandlordDecision builds the landlord's deposit decision.
func (b *Builder) LandlordDecision(sender types.Address, id types.AgreementID, wantsReturn bool) (*Transaction, error) {
	if sender.IsEmpty() {
		return nil, types.ErrNotAuthenticated
	}
	data := encodeCall(EndpointLandlordDecision, ArgU64(id.Uint64()), ArgBool(wantsReturn))
	return b.transaction(sender, data, nil), nil
}

// TenantDecision builds the tenant's deposit decision.
func (b *Builder) TenantDecision(sender types.Address, id types.AgreementID, wantsReturn bool) (*Transaction, error) {
	if sender.IsEmpty() {
		return nil, types.ErrNotAuthenticated
	}
	data := encodeCall(EndpointTenantDecision, ArgU64(id.Uint64()), ArgBool(wantsReturn))
	return b.transaction(sender, data, nil), nil
}

func (b *Builder) transaction(sender types.Address, data string, value *big.Int) *Transaction {
	v := "0"
	if value != nil {
		v = value.String()
	}
	return &Transaction{
		Value:    v,
		Receiver: b.cfg.ContractAddress.String(),
		Sender:   sender.String(),
		GasPrice: b.cfg.GasPrice,
		GasLimit: b.cfg.GasLimit,
		Data:     []byte(data),
		ChainID:  b.cfg.ChainID,
		Version:  1,
	}
}

// encodeCall joins an endpoint name and hex-encoded arguments with '@',
// the contract's call data format.
func encodeCall(endpoint string, args ...string) string {
	if len(args) == 0 {
		return endpoint
	}
	return endpoint + "@" + strings.Join(args, "@")
}

// ArgAddress hex-encodes an address argument for a contract call.
func ArgAddress(addr types.Address) (string, error) {
	raw, err := EncodeAddressField(addr.String())
	if err != nil {
		return "", fmt.Errorf("not a valid address: %w", err)
	}
	return hex.EncodeToString(raw), nil
}

// ArgBigUint hex-encodes an unsigned big integer argument.
func ArgBigUint(v *big.Int) string {
	return hex.EncodeToString(EncodeBigUintField(v))
}

// ArgU64 hex-encodes a bounded unsigned integer argument.
func ArgU64(v uint64) string {
	return hex.EncodeToString(EncodeU64Field(v))
}

// ArgString hex-encodes a text argument.
func ArgString(s string) string {
	return hex.EncodeToString(EncodeTextField(s))
}

// ArgBool hex-encodes a boolean argument.
func ArgBool(v bool) string {
	return hex.EncodeToString(EncodeBoolField(v))
}
