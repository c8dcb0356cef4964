// Package types provides common type definitions for leaseberry.
package types

import (
	"fmt"
	"math/big"
)

// AgreementID identifies a lease agreement on the ledger.
// IDs are assigned by the contract and are immutable once created.
type AgreementID uint64

// String returns the agreement ID as a string.
func (id AgreementID) String() string {
	return fmt.Sprintf("%d", id)
}

// Uint64 returns the agreement ID as a uint64.
func (id AgreementID) Uint64() uint64 {
	return uint64(id)
}

// Address is a ledger account identifier in its display encoding.
type Address string

// String returns the address as a string.
func (a Address) String() string {
	return string(a)
}

// IsEmpty returns true if the address is empty.
func (a Address) IsEmpty() bool {
	return a == ""
}

// Agreement is the client-side view of a lease agreement stored on the
// ledger. Instances are value objects: every successful fetch returns a
// fresh copy and nothing in this module retains or mutates one.
type Agreement struct {
	// ID is the ledger-assigned agreement identifier.
	ID AgreementID

	// Landlord is the account that created the agreement.
	Landlord Address

	// Tenant is the designated tenant. Empty until the tenant accepts.
	Tenant Address

	// Deposit is the security deposit in the ledger's base unit.
	Deposit *big.Int

	// MonthlyRent is the rent per month in the ledger's base unit.
	MonthlyRent *big.Int

	// DurationMonths is the agreed lease duration in months.
	DurationMonths uint64

	// Reference is a free-text description, opaque to this layer.
	Reference string

	// StartTimestamp is the lease start in unix seconds. 0 means the
	// tenant has not accepted yet.
	StartTimestamp uint64

	// EndTimestamp is the lease end in unix seconds. 0 means not started.
	EndTimestamp uint64

	// PaymentsMade is the number of rent payments confirmed so far.
	PaymentsMade uint64

	// TotalPaymentsExpected is the total number of rent payments due.
	TotalPaymentsExpected uint64

	// Status is the contract-assigned lifecycle status. The client never
	// assigns this locally; every value originates from a query decode.
	Status AgreementStatus
}

// Equal returns true if the two agreements have identical field values.
func (a *Agreement) Equal(other *Agreement) bool {
	if a == nil || other == nil {
		return a == other
	}
	return a.ID == other.ID &&
		a.Landlord == other.Landlord &&
		a.Tenant == other.Tenant &&
		bigEqual(a.Deposit, other.Deposit) &&
		bigEqual(a.MonthlyRent, other.MonthlyRent) &&
		a.DurationMonths == other.DurationMonths &&
		a.Reference == other.Reference &&
		a.StartTimestamp == other.StartTimestamp &&
		a.EndTimestamp == other.EndTimestamp &&
		a.PaymentsMade == other.PaymentsMade &&
		a.TotalPaymentsExpected == other.TotalPaymentsExpected &&
		a.Status == other.Status
}

// Accepted returns true if the designated tenant has accepted the agreement.
func (a *Agreement) Accepted() bool {
	return a.Status != StatusPending
}

// PaymentsRemaining returns the number of rent payments still due.
func (a *Agreement) PaymentsRemaining() uint64 {
	if a.PaymentsMade >= a.TotalPaymentsExpected {
		return 0
	}
	return a.TotalPaymentsExpected - a.PaymentsMade
}

func bigEqual(a, b *big.Int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Cmp(b) == 0
}

// DepositDecision records each party's choice about returning the security
// deposit. It is meaningful only once an agreement reaches Completed or a
// later status.
type DepositDecision struct {
	// LandlordDecided is true once the landlord has submitted a decision.
	LandlordDecided bool

	// LandlordWantsReturn is the landlord's choice. Only meaningful when
	// LandlordDecided is true.
	LandlordWantsReturn bool

	// TenantDecided is true once the tenant has submitted a decision.
	TenantDecided bool

	// TenantWantsReturn is the tenant's choice. Only meaningful when
	// TenantDecided is true.
	TenantWantsReturn bool
}

// BothDecided returns true once both parties have submitted a decision.
func (d DepositDecision) BothDecided() bool {
	return d.LandlordDecided && d.TenantDecided
}

// Disagreement returns true if both parties decided and their choices
// differ, which on chain moves the agreement into InDispute.
func (d DepositDecision) Disagreement() bool {
	return d.BothDecided() && d.LandlordWantsReturn != d.TenantWantsReturn
}

// PaymentStatus is the compact payment progress view of an agreement.
type PaymentStatus struct {
	// PaymentsMade is the number of rent payments confirmed so far.
	PaymentsMade uint64

	// TotalPaymentsExpected is the total number of rent payments due.
	TotalPaymentsExpected uint64
}

// Complete returns true once all expected payments have been made.
func (p PaymentStatus) Complete() bool {
	return p.TotalPaymentsExpected > 0 && p.PaymentsMade >= p.TotalPaymentsExpected
}

// CreateParams are the caller-supplied parameters for creating a new
// agreement. The caller becomes the landlord.
type CreateParams struct {
	// Tenant is the designated tenant's address.
	Tenant Address

	// Deposit is the security deposit in the ledger's base unit.
	Deposit *big.Int

	// MonthlyRent is the rent per month in the ledger's base unit.
	MonthlyRent *big.Int

	// DurationMonths is the lease duration in months. Must be positive.
	DurationMonths uint64

	// Reference is a free-text description of the agreement.
	Reference string
}

// Validate checks the parameters for structural errors. On-chain rules
// (tenant differs from landlord, payment matching) are enforced by the
// contract; this only rejects requests that cannot be encoded sensibly.
func (p CreateParams) Validate() error {
	if p.Tenant.IsEmpty() {
		return WrapParamError(ErrEmptyTenant, "tenant")
	}
	if p.Deposit == nil || p.Deposit.Sign() <= 0 {
		return WrapParamError(ErrNonPositiveAmount, "deposit")
	}
	if p.MonthlyRent == nil || p.MonthlyRent.Sign() <= 0 {
		return WrapParamError(ErrNonPositiveAmount, "monthly_rent")
	}
	if p.DurationMonths == 0 {
		return WrapParamError(ErrZeroDuration, "duration_months")
	}
	return nil
}
