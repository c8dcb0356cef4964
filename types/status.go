package types

import "fmt"

// AgreementStatus is the lifecycle status of an agreement as assigned by
// the contract. The set is closed; codes outside it fail decoding rather
// than defaulting to a guessed status.
type AgreementStatus uint8

// Agreement status codes, matching the contract's status encoding.
const (
	// StatusPending means the designated tenant has not yet accepted.
	StatusPending AgreementStatus = 0

	// StatusActive means the tenant accepted and paid the deposit.
	StatusActive AgreementStatus = 1

	// StatusCompleted means all payments were made and the duration elapsed.
	StatusCompleted AgreementStatus = 2

	// StatusInDispute means the deposit decisions disagree.
	StatusInDispute AgreementStatus = 3

	// StatusFinalized means the deposit has been returned or kept and the
	// agreement is closed.
	StatusFinalized AgreementStatus = 4
)

// String returns a human-readable status name.
func (s AgreementStatus) String() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusActive:
		return "Active"
	case StatusCompleted:
		return "Completed"
	case StatusInDispute:
		return "InDispute"
	case StatusFinalized:
		return "Finalized"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(s))
	}
}

// IsValid returns true if the status is one of the defined codes.
func (s AgreementStatus) IsValid() bool {
	return s <= StatusFinalized
}

// StatusFromCode maps a decoded status code to an AgreementStatus.
// Codes outside the closed set return ErrUnknownStatus.
func StatusFromCode(code uint64) (AgreementStatus, error) {
	if code > uint64(StatusFinalized) {
		return 0, &UnknownStatusError{Code: code}
	}
	return AgreementStatus(code), nil
}

// Action is a write operation the facade can gate per agreement status.
type Action string

// Actions exposed by the contract client.
const (
	ActionAccept         Action = "accept"
	ActionPay            Action = "pay"
	ActionLandlordDecide Action = "landlord_decision"
	ActionTenantDecide   Action = "tenant_decision"
)
