package abi

import (
	"github.com/blockberries/leaseberry/types"
)

// Positional field counts for the contract's view endpoints.
const (
	// AgreementFieldCount is the number of fields returned by
	// getContractDetails.
	AgreementFieldCount = 11

	// DepositDecisionFieldCount is the number of fields returned by
	// getDepositDecisionDetails.
	DepositDecisionFieldCount = 4

	// PaymentStatusFieldCount is the number of fields returned by
	// getPaymentsStatus.
	PaymentStatusFieldCount = 2
)

// Positions of the getContractDetails fields.
const (
	fieldLandlord = iota
	fieldTenant
	fieldDeposit
	fieldMonthlyRent
	fieldDurationMonths
	fieldReference
	fieldStartTimestamp
	fieldEndTimestamp
	fieldPaymentsMade
	fieldTotalPayments
	fieldStatus
)

// Decoder converts query result field sequences into domain records.
type Decoder struct {
	hrp string
}

// NewDecoder creates a Decoder that renders raw addresses with the given
// bech32 human-readable prefix.
func NewDecoder(hrp string) *Decoder {
	return &Decoder{hrp: hrp}
}

// DecodeAgreement decodes the getContractDetails response for the given
// agreement ID. The response must carry at least AgreementFieldCount
// fields; shorter responses fail with a truncation error rather than
// producing a partially populated agreement.
//
// Numeric fields that are empty decode to zero. Amount fields keep full
// precision as big integers. The status code must belong to the closed
// status set. Decoded values are never adjusted to satisfy invariants;
// callers flag inconsistencies instead.
func (d *Decoder) DecodeAgreement(id types.AgreementID, fields []Field) (*types.Agreement, error) {
	if len(fields) < AgreementFieldCount {
		return nil, &types.TruncatedError{Want: AgreementFieldCount, Got: len(fields)}
	}

	reference, ok := fields[fieldReference].Text()
	if !ok {
		return nil, &types.InvalidTextError{Field: fieldReference}
	}

	code := fields[fieldStatus].BigUint()
	if !code.IsUint64() {
		return nil, &types.UnknownStatusError{Code: ^uint64(0)}
	}
	status, err := types.StatusFromCode(code.Uint64())
	if err != nil {
		return nil, err
	}

	return &types.Agreement{
		ID:                    id,
		Landlord:              types.Address(fields[fieldLandlord].AddressString(d.hrp)),
		Tenant:                types.Address(fields[fieldTenant].AddressString(d.hrp)),
		Deposit:               fields[fieldDeposit].BigUint(),
		MonthlyRent:           fields[fieldMonthlyRent].BigUint(),
		DurationMonths:        u64OrZero(fields[fieldDurationMonths]),
		Reference:             reference,
		StartTimestamp:        u64OrZero(fields[fieldStartTimestamp]),
		EndTimestamp:          u64OrZero(fields[fieldEndTimestamp]),
		PaymentsMade:          u64OrZero(fields[fieldPaymentsMade]),
		TotalPaymentsExpected: u64OrZero(fields[fieldTotalPayments]),
		Status:                status,
	}, nil
}

// DecodeDepositDecision decodes the getDepositDecisionDetails response:
// four boolean-coded integers, each 1 for true.
func (d *Decoder) DecodeDepositDecision(fields []Field) (*types.DepositDecision, error) {
	if len(fields) < DepositDecisionFieldCount {
		return nil, &types.TruncatedError{Want: DepositDecisionFieldCount, Got: len(fields)}
	}
	return &types.DepositDecision{
		LandlordDecided:     fields[0].Bool(),
		LandlordWantsReturn: fields[1].Bool(),
		TenantDecided:       fields[2].Bool(),
		TenantWantsReturn:   fields[3].Bool(),
	}, nil
}

// DecodeAgreementIDs decodes a list-valued query response where each field
// is one agreement ID. An empty response is a legitimate "no agreements
// yet" state, and a value that is not an integer sequence decodes to the
// empty list rather than an error.
func (d *Decoder) DecodeAgreementIDs(fields []Field) []types.AgreementID {
	ids := make([]types.AgreementID, 0, len(fields))
	for _, f := range fields {
		v, ok := f.Uint64()
		if !ok {
			return []types.AgreementID{}
		}
		ids = append(ids, types.AgreementID(v))
	}
	return ids
}

// DecodePaymentStatus decodes the getPaymentsStatus response: payments
// made followed by total payments expected.
func (d *Decoder) DecodePaymentStatus(fields []Field) (*types.PaymentStatus, error) {
	if len(fields) < PaymentStatusFieldCount {
		return nil, &types.TruncatedError{Want: PaymentStatusFieldCount, Got: len(fields)}
	}
	return &types.PaymentStatus{
		PaymentsMade:          u64OrZero(fields[0]),
		TotalPaymentsExpected: u64OrZero(fields[1]),
	}, nil
}

func u64OrZero(f Field) uint64 {
	v, ok := f.Uint64()
	if !ok {
		return 0
	}
	return v
}
