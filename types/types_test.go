package types

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateParamsValidate(t *testing.T) {
	valid := CreateParams{
		Tenant:         "erd1tenant",
		Deposit:        big.NewInt(1000),
		MonthlyRent:    big.NewInt(500),
		DurationMonths: 12,
		Reference:      "Flat 3B",
	}

	t.Run("valid params", func(t *testing.T) {
		require.NoError(t, valid.Validate())
	})

	t.Run("empty reference is allowed", func(t *testing.T) {
		p := valid
		p.Reference = ""
		require.NoError(t, p.Validate())
	})

	t.Run("empty tenant", func(t *testing.T) {
		p := valid
		p.Tenant = ""
		require.ErrorIs(t, p.Validate(), ErrEmptyTenant)
	})

	t.Run("nil deposit", func(t *testing.T) {
		p := valid
		p.Deposit = nil
		require.ErrorIs(t, p.Validate(), ErrNonPositiveAmount)
	})

	t.Run("zero rent", func(t *testing.T) {
		p := valid
		p.MonthlyRent = big.NewInt(0)
		require.ErrorIs(t, p.Validate(), ErrNonPositiveAmount)
	})

	t.Run("zero duration", func(t *testing.T) {
		p := valid
		p.DurationMonths = 0
		require.ErrorIs(t, p.Validate(), ErrZeroDuration)
	})
}

func TestAgreementHelpers(t *testing.T) {
	t.Run("payments remaining", func(t *testing.T) {
		a := &Agreement{PaymentsMade: 3, TotalPaymentsExpected: 12}
		require.Equal(t, uint64(9), a.PaymentsRemaining())
	})

	t.Run("payments remaining never underflows", func(t *testing.T) {
		a := &Agreement{PaymentsMade: 20, TotalPaymentsExpected: 12}
		require.Equal(t, uint64(0), a.PaymentsRemaining())
	})

	t.Run("accepted", func(t *testing.T) {
		require.False(t, (&Agreement{Status: StatusPending}).Accepted())
		require.True(t, (&Agreement{Status: StatusActive}).Accepted())
		require.True(t, (&Agreement{Status: StatusFinalized}).Accepted())
	})
}

func TestAgreementEqual(t *testing.T) {
	base := func() *Agreement {
		return &Agreement{
			ID:                    7,
			Landlord:              "erd1landlord",
			Tenant:                "erd1tenant",
			Deposit:               big.NewInt(1000),
			MonthlyRent:           big.NewInt(500),
			DurationMonths:        12,
			Reference:             "Flat 3B",
			PaymentsMade:          3,
			TotalPaymentsExpected: 12,
			Status:                StatusActive,
		}
	}

	t.Run("identical values", func(t *testing.T) {
		require.True(t, base().Equal(base()))
	})

	t.Run("amount compared by value", func(t *testing.T) {
		a, b := base(), base()
		b.Deposit = new(big.Int).Set(a.Deposit)
		require.True(t, a.Equal(b))
	})

	t.Run("different status", func(t *testing.T) {
		a, b := base(), base()
		b.Status = StatusCompleted
		require.False(t, a.Equal(b))
	})

	t.Run("nil receivers", func(t *testing.T) {
		var a *Agreement
		require.True(t, a.Equal(nil))
		require.False(t, a.Equal(base()))
		require.False(t, base().Equal(nil))
	})
}

func TestDepositDecision(t *testing.T) {
	t.Run("both decided", func(t *testing.T) {
		d := DepositDecision{LandlordDecided: true, TenantDecided: true}
		require.True(t, d.BothDecided())
	})

	t.Run("disagreement needs both decisions", func(t *testing.T) {
		d := DepositDecision{LandlordDecided: true, LandlordWantsReturn: false}
		require.False(t, d.Disagreement())

		d.TenantDecided = true
		d.TenantWantsReturn = true
		require.True(t, d.Disagreement())
	})

	t.Run("matching choices agree", func(t *testing.T) {
		d := DepositDecision{
			LandlordDecided: true, LandlordWantsReturn: true,
			TenantDecided: true, TenantWantsReturn: true,
		}
		require.False(t, d.Disagreement())
	})
}

func TestPaymentStatusComplete(t *testing.T) {
	require.False(t, PaymentStatus{PaymentsMade: 3, TotalPaymentsExpected: 12}.Complete())
	require.True(t, PaymentStatus{PaymentsMade: 12, TotalPaymentsExpected: 12}.Complete())
	require.False(t, PaymentStatus{}.Complete())
}
