package abi

import (
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/stretchr/testify/require"

	"github.com/blockberries/leaseberry/types"
)

func testBuilder(t *testing.T) *Builder {
	t.Helper()
	b, err := NewBuilder(BuilderConfig{
		ContractAddress: "erd1contract",
		ChainID:         "D",
		GasLimit:        60_000_000,
		GasPrice:        1_000_000_000,
	})
	require.NoError(t, err)
	return b
}

// testAddress builds a valid bech32 address whose raw key bytes are known,
// so call data can be checked byte for byte.
func testAddress(t *testing.T, fill byte) (types.Address, []byte) {
	t.Helper()
	raw := make([]byte, 32)
	for i := range raw {
		raw[i] = fill
	}
	conv, err := bech32.ConvertBits(raw, 8, 5, true)
	require.NoError(t, err)
	addr, err := bech32.Encode("erd", conv)
	require.NoError(t, err)
	return types.Address(addr), raw
}

func TestNewBuilder(t *testing.T) {
	t.Run("requires contract address", func(t *testing.T) {
		_, err := NewBuilder(BuilderConfig{ChainID: "D"})
		require.ErrorIs(t, err, types.ErrEmptyContractAddress)
	})
}

func TestBuilderCreate(t *testing.T) {
	b := testBuilder(t)
	tenant, tenantRaw := testAddress(t, 0x42)

	params := types.CreateParams{
		Tenant:         tenant,
		Deposit:        mustBig(t, "1000000000000000000"),
		MonthlyRent:    mustBig(t, "500000000000000000"),
		DurationMonths: 12,
		Reference:      "Flat 3B",
	}

	t.Run("encodes call data", func(t *testing.T) {
		tx, err := b.Create("erd1landlord", params)
		require.NoError(t, err)

		want := "createRentalContract@" +
			hex.EncodeToString(tenantRaw) +
			"@0de0b6b3a7640000" +
			"@06f05b59d3b20000" +
			"@0c" +
			"@466c6174203342"
		require.Equal(t, want, string(tx.Data))
		require.Equal(t, EndpointCreate, tx.Endpoint())
	})

	t.Run("carries configured constants", func(t *testing.T) {
		tx, err := b.Create("erd1landlord", params)
		require.NoError(t, err)
		require.Equal(t, "erd1contract", tx.Receiver)
		require.Equal(t, "erd1landlord", tx.Sender)
		require.Equal(t, "D", tx.ChainID)
		require.Equal(t, uint64(60_000_000), tx.GasLimit)
		require.Equal(t, uint64(1_000_000_000), tx.GasPrice)
		require.Equal(t, "0", tx.Value)
		require.False(t, tx.HasValue())
	})

	t.Run("requires sender before validation", func(t *testing.T) {
		bad := params
		bad.Tenant = ""
		_, err := b.Create("", bad)
		require.ErrorIs(t, err, types.ErrNotAuthenticated)
	})

	t.Run("rejects empty tenant", func(t *testing.T) {
		bad := params
		bad.Tenant = ""
		_, err := b.Create("erd1landlord", bad)
		require.ErrorIs(t, err, types.ErrEmptyTenant)
	})

	t.Run("rejects non positive amounts", func(t *testing.T) {
		bad := params
		bad.Deposit = big.NewInt(0)
		_, err := b.Create("erd1landlord", bad)
		require.ErrorIs(t, err, types.ErrNonPositiveAmount)

		bad = params
		bad.MonthlyRent = big.NewInt(-1)
		_, err = b.Create("erd1landlord", bad)
		require.ErrorIs(t, err, types.ErrNonPositiveAmount)
	})

	t.Run("rejects zero duration", func(t *testing.T) {
		bad := params
		bad.DurationMonths = 0
		_, err := b.Create("erd1landlord", bad)
		require.ErrorIs(t, err, types.ErrZeroDuration)
	})

	t.Run("rejects malformed tenant address", func(t *testing.T) {
		bad := params
		bad.Tenant = "not bech32"
		_, err := b.Create("erd1landlord", bad)
		require.Error(t, err)
	})
}

func TestBuilderAccept(t *testing.T) {
	b := testBuilder(t)

	t.Run("attaches deposit as value", func(t *testing.T) {
		deposit := mustBig(t, "1000000000000000000")
		tx, err := b.Accept("erd1tenant", 7, deposit)
		require.NoError(t, err)
		require.Equal(t, "acceptContract@07", string(tx.Data))
		require.Equal(t, "1000000000000000000", tx.Value)
		require.True(t, tx.HasValue())
	})

	t.Run("requires sender", func(t *testing.T) {
		_, err := b.Accept("", 7, big.NewInt(1))
		require.ErrorIs(t, err, types.ErrNotAuthenticated)
	})

	t.Run("rejects missing deposit", func(t *testing.T) {
		_, err := b.Accept("erd1tenant", 7, nil)
		require.ErrorIs(t, err, types.ErrNonPositiveAmount)
	})
}

func TestBuilderPay(t *testing.T) {
	b := testBuilder(t)

	t.Run("attaches rent as value", func(t *testing.T) {
		rent := mustBig(t, "500000000000000000")
		tx, err := b.Pay("erd1tenant", 7, rent)
		require.NoError(t, err)
		require.Equal(t, "makePayment@07", string(tx.Data))
		require.Equal(t, "500000000000000000", tx.Value)
	})

	t.Run("requires sender", func(t *testing.T) {
		_, err := b.Pay("", 7, big.NewInt(1))
		require.ErrorIs(t, err, types.ErrNotAuthenticated)
	})

	t.Run("rejects non positive rent", func(t *testing.T) {
		_, err := b.Pay("erd1tenant", 7, big.NewInt(0))
		require.ErrorIs(t, err, types.ErrNonPositiveAmount)
	})
}

func TestBuilderDecisions(t *testing.T) {
	b := testBuilder(t)

	t.Run("landlord decision encodes choice", func(t *testing.T) {
		tx, err := b.LandlordDecision("erd1landlord", 7, true)
		require.NoError(t, err)
		require.Equal(t, "landlordDecision@07@01", string(tx.Data))
		require.False(t, tx.HasValue())
	})

	t.Run("false choice encodes empty argument", func(t *testing.T) {
		tx, err := b.TenantDecision("erd1tenant", 7, false)
		require.NoError(t, err)
		require.Equal(t, "tenantDecision@07@", string(tx.Data))
	})

	t.Run("require sender", func(t *testing.T) {
		_, err := b.LandlordDecision("", 7, true)
		require.ErrorIs(t, err, types.ErrNotAuthenticated)

		_, err = b.TenantDecision("", 7, false)
		require.ErrorIs(t, err, types.ErrNotAuthenticated)
	})
}

func TestEncodeCall(t *testing.T) {
	t.Run("no arguments", func(t *testing.T) {
		require.Equal(t, "endpoint", encodeCall("endpoint"))
	})

	t.Run("arguments joined with at", func(t *testing.T) {
		require.Equal(t, "endpoint@01@02", encodeCall("endpoint", "01", "02"))
	})
}

func mustBig(t *testing.T, s string) *big.Int {
	t.Helper()
	v, ok := new(big.Int).SetString(s, 10)
	require.True(t, ok)
	return v
}
