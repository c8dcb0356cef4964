// Package abi encodes contract call arguments and decodes the typed field
// sequences returned by read-only contract queries.
//
// The contract's wire format is positional: a query returns an ordered list
// of opaque values and only the positional schema gives each slot meaning.
// Decoding therefore always checks the field count before extracting
// anything.
package abi

import (
	"encoding/hex"
	"math/big"
	"unicode/utf8"

	"github.com/btcsuite/btcd/btcutil/bech32"
)

// Field is one opaque typed value from a query response. It exposes raw
// bytes plus scalar accessors; the semantic type comes from the schema
// position, never from the value itself.
type Field struct {
	raw []byte
}

// NewField wraps raw result bytes in a Field.
func NewField(raw []byte) Field {
	return Field{raw: raw}
}

// Bytes returns the raw bytes of the field.
func (f Field) Bytes() []byte {
	return f.raw
}

// IsEmpty returns true if the field carries no bytes. The contract's
// top-level encoding represents zero integers and unset values as empty.
func (f Field) IsEmpty() bool {
	return len(f.raw) == 0
}

// BigUint interprets the field as an unsigned big integer in big-endian
// form. An empty field decodes to zero. The result round-trips exactly
// through a decimal string, preserving full-precision balances.
func (f Field) BigUint() *big.Int {
	return new(big.Int).SetBytes(f.raw)
}

// Uint64 interprets the field as a bounded unsigned integer. An empty
// field decodes to zero. The second return is false if the value does not
// fit in 64 bits.
func (f Field) Uint64() (uint64, bool) {
	if len(f.raw) > 8 {
		return 0, false
	}
	var v uint64
	for _, b := range f.raw {
		v = v<<8 | uint64(b)
	}
	return v, true
}

// Text interprets the field as UTF-8 text. The second return is false if
// the bytes are not valid UTF-8; invalid sequences are never silently
// truncated.
func (f Field) Text() (string, bool) {
	if !utf8.Valid(f.raw) {
		return "", false
	}
	return string(f.raw), true
}

// Bool interprets the field as a boolean-coded integer: exactly 1 is true,
// anything else is false.
func (f Field) Bool() bool {
	v, ok := f.Uint64()
	return ok && v == 1
}

// AddressString normalizes the field to a display address. A printable
// value passes through unchanged (the gateway already rendered it); raw
// key bytes are bech32-encoded with the given human-readable prefix. An
// empty field normalizes to the empty string.
func (f Field) AddressString(hrp string) string {
	if len(f.raw) == 0 {
		return ""
	}
	if isPrintable(f.raw) {
		return string(f.raw)
	}
	conv, err := bech32.ConvertBits(f.raw, 8, 5, true)
	if err != nil {
		return hex.EncodeToString(f.raw)
	}
	encoded, err := bech32.Encode(hrp, conv)
	if err != nil {
		return hex.EncodeToString(f.raw)
	}
	return encoded
}

func isPrintable(b []byte) bool {
	for _, c := range b {
		if c < 33 || c > 126 {
			return false
		}
	}
	return true
}

// EncodeU64Field produces the wire form of a bounded unsigned integer:
// minimal big-endian bytes, empty for zero.
func EncodeU64Field(v uint64) []byte {
	if v == 0 {
		return nil
	}
	buf := make([]byte, 0, 8)
	for shift := 56; shift >= 0; shift -= 8 {
		b := byte(v >> shift)
		if len(buf) == 0 && b == 0 {
			continue
		}
		buf = append(buf, b)
	}
	return buf
}

// EncodeBigUintField produces the wire form of an unsigned big integer:
// minimal big-endian bytes, empty for zero.
func EncodeBigUintField(v *big.Int) []byte {
	if v == nil || v.Sign() == 0 {
		return nil
	}
	return v.Bytes()
}

// EncodeTextField produces the wire form of a text field.
func EncodeTextField(s string) []byte {
	return []byte(s)
}

// EncodeBoolField produces the wire form of a boolean-coded integer.
func EncodeBoolField(v bool) []byte {
	if v {
		return []byte{0x01}
	}
	return nil
}

// EncodeAddressField produces the raw key bytes of a bech32 display
// address, the form in which the contract returns address fields.
func EncodeAddressField(addr string) ([]byte, error) {
	_, data, err := bech32.Decode(addr)
	if err != nil {
		return nil, err
	}
	return bech32.ConvertBits(data, 5, 8, false)
}
