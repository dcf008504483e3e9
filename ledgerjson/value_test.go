// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledgerjson_test

import (
	"encoding/json"
	"math/big"
	"strconv"
	"testing"

	"github.com/mintastic/mintsdk/ledgerjson"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// TestValueEncoding checks the exact JSON encoding of each constructor.
func TestValueEncoding(t *testing.T) {
	t.Parallel()

	inner := ledgerjson.String("x")
	tests := []struct {
		name string
		in   ledgerjson.Value
		want string
	}{
		{"address", ledgerjson.Address("F8D6E0586B0A20C7"),
			`{"type":"Address","value":"0xf8d6e0586b0a20c7"}`},
		{"string", ledgerjson.String("hello"),
			`{"type":"String","value":"hello"}`},
		{"ufix64", ledgerjson.UFix64("25.0"),
			`{"type":"UFix64","value":"25.0"}`},
		{"fix64", ledgerjson.Fix64("-1.5"),
			`{"type":"Fix64","value":"-1.5"}`},
		{"uint16", ledgerjson.UInt16(7),
			`{"type":"UInt16","value":"7"}`},
		{"uint32", ledgerjson.UInt32(42),
			`{"type":"UInt32","value":"42"}`},
		{"uint64", ledgerjson.UInt64(18446744073709551615),
			`{"type":"UInt64","value":"18446744073709551615"}`},
		{"bool", ledgerjson.Bool(true),
			`{"type":"Bool","value":true}`},
		{"empty array", ledgerjson.Array(),
			`{"type":"Array","value":[]}`},
		{"array", ledgerjson.Array(ledgerjson.UInt64(1), ledgerjson.UInt64(2)),
			`{"type":"Array","value":[{"type":"UInt64","value":"1"},{"type":"UInt64","value":"2"}]}`},
		{"dictionary", ledgerjson.Dictionary(ledgerjson.KeyValue{
			Key:   ledgerjson.Address("0x01cf0e2f2f715450"),
			Value: ledgerjson.UFix64("0.5"),
		}), `{"type":"Dictionary","value":[{"key":{"type":"Address","value":"0x01cf0e2f2f715450"},"value":{"type":"UFix64","value":"0.5"}}]}`},
		{"optional nil", ledgerjson.Optional(nil),
			`{"type":"Optional","value":null}`},
		{"optional", ledgerjson.Optional(&inner),
			`{"type":"Optional","value":{"type":"String","value":"x"}}`},
	}

	for _, test := range tests {
		got, err := test.in.Encode()
		require.NoError(t, err, test.name)
		require.JSONEq(t, test.want, string(got), test.name)
	}
}

// TestValueDecode checks the Go values produced by Decode.
func TestValueDecode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want interface{}
	}{
		{"uint64", `{"type":"UInt64","value":"12"}`, uint64(12)},
		{"int32", `{"type":"Int32","value":"-3"}`, int64(-3)},
		{"ufix64", `{"type":"UFix64","value":"1.00000000"}`, "1.00000000"},
		{"bool", `{"type":"Bool","value":false}`, false},
		{"void", `{"type":"Void"}`, nil},
		{"optional nil", `{"type":"Optional","value":null}`, nil},
		{"optional", `{"type":"Optional","value":{"type":"UInt8","value":"3"}}`, uint64(3)},
		{"path", `{"type":"Path","value":{"domain":"storage","identifier":"nfts"}}`, "/storage/nfts"},
		{"array", `{"type":"Array","value":[{"type":"String","value":"a"}]}`, []interface{}{"a"}},
		{"dictionary", `{"type":"Dictionary","value":[{"key":{"type":"UInt64","value":"1"},"value":{"type":"Bool","value":true}}]}`,
			map[string]interface{}{"1": true}},
	}

	for _, test := range tests {
		v, err := ledgerjson.ParseValue([]byte(test.in))
		require.NoError(t, err, test.name)
		got, err := v.Decode()
		require.NoError(t, err, test.name)
		require.Equal(t, test.want, got, test.name)
	}

	v, err := ledgerjson.ParseValue([]byte(`{"type":"UInt256","value":"115792089237316195423570985008687907853269984665640564039457584007913129639935"}`))
	require.NoError(t, err)
	got, err := v.Decode()
	require.NoError(t, err)
	want, _ := new(big.Int).SetString("115792089237316195423570985008687907853269984665640564039457584007913129639935", 10)
	require.Equal(t, 0, want.Cmp(got.(*big.Int)))
}

// TestValueDecodeErrors checks malformed values are rejected.
func TestValueDecodeErrors(t *testing.T) {
	t.Parallel()

	tests := []string{
		`{"type":"UInt64","value":"-1"}`,
		`{"type":"UInt8","value":12}`,
		`{"type":"Int","value":"1.5"}`,
		`{"type":"Bool","value":"yes"}`,
		`{"type":"Capability","value":{}}`,
	}
	for _, in := range tests {
		v, err := ledgerjson.ParseValue([]byte(in))
		require.NoError(t, err, in)
		_, err = v.Decode()
		require.Error(t, err, in)

		var jerr ledgerjson.Error
		require.ErrorAs(t, err, &jerr, in)
		require.Equal(t, ledgerjson.ErrInvalidValue, jerr.ErrorCode, in)
	}

	_, err := ledgerjson.ParseValue([]byte(`{"type":`))
	require.Error(t, err)
}

// TestComposite checks events round trip through NewComposite.
func TestComposite(t *testing.T) {
	t.Parallel()

	id := "A.f8d6e0586b0a20c7.MintasticNFT.Mint"
	v := ledgerjson.NewComposite("Event", id,
		[]string{"assetId", "edition", "owner"},
		[]ledgerjson.Value{
			ledgerjson.String("asset-1"),
			ledgerjson.UInt16(2),
			ledgerjson.Address("0xf8d6e0586b0a20c7"),
		})

	gotID, fields, err := v.DecodeComposite()
	require.NoError(t, err)
	require.Equal(t, id, gotID)
	require.Equal(t, map[string]interface{}{
		"assetId": "asset-1",
		"edition": uint64(2),
		"owner":   "0xf8d6e0586b0a20c7",
	}, fields)

	decoded, err := v.Decode()
	require.NoError(t, err)
	require.Equal(t, fields, decoded)
}

// TestValidateFix64 checks the accepted decimal shapes.
func TestValidateFix64(t *testing.T) {
	t.Parallel()

	valid := []string{"1.0", "0.5", "-12.25", "100.00000001"}
	for _, s := range valid {
		require.NoError(t, ledgerjson.ValidateFix64(s), s)
	}

	invalid := []string{"", "1", "1.", ".5", "abc", "1.0.0", "+1.0", "1,0"}
	for _, s := range invalid {
		err := ledgerjson.ValidateFix64(s)
		require.Error(t, err, s)
		var jerr ledgerjson.Error
		require.ErrorAs(t, err, &jerr)
		require.Equal(t, ledgerjson.ErrInvalidFix64, jerr.ErrorCode)
	}
}

// TestUInt64Property checks integer values decode to what they encode.
func TestUInt64Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.Uint64().Draw(t, "n")
		raw, err := ledgerjson.UInt64(n).Encode()
		require.NoError(t, err)

		var wire struct {
			Type  string `json:"type"`
			Value string `json:"value"`
		}
		require.NoError(t, json.Unmarshal(raw, &wire))
		require.Equal(t, "UInt64", wire.Type)
		require.Equal(t, strconv.FormatUint(n, 10), wire.Value)

		v, err := ledgerjson.ParseValue(raw)
		require.NoError(t, err)
		got, err := v.Decode()
		require.NoError(t, err)
		require.Equal(t, n, got)
	})
}
