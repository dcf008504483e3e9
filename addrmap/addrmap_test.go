// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package addrmap

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var emulatorContracts = map[string]string{
	"0xMintasticNFT":     "0x01cf0e2f2f715450",
	"0xMintasticMarket":  "0x01cf0e2f2f715450",
	"0xNonFungibleToken": "0xf8d6e0586b0a20c7",
	"0xFungibleToken":    "0xee82856bf20e2aa6",
	"0xFlowToken":        "0x0ae53cb6e3f42a79",
}

// TestNew ensures invalid mappings are rejected with the expected error code.
func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mapping map[string]string
		code    ErrorCode
		wantErr bool
	}{{
		name:    "emulator contracts",
		mapping: emulatorContracts,
	}, {
		name:    "empty map",
		mapping: map[string]string{},
	}, {
		name:    "missing prefix",
		mapping: map[string]string{"MintasticNFT": "0x01"},
		code:    ErrInvalidPlaceholder,
		wantErr: true,
	}, {
		name:    "bare prefix",
		mapping: map[string]string{"0x": "0x01"},
		code:    ErrInvalidPlaceholder,
		wantErr: true,
	}, {
		name: "overlapping placeholders",
		mapping: map[string]string{
			"0xMintastic":    "0x01",
			"0xMintasticNFT": "0x02",
		},
		code:    ErrOverlappingPlaceholder,
		wantErr: true,
	}, {
		name:    "address too long",
		mapping: map[string]string{"0xMintasticNFT": "0x0102030405060708ff"},
		code:    ErrInvalidAddress,
		wantErr: true,
	}, {
		name:    "address not hex",
		mapping: map[string]string{"0xMintasticNFT": "0xzz"},
		code:    ErrInvalidAddress,
		wantErr: true,
	}}

	for _, test := range tests {
		_, err := New(test.mapping)
		if !test.wantErr {
			require.NoError(t, err, test.name)
			continue
		}
		require.Error(t, err, test.name)
		require.True(t, IsErrorCode(err, test.code),
			"%s: unexpected error %v", test.name, err)
	}
}

// TestApply ensures placeholders are replaced with normalized addresses.
func TestApply(t *testing.T) {
	t.Parallel()

	m, err := New(map[string]string{
		"0xMintasticNFT":     "0x01CF0E2F2F715450",
		"0xNonFungibleToken": "f8d6e0586b0a20c7",
		"0xFungibleToken":    "0x1",
	})
	require.NoError(t, err)

	tests := []struct {
		name string
		src  string
		want string
	}{{
		name: "single import",
		src:  "import MintasticNFT from 0xMintasticNFT",
		want: "import MintasticNFT from 0x01cf0e2f2f715450",
	}, {
		name: "every occurrence",
		src: "import NonFungibleToken from 0xNonFungibleToken\n" +
			"import FungibleToken from 0xFungibleToken\n" +
			"// 0xFungibleToken",
		want: "import NonFungibleToken from 0xf8d6e0586b0a20c7\n" +
			"import FungibleToken from 0x0000000000000001\n" +
			"// 0x0000000000000001",
	}, {
		name: "no placeholders",
		src:  "pub fun main(): Int { return 42 }",
		want: "pub fun main(): Int { return 42 }",
	}, {
		name: "unknown placeholder untouched",
		src:  "import FlowToken from 0xFlowToken",
		want: "import FlowToken from 0xFlowToken",
	}}

	for _, test := range tests {
		require.Equal(t, test.want, m.Apply(test.src), test.name)
	}
}

// TestApplyAll ensures ApplyAll returns a new map and leaves its input alone.
func TestApplyAll(t *testing.T) {
	t.Parallel()

	m, err := New(emulatorContracts)
	require.NoError(t, err)

	sources := map[string]string{
		"transactions/nft/mint":        "import MintasticNFT from 0xMintasticNFT",
		"scripts/flow/get-balance":     "import FlowToken from 0xFlowToken",
		"scripts/nft/read-all-assets": "pub fun main() {}",
	}
	resolved := m.ApplyAll(sources)

	require.Len(t, resolved, len(sources))
	require.Equal(t, "import MintasticNFT from 0xMintasticNFT",
		sources["transactions/nft/mint"])
	require.Equal(t, "import MintasticNFT from 0x01cf0e2f2f715450",
		resolved["transactions/nft/mint"])
	require.Equal(t, "import FlowToken from 0x0ae53cb6e3f42a79",
		resolved["scripts/flow/get-balance"])
	require.Equal(t, "pub fun main() {}",
		resolved["scripts/nft/read-all-assets"])
}

// TestNormalize exercises the canonical address form.
func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "0xf8d6e0586b0a20c7", want: "0xf8d6e0586b0a20c7"},
		{in: "F8D6E0586B0A20C7", want: "0xf8d6e0586b0a20c7"},
		{in: "0x1", want: "0x0000000000000001"},
		{in: "0X01cf", want: "0x00000000000001cf"},
		{in: "", wantErr: true},
		{in: "0x", wantErr: true},
		{in: "0xg1", wantErr: true},
		{in: "0x00000000000000001", wantErr: true},
	}

	for _, test := range tests {
		got, err := Normalize(test.in)
		if test.wantErr {
			require.Error(t, err, test.in)
			require.True(t, IsErrorCode(err, ErrInvalidAddress))
			continue
		}
		require.NoError(t, err, test.in)
		require.Equal(t, test.want, got, test.in)
		require.Equal(t, strings.TrimPrefix(test.want, "0x"),
			SansPrefix(got))
	}
}

// genSource draws source text made of lower case fragments interleaved with
// placeholder tokens.
func genSource(placeholders []string) *rapid.Generator[string] {
	fragment := rapid.StringMatching(`[a-z0-9 {}():\n]{0,12}`)
	return rapid.Custom(func(t *rapid.T) string {
		var sb strings.Builder
		n := rapid.IntRange(0, 8).Draw(t, "parts")
		for i := 0; i < n; i++ {
			sb.WriteString(fragment.Draw(t, "fragment"))
			if len(placeholders) > 0 && rapid.Bool().Draw(t, "withPlaceholder") {
				sb.WriteString(rapid.SampledFrom(placeholders).
					Draw(t, "placeholder"))
			}
		}
		return sb.String()
	})
}

// genMapping draws a mapping over a subset of the well known contracts.
func genMapping(t *rapid.T) map[string]string {
	names := []string{MintasticNFT, MintasticMarket, MintasticCredit,
		NonFungibleToken, FungibleToken, FlowToken}
	mapping := make(map[string]string)
	for _, name := range names {
		if rapid.Bool().Draw(t, "include"+name) {
			addr := rapid.Uint64().Draw(t, "addr"+name)
			mapping["0x"+name] = fmt.Sprintf("0x%016x", addr)
		}
	}
	return mapping
}

// TestApplyIdempotent checks that applying a map twice equals applying it
// once.
func TestApplyIdempotent(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		m, err := New(genMapping(t))
		require.NoError(t, err)

		src := genSource(m.Placeholders()).Draw(t, "src")
		once := m.Apply(src)
		require.Equal(t, once, m.Apply(once))
		for _, placeholder := range m.Placeholders() {
			require.NotContains(t, once, placeholder)
		}
	})
}

// TestApplyNoPlaceholders checks that text without placeholders is returned
// unchanged.
func TestApplyNoPlaceholders(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		m, err := New(genMapping(t))
		require.NoError(t, err)

		src := genSource(nil).Draw(t, "src")
		require.Equal(t, src, m.Apply(src))
	})
}

// TestNilMap ensures a nil map leaves code unchanged and knows no addresses.
func TestNilMap(t *testing.T) {
	t.Parallel()

	var m *AddressMap
	src := "import MintasticNFT from 0xMintasticNFT"
	require.Equal(t, src, m.Apply(src))
	require.Equal(t, map[string]string{"a": src}, m.ApplyAll(map[string]string{"a": src}))
	require.Empty(t, m.Placeholders())

	_, ok := m.ContractAddress(MintasticNFT)
	require.False(t, ok)
}
