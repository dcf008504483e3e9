// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOptionsWithDefaults(t *testing.T) {
	tests := []struct {
		name string
		in   *Options
		want Options
	}{{
		name: "nil",
		want: Options{CacheSize: DefaultCacheSize, OpenFiles: DefaultOpenFiles},
	}, {
		name: "flags kept",
		in:   &Options{Create: true, NoSync: true},
		want: Options{Create: true, NoSync: true, CacheSize: DefaultCacheSize,
			OpenFiles: DefaultOpenFiles},
	}, {
		name: "sizes kept",
		in:   &Options{CacheSize: 64, OpenFiles: 100},
		want: Options{CacheSize: 64, OpenFiles: 100},
	}}

	for _, test := range tests {
		require.Equal(t, test.want, test.in.WithDefaults(), test.name)
	}
}

func TestBytesPrefix(t *testing.T) {
	require.Equal(t, &Range{Start: []byte("tx/"), Limit: []byte("tx0")},
		BytesPrefix([]byte("tx/")))
	require.Equal(t, &Range{Start: []byte{0x01, 0xff}, Limit: []byte{0x02}},
		BytesPrefix([]byte{0x01, 0xff}))
	require.Nil(t, BytesPrefix([]byte{0xff}).Limit)
}
