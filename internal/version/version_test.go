// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package version

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestString(t *testing.T) {
	defer func(pre, build string) {
		PreRelease, BuildMetadata = pre, build
	}(PreRelease, BuildMetadata)

	tests := []struct {
		pre, build string
		want       string
	}{
		{"", "", "0.9.0"},
		{"beta", "", "0.9.0-beta"},
		{"rc.1", "", "0.9.0-rc1"},
		{"", "git.abc_def", "0.9.0+git.abcdef"},
		{"beta", "dev", "0.9.0-beta+dev"},
		{"$%", "!", "0.9.0"},
	}
	for _, test := range tests {
		PreRelease, BuildMetadata = test.pre, test.build
		require.Equal(t, test.want, String())
	}
}
