// Copyright (c) 2013-2014 The btcsuite developers
// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package version holds the version of mintctl.
package version

import (
	"fmt"
	"strings"
)

const (
	// semanticAlphabet defines the allowed characters for the pre-release
	// portion of a semantic version string.
	semanticAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz-"

	// semanticBuildAlphabet defines the allowed characters for the build
	// portion of a semantic version string.
	semanticBuildAlphabet = semanticAlphabet + "."
)

// These constants define the application version and follow the semantic
// versioning 2.0.0 spec (http://semver.org/).
const (
	Major uint = 0
	Minor uint = 9
	Patch uint = 0
)

var (
	// PreRelease may be overridden at link time with
	// '-ldflags "-X github.com/mintastic/mintsdk/internal/version.PreRelease=rc1"'.
	// Characters outside semanticAlphabet are dropped.
	PreRelease = "beta"

	// BuildMetadata may be overridden at link time like PreRelease.
	// Characters outside semanticBuildAlphabet are dropped.
	BuildMetadata = ""
)

// String returns the application version as a properly formed string per the
// semantic versioning 2.0.0 spec (http://semver.org/).
func String() string {
	version := fmt.Sprintf("%d.%d.%d", Major, Minor, Patch)
	if preRelease := normalize(PreRelease, semanticAlphabet); preRelease != "" {
		version += "-" + preRelease
	}
	if build := normalize(BuildMetadata, semanticBuildAlphabet); build != "" {
		version += "+" + build
	}
	return version
}

// normalize returns str stripped of every character not in alphabet.
func normalize(str, alphabet string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(alphabet, r) {
			return r
		}
		return -1
	}, str)
}
