// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package auth

import (
	"fmt"
	"os"
	"strings"
)

// EnvKeySource reads the private key from the named environment variable.
// An unset variable yields an empty key, which signing rejects.
type EnvKeySource string

// PrivateKey returns the current value of the variable.
func (e EnvKeySource) PrivateKey() (string, error) {
	return strings.TrimSpace(os.Getenv(string(e))), nil
}

// FileKeySource reads the private key from a file on every call.
type FileKeySource string

// PrivateKey returns the trimmed contents of the file.
func (f FileKeySource) PrivateKey() (string, error) {
	b, err := os.ReadFile(string(f))
	if err != nil {
		str := fmt.Sprintf("unable to read key file %s", string(f))
		return "", authError(ErrKeyUnavailable, str, err)
	}
	return strings.TrimSpace(string(b)), nil
}

// KeySourceFunc adapts a function to a KeySource.
type KeySourceFunc func() (string, error)

// PrivateKey calls f.
func (f KeySourceFunc) PrivateKey() (string, error) {
	return f()
}

// StaticKeySource always returns the same key.  Intended for tests and
// short lived tools.
type StaticKeySource string

// PrivateKey returns the key.
func (s StaticKeySource) PrivateKey() (string, error) {
	return string(s), nil
}
