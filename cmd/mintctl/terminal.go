// Copyright (c) 2017 The Decred developers
// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/mintastic/mintsdk/auth"
	"golang.org/x/crypto/ssh/terminal"
)

func zero(b []byte) {
	for i := 0; i < len(b); i++ {
		b[i] = 0x00
	}
}

// promptKeySource asks for the private key on the terminal the first time
// it is needed and keeps it for the rest of the run.
type promptKeySource struct {
	once sync.Once
	key  string
	err  error
}

var _ auth.KeySource = (*promptKeySource)(nil)

func newPromptKeySource() *promptKeySource {
	return &promptKeySource{}
}

// PrivateKey returns the prompted key.
func (p *promptKeySource) PrivateKey() (string, error) {
	p.once.Do(func() {
		p.key, p.err = promptSecret("Private key: ")
	})
	return p.key, p.err
}

// promptSecret reads a line from the terminal without echoing it.
func promptSecret(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !terminal.IsTerminal(fd) {
		return "", errors.New("no private key configured and standard " +
			"input is not a terminal")
	}

	fmt.Fprint(os.Stderr, prompt)
	secret, err := terminal.ReadPassword(fd)
	fmt.Fprint(os.Stderr, "\n")
	if err != nil {
		return "", fmt.Errorf("unable to read secret: %w", err)
	}
	defer zero(secret)
	return strings.TrimSpace(string(secret)), nil
}
