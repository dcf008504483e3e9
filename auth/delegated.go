// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package auth

// Delegated defers every role to an external wallet.  No key is held
// locally.
type Delegated struct {
	Wallet Authorizer
}

var _ Provider = (*Delegated)(nil)

// Authz returns the wallet.  The address and key are chosen by the wallet
// so both arguments are ignored.
func (d *Delegated) Authz(string, uint32) Authorizer {
	return d.Wallet
}
