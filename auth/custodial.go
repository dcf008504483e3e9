// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package auth

import (
	"context"
	"fmt"

	"github.com/mintastic/mintsdk/addrmap"
	"github.com/mintastic/mintsdk/ledgerjson"
	"github.com/mintastic/mintsdk/signing"
)

// Custodial signs locally with a private key from Keys.  The key is read on
// every signature and dropped right after.
type Custodial struct {
	// Accounts is queried for the proposer's sequence number.
	Accounts AccountSource

	// Keys yields the private key for every account this provider signs
	// for.
	Keys KeySource

	// ServiceAddress is used when Authz is passed an empty address.
	ServiceAddress string
}

var _ Provider = (*Custodial)(nil)

// Authz returns an Authorizer for the key at keyIndex of address.
func (c *Custodial) Authz(address string, keyIndex uint32) Authorizer {
	if address == "" {
		address = c.ServiceAddress
	}
	return &custodialAuthorizer{
		provider: c,
		address:  address,
		keyIndex: keyIndex,
	}
}

// custodialAuthorizer is the Authorizer of one account key of a Custodial
// provider.
type custodialAuthorizer struct {
	provider *Custodial
	address  string
	keyIndex uint32
}

func (a *custodialAuthorizer) normalizedAddress() (string, error) {
	if a.address == "" {
		return "", authError(ErrInvalidAddress, "address must not be empty", nil)
	}
	addr, err := addrmap.Normalize(a.address)
	if err != nil {
		str := fmt.Sprintf("invalid address %q", a.address)
		return "", authError(ErrInvalidAddress, str, err)
	}
	return addr, nil
}

// sign reads the private key and signs message with it.
func (a *custodialAuthorizer) sign(message []byte) ([]byte, error) {
	keyHex, err := a.provider.Keys.PrivateKey()
	if err != nil {
		return nil, err
	}
	key, err := signing.PrivKeyFromHex(keyHex)
	if err != nil {
		return nil, err
	}
	return signing.SignBytes(key, message)
}

// Authorize returns the authorization for role without querying the ledger.
func (a *custodialAuthorizer) Authorize(_ context.Context, role Role) (*Authorization, error) {
	addr, err := a.normalizedAddress()
	if err != nil {
		return nil, err
	}
	log.Tracef("Authorizing %s as %s with key %d", addr, role, a.keyIndex)

	return &Authorization{
		Address:  addr,
		KeyIndex: a.keyIndex,
		Sign:     a.sign,
	}, nil
}

// Propose fetches the account and returns the proposal key with the
// current sequence number of the key.
func (a *custodialAuthorizer) Propose(ctx context.Context) (*ProposalKey, error) {
	addr, err := a.normalizedAddress()
	if err != nil {
		return nil, err
	}

	key, err := accountKey(ctx, a.provider.Accounts, addr, a.keyIndex)
	if err != nil {
		str := fmt.Sprintf("no sequence number for key %d of %s",
			a.keyIndex, addr)
		return nil, authError(ErrProposerSequenceUnavailable, str, err)
	}
	log.Debugf("Proposing with key %d of %s at sequence %d", a.keyIndex,
		addr, key.SequenceNumber)

	return &ProposalKey{
		Authorization: Authorization{
			Address:  addr,
			KeyIndex: a.keyIndex,
			Sign:     a.sign,
		},
		SequenceNumber: key.SequenceNumber,
	}, nil
}

// accountKey fetches address and returns its usable key at keyIndex.
func accountKey(ctx context.Context, accounts AccountSource, address string,
	keyIndex uint32) (*ledgerjson.AccountKey, error) {

	if accounts == nil {
		return nil, authError(ErrAccountUnavailable, "no account source "+
			"configured", nil)
	}
	account, err := accounts.GetAccount(ctx, address)
	if err != nil {
		str := fmt.Sprintf("unable to fetch account %s", address)
		return nil, authError(ErrAccountUnavailable, str, err)
	}
	key, ok := account.Key(keyIndex)
	if !ok {
		str := fmt.Sprintf("account %s has no key %d", address, keyIndex)
		return nil, authError(ErrAccountUnavailable, str, nil)
	}
	if key.Revoked {
		str := fmt.Sprintf("key %d of account %s is revoked", keyIndex,
			address)
		return nil, authError(ErrAccountUnavailable, str, nil)
	}
	return key, nil
}
