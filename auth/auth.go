// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package auth produces the authorizations that fill the proposer, payer and
// authorizer roles of a transaction.
//
// Only the proposer carries a sequence number.  Authorize serves the payer
// and authorizer roles and never queries the ledger for one; Propose serves
// the proposer role and always does, failing with
// ErrProposerSequenceUnavailable when it cannot.
//
// Payer and authorizer keys are not validated locally.  A missing or revoked
// key surfaces as a rejection of the transaction by the ledger.
package auth

//go:generate mockgen -source auth.go -destination auth_mocks.go -package auth

import (
	"context"

	"github.com/mintastic/mintsdk/ledgerjson"
)

// SignFunc signs a transaction message and returns the 64 byte r||s
// signature.
type SignFunc func(message []byte) ([]byte, error)

// Role is a signing role other than proposer.
type Role int

const (
	// RolePayer signs the envelope and pays the fees.
	RolePayer Role = iota

	// RoleAuthorizer signs the payload and authorizes account access.
	RoleAuthorizer
)

// String returns the role name.
func (r Role) String() string {
	switch r {
	case RolePayer:
		return "payer"
	case RoleAuthorizer:
		return "authorizer"
	}
	return "unknown"
}

// Authorization is the address, key and signing callback for one role of one
// transaction.  It is built per transaction and never reused.
type Authorization struct {
	Address  string
	KeyIndex uint32
	Sign     SignFunc
}

// ProposalKey is the authorization of the proposer together with the
// sequence number read while building the transaction.
type ProposalKey struct {
	Authorization
	SequenceNumber uint64
}

// Authorizer fills transaction roles for one account key.
type Authorizer interface {
	// Authorize returns the authorization for the payer or authorizer
	// role.
	Authorize(ctx context.Context, role Role) (*Authorization, error)

	// Propose returns the authorization for the proposer role with a
	// freshly read sequence number.
	Propose(ctx context.Context) (*ProposalKey, error)
}

// Provider hands out an Authorizer per account key.  An empty address
// selects the provider's service account.
type Provider interface {
	Authz(address string, keyIndex uint32) Authorizer
}

// AccountSource fetches accounts from the ledger.
type AccountSource interface {
	GetAccount(ctx context.Context, address string) (*ledgerjson.Account, error)
}

// KeySource yields the hex encoded private key.  It is called once per
// signature.
type KeySource interface {
	PrivateKey() (string, error)
}
