// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package mintastic implements the operations and scripts of the mintastic
// contracts on top of the engine.
//
// Every constructor validates its arguments first.  An invalid argument
// yields an operation that fails with ErrInvalidArgument without touching
// the ledger.  Otherwise the operation submits one transaction or script,
// waits for it and extracts the result from the emitted events.  Nothing is
// retried.
package mintastic

import (
	"context"
	"fmt"

	"github.com/mintastic/mintsdk/auth"
	"github.com/mintastic/mintsdk/engine"
	"github.com/mintastic/mintsdk/ledgerjson"
	"github.com/mintastic/mintsdk/txn"
)

// Gas limits of the transactions.
const (
	gasSetup   = 35
	gasLight   = 100
	gasAccount = 999
	gasDefault = 1000
)

// failed returns an operation that fails with err.
func failed[T any](err error) engine.Operation[T] {
	return func(context.Context, *engine.Engine) (T, error) {
		var zero T
		return zero, err
	}
}

// transact runs the named transaction with authz filling every role.
func transact(ctx context.Context, e *engine.Engine, name string, gasLimit uint64,
	authz auth.Authorizer, args ...ledgerjson.Value) (*txn.Result, error) {

	return e.Transact(ctx, name, &txn.Envelope{
		Arguments:   args,
		GasLimit:    gasLimit,
		Proposer:    authz,
		Payer:       authz,
		Authorizers: []auth.Authorizer{authz},
	})
}

// service returns the authorizer of the service account.
func service(e *engine.Engine) auth.Authorizer {
	return e.Authz("", 0)
}

// exec returns an operation that runs the named transaction and discards
// its result.
func exec(name string, gasLimit uint64, owner string, args ...ledgerjson.Value) engine.Operation[struct{}] {
	return func(ctx context.Context, e *engine.Engine) (struct{}, error) {
		_, err := transact(ctx, e, name, gasLimit, e.Authz(owner, 0), args...)
		return struct{}{}, err
	}
}

// toUint64 converts a decoded unsigned value.
func toUint64(v interface{}) (uint64, error) {
	switch n := v.(type) {
	case uint64:
		return n, nil
	case int64:
		if n >= 0 {
			return uint64(n), nil
		}
	}
	str := fmt.Sprintf("expected an unsigned integer, got %T", v)
	return 0, opError(ErrUnexpectedResult, str, nil)
}
