// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package metrics collects counters for submitted transactions, executed
// scripts and ledger RPC failures.
package metrics

import (
	"time"
)

// Metrics receives one call per observable event.  Implementations must be
// safe for concurrent use.
type Metrics interface {
	// TransactionSubmitted is called once the ledger accepted a
	// transaction for processing.
	TransactionSubmitted()

	// TransactionSealed is called with the time between submission and
	// the observed seal of a successful transaction.
	TransactionSealed(elapsed time.Duration)

	// TransactionRejected is called when a sealed transaction carries an
	// error message or expired.
	TransactionRejected()

	// ScriptExecuted is called after each read only script.
	ScriptExecuted()

	// RPCError is called when a ledger request fails.
	RPCError(method string)
}

// Nop discards every observation.
type Nop struct{}

var _ Metrics = Nop{}

func (Nop) TransactionSubmitted()           {}
func (Nop) TransactionSealed(time.Duration) {}
func (Nop) TransactionRejected()            {}
func (Nop) ScriptExecuted()                 {}
func (Nop) RPCError(string)                 {}

// OrNop returns m, or Nop when m is nil.
func OrNop(m Metrics) Metrics {
	if m == nil {
		return Nop{}
	}
	return m
}
