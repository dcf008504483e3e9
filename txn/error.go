// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txn

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a kind of transaction error.
type ErrorCode int

const (
	// ErrInvalidEnvelope indicates an envelope that cannot be built: no
	// code, a zero gas limit, a missing role or a malformed argument.
	ErrInvalidEnvelope ErrorCode = iota

	// ErrTransactionAborted indicates the ledger sealed the transaction
	// with an error.  The error is an *AbortError carrying the message.
	ErrTransactionAborted

	// ErrTransactionExpired indicates the reference block of the
	// transaction fell out of the expiry window before it was sealed.
	ErrTransactionExpired

	// ErrEncoding indicates a failure of the canonical encoding.
	ErrEncoding

	// numErrorCodes is the maximum error code number used in tests.
	numErrorCodes
)

var errorCodeStrings = map[ErrorCode]string{
	ErrInvalidEnvelope:    "ErrInvalidEnvelope",
	ErrTransactionAborted: "ErrTransactionAborted",
	ErrTransactionExpired: "ErrTransactionExpired",
	ErrEncoding:           "ErrEncoding",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s := errorCodeStrings[e]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// Error identifies a transaction error.
type Error struct {
	ErrorCode   ErrorCode
	Description string
	Err         error
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() string {
	if e.Err != nil {
		return e.Description + ": " + e.Err.Error()
	}
	return e.Description
}

// Unwrap returns the underlying wrapped error.
func (e Error) Unwrap() error {
	return e.Err
}

func txError(c ErrorCode, desc string, err error) Error {
	return Error{ErrorCode: c, Description: desc, Err: err}
}

// IsErrorCode returns whether or not the provided error is a transaction
// error with the provided error code.  An *AbortError matches
// ErrTransactionAborted.
func IsErrorCode(err error, c ErrorCode) bool {
	var abort *AbortError
	if c == ErrTransactionAborted && errors.As(err, &abort) {
		return true
	}
	var e Error
	return errors.As(err, &e) && e.ErrorCode == c
}

// AbortError is returned when the ledger sealed a transaction with an error.
// Message is the ledger's message, unchanged, so callers can match on known
// phrases.
type AbortError struct {
	TxID    string
	Message string
}

// Error returns the ledger's message verbatim.
func (e *AbortError) Error() string {
	return e.Message
}

// Unwrap returns the ErrTransactionAborted marker.
func (e *AbortError) Unwrap() error {
	return txError(ErrTransactionAborted, "transaction aborted", nil)
}
