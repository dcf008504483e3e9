// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package auth

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a kind of authorization error.
type ErrorCode int

const (
	// ErrInvalidAddress indicates an empty or malformed account address.
	ErrInvalidAddress ErrorCode = iota

	// ErrAccountUnavailable indicates the account could not be fetched, or
	// it has no usable key at the requested index.
	ErrAccountUnavailable

	// ErrProposerSequenceUnavailable indicates the sequence number of the
	// proposal key could not be obtained.  The transaction must not be
	// submitted.
	ErrProposerSequenceUnavailable

	// ErrKeyUnavailable indicates the key source failed to produce a
	// private key.
	ErrKeyUnavailable

	// numErrorCodes is the maximum error code number used in tests.
	numErrorCodes
)

var errorCodeStrings = map[ErrorCode]string{
	ErrInvalidAddress:              "ErrInvalidAddress",
	ErrAccountUnavailable:          "ErrAccountUnavailable",
	ErrProposerSequenceUnavailable: "ErrProposerSequenceUnavailable",
	ErrKeyUnavailable:              "ErrKeyUnavailable",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s := errorCodeStrings[e]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// Error identifies an authorization error.
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

func authError(c ErrorCode, desc string, err error) Error {
	return Error{ErrorCode: c, Description: desc, Err: err}
}

// IsErrorCode returns whether or not the provided error is an authorization
// error with the provided error code.
func IsErrorCode(err error, c ErrorCode) bool {
	var e Error
	return errors.As(err, &e) && e.ErrorCode == c
}
