// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package signing

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a kind of error.
type ErrorCode int

// These constants are used to identify a specific Error.
const (
	// ErrInvalidKey indicates a private key that is missing or is not a
	// valid P-256 scalar.
	ErrInvalidKey ErrorCode = iota

	// ErrInvalidMessage indicates a message that is not hex encoded.
	ErrInvalidMessage

	// ErrInvalidPubKey indicates a public key that is malformed or not on
	// the curve.
	ErrInvalidPubKey

	// ErrSignatureFailed indicates the underlying ECDSA signer failed.
	ErrSignatureFailed
)

// Map of ErrorCode values back to their constant names for pretty printing.
var errorCodeStrings = map[ErrorCode]string{
	ErrInvalidKey:      "ErrInvalidKey",
	ErrInvalidMessage:  "ErrInvalidMessage",
	ErrInvalidPubKey:   "ErrInvalidPubKey",
	ErrSignatureFailed: "ErrSignatureFailed",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s := errorCodeStrings[e]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// Error identifies a key or signing error.
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

func signingError(c ErrorCode, desc string) Error {
	return Error{ErrorCode: c, Description: desc}
}

// IsErrorCode returns whether or not the provided error is a signing error
// with the provided error code.
func IsErrorCode(err error, c ErrorCode) bool {
	var e Error
	return errors.As(err, &e) && e.ErrorCode == c
}
