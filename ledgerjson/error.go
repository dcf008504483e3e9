// Copyright (c) 2014 The btcsuite developers
// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledgerjson

import (
	"fmt"
)

// ErrorCode identifies a kind of error.
type ErrorCode int

// These constants are used to identify a specific Error.
const (
	// ErrInvalidType indicates a value of the wrong type.
	ErrInvalidType ErrorCode = iota

	// ErrNumParams indicates the wrong number of params for a method.
	ErrNumParams

	// ErrInvalidValue indicates a JSON-Cadence value that could not be
	// decoded.
	ErrInvalidValue

	// ErrInvalidFix64 indicates a fixed point string that does not match
	// the decimal pattern.
	ErrInvalidFix64
)

// Map of ErrorCode values back to their constant names for pretty printing.
var errorCodeStrings = map[ErrorCode]string{
	ErrInvalidType:  "ErrInvalidType",
	ErrNumParams:    "ErrNumParams",
	ErrInvalidValue: "ErrInvalidValue",
	ErrInvalidFix64: "ErrInvalidFix64",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s := errorCodeStrings[e]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// Error identifies a general error.  This differs from an RPCError in that
// this error typically is used more by the consumers of the package as
// opposed to RPCErrors which are intended to be returned to the client
// across the wire via a JSON-RPC Response.
type Error struct {
	ErrorCode   ErrorCode // Describes the kind of error
	Description string    // Human readable description of the issue
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() string {
	return e.Description
}

// makeError creates an Error given a set of arguments.
func makeError(c ErrorCode, desc string) Error {
	return Error{ErrorCode: c, Description: desc}
}
