// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mintastic

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a kind of error.
type ErrorCode int

// These constants are used to identify a specific Error.
const (
	// ErrInvalidArgument indicates an operation argument that failed local
	// validation.  Nothing was sent to the ledger.
	ErrInvalidArgument ErrorCode = iota

	// ErrUnexpectedResult indicates a script or event value of an
	// unexpected type.
	ErrUnexpectedResult

	// numErrorCodes is the maximum error code number used in tests.
	numErrorCodes
)

// Map of ErrorCode values back to their constant names for pretty printing.
var errorCodeStrings = map[ErrorCode]string{
	ErrInvalidArgument:  "ErrInvalidArgument",
	ErrUnexpectedResult: "ErrUnexpectedResult",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s := errorCodeStrings[e]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// Error identifies an operation error.
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

// opError creates an Error given a set of arguments.
func opError(c ErrorCode, desc string, err error) Error {
	return Error{ErrorCode: c, Description: desc, Err: err}
}

// invalidArg returns an ErrInvalidArgument error with the passed
// description.
func invalidArg(desc string) Error {
	return opError(ErrInvalidArgument, desc, nil)
}

// IsErrorCode returns whether or not the provided error is an operation
// error with the provided error code.
func IsErrorCode(err error, c ErrorCode) bool {
	var e Error
	return errors.As(err, &e) && e.ErrorCode == c
}
