// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package addrmap

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a kind of error.
type ErrorCode int

// These constants are used to identify a specific Error.
const (
	// ErrInvalidPlaceholder indicates a placeholder token that is empty or
	// lacks the 0x prefix.
	ErrInvalidPlaceholder ErrorCode = iota

	// ErrOverlappingPlaceholder indicates that one placeholder token is a
	// substring of another one.
	ErrOverlappingPlaceholder

	// ErrInvalidAddress indicates an address that is not a hex encoded
	// account address.
	ErrInvalidAddress

	// ErrMissingContract indicates a deployment file that does not name a
	// required contract.
	ErrMissingContract

	// ErrDeploymentFile indicates a deployment file that could not be read
	// or decoded.
	ErrDeploymentFile

	// numErrorCodes is the maximum error code number used in tests.
	numErrorCodes
)

// Map of ErrorCode values back to their constant names for pretty printing.
var errorCodeStrings = map[ErrorCode]string{
	ErrInvalidPlaceholder:     "ErrInvalidPlaceholder",
	ErrOverlappingPlaceholder: "ErrOverlappingPlaceholder",
	ErrInvalidAddress:         "ErrInvalidAddress",
	ErrMissingContract:        "ErrMissingContract",
	ErrDeploymentFile:         "ErrDeploymentFile",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s := errorCodeStrings[e]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// Error identifies an address map error.  The caller can use type assertions
// or IsErrorCode to access the ErrorCode field.
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

// addrError creates an Error given a set of arguments.
func addrError(c ErrorCode, desc string) Error {
	return Error{ErrorCode: c, Description: desc}
}

// IsErrorCode returns whether or not the provided error is an address map
// error with the provided error code.
func IsErrorCode(err error, c ErrorCode) bool {
	var e Error
	return errors.As(err, &e) && e.ErrorCode == c
}
