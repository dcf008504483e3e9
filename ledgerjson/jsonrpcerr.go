// Copyright (c) 2014 The btcsuite developers
// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledgerjson

// Standard JSON-RPC 2.0 errors.
var (
	ErrRPCInvalidRequest = &RPCError{
		Code:    -32600,
		Message: "Invalid request",
	}
	ErrRPCMethodNotFound = &RPCError{
		Code:    -32601,
		Message: "Method not found",
	}
	ErrRPCInvalidParams = &RPCError{
		Code:    -32602,
		Message: "Invalid parameters",
	}
	ErrRPCInternal = &RPCError{
		Code:    -32603,
		Message: "Internal error",
	}
	ErrRPCParse = &RPCError{
		Code:    -32700,
		Message: "Parse error",
	}
)

// Ledger specific errors.
const (
	// ErrRPCAccountNotFound indicates that no account exists at the
	// requested address.
	ErrRPCAccountNotFound RPCErrorCode = -5

	// ErrRPCInvalidTransaction indicates a transaction that failed
	// validation before execution, such as a bad signature.
	ErrRPCInvalidTransaction RPCErrorCode = -25

	// ErrRPCInvalidSequenceNumber indicates a proposal key whose sequence
	// number does not match the one stored on chain.
	ErrRPCInvalidSequenceNumber RPCErrorCode = -26

	// ErrRPCTransactionNotFound indicates an unknown transaction id.
	ErrRPCTransactionNotFound RPCErrorCode = -27

	// ErrRPCScriptFailed indicates a script that aborted during execution.
	ErrRPCScriptFailed RPCErrorCode = -28

	// ErrRPCHeightRange indicates an event query whose block range is
	// invalid or too large.
	ErrRPCHeightRange RPCErrorCode = -29
)
