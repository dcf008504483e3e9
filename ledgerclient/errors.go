// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledgerclient

import (
	"errors"

	"github.com/mintastic/mintsdk/ledgerjson"
)

var (
	// ErrInvalidParam is returned when the caller provides an invalid
	// parameter to an RPC method.
	ErrInvalidParam = errors.New("invalid param")

	// ErrClientShutdown is returned for requests issued after the client
	// was shut down, and for requests still pending when it happened.
	ErrClientShutdown = errors.New("the client has been shutdown")

	// ErrClientDisconnected is returned for requests issued on a
	// websocket that was closed by the remote end.
	ErrClientDisconnected = errors.New("the client has been disconnected")
)

// IsRPCError reports whether err carries a ledger RPC error with code.
func IsRPCError(err error, code ledgerjson.RPCErrorCode) bool {
	var rpcErr *ledgerjson.RPCError
	return errors.As(err, &rpcErr) && rpcErr.Code == code
}
