// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package ledgerclient implements a JSON-RPC client for a ledger access node.

Overview

The client speaks JSON-RPC 2.0 either with one HTTP POST per request or over
a single long lived websocket.  Both transports may be routed through a SOCKS5
proxy.

Asynchronous Futures

Every method has an Async form that returns a future.  The request is sent
immediately and the future's Receive method blocks until the reply arrives:

	f := client.GetAccountAsync(ctx, "0xf8d6e0586b0a20c7")
	// do other work
	account, err := f.Receive()

The blocking form is a shorthand for calling Receive right away.  A context
bounds how long a request may wait for its reply.  Cancelling it does not
withdraw anything already delivered to the ledger.

Errors

Errors returned by the ledger are of type *ledgerjson.RPCError.  Transport
errors are returned wrapped, and ErrClientShutdown is returned for requests
issued after Shutdown.  No request is ever retried.
*/
package ledgerclient
