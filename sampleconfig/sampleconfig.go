// Copyright (c) 2017 The Decred developers
// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package sampleconfig

// FileContents is a string containing the commented example config for
// mintctl.
const FileContents = `[Application Options]

; ------------------------------------------------------------------------------
; Ledger access node
; ------------------------------------------------------------------------------

; The access node to connect to.  The default port is 3569.
; rpcserver=localhost:3569

; Path of the JSON-RPC endpoint on the access node.
; rpcendpoint=

; Certificate chain used to validate the access node.  Leave unset to use the
; system roots.
; rpccert=~/.mintctl/access.cert

; Talk plain HTTP to the access node.
; notls=1

; Keep one websocket open instead of issuing an HTTP POST per request.
; websocket=1

; Connect via a SOCKS5 proxy.
; proxy=127.0.0.1:9050
; proxyuser=
; proxypass=


; ------------------------------------------------------------------------------
; Deployment
; ------------------------------------------------------------------------------

; YAML file naming the network, its service account and the address of every
; contract.
; deployment=~/.mintctl/deployment.yaml

; Directory holding the transaction and script templates, one <name>.cdc file
; per template.
; codedir=~/.mintctl/cadence

; Service account address.  Overrides the address in the deployment file.
; serviceaddress=0xf8d6e0586b0a20c7


; ------------------------------------------------------------------------------
; Keys
; ------------------------------------------------------------------------------

; Environment variable holding the hex encoded P-256 private key.
; keyenv=MINTCTL_PRIVATE_KEY

; File holding the hex encoded private key.  Takes precedence over keyenv.  The
; key is prompted for when neither source has one.
; keyfile=~/.mintctl/service.key


; ------------------------------------------------------------------------------
; Transactions
; ------------------------------------------------------------------------------

; Time between transaction status queries.
; pollinterval=1s

; Give up waiting for a result after this long.
; timeout=5m

; Directory of the transaction journal and its storage engine {leveldb, pebble}.
; journaldir=~/.mintctl/journal
; journalbackend=leveldb

; Do not record submitted transactions.
; nojournal=1


; ------------------------------------------------------------------------------
; Debug
; ------------------------------------------------------------------------------

; Directory to log output.
; logdir=~/.mintctl/logs

; Debug logging level.
; Valid levels are {trace, debug, info, warn, error, critical}
; You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set
; log level for individual subsystems.  Use mintctl --debuglevel=show to list
; available subsystems.
; debuglevel=info

; Serve prometheus metrics on this interface/port while a command runs.
; metricslisten=localhost:9101
`
