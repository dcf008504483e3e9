// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledgerjson

import (
	"encoding/json"
)

// Methods served by a ledger access node.
const (
	MethodSendTransaction         = "sendtransaction"
	MethodGetAccount              = "getaccount"
	MethodGetTransactionResult    = "gettransactionresult"
	MethodGetEventsForHeightRange = "geteventsforheightrange"
	MethodExecuteScript           = "executescript"
	MethodGetLatestBlock          = "getlatestblock"
)

// Cmd is implemented by every command.  Params returns the positional params
// of the request in order.
type Cmd interface {
	Method() string
	Params() []interface{}
}

// MarshalCmd returns the JSON-RPC 2.0 request for cmd.
func MarshalCmd(id interface{}, cmd Cmd) ([]byte, error) {
	req, err := NewRequest(RpcVersion2, id, cmd.Method(), cmd.Params())
	if err != nil {
		return nil, err
	}
	return json.Marshal(req)
}

// ProposalKey identifies the key that proposes a transaction and the
// sequence number it proposes with.
type ProposalKey struct {
	Address        string `json:"address"`
	KeyIndex       uint32 `json:"keyIndex"`
	SequenceNumber uint64 `json:"sequenceNumber"`
}

// TransactionSignature is a hex encoded r||s signature by one account key.
type TransactionSignature struct {
	Address   string `json:"address"`
	KeyIndex  uint32 `json:"keyIndex"`
	Signature string `json:"signature"`
}

// TransactionRequest is a signed transaction.  Arguments holds the exact
// JSON-Cadence encodings that were signed.
type TransactionRequest struct {
	Script             string                 `json:"script"`
	Arguments          []string               `json:"arguments"`
	ReferenceBlockID   string                 `json:"referenceBlockId"`
	GasLimit           uint64                 `json:"gasLimit"`
	ProposalKey        ProposalKey            `json:"proposalKey"`
	Payer              string                 `json:"payer"`
	Authorizers        []string               `json:"authorizers"`
	PayloadSignatures  []TransactionSignature `json:"payloadSignatures"`
	EnvelopeSignatures []TransactionSignature `json:"envelopeSignatures"`
}

// SendTransactionCmd submits a signed transaction.
type SendTransactionCmd struct {
	Transaction *TransactionRequest
}

// NewSendTransactionCmd returns a new SendTransactionCmd.
func NewSendTransactionCmd(tx *TransactionRequest) *SendTransactionCmd {
	return &SendTransactionCmd{Transaction: tx}
}

func (c *SendTransactionCmd) Method() string        { return MethodSendTransaction }
func (c *SendTransactionCmd) Params() []interface{} { return []interface{}{c.Transaction} }

// GetAccountCmd fetches an account with its keys.
type GetAccountCmd struct {
	Address string
}

// NewGetAccountCmd returns a new GetAccountCmd.
func NewGetAccountCmd(address string) *GetAccountCmd {
	return &GetAccountCmd{Address: address}
}

func (c *GetAccountCmd) Method() string        { return MethodGetAccount }
func (c *GetAccountCmd) Params() []interface{} { return []interface{}{c.Address} }

// GetTransactionResultCmd fetches the status and events of a transaction.
type GetTransactionResultCmd struct {
	TxID string
}

// NewGetTransactionResultCmd returns a new GetTransactionResultCmd.
func NewGetTransactionResultCmd(txID string) *GetTransactionResultCmd {
	return &GetTransactionResultCmd{TxID: txID}
}

func (c *GetTransactionResultCmd) Method() string        { return MethodGetTransactionResult }
func (c *GetTransactionResultCmd) Params() []interface{} { return []interface{}{c.TxID} }

// GetEventsForHeightRangeCmd fetches the events of one type emitted in the
// blocks StartHeight through EndHeight inclusive.
type GetEventsForHeightRangeCmd struct {
	Type        string
	StartHeight uint64
	EndHeight   uint64
}

// NewGetEventsForHeightRangeCmd returns a new GetEventsForHeightRangeCmd.
func NewGetEventsForHeightRangeCmd(typ string, start, end uint64) *GetEventsForHeightRangeCmd {
	return &GetEventsForHeightRangeCmd{Type: typ, StartHeight: start, EndHeight: end}
}

func (c *GetEventsForHeightRangeCmd) Method() string { return MethodGetEventsForHeightRange }
func (c *GetEventsForHeightRangeCmd) Params() []interface{} {
	return []interface{}{c.Type, c.StartHeight, c.EndHeight}
}

// ExecuteScriptCmd runs a read only script at the latest sealed block.
type ExecuteScriptCmd struct {
	Script    string
	Arguments []Value
}

// NewExecuteScriptCmd returns a new ExecuteScriptCmd.
func NewExecuteScriptCmd(script string, args []Value) *ExecuteScriptCmd {
	if args == nil {
		args = []Value{}
	}
	return &ExecuteScriptCmd{Script: script, Arguments: args}
}

func (c *ExecuteScriptCmd) Method() string        { return MethodExecuteScript }
func (c *ExecuteScriptCmd) Params() []interface{} { return []interface{}{c.Script, c.Arguments} }

// GetLatestBlockCmd fetches the latest block, or the latest sealed block when
// Sealed is set.
type GetLatestBlockCmd struct {
	Sealed bool
}

// NewGetLatestBlockCmd returns a new GetLatestBlockCmd.
func NewGetLatestBlockCmd(sealed bool) *GetLatestBlockCmd {
	return &GetLatestBlockCmd{Sealed: sealed}
}

func (c *GetLatestBlockCmd) Method() string        { return MethodGetLatestBlock }
func (c *GetLatestBlockCmd) Params() []interface{} { return []interface{}{c.Sealed} }
