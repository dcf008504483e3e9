// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledgerclient

import (
	"context"
	"encoding/json"

	"github.com/mintastic/mintsdk/ledgerjson"
)

// FutureSendTransactionResult is a future promise to deliver the result of a
// SendTransactionAsync RPC invocation (or an applicable error).
type FutureSendTransactionResult chan *response

// Receive waits for the response promised by the future and returns the id
// the ledger assigned to the transaction.  The id only confirms receipt.
func (r FutureSendTransactionResult) Receive() (string, error) {
	res, err := receiveFuture(r)
	if err != nil {
		return "", err
	}

	var txID string
	if err := json.Unmarshal(res, &txID); err != nil {
		return "", err
	}
	return txID, nil
}

// SendTransactionAsync returns an instance of a type that can be used to get
// the result of the RPC at some future time by invoking the Receive function
// on the returned instance.
//
// See SendTransaction for the blocking version and more details.
func (c *Client) SendTransactionAsync(ctx context.Context,
	tx *ledgerjson.TransactionRequest) FutureSendTransactionResult {

	if tx == nil {
		return newFutureError(ErrInvalidParam)
	}
	cmd := ledgerjson.NewSendTransactionCmd(tx)
	return c.sendCmd(ctx, cmd)
}

// SendTransaction submits a signed transaction and returns its id.
func (c *Client) SendTransaction(ctx context.Context,
	tx *ledgerjson.TransactionRequest) (string, error) {

	return c.SendTransactionAsync(ctx, tx).Receive()
}

// FutureGetAccountResult is a future promise to deliver the result of a
// GetAccountAsync RPC invocation (or an applicable error).
type FutureGetAccountResult chan *response

// Receive waits for the response promised by the future and returns the
// account with its keys.
func (r FutureGetAccountResult) Receive() (*ledgerjson.Account, error) {
	res, err := receiveFuture(r)
	if err != nil {
		return nil, err
	}

	var account ledgerjson.Account
	if err := json.Unmarshal(res, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// GetAccountAsync returns an instance of a type that can be used to get the
// result of the RPC at some future time by invoking the Receive function on
// the returned instance.
//
// See GetAccount for the blocking version and more details.
func (c *Client) GetAccountAsync(ctx context.Context, address string) FutureGetAccountResult {
	cmd := ledgerjson.NewGetAccountCmd(address)
	return c.sendCmd(ctx, cmd)
}

// GetAccount returns the account at address, including the current
// sequence number of every key.
func (c *Client) GetAccount(ctx context.Context, address string) (*ledgerjson.Account, error) {
	return c.GetAccountAsync(ctx, address).Receive()
}

// FutureGetTransactionResult is a future promise to deliver the result of a
// GetTransactionResultAsync RPC invocation (or an applicable error).
type FutureGetTransactionResult chan *response

// Receive waits for the response promised by the future and returns the
// status and events of the transaction.
func (r FutureGetTransactionResult) Receive() (*ledgerjson.TransactionResult, error) {
	res, err := receiveFuture(r)
	if err != nil {
		return nil, err
	}

	var result ledgerjson.TransactionResult
	if err := json.Unmarshal(res, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetTransactionResultAsync returns an instance of a type that can be used to
// get the result of the RPC at some future time by invoking the Receive
// function on the returned instance.
//
// See GetTransactionResult for the blocking version and more details.
func (c *Client) GetTransactionResultAsync(ctx context.Context,
	txID string) FutureGetTransactionResult {

	cmd := ledgerjson.NewGetTransactionResultCmd(txID)
	return c.sendCmd(ctx, cmd)
}

// GetTransactionResult returns the current status of a transaction.  The
// events are only final once the status is sealed.
func (c *Client) GetTransactionResult(ctx context.Context,
	txID string) (*ledgerjson.TransactionResult, error) {

	return c.GetTransactionResultAsync(ctx, txID).Receive()
}

// FutureExecuteScriptResult is a future promise to deliver the result of an
// ExecuteScriptAsync RPC invocation (or an applicable error).
type FutureExecuteScriptResult chan *response

// Receive waits for the response promised by the future and returns the
// value the script returned.
func (r FutureExecuteScriptResult) Receive() (ledgerjson.Value, error) {
	res, err := receiveFuture(r)
	if err != nil {
		return ledgerjson.Value{}, err
	}
	return ledgerjson.ParseValue(res)
}

// ExecuteScriptAsync returns an instance of a type that can be used to get
// the result of the RPC at some future time by invoking the Receive function
// on the returned instance.
//
// See ExecuteScript for the blocking version and more details.
func (c *Client) ExecuteScriptAsync(ctx context.Context, script string,
	args []ledgerjson.Value) FutureExecuteScriptResult {

	cmd := ledgerjson.NewExecuteScriptCmd(script, args)
	return c.sendCmd(ctx, cmd)
}

// ExecuteScript runs a read only script at the latest sealed block.
func (c *Client) ExecuteScript(ctx context.Context, script string,
	args []ledgerjson.Value) (ledgerjson.Value, error) {

	return c.ExecuteScriptAsync(ctx, script, args).Receive()
}

// FutureGetLatestBlockResult is a future promise to deliver the result of a
// GetLatestBlockAsync RPC invocation (or an applicable error).
type FutureGetLatestBlockResult chan *response

// Receive waits for the response promised by the future and returns the
// block.
func (r FutureGetLatestBlockResult) Receive() (*ledgerjson.Block, error) {
	res, err := receiveFuture(r)
	if err != nil {
		return nil, err
	}

	var block ledgerjson.Block
	if err := json.Unmarshal(res, &block); err != nil {
		return nil, err
	}
	return &block, nil
}

// GetLatestBlockAsync returns an instance of a type that can be used to get
// the result of the RPC at some future time by invoking the Receive function
// on the returned instance.
//
// See GetLatestBlock for the blocking version and more details.
func (c *Client) GetLatestBlockAsync(ctx context.Context, sealed bool) FutureGetLatestBlockResult {
	cmd := ledgerjson.NewGetLatestBlockCmd(sealed)
	return c.sendCmd(ctx, cmd)
}

// GetLatestBlock returns the latest block, or the latest sealed block when
// sealed is set.
func (c *Client) GetLatestBlock(ctx context.Context, sealed bool) (*ledgerjson.Block, error) {
	return c.GetLatestBlockAsync(ctx, sealed).Receive()
}
