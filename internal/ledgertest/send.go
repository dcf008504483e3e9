// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledgertest

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/mintastic/mintsdk/addrmap"
	"github.com/mintastic/mintsdk/ledgerjson"
	"github.com/mintastic/mintsdk/signing"
	"github.com/mintastic/mintsdk/txn"
)

func invalidTx(format string, args ...interface{}) *ledgerjson.RPCError {
	return ledgerjson.NewRPCError(ledgerjson.ErrRPCInvalidTransaction,
		fmt.Sprintf(format, args...))
}

// accountKey returns the key at keyIndex of address.  The caller must hold
// the lock.
func (s *Server) accountKey(address string, keyIndex uint32) (*ledgerjson.AccountKey, *ledgerjson.RPCError) {
	addr, err := addrmap.Normalize(address)
	if err != nil {
		return nil, invalidTx("invalid address %q", address)
	}
	acct, ok := s.accounts[addr]
	if !ok {
		return nil, ledgerjson.NewRPCError(ledgerjson.ErrRPCAccountNotFound,
			fmt.Sprintf("account %s not found", addr))
	}
	for i := range acct.Keys {
		if acct.Keys[i].Index == keyIndex && !acct.Keys[i].Revoked {
			return &acct.Keys[i], nil
		}
	}
	return nil, invalidTx("account %s has no key %d", addr, keyIndex)
}

// verify checks sig against the registered key of its signer.  The caller
// must hold the lock.
func (s *Server) verify(sig txn.Signature, msg []byte) *ledgerjson.RPCError {
	key, rpcErr := s.accountKey(sig.Address, sig.KeyIndex)
	if rpcErr != nil {
		return rpcErr
	}
	raw, err := hex.DecodeString(key.PublicKey)
	if err != nil {
		return ledgerjson.ErrRPCInternal
	}
	pub, err := signing.ParsePubKey(raw)
	if err != nil {
		return ledgerjson.ErrRPCInternal
	}
	if !signing.Verify(pub, msg, sig.Signature) {
		return invalidTx("invalid signature by %s key %d", sig.Address,
			sig.KeyIndex)
	}
	return nil
}

// validate checks the proposal key and every signature of tx and bumps the
// proposer's sequence number.  The caller must hold the lock.
func (s *Server) validate(tx *txn.Transaction) *ledgerjson.RPCError {
	proposal := tx.ProposalKey
	key, rpcErr := s.accountKey(proposal.Address, proposal.KeyIndex)
	if rpcErr != nil {
		return rpcErr
	}
	if key.SequenceNumber != proposal.SequenceNumber {
		return ledgerjson.NewRPCError(ledgerjson.ErrRPCInvalidSequenceNumber,
			fmt.Sprintf("invalid proposal key: expected sequence number "+
				"%d, got %d", key.SequenceNumber, proposal.SequenceNumber))
	}

	payloadMsg, err := txn.PayloadMessage(tx)
	if err != nil {
		return invalidTx("%v", err)
	}
	envelopeMsg, err := txn.EnvelopeMessage(tx)
	if err != nil {
		return invalidTx("%v", err)
	}

	signed := make(map[string]bool)
	for _, sig := range tx.PayloadSignatures {
		if rpcErr := s.verify(sig, payloadMsg); rpcErr != nil {
			return rpcErr
		}
		signed[strings.ToLower(sig.Address)] = true
	}
	payerSigned := false
	for _, sig := range tx.EnvelopeSignatures {
		if rpcErr := s.verify(sig, envelopeMsg); rpcErr != nil {
			return rpcErr
		}
		if strings.EqualFold(sig.Address, tx.Payer) {
			payerSigned = true
		}
		signed[strings.ToLower(sig.Address)] = true
	}
	if !payerSigned {
		return invalidTx("missing envelope signature of payer %s", tx.Payer)
	}

	required := append([]string{proposal.Address}, tx.Authorizers...)
	for _, addr := range required {
		if !signed[strings.ToLower(addr)] {
			return invalidTx("missing signature of %s", addr)
		}
	}

	key.SequenceNumber++
	return nil
}

func (s *Server) sendTransaction(req *ledgerjson.Request) (interface{}, *ledgerjson.RPCError) {
	var txReq ledgerjson.TransactionRequest
	if err := req.UnmarshalParams(&txReq); err != nil {
		return nil, invalidParams(err)
	}
	tx, err := txn.FromRequest(&txReq)
	if err != nil {
		return nil, invalidTx("%v", err)
	}

	args := make([]ledgerjson.Value, 0, len(txReq.Arguments))
	for i, raw := range txReq.Arguments {
		v, err := ledgerjson.ParseValue([]byte(raw))
		if err != nil {
			return nil, invalidTx("argument %d: %v", i, err)
		}
		args = append(args, v)
	}

	s.mtx.Lock()
	if rpcErr := s.validate(tx); rpcErr != nil {
		s.mtx.Unlock()
		return nil, rpcErr
	}
	envelopeMsg, _ := txn.EnvelopeMessage(tx)
	txID := hex.EncodeToString(signing.Hash(envelopeMsg))
	s.height++
	height := s.height
	var handler TxHandler
	for _, route := range s.txRoutes {
		if strings.Contains(tx.Script, route.match) {
			handler = route.handler
			break
		}
	}
	s.mtx.Unlock()

	var (
		events []ledgerjson.Event
		abort  string
	)
	if handler != nil {
		events, abort = handler(&Tx{
			ID:          txID,
			Script:      tx.Script,
			Arguments:   args,
			Proposer:    tx.ProposalKey.Address,
			Payer:       tx.Payer,
			Authorizers: tx.Authorizers,
			Height:      height,
		})
	}

	res := &ledgerjson.TransactionResult{
		Status:      ledgerjson.StatusSealed,
		BlockID:     blockID(height),
		BlockHeight: height,
		Events:      []ledgerjson.Event{},
	}
	if abort != "" {
		res.StatusCode = 1
		res.ErrorMessage = abort
	} else {
		for i, ev := range events {
			ev.TransactionID = txID
			ev.EventIndex = uint32(i)
			res.Events = append(res.Events, ev)
		}
	}

	s.mtx.Lock()
	s.results[txID] = res
	s.pending[txID] = s.pendingPolls
	s.events[height] = append(s.events[height], res.Events...)
	s.mtx.Unlock()

	return txID, nil
}
