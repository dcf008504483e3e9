// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txn

import (
	"encoding/hex"

	"github.com/mintastic/mintsdk/auth"
	"github.com/mintastic/mintsdk/ledgerjson"
)

// Envelope is a transaction before it is built: the code to run, its
// ordered arguments, the gas limit and the authorizers of each role.  The
// proposer and payer may be the same Authorizer.
type Envelope struct {
	// Name labels the transaction in the journal and in traces.
	Name string

	Code        string
	Arguments   []ledgerjson.Value
	GasLimit    uint64
	Proposer    auth.Authorizer
	Payer       auth.Authorizer
	Authorizers []auth.Authorizer
}

// Signature is one signature of a transaction by an account key.
type Signature struct {
	Address   string
	KeyIndex  uint32
	Signature []byte
}

// Transaction is a built and signed transaction ready to be submitted.
type Transaction struct {
	Name string

	Script           string
	Arguments        [][]byte
	ReferenceBlockID string
	GasLimit         uint64

	ProposalKey auth.ProposalKey
	Payer       string
	Authorizers []string

	PayloadSignatures  []Signature
	EnvelopeSignatures []Signature
}

func signaturesRequest(sigs []Signature) []ledgerjson.TransactionSignature {
	out := make([]ledgerjson.TransactionSignature, 0, len(sigs))
	for _, sig := range sigs {
		out = append(out, ledgerjson.TransactionSignature{
			Address:   sig.Address,
			KeyIndex:  sig.KeyIndex,
			Signature: hex.EncodeToString(sig.Signature),
		})
	}
	return out
}

// Request returns the wire form of the transaction.
func (tx *Transaction) Request() *ledgerjson.TransactionRequest {
	args := make([]string, 0, len(tx.Arguments))
	for _, arg := range tx.Arguments {
		args = append(args, string(arg))
	}
	authorizers := append([]string{}, tx.Authorizers...)

	return &ledgerjson.TransactionRequest{
		Script:           tx.Script,
		Arguments:        args,
		ReferenceBlockID: tx.ReferenceBlockID,
		GasLimit:         tx.GasLimit,
		ProposalKey: ledgerjson.ProposalKey{
			Address:        tx.ProposalKey.Address,
			KeyIndex:       tx.ProposalKey.KeyIndex,
			SequenceNumber: tx.ProposalKey.SequenceNumber,
		},
		Payer:              tx.Payer,
		Authorizers:        authorizers,
		PayloadSignatures:  signaturesRequest(tx.PayloadSignatures),
		EnvelopeSignatures: signaturesRequest(tx.EnvelopeSignatures),
	}
}

// FromRequest returns the transaction described by req without signing
// callbacks.  It is the inverse of Request and lets a ledger recompute the
// signed messages.
func FromRequest(req *ledgerjson.TransactionRequest) (*Transaction, error) {
	decodeSigs := func(in []ledgerjson.TransactionSignature) ([]Signature, error) {
		out := make([]Signature, 0, len(in))
		for _, sig := range in {
			raw, err := hex.DecodeString(sig.Signature)
			if err != nil {
				return nil, txError(ErrEncoding, "signature is not hex", err)
			}
			out = append(out, Signature{
				Address:   sig.Address,
				KeyIndex:  sig.KeyIndex,
				Signature: raw,
			})
		}
		return out, nil
	}

	payloadSigs, err := decodeSigs(req.PayloadSignatures)
	if err != nil {
		return nil, err
	}
	envelopeSigs, err := decodeSigs(req.EnvelopeSignatures)
	if err != nil {
		return nil, err
	}

	args := make([][]byte, 0, len(req.Arguments))
	for _, arg := range req.Arguments {
		args = append(args, []byte(arg))
	}

	return &Transaction{
		Script:           req.Script,
		Arguments:        args,
		ReferenceBlockID: req.ReferenceBlockID,
		GasLimit:         req.GasLimit,
		ProposalKey: auth.ProposalKey{
			Authorization: auth.Authorization{
				Address:  req.ProposalKey.Address,
				KeyIndex: req.ProposalKey.KeyIndex,
			},
			SequenceNumber: req.ProposalKey.SequenceNumber,
		},
		Payer:              req.Payer,
		Authorizers:        append([]string{}, req.Authorizers...),
		PayloadSignatures:  payloadSigs,
		EnvelopeSignatures: envelopeSigs,
	}, nil
}
