// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txn

import (
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/mintastic/mintsdk/addrmap"
)

// domainTagLength is the length of a domain tag in bytes.
const domainTagLength = 32

// TransactionDomainTag prefixes every signed transaction message.  It is the
// string FLOW-V0.0-transaction right padded with zero bytes.
var TransactionDomainTag = paddedDomainTag("FLOW-V0.0-transaction")

// BlockIDLength is the length of a block id in bytes.
const BlockIDLength = 32

func paddedDomainTag(s string) [domainTagLength]byte {
	var tag [domainTagLength]byte
	if len(s) > domainTagLength {
		panic(fmt.Sprintf("domain tag %s exceeds %d bytes", s,
			domainTagLength))
	}
	copy(tag[:], s)
	return tag
}

// payloadCanonicalForm is the RLP layout of the signed payload.
type payloadCanonicalForm struct {
	Script                    []byte
	Arguments                 [][]byte
	ReferenceBlockID          []byte
	GasLimit                  uint64
	ProposalKeyAddress        []byte
	ProposalKeyIndex          uint64
	ProposalKeySequenceNumber uint64
	Payer                     []byte
	Authorizers               [][]byte
}

// signatureCanonicalForm is the RLP layout of one payload signature inside
// the envelope.
type signatureCanonicalForm struct {
	SignerIndex uint
	KeyIndex    uint
	Signature   []byte
}

// envelopeCanonicalForm is the RLP layout signed by the payer.
type envelopeCanonicalForm struct {
	Payload           payloadCanonicalForm
	PayloadSignatures []signatureCanonicalForm
}

func decodeAddress(addr string) ([]byte, error) {
	b, err := addrmap.DecodeAddress(addr)
	if err != nil {
		return nil, txError(ErrEncoding, "invalid address", err)
	}
	return b[:], nil
}

// decodeBlockID returns the 32 byte form of a hex block id.  Short ids are
// left padded.
func decodeBlockID(id string) ([]byte, error) {
	raw, err := hex.DecodeString(addrmap.SansPrefix(id))
	if err != nil || len(raw) > BlockIDLength {
		str := fmt.Sprintf("invalid reference block id %q", id)
		return nil, txError(ErrEncoding, str, err)
	}
	b := make([]byte, BlockIDLength)
	copy(b[BlockIDLength-len(raw):], raw)
	return b, nil
}

func (tx *Transaction) payloadCanonicalForm() (*payloadCanonicalForm, error) {
	refBlockID, err := decodeBlockID(tx.ReferenceBlockID)
	if err != nil {
		return nil, err
	}
	proposer, err := decodeAddress(tx.ProposalKey.Address)
	if err != nil {
		return nil, err
	}
	payer, err := decodeAddress(tx.Payer)
	if err != nil {
		return nil, err
	}
	authorizers := make([][]byte, len(tx.Authorizers))
	for i, addr := range tx.Authorizers {
		if authorizers[i], err = decodeAddress(addr); err != nil {
			return nil, err
		}
	}

	args := tx.Arguments
	if args == nil {
		args = [][]byte{}
	}
	return &payloadCanonicalForm{
		Script:                    []byte(tx.Script),
		Arguments:                 args,
		ReferenceBlockID:          refBlockID,
		GasLimit:                  tx.GasLimit,
		ProposalKeyAddress:        proposer,
		ProposalKeyIndex:          uint64(tx.ProposalKey.KeyIndex),
		ProposalKeySequenceNumber: tx.ProposalKey.SequenceNumber,
		Payer:                     payer,
		Authorizers:               authorizers,
	}, nil
}

// signerIndex maps each signing address to its position in the signer
// list: proposer, payer, then authorizers, without duplicates.
func (tx *Transaction) signerIndex() map[string]int {
	index := make(map[string]int)
	add := func(addr string) {
		if _, ok := index[addr]; !ok {
			index[addr] = len(index)
		}
	}
	add(tx.ProposalKey.Address)
	add(tx.Payer)
	for _, addr := range tx.Authorizers {
		add(addr)
	}
	return index
}

func (tx *Transaction) payloadSignaturesCanonicalForm() []signatureCanonicalForm {
	index := tx.signerIndex()
	sigs := make([]signatureCanonicalForm, 0, len(tx.PayloadSignatures))
	for _, sig := range tx.PayloadSignatures {
		sigs = append(sigs, signatureCanonicalForm{
			SignerIndex: uint(index[sig.Address]),
			KeyIndex:    uint(sig.KeyIndex),
			Signature:   sig.Signature,
		})
	}
	sort.SliceStable(sigs, func(a, b int) bool {
		if sigs[a].SignerIndex != sigs[b].SignerIndex {
			return sigs[a].SignerIndex < sigs[b].SignerIndex
		}
		return sigs[a].KeyIndex < sigs[b].KeyIndex
	})
	return sigs
}

// PayloadMessage returns the message signed by the proposer and the
// authorizers: the domain tag followed by the RLP encoded payload.
func PayloadMessage(tx *Transaction) ([]byte, error) {
	payload, err := tx.payloadCanonicalForm()
	if err != nil {
		return nil, err
	}
	encoded, err := rlp.EncodeToBytes(payload)
	if err != nil {
		return nil, txError(ErrEncoding, "unable to encode payload", err)
	}
	return append(TransactionDomainTag[:], encoded...), nil
}

// EnvelopeMessage returns the message signed by the payer: the domain tag
// followed by the RLP encoded payload and payload signatures.
func EnvelopeMessage(tx *Transaction) ([]byte, error) {
	payload, err := tx.payloadCanonicalForm()
	if err != nil {
		return nil, err
	}
	encoded, err := rlp.EncodeToBytes(&envelopeCanonicalForm{
		Payload:           *payload,
		PayloadSignatures: tx.payloadSignaturesCanonicalForm(),
	})
	if err != nil {
		return nil, txError(ErrEncoding, "unable to encode envelope", err)
	}
	return append(TransactionDomainTag[:], encoded...), nil
}
