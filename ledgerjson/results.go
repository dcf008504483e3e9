// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledgerjson

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Block is the result of getlatestblock.
type Block struct {
	ID        string    `json:"id"`
	Height    uint64    `json:"height"`
	Timestamp time.Time `json:"timestamp"`
}

// AccountKey is one key of an account.
type AccountKey struct {
	Index          uint32 `json:"index"`
	PublicKey      string `json:"publicKey"`
	SignAlgo       uint   `json:"signAlgo"`
	HashAlgo       uint   `json:"hashAlgo"`
	Weight         uint   `json:"weight"`
	SequenceNumber uint64 `json:"sequenceNumber"`
	Revoked        bool   `json:"revoked"`
}

// Account is the result of getaccount.
type Account struct {
	Address string       `json:"address"`
	Balance uint64       `json:"balance"`
	Keys    []AccountKey `json:"keys"`
}

// Key returns the key with the passed index.
func (a *Account) Key(index uint32) (*AccountKey, bool) {
	for i := range a.Keys {
		if a.Keys[i].Index == index {
			return &a.Keys[i], true
		}
	}
	return nil, false
}

// TransactionStatus is the execution state of a transaction.
type TransactionStatus int

// Transaction states in the order a transaction moves through them.
const (
	StatusUnknown TransactionStatus = iota
	StatusPending
	StatusFinalized
	StatusExecuted
	StatusSealed
	StatusExpired
)

var statusStrings = map[TransactionStatus]string{
	StatusUnknown:   "UNKNOWN",
	StatusPending:   "PENDING",
	StatusFinalized: "FINALIZED",
	StatusExecuted:  "EXECUTED",
	StatusSealed:    "SEALED",
	StatusExpired:   "EXPIRED",
}

// String returns the status name.
func (s TransactionStatus) String() string {
	if str, ok := statusStrings[s]; ok {
		return str
	}
	return fmt.Sprintf("TransactionStatus(%d)", int(s))
}

// MarshalJSON encodes the status by name.
func (s TransactionStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a status name.
func (s *TransactionStatus) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return err
	}
	for status, str := range statusStrings {
		if str == name {
			*s = status
			return nil
		}
	}
	return makeError(ErrInvalidType, fmt.Sprintf("unknown transaction "+
		"status %q", name))
}

// Event is an event emitted by a transaction.  Payload is the JSON-Cadence
// encoding of the event value.
type Event struct {
	Type             string          `json:"type"`
	TransactionID    string          `json:"transactionId"`
	TransactionIndex uint32          `json:"transactionIndex"`
	EventIndex       uint32          `json:"eventIndex"`
	Payload          json.RawMessage `json:"payload"`
}

// Fields decodes the payload and returns the event fields.
func (e *Event) Fields() (map[string]interface{}, error) {
	v, err := ParseValue(e.Payload)
	if err != nil {
		return nil, err
	}
	_, fields, err := v.DecodeComposite()
	return fields, err
}

// HasSuffix reports whether the qualified event type ends with suffix.
// Qualified types look like A.<address>.<Contract>.<Event>, so a suffix of
// <Contract>.<Event> matches regardless of the deployment address.
func (e *Event) HasSuffix(suffix string) bool {
	return strings.HasSuffix(e.Type, suffix)
}

// TransactionResult is the result of gettransactionresult.  A sealed
// transaction with a non-empty ErrorMessage was aborted on chain.
type TransactionResult struct {
	Status       TransactionStatus `json:"status"`
	StatusCode   uint              `json:"statusCode"`
	ErrorMessage string            `json:"errorMessage"`
	BlockID      string            `json:"blockId"`
	BlockHeight  uint64            `json:"blockHeight"`
	Events       []Event           `json:"events"`
}

// BlockEvents groups the events of a single block.
type BlockEvents struct {
	BlockID     string  `json:"blockId"`
	BlockHeight uint64  `json:"blockHeight"`
	Events      []Event `json:"events"`
}

// EventType returns the qualified type name of an event declared by contract
// at address.
func EventType(address, contract, event string) string {
	addr := strings.TrimPrefix(strings.ToLower(address), "0x")
	return fmt.Sprintf("A.%s.%s.%s", addr, contract, event)
}
