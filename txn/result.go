// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txn

import (
	"github.com/mintastic/mintsdk/ledgerjson"
)

// Result is a sealed transaction with the events it emitted in emission
// order.
type Result struct {
	TransactionID string
	Status        ledgerjson.TransactionStatus
	BlockHeight   uint64
	Events        []ledgerjson.Event
}

// FindEvent returns the first event whose qualified type ends with suffix,
// for example MintasticNFT.Mint.  A missing event is not an error.
func (r *Result) FindEvent(suffix string) (*ledgerjson.Event, bool) {
	for i := range r.Events {
		if r.Events[i].HasSuffix(suffix) {
			return &r.Events[i], true
		}
	}
	return nil, false
}

// FindExactEvent returns the first event of type typ.
func (r *Result) FindExactEvent(typ string) (*ledgerjson.Event, bool) {
	for i := range r.Events {
		if r.Events[i].Type == typ {
			return &r.Events[i], true
		}
	}
	return nil, false
}

// EventFields returns the decoded fields of the first event matching
// suffix, or nil when there is none.
func (r *Result) EventFields(suffix string) (map[string]interface{}, error) {
	ev, ok := r.FindEvent(suffix)
	if !ok {
		return nil, nil
	}
	return ev.Fields()
}
