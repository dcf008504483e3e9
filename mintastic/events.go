// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mintastic

import (
	"github.com/mintastic/mintsdk/addrmap"
	"github.com/mintastic/mintsdk/ledgerjson"
	"github.com/mintastic/mintsdk/txn"
)

// Contract events the operations look for.
const (
	EventMint                  = "Mint"
	EventMarketItemBidAccepted = "MarketItemBidAccepted"
	EventMarketItemLocked      = "MarketItemLocked"

	// AccountCreatedEvent is the protocol event emitted for a new account.
	AccountCreatedEvent = "flow.AccountCreated"
)

// Fields are the decoded fields of an event.
type Fields = map[string]interface{}

// EventType returns the qualified type of event declared by contract at the
// address addrs maps it to.  It returns false when addrs does not know the
// contract.
func EventType(addrs *addrmap.AddressMap, contract, event string) (string, bool) {
	if addrs == nil {
		return "", false
	}
	addr, ok := addrs.ContractAddress(contract)
	if !ok {
		return "", false
	}
	return ledgerjson.EventType(addr, contract, event), true
}

// findEvent returns the first event of res whose type ends with
// <contract>.<event>.  The address part of the type varies by deployment and
// is not compared.
func findEvent(res *txn.Result, contract, event string) (*ledgerjson.Event, bool) {
	return res.FindEvent(contract + "." + event)
}

// eventFields returns the decoded fields of the first event of contract in
// res, or nil when the event is absent.
func eventFields(res *txn.Result, contract, event string) (Fields, error) {
	ev, ok := findEvent(res, contract, event)
	if !ok {
		log.Debugf("Transaction %s emitted no %s.%s event",
			res.TransactionID, contract, event)
		return nil, nil
	}
	return ev.Fields()
}
