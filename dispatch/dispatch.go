// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package dispatch notifies external collaborators of domain events once the
// transaction that produced them is sealed.
//
// A Dispatcher method is invoked at most once per transaction, after sealing
// and before the operation returns.  An error returned by a Dispatcher fails
// the operation; it is neither retried nor ignored.
package dispatch

import (
	"context"
)

// Dispatcher receives one callback per recognized domain event.
type Dispatcher interface {
	// OnCreateAccount is invoked when a new account was created at
	// address.
	OnCreateAccount(ctx context.Context, txID, address string) error

	// OnSetMaxSupply is invoked when the max supply of an asset was set.
	OnSetMaxSupply(ctx context.Context, txID, assetID string, supply uint16) error

	// OnTransferFlow is invoked when amount flow tokens moved from owner to
	// recipient.  The amount is a fixed point decimal string.
	OnTransferFlow(ctx context.Context, txID, owner, recipient, amount string) error

	// OnAcceptBid is invoked when owner accepted a bid on a market item.
	OnAcceptBid(ctx context.Context, txID, owner, assetID string, bidID uint64) error

	// OnRejectBid is invoked when owner rejected a bid on a market item.
	OnRejectBid(ctx context.Context, txID, owner, assetID string, bidID uint64) error

	// OnLockMarketItem is invoked when a market item was locked.
	OnLockMarketItem(ctx context.Context, txID, owner, assetID string) error

	// OnUnlockMarketItem is invoked when a market item was unlocked.
	OnUnlockMarketItem(ctx context.Context, txID, owner, assetID string) error

	// OnRemoveMarketItem is invoked when a market item was removed.
	OnRemoveMarketItem(ctx context.Context, txID, owner, assetID string) error

	// OnMint is invoked when amount tokens of an asset were minted to
	// recipient.
	OnMint(ctx context.Context, txID, recipient, assetID string, amount uint16) error
}

// NopDispatcher ignores every event.
type NopDispatcher struct{}

var _ Dispatcher = NopDispatcher{}

func (NopDispatcher) OnCreateAccount(context.Context, string, string) error {
	return nil
}

func (NopDispatcher) OnSetMaxSupply(context.Context, string, string, uint16) error {
	return nil
}

func (NopDispatcher) OnTransferFlow(context.Context, string, string, string, string) error {
	return nil
}

func (NopDispatcher) OnAcceptBid(context.Context, string, string, string, uint64) error {
	return nil
}

func (NopDispatcher) OnRejectBid(context.Context, string, string, string, uint64) error {
	return nil
}

func (NopDispatcher) OnLockMarketItem(context.Context, string, string, string) error {
	return nil
}

func (NopDispatcher) OnUnlockMarketItem(context.Context, string, string, string) error {
	return nil
}

func (NopDispatcher) OnRemoveMarketItem(context.Context, string, string, string) error {
	return nil
}

func (NopDispatcher) OnMint(context.Context, string, string, string, uint16) error {
	return nil
}

// OrNop returns d, or NopDispatcher when d is nil.
func OrNop(d Dispatcher) Dispatcher {
	if d == nil {
		return NopDispatcher{}
	}
	return d
}
