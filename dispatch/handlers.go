// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package dispatch

import (
	"context"
)

// Handlers is a Dispatcher built from optional callbacks.  A nil callback
// ignores its event.
type Handlers struct {
	// CreateAccount is invoked on account creation.
	CreateAccount func(ctx context.Context, txID, address string) error

	// SetMaxSupply is invoked when the max supply of an asset is set.
	SetMaxSupply func(ctx context.Context, txID, assetID string, supply uint16) error

	TransferFlow func(ctx context.Context, txID, owner, recipient, amount string) error

	// AcceptBid and RejectBid are invoked on the end of a bid.
	AcceptBid func(ctx context.Context, txID, owner, assetID string, bidID uint64) error
	RejectBid func(ctx context.Context, txID, owner, assetID string, bidID uint64) error

	// LockMarketItem, UnlockMarketItem and RemoveMarketItem follow the
	// lifecycle of a market item.
	LockMarketItem   func(ctx context.Context, txID, owner, assetID string) error
	UnlockMarketItem func(ctx context.Context, txID, owner, assetID string) error
	RemoveMarketItem func(ctx context.Context, txID, owner, assetID string) error

	Mint func(ctx context.Context, txID, recipient, assetID string, amount uint16) error
}

var _ Dispatcher = (*Handlers)(nil)

func (h *Handlers) OnCreateAccount(ctx context.Context, txID, address string) error {
	if h.CreateAccount == nil {
		return nil
	}
	return h.CreateAccount(ctx, txID, address)
}

func (h *Handlers) OnSetMaxSupply(ctx context.Context, txID, assetID string, supply uint16) error {
	if h.SetMaxSupply == nil {
		return nil
	}
	return h.SetMaxSupply(ctx, txID, assetID, supply)
}

func (h *Handlers) OnTransferFlow(ctx context.Context, txID, owner, recipient, amount string) error {
	if h.TransferFlow == nil {
		return nil
	}
	return h.TransferFlow(ctx, txID, owner, recipient, amount)
}

func (h *Handlers) OnAcceptBid(ctx context.Context, txID, owner, assetID string, bidID uint64) error {
	if h.AcceptBid == nil {
		return nil
	}
	return h.AcceptBid(ctx, txID, owner, assetID, bidID)
}

func (h *Handlers) OnRejectBid(ctx context.Context, txID, owner, assetID string, bidID uint64) error {
	if h.RejectBid == nil {
		return nil
	}
	return h.RejectBid(ctx, txID, owner, assetID, bidID)
}

func (h *Handlers) OnLockMarketItem(ctx context.Context, txID, owner, assetID string) error {
	if h.LockMarketItem == nil {
		return nil
	}
	return h.LockMarketItem(ctx, txID, owner, assetID)
}

func (h *Handlers) OnUnlockMarketItem(ctx context.Context, txID, owner, assetID string) error {
	if h.UnlockMarketItem == nil {
		return nil
	}
	return h.UnlockMarketItem(ctx, txID, owner, assetID)
}

func (h *Handlers) OnRemoveMarketItem(ctx context.Context, txID, owner, assetID string) error {
	if h.RemoveMarketItem == nil {
		return nil
	}
	return h.RemoveMarketItem(ctx, txID, owner, assetID)
}

func (h *Handlers) OnMint(ctx context.Context, txID, recipient, assetID string, amount uint16) error {
	if h.Mint == nil {
		return nil
	}
	return h.Mint(ctx, txID, recipient, assetID, amount)
}
