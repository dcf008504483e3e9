// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mintastic

import (
	"github.com/mintastic/mintsdk/ledgerjson"
)

// Share is the part of an asset's proceeds paid to one address.  Fraction is
// a fixed point decimal such as 0.25.
type Share struct {
	Address  string
	Fraction string
}

// Asset describes an asset registered by a creator before its tokens are
// minted.
type Asset struct {
	CreatorID string
	AssetID   string
	Content   string

	// Address receives the full proceeds when Shares is empty.
	Address string
	Shares  []Share

	// Royalty is a fixed point decimal such as 0.1.
	Royalty string
	Series  uint16
	Type    uint16
}

// shares returns the proceeds split of the asset.
func (a *Asset) shares() []Share {
	if len(a.Shares) > 0 {
		return a.Shares
	}
	return []Share{{Address: a.Address, Fraction: "1.0"}}
}

func (a *Asset) validate() error {
	switch {
	case a == nil:
		return invalidArg("asset must not be nil")
	case a.CreatorID == "":
		return invalidArg("creator id must not be empty")
	case a.AssetID == "":
		return invalidArg("asset id must not be empty")
	case a.Address == "" && len(a.Shares) == 0:
		return invalidArg("asset address must not be empty")
	}
	if err := ledgerjson.ValidateFix64(a.Royalty); err != nil {
		return opError(ErrInvalidArgument, "invalid royalty found", err)
	}
	for _, share := range a.shares() {
		if share.Address == "" {
			return invalidArg("share address must not be empty")
		}
		if err := ledgerjson.ValidateFix64(share.Fraction); err != nil {
			return opError(ErrInvalidArgument, "invalid share found", err)
		}
	}
	return nil
}

// sharesArg encodes the shares as a {Address: UFix64} dictionary.
func (a *Asset) sharesArg() ledgerjson.Value {
	shares := a.shares()
	entries := make([]ledgerjson.KeyValue, 0, len(shares))
	for _, share := range shares {
		entries = append(entries, ledgerjson.KeyValue{
			Key:   ledgerjson.Address(share.Address),
			Value: ledgerjson.UFix64(share.Fraction),
		})
	}
	return ledgerjson.Dictionary(entries...)
}

// MarketItem identifies the market listing of an asset by its owner.
type MarketItem struct {
	Owner   string
	AssetID string
}

func (m MarketItem) validate() error {
	if m.Owner == "" {
		return invalidArg("invalid owner address found")
	}
	if m.AssetID == "" {
		return invalidArg("invalid asset id found")
	}
	return nil
}

// Bid identifies a bid on a market item.
type Bid struct {
	MarketItem
	BidID uint64
}

// Purchase is an offer by Buyer to take Amount tokens of a market item at
// Price.
type Purchase struct {
	MarketItem
	Buyer  string
	Price  string
	Amount uint16
}

func (p *Purchase) validate() error {
	if err := ledgerjson.ValidateFix64(p.Price); err != nil {
		return opError(ErrInvalidArgument, "invalid price found", err)
	}
	if err := p.MarketItem.validate(); err != nil {
		return err
	}
	if p.Buyer == "" {
		return invalidArg("invalid buyer address found")
	}
	if p.Amount == 0 {
		return invalidArg("amount must be greater than zero")
	}
	return nil
}
