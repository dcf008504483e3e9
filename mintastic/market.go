// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mintastic

import (
	"context"

	"github.com/mintastic/mintsdk/addrmap"
	"github.com/mintastic/mintsdk/dispatch"
	"github.com/mintastic/mintsdk/engine"
	"github.com/mintastic/mintsdk/ledgerjson"
)

// itemArgs returns the owner and asset id arguments of a market item.
func (m MarketItem) itemArgs() []ledgerjson.Value {
	return []ledgerjson.Value{
		ledgerjson.Address(m.Owner),
		ledgerjson.String(m.AssetID),
	}
}

// AcceptBid accepts a bid on behalf of the item owner and returns the id of
// the accepted bid, or zero when the transaction emitted no
// MarketItemBidAccepted event.
func AcceptBid(bid Bid) engine.Operation[uint64] {
	if err := bid.validate(); err != nil {
		return failed[uint64](err)
	}

	args := append(bid.itemArgs(), ledgerjson.UInt64(bid.BidID))
	return func(ctx context.Context, e *engine.Engine) (uint64, error) {
		res, err := transact(ctx, e, TxAcceptBid, gasDefault, e.Authz(bid.Owner, 0), args...)
		if err != nil {
			return 0, err
		}
		fields, err := eventFields(res, addrmap.MintasticMarket, EventMarketItemBidAccepted)
		if err != nil || fields == nil {
			return 0, err
		}
		bidID, err := toUint64(fields["bidId"])
		if err != nil {
			return 0, err
		}
		err = e.Dispatch(ctx, res.TransactionID, func(ctx context.Context, d dispatch.Dispatcher) error {
			return d.OnAcceptBid(ctx, res.TransactionID, bid.Owner, bid.AssetID, bid.BidID)
		})
		if err != nil {
			return 0, err
		}
		return bidID, nil
	}
}

// RejectBid rejects a bid on behalf of the item owner.
func RejectBid(bid Bid) engine.Operation[struct{}] {
	if err := bid.validate(); err != nil {
		return failed[struct{}](err)
	}

	args := append(bid.itemArgs(), ledgerjson.UInt64(bid.BidID))
	return func(ctx context.Context, e *engine.Engine) (struct{}, error) {
		res, err := transact(ctx, e, TxRejectBid, gasDefault, e.Authz(bid.Owner, 0), args...)
		if err != nil {
			return struct{}{}, err
		}
		return struct{}{}, e.Dispatch(ctx, res.TransactionID, func(ctx context.Context, d dispatch.Dispatcher) error {
			return d.OnRejectBid(ctx, res.TransactionID, bid.Owner, bid.AssetID, bid.BidID)
		})
	}
}

// CancelBid withdraws a bid.
func CancelBid(bid Bid) engine.Operation[struct{}] {
	if err := bid.validate(); err != nil {
		return failed[struct{}](err)
	}
	args := append(bid.itemArgs(), ledgerjson.UInt64(bid.BidID))
	return exec(TxCancelBid, gasDefault, bid.Owner, args...)
}

// purchaseArgs returns owner, buyer, asset id, price and amount.
func (p *Purchase) purchaseArgs() []ledgerjson.Value {
	return []ledgerjson.Value{
		ledgerjson.Address(p.Owner),
		ledgerjson.Address(p.Buyer),
		ledgerjson.String(p.AssetID),
		ledgerjson.UFix64(p.Price),
		ledgerjson.UInt16(p.Amount),
	}
}

// BidWithFiat places a bid paid off chain.  The service account signs.
func BidWithFiat(p *Purchase) engine.Operation[struct{}] {
	if err := p.validate(); err != nil {
		return failed[struct{}](err)
	}
	return exec(TxBid, gasDefault, "", p.purchaseArgs()...)
}

// BuyWithFiat buys a market item paid off chain.  With unlock set the item
// is unlocked in the same transaction.  The service account signs.
func BuyWithFiat(p *Purchase, unlock bool) engine.Operation[struct{}] {
	if err := p.validate(); err != nil {
		return failed[struct{}](err)
	}
	name := TxBuyWithFiat
	if unlock {
		name = TxUnlockBuyWithFiat
	}
	return exec(name, gasDefault, "", p.purchaseArgs()...)
}

// BuyWithFlow buys a market item with the buyer's flow tokens.  The buyer
// signs.
func BuyWithFlow(p *Purchase) engine.Operation[struct{}] {
	if err := p.validate(); err != nil {
		return failed[struct{}](err)
	}
	return exec(TxBuyWithFlow, gasDefault, p.Buyer,
		ledgerjson.Address(p.Owner),
		ledgerjson.String(p.AssetID),
		ledgerjson.UFix64(p.Price),
		ledgerjson.UInt16(p.Amount))
}

// CreateLazyOffer lists an asset that is minted when it is bought.
func CreateLazyOffer(item MarketItem, price string) engine.Operation[struct{}] {
	if err := item.validate(); err != nil {
		return failed[struct{}](err)
	}
	if err := ledgerjson.ValidateFix64(price); err != nil {
		return failed[struct{}](opError(ErrInvalidArgument, "invalid price found", err))
	}
	args := append(item.itemArgs(), ledgerjson.UFix64(price))
	return exec(TxCreateLazyOffer, gasLight, "", args...)
}

// CreateListOffer lists owned tokens of an asset.  The owner signs.
func CreateListOffer(item MarketItem, price string) engine.Operation[struct{}] {
	if err := item.validate(); err != nil {
		return failed[struct{}](err)
	}
	if err := ledgerjson.ValidateFix64(price); err != nil {
		return failed[struct{}](opError(ErrInvalidArgument, "invalid price found", err))
	}
	return exec(TxCreateListOffer, gasLight, item.Owner,
		ledgerjson.String(item.AssetID),
		ledgerjson.UFix64(price))
}

// marketItemOp runs the named transaction signed by signer, an empty signer
// being the service account, and then notifies the dispatcher.
func marketItemOp(name string, item MarketItem, signer string, args []ledgerjson.Value,
	notify func(ctx context.Context, d dispatch.Dispatcher, txID string) error) engine.Operation[struct{}] {

	if err := item.validate(); err != nil {
		return failed[struct{}](err)
	}
	return func(ctx context.Context, e *engine.Engine) (struct{}, error) {
		res, err := transact(ctx, e, name, gasDefault, e.Authz(signer, 0), args...)
		if err != nil {
			return struct{}{}, err
		}
		return struct{}{}, e.Dispatch(ctx, res.TransactionID, func(ctx context.Context, d dispatch.Dispatcher) error {
			return notify(ctx, d, res.TransactionID)
		})
	}
}

// LockMarketItem locks a market item against purchases.
func LockMarketItem(item MarketItem) engine.Operation[struct{}] {
	return marketItemOp(TxLockMarketItem, item, "", item.itemArgs(),
		func(ctx context.Context, d dispatch.Dispatcher, txID string) error {
			return d.OnLockMarketItem(ctx, txID, item.Owner, item.AssetID)
		})
}

// UnlockMarketItem unlocks a market item.
func UnlockMarketItem(item MarketItem) engine.Operation[struct{}] {
	return marketItemOp(TxUnlockMarketItem, item, "", item.itemArgs(),
		func(ctx context.Context, d dispatch.Dispatcher, txID string) error {
			return d.OnUnlockMarketItem(ctx, txID, item.Owner, item.AssetID)
		})
}

// RemoveMarketItem delists a market item.  The owner signs.
func RemoveMarketItem(item MarketItem) engine.Operation[struct{}] {
	args := []ledgerjson.Value{ledgerjson.String(item.AssetID)}
	return marketItemOp(TxRemoveMarketItem, item, item.Owner, args,
		func(ctx context.Context, d dispatch.Dispatcher, txID string) error {
			return d.OnRemoveMarketItem(ctx, txID, item.Owner, item.AssetID)
		})
}

// LockOffering reserves amount tokens of a market item and returns the
// fields of the MarketItemLocked event, or nil when none was emitted.
func LockOffering(item MarketItem, amount uint16) engine.Operation[Fields] {
	if err := item.validate(); err != nil {
		return failed[Fields](err)
	}
	args := append(item.itemArgs(), ledgerjson.UInt16(amount))
	return func(ctx context.Context, e *engine.Engine) (Fields, error) {
		res, err := transact(ctx, e, TxLockOffering, gasDefault, service(e), args...)
		if err != nil {
			return nil, err
		}
		return eventFields(res, addrmap.MintasticMarket, EventMarketItemLocked)
	}
}

// UnlockOffering releases amount reserved tokens of a market item.
func UnlockOffering(item MarketItem, amount uint16) engine.Operation[struct{}] {
	if err := item.validate(); err != nil {
		return failed[struct{}](err)
	}
	args := append(item.itemArgs(), ledgerjson.UInt16(amount))
	return exec(TxUnlockOffering, gasDefault, "", args...)
}

// SetBlockLimit sets the number of blocks a market lock lasts.
func SetBlockLimit(limit uint64) engine.Operation[struct{}] {
	if limit == 0 {
		return failed[struct{}](invalidArg("block limit must be greater than zero"))
	}
	return exec(TxSetBlockLimit, gasDefault, "", ledgerjson.UInt64(limit))
}

// SetItemPrice updates the price of a market item.  The owner signs.
func SetItemPrice(item MarketItem) engine.Operation[struct{}] {
	if err := item.validate(); err != nil {
		return failed[struct{}](err)
	}
	return exec(TxSetItemPrice, gasDefault, item.Owner, item.itemArgs()...)
}

// SetMarketFee sets the market fee for key.  Both are fixed point decimals.
func SetMarketFee(key, value string) engine.Operation[struct{}] {
	if err := ledgerjson.ValidateFix64(key); err != nil {
		return failed[struct{}](opError(ErrInvalidArgument, "invalid fee key found", err))
	}
	if err := ledgerjson.ValidateFix64(value); err != nil {
		return failed[struct{}](opError(ErrInvalidArgument, "invalid fee value found", err))
	}
	return exec(TxSetMarketFee, gasDefault, "",
		ledgerjson.UFix64(key),
		ledgerjson.UFix64(value))
}
