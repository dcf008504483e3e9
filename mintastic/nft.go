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

// CreateAsset registers asset with a maximum supply of maxSupply tokens.  The
// asset is returned once the transaction is sealed.
func CreateAsset(asset *Asset, maxSupply uint16) engine.Operation[*Asset] {
	if err := asset.validate(); err != nil {
		return failed[*Asset](err)
	}
	if maxSupply == 0 {
		return failed[*Asset](invalidArg("the max supply must be greater than zero"))
	}

	args := []ledgerjson.Value{
		ledgerjson.String(asset.CreatorID),
		ledgerjson.String(asset.AssetID),
		ledgerjson.String(asset.Content),
		asset.sharesArg(),
		ledgerjson.UFix64(asset.Royalty),
		ledgerjson.UInt16(asset.Series),
		ledgerjson.UInt16(asset.Type),
		ledgerjson.UInt16(maxSupply),
	}
	return func(ctx context.Context, e *engine.Engine) (*Asset, error) {
		_, err := transact(ctx, e, TxCreateAsset, gasLight, service(e), args...)
		if err != nil {
			return nil, err
		}
		return asset, nil
	}
}

// Mint mints amount tokens of assetID to recipient and returns the fields of
// the Mint event, or nil when the transaction emitted none.
func Mint(recipient, assetID string, amount uint16) engine.Operation[Fields] {
	switch {
	case recipient == "":
		return failed[Fields](invalidArg("recipient address must not be empty"))
	case assetID == "":
		return failed[Fields](invalidArg("asset id must not be empty"))
	case amount == 0:
		return failed[Fields](invalidArg("the amount must be greater than zero"))
	}

	return func(ctx context.Context, e *engine.Engine) (Fields, error) {
		res, err := transact(ctx, e, TxMint, gasDefault, service(e),
			ledgerjson.Address(recipient),
			ledgerjson.String(assetID),
			ledgerjson.UInt16(amount))
		if err != nil {
			return nil, err
		}
		fields, err := eventFields(res, addrmap.MintasticNFT, EventMint)
		if err != nil || fields == nil {
			return nil, err
		}
		err = e.Dispatch(ctx, res.TransactionID, func(ctx context.Context, d dispatch.Dispatcher) error {
			return d.OnMint(ctx, res.TransactionID, recipient, assetID, amount)
		})
		if err != nil {
			return nil, err
		}
		return fields, nil
	}
}

// LockSeries closes a series of a creator so no further assets join it.
func LockSeries(creatorID string, series uint16) engine.Operation[struct{}] {
	if creatorID == "" {
		return failed[struct{}](invalidArg("creator id must not be empty"))
	}
	return exec(TxLockSeries, gasLight, "",
		ledgerjson.String(creatorID),
		ledgerjson.UInt16(series))
}

// SetMaxSupply sets the max supply of an already registered asset.
func SetMaxSupply(assetID string, supply uint16) engine.Operation[struct{}] {
	switch {
	case assetID == "":
		return failed[struct{}](invalidArg("invalid asset id found"))
	case supply == 0:
		return failed[struct{}](invalidArg("supply must be greater than zero"))
	}

	return func(ctx context.Context, e *engine.Engine) (struct{}, error) {
		res, err := transact(ctx, e, TxSetMaxSupply, gasLight, service(e),
			ledgerjson.String(assetID),
			ledgerjson.UInt16(supply))
		if err != nil {
			return struct{}{}, err
		}
		return struct{}{}, e.Dispatch(ctx, res.TransactionID, func(ctx context.Context, d dispatch.Dispatcher) error {
			return d.OnSetMaxSupply(ctx, res.TransactionID, assetID, supply)
		})
	}
}

// StoreCreator binds creatorID to address.
func StoreCreator(creatorID, address string) engine.Operation[struct{}] {
	switch {
	case creatorID == "":
		return failed[struct{}](invalidArg("the creatorId must not be empty"))
	case address == "":
		return failed[struct{}](invalidArg("the address must not be empty"))
	}
	return exec(TxStoreCreator, gasLight, "",
		ledgerjson.String(creatorID),
		ledgerjson.Address(address))
}

// Transfer moves amount tokens of assetID to buyer.
func Transfer(buyer, assetID string, amount uint16) engine.Operation[struct{}] {
	switch {
	case buyer == "":
		return failed[struct{}](invalidArg("invalid buyer address found"))
	case assetID == "":
		return failed[struct{}](invalidArg("invalid asset id found"))
	}
	return exec(TxTransfer, gasLight, "",
		ledgerjson.Address(buyer),
		ledgerjson.String(assetID),
		ledgerjson.UInt16(amount))
}
