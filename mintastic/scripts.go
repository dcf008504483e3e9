// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mintastic

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mintastic/mintsdk/engine"
	"github.com/mintastic/mintsdk/ledgerjson"
)

// script returns an operation that runs the named script and converts its
// decoded value with convert.
func script[T any](name string, convert func(interface{}) (T, error),
	args ...ledgerjson.Value) engine.Operation[T] {

	return func(ctx context.Context, e *engine.Engine) (T, error) {
		var zero T
		v, err := e.Script(ctx, name, args...)
		if err != nil {
			return zero, err
		}
		decoded, err := v.Decode()
		if err != nil {
			return zero, err
		}
		return convert(decoded)
	}
}

func unexpected(want string, v interface{}) error {
	str := fmt.Sprintf("expected %s, got %T", want, v)
	return opError(ErrUnexpectedResult, str, nil)
}

func toBool(v interface{}) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, unexpected("a bool", v)
	}
	return b, nil
}

func toStrings(v interface{}) ([]string, error) {
	elems, ok := v.([]interface{})
	if !ok {
		return nil, unexpected("an array", v)
	}
	out := make([]string, 0, len(elems))
	for _, elem := range elems {
		s, ok := elem.(string)
		if !ok {
			return nil, unexpected("a string", elem)
		}
		out = append(out, s)
	}
	return out, nil
}

func toUint64s(v interface{}) ([]uint64, error) {
	elems, ok := v.([]interface{})
	if !ok {
		return nil, unexpected("an array", v)
	}
	out := make([]uint64, 0, len(elems))
	for _, elem := range elems {
		n, err := toUint64(elem)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// toFloat64 parses a fixed point decimal.
func toFloat64(v interface{}) (float64, error) {
	s, ok := v.(string)
	if !ok {
		return 0, unexpected("a fixed point decimal", v)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, opError(ErrUnexpectedResult, "malformed decimal", err)
	}
	return f, nil
}

func toFields(v interface{}) (Fields, error) {
	if v == nil {
		return nil, nil
	}
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil, unexpected("a dictionary", v)
	}
	return m, nil
}

func toAny(v interface{}) (interface{}, error) {
	return v, nil
}

// requireAddress validates a script address argument.
func requireAddress(address string) error {
	if address == "" {
		return invalidArg("address must not be empty")
	}
	return nil
}

// requireItem validates a script address and asset id argument pair.
func requireItem(address, assetID string) error {
	if err := requireAddress(address); err != nil {
		return err
	}
	if assetID == "" {
		return invalidArg("assetId must not be empty")
	}
	return nil
}

// HasCollectorCollection reports whether address can hold collected tokens.
func HasCollectorCollection(address string) engine.Operation[bool] {
	if err := requireAddress(address); err != nil {
		return failed[bool](err)
	}
	return script(ScriptHasCollectorCollection, toBool, ledgerjson.Address(address))
}

// HasCreatorCollection reports whether address can create assets.
func HasCreatorCollection(address string) engine.Operation[bool] {
	if err := requireAddress(address); err != nil {
		return failed[bool](err)
	}
	return script(ScriptHasCreatorCollection, toBool, ledgerjson.Address(address))
}

// ReadAssetIDs returns the ids of the assets held by address.
func ReadAssetIDs(address string) engine.Operation[[]string] {
	if err := requireAddress(address); err != nil {
		return failed[[]string](err)
	}
	return script(ScriptReadAssetIDs, toStrings, ledgerjson.Address(address))
}

// ReadTokenIDs returns the ids of the tokens held by address.
func ReadTokenIDs(address string) engine.Operation[[]uint64] {
	if err := requireAddress(address); err != nil {
		return failed[[]uint64](err)
	}
	return script(ScriptReadTokenIDs, toUint64s, ledgerjson.Address(address))
}

// GetBalance returns the flow token balance of address.
func GetBalance(address string) engine.Operation[float64] {
	if err := requireAddress(address); err != nil {
		return failed[float64](err)
	}
	return script(ScriptGetBalance, toFloat64, ledgerjson.Address(address))
}

// ReadBids returns the open bids on a market item.
func ReadBids(address, assetID string) engine.Operation[interface{}] {
	if err := requireItem(address, assetID); err != nil {
		return failed[interface{}](err)
	}
	return script(ScriptReadBids, toAny,
		ledgerjson.Address(address), ledgerjson.String(assetID))
}

// ReadItemPrice returns the price of a market item.
func ReadItemPrice(address, assetID string) engine.Operation[float64] {
	if err := requireItem(address, assetID); err != nil {
		return failed[float64](err)
	}
	return script(ScriptReadItemPrice, toFloat64,
		ledgerjson.Address(address), ledgerjson.String(assetID))
}

// ReadItemRecipients returns the proceeds split of a market item.
func ReadItemRecipients(address, assetID string) engine.Operation[Fields] {
	if err := requireItem(address, assetID); err != nil {
		return failed[Fields](err)
	}
	return script(ScriptReadItemRecipients, toFields,
		ledgerjson.Address(address), ledgerjson.String(assetID))
}

// ReadItemSupply returns the number of tokens offered by a market item.
func ReadItemSupply(address, assetID string) engine.Operation[uint64] {
	if err := requireItem(address, assetID); err != nil {
		return failed[uint64](err)
	}
	return script(ScriptReadItemSupply, toUint64,
		ledgerjson.Address(address), ledgerjson.String(assetID))
}

// ReadStoreAssetIDs returns the ids of the assets listed by address.
func ReadStoreAssetIDs(address string) engine.Operation[[]string] {
	if err := requireAddress(address); err != nil {
		return failed[[]string](err)
	}
	return script(ScriptReadStoreAssetIDs, toStrings, ledgerjson.Address(address))
}

// CheckSupply reports whether amount more tokens of assetID can be minted.
func CheckSupply(assetID string, amount uint16) engine.Operation[bool] {
	return script(ScriptCheckSupply, toBool,
		ledgerjson.String(assetID), ledgerjson.UInt16(amount))
}

// ReadAllAssetIDs returns the ids of every registered asset.
func ReadAllAssetIDs() engine.Operation[[]string] {
	return script(ScriptReadAllAssetIDs, toStrings)
}

// ReadCollectorAssetIDs returns the ids of the assets collected by address.
func ReadCollectorAssetIDs(address string) engine.Operation[[]string] {
	return script(ScriptReadCollectorAssetIDs, toStrings, ledgerjson.Address(address))
}

// ReadNextSeries returns the next series number of a creator.
func ReadNextSeries(creatorID string) engine.Operation[uint64] {
	return script(ScriptReadNextSeries, toUint64, ledgerjson.String(creatorID))
}

// ReadOwnedAssets returns the tokens owned by address grouped by asset.
func ReadOwnedAssets(address string) engine.Operation[Fields] {
	return script(ScriptReadOwnedAssets, toFields, ledgerjson.Address(address))
}

// ReadSupply returns the supply record of an asset.
func ReadSupply(assetID string) engine.Operation[Fields] {
	return script(ScriptReadSupply, toFields, ledgerjson.String(assetID))
}
