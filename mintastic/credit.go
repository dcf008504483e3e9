// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mintastic

import (
	"github.com/mintastic/mintsdk/engine"
	"github.com/mintastic/mintsdk/ledgerjson"
)

// GetExchangeRate requests a fresh exchange rate of currency from the
// credit oracle.
func GetExchangeRate(currency string) engine.Operation[struct{}] {
	if currency == "" {
		return failed[struct{}](invalidArg("invalid currency found"))
	}
	return exec(TxGetExchangeRate, gasDefault, "", ledgerjson.String(currency))
}

// SetRouterProxy installs the oracle router proxy for currency.
func SetRouterProxy(currency string) engine.Operation[struct{}] {
	if currency == "" {
		return failed[struct{}](invalidArg("invalid currency found"))
	}
	return exec(TxSetRouterProxy, gasDefault, "", ledgerjson.String(currency))
}

// SetExchangeRate sets the exchange rate of currency.
func SetExchangeRate(currency, rate string) engine.Operation[struct{}] {
	if currency == "" {
		return failed[struct{}](invalidArg("invalid currency found"))
	}
	if err := ledgerjson.ValidateFix64(rate); err != nil {
		return failed[struct{}](opError(ErrInvalidArgument, "invalid exchange rate found", err))
	}
	return exec(TxSetExchangeRate, gasDefault, "",
		ledgerjson.String(currency),
		ledgerjson.UFix64(rate))
}
