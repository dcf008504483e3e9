// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mintastic

import (
	"context"

	"github.com/mintastic/mintsdk/dispatch"
	"github.com/mintastic/mintsdk/engine"
	"github.com/mintastic/mintsdk/ledgerjson"
)

// MintFlow mints amount flow tokens to recipient.  The service account
// proposes, pays and authorizes.
func MintFlow(recipient, amount string) engine.Operation[struct{}] {
	if recipient == "" {
		return failed[struct{}](invalidArg("invalid recipient address found"))
	}
	if err := ledgerjson.ValidateFix64(amount); err != nil {
		return failed[struct{}](opError(ErrInvalidArgument, "invalid amount value", err))
	}
	return exec(TxMintFlow, gasDefault, "",
		ledgerjson.Address(recipient),
		ledgerjson.UFix64(amount))
}

// TransferFlow moves amount flow tokens from owner to recipient.
func TransferFlow(owner, recipient, amount string) engine.Operation[struct{}] {
	if err := ledgerjson.ValidateFix64(amount); err != nil {
		return failed[struct{}](opError(ErrInvalidArgument, "invalid amount found", err))
	}
	switch {
	case owner == "":
		return failed[struct{}](invalidArg("invalid owner address found"))
	case recipient == "":
		return failed[struct{}](invalidArg("invalid recipient address found"))
	}

	return func(ctx context.Context, e *engine.Engine) (struct{}, error) {
		res, err := transact(ctx, e, TxTransferFlow, gasDefault, e.Authz(owner, 0),
			ledgerjson.Address(recipient),
			ledgerjson.UFix64(amount))
		if err != nil {
			return struct{}{}, err
		}
		return struct{}{}, e.Dispatch(ctx, res.TransactionID, func(ctx context.Context, d dispatch.Dispatcher) error {
			return d.OnTransferFlow(ctx, res.TransactionID, owner, recipient, amount)
		})
	}
}
