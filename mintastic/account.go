// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mintastic

import (
	"context"
	"fmt"

	"github.com/mintastic/mintsdk/dispatch"
	"github.com/mintastic/mintsdk/engine"
	"github.com/mintastic/mintsdk/ledgerjson"
)

// CreateAccount creates an account holding the public key of the engine's
// private key and returns its address.  The address is empty when the
// transaction emitted no AccountCreated event.
func CreateAccount() engine.Operation[string] {
	return func(ctx context.Context, e *engine.Engine) (string, error) {
		descriptor, err := e.PublicKeyDescriptor()
		if err != nil {
			return "", err
		}

		res, err := transact(ctx, e, TxCreateAccount, gasAccount, service(e),
			ledgerjson.String(descriptor))
		if err != nil {
			return "", err
		}

		ev, ok := res.FindExactEvent(AccountCreatedEvent)
		if !ok {
			log.Debugf("Transaction %s created no account", res.TransactionID)
			return "", nil
		}
		fields, err := ev.Fields()
		if err != nil {
			return "", err
		}
		address, ok := fields["address"].(string)
		if !ok {
			str := fmt.Sprintf("account created event carries no address: %v",
				fields)
			return "", opError(ErrUnexpectedResult, str, nil)
		}

		err = e.Dispatch(ctx, res.TransactionID, func(ctx context.Context, d dispatch.Dispatcher) error {
			return d.OnCreateAccount(ctx, res.TransactionID, address)
		})
		if err != nil {
			return "", err
		}
		log.Infof("Created account %s", address)
		return address, nil
	}
}

// SetupCollector prepares address to hold collected tokens.
func SetupCollector(address string) engine.Operation[struct{}] {
	if address == "" {
		return failed[struct{}](invalidArg("invalid address found"))
	}
	return exec(TxSetupCollector, gasSetup, address)
}

// SetupCreator prepares address to create assets.
func SetupCreator(address string) engine.Operation[struct{}] {
	if address == "" {
		return failed[struct{}](invalidArg("invalid address found"))
	}
	return func(ctx context.Context, e *engine.Engine) (struct{}, error) {
		res, err := transact(ctx, e, TxSetupCreator, gasSetup, e.Authz(address, 0))
		if err != nil {
			return struct{}{}, err
		}
		return struct{}{}, e.Dispatch(ctx, res.TransactionID, func(ctx context.Context, d dispatch.Dispatcher) error {
			return d.OnCreateAccount(ctx, res.TransactionID, address)
		})
	}
}
