// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package engine wires code resolution, authorization, the transaction
// orchestrator and the event dispatcher into the single facade that
// operations run against.
package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/decred/dcrd/lru"
	"github.com/mintastic/mintsdk/addrmap"
	"github.com/mintastic/mintsdk/auth"
	"github.com/mintastic/mintsdk/codestore"
	"github.com/mintastic/mintsdk/dispatch"
	"github.com/mintastic/mintsdk/ledgerjson"
	"github.com/mintastic/mintsdk/metrics"
	"github.com/mintastic/mintsdk/signing"
	"github.com/mintastic/mintsdk/txn"
	"go.opentelemetry.io/otel/trace"
)

// DefaultDispatchCacheSize is the number of dispatched transaction ids
// remembered when Config.DispatchCacheSize is zero.
const DefaultDispatchCacheSize = 1024

// Ledger is the ledger RPC interface the engine needs.
// *ledgerclient.Client implements it.
type Ledger interface {
	txn.Ledger
	auth.AccountSource

	ExecuteScript(ctx context.Context, script string,
		args []ledgerjson.Value) (ledgerjson.Value, error)
}

// Config holds the collaborators of an Engine.  Ledger and Code are
// required.
type Config struct {
	Ledger Ledger
	Code   codestore.Resolver

	// Addresses is the address map the code was resolved with.  It lets
	// operations match events by their fully qualified type.  Optional.
	Addresses *addrmap.AddressMap

	// Auth provides the authorizers of every role.  When nil a
	// Custodial provider over Ledger, Keys and ServiceAddress is used.
	Auth           auth.Provider
	Keys           auth.KeySource
	ServiceAddress string

	// Dispatcher is notified of domain events.  Nil selects
	// dispatch.NopDispatcher.
	Dispatcher dispatch.Dispatcher

	// DispatchCacheSize bounds the set of transaction ids already
	// dispatched.
	DispatchCacheSize uint

	Journal      txn.Journal
	Metrics      metrics.Metrics
	Tracer       trace.Tracer
	PollInterval time.Duration
}

// Engine runs operations.  It is safe for concurrent use; operations that
// propose from the same account must still be serialized by the caller.
type Engine struct {
	ledger     Ledger
	code       codestore.Resolver
	addrs      *addrmap.AddressMap
	auth       auth.Provider
	keys       auth.KeySource
	dispatcher dispatch.Dispatcher
	metrics    metrics.Metrics
	orch       *txn.Orchestrator

	dispatchMtx sync.Mutex
	dispatched  lru.Cache
}

// New returns an Engine for cfg.
func New(cfg *Config) (*Engine, error) {
	if cfg.Ledger == nil {
		return nil, errors.New("engine: no ledger configured")
	}
	if cfg.Code == nil {
		return nil, errors.New("engine: no code resolver configured")
	}

	provider := cfg.Auth
	if provider == nil {
		if cfg.Keys == nil {
			return nil, errors.New("engine: no authorization provider " +
				"or key source configured")
		}
		provider = &auth.Custodial{
			Accounts:       cfg.Ledger,
			Keys:           cfg.Keys,
			ServiceAddress: cfg.ServiceAddress,
		}
	}

	cacheSize := cfg.DispatchCacheSize
	if cacheSize == 0 {
		cacheSize = DefaultDispatchCacheSize
	}

	m := metrics.OrNop(cfg.Metrics)
	return &Engine{
		ledger:     cfg.Ledger,
		code:       cfg.Code,
		addrs:      cfg.Addresses,
		auth:       provider,
		keys:       cfg.Keys,
		dispatcher: dispatch.OrNop(cfg.Dispatcher),
		metrics:    m,
		orch: &txn.Orchestrator{
			Ledger:       cfg.Ledger,
			PollInterval: cfg.PollInterval,
			Journal:      cfg.Journal,
			Metrics:      m,
			Tracer:       cfg.Tracer,
		},
		dispatched: lru.NewCache(cacheSize),
	}, nil
}

// Code returns the resolved source of the named transaction or script.
func (e *Engine) Code(name string) (string, error) {
	return e.code.Code(name)
}

// Authz returns the authorizer of the key at keyIndex of address.  An empty
// address selects the service account.
func (e *Engine) Authz(address string, keyIndex uint32) auth.Authorizer {
	return e.auth.Authz(address, keyIndex)
}

// Addresses returns the configured address map, or nil.
func (e *Engine) Addresses() *addrmap.AddressMap {
	return e.addrs
}

// Orchestrator returns the orchestrator transactions run through.
func (e *Engine) Orchestrator() *txn.Orchestrator {
	return e.orch
}

// Ledger returns the ledger client.
func (e *Engine) Ledger() Ledger {
	return e.ledger
}

// PublicKeyDescriptor returns the hex account key descriptor of the
// configured private key.
func (e *Engine) PublicKeyDescriptor() (string, error) {
	if e.keys == nil {
		return "", errors.New("engine: no key source configured")
	}
	privKey, err := e.keys.PrivateKey()
	if err != nil {
		return "", err
	}
	return signing.PublicKeyDescriptorHex(privKey)
}

// Transact resolves the named transaction code into env and runs it to
// sealing.
func (e *Engine) Transact(ctx context.Context, name string, env *txn.Envelope) (*txn.Result, error) {
	code, err := e.Code(name)
	if err != nil {
		return nil, err
	}
	env.Name = name
	env.Code = code
	return e.orch.Run(ctx, env)
}

// Script runs the named read only script with args and returns its value.
func (e *Engine) Script(ctx context.Context, name string, args ...ledgerjson.Value) (ledgerjson.Value, error) {
	code, err := e.Code(name)
	if err != nil {
		return ledgerjson.Value{}, err
	}
	v, err := e.ledger.ExecuteScript(ctx, code, args)
	if err != nil {
		return ledgerjson.Value{}, err
	}
	e.metrics.ScriptExecuted()
	log.Tracef("Script %s returned %s", name, v.Type)
	return v, nil
}

// Dispatch invokes fn with the configured dispatcher unless txID was
// already dispatched.  A failed dispatch is not remembered.
func (e *Engine) Dispatch(ctx context.Context, txID string,
	fn func(ctx context.Context, d dispatch.Dispatcher) error) error {

	e.dispatchMtx.Lock()
	if e.dispatched.Contains(txID) {
		e.dispatchMtx.Unlock()
		log.Debugf("Transaction %s already dispatched", txID)
		return nil
	}
	e.dispatched.Add(txID)
	e.dispatchMtx.Unlock()

	if err := fn(ctx, e.dispatcher); err != nil {
		e.dispatched.Delete(txID)
		return err
	}
	return nil
}
