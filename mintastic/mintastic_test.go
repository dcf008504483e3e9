// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mintastic

import (
	"context"
	"encoding/hex"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mintastic/mintsdk/addrmap"
	"github.com/mintastic/mintsdk/auth"
	"github.com/mintastic/mintsdk/codestore"
	"github.com/mintastic/mintsdk/dispatch"
	"github.com/mintastic/mintsdk/engine"
	"github.com/mintastic/mintsdk/internal/ledgertest"
	"github.com/mintastic/mintsdk/ledgerjson"
	"github.com/mintastic/mintsdk/signing"
	"github.com/mintastic/mintsdk/txn"
	"github.com/stretchr/testify/require"
)

const (
	servicePrivKey = "11c5dfdeb0ff03a7a73ef39788563b62c89adea67bbb21ab95e5f710bd1d40b7"
	contractsAddr  = "0x01cf0e2f2f715450"
	flowTokenAddr  = "0x0ae53cb6e3f42a79"
)

var codeNames = []string{
	TxCreateAccount, TxSetupCollector, TxSetupCreator, TxGetExchangeRate,
	TxSetRouterProxy, TxSetExchangeRate, TxMintFlow, TxTransferFlow,
	TxAcceptBid, TxBid, TxBuyWithFiat, TxUnlockBuyWithFiat, TxBuyWithFlow,
	TxCancelBid, TxCreateLazyOffer, TxCreateListOffer, TxLockMarketItem,
	TxLockOffering, TxRejectBid, TxRemoveMarketItem, TxSetBlockLimit,
	TxSetItemPrice, TxSetMarketFee, TxUnlockMarketItem, TxUnlockOffering,
	TxCreateAsset, TxLockSeries, TxMint, TxSetMaxSupply, TxStoreCreator,
	TxTransfer,

	ScriptHasCollectorCollection, ScriptHasCreatorCollection,
	ScriptReadAssetIDs, ScriptReadTokenIDs, ScriptGetBalance,
	ScriptReadBids, ScriptReadItemPrice, ScriptReadItemRecipients,
	ScriptReadItemSupply, ScriptReadStoreAssetIDs, ScriptCheckSupply,
	ScriptReadAllAssetIDs, ScriptReadCollectorAssetIDs,
	ScriptReadNextSeries, ScriptReadOwnedAssets, ScriptReadSupply,
}

// codes returns a template for every code name.  Each template carries its
// name so the ledger routes it to the matching handler.
func codes() map[string]string {
	m := make(map[string]string, len(codeNames))
	for _, name := range codeNames {
		m[name] = "import MintasticNFT from 0xMintasticNFT\n" +
			"import MintasticMarket from 0xMintasticMarket\n" +
			"// " + name + "\n"
	}
	return m
}

func addressMap(t *testing.T, contracts string) *addrmap.AddressMap {
	t.Helper()

	m, err := addrmap.New(map[string]string{
		"0x" + addrmap.MintasticNFT:    contracts,
		"0x" + addrmap.MintasticMarket: contracts,
		"0x" + addrmap.FlowToken:       flowTokenAddr,
	})
	require.NoError(t, err)
	return m
}

type harness struct {
	s   *ledgertest.Server
	e   *engine.Engine
	pub *signing.PublicKey
}

// newHarness returns an engine running against a fresh ledger.
func newHarness(t *testing.T, d dispatch.Dispatcher) *harness {
	t.Helper()

	key, err := signing.PrivKeyFromHex(servicePrivKey)
	require.NoError(t, err)
	s := ledgertest.New(t, key.PubKey())

	e, err := engine.New(&engine.Config{
		Ledger:         s.Client(t),
		Code:           codestore.NewPreloadedResolver(codes(), addressMap(t, contractsAddr)),
		Addresses:      addressMap(t, contractsAddr),
		Keys:           auth.StaticKeySource(servicePrivKey),
		ServiceAddress: ledgertest.ServiceAddress,
		Dispatcher:     d,
		PollInterval:   time.Millisecond,
	})
	require.NoError(t, err)
	return &harness{s: s, e: e, pub: key.PubKey()}
}

func eventType(contract, event string) string {
	return ledgerjson.EventType(contractsAddr, contract, event)
}

// supplyLedger installs handlers that enforce the max supply of assets the
// way the NFT contract does.  Mints emit an event of type mintEvent.
func supplyLedger(h *harness, mintEvent string) {
	var (
		mtx    sync.Mutex
		max    = make(map[string]uint64)
		minted = make(map[string]uint64)
	)
	h.s.HandleTransaction(TxCreateAsset, func(tx *ledgertest.Tx) ([]ledgerjson.Event, string) {
		mtx.Lock()
		defer mtx.Unlock()
		max[tx.Arg(1).(string)] = tx.Arg(7).(uint64)
		return nil, ""
	})
	h.s.HandleTransaction(TxMint, func(tx *ledgertest.Tx) ([]ledgerjson.Event, string) {
		mtx.Lock()
		defer mtx.Unlock()
		assetID, amount := tx.Arg(1).(string), tx.Arg(2).(uint64)
		if minted[assetID]+amount > max[assetID] {
			return nil, "max supply limit reached"
		}
		minted[assetID] += amount
		return []ledgerjson.Event{ledgertest.Event(
			mintEvent,
			[]string{"assetId", "recipient", "amount"},
			ledgerjson.String(assetID),
			tx.Arguments[0],
			ledgerjson.UInt16(uint16(amount)),
		)}, ""
	})
}

var testAsset = &Asset{
	CreatorID: "creator",
	AssetID:   "asset",
	Content:   "ipfs://content",
	Address:   ledgertest.ServiceAddress,
	Royalty:   "0.1",
	Series:    1,
}

// TestErrorCodeStringer tests the stringized output for the ErrorCode type.
func TestErrorCodeStringer(t *testing.T) {
	tests := []struct {
		in   ErrorCode
		want string
	}{
		{ErrInvalidArgument, "ErrInvalidArgument"},
		{ErrUnexpectedResult, "ErrUnexpectedResult"},
		{0xffff, "Unknown ErrorCode (65535)"},
	}

	// Detect additional error codes that don't have the stringer added.
	require.Len(t, tests, int(numErrorCodes)+1)
	for _, test := range tests {
		require.Equal(t, test.want, test.in.String())
	}
}

// TestMintRespectsMaxSupply mints up to the max supply of an asset and
// ensures the ledger's abort message is surfaced verbatim past it.
func TestMintRespectsMaxSupply(t *testing.T) {
	var (
		mtx   sync.Mutex
		mints []uint16
	)
	h := newHarness(t, &dispatch.Handlers{
		Mint: func(_ context.Context, _, recipient, assetID string, amount uint16) error {
			mtx.Lock()
			defer mtx.Unlock()
			require.Equal(t, "asset", assetID)
			mints = append(mints, amount)
			return nil
		},
	})
	supplyLedger(h, eventType(addrmap.MintasticNFT, EventMint))
	ctx := context.Background()

	asset, err := engine.Execute(ctx, h.e, CreateAsset(testAsset, 10))
	require.NoError(t, err)
	require.Same(t, testAsset, asset)

	fields, err := engine.Execute(ctx, h.e, Mint(ledgertest.ServiceAddress, "asset", 7))
	require.NoError(t, err)
	require.Equal(t, "asset", fields["assetId"])
	require.EqualValues(t, 7, fields["amount"])
	require.Equal(t, ledgertest.ServiceAddress, fields["recipient"])

	_, err = engine.Execute(ctx, h.e, Mint(ledgertest.ServiceAddress, "asset", 7))
	require.EqualError(t, err, "max supply limit reached")
	require.True(t, txn.IsErrorCode(err, txn.ErrTransactionAborted))

	require.Equal(t, []uint16{7}, mints)
}

// TestEventsOfOtherDeployments ensures events are matched on their contract
// and event name whatever address the contract is deployed at, and that an
// event of another contract is not picked up.
func TestEventsOfOtherDeployments(t *testing.T) {
	tests := []struct {
		name      string
		mintEvent string
		found     bool
	}{{
		name:      "contract at another address",
		mintEvent: ledgerjson.EventType("0x0000000000000001", addrmap.MintasticNFT, EventMint),
		found:     true,
	}, {
		name:      "other contract",
		mintEvent: eventType("OtherNFT", EventMint),
		found:     false,
	}}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var dispatched bool
			h := newHarness(t, &dispatch.Handlers{
				Mint: func(context.Context, string, string, string, uint16) error {
					dispatched = true
					return nil
				},
			})
			supplyLedger(h, test.mintEvent)
			ctx := context.Background()

			_, err := engine.Execute(ctx, h.e, CreateAsset(testAsset, 7))
			require.NoError(t, err)
			fields, err := engine.Execute(ctx, h.e, Mint(ledgertest.ServiceAddress, "asset", 1))
			require.NoError(t, err)
			require.Equal(t, test.found, dispatched)
			if !test.found {
				require.Nil(t, fields)
				return
			}
			require.Equal(t, "asset", fields["assetId"])
			require.EqualValues(t, 1, fields["amount"])
		})
	}
}

// TestInvalidArguments ensures operations with invalid arguments fail
// before anything is sent to the ledger.
func TestInvalidArguments(t *testing.T) {
	run := func(op interface{}) func(ctx context.Context, e *engine.Engine) error {
		switch op := op.(type) {
		case engine.Operation[struct{}]:
			return func(ctx context.Context, e *engine.Engine) error {
				_, err := op(ctx, e)
				return err
			}
		case engine.Operation[Fields]:
			return func(ctx context.Context, e *engine.Engine) error {
				_, err := op(ctx, e)
				return err
			}
		case engine.Operation[*Asset]:
			return func(ctx context.Context, e *engine.Engine) error {
				_, err := op(ctx, e)
				return err
			}
		case engine.Operation[uint64]:
			return func(ctx context.Context, e *engine.Engine) error {
				_, err := op(ctx, e)
				return err
			}
		case engine.Operation[bool]:
			return func(ctx context.Context, e *engine.Engine) error {
				_, err := op(ctx, e)
				return err
			}
		case engine.Operation[float64]:
			return func(ctx context.Context, e *engine.Engine) error {
				_, err := op(ctx, e)
				return err
			}
		case engine.Operation[[]string]:
			return func(ctx context.Context, e *engine.Engine) error {
				_, err := op(ctx, e)
				return err
			}
		}
		t.Fatalf("unhandled operation type %T", op)
		return nil
	}

	item := MarketItem{Owner: "0x01", AssetID: "asset"}
	purchase := &Purchase{MarketItem: item, Buyer: "0x02", Price: "1.0", Amount: 1}
	badPrice := *purchase
	badPrice.Price = "1"
	noAmount := *purchase
	noAmount.Amount = 0
	noShares := *testAsset
	noShares.Address = ""
	badRoyalty := *testAsset
	badRoyalty.Royalty = "10%"

	tests := []struct {
		name string
		op   interface{}
	}{
		{"nil asset", CreateAsset(nil, 1)},
		{"asset without address", CreateAsset(&noShares, 1)},
		{"asset with bad royalty", CreateAsset(&badRoyalty, 1)},
		{"zero max supply", CreateAsset(testAsset, 0)},
		{"mint without recipient", Mint("", "asset", 1)},
		{"mint without asset", Mint("0x01", "", 1)},
		{"mint nothing", Mint("0x01", "asset", 0)},
		{"lock series without creator", LockSeries("", 1)},
		{"zero supply", SetMaxSupply("asset", 0)},
		{"store creator without address", StoreCreator("creator", "")},
		{"transfer without buyer", Transfer("", "asset", 1)},
		{"setup collector without address", SetupCollector("")},
		{"setup creator without address", SetupCreator("")},
		{"mint flow without recipient", MintFlow("", "1.0")},
		{"transfer flow without owner", TransferFlow("", "0x02", "1.0")},
		{"exchange rate without currency", GetExchangeRate("")},
		{"accept bid without owner", AcceptBid(Bid{MarketItem: MarketItem{AssetID: "asset"}})},
		{"reject bid without asset", RejectBid(Bid{MarketItem: MarketItem{Owner: "0x01"}})},
		{"bid with bad price", BidWithFiat(&badPrice)},
		{"buy nothing", BuyWithFlow(&noAmount)},
		{"lazy offer with bad price", CreateLazyOffer(item, "free")},
		{"lock item without owner", LockMarketItem(MarketItem{AssetID: "asset"})},
		{"remove item without asset", RemoveMarketItem(MarketItem{Owner: "0x01"})},
		{"lock offering without owner", LockOffering(MarketItem{}, 1)},
		{"zero block limit", SetBlockLimit(0)},
		{"balance without address", GetBalance("")},
		{"item price without asset", ReadItemPrice("0x01", "")},
		{"asset ids without address", ReadAssetIDs("")},
	}

	h := newHarness(t, nil)
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := run(test.op)(context.Background(), h.e)
			require.True(t, IsErrorCode(err, ErrInvalidArgument), err)
		})
	}

	for _, method := range []string{
		ledgerjson.MethodGetAccount,
		ledgerjson.MethodGetLatestBlock,
		ledgerjson.MethodSendTransaction,
		ledgerjson.MethodExecuteScript,
	} {
		require.Zero(t, h.s.Calls(method), method)
	}
}

// TestCreateAccount ensures the account key descriptor of the configured
// key is registered and the new address is read from the protocol event.
func TestCreateAccount(t *testing.T) {
	var created []string
	h := newHarness(t, &dispatch.Handlers{
		CreateAccount: func(_ context.Context, _, address string) error {
			created = append(created, address)
			return nil
		},
	})
	h.s.HandleTransaction(TxCreateAccount, func(tx *ledgertest.Tx) ([]ledgerjson.Event, string) {
		raw, err := hex.DecodeString(tx.Arg(0).(string))
		require.NoError(t, err)
		key, err := signing.DecodeAccountKey(raw)
		require.NoError(t, err)
		require.Equal(t, signing.SignAlgoECDSAP256, key.SignAlgo)
		require.Equal(t, signing.HashAlgoSHA3_256, key.HashAlgo)
		require.Equal(t, signing.FullKeyWeight, key.Weight)
		pub, err := signing.ParsePubKey(key.PublicKey)
		require.NoError(t, err)

		addr := h.s.NewAccount(pub)
		return []ledgerjson.Event{ledgertest.Event(AccountCreatedEvent,
			[]string{"address"}, ledgerjson.Address(addr))}, ""
	})

	address, err := engine.Execute(context.Background(), h.e, CreateAccount())
	require.NoError(t, err)
	require.Equal(t, "0x0000000000000001", address)
	require.Equal(t, []string{address}, created)

	acct, ok := h.s.Account(address)
	require.True(t, ok)
	require.Equal(t, hex.EncodeToString(h.pub.Serialize()), acct.Keys[0].PublicKey)
}

// TestCreateAccountWithoutEvent ensures a sealed transaction that created
// no account yields an empty address.
func TestCreateAccountWithoutEvent(t *testing.T) {
	h := newHarness(t, nil)
	address, err := engine.Execute(context.Background(), h.e, CreateAccount())
	require.NoError(t, err)
	require.Empty(t, address)
}

// TestAcceptBid ensures the owner signs an accepted bid and the id is read
// from the market event.
func TestAcceptBid(t *testing.T) {
	var accepted []uint64
	h := newHarness(t, &dispatch.Handlers{
		AcceptBid: func(_ context.Context, _, owner, assetID string, bidID uint64) error {
			accepted = append(accepted, bidID)
			return nil
		},
	})
	owner := h.s.NewAccount(h.pub)
	h.s.HandleTransaction(TxAcceptBid, func(tx *ledgertest.Tx) ([]ledgerjson.Event, string) {
		require.Equal(t, owner, tx.Payer)
		require.Equal(t, owner, tx.Proposer)
		require.Equal(t, []string{owner}, tx.Authorizers)
		return []ledgerjson.Event{ledgertest.Event(
			eventType(addrmap.MintasticMarket, EventMarketItemBidAccepted),
			[]string{"bidId"}, tx.Arguments[2])}, ""
	})

	bid := Bid{MarketItem: MarketItem{Owner: owner, AssetID: "asset"}, BidID: 42}
	bidID, err := engine.Execute(context.Background(), h.e, AcceptBid(bid))
	require.NoError(t, err)
	require.EqualValues(t, 42, bidID)
	require.Equal(t, []uint64{42}, accepted)

	acct, _ := h.s.Account(owner)
	require.EqualValues(t, 1, acct.Keys[0].SequenceNumber)
	acct, _ = h.s.Account(ledgertest.ServiceAddress)
	require.Zero(t, acct.Keys[0].SequenceNumber)
}

// TestDispatchFailure ensures a dispatcher error is returned after the
// transaction was sealed.
func TestDispatchFailure(t *testing.T) {
	errDispatch := errors.New("dispatch failed")
	h := newHarness(t, &dispatch.Handlers{
		LockMarketItem: func(context.Context, string, string, string) error {
			return errDispatch
		},
	})

	item := MarketItem{Owner: "0x01", AssetID: "asset"}
	_, err := engine.Execute(context.Background(), h.e, LockMarketItem(item))
	require.ErrorIs(t, err, errDispatch)
	require.Equal(t, 1, h.s.Calls(ledgerjson.MethodSendTransaction))
}

// TestLockOffering ensures the fields of the lock event are returned.
func TestLockOffering(t *testing.T) {
	h := newHarness(t, nil)
	h.s.HandleTransaction(TxLockOffering, func(tx *ledgertest.Tx) ([]ledgerjson.Event, string) {
		return []ledgerjson.Event{ledgertest.Event(
			eventType(addrmap.MintasticMarket, EventMarketItemLocked),
			[]string{"assetId", "amount"}, tx.Arguments[1], tx.Arguments[2])}, ""
	})

	item := MarketItem{Owner: "0x01", AssetID: "asset"}
	fields, err := engine.Execute(context.Background(), h.e, LockOffering(item, 3))
	require.NoError(t, err)
	require.Equal(t, Fields{"assetId": "asset", "amount": uint64(3)}, fields)
}

// TestScripts ensures script values are converted to their Go types.
func TestScripts(t *testing.T) {
	h := newHarness(t, nil)
	h.s.HandleScript(ScriptGetBalance, func([]ledgerjson.Value) (ledgerjson.Value, error) {
		return ledgerjson.UFix64("10.50000000"), nil
	})
	h.s.HandleScript(ScriptHasCollectorCollection, func([]ledgerjson.Value) (ledgerjson.Value, error) {
		return ledgerjson.Bool(true), nil
	})
	h.s.HandleScript(ScriptHasCreatorCollection, func([]ledgerjson.Value) (ledgerjson.Value, error) {
		return ledgerjson.String("yes"), nil
	})
	h.s.HandleScript(ScriptReadTokenIDs, func([]ledgerjson.Value) (ledgerjson.Value, error) {
		return ledgerjson.Array(ledgerjson.UInt64(1), ledgerjson.UInt64(2)), nil
	})
	h.s.HandleScript(ScriptReadAllAssetIDs, func([]ledgerjson.Value) (ledgerjson.Value, error) {
		return ledgerjson.Array(ledgerjson.String("a"), ledgerjson.String("b")), nil
	})
	h.s.HandleScript(ScriptReadSupply, func(args []ledgerjson.Value) (ledgerjson.Value, error) {
		return ledgerjson.Dictionary(ledgerjson.KeyValue{
			Key:   args[0],
			Value: ledgerjson.UInt16(7),
		}), nil
	})
	h.s.HandleScript(ScriptCheckSupply, func(args []ledgerjson.Value) (ledgerjson.Value, error) {
		amount, err := args[1].Decode()
		require.NoError(t, err)
		return ledgerjson.Bool(amount.(uint64) <= 7), nil
	})
	ctx := context.Background()

	balance, err := engine.Execute(ctx, h.e, GetBalance(ledgertest.ServiceAddress))
	require.NoError(t, err)
	require.Equal(t, 10.5, balance)

	has, err := engine.Execute(ctx, h.e, HasCollectorCollection(ledgertest.ServiceAddress))
	require.NoError(t, err)
	require.True(t, has)

	_, err = engine.Execute(ctx, h.e, HasCreatorCollection(ledgertest.ServiceAddress))
	require.True(t, IsErrorCode(err, ErrUnexpectedResult))

	ids, err := engine.Execute(ctx, h.e, ReadTokenIDs(ledgertest.ServiceAddress))
	require.NoError(t, err)
	require.Equal(t, []uint64{1, 2}, ids)

	assets, err := engine.Execute(ctx, h.e, ReadAllAssetIDs())
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, assets)

	supply, err := engine.Execute(ctx, h.e, ReadSupply("asset"))
	require.NoError(t, err)
	require.Equal(t, Fields{"asset": uint64(7)}, supply)

	ok, err := engine.Execute(ctx, h.e, CheckSupply("asset", 8))
	require.NoError(t, err)
	require.False(t, ok)

	// Scripts without a handler fail on the ledger.
	_, err = engine.Execute(ctx, h.e, ReadNextSeries("creator"))
	require.Error(t, err)

	require.Zero(t, h.s.Calls(ledgerjson.MethodSendTransaction))
}

// TestExecuteAsync ensures operations can be awaited through a future.
func TestExecuteAsync(t *testing.T) {
	h := newHarness(t, nil)
	h.s.HandleScript(ScriptGetBalance, func([]ledgerjson.Value) (ledgerjson.Value, error) {
		return ledgerjson.UFix64("1.00000000"), nil
	})

	ctx := context.Background()
	balance := engine.ExecuteAsync(ctx, h.e, GetBalance(ledgertest.ServiceAddress))
	invalid := engine.ExecuteAsync(ctx, h.e, GetBalance(""))

	b, err := balance.Receive()
	require.NoError(t, err)
	require.Equal(t, 1.0, b)

	_, err = invalid.Receive()
	require.True(t, IsErrorCode(err, ErrInvalidArgument))
}

func TestEventType(t *testing.T) {
	addrs := addressMap(t, contractsAddr)

	typ, ok := EventType(addrs, addrmap.MintasticNFT, EventMint)
	require.True(t, ok)
	require.Equal(t, "A.01cf0e2f2f715450.MintasticNFT.Mint", typ)

	_, ok = EventType(addrs, "OtherNFT", EventMint)
	require.False(t, ok)
	_, ok = EventType(nil, addrmap.MintasticNFT, EventMint)
	require.False(t, ok)
}
