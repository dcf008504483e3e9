// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/mintastic/mintsdk/engine"
	"github.com/mintastic/mintsdk/mintastic"
)

// runner runs a parsed command against an engine.
type runner func(ctx context.Context, e *engine.Engine) (interface{}, error)

// op adapts an operation to a runner.
func op[T any](o engine.Operation[T]) runner {
	return func(ctx context.Context, e *engine.Engine) (interface{}, error) {
		return engine.Execute(ctx, e, o)
	}
}

// command describes one mintctl command.  Params names the positional
// arguments in order, and build turns them into a runner.
type command struct {
	params []string
	script bool
	build  func(args []string) (runner, error)
}

// usage returns the one-line usage of the named command.
func (c *command) usage(method string) string {
	if len(c.params) == 0 {
		return method
	}
	return method + " <" + strings.Join(c.params, "> <") + ">"
}

func parseUint16(name, s string) (uint16, error) {
	n, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, s, err)
	}
	return uint16(n), nil
}

func parseUint64(name, s string) (uint64, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, s, err)
	}
	return n, nil
}

func item(args []string) mintastic.MarketItem {
	return mintastic.MarketItem{Owner: args[0], AssetID: args[1]}
}

func bid(args []string) (mintastic.Bid, error) {
	bidID, err := parseUint64("bid id", args[2])
	if err != nil {
		return mintastic.Bid{}, err
	}
	return mintastic.Bid{MarketItem: item(args), BidID: bidID}, nil
}

func purchase(args []string) (*mintastic.Purchase, error) {
	amount, err := parseUint16("amount", args[4])
	if err != nil {
		return nil, err
	}
	return &mintastic.Purchase{
		MarketItem: mintastic.MarketItem{Owner: args[0], AssetID: args[2]},
		Buyer:      args[1],
		Price:      args[3],
		Amount:     amount,
	}, nil
}

// itemAmount parses the owner, asset id and amount arguments.
func itemAmount(args []string) (mintastic.MarketItem, uint16, error) {
	amount, err := parseUint16("amount", args[2])
	return item(args), amount, err
}

// commands maps the name of every operation and script to its command.
var commands = map[string]*command{
	// nft
	"createasset": {
		params: []string{"creatorid", "assetid", "content", "address",
			"royalty", "series", "type", "maxsupply"},
		build: func(args []string) (runner, error) {
			series, err := parseUint16("series", args[5])
			if err != nil {
				return nil, err
			}
			typ, err := parseUint16("type", args[6])
			if err != nil {
				return nil, err
			}
			maxSupply, err := parseUint16("max supply", args[7])
			if err != nil {
				return nil, err
			}
			return op(mintastic.CreateAsset(&mintastic.Asset{
				CreatorID: args[0],
				AssetID:   args[1],
				Content:   args[2],
				Address:   args[3],
				Royalty:   args[4],
				Series:    series,
				Type:      typ,
			}, maxSupply)), nil
		},
	},
	"lockseries": {
		params: []string{"creatorid", "series"},
		build: func(args []string) (runner, error) {
			series, err := parseUint16("series", args[1])
			if err != nil {
				return nil, err
			}
			return op(mintastic.LockSeries(args[0], series)), nil
		},
	},
	"mint": {
		params: []string{"recipient", "assetid", "amount"},
		build: func(args []string) (runner, error) {
			amount, err := parseUint16("amount", args[2])
			if err != nil {
				return nil, err
			}
			return op(mintastic.Mint(args[0], args[1], amount)), nil
		},
	},
	"setmaxsupply": {
		params: []string{"assetid", "supply"},
		build: func(args []string) (runner, error) {
			supply, err := parseUint16("supply", args[1])
			if err != nil {
				return nil, err
			}
			return op(mintastic.SetMaxSupply(args[0], supply)), nil
		},
	},
	"storecreator": {
		params: []string{"creatorid", "address"},
		build: func(args []string) (runner, error) {
			return op(mintastic.StoreCreator(args[0], args[1])), nil
		},
	},
	"transfer": {
		params: []string{"buyer", "assetid", "amount"},
		build: func(args []string) (runner, error) {
			amount, err := parseUint16("amount", args[2])
			if err != nil {
				return nil, err
			}
			return op(mintastic.Transfer(args[0], args[1], amount)), nil
		},
	},

	// account
	"createaccount": {
		build: func([]string) (runner, error) {
			return op(mintastic.CreateAccount()), nil
		},
	},
	"setupcollector": {
		params: []string{"address"},
		build: func(args []string) (runner, error) {
			return op(mintastic.SetupCollector(args[0])), nil
		},
	},
	"setupcreator": {
		params: []string{"address"},
		build: func(args []string) (runner, error) {
			return op(mintastic.SetupCreator(args[0])), nil
		},
	},

	// token
	"mintflow": {
		params: []string{"recipient", "amount"},
		build: func(args []string) (runner, error) {
			return op(mintastic.MintFlow(args[0], args[1])), nil
		},
	},
	"transferflow": {
		params: []string{"owner", "recipient", "amount"},
		build: func(args []string) (runner, error) {
			return op(mintastic.TransferFlow(args[0], args[1], args[2])), nil
		},
	},

	// credit
	"getexchangerate": {
		params: []string{"currency"},
		build: func(args []string) (runner, error) {
			return op(mintastic.GetExchangeRate(args[0])), nil
		},
	},
	"setrouterproxy": {
		params: []string{"currency"},
		build: func(args []string) (runner, error) {
			return op(mintastic.SetRouterProxy(args[0])), nil
		},
	},
	"setexchangerate": {
		params: []string{"currency", "rate"},
		build: func(args []string) (runner, error) {
			return op(mintastic.SetExchangeRate(args[0], args[1])), nil
		},
	},

	// market
	"acceptbid": {
		params: []string{"owner", "assetid", "bidid"},
		build: func(args []string) (runner, error) {
			b, err := bid(args)
			if err != nil {
				return nil, err
			}
			return op(mintastic.AcceptBid(b)), nil
		},
	},
	"rejectbid": {
		params: []string{"owner", "assetid", "bidid"},
		build: func(args []string) (runner, error) {
			b, err := bid(args)
			if err != nil {
				return nil, err
			}
			return op(mintastic.RejectBid(b)), nil
		},
	},
	"cancelbid": {
		params: []string{"owner", "assetid", "bidid"},
		build: func(args []string) (runner, error) {
			b, err := bid(args)
			if err != nil {
				return nil, err
			}
			return op(mintastic.CancelBid(b)), nil
		},
	},
	"bid": {
		params: []string{"owner", "buyer", "assetid", "price", "amount"},
		build: func(args []string) (runner, error) {
			p, err := purchase(args)
			if err != nil {
				return nil, err
			}
			return op(mintastic.BidWithFiat(p)), nil
		},
	},
	"buywithfiat": {
		params: []string{"owner", "buyer", "assetid", "price", "amount"},
		build: func(args []string) (runner, error) {
			p, err := purchase(args)
			if err != nil {
				return nil, err
			}
			return op(mintastic.BuyWithFiat(p, false)), nil
		},
	},
	"unlockbuywithfiat": {
		params: []string{"owner", "buyer", "assetid", "price", "amount"},
		build: func(args []string) (runner, error) {
			p, err := purchase(args)
			if err != nil {
				return nil, err
			}
			return op(mintastic.BuyWithFiat(p, true)), nil
		},
	},
	"buywithflow": {
		params: []string{"owner", "buyer", "assetid", "price", "amount"},
		build: func(args []string) (runner, error) {
			p, err := purchase(args)
			if err != nil {
				return nil, err
			}
			return op(mintastic.BuyWithFlow(p)), nil
		},
	},
	"createlazyoffer": {
		params: []string{"owner", "assetid", "price"},
		build: func(args []string) (runner, error) {
			return op(mintastic.CreateLazyOffer(item(args), args[2])), nil
		},
	},
	"createlistoffer": {
		params: []string{"owner", "assetid", "price"},
		build: func(args []string) (runner, error) {
			return op(mintastic.CreateListOffer(item(args), args[2])), nil
		},
	},
	"lockmarketitem": {
		params: []string{"owner", "assetid"},
		build: func(args []string) (runner, error) {
			return op(mintastic.LockMarketItem(item(args))), nil
		},
	},
	"unlockmarketitem": {
		params: []string{"owner", "assetid"},
		build: func(args []string) (runner, error) {
			return op(mintastic.UnlockMarketItem(item(args))), nil
		},
	},
	"removemarketitem": {
		params: []string{"owner", "assetid"},
		build: func(args []string) (runner, error) {
			return op(mintastic.RemoveMarketItem(item(args))), nil
		},
	},
	"lockoffering": {
		params: []string{"owner", "assetid", "amount"},
		build: func(args []string) (runner, error) {
			it, amount, err := itemAmount(args)
			if err != nil {
				return nil, err
			}
			return op(mintastic.LockOffering(it, amount)), nil
		},
	},
	"unlockoffering": {
		params: []string{"owner", "assetid", "amount"},
		build: func(args []string) (runner, error) {
			it, amount, err := itemAmount(args)
			if err != nil {
				return nil, err
			}
			return op(mintastic.UnlockOffering(it, amount)), nil
		},
	},
	"setblocklimit": {
		params: []string{"limit"},
		build: func(args []string) (runner, error) {
			limit, err := parseUint64("limit", args[0])
			if err != nil {
				return nil, err
			}
			return op(mintastic.SetBlockLimit(limit)), nil
		},
	},
	"setitemprice": {
		params: []string{"owner", "assetid"},
		build: func(args []string) (runner, error) {
			return op(mintastic.SetItemPrice(item(args))), nil
		},
	},
	"setmarketfee": {
		params: []string{"key", "value"},
		build: func(args []string) (runner, error) {
			return op(mintastic.SetMarketFee(args[0], args[1])), nil
		},
	},

	// scripts
	"hascollectorcollection": {
		params: []string{"address"},
		script: true,
		build: func(args []string) (runner, error) {
			return op(mintastic.HasCollectorCollection(args[0])), nil
		},
	},
	"hascreatorcollection": {
		params: []string{"address"},
		script: true,
		build: func(args []string) (runner, error) {
			return op(mintastic.HasCreatorCollection(args[0])), nil
		},
	},
	"readassetids": {
		params: []string{"address"},
		script: true,
		build: func(args []string) (runner, error) {
			return op(mintastic.ReadAssetIDs(args[0])), nil
		},
	},
	"readtokenids": {
		params: []string{"address"},
		script: true,
		build: func(args []string) (runner, error) {
			return op(mintastic.ReadTokenIDs(args[0])), nil
		},
	},
	"getbalance": {
		params: []string{"address"},
		script: true,
		build: func(args []string) (runner, error) {
			return op(mintastic.GetBalance(args[0])), nil
		},
	},
	"readbids": {
		params: []string{"address", "assetid"},
		script: true,
		build: func(args []string) (runner, error) {
			return op(mintastic.ReadBids(args[0], args[1])), nil
		},
	},
	"readitemprice": {
		params: []string{"address", "assetid"},
		script: true,
		build: func(args []string) (runner, error) {
			return op(mintastic.ReadItemPrice(args[0], args[1])), nil
		},
	},
	"readitemrecipients": {
		params: []string{"address", "assetid"},
		script: true,
		build: func(args []string) (runner, error) {
			return op(mintastic.ReadItemRecipients(args[0], args[1])), nil
		},
	},
	"readitemsupply": {
		params: []string{"address", "assetid"},
		script: true,
		build: func(args []string) (runner, error) {
			return op(mintastic.ReadItemSupply(args[0], args[1])), nil
		},
	},
	"readstoreassetids": {
		params: []string{"address"},
		script: true,
		build: func(args []string) (runner, error) {
			return op(mintastic.ReadStoreAssetIDs(args[0])), nil
		},
	},
	"checksupply": {
		params: []string{"assetid", "amount"},
		script: true,
		build: func(args []string) (runner, error) {
			amount, err := parseUint16("amount", args[1])
			if err != nil {
				return nil, err
			}
			return op(mintastic.CheckSupply(args[0], amount)), nil
		},
	},
	"readallassetids": {
		script: true,
		build: func([]string) (runner, error) {
			return op(mintastic.ReadAllAssetIDs()), nil
		},
	},
	"readcollectorassetids": {
		params: []string{"address"},
		script: true,
		build: func(args []string) (runner, error) {
			return op(mintastic.ReadCollectorAssetIDs(args[0])), nil
		},
	},
	"readnextseries": {
		params: []string{"creatorid"},
		script: true,
		build: func(args []string) (runner, error) {
			return op(mintastic.ReadNextSeries(args[0])), nil
		},
	},
	"readownedassets": {
		params: []string{"address"},
		script: true,
		build: func(args []string) (runner, error) {
			return op(mintastic.ReadOwnedAssets(args[0])), nil
		},
	},
	"readsupply": {
		params: []string{"assetid"},
		script: true,
		build: func(args []string) (runner, error) {
			return op(mintastic.ReadSupply(args[0])), nil
		},
	},
}

// parseCommand looks up method and builds its runner from args.
func parseCommand(method string, args []string) (runner, error) {
	cmd, ok := commands[method]
	if !ok {
		return nil, fmt.Errorf("unrecognized command '%s'", method)
	}
	if len(args) != len(cmd.params) {
		return nil, fmt.Errorf("wrong number of arguments for %s: "+
			"%d given, %d expected", method, len(args), len(cmd.params))
	}
	return cmd.build(args)
}

// listCommands categorizes and lists all of the commands along with their
// one-line usage.
func listCommands() {
	var txs, scripts []string
	for method, cmd := range commands {
		if cmd.script {
			scripts = append(scripts, cmd.usage(method))
			continue
		}
		txs = append(txs, cmd.usage(method))
	}
	sort.Strings(txs)
	sort.Strings(scripts)

	fmt.Println("Transactions:")
	for _, usage := range txs {
		fmt.Println(usage)
	}
	fmt.Println()
	fmt.Println("Scripts:")
	for _, usage := range scripts {
		fmt.Println(usage)
	}
	fmt.Println()
	fmt.Println("Local:")
	fmt.Println("genkey")
	fmt.Println("journal")
}
