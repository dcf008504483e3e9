// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mintastic

// Code names of the transactions.  A code resolver maps each to the source
// file <name>.cdc.
const (
	TxCreateAccount   = "transactions/account/create-account"
	TxSetupCollector  = "transactions/account/setup-collector"
	TxSetupCreator    = "transactions/account/setup-creator"
	TxGetExchangeRate = "transactions/credit/get-exchange-rate"
	TxSetRouterProxy  = "transactions/credit/set-router-proxy"
	TxSetExchangeRate = "transactions/credit/set-exchange-rate"
	TxMintFlow        = "transactions/flow/mint-flow"
	TxTransferFlow    = "transactions/flow/transfer-flow"

	TxAcceptBid         = "transactions/market/accept-bid"
	TxBid               = "transactions/market/bid"
	TxBuyWithFiat       = "transactions/market/buy-with-fiat"
	TxUnlockBuyWithFiat = "transactions/market/unlock-buy-with-fiat"
	TxBuyWithFlow       = "transactions/market/buy-with-flow"
	TxCancelBid         = "transactions/market/cancel-bid"
	TxCreateLazyOffer   = "transactions/market/create-lazy-offer"
	TxCreateListOffer   = "transactions/market/create-list-offer"
	TxLockMarketItem    = "transactions/market/lock-market-item"
	TxLockOffering      = "transactions/market/lock-offering"
	TxRejectBid         = "transactions/market/reject-bid"
	TxRemoveMarketItem  = "transactions/market/remove-market-item"
	TxSetBlockLimit     = "transactions/market/set-block-limit"
	TxSetItemPrice      = "transactions/market/set-item-price"
	TxSetMarketFee      = "transactions/market/set-market-fee"
	TxUnlockMarketItem  = "transactions/market/unlock-market-item"
	TxUnlockOffering    = "transactions/market/unlock-offering"

	TxCreateAsset  = "transactions/nft/create-asset"
	TxLockSeries   = "transactions/nft/lock-series"
	TxMint         = "transactions/nft/mint"
	TxSetMaxSupply = "transactions/nft/set-max-supply"
	TxStoreCreator = "transactions/nft/store-creator"
	TxTransfer     = "transactions/nft/transfer"
)

// Code names of the scripts.
const (
	ScriptHasCollectorCollection = "scripts/account/has-collector-collection"
	ScriptHasCreatorCollection   = "scripts/account/has-creator-collection"
	ScriptReadAssetIDs           = "scripts/account/read-asset-ids"
	ScriptReadTokenIDs           = "scripts/account/read-token-ids"
	ScriptGetBalance             = "scripts/flow/get-balance"

	ScriptReadBids           = "scripts/market/read-bids"
	ScriptReadItemPrice      = "scripts/market/read-item-price"
	ScriptReadItemRecipients = "scripts/market/read-item-recipients"
	ScriptReadItemSupply     = "scripts/market/read-item-supply"
	ScriptReadStoreAssetIDs  = "scripts/market/read-store-asset-ids"

	ScriptCheckSupply           = "scripts/nft/check-supply"
	ScriptReadAllAssetIDs       = "scripts/nft/read-all-asset-ids"
	ScriptReadCollectorAssetIDs = "scripts/nft/read-collector-asset-ids"
	ScriptReadNextSeries        = "scripts/nft/read-next-series"
	ScriptReadOwnedAssets       = "scripts/nft/read-owned-assets"
	ScriptReadSupply            = "scripts/nft/read-supply"
)
