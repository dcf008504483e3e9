// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package addrmap binds the contract placeholders found in on-chain code templates
to the addresses of a concrete deployment.

Code templates import contracts through well-known placeholder tokens such as
0xMintasticNFT.  An AddressMap replaces each token with the canonical, 0x
prefixed, lower case address the contract is deployed at:

	addrs, err := addrmap.New(map[string]string{
		"0xMintasticNFT":     "0x01cf0e2f2f715450",
		"0xNonFungibleToken": "0xf8d6e0586b0a20c7",
	})
	if err != nil {
		// Handle error.
	}
	code := addrs.Apply(template)

No placeholder token may contain another one, so the order in which tokens are
substituted never matters.  New rejects mappings that violate this rule.

Deployments are usually described in a YAML file which LoadFile turns into an
AddressMap.
*/
package addrmap
