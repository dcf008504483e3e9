// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package addrmap

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Well known contract names.  The placeholder of a contract is its name with
// a 0x prefix.
const (
	MintasticNFT     = "MintasticNFT"
	MintasticMarket  = "MintasticMarket"
	MintasticCredit  = "MintasticCredit"
	NonFungibleToken = "NonFungibleToken"
	FungibleToken    = "FungibleToken"
	FlowToken        = "FlowToken"
)

// RequiredContracts lists the contracts every deployment file must name.
var RequiredContracts = []string{
	MintasticNFT,
	MintasticMarket,
	NonFungibleToken,
	FungibleToken,
}

// Deployment describes where the contracts of a network are deployed.
type Deployment struct {
	// Network is an informational network name such as emulator or
	// testnet.
	Network string `yaml:"network"`

	// ServiceAddress is the account that pays for and proposes service
	// transactions.
	ServiceAddress string `yaml:"serviceAddress"`

	// Contracts maps a contract name to its address.
	Contracts map[string]string `yaml:"contracts"`
}

// AddressMap returns the address map of the deployment.
func (d *Deployment) AddressMap() (*AddressMap, error) {
	for _, name := range RequiredContracts {
		if _, ok := d.Contracts[name]; !ok {
			str := fmt.Sprintf("deployment does not name contract %s",
				name)
			return nil, addrError(ErrMissingContract, str)
		}
	}

	mapping := make(map[string]string, len(d.Contracts))
	for name, addr := range d.Contracts {
		mapping["0x"+name] = addr
	}
	return New(mapping)
}

// Load decodes a YAML deployment description from r.  Unknown fields are
// rejected.
func Load(r io.Reader) (*Deployment, error) {
	var d Deployment
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil {
		return nil, Error{
			ErrorCode:   ErrDeploymentFile,
			Description: "unable to decode deployment",
			Err:         err,
		}
	}
	if d.ServiceAddress != "" {
		addr, err := Normalize(d.ServiceAddress)
		if err != nil {
			return nil, err
		}
		d.ServiceAddress = addr
	}
	return &d, nil
}

// LoadFile reads the deployment file at path and returns its address map
// along with the decoded deployment.
func LoadFile(path string) (*AddressMap, *Deployment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, Error{
			ErrorCode:   ErrDeploymentFile,
			Description: "unable to open deployment file",
			Err:         err,
		}
	}
	defer f.Close()

	d, err := Load(f)
	if err != nil {
		return nil, nil, err
	}
	m, err := d.AddressMap()
	if err != nil {
		return nil, nil, err
	}
	log.Infof("Loaded %s deployment from %s", d.Network, path)
	return m, d, nil
}
