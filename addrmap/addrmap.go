// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package addrmap

import (
	"fmt"
	"sort"
	"strings"
)

// AddressMap maps contract placeholder tokens to deployment addresses.  It is
// immutable once created and safe for concurrent use.
type AddressMap struct {
	// placeholders holds the tokens in a stable order so substitution
	// results never depend on map iteration.
	placeholders []string
	addresses    map[string]string
}

// New returns an AddressMap for the passed placeholder to address mapping.
//
// Every placeholder must start with 0x and no placeholder may be a substring
// of another one.  Addresses are stored in their normalized form.
func New(mapping map[string]string) (*AddressMap, error) {
	m := &AddressMap{
		placeholders: make([]string, 0, len(mapping)),
		addresses:    make(map[string]string, len(mapping)),
	}
	for placeholder, addr := range mapping {
		if len(placeholder) <= 2 || !strings.HasPrefix(placeholder, "0x") {
			str := fmt.Sprintf("placeholder %q must be a 0x prefixed "+
				"contract name", placeholder)
			return nil, addrError(ErrInvalidPlaceholder, str)
		}
		normalized, err := Normalize(addr)
		if err != nil {
			return nil, err
		}
		m.placeholders = append(m.placeholders, placeholder)
		m.addresses[placeholder] = normalized
	}
	sort.Strings(m.placeholders)

	for i, a := range m.placeholders {
		for j, b := range m.placeholders {
			if i != j && strings.Contains(b, a) {
				str := fmt.Sprintf("placeholder %q is contained "+
					"in placeholder %q", a, b)
				return nil, addrError(ErrOverlappingPlaceholder, str)
			}
		}
	}

	log.Debugf("Created address map with %d placeholders", len(m.placeholders))
	return m, nil
}

// Apply returns src with every placeholder token replaced by the address it
// maps to.  Placeholders that do not occur in src are ignored.  A nil map
// returns src unchanged.
func (m *AddressMap) Apply(src string) string {
	if m == nil {
		return src
	}
	for _, placeholder := range m.placeholders {
		src = strings.ReplaceAll(src, placeholder, m.addresses[placeholder])
	}
	return src
}

// ApplyAll applies the address map to every value of sources and returns the
// results in a new map.  The passed map is not modified.
func (m *AddressMap) ApplyAll(sources map[string]string) map[string]string {
	resolved := make(map[string]string, len(sources))
	for name, src := range sources {
		resolved[name] = m.Apply(src)
	}
	return resolved
}

// Address returns the normalized address the passed placeholder maps to.
func (m *AddressMap) Address(placeholder string) (string, bool) {
	if m == nil {
		return "", false
	}
	addr, ok := m.addresses[placeholder]
	return addr, ok
}

// ContractAddress returns the address of the named contract.  It is a
// shorthand for Address("0x" + contract).
func (m *AddressMap) ContractAddress(contract string) (string, bool) {
	return m.Address("0x" + contract)
}

// Placeholders returns the sorted placeholder tokens of the map.
func (m *AddressMap) Placeholders() []string {
	if m == nil {
		return nil
	}
	placeholders := make([]string, len(m.placeholders))
	copy(placeholders, m.placeholders)
	return placeholders
}
