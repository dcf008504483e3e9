// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package addrmap

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// AddressLength is the number of bytes of an account address.
const AddressLength = 8

// WithPrefix returns addr with a single 0x prefix.
func WithPrefix(addr string) string {
	return "0x" + SansPrefix(addr)
}

// SansPrefix returns addr without its 0x prefix, if any.
func SansPrefix(addr string) string {
	if strings.HasPrefix(addr, "0x") || strings.HasPrefix(addr, "0X") {
		return addr[2:]
	}
	return addr
}

// Normalize returns the canonical form of an account address: 0x prefixed,
// lower case and left padded with zeros to the full address length.
func Normalize(addr string) (string, error) {
	b, err := DecodeAddress(addr)
	if err != nil {
		return "", err
	}
	return "0x" + hex.EncodeToString(b[:]), nil
}

// DecodeAddress returns the raw bytes of a hex encoded account address.
// Short addresses are left padded with zeros.
func DecodeAddress(addr string) ([AddressLength]byte, error) {
	var b [AddressLength]byte

	s := strings.ToLower(SansPrefix(addr))
	if len(s) == 0 || len(s) > AddressLength*2 {
		str := fmt.Sprintf("address %q must have between 1 and %d "+
			"hex digits", addr, AddressLength*2)
		return b, addrError(ErrInvalidAddress, str)
	}
	if len(s)%2 != 0 {
		s = "0" + s
	}

	raw, err := hex.DecodeString(s)
	if err != nil {
		str := fmt.Sprintf("address %q is not hex encoded", addr)
		return b, addrError(ErrInvalidAddress, str)
	}
	copy(b[AddressLength-len(raw):], raw)
	return b, nil
}

// IsValid returns whether addr is a well formed account address.
func IsValid(addr string) bool {
	_, err := DecodeAddress(addr)
	return err == nil
}
