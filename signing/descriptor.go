// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package signing

import (
	"encoding/hex"

	"github.com/ethereum/go-ethereum/rlp"
)

// Protocol constants of an account key.  They are part of the account key
// wire format and must not be changed.
const (
	// SignAlgoECDSAP256 identifies ECDSA on curve P-256.
	SignAlgoECDSAP256 uint = 2

	// HashAlgoSHA3_256 identifies SHA3-256.
	HashAlgoSHA3_256 uint = 3

	// FullKeyWeight is the weight that lets a single key authorize a
	// transaction on its own.
	FullKeyWeight uint = 1000
)

// AccountKey is the RLP structure registered when a key is added to a new
// account.
type AccountKey struct {
	PublicKey []byte
	SignAlgo  uint
	HashAlgo  uint
	Weight    uint
}

// EncodeAccountKey returns the RLP encoding of the account key for pub.
func EncodeAccountKey(pub *PublicKey) ([]byte, error) {
	return rlp.EncodeToBytes(&AccountKey{
		PublicKey: pub.Serialize(),
		SignAlgo:  SignAlgoECDSAP256,
		HashAlgo:  HashAlgoSHA3_256,
		Weight:    FullKeyWeight,
	})
}

// DecodeAccountKey decodes an RLP encoded account key.
func DecodeAccountKey(b []byte) (*AccountKey, error) {
	var key AccountKey
	if err := rlp.DecodeBytes(b, &key); err != nil {
		return nil, err
	}
	return &key, nil
}

// PublicKeyDescriptor derives the public key of the hex encoded private key
// and returns its account key encoding.
func PublicKeyDescriptor(privKeyHex string) ([]byte, error) {
	key, err := PrivKeyFromHex(privKeyHex)
	if err != nil {
		return nil, err
	}
	return EncodeAccountKey(key.PubKey())
}

// PublicKeyDescriptorHex is like PublicKeyDescriptor but returns the hex
// encoding used as a transaction argument.
func PublicKeyDescriptorHex(privKeyHex string) (string, error) {
	b, err := PublicKeyDescriptor(privKeyHex)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
