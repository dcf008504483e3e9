// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package signing

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/hex"
	"math/big"
	"strings"
)

const (
	// PrivKeyBytesLen is the length of a serialized private key.
	PrivKeyBytesLen = 32

	// PubKeyBytesLen is the length of a public key without its format
	// byte: the X and Y coordinates, 32 bytes each.
	PubKeyBytesLen = 64
)

// curve is the curve every account key uses.
var curve = elliptic.P256()

// PrivateKey wraps an ecdsa.PrivateKey on curve P-256.
type PrivateKey ecdsa.PrivateKey

// PublicKey wraps an ecdsa.PublicKey on curve P-256.
type PublicKey ecdsa.PublicKey

// PrivKeyFromBytes returns the private key for the passed big endian scalar.
// Scalars shorter than 32 bytes are treated as left padded with zeros.
func PrivKeyFromBytes(pk []byte) (*PrivateKey, error) {
	if len(pk) == 0 {
		return nil, signingError(ErrInvalidKey, "private key must not be null")
	}
	if len(pk) > PrivKeyBytesLen {
		return nil, signingError(ErrInvalidKey, "private key is longer "+
			"than 32 bytes")
	}

	d := new(big.Int).SetBytes(pk)
	if d.Sign() == 0 || d.Cmp(curve.Params().N) >= 0 {
		return nil, signingError(ErrInvalidKey, "private key is out of "+
			"range for curve P-256")
	}

	x, y := curve.ScalarBaseMult(d.FillBytes(make([]byte, PrivKeyBytesLen)))
	priv := &ecdsa.PrivateKey{
		PublicKey: ecdsa.PublicKey{
			Curve: curve,
			X:     x,
			Y:     y,
		},
		D: d,
	}
	return (*PrivateKey)(priv), nil
}

// PrivKeyFromHex parses a hex encoded private key.  An empty string is
// reported as a missing key.
func PrivKeyFromHex(s string) (*PrivateKey, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	if s == "" {
		return nil, signingError(ErrInvalidKey, "private key must not be null")
	}
	pk, err := hex.DecodeString(s)
	if err != nil {
		return nil, Error{
			ErrorCode:   ErrInvalidKey,
			Description: "private key is not hex encoded",
			Err:         err,
		}
	}
	return PrivKeyFromBytes(pk)
}

// GenerateKey returns a new random private key.
func GenerateKey() (*PrivateKey, error) {
	key, err := ecdsa.GenerateKey(curve, rand.Reader)
	if err != nil {
		return nil, err
	}
	return (*PrivateKey)(key), nil
}

// PubKey returns the PublicKey corresponding to this private key.
func (p *PrivateKey) PubKey() *PublicKey {
	return (*PublicKey)(&p.PublicKey)
}

// ToECDSA returns the private key as a *ecdsa.PrivateKey.
func (p *PrivateKey) ToECDSA() *ecdsa.PrivateKey {
	return (*ecdsa.PrivateKey)(p)
}

// Serialize returns the private key as a 32-byte big endian scalar.
func (p *PrivateKey) Serialize() []byte {
	return p.D.FillBytes(make([]byte, PrivKeyBytesLen))
}

// ParsePubKey parses a 64-byte X||Y public key, with or without a leading
// 0x04 format byte.
func ParsePubKey(b []byte) (*PublicKey, error) {
	if len(b) == PubKeyBytesLen+1 && b[0] == 0x04 {
		b = b[1:]
	}
	if len(b) != PubKeyBytesLen {
		return nil, signingError(ErrInvalidPubKey, "public key must be "+
			"64 bytes")
	}

	x := new(big.Int).SetBytes(b[:32])
	y := new(big.Int).SetBytes(b[32:])
	if !curve.IsOnCurve(x, y) {
		return nil, signingError(ErrInvalidPubKey, "public key is not "+
			"on curve P-256")
	}
	return &PublicKey{Curve: curve, X: x, Y: y}, nil
}

// ToECDSA returns the public key as a *ecdsa.PublicKey.
func (p *PublicKey) ToECDSA() *ecdsa.PublicKey {
	return (*ecdsa.PublicKey)(p)
}

// Serialize returns the public key as 64 bytes: X followed by Y, without the
// uncompressed format byte.
func (p *PublicKey) Serialize() []byte {
	b := make([]byte, PubKeyBytesLen)
	p.X.FillBytes(b[:32])
	p.Y.FillBytes(b[32:])
	return b
}
