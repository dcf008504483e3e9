// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package signing

import (
	"crypto/ecdsa"
	"crypto/rand"
	"encoding/hex"
	"math/big"

	"golang.org/x/crypto/sha3"
)

// SignatureLen is the length of a serialized signature: r and s, each a
// 32-byte big endian integer.
const SignatureLen = 64

// Hash returns the SHA3-256 digest of msg.
func Hash(msg []byte) []byte {
	h := sha3.New256()
	h.Write(msg)
	return h.Sum(nil)
}

// SignBytes hashes msg with SHA3-256 and signs the digest.  The signature is
// returned as the fixed width concatenation r||s.  No DER framing or
// recovery byte is added.
func SignBytes(key *PrivateKey, msg []byte) ([]byte, error) {
	if key == nil {
		return nil, signingError(ErrInvalidKey, "private key must not be null")
	}

	r, s, err := ecdsa.Sign(rand.Reader, key.ToECDSA(), Hash(msg))
	if err != nil {
		return nil, Error{
			ErrorCode:   ErrSignatureFailed,
			Description: "unable to sign message",
			Err:         err,
		}
	}

	sig := make([]byte, SignatureLen)
	r.FillBytes(sig[:32])
	s.FillBytes(sig[32:])
	return sig, nil
}

// Sign signs the hex encoded message with the hex encoded private key and
// returns the hex encoded 64-byte signature.
func Sign(privKeyHex, msgHex string) (string, error) {
	key, err := PrivKeyFromHex(privKeyHex)
	if err != nil {
		return "", err
	}
	msg, err := hex.DecodeString(msgHex)
	if err != nil {
		return "", Error{
			ErrorCode:   ErrInvalidMessage,
			Description: "message is not hex encoded",
			Err:         err,
		}
	}
	sig, err := SignBytes(key, msg)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(sig), nil
}

// Verify reports whether sig is a valid r||s signature of msg by pub.
func Verify(pub *PublicKey, msg, sig []byte) bool {
	if pub == nil || len(sig) != SignatureLen {
		return false
	}
	r := new(big.Int).SetBytes(sig[:32])
	s := new(big.Int).SetBytes(sig[32:])
	return ecdsa.Verify(pub.ToECDSA(), Hash(msg), r, s)
}
