// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package signing

import (
	"encoding/hex"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

const (
	// testPrivKey is the emulator service account key.
	testPrivKey = "11c5dfdeb0ff03a7a73ef39788563b62c89adea67bbb21ab95e5f710bd1d40b7"

	// testPubKey is the public key of testPrivKey without its format byte.
	testPubKey = "858a7d978b25d61f348841a343f79131f4b9fab341dd8a476a6f4367c2551057" +
		"0bf69b795fc9c3d2b7191327d869bcf848508526a3c1cafd1af34f71c7765117"
)

// TestPrivKeyFromHex ensures key parsing rejects malformed input.
func TestPrivKeyFromHex(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{name: "valid", key: testPrivKey},
		{name: "valid with prefix", key: "0x" + testPrivKey},
		{name: "short scalar", key: "01"},
		{name: "missing", key: "", wantErr: true},
		{name: "whitespace", key: "  ", wantErr: true},
		{name: "not hex", key: "zz", wantErr: true},
		{name: "zero", key: "00", wantErr: true},
		{name: "too long", key: testPrivKey + "00", wantErr: true},
		{
			name:    "curve order",
			key:     "ffffffff00000000ffffffffffffffffbce6faada7179e84f3b9cac2fc632551",
			wantErr: true,
		},
	}

	for _, test := range tests {
		key, err := PrivKeyFromHex(test.key)
		if test.wantErr {
			require.Error(t, err, test.name)
			require.True(t, IsErrorCode(err, ErrInvalidKey),
				"%s: %v", test.name, err)
			continue
		}
		require.NoError(t, err, test.name)
		require.Len(t, key.Serialize(), PrivKeyBytesLen)
	}
}

// TestPublicKey ensures the public key of a known private key is derived
// correctly and round trips through ParsePubKey.
func TestPublicKey(t *testing.T) {
	t.Parallel()

	key, err := PrivKeyFromHex(testPrivKey)
	require.NoError(t, err)

	pub := key.PubKey().Serialize()
	require.Equal(t, testPubKey, hex.EncodeToString(pub))

	parsed, err := ParsePubKey(pub)
	require.NoError(t, err)
	require.Equal(t, pub, parsed.Serialize())

	parsed, err = ParsePubKey(append([]byte{0x04}, pub...))
	require.NoError(t, err)
	require.Equal(t, pub, parsed.Serialize())

	bad := make([]byte, PubKeyBytesLen)
	bad[63] = 1
	_, err = ParsePubKey(bad)
	require.True(t, IsErrorCode(err, ErrInvalidPubKey))
	_, err = ParsePubKey(pub[:10])
	require.True(t, IsErrorCode(err, ErrInvalidPubKey))
}

// TestSign ensures signatures have the fixed r||s layout and verify against
// the SHA3-256 digest of the message.
func TestSign(t *testing.T) {
	t.Parallel()

	msg := []byte("FLOW-V0.0-transaction payload")
	sigHex, err := Sign(testPrivKey, hex.EncodeToString(msg))
	require.NoError(t, err)
	require.Len(t, sigHex, 2*SignatureLen)

	sig, err := hex.DecodeString(sigHex)
	require.NoError(t, err)

	key, err := PrivKeyFromHex(testPrivKey)
	require.NoError(t, err)
	require.True(t, Verify(key.PubKey(), msg, sig), spew.Sdump(sig))
	require.False(t, Verify(key.PubKey(), []byte("other"), sig))
	require.False(t, Verify(key.PubKey(), msg, sig[:63]))
	require.False(t, Verify(nil, msg, sig))
}

// TestSignErrors ensures missing keys and malformed messages are rejected
// before anything is signed.
func TestSignErrors(t *testing.T) {
	t.Parallel()

	_, err := Sign("", "00")
	require.True(t, IsErrorCode(err, ErrInvalidKey))
	require.EqualError(t, err, "private key must not be null")

	_, err = Sign(testPrivKey, "0g")
	require.True(t, IsErrorCode(err, ErrInvalidMessage))

	_, err = SignBytes(nil, []byte("msg"))
	require.True(t, IsErrorCode(err, ErrInvalidKey))
}

// TestHash checks the digest against a known SHA3-256 vector.
func TestHash(t *testing.T) {
	t.Parallel()

	require.Equal(t,
		"3338be694f50c5f338814986cdf0686453a888b84f424d792af4b9202398f392",
		hex.EncodeToString(Hash([]byte("hello"))))
}

// TestSignatureShape checks that every signature is 64 bytes and verifies
// for arbitrary keys and messages.
func TestSignatureShape(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		scalar := rapid.SliceOfN(rapid.Byte(), 32, 32).Draw(t, "scalar")
		key, err := PrivKeyFromBytes(scalar)
		if err != nil {
			// Zero and out of range scalars are rejected.
			t.Skip("scalar out of range")
		}
		msg := rapid.SliceOf(rapid.Byte()).Draw(t, "msg")

		first, err := Sign(hex.EncodeToString(scalar), hex.EncodeToString(msg))
		require.NoError(t, err)
		second, err := Sign(hex.EncodeToString(scalar), hex.EncodeToString(msg))
		require.NoError(t, err)
		require.Len(t, first, 128)
		require.Len(t, second, 128)

		sig, err := hex.DecodeString(first)
		require.NoError(t, err)
		require.True(t, Verify(key.PubKey(), msg, sig))
	})
}

// TestPublicKeyDescriptor checks the descriptor against a known encoding and
// that it always embeds the protocol constants.
func TestPublicKeyDescriptor(t *testing.T) {
	t.Parallel()

	desc, err := PublicKeyDescriptorHex(testPrivKey)
	require.NoError(t, err)
	require.Equal(t, "f847b840"+testPubKey+"02038203e8", desc)

	_, err = PublicKeyDescriptor("")
	require.True(t, IsErrorCode(err, ErrInvalidKey))

	rapid.Check(t, func(t *rapid.T) {
		scalar := rapid.SliceOfN(rapid.Byte(), 32, 32).Draw(t, "scalar")
		key, err := PrivKeyFromBytes(scalar)
		if err != nil {
			t.Skip("scalar out of range")
		}

		raw, err := PublicKeyDescriptor(hex.EncodeToString(scalar))
		require.NoError(t, err)

		decoded, err := DecodeAccountKey(raw)
		require.NoError(t, err)
		require.Equal(t, key.PubKey().Serialize(), decoded.PublicKey)
		require.Equal(t, uint(2), decoded.SignAlgo)
		require.Equal(t, uint(3), decoded.HashAlgo)
		require.Equal(t, uint(1000), decoded.Weight)
	})
}
