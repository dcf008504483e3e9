// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package signing implements the account key cryptography of the ledger.

Accounts are controlled by ECDSA keys on curve P-256 (secp256r1).  Messages are
hashed with SHA3-256 before signing and signatures are serialized as the 64-byte
concatenation of r and s, each a 32-byte big endian integer.  On-chain signature
verification depends on that exact layout.

New account keys are registered with an RLP encoded descriptor:

	[publicKey, 2, 3, 1000]

where publicKey is the uncompressed point without its 0x04 format byte, 2 names
ECDSA P-256, 3 names SHA3-256 and 1000 is the full key weight.
*/
package signing
