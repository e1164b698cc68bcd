// Copyright 2025 Certen Protocol
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

// Package xcrypto wraps the three cryptographic primitives the engine
// needs: keccak256, secp256k1 ECDSA recovery, and public-key-to-address
// derivation. It is a thin shim over go-ethereum's crypto package -- the
// same package the corpus itself reaches for (pkg/anchor/anchor_manager.go,
// pkg/execution/crypto_verification_test.go use crypto.Keccak256 directly).
package xcrypto

import (
	gethcrypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/certen/bft-lightclient/pkg/codec"
)

// Keccak256 hashes the concatenation of all inputs.
func Keccak256(data ...[]byte) codec.Hash {
	var h codec.Hash
	copy(h[:], gethcrypto.Keccak256(data...))
	return h
}

// PubkeyToAddress derives a 20-byte address from a 64-byte uncompressed
// public key (X||Y, no 0x04 tag): the low 20 bytes of keccak256(pubkey).
func PubkeyToAddress(pk codec.PublicKey) codec.Address {
	digest := gethcrypto.Keccak256(pk[:])
	var addr codec.Address
	copy(addr[:], digest[12:])
	return addr
}

// Recover performs secp256k1 ECDSA recovery against the raw digest -- no
// "Ethereum Signed Message" prefix, per spec.md's Crypto.recover. v must be
// 27 or 28. Any invalid signature (bad v, bad recovery, malformed r/s)
// resolves to the zero address rather than an error: the caller treats the
// zero address as "this signer did not contribute".
func Recover(digest codec.Hash, r, s [32]byte, v byte) codec.Address {
	if v != 27 && v != 28 {
		return codec.Address{}
	}
	sig := make([]byte, 65)
	copy(sig[0:32], r[:])
	copy(sig[32:64], s[:])
	sig[64] = v - 27

	uncompressed, err := gethcrypto.Ecrecover(digest[:], sig)
	if err != nil {
		return codec.Address{}
	}
	var pk codec.PublicKey
	copy(pk[:], uncompressed[1:]) // strip the leading 0x04 tag
	return PubkeyToAddress(pk)
}
