// Copyright 2025 Certen Protocol
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

// Package fixtures builds deterministic header chains and signed
// finalization proofs for tests, backed by cometbft-db's in-memory DB so
// a suite can replay a long chain of headers without touching the network
// or the filesystem. Grounded on the corpus's own kvdb.KVAdapter
// (pkg/kvdb/adapter.go), which wraps the same dbm.DB interface for its
// ledger store.
package fixtures

import (
	"crypto/ecdsa"
	"math/rand"

	gethcrypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/certen/bft-lightclient/pkg/codec"
)

// Signer pairs a private key with the 64-byte uncompressed public key
// BlockHeader.Validators and TypedSignature.Signer carry on the wire.
type Signer struct {
	private *ecdsa.PrivateKey
	Public  codec.PublicKey
}

// deterministicRand returns a math/rand source seeded with a fixed value,
// so BuildUnanimousChain produces the same keys and signatures on every
// run -- tests can assert on exact encoded bytes rather than just shapes.
func deterministicRand() *rand.Rand {
	return rand.New(rand.NewSource(424242))
}

// NewSigner generates a fresh secp256k1 keypair seeded from src, so fixture
// construction is reproducible across test runs when src is deterministic.
func NewSigner(src *rand.Rand) (*Signer, error) {
	key, err := ecdsa.GenerateKey(gethcrypto.S256(), src)
	if err != nil {
		return nil, err
	}
	var pub codec.PublicKey
	copy(pub[:], gethcrypto.FromECDSAPub(&key.PublicKey)[1:]) // strip the 0x04 tag
	return &Signer{private: key, Public: pub}, nil
}

// Sign produces a TypedSignature over digest, recoverable back to s.Public
// by xcrypto.Recover.
func (s *Signer) Sign(digest codec.Hash) (codec.TypedSignature, error) {
	sig, err := gethcrypto.Sign(digest[:], s.private)
	if err != nil {
		return codec.TypedSignature{}, err
	}
	var typed codec.TypedSignature
	copy(typed.Signature[:64], sig[:64])
	typed.Signature[64] = sig[64] + 27 // gethcrypto.Sign's v is 0/1; the wire format wants 27/28
	typed.Signer = s.Public
	return typed, nil
}
