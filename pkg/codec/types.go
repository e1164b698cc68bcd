// Copyright 2025 Certen Protocol
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

// Package codec decodes the upstream chain's header, finalization-proof,
// and execution-payload wire formats: fixed little-endian layout,
// length-prefixed variable fields. Decoding is total on well-formed input;
// malformed input fails with engineerrors.CodecTruncated or
// engineerrors.CodecLengthMismatch, never a panic.
package codec

import "math/big"

// PublicKey is an uncompressed secp256k1 public key in X||Y form (64 bytes,
// no leading 0x04 tag -- the tag is stripped on decode and never re-added).
type PublicKey [64]byte

// Address is a 20-byte account address (low 20 bytes of keccak256(PublicKey)).
type Address [20]byte

// Hash is a 32-byte keccak256 digest.
type Hash [32]byte

// U128 is a 16-byte little-endian unsigned integer, carried as raw bytes
// since the engine only ever compares it for equality with zero or folds it
// into a big.Int at the AssetLedger boundary.
type U128 [16]byte

// IsZero reports whether the 128-bit value is zero.
func (u U128) IsZero() bool {
	for _, b := range u {
		if b != 0 {
			return false
		}
	}
	return true
}

// Big converts the little-endian 128-bit value to a *big.Int, for handing
// off to an AssetLedger that deals in arbitrary-precision amounts.
func (u U128) Big() *big.Int {
	be := make([]byte, 16)
	for i := 0; i < 16; i++ {
		be[i] = u[15-i]
	}
	return new(big.Int).SetBytes(be)
}

// TypedSignature is a 65-byte signature (r||s||v) paired with the 64-byte
// public key of the signer it claims to be from.
type TypedSignature struct {
	Signature [65]byte
	Signer    PublicKey
}

// R returns the 32-byte r component of the signature.
func (s TypedSignature) R() [32]byte { var r [32]byte; copy(r[:], s.Signature[0:32]); return r }

// S returns the 32-byte s component of the signature.
func (s TypedSignature) S() [32]byte { var v [32]byte; copy(v[:], s.Signature[32:64]); return v }

// V returns the recovery byte, expected to be 27 or 28.
func (s TypedSignature) V() byte { return s.Signature[64] }

// Validator is a member of the set that will finalize a given block.
type Validator struct {
	PublicKey   PublicKey
	VotingPower uint64
}

// BlockHeader is the full upstream consensus header (spec.md §3).
type BlockHeader struct {
	Author                     PublicKey
	PrevBlockFinalizationProof []TypedSignature
	PreviousHash               Hash
	BlockHeight                uint64
	Timestamp                  int64
	CommitMerkleRoot           Hash
	Validators                 []Validator
	Version                    [5]byte

	// Raw holds a copy of the bytes this header was decoded from.
	// HeaderValidator hashes the raw header bytes kept in its State (not a
	// re-encoding) to recompute keccak256(header) for chain linkage, since
	// re-encoding is not guaranteed to be canonical for fields this codec
	// treats as opaque (e.g. the skipped repository root).
	Raw []byte
}

// FinalizationProof is the ordered multi-signature attesting finality of a
// header digest.
type FinalizationProof struct {
	Signatures []TypedSignature
}

// PayloadKind discriminates an ExecutionPayload by the length-tag carried in
// the enclosing transaction (spec.md §4.1).
type PayloadKind uint64

const (
	PayloadKindFungible    PayloadKind = 25
	PayloadKindNonFungible PayloadKind = 26
)

// FungibleTransfer is one of the two ExecutionPayload variants.
type FungibleTransfer struct {
	ContractSequence U128
	Amount           U128
	Chain            []byte
	TokenAddress     Address
	ReceiverAddress  Address
}

// NonFungibleTransfer is the other ExecutionPayload variant.
type NonFungibleTransfer struct {
	ContractSequence  U128
	TokenID           U128
	Chain             []byte
	CollectionAddress Address
	ReceiverAddress   Address
}
