// Copyright 2025 Certen Protocol
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

// Package merkleproof recomputes a commit root from a transaction and its
// directional sibling path, binding an execution payload to a previously
// accepted header's commit root. Grounded on the corpus's own Merkle
// inclusion-proof shape (pkg/merkle/tree.go's ProofNode/InclusionProof),
// adapted to the fixed binary wire format of spec.md §4.4 instead of the
// teacher's hex/JSON proof representation.
package merkleproof

import (
	"encoding/binary"

	"github.com/certen/bft-lightclient/pkg/codec"
	"github.com/certen/bft-lightclient/pkg/engineerrors"
	"github.com/certen/bft-lightclient/pkg/xcrypto"
)

// Direction discriminates which side of the accumulator a proof step's
// sibling sits on.
type Direction uint32

const (
	// DirectionLeft means the sibling is the left child: acc = H(sibling||acc).
	DirectionLeft Direction = 0
	// DirectionRight means the sibling is the right child: acc = H(acc||sibling).
	DirectionRight Direction = 1
)

// Step is one level of a Merkle inclusion path.
type Step struct {
	Dir     Direction
	Sibling codec.Hash
}

// Proof is a decoded directional sibling path: pathLen:8 ∥ (dir:4 ∥
// sibling:32)*, little-endian.
type Proof struct {
	Steps []Step
}

// Decode reads a Proof from its wire format.
func Decode(raw []byte) (*Proof, *engineerrors.Error) {
	const op = "merkleproof.Decode"
	if len(raw) < 8 {
		return nil, engineerrors.New(engineerrors.CodecTruncated, op, "missing pathLen")
	}
	pathLen := binary.LittleEndian.Uint64(raw[:8])
	pos := 8

	proof := &Proof{Steps: make([]Step, pathLen)}
	for i := uint64(0); i < pathLen; i++ {
		if len(raw)-pos < 4+32 {
			return nil, engineerrors.New(engineerrors.CodecTruncated, op, "truncated proof step")
		}
		dir := binary.LittleEndian.Uint32(raw[pos : pos+4])
		pos += 4
		var sibling codec.Hash
		copy(sibling[:], raw[pos:pos+32])
		pos += 32
		proof.Steps[i] = Step{Dir: Direction(dir), Sibling: sibling}
	}
	return proof, nil
}

// VerifyCommitment verifies that transactionBytes is committed at blockHeight
// under commitRoots[blockHeight-heightOffset], by folding proof's directed
// siblings over keccak256(transactionBytes) and comparing to the stored
// root. The leaf pre-image is the whole transaction, not just the execution
// payload it carries -- this is load-bearing per spec.md §4.4, since the
// transaction binds chain-id, sequence, and the payload's own keccak into
// one committed blob.
func VerifyCommitment(transactionBytes []byte, commitRoots []codec.Hash, proofBytes []byte, blockHeight, heightOffset uint64) *engineerrors.Error {
	const op = "merkleproof.VerifyCommitment"

	if blockHeight < heightOffset || blockHeight >= heightOffset+uint64(len(commitRoots)) {
		return engineerrors.New(engineerrors.MerkleHeightOutOfRange, op, "block height outside accepted range")
	}
	root := commitRoots[blockHeight-heightOffset]

	proof, err := Decode(proofBytes)
	if err != nil {
		return err
	}

	acc := xcrypto.Keccak256(transactionBytes)
	for _, step := range proof.Steps {
		switch step.Dir {
		case DirectionLeft:
			acc = xcrypto.Keccak256(step.Sibling[:], acc[:])
		case DirectionRight:
			acc = xcrypto.Keccak256(acc[:], step.Sibling[:])
		default:
			return engineerrors.New(engineerrors.MerkleBadDirection, op, "direction tag not in {0,1}")
		}
	}

	if acc != root {
		return engineerrors.New(engineerrors.MerkleRootMismatch, op, "recomputed root does not match stored commit root")
	}
	return nil
}
