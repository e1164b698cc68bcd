// Copyright 2025 Certen Protocol
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package merkleproof

import (
	"encoding/binary"
	"testing"

	"github.com/certen/bft-lightclient/pkg/codec"
	"github.com/certen/bft-lightclient/pkg/engineerrors"
	"github.com/certen/bft-lightclient/pkg/xcrypto"
)

func encodeProof(steps []Step) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, uint64(len(steps)))
	for _, s := range steps {
		var dirBytes [4]byte
		binary.LittleEndian.PutUint32(dirBytes[:], uint32(s.Dir))
		buf = append(buf, dirBytes[:]...)
		buf = append(buf, s.Sibling[:]...)
	}
	return buf
}

// buildTwoLeafTree returns (root, proofForLeftLeaf) for a two-leaf tree
// root = H(H(leftLeaf) || H(rightLeaf)).
func buildTwoLeafTree(leftLeaf, rightLeaf []byte) (codec.Hash, []byte) {
	rightHash := xcrypto.Keccak256(rightLeaf)
	root := xcrypto.Keccak256(xcrypto.Keccak256(leftLeaf)[:], rightHash[:])
	proof := encodeProof([]Step{{Dir: DirectionRight, Sibling: rightHash}})
	return root, proof
}

func TestVerifyCommitmentAccepts(t *testing.T) {
	leftLeaf := []byte("transaction-a")
	rightLeaf := []byte("transaction-b")
	root, proof := buildTwoLeafTree(leftLeaf, rightLeaf)

	err := VerifyCommitment(leftLeaf, []codec.Hash{root}, proof, 10, 10)
	if err != nil {
		t.Fatalf("expected acceptance, got %v", err)
	}
}

func TestVerifyCommitmentRejectsWrongLeaf(t *testing.T) {
	leftLeaf := []byte("transaction-a")
	rightLeaf := []byte("transaction-b")
	root, proof := buildTwoLeafTree(leftLeaf, rightLeaf)

	err := VerifyCommitment([]byte("transaction-tampered"), []codec.Hash{root}, proof, 10, 10)
	if err == nil {
		t.Fatal("expected rejection for a tampered leaf")
	}
	if err.Kind != engineerrors.MerkleRootMismatch {
		t.Errorf("expected MerkleRootMismatch, got %s", err.Kind)
	}
}

func TestVerifyCommitmentHeightOutOfRange(t *testing.T) {
	leftLeaf := []byte("transaction-a")
	rightLeaf := []byte("transaction-b")
	root, proof := buildTwoLeafTree(leftLeaf, rightLeaf)

	err := VerifyCommitment(leftLeaf, []codec.Hash{root}, proof, 99, 10)
	if err == nil {
		t.Fatal("expected out-of-range rejection")
	}
	if err.Kind != engineerrors.MerkleHeightOutOfRange {
		t.Errorf("expected MerkleHeightOutOfRange, got %s", err.Kind)
	}
}

func TestVerifyCommitmentBadDirection(t *testing.T) {
	leftLeaf := []byte("transaction-a")
	sibling := xcrypto.Keccak256([]byte("transaction-b"))
	proof := encodeProof([]Step{{Dir: Direction(2), Sibling: sibling}})

	err := VerifyCommitment(leftLeaf, []codec.Hash{{1}}, proof, 0, 0)
	if err == nil {
		t.Fatal("expected bad-direction rejection")
	}
	if err.Kind != engineerrors.MerkleBadDirection {
		t.Errorf("expected MerkleBadDirection, got %s", err.Kind)
	}
}

func TestVerifyCommitmentTruncatedProof(t *testing.T) {
	leftLeaf := []byte("transaction-a")
	err := VerifyCommitment(leftLeaf, []codec.Hash{{1}}, []byte{1, 2, 3}, 0, 0)
	if err == nil {
		t.Fatal("expected truncation rejection")
	}
	if err.Kind != engineerrors.CodecTruncated {
		t.Errorf("expected CodecTruncated, got %s", err.Kind)
	}
}
