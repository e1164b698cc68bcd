// Copyright 2025 Certen Protocol
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package lightclient

import (
	"testing"

	"github.com/certen/bft-lightclient/internal/fixtures"
	"github.com/certen/bft-lightclient/pkg/codec"
	"github.com/certen/bft-lightclient/pkg/engineerrors"
)

func TestNewFromGenesis(t *testing.T) {
	chain, err := fixtures.BuildUnanimousChain(4, 0)
	if err != nil {
		t.Fatalf("BuildUnanimousChain: %v", err)
	}

	state, decErr := New(chain.Headers[0])
	if decErr != nil {
		t.Fatalf("New: %v", decErr)
	}
	if state.CurrentHeight() != 0 {
		t.Errorf("expected height 0, got %d", state.CurrentHeight())
	}
	if state.HeightOffset() != 0 {
		t.Errorf("expected heightOffset 0, got %d", state.HeightOffset())
	}
}

func TestAdvanceUnanimousAccepted(t *testing.T) {
	chain, err := fixtures.BuildUnanimousChain(4, 1)
	if err != nil {
		t.Fatalf("BuildUnanimousChain: %v", err)
	}
	state, decErr := New(chain.Headers[0])
	if decErr != nil {
		t.Fatalf("New: %v", decErr)
	}
	proof, perr := fixtures.FinalizationProofFor(chain, 1)
	if perr != nil {
		t.Fatalf("FinalizationProofFor: %v", perr)
	}

	if advErr := Advance(state, chain.Headers[1], proof, DefaultQuorum); advErr != nil {
		t.Fatalf("Advance: %v", advErr)
	}
	if state.CurrentHeight() != 1 {
		t.Errorf("expected height 1, got %d", state.CurrentHeight())
	}
	if len(state.CommitRoots()) != 2 {
		t.Errorf("expected 2 commit roots, got %d", len(state.CommitRoots()))
	}
}

func TestAdvanceRejectsInsufficientQuorum(t *testing.T) {
	chain, err := fixtures.BuildUnanimousChain(4, 1)
	if err != nil {
		t.Fatalf("BuildUnanimousChain: %v", err)
	}
	state, decErr := New(chain.Headers[0])
	if decErr != nil {
		t.Fatalf("New: %v", decErr)
	}
	proof, perr := fixtures.FinalizationProofFor(chain, 1)
	if perr != nil {
		t.Fatalf("FinalizationProofFor: %v", perr)
	}

	// Truncate to one signature out of four equal-weight validators: 1/4 < 2/3.
	decodedProof, dErr := codec.DecodeFinalizationProof(proof)
	if dErr != nil {
		t.Fatalf("DecodeFinalizationProof: %v", dErr)
	}
	shortProof := codec.EncodeFinalizationProof(&codec.FinalizationProof{Signatures: decodedProof.Signatures[:1]})

	advErr := Advance(state, chain.Headers[1], shortProof, DefaultQuorum)
	if advErr == nil {
		t.Fatal("expected insufficient-quorum rejection")
	}
	if advErr.Kind != engineerrors.HeaderInsufficientQuorum {
		t.Errorf("expected HeaderInsufficientQuorum, got %s", advErr.Kind)
	}
	if state.CurrentHeight() != 0 {
		t.Error("state must be unchanged after a rejected Advance")
	}
}

func TestAdvanceRejectsHeightGap(t *testing.T) {
	chain, err := fixtures.BuildUnanimousChain(4, 2)
	if err != nil {
		t.Fatalf("BuildUnanimousChain: %v", err)
	}
	state, decErr := New(chain.Headers[0])
	if decErr != nil {
		t.Fatalf("New: %v", decErr)
	}
	// Headers[2] is two heights ahead of genesis; Advance expects height+1.
	proof, perr := fixtures.FinalizationProofFor(chain, 2)
	if perr != nil {
		t.Fatalf("FinalizationProofFor: %v", perr)
	}

	advErr := Advance(state, chain.Headers[2], proof, DefaultQuorum)
	if advErr == nil {
		t.Fatal("expected height-gap rejection")
	}
	if advErr.Kind != engineerrors.HeaderHeightGap {
		t.Errorf("expected HeaderHeightGap, got %s", advErr.Kind)
	}
}

func TestAdvanceRejectsBrokenChain(t *testing.T) {
	chain, err := fixtures.BuildUnanimousChain(4, 1)
	if err != nil {
		t.Fatalf("BuildUnanimousChain: %v", err)
	}
	state, decErr := New(chain.Headers[0])
	if decErr != nil {
		t.Fatalf("New: %v", decErr)
	}
	proof, perr := fixtures.FinalizationProofFor(chain, 1)
	if perr != nil {
		t.Fatalf("FinalizationProofFor: %v", perr)
	}

	header, dErr := codec.DecodeHeader(chain.Headers[1])
	if dErr != nil {
		t.Fatalf("DecodeHeader: %v", dErr)
	}
	header.PreviousHash = codec.Hash{0xff} // break the chain linkage
	tampered := codec.EncodeHeader(header)

	advErr := Advance(state, tampered, proof, DefaultQuorum)
	if advErr == nil {
		t.Fatal("expected broken-chain rejection")
	}
	if advErr.Kind != engineerrors.HeaderBrokenChain {
		t.Errorf("expected HeaderBrokenChain, got %s", advErr.Kind)
	}
}

func TestAdvanceRejectsReplayedHeader(t *testing.T) {
	chain, err := fixtures.BuildUnanimousChain(4, 1)
	if err != nil {
		t.Fatalf("BuildUnanimousChain: %v", err)
	}
	state, decErr := New(chain.Headers[0])
	if decErr != nil {
		t.Fatalf("New: %v", decErr)
	}
	proof, perr := fixtures.FinalizationProofFor(chain, 1)
	if perr != nil {
		t.Fatalf("FinalizationProofFor: %v", perr)
	}
	if advErr := Advance(state, chain.Headers[1], proof, DefaultQuorum); advErr != nil {
		t.Fatalf("first Advance: %v", advErr)
	}

	// Re-submitting the same header once state has already moved past it
	// trips the height-gap check, since state now expects height 2.
	advErr := Advance(state, chain.Headers[1], proof, DefaultQuorum)
	if advErr == nil {
		t.Fatal("expected rejection of a replayed header")
	}
	if advErr.Kind != engineerrors.HeaderHeightGap {
		t.Errorf("expected HeaderHeightGap, got %s", advErr.Kind)
	}
}

func TestAdvanceRejectsUnknownAuthor(t *testing.T) {
	chain, err := fixtures.BuildUnanimousChain(4, 1)
	if err != nil {
		t.Fatalf("BuildUnanimousChain: %v", err)
	}
	state, decErr := New(chain.Headers[0])
	if decErr != nil {
		t.Fatalf("New: %v", decErr)
	}
	proof, perr := fixtures.FinalizationProofFor(chain, 1)
	if perr != nil {
		t.Fatalf("FinalizationProofFor: %v", perr)
	}

	header, dErr := codec.DecodeHeader(chain.Headers[1])
	if dErr != nil {
		t.Fatalf("DecodeHeader: %v", dErr)
	}
	header.Author = codec.PublicKey{0xde, 0xad, 0xbe, 0xef} // not in genesis validator set
	tampered := codec.EncodeHeader(header)

	advErr := Advance(state, tampered, proof, DefaultQuorum)
	if advErr == nil {
		t.Fatal("expected unknown-author rejection")
	}
	if advErr.Kind != engineerrors.HeaderUnknownAuthor {
		t.Errorf("expected HeaderUnknownAuthor, got %s", advErr.Kind)
	}
}

func TestAdvanceRejectsNonMonotoneTime(t *testing.T) {
	chain, err := fixtures.BuildUnanimousChain(4, 1)
	if err != nil {
		t.Fatalf("BuildUnanimousChain: %v", err)
	}
	state, decErr := New(chain.Headers[0])
	if decErr != nil {
		t.Fatalf("New: %v", decErr)
	}
	proof, perr := fixtures.FinalizationProofFor(chain, 1)
	if perr != nil {
		t.Fatalf("FinalizationProofFor: %v", perr)
	}

	header, dErr := codec.DecodeHeader(chain.Headers[1])
	if dErr != nil {
		t.Fatalf("DecodeHeader: %v", dErr)
	}
	header.Timestamp = 0 // before genesis's timestamp
	tampered := codec.EncodeHeader(header)

	advErr := Advance(state, tampered, proof, DefaultQuorum)
	if advErr == nil {
		t.Fatal("expected non-monotone-time rejection")
	}
	if advErr.Kind != engineerrors.HeaderNonMonotoneTime {
		t.Errorf("expected HeaderNonMonotoneTime, got %s", advErr.Kind)
	}
}
