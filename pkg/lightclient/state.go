// Copyright 2025 Certen Protocol
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

// Package lightclient holds the light-client state and the header-chain
// validator that is the only thing allowed to mutate it. It is a plain
// value plus free-standing operations, not an object with inheritance --
// the corpus's contract-inheritance chain (pausable, reentrancy-guard,
// ownable) collapses into capability structs passed to the operations that
// need them (see pkg/withdrawal for AssetLedger/HostHooks).
package lightclient

import (
	"github.com/certen/bft-lightclient/pkg/codec"
	"github.com/certen/bft-lightclient/pkg/engineerrors"
)

// State holds the last accepted header and the append-only vector of commit
// roots. It has exactly three fields (spec.md §3) and no destructor
// semantics beyond the host's natural lifetime. Only Advance (in this same
// package) may mutate it; every other accessor is read-only.
type State struct {
	heightOffset uint64
	lastHeader   []byte
	commitRoots  []codec.Hash
}

// New constructs a State from a genesis header: heightOffset is the
// genesis header's own height, and commitRoots is seeded with the
// genesis header's commit root (spec.md §6 Construction).
func New(genesisHeaderBytes []byte) (*State, *engineerrors.Error) {
	genesis, err := codec.DecodeHeader(genesisHeaderBytes)
	if err != nil {
		return nil, err
	}
	return &State{
		heightOffset: genesis.BlockHeight,
		lastHeader:   append([]byte(nil), genesisHeaderBytes...),
		commitRoots:  []codec.Hash{genesis.CommitMerkleRoot},
	}, nil
}

// HeightOffset is the height of the genesis header; it never mutates.
func (s *State) HeightOffset() uint64 { return s.heightOffset }

// LastHeader returns a copy of the most recently accepted raw header bytes.
func (s *State) LastHeader() []byte {
	out := make([]byte, len(s.lastHeader))
	copy(out, s.lastHeader)
	return out
}

// CurrentHeight is the height of the last accepted header:
// heightOffset + len(commitRoots) - 1.
func (s *State) CurrentHeight() uint64 {
	return s.heightOffset + uint64(len(s.commitRoots)) - 1
}

// CommitRoots returns a copy of the accepted commit roots, in height order.
func (s *State) CommitRoots() []codec.Hash {
	out := make([]codec.Hash, len(s.commitRoots))
	copy(out, s.commitRoots)
	return out
}

// CommitRootAt returns the commit root accepted at the given absolute
// height, if any.
func (s *State) CommitRootAt(height uint64) (codec.Hash, bool) {
	if height < s.heightOffset || height >= s.heightOffset+uint64(len(s.commitRoots)) {
		return codec.Hash{}, false
	}
	return s.commitRoots[height-s.heightOffset], true
}

// advance is the single package-private mutator. It is called only from
// Advance in validator.go, after every structural, temporal, authorship,
// and quorum check has already succeeded -- a failed call never reaches
// here, so State is never partially mutated (spec.md §4.3 step 7).
func (s *State) advance(newHeaderBytes []byte, newCommitRoot codec.Hash) {
	s.lastHeader = append([]byte(nil), newHeaderBytes...)
	s.commitRoots = append(s.commitRoots, newCommitRoot)
}
